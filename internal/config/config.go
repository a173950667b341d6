// Package config loads client and server settings from a YAML file,
// TRADETRACK_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/iudanet/tradetrack/internal/logging"
)

// EnvPrefix - префикс переменных окружения
const EnvPrefix = "TRADETRACK"

// ErrInvalidConfig возвращается при неверных значениях настроек
var ErrInvalidConfig = errors.New("invalid config")

// Client - настройки клиента
type Client struct {
	Log            logging.Config `mapstructure:"log"`
	ServerURL      string         `mapstructure:"server_url"`
	DataDir        string         `mapstructure:"data_dir"`
	DBFile         string         `mapstructure:"db_file"`
	SessionFile    string         `mapstructure:"session_file"`
	SyncInterval   time.Duration  `mapstructure:"sync_interval"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	ProbeInterval  time.Duration  `mapstructure:"probe_interval"`
	ProbeTimeout   time.Duration  `mapstructure:"probe_timeout"`
}

// RateLimit - ограничение частоты запросов к auth endpoints
type RateLimit struct {
	Auth   int           `mapstructure:"auth"`
	Window time.Duration `mapstructure:"window"`
	// TrustProxy - брать адрес клиента из X-Forwarded-For/X-Real-IP
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Server - настройки сервера
type Server struct {
	Log             logging.Config `mapstructure:"log"`
	Addr            string         `mapstructure:"addr"`
	DBFile          string         `mapstructure:"db_file"`
	JWTSecret       string         `mapstructure:"jwt_secret"`
	RateLimit       RateLimit      `mapstructure:"rate_limit"`
	AccessTokenTTL  time.Duration  `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration  `mapstructure:"refresh_token_ttl"`
	ShutdownTimeout time.Duration  `mapstructure:"shutdown_timeout"`
}

// New создает viper с поддержкой переменных окружения TRADETRACK_*
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultDir возвращает каталог по умолчанию для данных и конфигурации
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tradetrack"
	}
	return filepath.Join(home, ".tradetrack")
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}

// LoadClient reads client settings. An explicit configFile must exist; the
// default $HOME/.tradetrack/config.yaml is optional.
func LoadClient(v *viper.Viper, configFile string) (*Client, error) {
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("data_dir", DefaultDir())
	v.SetDefault("db_file", "tradetrack.db")
	v.SetDefault("session_file", "session.db")
	v.SetDefault("sync_interval", 5*time.Minute)
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("probe_interval", 30*time.Second)
	v.SetDefault("probe_timeout", 5*time.Second)
	setLogDefaults(v)
	// CLI не должен засорять вывод info-сообщениями
	v.SetDefault("log.level", "warn")

	if err := readConfig(v, configFile); err != nil {
		return nil, err
	}

	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет настройки клиента
func (c *Client) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server_url %q must be an http(s) URL", ErrInvalidConfig, c.ServerURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{
		"sync_interval":   c.SyncInterval,
		"request_timeout": c.RequestTimeout,
		"probe_interval":  c.ProbeInterval,
		"probe_timeout":   c.ProbeTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DBPath возвращает путь к локальной базе
func (c *Client) DBPath() string {
	return resolve(c.DataDir, c.DBFile)
}

// SessionPath возвращает путь к файлу сессии
func (c *Client) SessionPath() string {
	return resolve(c.DataDir, c.SessionFile)
}

// LoadServer reads server settings
func LoadServer(v *viper.Viper, configFile string) (*Server, error) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_file", "tradetrack-server.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("access_token_ttl", 15*time.Minute)
	v.SetDefault("refresh_token_ttl", 30*24*time.Hour)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("rate_limit.auth", 5)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.trust_proxy", false)
	setLogDefaults(v)

	if err := readConfig(v, configFile); err != nil {
		return nil, err
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет настройки сервера
func (c *Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("%w: jwt_secret must be at least 32 characters", ErrInvalidConfig)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: token ttl must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.Auth <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Watch вызывает onChange после каждого изменения файла конфигурации.
// Работает, только если файл был прочитан.
func Watch(v *viper.Viper, onChange func(v *viper.Viper)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Remove) {
			return
		}
		onChange(v)
	})
	v.WatchConfig()
	return true
}

func readConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(DefaultDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
