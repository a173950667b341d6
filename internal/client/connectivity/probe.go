package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Checker проверяет доступность сервера
type Checker interface {
	Health(ctx context.Context) error
}

const (
	DefaultProbeInterval = 30 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

// Prober periodically checks the backend health endpoint and feeds the result
// into a Monitor. It never retries on its own; the next tick is the retry.
type Prober struct {
	checker  Checker
	monitor  *Monitor
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

// NewProber создает пробер. Нулевые интервал и таймаут заменяются значениями по умолчанию.
func NewProber(checker Checker, monitor *Monitor, interval, timeout time.Duration, logger *slog.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		checker:  checker,
		monitor:  monitor,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Probe выполняет одну проверку и обновляет монитор
func (p *Prober) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.checker.Health(ctx)
	if parent := context.Cause(ctx); parent != nil && !errors.Is(parent, context.DeadlineExceeded) {
		// проверка прервана остановкой, состояние не меняем
		return p.monitor.IsOnline()
	}
	online := err == nil
	if p.monitor.Set(online) {
		if online {
			p.logger.Info("Backend is reachable, switching to online")
		} else {
			p.logger.Warn("Backend is unreachable, switching to offline", slog.Any("error", err))
		}
	}
	return online
}

// Run probes immediately and then on every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) error {
	p.Probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}
