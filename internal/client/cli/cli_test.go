package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tradetrack/internal/client/auth"
	"github.com/iudanet/tradetrack/internal/client/iocli"
	pkgapi "github.com/iudanet/tradetrack/pkg/api"
)

const testPassword = "correct-horse-battery"

// fakeServer хранит только то, что нужно командам: соль, рабочие пространства и полученные записи
type fakeServer struct {
	salt       string
	workspaces []pkgapi.Workspace
	received   []string
	mu         sync.Mutex
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	f := &fakeServer{}
	const userID = "9d1b8f6a-2f4e-4c55-a0d5-3b7f1e2c4a10"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.HealthResponse{Status: "ok"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.salt = req.PublicSalt
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, pkgapi.RegisterResponse{UserID: userID, Message: "ok"})
	})
	mux.HandleFunc("GET /api/v1/auth/salt/{username}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, pkgapi.SaltResponse{PublicSalt: f.salt})
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.TokenResponse{AccessToken: "a1", RefreshToken: "r1", UserID: userID, ExpiresIn: 900})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/workspaces", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.CreateWorkspaceRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		ws := pkgapi.Workspace{ID: req.ID, Name: req.Name, OwnerID: userID, Role: "owner"}
		f.mu.Lock()
		f.workspaces = append(f.workspaces, ws)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, ws)
	})
	mux.HandleFunc("GET /api/v1/workspaces", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, pkgapi.ListWorkspacesResponse{Workspaces: f.workspaces})
	})
	record := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.received = append(f.received, r.Method+" "+r.PathValue("table"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
	mux.HandleFunc("POST /api/v1/tables/{table}", record)
	mux.HandleFunc("PATCH /api/v1/tables/{table}/{id}", record)
	mux.HandleFunc("DELETE /api/v1/tables/{table}/{id}", record)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	t       *testing.T
	server  string
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(PasswordEnv, testPassword)
	return &harness{t: t, server: newFakeServer(t).URL, dataDir: t.TempDir()}
}

// run выполняет команду как отдельный запуск процесса и возвращает вывод
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	opts := &Options{
		IO:      iocli.New(strings.NewReader(""), &out),
		Stderr:  io.Discard,
		Version: "test",
	}
	full := append([]string{"--server", h.server, "--data-dir", h.dataDir}, args...)
	err := Execute(context.Background(), opts, full)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "tradetrack %s", strings.Join(args, " "))
	return out
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func lastID(t *testing.T, out string) string {
	t.Helper()
	id := uuidPattern.FindString(out)
	require.NotEmpty(t, id, out)
	return id
}

func TestCLI_OfflineFirstWorkflow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "product", "--set", "name=Widget")
	require.ErrorIs(t, err, auth.ErrNotLoggedIn)

	out := h.mustRun("register", "-u", "alice")
	assert.Contains(t, out, "Registered alice")

	out = h.mustRun("login", "-u", "alice")
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, "No workspace selected")

	out = h.mustRun("workspace", "create", "Corner", "shop")
	assert.Contains(t, out, `Created workspace "Corner shop"`)
	wsID := lastID(t, out)

	out = h.mustRun("workspace", "list")
	assert.Contains(t, out, "* "+wsID)

	out = h.mustRun("add", "product", "--no-sync", "--set", "name=Widget", "--set", "selling_price=9.5")
	assert.NotContains(t, out, "Synced")
	productID := lastID(t, out)
	out = h.mustRun("add", "customer", "--no-sync", "--set", "name=Acme")
	customerID := lastID(t, out)
	h.mustRun("add", "sale", "--no-sync",
		"--set", "customer_id="+customerID,
		"--set", "sale_date=today",
		"--set", "total_amount=19",
		"--set", "payment_method=cash",
		"--item", "product_id="+productID+",quantity=2,unit_price=9.5,total_price=19")
	h.mustRun("update", "product", productID, "--no-sync", "--set", "current_stock=8")

	out = h.mustRun("list", "products")
	assert.Contains(t, out, productID+"  local   Widget")
	assert.Contains(t, out, "Total: 1")

	out = h.mustRun("get", "product", productID)
	assert.Contains(t, out, "current_stock:     8")
	assert.Contains(t, out, "waiting for sync")

	out = h.mustRun("queue")
	assert.Equal(t, 5, strings.Count(out, "pending"))
	assert.Contains(t, out, "create products/"+productID)

	out = h.mustRun("sync")
	assert.Contains(t, out, "Sent 5 change(s): 5 completed, 0 will be retried, 0 failed")

	out = h.mustRun("sync")
	assert.Contains(t, out, "Nothing to sync")

	out = h.mustRun("get", "product", productID)
	assert.Contains(t, out, "State:             synced")

	out = h.mustRun("status", "--output", "yaml")
	assert.Contains(t, out, "online: true")
	assert.Contains(t, out, "completed: 5")
	assert.Contains(t, out, "last_sync_time:")

	out = h.mustRun("queue")
	assert.Contains(t, out, "Queue is empty")

	out = h.mustRun("logout")
	assert.Contains(t, out, "Logged out")

	_, err = h.run("status")
	require.ErrorIs(t, err, auth.ErrNotLoggedIn)
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-u", "bob")
	h.mustRun("login", "-u", "bob")

	_, err := h.run("list", "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workspace selected")

	h.mustRun("workspace", "create", "Shop")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown table", args: []string{"add", "invoice"}, want: "unknown record type"},
		{name: "missing required", args: []string{"add", "customer", "--set", "phone=1"}, want: "missing required fields: name"},
		{name: "sale without items", args: []string{"add", "sale", "--set", "customer_id=c1", "--set", "sale_date=2024-05-01",
			"--set", "total_amount=1", "--set", "payment_method=cash"}, want: "at least one item"},
		{name: "items on plain table", args: []string{"add", "product", "--set", "name=x", "--item", "quantity=1"}, want: "do not have items"},
		{name: "empty update", args: []string{"update", "product", uuid.NewString()}, want: "nothing to update"},
		{name: "update missing record", args: []string{"update", "product", uuid.NewString(), "--set", "name=x"}, want: "not found"},
		{name: "bad status filter", args: []string{"queue", "--status", "lost"}, want: "unknown status"},
		{name: "bad output", args: []string{"status", "-o", "xml"}, want: "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCLI_WriteIsSentRightAway(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-u", "dan")
	h.mustRun("login", "-u", "dan")
	h.mustRun("workspace", "create", "Shop")

	out := h.mustRun("add", "product", "--set", "name=Widget")
	assert.Contains(t, out, "Synced 1 change(s)")
	productID := lastID(t, out)

	out = h.mustRun("update", "product", productID, "--set", "current_stock=4")
	assert.Contains(t, out, "Synced 1 change(s)")

	out = h.mustRun("get", "product", productID)
	assert.Contains(t, out, "State:             synced")

	out = h.mustRun("delete", "product", productID)
	assert.Contains(t, out, "Synced 1 change(s)")

	out = h.mustRun("status", "--output", "yaml")
	assert.Contains(t, out, "completed: 3")
	assert.Contains(t, out, "pending: 0")
}

func TestCLI_SyncOffline(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-u", "carol")
	h.mustRun("login", "-u", "carol")
	h.mustRun("workspace", "create", "Shop")

	// сервер недоступен: запись сохраняется локально и остается в очереди
	server := h.server
	h.server = "http://127.0.0.1:1"
	out := h.mustRun("add", "supplier", "--set", "name=Farm")
	assert.Contains(t, out, "Added supplier")
	assert.Contains(t, out, "the change stays queued")

	_, err := h.run("sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")

	out = h.mustRun("status")
	assert.Contains(t, out, "Connection: offline")
	assert.Contains(t, out, "Pending:    1")

	h.server = server
	out = h.mustRun("sync")
	assert.Contains(t, out, "1 completed")
}

func TestCredentials_PasswordSources(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(file, []byte("from-file-password\n"), 0o600))

	mockIO := &iocli.IOMock{
		ReadInputFunc:    func(prompt string) (string, error) { return "dave", nil },
		ReadPasswordFunc: func(prompt string) (string, error) { return "typed-password", nil },
	}
	opts := &Options{IO: mockIO}

	t.Setenv(PasswordEnv, "")

	creds := credentialFlags{}
	user, password, err := creds.read(opts, true)
	require.NoError(t, err)
	assert.Equal(t, "dave", user)
	assert.Equal(t, "typed-password", password)
	assert.Len(t, mockIO.ReadPasswordCalls(), 2, "при регистрации пароль вводится дважды")

	creds = credentialFlags{username: "erin", passwordFile: file}
	user, password, err = creds.read(opts, false)
	require.NoError(t, err)
	assert.Equal(t, "erin", user)
	assert.Equal(t, "from-file-password", password)

	// переменная окружения важнее файла
	t.Setenv(PasswordEnv, "from-env-password")
	_, password, err = creds.read(opts, false)
	require.NoError(t, err)
	assert.Equal(t, "from-env-password", password)

	mockIO.ReadPasswordFunc = func(prompt string) (string, error) { return "", errors.New("no tty") }
	t.Setenv(PasswordEnv, "")
	creds = credentialFlags{username: "frank"}
	_, _, err = creds.read(opts, false)
	require.Error(t, err)
}
