package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ferdiebergado/susi/internal/account"
	"github.com/ferdiebergado/susi/internal/app"
	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/pkg/web"
	"github.com/ferdiebergado/susi/internal/platform/email"
	"github.com/ferdiebergado/susi/internal/platform/hash"
	"github.com/ferdiebergado/susi/internal/platform/jwt"
	"github.com/ferdiebergado/susi/internal/platform/router"
	"github.com/ferdiebergado/susi/internal/platform/validation"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

// inbox keeps the last code mailed to each address.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) mailer() *email.StubMailer {
	return &email.StubMailer{
		SendHTMLFunc: func(_ context.Context, to []string, _, _ string, data map[string]string) error {
			i.mu.Lock()
			defer i.mu.Unlock()
			i.codes[to[0]] = data["Code"]
			return nil
		},
	}
}

func (i *inbox) code(t *testing.T, address string) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	code, ok := i.codes[address]
	if !ok {
		t.Fatalf("no code mailed to %s", address)
	}
	return code
}

func newTestServer(t *testing.T) (*httptest.Server, *inbox) {
	t.Helper()

	cfg := config.Default()
	signer, err := jwt.NewGolangJWTSigner(cfg.JWT, "e2e-secret")
	if err != nil {
		t.Fatal(err)
	}

	box := &inbox{codes: make(map[string]string)}
	a, err := app.New(cfg, &app.Provider{
		Store:     account.NewMemoryStore(),
		Signer:    signer,
		Mailer:    box.mailer(),
		Validator: validation.NewGoPlaygroundValidator(),
		Hasher:    hash.NewBcryptHasher(bcrypt.MinCost),
		Router:    router.NewGoexpressRouter(),
		Registry:  prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, box
}

func postJSON(t *testing.T, srv *httptest.Server, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(web.HeaderContentType, web.MimeJSON)

	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func expectStatus(t *testing.T, res *http.Response, want int) {
	t.Helper()
	if res.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want: %d", res.Request.Method, res.Request.URL.Path, res.StatusCode, want)
	}
}

func TestApp_AccountLifecycle(t *testing.T) {
	t.Parallel()

	srv, box := newTestServer(t)
	const (
		addr     = "max@example.com"
		password = "first-pass"
		newPass  = "second-pass"
	)

	res := postJSON(t, srv, "/auth/register", map[string]string{"email": "Max@Example.com", "password": password})
	expectStatus(t, res, http.StatusCreated)

	res = postJSON(t, srv, "/auth/register", map[string]string{"email": addr, "password": password})
	expectStatus(t, res, http.StatusConflict)

	res = postJSON(t, srv, "/auth/login", map[string]string{"email": addr, "password": password})
	expectStatus(t, res, http.StatusForbidden)

	res = postJSON(t, srv, "/auth/verify/resend", map[string]string{"email": addr})
	expectStatus(t, res, http.StatusOK)

	res = postJSON(t, srv, "/auth/verify", map[string]string{"email": addr, "code": box.code(t, addr)})
	expectStatus(t, res, http.StatusOK)

	res = postJSON(t, srv, "/auth/login", map[string]string{"email": addr, "password": password})
	expectStatus(t, res, http.StatusOK)

	var login web.OKResponse[struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}]
	if err := json.NewDecoder(res.Body).Decode(&login); err != nil {
		t.Fatal(err)
	}
	if login.Data.Token == "" || login.Data.User.Email != addr {
		t.Fatalf("login data = %+v, want a token for %s", login.Data, addr)
	}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/auth/session", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	sessionRes, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer sessionRes.Body.Close()
	expectStatus(t, sessionRes, http.StatusOK)

	body := web.DecodeJSONResponse(t, sessionRes)
	data, _ := body["data"].(map[string]any)
	if data["account_id"] != login.Data.User.ID {
		t.Errorf("session account_id = %v, want: %q", data["account_id"], login.Data.User.ID)
	}

	res = postJSON(t, srv, "/auth/password/forgot", map[string]string{"email": addr})
	expectStatus(t, res, http.StatusOK)

	res = postJSON(t, srv, "/auth/password/reset", map[string]string{"email": addr, "code": box.code(t, addr), "password": newPass})
	expectStatus(t, res, http.StatusOK)

	res = postJSON(t, srv, "/auth/login", map[string]string{"email": addr, "password": password})
	expectStatus(t, res, http.StatusForbidden)

	res = postJSON(t, srv, "/auth/login", map[string]string{"email": addr, "password": newPass})
	expectStatus(t, res, http.StatusOK)
}

func TestApp_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name, path string
		payload    any
		code       int
	}{
		{"missing password", "/auth/register", map[string]string{"email": "a@example.com"}, http.StatusBadRequest},
		{"short password", "/auth/register", map[string]string{"email": "a@example.com", "password": "123"}, http.StatusBadRequest},
		{"unknown field", "/auth/login", map[string]string{"email": "a@example.com", "password": "x", "otp": "1"}, http.StatusUnprocessableEntity},
		{"unknown account", "/auth/password/forgot", map[string]string{"email": "ghost@example.com"}, http.StatusNotFound},
		{"malformed email", "/auth/register", map[string]string{"email": "not-an-email", "password": "s3cret-pass"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := postJSON(t, srv, tt.path, tt.payload)
			expectStatus(t, res, tt.code)
		})
	}
}

func TestApp_AcceptsPaddedEmail(t *testing.T) {
	t.Parallel()

	srv, box := newTestServer(t)
	const password = "padded-pass"

	res := postJSON(t, srv, "/auth/register", map[string]string{"email": "  Lee@Example.com ", "password": password})
	expectStatus(t, res, http.StatusCreated)

	code := box.code(t, "lee@example.com")
	res = postJSON(t, srv, "/auth/verify", map[string]string{"email": " lee@example.com", "code": code})
	expectStatus(t, res, http.StatusOK)

	res = postJSON(t, srv, "/auth/login", map[string]string{"email": "lee@example.com ", "password": password})
	expectStatus(t, res, http.StatusOK)
}

func TestApp_OpsEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	// generate at least one auth series
	res := postJSON(t, srv, "/auth/password/forgot", map[string]string{"email": "ghost@example.com"})
	expectStatus(t, res, http.StatusNotFound)

	get := func(path string) (*http.Response, string) {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+path, http.NoBody)
		if err != nil {
			t.Fatal(err)
		}
		res, err := srv.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatal(err)
		}
		return res, string(body)
	}

	res, _ = get("/healthz")
	expectStatus(t, res, http.StatusOK)

	res, body := get("/metrics")
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(body, "susi_auth_operations_total") {
		t.Errorf("/metrics body does not expose susi_auth_operations_total")
	}
}
