package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
	"beneficios.club/internal/catalog"
	"beneficios.club/internal/stream"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

type testEnv struct {
	*apiClient
	identities *auth.InMemoryIdentityStore
	registry   auth.AdminRegistry
	audits     audit.Store
	recorder   *audit.Recorder
}

type envOption func(*Deps)

func withRegistry(reg auth.AdminRegistry) envOption {
	return func(d *Deps) { d.Registry = reg }
}

func withAuditStore(s audit.Store) envOption {
	return func(d *Deps) { d.Audit = s }
}

func newTestAPI(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	t.Setenv("BENEFICIOS_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()

	identities := auth.NewInMemoryIdentityStore()
	deps := Deps{
		Auth:       auth.NewService(identities, time.Hour),
		Identities: identities,
		Registry:   auth.NewInMemoryRegistry(),
		Catalog:    catalog.NewService(catalog.NewInMemory()),
		Audit:      audit.NewInMemoryStore(),
		Stream:     stream.New(),
		RateBurst:  200,
		RatePerSec: 200,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	deps.Recorder = audit.NewRecorder(deps.Audit, deps.Stream)

	api := New(ReadyProbe{}, "test", deps)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		apiClient: &apiClient{
			baseURL: srv.URL,
			client:  srv.Client(),
			t:       t,
		},
		identities: identities,
		registry:   deps.Registry,
		audits:     deps.Audit,
		recorder:   deps.Recorder,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPost, path, body, headers)
}

func (c *apiClient) put(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPut, path, body, headers)
}

func (c *apiClient) del(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodDelete, path, nil, headers)
}

func (c *apiClient) get(path string, params url.Values, headers map[string]string) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func dataOf(t *testing.T, r *http.Response) map[string]any {
	t.Helper()
	payload := decode[map[string]any](t, r)
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %v", payload)
	}
	return data
}

// signup creates a user and returns a bearer token. When admin is set
// the user is registered in the admin-role registry and the cached flag
// is stamped before login, so the token carries admin=true.
func (env *testEnv) signup(email, nombre string, admin bool) string {
	t := env.t
	t.Helper()
	ctx := context.Background()

	resp := env.post("/v1/auth/register", map[string]any{
		"email":    email,
		"nombre":   nombre,
		"password": "hunter2-secret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: unexpected status %d", email, resp.StatusCode)
	}
	user := dataOf(t, resp)

	if admin {
		if _, err := env.registry.Add(ctx, email); err != nil {
			t.Fatalf("registry add: %v", err)
		}
		if err := env.identities.SetAdmin(ctx, user["id"].(string), true); err != nil {
			t.Fatalf("set admin: %v", err)
		}
	}

	resp = env.post("/v1/auth/login", map[string]any{
		"email":    email,
		"password": "hunter2-secret",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: unexpected status %d", email, resp.StatusCode)
	}
	payload := decode[loginResponse](t, resp)
	if payload.Token == "" {
		t.Fatal("empty token issued")
	}
	return payload.Token
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	env := newTestAPI(t)

	for _, path := range []string{"/healthz", "/readyz", "/v1/info"} {
		resp := env.get(path, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	env := newTestAPI(t)

	resp := env.post("/v1/auth/register", map[string]any{
		"email":    "ana@beneficios.club",
		"nombre":   "Ana",
		"password": "hunter2-secret",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	user := dataOf(t, resp)
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in response")
	}

	resp = env.post("/v1/auth/register", map[string]any{
		"email":    "ana@beneficios.club",
		"nombre":   "Ana Again",
		"password": "hunter2-secret",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}

	resp = env.post("/v1/auth/login", map[string]any{
		"email":    "ana@beneficios.club",
		"password": "wrong-password",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestCatalogReadsRequireAuthentication(t *testing.T) {
	env := newTestAPI(t)

	resp := env.get("/v1/beneficios", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var errBody map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody["error"] == "" {
		t.Fatal("expected error message")
	}
}
