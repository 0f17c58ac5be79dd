package santander

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magnani/santander-payments/internal/config"
)

const (
	testWorkspaceID = "ws-1"
	testPixPath     = "/management_payments_partners/v1/workspaces/ws-1/pix_payments"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func (c recordedCall) jsonBody(t *testing.T) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(c.Body, &body))
	return body
}

type response struct {
	status int
	body   any
}

// fakeAPI simula a API Santander; rotas são "MÉTODO /caminho"
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	calls    []recordedCall
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{t: t, handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	f.handle(http.MethodPost, TokenEndpoint, reply(http.StatusOK, map[string]any{
		"access_token": "token-1",
		"expires_in":   900,
		"token_type":   "Bearer",
	}))
	return f
}

func (f *fakeAPI) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"errors": []any{map[string]any{"code": "404"}}})
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	h(w, r)
}

func (f *fakeAPI) callsTo(method, path string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []recordedCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) allCalls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeAPI) config() config.SantanderConfig {
	return config.SantanderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      f.server.URL,
		WorkspaceID:  testWorkspaceID,
	}
}

func (f *fakeAPI) options(extra ...Option) []Option {
	opts := []Option{
		WithHTTPClient(f.server.Client()),
		WithPollInterval(time.Millisecond),
		WithReceiptRecreationDelay(0),
	}
	return append(opts, extra...)
}

func (f *fakeAPI) newSDK(extra ...Option) *SDK {
	f.t.Helper()
	sdk, err := New(context.Background(), f.config(), f.options(extra...)...)
	require.NoError(f.t, err)
	return sdk
}

func (f *fakeAPI) newClient(cfg config.SantanderConfig, extra ...Option) *Client {
	f.t.Helper()
	c, err := NewClient(context.Background(), cfg, f.options(extra...)...)
	require.NoError(f.t, err)
	return c
}

func reply(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	}
}

// sequence devolve as respostas em ordem, repetindo a última
func sequence(responses ...response) http.HandlerFunc {
	var (
		mu sync.Mutex
		i  int
	)
	return func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		r := responses[i]
		if i < len(responses)-1 {
			i++
		}
		mu.Unlock()
		writeJSON(w, r.status, r.body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if s, ok := body.(string); ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, s)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func payment(id, status string) map[string]any {
	return map[string]any{"id": id, "status": status}
}
