package santander

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnani/santander-payments/internal/config"
)

func TestClient_PrepareURL(t *testing.T) {
	tests := []struct {
		name      string
		workspace string
		endpoint  string
		want      string
		wantErr   bool
	}{
		{"sem placeholder", "", "/foo/bar", "/foo/bar", false},
		{"placeholder minúsculo", "ws-9", "/w/:workspaceid/pix", "/w/ws-9/pix", false},
		{"placeholder misto", "ws-9", "/w/:workspaceId/pix", "/w/ws-9/pix", false},
		{"placeholder maiúsculo", "ws-9", "/w/:WORKSPACEID/pix", "/w/ws-9/pix", false},
		{"sem workspace configurada", "", "/w/:workspaceid/pix", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{cfg: config.SantanderConfig{WorkspaceID: tt.workspace}}

			got, err := c.prepareURL(tt.endpoint)
			if tt.wantErr {
				assert.True(t, IsClientError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_ResolvesWorkspace(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, WorkspacesEndpoint, reply(http.StatusOK, map[string]any{
		"_content": []any{
			map[string]any{"id": "w0", "type": "DIGITAL_CORBAN", "status": "ACTIVE"},
			map[string]any{"id": "w1", "type": "PAYMENTS", "status": "INACTIVE"},
			map[string]any{"id": "w2", "type": "PAYMENTS", "status": "ACTIVE"},
			map[string]any{"id": "w3", "type": "PAYMENTS", "status": "ACTIVE"},
		},
	}))

	cfg := api.config()
	cfg.WorkspaceID = ""

	c := api.newClient(cfg)
	assert.Equal(t, "w2", c.Config().WorkspaceID)
	assert.Empty(t, cfg.WorkspaceID)
	assert.Len(t, api.callsTo(http.MethodGet, WorkspacesEndpoint), 1)
}

func TestNewClient_SkipsResolutionWhenConfigured(t *testing.T) {
	api := newFakeAPI(t)

	c := api.newClient(api.config())
	assert.Equal(t, testWorkspaceID, c.Config().WorkspaceID)
	assert.Empty(t, api.allCalls())
}

func TestNewClient_NoActivePaymentsWorkspace(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, WorkspacesEndpoint, reply(http.StatusOK, map[string]any{
		"_content": []any{
			map[string]any{"id": "w1", "type": "PAYMENTS", "status": "INACTIVE"},
			map[string]any{"id": "", "type": "PAYMENTS", "status": "ACTIVE"},
		},
	}))

	cfg := api.config()
	cfg.WorkspaceID = ""

	_, err := NewClient(context.Background(), cfg, api.options()...)
	assert.True(t, IsClientError(err))
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.SantanderConfig{BaseURL: "http://localhost"})
	assert.True(t, IsClientError(err))
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "/echo", reply(http.StatusOK, map[string]any{"ok": true}))

	c := api.newClient(api.config())
	raw, err := c.Post(context.Background(), "/echo", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))

	calls := api.callsTo(http.MethodPost, "/echo")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer token-1", calls[0].Header.Get("Authorization"))
	assert.Equal(t, "client-id", calls[0].Header.Get("X-Application-Key"))
	assert.Equal(t, "application/json", calls[0].Header.Get("Content-Type"))
	assert.JSONEq(t, `{"a": 1}`, string(calls[0].Body))
}

func TestClient_QueryParams(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/items", reply(http.StatusOK, []any{1, 2}))

	c := api.newClient(api.config())
	raw, err := c.Get(context.Background(), "/items", url.Values{"_limit": {"10"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(raw))

	calls := api.callsTo(http.MethodGet, "/items")
	require.Len(t, calls, 1)
	assert.Equal(t, "_limit=10", calls[0].Query)
}

func TestClient_NonStructuredBody(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"texto", "ok"},
		{"vazio", ""},
		{"escalar JSON", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle(http.MethodDelete, "/thing", reply(http.StatusOK, tt.body))

			c := api.newClient(api.config())
			raw, err := c.Delete(context.Background(), "/thing")
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(raw))
		})
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPut, "/thing", reply(http.StatusUnprocessableEntity, map[string]any{
		"errors": []any{map[string]any{"code": "123", "message": "campo inválido"}},
	}))

	c := api.newClient(api.config())
	_, err := c.Put(context.Background(), "/thing", map[string]any{})

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
	assert.Equal(t, []string{"123"}, reqErr.ErrorCodes())
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "campo inválido")
}

func TestClient_UnauthorizedInvalidatesToken(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "/thing", sequence(
		response{http.StatusUnauthorized, map[string]any{"message": "token expirado"}},
		response{http.StatusOK, map[string]any{"ok": true}},
	))

	c := api.newClient(api.config())

	_, err := c.Get(context.Background(), "/thing", nil)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, c.TokenManager().IsExpired())

	_, err = c.Get(context.Background(), "/thing", nil)
	require.NoError(t, err)
	assert.Len(t, api.callsTo(http.MethodPost, TokenEndpoint), 2)
}

func TestClient_TransportFailure(t *testing.T) {
	api := newFakeAPI(t)
	c := api.newClient(api.config())

	// garante o token antes de derrubar o servidor
	_, err := c.TokenManager().Token(context.Background())
	require.NoError(t, err)
	api.server.Close()

	_, err = c.Get(context.Background(), "/thing", nil)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.StatusCode)
}

func TestClient_ConditionalLogging(t *testing.T) {
	tests := []struct {
		level       string
		wantSuccess bool
		wantError   bool
	}{
		{config.LogLevelAll, true, true},
		{"all", true, true},
		{config.LogLevelError, false, true},
		{"NONE", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle(http.MethodGet, "/ok", reply(http.StatusOK, map[string]any{"ok": true}))
			api.handle(http.MethodGet, "/fail", reply(http.StatusBadRequest, map[string]any{"errors": []any{}}))

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			cfg := api.config()
			cfg.LogLevel = tt.level
			c := api.newClient(cfg, WithLogger(logger))

			_, err := c.Get(context.Background(), "/ok", url.Values{"q": {"1"}})
			require.NoError(t, err)
			_, err = c.Get(context.Background(), "/fail", nil)
			require.Error(t, err)

			records := decodeLogLines(t, &buf)

			var successes, failures []map[string]any
			for _, r := range records {
				switch r["status"] {
				case "success":
					successes = append(successes, r)
				case "error":
					failures = append(failures, r)
				}
			}

			if tt.wantSuccess {
				require.Len(t, successes, 1)
				assert.Equal(t, "GET", successes[0]["method"])
				assert.Equal(t, float64(http.StatusOK), successes[0]["status_code"])
				assert.Equal(t, map[string]any{"q": "1"}, successes[0]["request_params"])
			} else {
				assert.Empty(t, successes)
			}

			if tt.wantError {
				require.Len(t, failures, 1)
				assert.Equal(t, "ERROR", failures[0]["level"])
				errGroup, ok := failures[0]["error"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "*santander.RequestError", errGroup["type"])
			} else {
				assert.Empty(t, failures)
			}
		})
	}
}

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var r map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		records = append(records, r)
	}
	return records
}
