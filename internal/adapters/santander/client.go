package santander

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"

	"github.com/magnani/santander-payments/internal/config"
)

// workspacePlaceholder é substituído pelo ID da workspace nos endpoints
var workspacePlaceholder = regexp.MustCompile(`(?i):workspaceid`)

// Client executa requisições autenticadas na API Santander.
// Cada chamada é enviada uma única vez: retentativas ficam com quem conhece o domínio.
type Client struct {
	cfg        config.SantanderConfig
	httpClient *http.Client
	auth       *TokenManager
	logger     *slog.Logger
}

// NewClient cria o cliente com mTLS configurado.
// Sem workspace na configuração, resolve a primeira workspace PAYMENTS ativa
// e devolve um cliente já com a configuração resolvida.
func NewClient(ctx context.Context, cfg config.SantanderConfig, opts ...Option) (*Client, error) {
	return newClient(ctx, cfg, newOptions(opts))
}

func newClient(ctx context.Context, cfg config.SantanderConfig, o options) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ClientError{Message: "configuração inválida", Err: err}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		var err error
		httpClient, err = newHTTPClient(cfg)
		if err != nil {
			return nil, &ClientError{Message: "erro ao configurar transporte", Err: err}
		}
	}

	auth := NewTokenManager(cfg.ClientID, cfg.ClientSecret, cfg.BaseURL, httpClient)
	auth.now = o.now

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		auth:       auth,
		logger:     o.logger,
	}
	if cfg.WorkspaceID != "" {
		return c, nil
	}

	workspaceID, err := ResolveWorkspace(ctx, c)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "workspace obtida e configurada com sucesso", "workspace_id", workspaceID)

	return c.withConfig(cfg.WithWorkspaceID(workspaceID)), nil
}

// withConfig devolve um novo cliente com a configuração informada,
// compartilhando transporte e token
func (c *Client) withConfig(cfg config.SantanderConfig) *Client {
	clone := *c
	clone.cfg = cfg
	return &clone
}

// Config retorna a configuração resolvida do cliente
func (c *Client) Config() config.SantanderConfig {
	return c.cfg
}

// TokenManager retorna o gerenciador de tokens compartilhado
func (c *Client) TokenManager() *TokenManager {
	return c.auth
}

// Logger retorna o logger injetado
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Get executa um GET com query params opcionais
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, endpoint, nil, params)
}

// Post executa um POST com body JSON opcional
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, endpoint, body, nil)
}

// Put executa um PUT com body JSON
func (c *Client) Put(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPut, endpoint, body, nil)
}

// Patch executa um PATCH com body JSON
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPatch, endpoint, body, nil)
}

// Delete executa um DELETE
func (c *Client) Delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodDelete, endpoint, nil, nil)
}

// prepareURL substitui o placeholder de workspace no endpoint
func (c *Client) prepareURL(endpoint string) (string, error) {
	if !workspacePlaceholder.MatchString(endpoint) {
		return endpoint, nil
	}
	if c.cfg.WorkspaceID == "" {
		return "", NewClientError("ID da workspace não configurado")
	}
	return workspacePlaceholder.ReplaceAllLiteralString(endpoint, c.cfg.WorkspaceID), nil
}

// request executa uma requisição HTTP autenticada
func (c *Client) request(ctx context.Context, method, endpoint string, body any, params url.Values) (json.RawMessage, error) {
	path, err := c.prepareURL(endpoint)
	if err != nil {
		return nil, err
	}

	fullURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	entry := requestLog{method: method, url: fullURL, requestBody: body, params: params}

	// Prepara o body se houver
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(ctx, entry, &RequestError{Message: "erro ao serializar body: " + err.Error(), Err: err})
		}
		reqBody = bytes.NewReader(payload)
	}

	headers, err := c.auth.AuthHeaders(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, c.fail(ctx, entry, &RequestError{Message: "erro ao criar requisição: " + err.Error(), Err: err})
	}
	for key, values := range headers {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Executa
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, entry, &RequestError{Message: "erro na requisição: " + err.Error(), Err: err})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, entry, &RequestError{Message: "erro ao ler resposta: " + err.Error(), Err: err})
	}
	entry.statusCode = resp.StatusCode
	entry.responseBody = respBody

	if !isSuccess(resp.StatusCode) {
		// Token recusado: a próxima chamada renova
		if resp.StatusCode == http.StatusUnauthorized {
			c.auth.Invalidate()
		}
		return nil, c.fail(ctx, entry, &RequestError{
			Message:    "código de resposta sem sucesso",
			StatusCode: resp.StatusCode,
			Content:    parseJSONObject(respBody),
		})
	}

	c.logRequestSuccess(ctx, entry)
	return normalizeBody(respBody), nil
}

// Download baixa um arquivo por URL absoluta (ex: localização de um
// comprovante) e copia o conteúdo em w. A URL já vem assinada pelo
// Santander, então não leva headers de autenticação.
func (c *Client) Download(ctx context.Context, location string, w io.Writer) error {
	entry := requestLog{method: http.MethodGet, url: location}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return c.fail(ctx, entry, &RequestError{Message: "erro ao criar requisição: " + err.Error(), Err: err})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, entry, &RequestError{Message: "erro na requisição: " + err.Error(), Err: err})
	}
	defer resp.Body.Close()
	entry.statusCode = resp.StatusCode

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		entry.responseBody = body
		return c.fail(ctx, entry, &RequestError{
			Message:    "erro ao baixar arquivo",
			StatusCode: resp.StatusCode,
			Content:    parseJSONObject(body),
		})
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return c.fail(ctx, entry, &RequestError{Message: "erro ao copiar arquivo: " + err.Error(), StatusCode: resp.StatusCode, Err: err})
	}

	c.logRequestSuccess(ctx, entry)
	return nil
}

func (c *Client) fail(ctx context.Context, entry requestLog, err *RequestError) error {
	entry.err = err
	c.logRequestError(ctx, entry)
	return err
}

// normalizeBody devolve {} quando a resposta não é uma estrutura JSON
func normalizeBody(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return json.RawMessage("{}")
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return json.RawMessage("{}")
	}
	return json.RawMessage(trimmed)
}

// decodeResponse decodifica a resposta em T; formato inesperado é erro do cliente
func decodeResponse[T any](raw json.RawMessage, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ClientError{Message: "resposta malformada em " + what, Err: err}
	}
	return &v, nil
}
