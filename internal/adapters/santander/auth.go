package santander

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// TokenEndpoint é o endpoint OAuth2 client credentials
	TokenEndpoint = "/auth/oauth/v2/token"

	// Tempo antes da expiração em que o token já é considerado vencido
	tokenRefreshLead = 60 * time.Second
)

// TokenResponse representa a resposta do endpoint de autenticação OAuth2
type TokenResponse struct {
	AccessToken *string `json:"access_token"`
	ExpiresIn   *int64  `json:"expires_in"`
	TokenType   string  `json:"token_type,omitempty"`
}

// TokenManager gerencia o token OAuth2 e o renova sob demanda.
// O mutex só protege os campos: renovações concorrentes não são deduplicadas.
type TokenManager struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	token       string
	expiresAt   time.Time
	refreshLead time.Duration
}

// NewTokenManager cria um novo gerenciador de tokens
func NewTokenManager(clientID, clientSecret, baseURL string, httpClient *http.Client) *TokenManager {
	return &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   httpClient,
		now:          time.Now,
		refreshLead:  tokenRefreshLead, // Renova 1 minuto antes de expirar
	}
}

// AuthHeaders retorna os headers de autenticação, renovando o token se necessário
func (tm *TokenManager) AuthHeaders(ctx context.Context) (http.Header, error) {
	token, err := tm.Token(ctx)
	if err != nil {
		return nil, err
	}

	h := make(http.Header)
	h.Set("Authorization", "Bearer "+token)
	h.Set("X-Application-Key", tm.clientID)
	return h, nil
}

// Token retorna um token válido, renovando se necessário
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	if tm.IsExpired() {
		if err := tm.Renew(ctx); err != nil {
			return "", err
		}
	}

	tm.mu.Lock()
	token := tm.token
	tm.mu.Unlock()

	if token == "" {
		return "", &RequestError{Message: "token não foi obtido"}
	}
	return token, nil
}

// IsExpired indica se não há token ou se ele vence dentro da janela de 60s
func (tm *TokenManager) IsExpired() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token == "" || tm.expiresAt.IsZero() {
		return true
	}
	return !tm.now().Before(tm.expiresAt.Add(-tm.refreshLead))
}

// Renew obtém um novo token da API
func (tm *TokenManager) Renew(ctx context.Context) error {
	form := url.Values{}
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.baseURL+TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &RequestError{Message: "erro ao criar requisição de auth: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return &RequestError{Message: "erro na requisição de auth: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: "erro ao ler resposta de auth: " + err.Error(), StatusCode: resp.StatusCode, Err: err}
	}

	content := parseJSONObject(respBody)

	if !isSuccess(resp.StatusCode) {
		return &RequestError{
			Message:    authErrorMessage(content, respBody),
			StatusCode: resp.StatusCode,
			Content:    content,
		}
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil || tokenResp.AccessToken == nil || tokenResp.ExpiresIn == nil {
		return &RequestError{Message: "resposta de token inválida", StatusCode: resp.StatusCode, Content: content}
	}

	// Atualiza o cache
	tm.mu.Lock()
	tm.token = *tokenResp.AccessToken
	tm.expiresAt = tm.now().Add(time.Duration(*tokenResp.ExpiresIn) * time.Second)
	tm.mu.Unlock()

	return nil
}

// Invalidate força a renovação do token na próxima chamada
// Útil quando recebemos erro 401
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = ""
	tm.expiresAt = time.Time{}
}

// ExpiresAt retorna o instante de expiração declarado pelo servidor
func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.expiresAt
}

// authErrorMessage prefere error_description, depois o corpo cru, depois uma mensagem genérica
func authErrorMessage(content map[string]any, body []byte) string {
	if desc, ok := content["error_description"].(string); ok && desc != "" {
		return desc
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return "erro de autenticação"
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// parseJSONObject devolve o corpo como objeto JSON, ou nil se não for um
func parseJSONObject(body []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return obj
}
