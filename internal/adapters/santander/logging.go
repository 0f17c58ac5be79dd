package santander

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/magnani/santander-payments/internal/config"
)

// discardHandler descarta todos os registros (logger padrão)
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// NopLogger retorna um logger que não escreve nada
func NopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

// requestLog descreve uma requisição para o log condicional
type requestLog struct {
	method       string
	url          string
	requestBody  any
	params       url.Values
	statusCode   int
	responseBody []byte
	err          error
}

func shouldLogAll(level string) bool {
	return strings.EqualFold(level, config.LogLevelAll)
}

func shouldLogError(level string) bool {
	return shouldLogAll(level) || strings.EqualFold(level, config.LogLevelError)
}

// logRequestSuccess registra a requisição bem-sucedida quando o nível é ALL
func (c *Client) logRequestSuccess(ctx context.Context, r requestLog) {
	if !shouldLogAll(c.cfg.LogLevel) {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "requisição à API concluída", r.attrs()...)
}

// logRequestError registra a requisição com falha quando o nível é ALL ou ERROR
func (c *Client) logRequestError(ctx context.Context, r requestLog) {
	if !shouldLogError(c.cfg.LogLevel) {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelError, "requisição à API falhou", r.attrs()...)
}

func (r requestLog) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", r.method),
		slog.String("url", r.url),
		slog.Any("request_body", r.requestBody),
		slog.Any("request_params", paramsForLog(r.params)),
	}

	if r.statusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", r.statusCode))
	} else {
		attrs = append(attrs, slog.Any("status_code", nil))
	}

	var body any
	if len(r.responseBody) > 0 && json.Valid(r.responseBody) {
		body = json.RawMessage(r.responseBody)
	}
	attrs = append(attrs, slog.Any("response_body", body))

	if r.err == nil {
		return append(attrs, slog.String("status", "success"))
	}
	return append(attrs,
		slog.String("status", "error"),
		slog.Group("error",
			slog.String("message", r.err.Error()),
			slog.String("type", fmt.Sprintf("%T", r.err)),
		),
	)
}

func paramsForLog(params url.Values) any {
	if params == nil {
		return nil
	}
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	return flat
}
