package santander

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/magnani/santander-payments/internal/domain"
)

// Código de erro do Santander para comprovante já solicitado
const ErrCodeAlreadyRequestedReceipt = "006"

// Erros sentinela para condições comuns
var (
	// ErrInvalidArgument indica entrada malformada ou ausente do chamador
	ErrInvalidArgument = errors.New("santander: argumento inválido")

	// ErrReceiptHistoryEmpty indica que não há solicitações anteriores de comprovante
	ErrReceiptHistoryEmpty = errors.New("santander: nenhum comprovante anterior no histórico")

	// ErrReceiptRequestIDMissing indica histórico sem o ID da solicitação
	ErrReceiptRequestIDMissing = errors.New("santander: ID da solicitação de comprovante não encontrado no histórico")

	// ErrReceiptUnavailable indica comprovante em EXPUNGED ou ERROR, que não será gerado
	ErrReceiptUnavailable = errors.New("santander: comprovante indisponível")

	// ErrReceiptWaitTimeout indica que o comprovante não ficou disponível dentro do limite de consultas
	ErrReceiptWaitTimeout = errors.New("santander: tempo esgotado aguardando o comprovante")
)

// invalidArgument cria um erro que envolve ErrInvalidArgument
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ClientError representa uma inconsistência local ou de configuração
// (workspace ausente, resposta malformada, histórico esgotado)
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("santander: erro do cliente: %s: %v", e.Message, e.Err)
	}
	return "santander: erro do cliente: " + e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError cria um novo ClientError
func NewClientError(message string) *ClientError {
	return &ClientError{Message: message}
}

// RequestError representa uma falha HTTP ou de transporte.
// StatusCode é 0 quando a requisição nem chegou a ter resposta.
type RequestError struct {
	Message    string
	StatusCode int
	Content    map[string]any
	Err        error
}

func (e *RequestError) Error() string {
	details := "sem detalhes da resposta"
	if e.Content != nil {
		if b, err := json.Marshal(e.Content); err == nil {
			details = string(b)
		}
	}
	return fmt.Sprintf("santander: falha na requisição: %s - %d %s", e.Message, e.StatusCode, details)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ErrorCodes extrai os códigos de erro de um corpo {"errors": [{"code": ...}]}
func (e *RequestError) ErrorCodes() []string {
	list, ok := e.Content["errors"].([]any)
	if !ok {
		return nil
	}
	var codes []string
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if code, ok := entry["code"].(string); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// HasErrorCode verifica se o corpo do erro contém o código informado
func (e *RequestError) HasErrorCode(code string) bool {
	for _, c := range e.ErrorCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// RejectedError indica que o banco rejeitou o pagamento
type RejectedError struct {
	Step   domain.TransferStep
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("santander: pagamento rejeitado pelo banco na etapa %s - %s", e.Step, e.Reason)
}

// StatusTimeoutError indica que o polling esgotou as tentativas
type StatusTimeoutError struct {
	Step     domain.TransferStep
	Attempts int
}

func (e *StatusTimeoutError) Error() string {
	return fmt.Sprintf("santander: limite de %d tentativas de atualização de status atingido na etapa %s", e.Attempts, e.Step)
}

// IsInvalidArgument retorna true se o erro veio de entrada inválida
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsClientError retorna true se o erro é uma inconsistência local
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// IsRejected retorna true se o banco rejeitou o pagamento
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// IsStatusTimeout retorna true se o polling de status esgotou
func IsStatusTimeout(err error) bool {
	var timeout *StatusTimeoutError
	return errors.As(err, &timeout)
}

// IsNotFound retorna true se o erro indica que o recurso não foi encontrado
func IsNotFound(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized retorna true se o erro indica falha de autenticação
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsAlreadyRequestedReceipt retorna true para o erro 400 com código 006
func IsAlreadyRequestedReceipt(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.StatusCode == http.StatusBadRequest && reqErr.HasErrorCode(ErrCodeAlreadyRequestedReceipt)
}
