// Package ports define as interfaces (portas) para adaptadores externos
// Seguindo o padrão Hexagonal Architecture / Ports & Adapters
package ports

import (
	"context"
	"net/url"

	"github.com/magnani/santander-payments/internal/domain"
)

// ──────────────────────────────────────────────
// Provider interfaces
// ──────────────────────────────────────────────

// PixTransferProvider define a interface para transferências PIX de saída
type PixTransferProvider interface {
	// Transfer cria, confirma e acompanha um PIX até a liquidação.
	// Nunca devolve erro: falhas vêm em TransferResult.
	Transfer(ctx context.Context, req domain.PixTransferRequest) domain.TransferResult

	// GetTransfer consulta um pagamento PIX pelo ID
	GetTransfer(ctx context.Context, paymentID string) (*domain.Payment, error)
}

// ReceiptProvider define a interface para comprovantes de pagamento
type ReceiptProvider interface {
	// CreateReceipt solicita (ou recupera) o comprovante de um pagamento
	CreateReceipt(ctx context.Context, paymentID string) (*domain.ReceiptRequest, error)

	// GetReceipt consulta uma solicitação de comprovante
	GetReceipt(ctx context.Context, paymentID, receiptRequestID string) (*domain.ReceiptRequest, error)

	// ListReceipts lista todos os comprovantes, percorrendo as páginas
	ListReceipts(ctx context.Context, params url.Values) ([]domain.PaymentReceipt, error)
}
