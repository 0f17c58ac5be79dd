package santander

import (
	"context"
	"net/url"

	"github.com/magnani/santander-payments/internal/config"
	"github.com/magnani/santander-payments/internal/domain"
	"github.com/magnani/santander-payments/internal/ports"
)

// Verifica em tempo de compilação que o SDK implementa as portas
var (
	_ ports.PixTransferProvider = (*SDK)(nil)
	_ ports.ReceiptProvider     = (*SDK)(nil)
)

// SDK reúne cliente, PIX e comprovantes sob uma única configuração
type SDK struct {
	client   *Client
	pix      *PixService
	receipts *ReceiptService
}

// New cria o cliente (resolvendo a workspace se necessário) e os serviços
func New(ctx context.Context, cfg config.SantanderConfig, opts ...Option) (*SDK, error) {
	o := newOptions(opts)

	client, err := newClient(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	return &SDK{
		client:   client,
		pix:      newPixService(client, o),
		receipts: newReceiptService(client, o),
	}, nil
}

// Client retorna o cliente HTTP autenticado
func (s *SDK) Client() *Client {
	return s.client
}

// Pix retorna o serviço de transferências PIX
func (s *SDK) Pix() *PixService {
	return s.pix
}

// Receipts retorna o serviço de comprovantes
func (s *SDK) Receipts() *ReceiptService {
	return s.receipts
}

// Transfer envia um PIX e acompanha até a liquidação
func (s *SDK) Transfer(ctx context.Context, req domain.PixTransferRequest) domain.TransferResult {
	return s.pix.Transfer(ctx, req)
}

// GetTransfer consulta um pagamento PIX
func (s *SDK) GetTransfer(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.pix.GetTransfer(ctx, paymentID)
}

// CreateReceipt solicita o comprovante de um pagamento
func (s *SDK) CreateReceipt(ctx context.Context, paymentID string) (*domain.ReceiptRequest, error) {
	return s.receipts.Create(ctx, paymentID)
}

// GetReceipt consulta uma solicitação de comprovante
func (s *SDK) GetReceipt(ctx context.Context, paymentID, receiptRequestID string) (*domain.ReceiptRequest, error) {
	return s.receipts.Get(ctx, paymentID, receiptRequestID)
}

// ListReceipts lista todos os comprovantes
func (s *SDK) ListReceipts(ctx context.Context, params url.Values) ([]domain.PaymentReceipt, error) {
	return s.receipts.List(ctx, params)
}
