package santander

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/magnani/santander-payments/internal/domain"
)

// ReceiptsEndpoint é a base dos comprovantes de pagamento
const ReceiptsEndpoint = "/consult_payment_receipts/v1/payment_receipts"

const (
	receiptsItemsKey   = "paymentsReceipts"
	defaultReceiptPage = "1000"
)

// ReceiptService solicita, consulta e lista comprovantes de pagamento
type ReceiptService struct {
	client *Client
	opts   options
}

// NewReceiptService cria o serviço de comprovantes sobre um cliente já configurado
func NewReceiptService(c *Client, opts ...Option) *ReceiptService {
	return newReceiptService(c, newOptions(opts))
}

func newReceiptService(c *Client, o options) *ReceiptService {
	return &ReceiptService{client: c, opts: o}
}

type createReceiptOptions struct {
	recoverAlreadyRequested bool
}

// CreateReceiptOption customiza uma solicitação de comprovante
type CreateReceiptOption func(*createReceiptOptions)

// WithoutRecovery devolve o erro 006 ao chamador em vez de recuperar pelo histórico
func WithoutRecovery() CreateReceiptOption {
	return func(o *createReceiptOptions) {
		o.recoverAlreadyRequested = false
	}
}

func fileRequestsEndpoint(paymentID string) string {
	return ReceiptsEndpoint + "/" + paymentID + "/file_requests"
}

// Create solicita a geração do comprovante de um pagamento.
// Se o comprovante já foi solicitado (400 com código 006), recupera a última
// solicitação do histórico; se ela estiver em EXPUNGED ou ERROR, solicita de novo.
func (s *ReceiptService) Create(ctx context.Context, paymentID string, opts ...CreateReceiptOption) (*domain.ReceiptRequest, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, invalidArgument("payment_id é obrigatório para solicitar o comprovante")
	}

	o := createReceiptOptions{recoverAlreadyRequested: true}
	for _, opt := range opts {
		opt(&o)
	}

	receipt, err := s.requestFile(ctx, paymentID)
	if err == nil {
		return receipt, nil
	}
	if o.recoverAlreadyRequested && IsAlreadyRequestedReceipt(err) {
		return s.recoverAlreadyRequested(ctx, paymentID)
	}
	return nil, err
}

// Get consulta uma solicitação de comprovante
func (s *ReceiptService) Get(ctx context.Context, paymentID, receiptRequestID string) (*domain.ReceiptRequest, error) {
	if strings.TrimSpace(paymentID) == "" || strings.TrimSpace(receiptRequestID) == "" {
		return nil, invalidArgument("payment_id e receipt_request_id são obrigatórios")
	}

	raw, err := s.client.Get(ctx, fileRequestsEndpoint(paymentID)+"/"+receiptRequestID, nil)
	if err != nil {
		return nil, err
	}
	return normalizeReceipt(raw, paymentID)
}

// History lista as solicitações de comprovante já feitas para o pagamento
func (s *ReceiptService) History(ctx context.Context, paymentID string) (*domain.ReceiptHistory, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, invalidArgument("payment_id não informado")
	}

	raw, err := s.client.Get(ctx, fileRequestsEndpoint(paymentID), nil)
	if err != nil {
		return nil, err
	}
	return decodeResponse[domain.ReceiptHistory](raw, "histórico de comprovantes")
}

// Pages retorna um Pager sobre a listagem de comprovantes.
// _limit padrão é 1000; params não é alterado.
func (s *ReceiptService) Pages(params url.Values) *Pager[domain.PaymentReceipt] {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if query.Get("_limit") == "" {
		query.Set("_limit", defaultReceiptPage)
	}

	fetch := func(ctx context.Context, q url.Values) (json.RawMessage, error) {
		return s.client.Get(ctx, ReceiptsEndpoint, q)
	}
	return newPager[domain.PaymentReceipt](fetch, query, receiptsItemsKey)
}

// List percorre todas as páginas e devolve os comprovantes em ordem
func (s *ReceiptService) List(ctx context.Context, params url.Values) ([]domain.PaymentReceipt, error) {
	return s.Pages(params).All(ctx)
}

// WaitAvailable consulta a solicitação até o comprovante ficar AVAILABLE.
// EXPUNGED ou ERROR encerram a espera com ErrReceiptUnavailable; esgotar as
// consultas devolve o último registro junto com ErrReceiptWaitTimeout.
func (s *ReceiptService) WaitAvailable(ctx context.Context, paymentID, receiptRequestID string) (*domain.ReceiptRequest, error) {
	var last *domain.ReceiptRequest
	for attempt := 1; attempt <= s.opts.maxReceiptChecks; attempt++ {
		receipt, err := s.Get(ctx, paymentID, receiptRequestID)
		if err != nil {
			return last, err
		}
		last = receipt

		if receipt.IsAvailable() {
			return receipt, nil
		}
		if receipt.Status.IsDead() {
			return receipt, &ClientError{Message: "comprovante em " + string(receipt.Status), Err: ErrReceiptUnavailable}
		}
		if attempt == s.opts.maxReceiptChecks {
			break
		}

		if err := sleepContext(ctx, s.opts.pollInterval); err != nil {
			return last, err
		}
	}

	return last, fmt.Errorf("%w: %d consultas", ErrReceiptWaitTimeout, s.opts.maxReceiptChecks)
}

// Download copia o arquivo de um comprovante disponível em w
func (s *ReceiptService) Download(ctx context.Context, receipt *domain.ReceiptRequest, w io.Writer) error {
	if receipt == nil || strings.TrimSpace(receipt.Location) == "" {
		return invalidArgument("comprovante sem localização do arquivo")
	}
	return s.client.Download(ctx, receipt.Location, w)
}

// DownloadFile salva o arquivo do comprovante em path.
// Em falha, o arquivo parcial é removido.
func (s *ReceiptService) DownloadFile(ctx context.Context, receipt *domain.ReceiptRequest, path string) (err error) {
	if strings.TrimSpace(path) == "" {
		return invalidArgument("caminho do arquivo não informado")
	}
	if receipt == nil || strings.TrimSpace(receipt.Location) == "" {
		return invalidArgument("comprovante sem localização do arquivo")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo do comprovante: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("erro ao salvar arquivo do comprovante: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return s.Download(ctx, receipt, f)
}

func (s *ReceiptService) requestFile(ctx context.Context, paymentID string) (*domain.ReceiptRequest, error) {
	raw, err := s.client.Post(ctx, fileRequestsEndpoint(paymentID), nil)
	if err != nil {
		return nil, err
	}
	return normalizeReceipt(raw, paymentID)
}

func (s *ReceiptService) recoverAlreadyRequested(ctx context.Context, paymentID string) (*domain.ReceiptRequest, error) {
	logger := s.client.logger.With("payment_id", paymentID)
	logger.InfoContext(ctx, "comprovante já solicitado, buscando a solicitação no histórico")

	history, err := s.History(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if len(history.Requests) == 0 {
		logger.ErrorContext(ctx, "nenhum comprovante anterior no histórico")
		return nil, &ClientError{Message: "recuperação de comprovante", Err: ErrReceiptHistoryEmpty}
	}

	last := history.Requests[len(history.Requests)-1]
	if last.Request.RequestID == "" {
		return nil, &ClientError{Message: "recuperação de comprovante", Err: ErrReceiptRequestIDMissing}
	}

	receipt, err := s.Get(ctx, paymentID, last.Request.RequestID)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.IsDead() {
		return receipt, nil
	}

	logger.InfoContext(ctx, "último comprovante em estado de erro, solicitando outro",
		"receipt_request_id", receipt.ReceiptRequestID,
		"status", receipt.Status,
	)
	if err := sleepContext(ctx, s.opts.receiptRecreationDelay); err != nil {
		return nil, err
	}
	return s.requestFile(ctx, paymentID)
}

// normalizeReceipt extrai ID da solicitação, status e localização do arquivo
func normalizeReceipt(raw json.RawMessage, paymentID string) (*domain.ReceiptRequest, error) {
	entry, err := decodeResponse[domain.ReceiptHistoryEntry](raw, "comprovante")
	if err != nil {
		return nil, err
	}

	receipt := &domain.ReceiptRequest{
		PaymentID:        paymentID,
		ReceiptRequestID: entry.Request.RequestID,
		Data:             raw,
	}
	if entry.File != nil {
		receipt.Status = entry.File.StatusInfo.StatusCode
		receipt.Location = entry.File.FileRepository.Location
	}
	return receipt, nil
}
