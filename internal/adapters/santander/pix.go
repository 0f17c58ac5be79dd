package santander

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magnani/santander-payments/internal/document"
	"github.com/magnani/santander-payments/internal/domain"
)

// PixEndpoint é o recurso de pagamentos PIX da workspace
const PixEndpoint = "/management_payments_partners/v1/workspaces/:workspaceid/pix_payments"

// PixService executa transferências PIX e consultas de pagamento
type PixService struct {
	client *Client
	opts   options
}

// NewPixService cria o serviço PIX sobre um cliente já configurado
func NewPixService(c *Client, opts ...Option) *PixService {
	return newPixService(c, newOptions(opts))
}

func newPixService(c *Client, o options) *PixService {
	return &PixService{client: c, opts: o}
}

type createPixPayload struct {
	ID                    string              `json:"id,omitempty"`
	Tags                  []string            `json:"tags"`
	PaymentValue          string              `json:"paymentValue"`
	RemittanceInformation string              `json:"remittanceInformation"`
	DictCode              string              `json:"dictCode,omitempty"`
	DictCodeType          string              `json:"dictCodeType,omitempty"`
	Beneficiary           *domain.Beneficiary `json:"beneficiary,omitempty"`
}

// Transfer envia um PIX por chave ou por dados bancários e acompanha até a
// liquidação. Nunca retorna erro: a falha vem descrita no resultado.
func (s *PixService) Transfer(ctx context.Context, req domain.PixTransferRequest) domain.TransferResult {
	flow := newTransferFlow(s.client, PixEndpoint, s.opts)

	payment, err := s.transfer(ctx, flow, req)
	if err != nil {
		kind := classifyError(ctx, err)
		flow.logger.ErrorContext(ctx, "transferência PIX falhou",
			"payment_id", flow.requestID,
			"step", flow.step,
			"error_kind", kind,
			"error", err.Error(),
		)
		if kind == domain.ErrorKindUnknown {
			flow.logger.ErrorContext(ctx, "erro inesperado na transferência PIX", "type", fmt.Sprintf("%T", err))
		}
		return domain.TransferResult{
			Success:   false,
			RequestID: flow.requestID,
			Error:     err.Error(),
			ErrorKind: kind,
		}
	}

	return domain.TransferResult{
		Success:   true,
		RequestID: flow.requestID,
		Data:      payment,
	}
}

func (s *PixService) transfer(ctx context.Context, flow *transferFlow, req domain.PixTransferRequest) (*domain.Payment, error) {
	if !req.Value.IsPositive() {
		return nil, invalidArgument("valor da transferência deve ser maior que zero")
	}

	payload, err := buildCreatePayload(req)
	if err != nil {
		return nil, err
	}

	created, err := flow.createPayment(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := flow.ensureReadyToPay(ctx, created); err != nil {
		return nil, err
	}
	return flow.confirmPayment(ctx, created.ID, payload.PaymentValue)
}

// GetTransfer consulta um pagamento PIX pelo ID
func (s *PixService) GetTransfer(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, invalidArgument("payment_id não informado")
	}

	raw, err := s.client.Get(ctx, PixEndpoint+"/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	payment, _, err := decodePayment(raw)
	return payment, err
}

// buildCreatePayload monta o corpo de criação com o valor truncado em 2 casas
func buildCreatePayload(req domain.PixTransferRequest) (*createPixPayload, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	payload := &createPixPayload{
		ID:                    req.ID,
		Tags:                  tags,
		PaymentValue:          document.TruncateAmount(req.Value),
		RemittanceInformation: req.Description,
	}

	pixKey := strings.TrimSpace(req.PixKey)
	switch {
	case pixKey != "" && req.Beneficiary != nil:
		return nil, invalidArgument("informe a chave PIX ou o beneficiário, não os dois")

	case pixKey != "":
		keyType, err := document.ClassifyPixKey(pixKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		payload.DictCode = pixKey
		payload.DictCodeType = string(keyType)

	case req.Beneficiary != nil:
		beneficiary, err := normalizeBeneficiary(*req.Beneficiary)
		if err != nil {
			return nil, err
		}
		payload.Beneficiary = &beneficiary

	default:
		return nil, invalidArgument("chave PIX ou beneficiário não informado")
	}

	return payload, nil
}

// normalizeBeneficiary exige bankCode ou ispb (bankCode prevalece) e
// preenche o tipo do documento a partir do número
func normalizeBeneficiary(b domain.Beneficiary) (domain.Beneficiary, error) {
	if b.BankCode == "" && b.ISPB == "" {
		return b, invalidArgument("beneficiário sem bankCode ou ispb")
	}
	if b.BankCode != "" && b.ISPB != "" {
		b.ISPB = ""
	}

	if b.DocumentNumber != "" && b.DocumentType == "" {
		docType, err := document.ClassifyDocument(b.DocumentNumber)
		if err != nil {
			return b, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		b.DocumentType = string(docType)
	}
	return b, nil
}

// classifyError converte o erro da transferência no ErrorKind do resultado
func classifyError(ctx context.Context, err error) domain.ErrorKind {
	var (
		rejected  *RejectedError
		timeout   *StatusTimeoutError
		reqErr    *RequestError
		clientErr *ClientError
	)

	switch {
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return domain.ErrorKindCanceled
	case errors.Is(err, ErrInvalidArgument):
		return domain.ErrorKindInvalidArgument
	case errors.As(err, &rejected):
		return domain.ErrorKindRejected
	case errors.As(err, &timeout):
		return domain.ErrorKindStatusTimeout
	case errors.As(err, &reqErr):
		return domain.ErrorKindRequest
	case errors.As(err, &clientErr):
		return domain.ErrorKindClient
	default:
		return domain.ErrorKindUnknown
	}
}
