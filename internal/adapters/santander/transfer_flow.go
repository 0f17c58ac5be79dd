package santander

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magnani/santander-payments/internal/domain"
)

const rejectReasonNotReturned = "motivo não retornado pelo Santander"

// transferFlow conduz um único pagamento pelos status remotos:
// criação -> READY_TO_PAY -> confirmação -> PAYED.
// Vive apenas durante uma chamada de Transfer.
type transferFlow struct {
	client    *Client
	endpoint  string
	step      domain.TransferStep
	requestID string
	logger    *slog.Logger

	pollInterval           time.Duration
	maxChecksBeforeConfirm int
	maxChecksAfterConfirm  int
}

type confirmPayload struct {
	Status       domain.PaymentStatus `json:"status"`
	PaymentValue string               `json:"paymentValue"`
}

func newTransferFlow(c *Client, endpoint string, o options) *transferFlow {
	return &transferFlow{
		client:                 c,
		endpoint:               endpoint,
		step:                   domain.TransferStepCreate,
		logger:                 c.logger.With("flow_id", uuid.NewString()),
		pollInterval:           o.pollInterval,
		maxChecksBeforeConfirm: o.maxChecksBeforeConfirm,
		maxChecksAfterConfirm:  o.maxChecksAfterConfirm,
	}
}

// createPayment envia o pagamento e exige ID e status na resposta
func (f *transferFlow) createPayment(ctx context.Context, payload any) (*domain.Payment, error) {
	raw, err := f.client.Post(ctx, f.endpoint, payload)
	if err != nil {
		return nil, err
	}

	payment, hasStatus, err := decodePayment(raw)
	if err != nil {
		return nil, err
	}
	f.requestID = payment.ID

	if err := f.checkRejected(payment); err != nil {
		return nil, err
	}
	if payment.ID == "" {
		return nil, NewClientError("ID do pagamento não retornado na criação")
	}
	if !hasStatus {
		return nil, NewClientError("status do pagamento não retornado na criação")
	}

	f.logger.InfoContext(ctx, "pagamento criado", "payment_id", payment.ID, "status", payment.Status)
	return payment, nil
}

// ensureReadyToPay aguarda READY_TO_PAY; o timeout aqui aborta a transferência
func (f *transferFlow) ensureReadyToPay(ctx context.Context, payment *domain.Payment) error {
	if payment.IsReadyToPay() {
		return nil
	}

	f.logger.InfoContext(ctx, "PIX ainda não está pronto para pagamento", "payment_id", payment.ID, "status", payment.Status)
	_, err := f.pollStatus(ctx, payment.ID, domain.PaymentStatusReadyToPay, f.maxChecksBeforeConfirm)
	return err
}

// confirmPayment autoriza o pagamento e acompanha até PAYED.
// Falha HTTP na confirmação vira consulta de status; timeout após a
// confirmação devolve o último status observado.
func (f *transferFlow) confirmPayment(ctx context.Context, paymentID, paymentValue string) (*domain.Payment, error) {
	payload := confirmPayload{Status: domain.PaymentStatusAuthorized, PaymentValue: paymentValue}

	confirmed, err := f.requestConfirm(ctx, paymentID, payload)
	if err != nil {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			return nil, err
		}
		f.logger.ErrorContext(ctx, "falha ao confirmar pagamento, consultando status", "payment_id", paymentID, "error", err)

		confirmed, err = f.requestStatus(ctx, paymentID)
		if err != nil {
			return nil, err
		}
	}

	if confirmed.IsPaid() {
		return confirmed, nil
	}

	settled, err := f.resolvePayed(ctx, paymentID, confirmed.Status)
	if err == nil {
		return settled, nil
	}

	var timeoutErr *StatusTimeoutError
	if !errors.As(err, &timeoutErr) {
		return nil, err
	}
	f.logger.InfoContext(ctx, "tempo esgotado aguardando liquidação", "payment_id", paymentID, "error", err)
	if settled != nil {
		return settled, nil
	}
	return confirmed, nil
}

func (f *transferFlow) requestConfirm(ctx context.Context, paymentID string, payload confirmPayload) (*domain.Payment, error) {
	f.step = domain.TransferStepConfirm
	if paymentID == "" {
		return nil, invalidArgument("payment_id não informado")
	}

	raw, err := f.client.Patch(ctx, f.endpoint+"/"+paymentID, payload)
	if err != nil {
		return nil, err
	}

	payment, _, err := decodePayment(raw)
	if err != nil {
		return nil, err
	}
	if err := f.checkRejected(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// resolvePayed só aceita PENDING_CONFIRMATION como status intermediário
func (f *transferFlow) resolvePayed(ctx context.Context, paymentID string, current domain.PaymentStatus) (*domain.Payment, error) {
	if current != domain.PaymentStatusPendingConfirmation {
		return nil, NewClientError("status inesperado após confirmação: " + string(current))
	}
	return f.pollStatus(ctx, paymentID, domain.PaymentStatusPayed, f.maxChecksAfterConfirm)
}

// pollStatus consulta o status até atingir until ou esgotar maxChecks.
// No timeout, devolve também o último pagamento observado.
func (f *transferFlow) pollStatus(ctx context.Context, paymentID string, until domain.PaymentStatus, maxChecks int) (*domain.Payment, error) {
	if maxChecks <= 0 {
		return nil, NewClientError("nenhuma resposta recebida durante o polling")
	}

	var last *domain.Payment
	for attempt := 1; attempt <= maxChecks; attempt++ {
		payment, err := f.requestStatus(ctx, paymentID)
		if err != nil {
			return last, err
		}
		last = payment

		f.logger.InfoContext(ctx, "verificando status por polling",
			"payment_id", paymentID,
			"status", payment.Status,
			"attempt", attempt,
		)
		if payment.Status == until {
			return payment, nil
		}
		if attempt == maxChecks {
			break
		}

		if err := sleepContext(ctx, f.pollInterval); err != nil {
			return last, err
		}
	}

	return last, &StatusTimeoutError{Step: f.step, Attempts: maxChecks}
}

// requestStatus consulta o status, tentando de novo uma vez em falha HTTP
func (f *transferFlow) requestStatus(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := f.requestStatusOnce(ctx, paymentID)
	if err == nil {
		return payment, nil
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return nil, err
	}
	f.logger.ErrorContext(ctx, "falha ao consultar status, tentando novamente", "payment_id", paymentID, "error", err)
	return f.requestStatusOnce(ctx, paymentID)
}

func (f *transferFlow) requestStatusOnce(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, invalidArgument("payment_id não informado")
	}

	raw, err := f.client.Get(ctx, f.endpoint+"/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	payment, _, err := decodePayment(raw)
	if err != nil {
		return nil, err
	}
	if err := f.checkRejected(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// checkRejected transforma o status REJECTED em erro com a etapa atual
func (f *transferFlow) checkRejected(payment *domain.Payment) error {
	if !payment.IsRejected() {
		return nil
	}
	reason := payment.RejectReason
	if reason == "" {
		reason = rejectReasonNotReturned
	}
	return &RejectedError{Step: f.step, Reason: reason}
}

// decodePayment decodifica o pagamento e informa se a chave status veio na
// resposta; "status": null conta como presente
func decodePayment(raw json.RawMessage) (*domain.Payment, bool, error) {
	payment, err := decodeResponse[domain.Payment](raw, "pagamento PIX")
	if err != nil {
		return nil, false, err
	}
	payment.Raw = raw

	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)
	_, hasStatus := fields["status"]

	return payment, hasStatus, nil
}

// sleepContext espera d ou até o contexto ser cancelado
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
