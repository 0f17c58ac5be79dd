package domain

import "encoding/json"

// PaymentStatus representa o estado de um pagamento PIX no Santander
type PaymentStatus string

// Status observados na criação
const (
	PaymentStatusPendingValidation PaymentStatus = "PENDING_VALIDATION"
	PaymentStatusReadyToPay        PaymentStatus = "READY_TO_PAY"
)

// Status observados na confirmação
const (
	PaymentStatusPendingConfirmation PaymentStatus = "PENDING_CONFIRMATION"
	PaymentStatusPayed               PaymentStatus = "PAYED"
)

// PaymentStatusRejected pode aparecer em qualquer etapa
const PaymentStatusRejected PaymentStatus = "REJECTED"

// PaymentStatusAuthorized é o status enviado para confirmar um pagamento
const PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"

// Payment representa um pagamento PIX como devolvido pela API
type Payment struct {
	ID                    string        `json:"id"`
	Status                PaymentStatus `json:"status"`
	RejectReason          string        `json:"rejectReason,omitempty"`
	PaymentValue          string        `json:"paymentValue,omitempty"`
	DictCode              string        `json:"dictCode,omitempty"`
	DictCodeType          string        `json:"dictCodeType,omitempty"`
	RemittanceInformation string        `json:"remittanceInformation,omitempty"`
	Tags                  []string      `json:"tags,omitempty"`
	Beneficiary           *Beneficiary  `json:"beneficiary,omitempty"`

	// Raw guarda o corpo completo da resposta
	Raw json.RawMessage `json:"-"`
}

// IsPaid verifica se o pagamento foi liquidado
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPayed
}

// IsRejected verifica se o banco rejeitou o pagamento
func (p *Payment) IsRejected() bool {
	return p.Status == PaymentStatusRejected
}

// IsReadyToPay verifica se o pagamento pode ser confirmado
func (p *Payment) IsReadyToPay() bool {
	return p.Status == PaymentStatusReadyToPay
}

// Beneficiary representa o favorecido de um PIX por dados bancários
type Beneficiary struct {
	Name           string `json:"name,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	BankCode       string `json:"bankCode,omitempty"`
	ISPB           string `json:"ispb,omitempty"`
	Branch         string `json:"branch,omitempty"`
	Number         string `json:"number,omitempty"`
	Type           string `json:"type,omitempty"`
}

// Workspace representa uma workspace do parceiro no Santander
type Workspace struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// Tipos e status de workspace
const (
	WorkspaceTypePayments = "PAYMENTS"
	WorkspaceStatusActive = "ACTIVE"
)

