package domain

import "encoding/json"

// ReceiptStatus representa o estado de uma solicitação de comprovante
type ReceiptStatus string

const (
	ReceiptStatusRequested ReceiptStatus = "REQUESTED"
	ReceiptStatusAvailable ReceiptStatus = "AVAILABLE"
	ReceiptStatusExpunged  ReceiptStatus = "EXPUNGED"
	ReceiptStatusError     ReceiptStatus = "ERROR"
)

// IsDead indica um comprovante que não pode mais ser baixado
func (s ReceiptStatus) IsDead() bool {
	return s == ReceiptStatusExpunged || s == ReceiptStatusError
}

// ReceiptRequest é o registro normalizado de uma solicitação de comprovante
type ReceiptRequest struct {
	PaymentID        string          `json:"payment_id"`
	ReceiptRequestID string          `json:"receipt_request_id,omitempty"`
	Status           ReceiptStatus   `json:"status,omitempty"`
	Location         string          `json:"location,omitempty"`
	Data             json.RawMessage `json:"data,omitempty"`
}

// IsAvailable verifica se o arquivo já pode ser baixado
func (r *ReceiptRequest) IsAvailable() bool {
	return r.Status == ReceiptStatusAvailable
}

// ReceiptHistory lista as solicitações anteriores de um pagamento
type ReceiptHistory struct {
	Requests []ReceiptHistoryEntry `json:"paymentReceiptsFileRequests"`
}

// ReceiptHistoryEntry é uma solicitação no histórico
type ReceiptHistoryEntry struct {
	Request struct {
		RequestID string `json:"requestId"`
	} `json:"request"`
	File *ReceiptFile `json:"file,omitempty"`
}

// ReceiptFile descreve o arquivo gerado de um comprovante
type ReceiptFile struct {
	StatusInfo struct {
		StatusCode ReceiptStatus `json:"statusCode"`
	} `json:"statusInfo"`
	FileRepository struct {
		Location string `json:"location"`
	} `json:"fileRepository"`
}

// PaymentReceipt é um item da listagem paginada de comprovantes
type PaymentReceipt struct {
	Payment struct {
		PaymentID      string `json:"paymentId"`
		CommitmentDate string `json:"commitmentDate,omitempty"`
	} `json:"payment"`
	Category ReceiptCode `json:"category"`
	Channel  ReceiptCode `json:"channel"`
}

// ReceiptCode é um par código/descrição da listagem
type ReceiptCode struct {
	Code string `json:"code"`
}
