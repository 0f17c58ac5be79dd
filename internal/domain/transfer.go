package domain

import "github.com/shopspring/decimal"

// TransferStep marca a etapa do fluxo de transferência (só avança)
type TransferStep string

const (
	TransferStepCreate  TransferStep = "CREATE"
	TransferStepConfirm TransferStep = "CONFIRM"
)

// PixTransferRequest descreve uma transferência PIX.
// Informe PixKey ou Beneficiary, nunca os dois.
type PixTransferRequest struct {
	PixKey      string
	Beneficiary *Beneficiary
	Value       decimal.Decimal
	Description string
	Tags        []string

	// ID opcional de idempotência definido pelo chamador
	ID string
}

// ErrorKind classifica a falha de uma transferência
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindInvalidArgument ErrorKind = "invalid_argument"
	ErrorKindClient          ErrorKind = "client"
	ErrorKindRequest         ErrorKind = "request"
	ErrorKindRejected        ErrorKind = "rejected"
	ErrorKindStatusTimeout   ErrorKind = "status_timeout"
	ErrorKindCanceled        ErrorKind = "canceled"
	ErrorKindUnknown         ErrorKind = "unknown"
)

// TransferResult é o envelope devolvido pela transferência, com sucesso ou não
type TransferResult struct {
	Success   bool      `json:"success"`
	RequestID string    `json:"request_id,omitempty"`
	Data      *Payment  `json:"data"`
	Error     string    `json:"error"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}
