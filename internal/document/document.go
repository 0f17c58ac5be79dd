// Package document valida e classifica documentos brasileiros (CPF/CNPJ)
// e chaves PIX usadas na montagem das requisições de pagamento.
package document

import (
	"errors"
	"fmt"
	"strings"
)

// KeyType é o tipo de uma chave PIX (dictCodeType na API)
type KeyType string

const (
	KeyTypeCPF     KeyType = "CPF"
	KeyTypeCNPJ    KeyType = "CNPJ"
	KeyTypeEmail   KeyType = "EMAIL"
	KeyTypeEVP     KeyType = "EVP"
	KeyTypeCelular KeyType = "CELULAR"
)

// DocumentType é o tipo de um documento nacional
type DocumentType string

const (
	DocumentTypeCPF  DocumentType = "CPF"
	DocumentTypeCNPJ DocumentType = "CNPJ"
)

const (
	cpfLength  = 11
	cnpjLength = 14
	evpLength  = 32
	// +55 DDD número: 13 dígitos
	celularDigits = 13
)

var (
	// ErrInvalidPixKey indica uma chave PIX que não casa com nenhum formato conhecido
	ErrInvalidPixKey = errors.New("chave PIX em formato inválido")

	// ErrUnknownDocumentType indica um documento que não é CPF nem CNPJ
	ErrUnknownDocumentType = errors.New("tipo de documento desconhecido")
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ClassifyPixKey identifica o tipo de uma chave PIX.
// A ordem importa: CPF e CNPJ válidos vencem EMAIL, EVP e CELULAR.
func ClassifyPixKey(key string) (KeyType, error) {
	key = strings.TrimSpace(key)

	if IsValidCPF(key) {
		return KeyTypeCPF, nil
	}
	if IsValidCNPJ(key) {
		return KeyTypeCNPJ, nil
	}
	if strings.Contains(key, "@") {
		return KeyTypeEmail, nil
	}
	if len(key) == evpLength && isAlphanumeric(key) {
		return KeyTypeEVP, nil
	}
	if strings.HasPrefix(key, "+") && len(OnlyNumbers(key)) == celularDigits {
		return KeyTypeCelular, nil
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidPixKey, key)
}

// ClassifyDocument identifica CPF ou CNPJ pelo número de dígitos
func ClassifyDocument(number string) (DocumentType, error) {
	switch len(OnlyNumbers(number)) {
	case cpfLength:
		return DocumentTypeCPF, nil
	case cnpjLength:
		return DocumentTypeCNPJ, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, number)
}

// OnlyNumbers remove tudo que não for dígito ASCII
func OnlyNumbers(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF valida os dois dígitos verificadores de um CPF
func IsValidCPF(cpf string) bool {
	digits, ok := checkDigits(cpf, cpfLength)
	if !ok {
		return false
	}

	first := cpfCheckDigit(digits[:9], 10)
	second := cpfCheckDigit(digits[:10], 11)

	return digits[9] == first && digits[10] == second
}

// cpfCheckDigit aplica pesos decrescentes a partir de startWeight.
// 11 - resto, e zero quando o resultado passa de 9 (resto 0 ou 1).
func cpfCheckDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	digit := 11 - (sum % 11)
	if digit > 9 {
		return 0
	}
	return digit
}

// IsValidCNPJ valida os dois dígitos verificadores de um CNPJ
func IsValidCNPJ(cnpj string) bool {
	digits, ok := checkDigits(cnpj, cnpjLength)
	if !ok {
		return false
	}

	first := cnpjCheckDigit(digits[:12], cnpjWeights1)
	second := cnpjCheckDigit(digits[:13], cnpjWeights2)

	return digits[12] == first && digits[13] == second
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// checkDigits limpa o documento e rejeita tamanho errado ou dígitos todos iguais
func checkDigits(value string, length int) ([]int, bool) {
	clean := OnlyNumbers(value)
	if len(clean) != length {
		return nil, false
	}
	if strings.Count(clean, clean[:1]) == length {
		return nil, false
	}

	digits := make([]int, length)
	for i := 0; i < length; i++ {
		digits[i] = int(clean[i] - '0')
	}
	return digits, true
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
