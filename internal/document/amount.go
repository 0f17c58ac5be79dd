package document

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TruncateAmount trunca (nunca arredonda) o valor em 2 casas decimais.
// Formato ponto fixo, sem separador de milhar: 10.999 -> "10.99", 50 -> "50.00".
func TruncateAmount(value decimal.Decimal) string {
	return value.Shift(2).Floor().Shift(-2).StringFixed(2)
}

// ParseAmount converte um valor textual (ex: "10.50") para decimal
func ParseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q: %w", value, err)
	}
	return d, nil
}
