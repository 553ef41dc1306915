package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CostPerUnit implementa el costo unitario de un lote (servicio de dominio).
// CostoUnitario = CostoTotal / Cantidad
func CostPerUnit(costTotal decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return costTotal.Div(decimal.NewFromInt(int64(quantity)))
}

// SuggestedPrice PrecioSugerido = CostoUnitario * Multiplicador
func SuggestedPrice(costPerUnit, multiplier decimal.Decimal) decimal.Decimal {
	return costPerUnit.Mul(multiplier)
}

// SuggestedTotal ValorTotalSugerido = PrecioSugerido * Cantidad
func SuggestedTotal(suggestedPrice decimal.Decimal, quantity int) decimal.Decimal {
	return suggestedPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// MultiplierFromPercent convierte un porcentaje sobre el costo en multiplicador.
// Ej: 185 → 2.85
func MultiplierFromPercent(percentAboveCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percentAboveCost.Div(hundred))
}

// ParseDecimal interpreta un número escrito por el usuario aceptando coma o punto
// como separador decimal ("12,50" == "12.50"). Solo admite valores finitos.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: número vacío", domain.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: número inválido %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}
