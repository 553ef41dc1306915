package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote comprado (una caja) dentro de una categoría.
// CostPerUnit, SuggestedPrice y SuggestedTotal se derivan al escribir el lote con el
// multiplicador vigente de la categoría; no se recalculan si el margen cambia después.
type Lot struct {
	ID             string
	Name           string
	Quantity       int
	CostTotal      decimal.Decimal // valor pagado por el lote completo
	CostPerUnit    decimal.Decimal // CostTotal / Quantity
	SuggestedPrice decimal.Decimal // CostPerUnit * multiplicador
	SuggestedTotal decimal.Decimal // SuggestedPrice * Quantity
	DateAdded      time.Time       // solo fecha (medianoche UTC)
}
