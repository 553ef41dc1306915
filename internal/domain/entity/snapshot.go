package entity

import "github.com/shopspring/decimal"

// Snapshot es el estado completo de la raíz de la aplicación, tal como se entrega
// al adaptador de persistencia después de cada comando.
// Stock y ProfitMargin nil significan "blob ausente" (se usan los valores por defecto).
type Snapshot struct {
	Stock        map[Category][]Lot
	ProfitMargin map[Category]decimal.Decimal
	Log          []string
	CashFlow     []CashMovement
}
