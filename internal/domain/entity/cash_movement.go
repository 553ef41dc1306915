package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashMovementIN  = "IN"  // entrada
	CashMovementOUT = "OUT" // salida
)

// CashMovement representa una transacción del flujo de caja.
type CashMovement struct {
	ID          string
	Type        string
	Value       decimal.Decimal // siempre positivo; el signo lo da Type
	Description string
	Date        time.Time
}
