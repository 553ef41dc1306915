package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashMovementRequest body para POST /api/cashflow.
type CashMovementRequest struct {
	Type        string     `json:"type" validate:"required,oneof=IN OUT in out"`
	Value       FlexNumber `json:"value" validate:"required"`
	Description string     `json:"description" validate:"max=200"`
}

// CashMovementDTO movimiento de caja.
type CashMovementDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

// CashFlowDTO movimientos en orden de registro y saldo acumulado.
type CashFlowDTO struct {
	Movements []CashMovementDTO `json:"movements"`
	Balance   decimal.Decimal   `json:"balance"`
}
