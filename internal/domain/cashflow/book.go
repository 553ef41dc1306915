// Package cashflow registra entradas y salidas de caja con su saldo acumulado.
package cashflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/pricing"
)

// Book libro de caja en memoria.
type Book struct {
	movements []entity.CashMovement
	clock     func() time.Time
	newID     func() string
}

// NewBook construye el libro. clock y newID pueden ser nil (se usan time.Now y UUIDv7).
func NewBook(movements []entity.CashMovement, clock func() time.Time, newID func() string) *Book {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	return &Book{
		movements: append([]entity.CashMovement(nil), movements...),
		clock:     clock,
		newID:     newID,
	}
}

// Register agrega un movimiento. value acepta coma o punto decimal y debe ser positivo.
func (b *Book) Register(movType, value, description string) (entity.CashMovement, error) {
	movType = strings.ToUpper(strings.TrimSpace(movType))
	if movType != entity.CashMovementIN && movType != entity.CashMovementOUT {
		return entity.CashMovement{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movType)
	}
	v, err := pricing.ParseDecimal(value)
	if err != nil {
		return entity.CashMovement{}, err
	}
	if !v.IsPositive() {
		return entity.CashMovement{}, fmt.Errorf("%w: el valor debe ser positivo", domain.ErrInvalidInput)
	}
	mov := entity.CashMovement{
		ID:          b.newID(),
		Type:        movType,
		Value:       v,
		Description: strings.TrimSpace(description),
		Date:        b.clock(),
	}
	b.movements = append(b.movements, mov)
	return mov, nil
}

// Balance saldo: entradas menos salidas, redondeado a 2 decimales.
func (b *Book) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, m := range b.movements {
		if m.Type == entity.CashMovementOUT {
			total = total.Sub(m.Value)
			continue
		}
		total = total.Add(m.Value)
	}
	return total.Round(2)
}

// Movements copia de los movimientos en orden de registro.
func (b *Book) Movements() []entity.CashMovement {
	return append([]entity.CashMovement{}, b.movements...)
}
