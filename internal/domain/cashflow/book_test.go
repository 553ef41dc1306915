package cashflow_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/internal/domain"
	"github.com/jhoicas/stock-control/internal/domain/cashflow"
	"github.com/jhoicas/stock-control/internal/domain/entity"
)

func TestRegisterYBalance(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	seq := 0
	b := cashflow.NewBook(nil, func() time.Time { return now }, func() string {
		seq++
		return string(rune('a' + seq - 1))
	})

	in, err := b.Register("in", "150,75", "venta del día")
	require.NoError(t, err)
	assert.Equal(t, entity.CashMovementIN, in.Type)
	assert.Equal(t, "a", in.ID)
	assert.Equal(t, now, in.Date)

	_, err = b.Register(entity.CashMovementOUT, "50.25", "compra de filtros")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("100.5").Equal(b.Balance()))
	assert.Len(t, b.Movements(), 2)
}

func TestRegister_Rechazos(t *testing.T) {
	b := cashflow.NewBook(nil, nil, nil)

	cases := []struct{ tipo, valor string }{
		{"TRANSFER", "10"},
		{"IN", "0"},
		{"OUT", "-3"},
		{"IN", "diez"},
	}
	for _, c := range cases {
		_, err := b.Register(c.tipo, c.valor, "")
		assert.ErrorIsf(t, err, domain.ErrInvalidInput, "%s %s", c.tipo, c.valor)
	}
	assert.Empty(t, b.Movements())
	assert.True(t, b.Balance().IsZero())
}
