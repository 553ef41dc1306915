package postgres_test

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/infrastructure/postgres"
)

func TestTotalsFromSnapshot(t *testing.T) {
	d := decimal.RequireFromString
	lot := func(cost, suggested string) entity.Lot {
		return entity.Lot{ID: "x", Name: "x", Quantity: 1, CostTotal: d(cost), SuggestedTotal: d(suggested), DateAdded: time.Now()}
	}
	s := &entity.Snapshot{Stock: map[entity.Category][]entity.Lot{
		"Seda":    {lot("10", "28.499999999999999"), lot("0.005", "0.001")},
		"Filtros": {},
	}}

	got := postgres.TotalsFromSnapshot(s)
	sort.Slice(got, func(i, j int) bool { return got[i].Category < got[j].Category })
	require.Len(t, got, 2)

	assert.Equal(t, entity.Category("Filtros"), got[0].Category)
	assert.True(t, got[0].Spent.IsZero())
	assert.Equal(t, 0, got[0].Lots)

	assert.Equal(t, "10.01", got[1].Spent.StringFixed(2))
	assert.Equal(t, "28.50", got[1].Suggested.StringFixed(2))
	assert.Equal(t, 2, got[1].Lots)
}
