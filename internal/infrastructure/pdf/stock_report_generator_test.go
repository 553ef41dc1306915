package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"9.5":        "R$ 9,50",
		"999.999":    "R$ 1.000,00",
		"1234.5":     "R$ 1.234,50",
		"1000000":    "R$ 1.000.000,00",
		"-3":         "-R$ 3,00",
		"-0.001":     "R$ 0,00",
		"28.4999999": "R$ 28,50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateStockReport(t *testing.T) {
	d := decimal.RequireFromString
	report := &dto.StockReportDTO{
		Title:       "Control de Stock",
		GeneratedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Categories: []dto.CategoryDTO{
			{
				Name: "Seda", Multiplier: d("2.85"), LotCount: 2,
				TotalSpent: d("110"), TotalSuggested: d("313.5"),
				Lots: []dto.LotDTO{
					{ID: "a", Name: "Smoking", Quantity: 10, CostTotal: d("100"), CostPerUnit: d("10"),
						SuggestedPrice: d("28.5"), SuggestedTotal: d("285"), DateAdded: "2024-03-15"},
					{ID: "b", Name: "OCB", Quantity: 1, CostTotal: d("10"), CostPerUnit: d("10"),
						SuggestedPrice: d("28.5"), SuggestedTotal: d("28.5"), DateAdded: "2024-03-15"},
				},
			},
			{Name: "Filtros", Multiplier: d("1.5")},
		},
		Totals: dto.TotalsDTO{TotalSpent: d("110"), TotalSuggested: d("313.5")},
	}

	out, err := NewMarotoReportGenerator().GenerateStockReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
