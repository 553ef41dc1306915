package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain/entity"
)

// CategoryTotals fila de stock_totals: totales ya redondeados de una categoría.
type CategoryTotals struct {
	Category  entity.Category
	Spent     decimal.Decimal
	Suggested decimal.Decimal
	Lots      int
}

// TotalsFromSnapshot calcula una fila por categoría del snapshot.
func TotalsFromSnapshot(s *entity.Snapshot) []CategoryTotals {
	out := make([]CategoryTotals, 0, len(s.Stock))
	for cat, lots := range s.Stock {
		t := CategoryTotals{Category: cat, Spent: decimal.Zero, Suggested: decimal.Zero, Lots: len(lots)}
		for _, lot := range lots {
			t.Spent = t.Spent.Add(lot.CostTotal)
			t.Suggested = t.Suggested.Add(lot.SuggestedTotal)
		}
		t.Spent = t.Spent.Round(2)
		t.Suggested = t.Suggested.Round(2)
		out = append(out, t)
	}
	return out
}

// TotalsRepo tabla materializada stock_totals, para consultas SQL externas.
type TotalsRepo struct {
	q Querier
}

func newTotalsRepository(q Querier) *TotalsRepo {
	return &TotalsRepo{q: q}
}

// Replace reemplaza todas las filas por las dadas.
func (r *TotalsRepo) Replace(ctx context.Context, totals []CategoryTotals) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_totals`); err != nil {
		return fmt.Errorf("clear stock_totals: %w", err)
	}
	query := `
		INSERT INTO stock_totals (category, total_spent, total_suggested, lot_count, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (category)
		DO UPDATE SET total_spent = EXCLUDED.total_spent, total_suggested = EXCLUDED.total_suggested,
			lot_count = EXCLUDED.lot_count, updated_at = now()`
	for _, t := range totals {
		if _, err := r.q.Exec(ctx, query, string(t.Category), t.Spent, t.Suggested, t.Lots); err != nil {
			return fmt.Errorf("upsert stock_totals %s: %w", t.Category, err)
		}
	}
	return nil
}
