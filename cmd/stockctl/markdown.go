package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/application/dto"
)

func money(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) }

func lotsTable(lots []dto.LotDTO) string {
	if len(lots) == 0 {
		return "_sin lotes_\n"
	}
	var b strings.Builder
	b.WriteString("| ID | Producto | Cant. | Costo | Costo/u | Precio sug. | Total sug. | Fecha |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---|\n")
	for _, l := range lots {
		fmt.Fprintf(&b, "| `%s` | %s | %d | %s | %s | %s | %s | %s |\n",
			l.ID, escape(l.Name), l.Quantity, money(l.CostTotal), money(l.CostPerUnit),
			money(l.SuggestedPrice), money(l.SuggestedTotal), l.DateAdded)
	}
	return b.String()
}

func categorySection(c dto.CategoryDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (multiplicador %s)\n\n", c.Name, c.Multiplier)
	b.WriteString(lotsTable(c.Lots))
	fmt.Fprintf(&b, "\nTotal invertido: **%s** · Total sugerido: **%s**\n",
		money(c.TotalSpent), money(c.TotalSuggested))
	return b.String()
}

func totalsTable(cats []dto.CategoryDTO, totals dto.TotalsDTO) string {
	var b strings.Builder
	b.WriteString("| Categoría | Multiplicador | Lotes | Invertido | Sugerido |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			escape(c.Name), c.Multiplier, c.LotCount, money(c.TotalSpent), money(c.TotalSuggested))
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** |\n", money(totals.TotalSpent), money(totals.TotalSuggested))
	return b.String()
}

func auditList(log dto.AuditLogDTO) string {
	if len(log.Entries) == 0 {
		return "_registro vacío_\n"
	}
	var b strings.Builder
	for i, e := range log.Entries {
		fmt.Fprintf(&b, "%d. %s\n", log.Page.Offset+i+1, escape(e))
	}
	fmt.Fprintf(&b, "\n%d de %d entradas\n", len(log.Entries), log.Page.Total)
	return b.String()
}

func cashFlowTable(flow dto.CashFlowDTO) string {
	var b strings.Builder
	if len(flow.Movements) > 0 {
		b.WriteString("| Fecha | Tipo | Valor | Descripción |\n")
		b.WriteString("|---|---|---:|---|\n")
		for _, m := range flow.Movements {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				m.Date.Format("2006-01-02 15:04"), m.Type, money(m.Value), escape(m.Description))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Saldo: **%s**\n", money(flow.Balance))
	return b.String()
}

// escape evita que un nombre rompa la tabla markdown.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
