// Package pdf genera el reporte de stock en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por categoría:                                              │
//	│    Nombre + multiplicador                                    │
//	│    TABLA: Producto | Cant | Costo | Costo/u | Precio | Total │
//	│    Subtotales de la categoría                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total invertido / Total sugerido                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/application/inventory"
)

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLight   = &props.Color{Red: 235, Green: 240, Blue: 245}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReport(_ context.Context, report *dto.StockReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, c := range report.Categories {
		m.AddRows(categoryTitleRow(c))
		m.AddRows(tableHeaderRow())
		if len(c.Lots) == 0 {
			m.AddRows(row.New(6).Add(col.New(12).Add(
				text.New("Sin lotes", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
			)))
		}
		for _, r := range lotRows(c.Lots) {
			m.AddRows(r)
		}
		m.AddRows(subtotalRow(c))
		m.AddRows(row.New(4))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.StockReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado el", props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 2,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func categoryTitleRow(c dto.CategoryDTO) core.Row {
	return row.New(9).Add(
		col.New(8).Add(text.New(c.Name, props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Multiplicador: "+c.Multiplier.String(), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 3,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Costo", 2, align.Right),
		h("Costo/u", 1, align.Right),
		h("Precio sug.", 2, align.Right),
		h("Total sug.", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func lotRows(lots []dto.LotDTO) []core.Row {
	result := make([]core.Row, 0, len(lots))
	for i, lot := range lots {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
			}))
		}
		r := row.New(6).Add(
			cell(lot.Name, 4, align.Left),
			cell(fmt.Sprint(lot.Quantity), 1, align.Center),
			cell(formatMoney(lot.CostTotal), 2, align.Right),
			cell(formatMoney(lot.CostPerUnit), 1, align.Right),
			cell(formatMoney(lot.SuggestedPrice), 2, align.Right),
			cell(formatMoney(lot.SuggestedTotal), 2, align.Right),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorLight})
		}
		result = append(result, r)
	}
	return result
}

func subtotalRow(c dto.CategoryDTO) core.Row {
	return row.New(7).Add(
		col.New(5).Add(text.New(fmt.Sprintf("%d lote(s)", c.LotCount), props.Text{
			Size: 8, Color: colorGray, Top: 1.5, Left: 1,
		})),
		col.New(2).Add(text.New(formatMoney(c.TotalSpent), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1.5, Right: 1,
		})),
		col.New(3),
		col.New(2).Add(text.New(formatMoney(c.TotalSuggested), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1.5, Right: 1,
		})),
	)
}

func totalsRow(t dto.TotalsDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
		})
	}
	return row.New(14).Add(
		col.New(5),
		col.New(4).Add(
			label("Total invertido:"),
			text.New("Total sugerido:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			value(formatMoney(t.TotalSpent)),
			text.New(formatMoney(t.TotalSuggested), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formatea en reales con separador de miles y coma decimal.
// Ej: 1234.5 → "R$ 1.234,50", -3 → "-R$ 3,00"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	sign := ""
	if d.IsNegative() && !d.Round(2).IsZero() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
