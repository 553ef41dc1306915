package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-control/internal/application/dto"
)

// ReportUseCase genera el reporte de stock en PDF.
type ReportUseCase struct {
	stock     *StockUseCase
	generator ReportGenerator
	clock     func() time.Time
}

// NewReportUseCase construye el caso de uso. clock nil = time.Now.
func NewReportUseCase(stock *StockUseCase, generator ReportGenerator, clock func() time.Time) *ReportUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ReportUseCase{stock: stock, generator: generator, clock: clock}
}

// StockReport arma la vista del stock (todas las categorías con sus lotes y totales,
// tomada bajo un único lock) y la renderiza.
//
// Retorna los bytes del PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) StockReport(ctx context.Context) ([]byte, string, error) {
	now := uc.clock()
	report := uc.stock.reportData(now)

	pdf, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("stock-%s.pdf", now.Format("20060102-1504")), nil
}

func (uc *StockUseCase) reportData(now time.Time) *dto.StockReportDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	report := &dto.StockReportDTO{
		Title:       "Control de Stock",
		GeneratedAt: now,
		Totals: dto.TotalsDTO{
			TotalSpent:     uc.ledger.GrandTotalSpent(),
			TotalSuggested: uc.ledger.GrandTotalSuggested(),
		},
	}
	for _, cat := range uc.ledger.Categories() {
		c, _ := uc.category(cat, true)
		report.Categories = append(report.Categories, c)
	}
	return report
}
