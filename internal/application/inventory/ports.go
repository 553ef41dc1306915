package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-control/internal/application/dto"
)

// Recorder recibe las métricas de los casos de uso (implementado por infrastructure/metrics).
type Recorder interface {
	CommandExecuted(command string, err error)
	SnapshotSaved(d time.Duration, err error)
	CategoryLots(category string, n int)
}

// NopRecorder descarta las métricas.
type NopRecorder struct{}

func (NopRecorder) CommandExecuted(string, error)      {}
func (NopRecorder) SnapshotSaved(time.Duration, error) {}
func (NopRecorder) CategoryLots(string, int)           {}

// ReportGenerator genera la representación PDF del reporte de stock.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *dto.StockReportDTO) ([]byte, error)
}
