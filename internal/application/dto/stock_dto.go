package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotRequest body para POST y PUT de lotes.
type LotRequest struct {
	Name      string     `json:"name" validate:"required,max=120"`
	Quantity  FlexNumber `json:"quantity" validate:"required"`
	CostTotal FlexNumber `json:"cost_total" validate:"required"`
}

// MarginRequest body para PUT /api/margins/:category. Percent es el porcentaje sobre
// el costo (185 => multiplicador 2.85).
type MarginRequest struct {
	Percent FlexNumber `json:"percent" validate:"required"`
}

// LotDTO lote con sus valores derivados, redondeados a 2 decimales para mostrar.
type LotDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	CostTotal      decimal.Decimal `json:"cost_total"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	SuggestedTotal decimal.Decimal `json:"suggested_total"`
	DateAdded      string          `json:"date_added"` // YYYY-MM-DD
}

// CategoryDTO resumen de una categoría. Lots solo se incluye en el detalle.
type CategoryDTO struct {
	Name           string          `json:"name"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	LotCount       int             `json:"lot_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalSuggested decimal.Decimal `json:"total_suggested"`
	Lots           []LotDTO        `json:"lots,omitempty"`
}

// MarginDTO respuesta de un cambio de margen.
type MarginDTO struct {
	Category   string          `json:"category"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// TotalsDTO totales generales de todas las categorías.
type TotalsDTO struct {
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalSuggested decimal.Decimal `json:"total_suggested"`
}

// AuditLogDTO página del registro de auditoría, en orden de inserción.
type AuditLogDTO struct {
	Entries []string     `json:"entries"`
	Page    PageResponse `json:"page"`
}

// StockReportDTO datos del reporte de stock (PDF).
type StockReportDTO struct {
	Title       string        `json:"title"`
	GeneratedAt time.Time     `json:"generated_at"`
	Categories  []CategoryDTO `json:"categories"`
	Totals      TotalsDTO     `json:"totals"`
}
