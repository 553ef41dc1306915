package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain"
	"github.com/jhoicas/stock-control/internal/domain/entity"
)

// Policy mantiene el multiplicador de margen vigente por categoría.
// Un cambio de margen solo afecta a los lotes escritos después del cambio.
type Policy struct {
	margins map[entity.Category]decimal.Decimal
}

// NewPolicy construye la política con los multiplicadores por defecto.
// Todas las categorías deben tener un multiplicador positivo.
func NewPolicy(defaults map[entity.Category]decimal.Decimal) (*Policy, error) {
	margins := make(map[entity.Category]decimal.Decimal, len(defaults))
	for cat, m := range defaults {
		if !m.IsPositive() {
			return nil, fmt.Errorf("%w: multiplicador no positivo para %s", domain.ErrInvalidInput, cat)
		}
		margins[cat] = m
	}
	return &Policy{margins: margins}, nil
}

// MarginFor devuelve el multiplicador vigente de la categoría.
func (p *Policy) MarginFor(cat entity.Category) (decimal.Decimal, error) {
	m, ok := p.margins[cat]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, cat)
	}
	return m, nil
}

// SetMargin recibe un porcentaje sobre el costo (ej. "185" = 185% de lucro),
// lo convierte a multiplicador (1 + p/100) y lo guarda. Devuelve el nuevo multiplicador.
func (p *Policy) SetMargin(cat entity.Category, percentAboveCost string) (decimal.Decimal, error) {
	if _, ok := p.margins[cat]; !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, cat)
	}
	percent, err := ParseDecimal(percentAboveCost)
	if err != nil {
		return decimal.Zero, err
	}
	m := MultiplierFromPercent(percent)
	if !m.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: el margen debe dejar un multiplicador positivo", domain.ErrInvalidInput)
	}
	p.margins[cat] = m
	return m, nil
}

// Margins devuelve una copia del mapa categoría → multiplicador.
func (p *Policy) Margins() map[entity.Category]decimal.Decimal {
	out := make(map[entity.Category]decimal.Decimal, len(p.margins))
	for cat, m := range p.margins {
		out[cat] = m
	}
	return out
}

// Restore sobrescribe los multiplicadores de categorías conocidas con los guardados.
// Devuelve las categorías ignoradas (desconocidas o con multiplicador no positivo).
func (p *Policy) Restore(saved map[entity.Category]decimal.Decimal) []entity.Category {
	var ignored []entity.Category
	for cat, m := range saved {
		if _, ok := p.margins[cat]; !ok || !m.IsPositive() {
			ignored = append(ignored, cat)
			continue
		}
		p.margins[cat] = m
	}
	return ignored
}
