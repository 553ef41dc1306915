// Package ledger implementa el libro de stock: lotes por categoría, precios
// sugeridos derivados del margen vigente, totales y registro de auditoría.
//
// El Ledger no es seguro para uso concurrente; quien lo posee debe serializar los
// comandos (ver application/inventory.StockUseCase).
package ledger

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain"
	"github.com/jhoicas/stock-control/internal/domain/audit"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/pricing"
)

// EditMode define qué identidad recibe un lote editado.
type EditMode string

const (
	// EditModeRecreate: la edición borra y recrea el lote (nuevo ID, nueva fecha, al final de la lista).
	EditModeRecreate EditMode = "recreate"
	// EditModePreserveIdentity: conserva ID, fecha de alta y posición del lote original.
	EditModePreserveIdentity EditMode = "preserve"
)

// ParseEditMode interpreta el modo de edición configurado. Vacío = EditModeRecreate.
func ParseEditMode(s string) (EditMode, error) {
	switch EditMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", EditModeRecreate:
		return EditModeRecreate, nil
	case EditModePreserveIdentity:
		return EditModePreserveIdentity, nil
	}
	return "", fmt.Errorf("%w: modo de edición %q", domain.ErrInvalidInput, s)
}

// Config parámetros de construcción del Ledger.
type Config struct {
	// Categories conjunto fijo, en orden de presentación.
	Categories []entity.Category
	// Margins multiplicador por defecto de cada categoría.
	Margins  map[entity.Category]decimal.Decimal
	EditMode EditMode
	// AuditMarginChanges registra en auditoría los cambios de margen.
	AuditMarginChanges bool
	Clock              func() time.Time // nil = time.Now
	NewID              func() string    // nil = UUIDv7 (ordenable por tiempo)
}

// LotInput valores de un lote tal como llegan de la interfaz (sin parsear).
// Quantity debe ser un entero positivo; CostTotal acepta coma o punto decimal.
type LotInput struct {
	Name      string
	Quantity  string
	CostTotal string
}

// Ledger raíz del agregado: stock por categoría + política de precios + auditoría.
type Ledger struct {
	categories []entity.Category
	stock      map[entity.Category][]entity.Lot
	pricing    *pricing.Policy
	audit      *audit.Log

	editMode           EditMode
	auditMarginChanges bool
	clock              func() time.Time
	newID              func() string
}

// New construye un Ledger vacío: una lista vacía por categoría, márgenes por defecto
// y registro de auditoría vacío.
func New(cfg Config) (*Ledger, error) {
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una categoría", domain.ErrInvalidInput)
	}
	stock := make(map[entity.Category][]entity.Lot, len(cfg.Categories))
	defaults := make(map[entity.Category]decimal.Decimal, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		if strings.TrimSpace(string(cat)) == "" {
			return nil, fmt.Errorf("%w: categoría vacía", domain.ErrInvalidInput)
		}
		if _, dup := stock[cat]; dup {
			return nil, fmt.Errorf("%w: categoría duplicada %s", domain.ErrInvalidInput, cat)
		}
		m, ok := cfg.Margins[cat]
		if !ok {
			return nil, fmt.Errorf("%w: falta el margen de %s", domain.ErrInvalidInput, cat)
		}
		stock[cat] = []entity.Lot{}
		defaults[cat] = m
	}
	policy, err := pricing.NewPolicy(defaults)
	if err != nil {
		return nil, err
	}

	editMode := cfg.EditMode
	if editMode == "" {
		editMode = EditModeRecreate
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	return &Ledger{
		categories:         slices.Clone(cfg.Categories),
		stock:              stock,
		pricing:            policy,
		audit:              audit.NewLog(nil),
		editMode:           editMode,
		auditMarginChanges: cfg.AuditMarginChanges,
		clock:              clock,
		newID:              newID,
	}, nil
}

// ── Comandos ──────────────────────────────────────────────────────────────────

// AddLot valida la entrada, deriva los precios con el margen vigente, asigna ID y
// fecha de hoy, agrega el lote al final de la categoría y registra la adición.
func (l *Ledger) AddLot(cat entity.Category, in LotInput) (entity.Lot, error) {
	lot, err := l.prepare(cat, in)
	if err != nil {
		return entity.Lot{}, err
	}
	lot.ID = l.newID()
	lot.DateAdded = l.today()
	l.stock[cat] = append(l.stock[cat], lot)
	l.audit.Append(addedEntry(cat, lot))
	return lot, nil
}

// RemoveLot elimina el lote id de la categoría conservando el orden del resto.
func (l *Ledger) RemoveLot(cat entity.Category, id string) error {
	idx, err := l.find(cat, id)
	if err != nil {
		return err
	}
	removed := l.stock[cat][idx]
	l.stock[cat] = slices.Delete(l.stock[cat], idx, idx+1)
	l.audit.Append(removedEntry(cat, removed))
	return nil
}

// EditLot equivale a RemoveLot seguido de AddLot con los valores nuevos: registra dos
// entradas (remoción y adición) y recalcula los precios con el margen vigente al
// momento de la edición. Los valores nuevos se validan antes de remover, así un
// rechazo no modifica nada.
//
// Con EditModeRecreate el lote recibe nuevo ID y fecha de hoy y pasa al final de la
// lista; con EditModePreserveIdentity conserva ID, fecha y posición.
func (l *Ledger) EditLot(cat entity.Category, id string, in LotInput) (entity.Lot, error) {
	idx, err := l.find(cat, id)
	if err != nil {
		return entity.Lot{}, err
	}
	lot, err := l.prepare(cat, in)
	if err != nil {
		return entity.Lot{}, err
	}
	old := l.stock[cat][idx]

	if l.editMode == EditModePreserveIdentity {
		lot.ID = old.ID
		lot.DateAdded = old.DateAdded
		l.audit.Append(removedEntry(cat, old))
		l.stock[cat][idx] = lot
		l.audit.Append(addedEntry(cat, lot))
		return lot, nil
	}

	if err := l.RemoveLot(cat, id); err != nil {
		return entity.Lot{}, err
	}
	lot.ID = l.newID()
	lot.DateAdded = l.today()
	l.stock[cat] = append(l.stock[cat], lot)
	l.audit.Append(addedEntry(cat, lot))
	return lot, nil
}

// SetMargin cambia el margen de la categoría (porcentaje sobre el costo, ej. "185").
// Los lotes existentes conservan sus precios derivados hasta ser editados.
func (l *Ledger) SetMargin(cat entity.Category, percentAboveCost string) (decimal.Decimal, error) {
	m, err := l.pricing.SetMargin(cat, percentAboveCost)
	if err != nil {
		return decimal.Zero, err
	}
	if l.auditMarginChanges {
		l.audit.Append(fmt.Sprintf("Margem alterada: Categoria: %s - Multiplicador: %s", cat, m.String()))
	}
	return m, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// MarginFor multiplicador vigente de la categoría.
func (l *Ledger) MarginFor(cat entity.Category) (decimal.Decimal, error) {
	return l.pricing.MarginFor(cat)
}

// Categories categorías configuradas, en orden.
func (l *Ledger) Categories() []entity.Category {
	return slices.Clone(l.categories)
}

// Lots copia de los lotes de la categoría en orden de inserción.
func (l *Ledger) Lots(cat entity.Category) ([]entity.Lot, error) {
	lots, ok := l.stock[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, cat)
	}
	return slices.Clone(lots), nil
}

// TotalSpent suma de CostTotal de la categoría, redondeada a 2 decimales.
func (l *Ledger) TotalSpent(cat entity.Category) (decimal.Decimal, error) {
	sum, err := l.sum(cat, func(lot entity.Lot) decimal.Decimal { return lot.CostTotal })
	return sum.Round(2), err
}

// TotalSuggested suma de SuggestedTotal de la categoría, redondeada a 2 decimales.
func (l *Ledger) TotalSuggested(cat entity.Category) (decimal.Decimal, error) {
	sum, err := l.sum(cat, func(lot entity.Lot) decimal.Decimal { return lot.SuggestedTotal })
	return sum.Round(2), err
}

// GrandTotalSpent total gastado en todas las categorías configuradas.
func (l *Ledger) GrandTotalSpent() decimal.Decimal {
	return l.grand(func(lot entity.Lot) decimal.Decimal { return lot.CostTotal })
}

// GrandTotalSuggested total sugerido de venta en todas las categorías configuradas.
func (l *Ledger) GrandTotalSuggested() decimal.Decimal {
	return l.grand(func(lot entity.Lot) decimal.Decimal { return lot.SuggestedTotal })
}

// Entries recorre el registro de auditoría en orden causal.
func (l *Ledger) Entries() iter.Seq[string] {
	return l.audit.Entries()
}

// ── Snapshot ──────────────────────────────────────────────────────────────────

// Snapshot copia profunda del estado (stock, márgenes y auditoría).
func (l *Ledger) Snapshot() entity.Snapshot {
	stock := make(map[entity.Category][]entity.Lot, len(l.stock))
	for cat, lots := range l.stock {
		stock[cat] = slices.Clone(lots)
	}
	return entity.Snapshot{
		Stock:        stock,
		ProfitMargin: l.pricing.Margins(),
		Log:          l.audit.All(),
	}
}

// Restore reemplaza el estado con un snapshot guardado. Las categorías configuradas
// ausentes del snapshot quedan con lista vacía y margen por defecto; las categorías
// del snapshot que no están configuradas se ignoran y se devuelven.
// Los campos derivados en cero (ausentes en el blob) se recalculan con el margen
// restaurado de la categoría.
func (l *Ledger) Restore(s entity.Snapshot) []entity.Category {
	ignored := l.pricing.Restore(s.ProfitMargin)
	for cat, lots := range s.Stock {
		if _, ok := l.stock[cat]; !ok {
			if !slices.Contains(ignored, cat) {
				ignored = append(ignored, cat)
			}
			continue
		}
		multiplier, _ := l.pricing.MarginFor(cat)
		restored := make([]entity.Lot, 0, len(lots))
		for _, lot := range lots {
			restored = append(restored, withDerived(lot, multiplier))
		}
		l.stock[cat] = restored
	}
	l.audit = audit.NewLog(s.Log)
	slices.Sort(ignored)
	return ignored
}

// ── helpers ───────────────────────────────────────────────────────────────────

// prepare valida la entrada y construye el lote con sus campos derivados (sin ID ni fecha).
func (l *Ledger) prepare(cat entity.Category, in LotInput) (entity.Lot, error) {
	multiplier, err := l.pricing.MarginFor(cat)
	if err != nil {
		return entity.Lot{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Lot{}, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	qty, err := ParseQuantity(in.Quantity)
	if err != nil {
		return entity.Lot{}, err
	}
	cost, err := pricing.ParseDecimal(in.CostTotal)
	if err != nil {
		return entity.Lot{}, err
	}
	if !cost.IsPositive() {
		return entity.Lot{}, fmt.Errorf("%w: el valor del lote debe ser positivo", domain.ErrInvalidInput)
	}

	perUnit := pricing.CostPerUnit(cost, qty)
	suggested := pricing.SuggestedPrice(perUnit, multiplier)
	return entity.Lot{
		Name:           name,
		Quantity:       qty,
		CostTotal:      cost,
		CostPerUnit:    perUnit,
		SuggestedPrice: suggested,
		SuggestedTotal: pricing.SuggestedTotal(suggested, qty),
	}, nil
}

// withDerived completa los campos derivados que vienen en cero.
func withDerived(lot entity.Lot, multiplier decimal.Decimal) entity.Lot {
	if lot.Quantity <= 0 {
		return lot
	}
	if lot.CostPerUnit.IsZero() {
		lot.CostPerUnit = pricing.CostPerUnit(lot.CostTotal, lot.Quantity)
	}
	if lot.SuggestedPrice.IsZero() {
		lot.SuggestedPrice = pricing.SuggestedPrice(lot.CostPerUnit, multiplier)
	}
	if lot.SuggestedTotal.IsZero() {
		lot.SuggestedTotal = pricing.SuggestedTotal(lot.SuggestedPrice, lot.Quantity)
	}
	return lot
}

func (l *Ledger) find(cat entity.Category, id string) (int, error) {
	lots, ok := l.stock[cat]
	if !ok {
		return -1, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, cat)
	}
	idx := slices.IndexFunc(lots, func(lot entity.Lot) bool { return lot.ID == id })
	if idx < 0 {
		return -1, fmt.Errorf("%w: lote %s en %s", domain.ErrNotFound, id, cat)
	}
	return idx, nil
}

func (l *Ledger) sum(cat entity.Category, field func(entity.Lot) decimal.Decimal) (decimal.Decimal, error) {
	lots, ok := l.stock[cat]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, cat)
	}
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(field(lot))
	}
	return total, nil
}

func (l *Ledger) grand(field func(entity.Lot) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, cat := range l.categories {
		sum, _ := l.sum(cat, field)
		total = total.Add(sum)
	}
	return total.Round(2)
}

func (l *Ledger) today() time.Time {
	y, m, d := l.clock().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseQuantity interpreta una cantidad de unidades: entero positivo.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	qty, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: cantidad inválida %q", domain.ErrInvalidInput, s)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	return qty, nil
}

func addedEntry(cat entity.Category, lot entity.Lot) string {
	return fmt.Sprintf("Produto adicionado: %s - Categoria: %s - Quantidade: %d - Preço: R$%s",
		lot.Name, cat, lot.Quantity, lot.CostTotal.StringFixed(2))
}

func removedEntry(cat entity.Category, lot entity.Lot) string {
	return fmt.Sprintf("Produto removido: %s - Categoria: %s", lot.Name, cat)
}
