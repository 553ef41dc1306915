package inventory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/domain/cashflow"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
	"github.com/jhoicas/stock-control/internal/domain/repository"
)

// Nombres de comando para métricas y logs.
const (
	cmdAddLot       = "add_lot"
	cmdRemoveLot    = "remove_lot"
	cmdEditLot      = "edit_lot"
	cmdSetMargin    = "set_margin"
	cmdCashMovement = "cash_movement"
)

// ErrSaveSuspended el estado inicial no se pudo cargar y no se sobrescribe.
var ErrSaveSuspended = errors.New("guardado suspendido")

// DefaultSaveTimeout límite de cada escritura del snapshot.
const DefaultSaveTimeout = 5 * time.Second

// StockConfig parámetros del caso de uso.
type StockConfig struct {
	Ledger      ledger.Config
	SaveTimeout time.Duration
}

// StockUseCase es el dueño del Ledger y del libro de caja. Serializa todos los
// comandos y consultas con un mutex y, después de cada comando aceptado, reescribe
// el snapshot completo. Un fallo al guardar se registra y se cuenta, pero no
// rechaza el comando: el estado en memoria manda.
type StockUseCase struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	cash   *cashflow.Book

	repo        repository.SnapshotRepository
	recorder    Recorder
	log         zerolog.Logger
	saveTimeout time.Duration

	saveSuspended bool
}

// NewStockUseCase construye el Ledger y carga el estado guardado. Un snapshot parcial
// (blobs o registros descartados) se aplica tal cual. Si la carga falla por completo
// se arranca con los valores por defecto y el guardado queda suspendido.
func NewStockUseCase(
	ctx context.Context,
	cfg StockConfig,
	repo repository.SnapshotRepository,
	recorder Recorder,
	log zerolog.Logger,
) (*StockUseCase, error) {
	l, err := ledger.New(cfg.Ledger)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	timeout := cfg.SaveTimeout
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}

	uc := &StockUseCase{
		ledger:      l,
		repo:        repo,
		recorder:    recorder,
		log:         log,
		saveTimeout: timeout,
	}

	var movements []entity.CashMovement
	snapshot, err := repo.Load(ctx)
	if snapshot == nil {
		// Sin estado legible no se escribe nada: guardar los valores por defecto
		// pisaría los datos que no se pudieron leer.
		uc.saveSuspended = true
		log.Error().Err(err).Msg("no se pudo cargar el estado guardado; se usan valores por defecto y se suspende el guardado")
	} else {
		if err != nil {
			log.Warn().Err(err).Msg("estado guardado cargado con datos descartados")
		}
		for _, cat := range l.Restore(*snapshot) {
			log.Warn().Str("category", string(cat)).Msg("categoría guardada no configurada; se ignora")
		}
		movements = snapshot.CashFlow
		log.Info().
			Int("log_entries", len(snapshot.Log)).
			Int("cash_movements", len(movements)).
			Msg("estado cargado")
	}
	uc.cash = cashflow.NewBook(movements, cfg.Ledger.Clock, cfg.Ledger.NewID)

	for _, cat := range l.Categories() {
		uc.reportLots(cat)
	}
	return uc, nil
}

// ── Comandos ──────────────────────────────────────────────────────────────────

// AddLot agrega un lote a la categoría.
func (uc *StockUseCase) AddLot(ctx context.Context, category string, in ledger.LotInput) (dto.LotDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cat := entity.Category(category)
	lot, err := uc.ledger.AddLot(cat, in)
	if err = uc.done(ctx, cmdAddLot, err); err != nil {
		return dto.LotDTO{}, err
	}
	uc.reportLots(cat)
	return toLotDTO(lot), nil
}

// RemoveLot elimina un lote por ID.
func (uc *StockUseCase) RemoveLot(ctx context.Context, category, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cat := entity.Category(category)
	err := uc.ledger.RemoveLot(cat, id)
	if err = uc.done(ctx, cmdRemoveLot, err); err != nil {
		return err
	}
	uc.reportLots(cat)
	return nil
}

// EditLot reemplaza los valores de un lote; el lote resultante usa el margen vigente.
func (uc *StockUseCase) EditLot(ctx context.Context, category, id string, in ledger.LotInput) (dto.LotDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	lot, err := uc.ledger.EditLot(entity.Category(category), id, in)
	if err = uc.done(ctx, cmdEditLot, err); err != nil {
		return dto.LotDTO{}, err
	}
	return toLotDTO(lot), nil
}

// SetMargin fija el margen de la categoría desde un porcentaje sobre el costo.
// Los lotes existentes conservan sus precios.
func (uc *StockUseCase) SetMargin(ctx context.Context, category, percent string) (dto.MarginDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	m, err := uc.ledger.SetMargin(entity.Category(category), percent)
	if err = uc.done(ctx, cmdSetMargin, err); err != nil {
		return dto.MarginDTO{}, err
	}
	return dto.MarginDTO{Category: category, Multiplier: m}, nil
}

// RegisterCashMovement registra una entrada (IN) o salida (OUT) de caja.
func (uc *StockUseCase) RegisterCashMovement(ctx context.Context, movType, value, description string) (dto.CashMovementDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	m, err := uc.cash.Register(movType, value, description)
	if err = uc.done(ctx, cmdCashMovement, err); err != nil {
		return dto.CashMovementDTO{}, err
	}
	return toCashMovementDTO(m), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// Categories resumen de todas las categorías, en el orden configurado.
func (uc *StockUseCase) Categories(_ context.Context) []dto.CategoryDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]dto.CategoryDTO, 0, len(uc.ledger.Categories()))
	for _, cat := range uc.ledger.Categories() {
		// Las categorías vienen del propio ledger: no puede fallar.
		c, _ := uc.category(cat, false)
		out = append(out, c)
	}
	return out
}

// Category detalle de una categoría con sus lotes en orden de inserción.
func (uc *StockUseCase) Category(_ context.Context, category string) (dto.CategoryDTO, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.category(entity.Category(category), true)
}

// Totals totales generales (incluye categorías vacías).
func (uc *StockUseCase) Totals(_ context.Context) dto.TotalsDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return dto.TotalsDTO{
		TotalSpent:     uc.ledger.GrandTotalSpent(),
		TotalSuggested: uc.ledger.GrandTotalSuggested(),
	}
}

// AuditLog página del registro de auditoría.
func (uc *StockUseCase) AuditLog(_ context.Context, page dto.PageRequest) dto.AuditLogDTO {
	page.DefaultPage()

	uc.mu.Lock()
	all := slices.Collect(uc.ledger.Entries())
	uc.mu.Unlock()

	start := min(page.Offset, len(all))
	end := min(start+page.Limit, len(all))
	return dto.AuditLogDTO{
		Entries: all[start:end],
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	}
}

// CashFlow movimientos de caja y saldo.
func (uc *StockUseCase) CashFlow(_ context.Context) dto.CashFlowDTO {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	movements := uc.cash.Movements()
	out := dto.CashFlowDTO{
		Movements: make([]dto.CashMovementDTO, 0, len(movements)),
		Balance:   uc.cash.Balance(),
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, toCashMovementDTO(m))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// done registra el resultado del comando y, si fue aceptado, persiste el estado.
// Debe llamarse con uc.mu tomado para que los snapshots se escriban en orden.
func (uc *StockUseCase) done(ctx context.Context, command string, err error) error {
	uc.recorder.CommandExecuted(command, err)
	if err != nil {
		uc.log.Debug().Err(err).Str("command", command).Msg("comando rechazado")
		return err
	}
	uc.persist(ctx)
	return nil
}

func (uc *StockUseCase) persist(ctx context.Context) {
	if uc.saveSuspended {
		uc.recorder.SnapshotSaved(0, ErrSaveSuspended)
		uc.log.Warn().Msg("guardado suspendido: el estado guardado no se pudo cargar")
		return
	}
	snapshot := uc.ledger.Snapshot()
	snapshot.CashFlow = uc.cash.Movements()

	// El guardado no depende de que el request siga vivo, solo del timeout propio.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.saveTimeout)
	defer cancel()

	start := time.Now()
	err := uc.repo.Save(saveCtx, &snapshot)
	uc.recorder.SnapshotSaved(time.Since(start), err)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo guardar el snapshot")
	}
}

func (uc *StockUseCase) category(cat entity.Category, withLots bool) (dto.CategoryDTO, error) {
	lots, err := uc.ledger.Lots(cat)
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	m, _ := uc.ledger.MarginFor(cat)
	spent, _ := uc.ledger.TotalSpent(cat)
	suggested, _ := uc.ledger.TotalSuggested(cat)

	c := dto.CategoryDTO{
		Name:           string(cat),
		Multiplier:     m,
		LotCount:       len(lots),
		TotalSpent:     spent,
		TotalSuggested: suggested,
	}
	if withLots {
		c.Lots = toLotDTOs(lots)
	}
	return c, nil
}

func (uc *StockUseCase) reportLots(cat entity.Category) {
	if lots, err := uc.ledger.Lots(cat); err == nil {
		uc.recorder.CategoryLots(string(cat), len(lots))
	}
}
