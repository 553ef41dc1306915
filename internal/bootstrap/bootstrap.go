// Package bootstrap arma las dependencias compartidas por cmd/api y cmd/stockctl:
// repositorio según el driver configurado y el caso de uso de stock.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
	"github.com/jhoicas/stock-control/internal/domain/repository"
	"github.com/jhoicas/stock-control/internal/infrastructure/filestore"
	"github.com/jhoicas/stock-control/internal/infrastructure/memory"
	"github.com/jhoicas/stock-control/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-control/pkg/config"
)

// OpenRepository abre el repositorio del driver configurado. closeFn libera la
// conexión (no hace nada para memory y file).
func OpenRepository(ctx context.Context, cfg *config.Config) (repo repository.SnapshotRepository, closeFn func(), err error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewSnapshotRepository(), func() {}, nil
	case config.StorageFile:
		r, err := filestore.NewSnapshotRepository(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		r, err := postgres.NewSnapshotRepository(pool, cfg.Storage.CompressThresholdBytes)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return r, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
	}
}

// LedgerConfig traduce la configuración de la app a la del Ledger.
func LedgerConfig(cfg config.LedgerConfig) (ledger.Config, error) {
	mode, err := ledger.ParseEditMode(cfg.EditMode)
	if err != nil {
		return ledger.Config{}, err
	}
	cats := make([]entity.Category, 0, len(cfg.Categories))
	margins := make(map[entity.Category]decimal.Decimal, len(cfg.Margins))
	for _, c := range cfg.Categories {
		cats = append(cats, entity.Category(c))
	}
	for c, m := range cfg.Margins {
		margins[entity.Category(c)] = m
	}
	return ledger.Config{
		Categories:         cats,
		Margins:            margins,
		EditMode:           mode,
		AuditMarginChanges: cfg.AuditMarginChanges,
	}, nil
}

// NewStockUseCase abre el repositorio y construye el caso de uso con el estado cargado.
func NewStockUseCase(
	ctx context.Context,
	cfg *config.Config,
	recorder inventory.Recorder,
	log zerolog.Logger,
) (uc *inventory.StockUseCase, closeFn func(), err error) {
	ledgerCfg, err := LedgerConfig(cfg.Ledger)
	if err != nil {
		return nil, nil, err
	}
	repo, closeFn, err := OpenRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	uc, err = inventory.NewStockUseCase(ctx, inventory.StockConfig{
		Ledger:      ledgerCfg,
		SaveTimeout: time.Duration(cfg.Storage.SaveTimeoutSeconds) * time.Second,
	}, repo, recorder, log)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return uc, closeFn, nil
}
