package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
)

// usageError imprime el uso y devuelve ExitUsageError.
func usageError(cmd subcommands.Command) subcommands.ExitStatus {
	fmt.Fprint(os.Stderr, cmd.Usage())
	return subcommands.ExitUsageError
}

// ── add ──────────────────────────────────────────────────────────────────────

type addCmd struct{ app *app }

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "agrega un lote a una categoría" }
func (*addCmd) Usage() string {
	return `stockctl add <categoría> <nombre> <cantidad> <costo total>

  El costo acepta coma o punto decimal ("37,80"). Los precios sugeridos se
  calculan con el margen vigente de la categoría.
`
}
func (*addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 4 {
		return usageError(c)
	}
	cat, in := f.Arg(0), ledger.LotInput{Name: f.Arg(1), Quantity: f.Arg(2), CostTotal: f.Arg(3)}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		lot, err := uc.AddLot(ctx, cat, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Lote agregado en **%s**\n\n%s", cat, lotsTable([]dto.LotDTO{lot})), nil
	})
}

// ── remove ───────────────────────────────────────────────────────────────────

type removeCmd struct{ app *app }

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "elimina un lote por ID" }
func (*removeCmd) Usage() string {
	return "stockctl remove <categoría> <id>\n"
}
func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError(c)
	}
	cat, id := f.Arg(0), f.Arg(1)
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		if err := uc.RemoveLot(ctx, cat, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Lote `%s` eliminado de **%s**\n", id, cat), nil
	})
}

// ── edit ─────────────────────────────────────────────────────────────────────

type editCmd struct{ app *app }

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "reemplaza nombre, cantidad y costo de un lote" }
func (*editCmd) Usage() string {
	return `stockctl edit <categoría> <id> <nombre> <cantidad> <costo total>

  Los precios se recalculan con el margen vigente (no el del alta original).
`
}
func (*editCmd) SetFlags(*flag.FlagSet) {}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 5 {
		return usageError(c)
	}
	cat, id := f.Arg(0), f.Arg(1)
	in := ledger.LotInput{Name: f.Arg(2), Quantity: f.Arg(3), CostTotal: f.Arg(4)}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		lot, err := uc.EditLot(ctx, cat, id, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Lote editado en **%s**\n\n%s", cat, lotsTable([]dto.LotDTO{lot})), nil
	})
}

// ── margin ───────────────────────────────────────────────────────────────────

type marginCmd struct{ app *app }

func (*marginCmd) Name() string     { return "margin" }
func (*marginCmd) Synopsis() string { return "fija el margen de una categoría (porcentaje sobre el costo)" }
func (*marginCmd) Usage() string {
	return `stockctl margin <categoría> <porcentaje>

  185 => multiplicador 2.85. Los lotes existentes conservan sus precios.
`
}
func (*marginCmd) SetFlags(*flag.FlagSet) {}

func (c *marginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageError(c)
	}
	cat, percent := f.Arg(0), f.Arg(1)
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		m, err := uc.SetMargin(ctx, cat, percent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Margen de **%s**: multiplicador `%s`\n", m.Category, m.Multiplier), nil
	})
}

// ── lots ─────────────────────────────────────────────────────────────────────

type lotsCmd struct{ app *app }

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "lista los lotes de una categoría (o de todas)" }
func (*lotsCmd) Usage() string {
	return "stockctl lots [categoría]\n"
}
func (*lotsCmd) SetFlags(*flag.FlagSet) {}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return usageError(c)
	}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		if f.NArg() == 1 {
			cat, err := uc.Category(ctx, f.Arg(0))
			if err != nil {
				return "", err
			}
			return categorySection(cat), nil
		}
		var b strings.Builder
		for _, summary := range uc.Categories(ctx) {
			cat, err := uc.Category(ctx, summary.Name)
			if err != nil {
				return "", err
			}
			b.WriteString(categorySection(cat))
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

// ── totals ───────────────────────────────────────────────────────────────────

type totalsCmd struct{ app *app }

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "muestra totales por categoría y generales" }
func (*totalsCmd) Usage() string {
	return "stockctl totals\n"
}
func (*totalsCmd) SetFlags(*flag.FlagSet) {}

func (c *totalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usageError(c)
	}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		return totalsTable(uc.Categories(ctx), uc.Totals(ctx)), nil
	})
}

// ── log ──────────────────────────────────────────────────────────────────────

type logCmd struct {
	app    *app
	limit  int
	offset int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "muestra el registro de auditoría" }
func (*logCmd) Usage() string {
	return "stockctl log [-n <límite>] [-o <desde>]\n"
}
func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 50, "cantidad máxima de entradas")
	f.IntVar(&c.offset, "o", 0, "índice de la primera entrada")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.offset < 0 {
		return usageError(c)
	}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		return auditList(uc.AuditLog(ctx, dto.PageRequest{Limit: c.limit, Offset: c.offset})), nil
	})
}

// ── cash-in / cash-out ───────────────────────────────────────────────────────

type cashCmd struct {
	app     *app
	movType string // IN u OUT
}

func (c *cashCmd) Name() string { return "cash-" + strings.ToLower(c.movType) }
func (c *cashCmd) Synopsis() string {
	if c.movType == "IN" {
		return "registra una entrada de caja"
	}
	return "registra una salida de caja"
}
func (c *cashCmd) Usage() string {
	return fmt.Sprintf("stockctl %s <valor> [descripción...]\n", c.Name())
}
func (*cashCmd) SetFlags(*flag.FlagSet) {}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		return usageError(c)
	}
	value, description := f.Arg(0), strings.Join(f.Args()[1:], " ")
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		if _, err := uc.RegisterCashMovement(ctx, c.movType, value, description); err != nil {
			return "", err
		}
		return cashFlowTable(uc.CashFlow(ctx)), nil
	})
}

// ── balance ──────────────────────────────────────────────────────────────────

type balanceCmd struct{ app *app }

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "muestra los movimientos de caja y el saldo" }
func (*balanceCmd) Usage() string {
	return "stockctl balance\n"
}
func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usageError(c)
	}
	return c.app.run(ctx, func(uc *inventory.StockUseCase) (string, error) {
		return cashFlowTable(uc.CashFlow(ctx)), nil
	})
}
