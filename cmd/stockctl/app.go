package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/bootstrap"
	"github.com/jhoicas/stock-control/pkg/config"
	"github.com/jhoicas/stock-control/pkg/logger"
)

// app estado compartido por los subcomandos.
type app struct {
	out   io.Writer
	plain bool
	open  func(ctx context.Context) (*inventory.StockUseCase, func(), error)
}

func newApp(out io.Writer) *app {
	return &app{out: out, open: openFromEnv}
}

func (a *app) register(c *subcommands.Commander) {
	c.Register(&addCmd{app: a}, "stock")
	c.Register(&removeCmd{app: a}, "stock")
	c.Register(&editCmd{app: a}, "stock")
	c.Register(&lotsCmd{app: a}, "stock")
	c.Register(&totalsCmd{app: a}, "stock")
	c.Register(&marginCmd{app: a}, "pricing")
	c.Register(&logCmd{app: a}, "audit")
	c.Register(&cashCmd{app: a, movType: "IN"}, "cashflow")
	c.Register(&cashCmd{app: a, movType: "OUT"}, "cashflow")
	c.Register(&balanceCmd{app: a}, "cashflow")
}

// openFromEnv carga la configuración (env / .env) y abre el libro con su repositorio.
func openFromEnv(ctx context.Context) (*inventory.StockUseCase, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})
	return bootstrap.NewStockUseCase(ctx, cfg, nil, log.Component("stockctl"))
}

// run abre el libro, ejecuta fn y traduce el resultado a un ExitStatus.
func (a *app) run(ctx context.Context, fn func(uc *inventory.StockUseCase) (string, error)) subcommands.ExitStatus {
	uc, closeFn, err := a.open(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	md, err := fn(uc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := a.print(md); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// print escribe el markdown, renderizado para terminal salvo con -plain.
func (a *app) print(md string) error {
	if a.plain {
		_, err := io.WriteString(a.out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	s, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out, s)
	return err
}
