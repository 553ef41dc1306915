package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
	"github.com/jhoicas/stock-control/internal/infrastructure/memory"
)

// testApp arma una app en modo plano sobre un repositorio en memoria compartido
// entre invocaciones, como si cada comando abriera el mismo archivo.
func testApp(t *testing.T) (*app, *bytes.Buffer, *memory.SnapshotRepo) {
	t.Helper()
	repo := memory.NewSnapshotRepository()
	n := 0
	cfg := inventory.StockConfig{
		Ledger: ledger.Config{
			Categories: []entity.Category{"Seda", "Filtros", "Tabacos"},
			Margins: map[entity.Category]decimal.Decimal{
				"Seda":    decimal.RequireFromString("2.85"),
				"Filtros": decimal.RequireFromString("1.5"),
				"Tabacos": decimal.RequireFromString("2"),
			},
			Clock: func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC) },
			NewID: func() string { n++; return fmt.Sprintf("id-%03d", n) },
		},
		SaveTimeout: time.Second,
	}

	out := &bytes.Buffer{}
	a := &app{out: out, plain: true}
	a.open = func(ctx context.Context) (*inventory.StockUseCase, func(), error) {
		uc, err := inventory.NewStockUseCase(ctx, cfg, repo, nil, zerolog.Nop())
		if err != nil {
			return nil, nil, err
		}
		return uc, func() {}, nil
	}
	return a, out, repo
}

func execute(t *testing.T, out *bytes.Buffer, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	out.Reset()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	status := cmd.Execute(context.Background(), fs)
	return status, out.String()
}

func TestAdd_MuestraLoteYPersiste(t *testing.T) {
	a, out, repo := testApp(t)

	status, got := execute(t, out, &addCmd{app: a}, "Seda", "Smoking", "10", "100")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "Lote agregado en **Seda**")
	assert.Contains(t, got, "| `id-001` | Smoking | 10 | R$ 100.00 | R$ 10.00 | R$ 28.50 | R$ 285.00 | 2024-03-15 |")
	assert.Equal(t, 1, repo.Saves())

	status, got = execute(t, out, &lotsCmd{app: a}, "Seda")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "## Seda (multiplicador 2.85)")
	assert.Contains(t, got, "Smoking")
	assert.Contains(t, got, "Total invertido: **R$ 100.00**")
}

func TestAdd_Errores(t *testing.T) {
	a, out, repo := testApp(t)

	status, _ := execute(t, out, &addCmd{app: a}, "Seda", "Smoking", "10")
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, _ = execute(t, out, &addCmd{app: a}, "Papel", "Smoking", "10", "100")
	assert.Equal(t, subcommands.ExitFailure, status)

	status, _ = execute(t, out, &addCmd{app: a}, "Seda", "Smoking", "0", "100")
	assert.Equal(t, subcommands.ExitFailure, status)

	assert.Zero(t, repo.Saves())
	assert.Empty(t, out.String())
}

func TestEditRemove(t *testing.T) {
	a, out, _ := testApp(t)

	status, _ := execute(t, out, &addCmd{app: a}, "Tabacos", "Acrema", "4", "37,80")
	require.Equal(t, subcommands.ExitSuccess, status)

	// El reemplazo recibe un ID nuevo.
	status, got := execute(t, out, &editCmd{app: a}, "Tabacos", "id-001", "Acrema", "5", "40")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "| `id-002` | Acrema | 5 | R$ 40.00 | R$ 8.00 | R$ 16.00 | R$ 80.00 |")

	status, _ = execute(t, out, &removeCmd{app: a}, "Tabacos", "id-001")
	assert.Equal(t, subcommands.ExitFailure, status)

	status, got = execute(t, out, &removeCmd{app: a}, "Tabacos", "id-002")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "Lote `id-002` eliminado de **Tabacos**")

	status, got = execute(t, out, &lotsCmd{app: a}, "Tabacos")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "_sin lotes_")
}

func TestMarginYTotals(t *testing.T) {
	a, out, _ := testApp(t)

	status, got := execute(t, out, &marginCmd{app: a}, "Filtros", "185")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "multiplicador `2.85`")

	status, _ = execute(t, out, &addCmd{app: a}, "Filtros", "Slim", "2", "10")
	require.Equal(t, subcommands.ExitSuccess, status)

	status, got = execute(t, out, &totalsCmd{app: a})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "| Filtros | 2.85 | 1 | R$ 10.00 | R$ 28.50 |")
	assert.Contains(t, got, "| Seda | 2.85 | 0 | R$ 0.00 | R$ 0.00 |")
	assert.Contains(t, got, "| **Total** | | | **R$ 10.00** | **R$ 28.50** |")

	status, _ = execute(t, out, &marginCmd{app: a}, "Filtros", "mucho")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestLog(t *testing.T) {
	a, out, _ := testApp(t)

	_, _ = execute(t, out, &addCmd{app: a}, "Seda", "Smoking", "10", "100")
	_, _ = execute(t, out, &removeCmd{app: a}, "Seda", "id-001")

	status, got := execute(t, out, &logCmd{app: a})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "1. Produto adicionado: Smoking - Categoria: Seda - Quantidade: 10 - Preço: R$100.00")
	assert.Contains(t, got, "2. Produto removido")
	assert.Contains(t, got, "2 de 2 entradas")

	status, got = execute(t, out, &logCmd{app: a}, "-n", "1", "-o", "1")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.NotContains(t, got, "1. Produto adicionado")
	assert.Contains(t, got, "2. Produto removido")
	assert.Contains(t, got, "1 de 2 entradas")
}

func TestCashFlow(t *testing.T) {
	a, out, _ := testApp(t)

	in := &cashCmd{app: a, movType: "IN"}
	outCmd := &cashCmd{app: a, movType: "OUT"}
	assert.Equal(t, "cash-in", in.Name())
	assert.Equal(t, "cash-out", outCmd.Name())

	status, _ := execute(t, out, in, "150,50", "venta", "mostrador")
	require.Equal(t, subcommands.ExitSuccess, status)
	status, got := execute(t, out, outCmd, "50")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "Saldo: **R$ 100.50**")

	status, got = execute(t, out, &balanceCmd{app: a})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, got, "| IN | R$ 150.50 | venta mostrador |")
	assert.Contains(t, got, "| OUT | R$ 50.00 |")

	status, _ = execute(t, out, in)
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\|b c`, escape("a|b\nc"))
}
