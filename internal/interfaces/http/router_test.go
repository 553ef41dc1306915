package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
	"github.com/jhoicas/stock-control/internal/infrastructure/memory"
	"github.com/jhoicas/stock-control/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/stock-control/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubGenerator struct{}

func (stubGenerator) GenerateStockReport(context.Context, *dto.StockReportDTO) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type testServer struct {
	app     *fiber.App
	repo    *memory.SnapshotRepo
	metrics *metrics.Metrics
}

// buildTestApp arma la API completa sobre un repositorio en memoria.
func buildTestApp(t *testing.T) *testServer {
	t.Helper()
	n := 0
	cfg := inventory.StockConfig{Ledger: ledger.Config{
		Categories: []entity.Category{"Seda", "Filtros", "Tabacos", "Papel Fino"},
		Margins: map[entity.Category]decimal.Decimal{
			"Seda":       decimal.RequireFromString("2.85"),
			"Filtros":    decimal.RequireFromString("1.5"),
			"Tabacos":    decimal.RequireFromString("2"),
			"Papel Fino": decimal.RequireFromString("2"),
		},
		Clock: func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
		NewID: func() string { n++; return fmt.Sprintf("lot-%03d", n) },
	}}

	repo := memory.NewSnapshotRepository()
	m := metrics.New()
	stockUC, err := inventory.NewStockUseCase(context.Background(), cfg, repo, m, zerolog.Nop())
	require.NoError(t, err)
	reportUC := inventory.NewReportUseCase(stockUC, stubGenerator{}, func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{StockUC: stockUC, ReportUC: reportUC, Metrics: m})
	return &testServer{app: app, repo: repo, metrics: m}
}

// do lanza la petición y devuelve status y body.
func (s *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLot_Creado(t *testing.T) {
	s := buildTestApp(t)

	status, body := s.do(t, http.MethodPost, "/api/stock/Seda/lots", `{"name":"Smoking","quantity":10,"cost_total":"100,00"}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	lot := decode[map[string]any](t, body)
	assert.Equal(t, "lot-001", lot["id"])
	assert.Equal(t, "10", lot["cost_per_unit"])
	assert.Equal(t, "28.5", lot["suggested_price"])
	assert.Equal(t, "285", lot["suggested_total"])
	assert.Equal(t, "2024-03-15", lot["date_added"])
	assert.Equal(t, 1, s.repo.Saves())

	status, body = s.do(t, http.MethodGet, "/api/stock/Seda", "")
	require.Equal(t, http.StatusOK, status)
	cat := decode[dto.CategoryDTO](t, body)
	assert.Equal(t, 1, cat.LotCount)
	require.Len(t, cat.Lots, 1)
	assert.Equal(t, "Smoking", cat.Lots[0].Name)
	assert.Equal(t, "285", cat.TotalSuggested.String())
}

func TestAddLot_CategoriasSeguidasConservanSuNombre(t *testing.T) {
	s := buildTestApp(t)

	status, body := s.do(t, http.MethodPost, "/api/stock/Seda/lots", `{"name":"Smoking","quantity":10,"cost_total":100}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	status, body = s.do(t, http.MethodPost, "/api/stock/Filtros/lots", `{"name":"Gizeh","quantity":2,"cost_total":10}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	status, body = s.do(t, http.MethodPut, "/api/margins/Tabacos", `{"percent":50}`)
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = s.do(t, http.MethodPost, "/api/stock/Papel%20Fino/lots", `{"name":"Bloc","quantity":1,"cost_total":5}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, status)
	cats := decode[[]dto.CategoryDTO](t, body)
	require.Len(t, cats, 4)
	want := map[string]int{"Seda": 1, "Filtros": 1, "Tabacos": 0, "Papel Fino": 1}
	for _, c := range cats {
		n, ok := want[c.Name]
		require.True(t, ok, "categoría inesperada %q", c.Name)
		assert.Equal(t, n, c.LotCount, c.Name)
	}
	assert.Equal(t, "1.5", cats[2].Multiplier.String())

	status, body = s.do(t, http.MethodGet, "/api/totals", "")
	require.Equal(t, http.StatusOK, status)
	totals := decode[dto.TotalsDTO](t, body)
	assert.Equal(t, "115", totals.TotalSpent.String())

	raw, ok := s.repo.Blob("stock")
	require.True(t, ok)
	var stock map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &stock))
	assert.Len(t, stock, 4)
	for name, n := range want {
		assert.Len(t, stock[name], n, name)
	}
	var margins map[string]any
	raw, _ = s.repo.Blob("profitMargin")
	require.NoError(t, json.Unmarshal(raw, &margins))
	assert.Contains(t, margins, "Tabacos")
	assert.Len(t, margins, 4)
}

func TestAddLot_Errores(t *testing.T) {
	s := buildTestApp(t)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"json roto", "/api/stock/Seda/lots", `{"name":`, http.StatusBadRequest, "INVALID_BODY"},
		{"sin nombre", "/api/stock/Seda/lots", `{"quantity":1,"cost_total":1}`, http.StatusBadRequest, "VALIDATION"},
		{"cantidad cero", "/api/stock/Seda/lots", `{"name":"x","quantity":0,"cost_total":1}`, http.StatusBadRequest, "VALIDATION"},
		{"cantidad decimal", "/api/stock/Seda/lots", `{"name":"x","quantity":"1.5","cost_total":1}`, http.StatusBadRequest, "VALIDATION"},
		{"costo negativo", "/api/stock/Seda/lots", `{"name":"x","quantity":1,"cost_total":-5}`, http.StatusBadRequest, "VALIDATION"},
		{"categoría desconocida", "/api/stock/Papel/lots", `{"name":"x","quantity":1,"cost_total":1}`, http.StatusNotFound, "UNKNOWN_CATEGORY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.status, status, string(body))
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, body).Code)
		})
	}
	assert.Equal(t, 0, s.repo.Saves(), "ningún comando rechazado persiste")
}

func TestAddLot_CategoriaConEspacio(t *testing.T) {
	s := buildTestApp(t)

	status, body := s.do(t, http.MethodPost, "/api/stock/Papel%20Fino/lots", `{"name":"Bloc","quantity":2,"cost_total":3}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/stock/Papel%20Fino", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Papel Fino", decode[dto.CategoryDTO](t, body).Name)
}

func TestRemoveLot(t *testing.T) {
	s := buildTestApp(t)
	status, _ := s.do(t, http.MethodPost, "/api/stock/Filtros/lots", `{"name":"Gizeh","quantity":5,"cost_total":10}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodDelete, "/api/stock/Filtros/lots/lot-001", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body := s.do(t, http.MethodDelete, "/api/stock/Filtros/lots/lot-001", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}

func TestEditLot(t *testing.T) {
	s := buildTestApp(t)
	status, _ := s.do(t, http.MethodPost, "/api/stock/Tabacos/lots", `{"name":"Acrema","quantity":4,"cost_total":"37,80"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := s.do(t, http.MethodPut, "/api/stock/Tabacos/lots/lot-001", `{"name":"Acrema 50g","quantity":"5","cost_total":50}`)
	require.Equal(t, http.StatusOK, status, string(body))
	lot := decode[map[string]any](t, body)
	assert.Equal(t, "Acrema 50g", lot["name"])
	assert.Equal(t, "20", lot["suggested_price"])

	status, body = s.do(t, http.MethodPut, "/api/stock/Tabacos/lots/no-existe", `{"name":"x","quantity":1,"cost_total":1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Márgenes, totales y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestSetMargin(t *testing.T) {
	s := buildTestApp(t)

	status, body := s.do(t, http.MethodPut, "/api/margins/Filtros", `{"percent":185}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "2.85", decode[map[string]any](t, body)["multiplier"])

	status, body = s.do(t, http.MethodPut, "/api/margins/Filtros", `{"percent":"-100"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	status, body = s.do(t, http.MethodPut, "/api/margins/Papel", `{"percent":10}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "UNKNOWN_CATEGORY", decode[dto.ErrorResponse](t, body).Code)

	status, body = s.do(t, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, status)
	cats := decode[[]dto.CategoryDTO](t, body)
	require.Len(t, cats, 4)
	assert.Equal(t, "Filtros", cats[1].Name)
	assert.Equal(t, "2.85", cats[1].Multiplier.String())
}

func TestTotalsYLog(t *testing.T) {
	s := buildTestApp(t)
	for _, b := range []string{
		`{"name":"Smoking","quantity":10,"cost_total":100}`,
		`{"name":"OCB","quantity":1,"cost_total":10}`,
	} {
		status, _ := s.do(t, http.MethodPost, "/api/stock/Seda/lots", b)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := s.do(t, http.MethodGet, "/api/totals", "")
	require.Equal(t, http.StatusOK, status)
	totals := decode[dto.TotalsDTO](t, body)
	assert.Equal(t, "110", totals.TotalSpent.String())
	assert.Equal(t, "313.5", totals.TotalSuggested.String())

	status, body = s.do(t, http.MethodGet, "/api/log?limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, status)
	log := decode[dto.AuditLogDTO](t, body)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "Produto adicionado: OCB - Categoria: Seda - Quantidade: 1 - Preço: R$10.00", log.Entries[0])
	assert.Equal(t, 2, log.Page.Total)

	status, _ = s.do(t, http.MethodGet, "/api/log?offset=-1", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caja, reportes y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestCashFlow(t *testing.T) {
	s := buildTestApp(t)

	status, body := s.do(t, http.MethodPost, "/api/cashflow", `{"type":"IN","value":"200,50","description":"ventas"}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	status, _ = s.do(t, http.MethodPost, "/api/cashflow", `{"type":"out","value":50}`)
	require.Equal(t, http.StatusCreated, status)

	status, body = s.do(t, http.MethodPost, "/api/cashflow", `{"type":"LOAN","value":50}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	status, body = s.do(t, http.MethodGet, "/api/cashflow", "")
	require.Equal(t, http.StatusOK, status)
	flow := decode[dto.CashFlowDTO](t, body)
	assert.Len(t, flow.Movements, 2)
	assert.Equal(t, "150.5", flow.Balance.String())
}

func TestStockPDF(t *testing.T) {
	s := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/stock.pdf", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock-20240315-1200.pdf")
}

func TestMetrics(t *testing.T) {
	s := buildTestApp(t)
	status, _ := s.do(t, http.MethodPost, "/api/stock/Seda/lots", `{"name":"Smoking","quantity":1,"cost_total":1}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	text := string(body)
	assert.Contains(t, text, `stock_control_commands_total{command="add_lot",result="ok"} 1`)
	assert.Contains(t, text, `stock_control_lots_in_stock{category="Seda"} 1`)
	assert.Contains(t, text, `path="/api/stock/:category/lots"`)
}
