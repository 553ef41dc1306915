// Package metrics expone las métricas Prometheus del servicio en un registry propio.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-control/internal/domain"
)

const namespace = "stock_control"

// Metrics agrupa los colectores del servicio.
type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal       *prometheus.CounterVec
	SnapshotSaves       *prometheus.CounterVec
	SnapshotSaveSeconds prometheus.Histogram
	LotsInStock         *prometheus.GaugeVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registra todos los colectores (incluidos los de runtime de Go y proceso).
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Comandos ejecutados sobre el libro de stock, por resultado",
		},
		[]string{"command", "result"},
	)
	m.SnapshotSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_saves_total",
			Help:      "Escrituras del snapshot, por resultado",
		},
		[]string{"result"},
	)
	m.SnapshotSaveSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_save_duration_seconds",
			Help:      "Duración de la escritura del snapshot",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
	m.LotsInStock = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lots_in_stock",
			Help:      "Lotes actuales por categoría",
		},
		[]string{"category"},
	)
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requests HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de requests HTTP en segundos",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.CommandsTotal,
		m.SnapshotSaves,
		m.SnapshotSaveSeconds,
		m.LotsInStock,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Registry para tests y para exponer /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler devuelve el handler HTTP de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CommandExecuted cuenta un comando. El resultado distingue rechazos de validación,
// categoría desconocida, no encontrado y errores internos.
func (m *Metrics) CommandExecuted(command string, err error) {
	m.CommandsTotal.WithLabelValues(command, result(err)).Inc()
}

// SnapshotSaved registra una escritura del snapshot.
func (m *Metrics) SnapshotSaved(d time.Duration, err error) {
	m.SnapshotSaveSeconds.Observe(d.Seconds())
	if err != nil {
		m.SnapshotSaves.WithLabelValues("error").Inc()
		return
	}
	m.SnapshotSaves.WithLabelValues("ok").Inc()
}

// CategoryLots fija la cantidad de lotes de una categoría.
func (m *Metrics) CategoryLots(category string, n int) {
	m.LotsInStock.WithLabelValues(category).Set(float64(n))
}

// RecordHTTPRequest registra un request ya respondido.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
