package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-control/pkg/logger"
)

func TestNew_JSONEnProduccion(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warning", Out: &buf})

	log.Info().Msg("oculto")
	zl := log.Component("ledger")
	zl.Warn().Str("categoria", "Seda").Msg("categoría ignorada")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "Seda", entry["categoria"])
	assert.Equal(t, "categoría ignorada", entry["message"])
}

func TestNew_NivelDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "DEBUG", Out: &buf})
	zl := log.Component("api")
	zl.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
