package audit_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-control/internal/domain/audit"
)

func TestAppendConservaOrden(t *testing.T) {
	l := audit.NewLog(nil)
	l.Append("uno")
	l.Append("dos")
	l.Append("tres")

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"uno", "dos", "tres"}, slices.Collect(l.Entries()))
}

func TestEntriesEsReiniciable(t *testing.T) {
	l := audit.NewLog([]string{"a", "b"})

	first := slices.Collect(l.Entries())
	second := slices.Collect(l.Entries())
	assert.Equal(t, first, second)

	// Cortar la iteración temprano no altera el registro.
	for e := range l.Entries() {
		assert.Equal(t, "a", e)
		break
	}
	assert.Equal(t, 2, l.Len())
}

func TestNewLogCopiaEntradas(t *testing.T) {
	src := []string{"x"}
	l := audit.NewLog(src)
	src[0] = "modificado"

	assert.Equal(t, []string{"x"}, l.All())

	all := l.All()
	all[0] = "otro"
	assert.Equal(t, []string{"x"}, l.All())
}

func TestAllVacioNoEsNil(t *testing.T) {
	assert.NotNil(t, audit.NewLog(nil).All())
}
