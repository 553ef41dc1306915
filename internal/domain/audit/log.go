// Package audit mantiene el registro de auditoría: una lista ordenada de textos
// legibles, uno por mutación completada. Solo admite agregar al final.
package audit

import "iter"

// Log registro de auditoría en memoria. El orden de las entradas es el orden causal
// de los comandos.
type Log struct {
	entries []string
}

// NewLog construye el registro a partir de entradas previas (ej. al reanudar).
func NewLog(entries []string) *Log {
	return &Log{entries: append([]string(nil), entries...)}
}

// Append agrega una entrada al final.
func (l *Log) Append(text string) {
	l.entries = append(l.entries, text)
}

// Entries recorre las entradas en orden. La secuencia es finita y se puede
// recorrer varias veces sin modificar el registro.
func (l *Log) Entries() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len cantidad de entradas.
func (l *Log) Len() int { return len(l.entries) }

// All devuelve una copia de las entradas (para snapshots).
func (l *Log) All() []string {
	return append([]string{}, l.entries...)
}
