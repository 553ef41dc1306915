package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todo error de un comando es un rechazo: el estado no se modifica.
var (
	// ErrInvalidInput entrada mal formada o faltante (nombre vacío, cantidad/costo no positivo, número ilegible).
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrNotFound el lote referenciado no existe en la categoría indicada.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrUnknownCategory la categoría no pertenece al conjunto configurado.
	ErrUnknownCategory = errors.New("categoría desconocida")
)
