package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrProductDeleted     = errors.New("producto dado de baja")
	ErrInconsistentLedger = errors.New("ledger inconsistente")
	ErrCommitFailed       = errors.New("fallo al confirmar el lote")
)
