package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables sobre el ledger.
const (
	AuditActionBulkImport        = "bulk-import"
	AuditActionCreateTransaction = "create-transaction"
	AuditActionDeleteOperation   = "delete-operation"
	AuditActionClearAll          = "clear-all"
	AuditActionSoftDeleteProduct = "soft-delete-product"
)

// AuditRecord es el registro estructurado que recibe el sink de auditoría
// por cada acción mutadora. El ledger escribe aquí pero nunca lee.
type AuditRecord struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	Snapshot   json.RawMessage
	ActorID    string
	ActorRole  string
	Reason     string
	Timestamp  time.Time
}
