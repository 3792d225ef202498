package entity

import "time"

// Tipos de operación masiva (un lote importado = una operación reversible).
const (
	OperationConsumptionUpload = "consumption-upload"
	OperationPurchaseUpload    = "purchase-upload"
	OperationCorrectionUpload  = "correction-upload"
)

// Estados terminales de una operación.
const (
	OperationStatusCompleted = "completed" // todas las filas válidas confirmadas
	OperationStatusPartial   = "partial"   // confirmada con filas descartadas u omitidas
	OperationStatusFailed    = "failed"    // rollback total, no quedan transacciones
)

// Operation representa un lote de importación confirmado como unidad atómica.
// Borrarla elimina todas las transacciones que llevan su ID y dispara la
// re-proyección de los productos afectados: es el único "deshacer" del sistema.
type Operation struct {
	ID               string
	Type             string
	FileName         string
	UploadedBy       string
	UploadedAt       time.Time
	RecordsTotal     int
	RecordsProcessed int
	RecordsSkipped   int
	RecordsFailed    int
	Status           string
	CreatedAt        time.Time
}

// IsValidOperationType valida el tipo de lote.
func IsValidOperationType(t string) bool {
	switch t {
	case OperationConsumptionUpload, OperationPurchaseUpload, OperationCorrectionUpload:
		return true
	}
	return false
}
