package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RegisterTransactionRequest body para POST /api/transactions (entrada manual).
type RegisterTransactionRequest struct {
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"` // IN | OUT | CORRECTION
	Quantity     decimal.Decimal `json:"quantity"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Notes        string          `json:"notes,omitempty"`
	IncludeInAvg bool            `json:"include_in_avg"`
}

// TransactionDTO representación externa de una entrada del ledger.
type TransactionDTO struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Date         string          `json:"date"`
	Notes        string          `json:"notes,omitempty"`
	IncludeInAvg bool            `json:"include_in_avg"`
	OperationID  string          `json:"operation_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProjectionDTO proyección cacheada de un producto. Los montos se redondean a
// 2 decimales solo aquí, en el borde externo.
type ProjectionDTO struct {
	ProductID      string           `json:"product_id"`
	ArtisCode      string           `json:"artis_code"`
	Name           string           `json:"name,omitempty"`
	CurrentStock   decimal.Decimal  `json:"current_stock"`
	AvgConsumption decimal.Decimal  `json:"avg_consumption"`
	ReorderPoint   *decimal.Decimal `json:"reorder_point,omitempty"`
	LastUpdated    time.Time        `json:"last_updated"`
}

// ConsumptionWindowDTO consumo promedio en una ventana de reporte (3/4/12 meses).
type ConsumptionWindowDTO struct {
	ProductID      string          `json:"product_id"`
	WindowMonths   int             `json:"window_months"`
	AvgConsumption decimal.Decimal `json:"avg_consumption"`
	QualifyingOuts int             `json:"qualifying_outs"`
}

// ImportRowRequest fila cruda de un lote tal como llega del adaptador externo.
// Los campos numéricos y de fecha viajan como texto: la validación vive en el
// caso de uso, no aquí.
type ImportRowRequest struct {
	ArtisCode string `json:"artis_code"`
	Quantity  string `json:"quantity"` // en ajustes puede venir con signo
	Date      string `json:"date"`     // YYYY-MM-DD o YYYY-MM
	Notes     string `json:"notes,omitempty"`
	Reason    string `json:"reason,omitempty"` // obligatorio en ajustes
}

// ImportBatchRequest body para POST /api/imports/:type.
type ImportBatchRequest struct {
	FileName string             `json:"file_name,omitempty"`
	Rows     []ImportRowRequest `json:"rows"`
}

// RowErrorDTO fila rechazada por validación dentro de un lote.
type RowErrorDTO struct {
	Index  int    `json:"index"` // posición de la fila en el lote (base 0)
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

// SkippedRowDTO fila omitida por duplicado (contra el ledger o dentro del lote).
type SkippedRowDTO struct {
	Index int    `json:"index"`
	Code  string `json:"code"`
	Key   string `json:"key"` // clave de deduplicación que colisionó
}

// ImportResultDTO resumen estructurado de un intento de importación. Se
// devuelve incluso con filas imperfectas; solo un fallo del store produce un
// rechazo total del lote.
type ImportResultDTO struct {
	OperationID string          `json:"operation_id,omitempty"` // vacío si todas las filas fueron inválidas
	Status      string          `json:"status"`
	Processed   int             `json:"processed"`
	Skipped     []SkippedRowDTO `json:"skipped"`
	Errors      []RowErrorDTO   `json:"errors"`
}

// OperationDTO representación externa de una operación masiva.
type OperationDTO struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	FileName         string    `json:"file_name,omitempty"`
	UploadedBy       string    `json:"uploaded_by,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
	RecordsTotal     int       `json:"records_total"`
	RecordsProcessed int       `json:"records_processed"`
	RecordsSkipped   int       `json:"records_skipped"`
	RecordsFailed    int       `json:"records_failed"`
	Status           string    `json:"status"`
}

// NewTransactionDTO mapea la entidad al DTO redondeando a 2 decimales.
func NewTransactionDTO(t *entity.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           t.ID,
		ProductID:    t.ProductID,
		Type:         t.Type,
		Quantity:     t.Quantity.Round(2),
		Date:         t.Date.Format("2006-01-02"),
		Notes:        t.Notes,
		IncludeInAvg: t.IncludeInAvg,
		OperationID:  t.OperationID,
		CreatedAt:    t.CreatedAt,
	}
}

// NewProjectionDTO mapea la proyección cacheada del producto al DTO.
func NewProjectionDTO(p *entity.Product) ProjectionDTO {
	dto := ProjectionDTO{
		ProductID:      p.ID,
		ArtisCode:      p.PrimaryCode(),
		Name:           p.Name,
		CurrentStock:   p.CurrentStock.Round(2),
		AvgConsumption: p.AvgConsumption.Round(2),
		LastUpdated:    p.LastUpdated,
	}
	if p.ReorderPoint != nil {
		rp := p.ReorderPoint.Round(2)
		dto.ReorderPoint = &rp
	}
	return dto
}

// NewOperationDTO mapea la operación al DTO.
func NewOperationDTO(op *entity.Operation) OperationDTO {
	return OperationDTO{
		ID:               op.ID,
		Type:             op.Type,
		FileName:         op.FileName,
		UploadedBy:       op.UploadedBy,
		UploadedAt:       op.UploadedAt,
		RecordsTotal:     op.RecordsTotal,
		RecordsProcessed: op.RecordsProcessed,
		RecordsSkipped:   op.RecordsSkipped,
		RecordsFailed:    op.RecordsFailed,
		Status:           op.Status,
	}
}
