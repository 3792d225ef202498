package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository sobre PostgreSQL.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `id, type, file_name, uploaded_by, uploaded_at,
		records_total, records_processed, records_skipped, records_failed,
		status, created_at`

// Create registra la operación del lote.
func (r *OperationRepo) Create(ctx context.Context, op *entity.Operation) error {
	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	now := time.Now()
	if op.UploadedAt.IsZero() {
		op.UploadedAt = now
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = now
	}
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Type, nullable(op.FileName), nullable(op.UploadedBy), op.UploadedAt,
		op.RecordsTotal, op.RecordsProcessed, op.RecordsSkipped, op.RecordsFailed,
		op.Status, op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create operation: %w", err)
	}
	return nil
}

// GetByID busca por id. Devuelve (nil, nil) cuando no existe.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1`
	row := r.q.QueryRow(ctx, query, id)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return op, nil
}

// List devuelve las operaciones más recientes primero.
func (r *OperationRepo) List(ctx context.Context, limit int) ([]*entity.Operation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + operationColumns + `
		FROM operations ORDER BY uploaded_at DESC, id LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

// UpdateSummary cierra los contadores y el estado terminal del lote.
func (r *OperationRepo) UpdateSummary(ctx context.Context, id string, processed, skipped, failed int, status string) error {
	query := `
		UPDATE operations
		SET records_processed = $2, records_skipped = $3, records_failed = $4, status = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, processed, skipped, failed, status)
	if err != nil {
		return fmt.Errorf("update operation summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
	}
	return nil
}

// Delete elimina el registro de la operación. Las transacciones asociadas
// se borran por separado dentro de la misma transacción SQL.
func (r *OperationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteAll vacía el registro de operaciones (reset administrativo).
func (r *OperationRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM operations`)
	if err != nil {
		return 0, fmt.Errorf("delete all operations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanOperation(row pgx.Row) (*entity.Operation, error) {
	var op entity.Operation
	var fileName, uploadedBy *string
	err := row.Scan(
		&op.ID, &op.Type, &fileName, &uploadedBy, &op.UploadedAt,
		&op.RecordsTotal, &op.RecordsProcessed, &op.RecordsSkipped, &op.RecordsFailed,
		&op.Status, &op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fileName != nil {
		op.FileName = *fileName
	}
	if uploadedBy != nil {
		op.UploadedBy = *uploadedBy
	}
	return &op, nil
}
