package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del Ledger Store sobre PostgreSQL (usable con
// pool o tx). La tabla transactions es append-only: no existe UPDATE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = "id, product_id, type, quantity, date, notes, include_in_avg, operation_id, created_at"

// Create persiste una transacción del ledger.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ProductID, tx.Type, tx.Quantity, tx.Date,
		nullable(tx.Notes), tx.IncludeInAvg, nullable(tx.OperationID), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// CreateBatch persiste un tramo con un solo INSERT multi-fila. La atomicidad
// del lote completo la da la transacción SQL del caller.
func (r *TransactionRepo) CreateBatch(ctx context.Context, txs []*entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	now := time.Now()
	var sb strings.Builder
	sb.WriteString("INSERT INTO transactions (" + transactionColumns + ") VALUES ")
	args := make([]any, 0, len(txs)*9)
	for i, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args,
			tx.ID, tx.ProductID, tx.Type, tx.Quantity, tx.Date,
			nullable(tx.Notes), tx.IncludeInAvg, nullable(tx.OperationID), tx.CreatedAt,
		)
	}
	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("create transaction batch: %w", err)
	}
	return nil
}

// ListByProduct devuelve la secuencia completa del producto en orden de
// replay: date, created_at, id. El desempate por id mantiene la secuencia
// estable entre ejecuciones.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE product_id = $1
		ORDER BY date, created_at, id`
	return r.list(ctx, query, productID)
}

// ListByOperation lista las transacciones de un lote.
func (r *TransactionRepo) ListByOperation(ctx context.Context, operationID string) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE operation_id = $1
		ORDER BY date, created_at, id`
	return r.list(ctx, query, operationID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var notes, operationID *string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Date,
			&notes, &t.IncludeInAvg, &operationID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if notes != nil {
			t.Notes = *notes
		}
		if operationID != nil {
			t.OperationID = *operationID
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// DeleteByOperation elimina todas las transacciones del lote.
func (r *TransactionRepo) DeleteByOperation(ctx context.Context, operationID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE operation_id = $1`, operationID)
	if err != nil {
		return 0, fmt.Errorf("delete by operation: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAll vacía el ledger (reset administrativo).
func (r *TransactionRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions`)
	if err != nil {
		return 0, fmt.Errorf("delete all transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DistinctProductIDs productos con transacciones del lote.
func (r *TransactionRepo) DistinctProductIDs(ctx context.Context, operationID string) ([]string, error) {
	return r.ids(ctx, `SELECT DISTINCT product_id FROM transactions WHERE operation_id = $1`, operationID)
}

// AllProductIDs todos los productos con transacciones.
func (r *TransactionRepo) AllProductIDs(ctx context.Context) ([]string, error) {
	return r.ids(ctx, `SELECT DISTINCT product_id FROM transactions`)
}

func (r *TransactionRepo) ids(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
