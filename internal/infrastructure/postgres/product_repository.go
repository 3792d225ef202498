package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
// Los códigos Artis se guardan como text[] y se resuelven con ANY.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, artis_codes, name, category, supplier, thickness,
		lead_time_days, safety_stock_days, is_imported, order_quantity,
		current_stock, avg_consumption, reorder_point, last_updated,
		created_at, updated_at, deleted_at, deleted_reason, deleted_by`

// Create registra un producto nuevo en el catálogo.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ArtisCodes, p.Name, p.Category, p.Supplier, nullable(p.Thickness),
		p.LeadTimeDays, p.SafetyStockDays, p.IsImported, p.OrderQuantity,
		p.CurrentStock, p.AvgConsumption, p.ReorderPoint, p.LastUpdated,
		p.CreatedAt, p.UpdatedAt, p.DeletedAt, nullable(p.DeletedReason), nullable(p.DeletedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto con código duplicado", domain.ErrDuplicate)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID busca por id. Devuelve (nil, nil) cuando no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByCode resuelve por cualquiera de los códigos Artis del producto.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE $1 = ANY(artis_codes)`
	return r.get(ctx, query, code)
}

// GetForUpdate obtiene el producto bloqueando su fila. Solo tiene sentido
// dentro de una transacción; la fila queda serializada hasta el commit.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *ProductRepo) get(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	row := r.q.QueryRow(ctx, query, args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListActive lista productos sin baja lógica, paginado.
func (r *ProductRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE deleted_at IS NULL
		ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateProjection escribe la proyección cacheada del ledger. Es el único
// UPDATE sobre current_stock/avg_consumption/reorder_point.
func (r *ProductRepo) UpdateProjection(ctx context.Context, productID string, stock, avgConsumption decimal.Decimal, reorderPoint *decimal.Decimal, at time.Time) error {
	query := `
		UPDATE products
		SET current_stock = $2, avg_consumption = $3, reorder_point = $4,
		    last_updated = $5, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, stock, avgConsumption, reorderPoint, at)
	if err != nil {
		return fmt.Errorf("update projection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

// SoftDelete marca la baja lógica. No toca el ledger.
func (r *ProductRepo) SoftDelete(ctx context.Context, id, reason, actor string) error {
	query := `
		UPDATE products
		SET deleted_at = $2, deleted_reason = $3, deleted_by = $4, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, time.Now(), reason, nullable(actor))
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var thickness, deletedReason, deletedBy *string
	var lastUpdated *time.Time
	err := row.Scan(
		&p.ID, &p.ArtisCodes, &p.Name, &p.Category, &p.Supplier, &thickness,
		&p.LeadTimeDays, &p.SafetyStockDays, &p.IsImported, &p.OrderQuantity,
		&p.CurrentStock, &p.AvgConsumption, &p.ReorderPoint, &lastUpdated,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &deletedReason, &deletedBy,
	)
	if err != nil {
		return nil, err
	}
	if thickness != nil {
		p.Thickness = *thickness
	}
	if lastUpdated != nil {
		p.LastUpdated = *lastUpdated
	}
	if deletedReason != nil {
		p.DeletedReason = *deletedReason
	}
	if deletedBy != nil {
		p.DeletedBy = *deletedBy
	}
	return &p, nil
}
