package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// La proyección cacheada tiene un único camino de escritura: UpdateProjection.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// GetByCode resuelve un producto por cualquiera de sus códigos Artis.
	GetByCode(ctx context.Context, code string) (*entity.Product, error)

	// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE)
	// para serializar escrituras concurrentes sobre el mismo producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)

	// ListActive lista productos sin baja lógica.
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Product, error)

	// UpdateProjection escribe la proyección cacheada. Ningún otro método
	// del sistema muta currentStock/avgConsumption/reorderPoint.
	UpdateProjection(ctx context.Context, productID string, stock, avgConsumption decimal.Decimal, reorderPoint *decimal.Decimal, at time.Time) error

	// SoftDelete marca la baja lógica con motivo y actor; el historial de
	// transacciones permanece consultable.
	SoftDelete(ctx context.Context, id, reason, actor string) error
}
