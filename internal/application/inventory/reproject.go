package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// reprojectProduct recalcula la proyección cacheada de un producto ya
// bloqueado (fila tomada con FOR UPDATE) y la escribe por el único camino
// permitido, UpdateProjection. Los productos dados de baja se omiten: quedan
// fuera de toda proyección aunque su historial siga consultable.
func reprojectProduct(ctx context.Context, txRepo repository.TransactionRepository, productRepo repository.ProductRepository, product *entity.Product, asOf time.Time, windowMonths int) error {
	if product.IsDeleted() {
		return nil
	}
	txs, err := txRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("leer ledger de %s: %w", product.ID, err)
	}
	proj, err := inventory.Project(txs, asOf, windowMonths)
	if err != nil {
		return err
	}
	rp := inventory.ReorderPoint(proj.AvgConsumption, product.EffectiveLeadTimeDays(), product.EffectiveSafetyStockDays())
	if err := productRepo.UpdateProjection(ctx, product.ID, proj.CurrentStock, proj.AvgConsumption, rp, asOf); err != nil {
		return fmt.Errorf("actualizar proyección de %s: %w", product.ID, err)
	}
	return nil
}
