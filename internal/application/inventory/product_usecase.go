package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ProductUseCase cubre el borde del catálogo que el ledger necesita: alta
// mínima y baja lógica auditada. El CRUD completo del catálogo vive fuera de
// este núcleo.
type ProductUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewProductUseCase construye el caso de uso de catálogo.
func NewProductUseCase(txRunner TxRunner, productRepo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, log: log}
}

// SoftDelete marca la baja lógica del producto con motivo y actor. El producto
// queda fuera de proyecciones y riesgo, pero su historial sigue consultable.
func (uc *ProductUseCase) SoftDelete(ctx context.Context, productID, reason, actorID, actorRole string) error {
	if reason == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		_ repository.TransactionRepository,
		productRepo repository.ProductRepository,
		_ repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.IsDeleted() {
			return domain.ErrConflict
		}
		if err := productRepo.SoftDelete(ctx, productID, reason, actorID); err != nil {
			return err
		}
		snapshot, _ := json.Marshal(map[string]any{
			"artis_codes":   product.ArtisCodes,
			"name":          product.Name,
			"current_stock": product.CurrentStock.Round(2),
		})
		return auditRepo.Record(ctx, &entity.AuditRecord{
			Action:     entity.AuditActionSoftDeleteProduct,
			EntityType: "product",
			EntityID:   productID,
			Snapshot:   snapshot,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Reason:     reason,
			Timestamp:  now,
		})
	})
}
