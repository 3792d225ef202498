package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// LedgerUseCase cubre el registro manual de transacciones y las lecturas del
// ledger: proyección cacheada, historial y ventanas de consumo de reporte.
type LedgerUseCase struct {
	txRunner     TxRunner
	txRepo       repository.TransactionRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
	windowMonths int
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(txRunner TxRunner, txRepo repository.TransactionRepository, productRepo repository.ProductRepository, log *logger.Logger, windowMonths int) *LedgerUseCase {
	if windowMonths <= 0 {
		windowMonths = inventory.DefaultAvgWindowMonths
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		txRepo:       txRepo,
		productRepo:  productRepo,
		log:          log,
		windowMonths: windowMonths,
	}
}

// RegisterTransaction registra una entrada manual (fuera de lote): valida,
// bloquea la fila del producto, inserta y re-proyecta en la misma transacción.
func (uc *LedgerUseCase) RegisterTransaction(ctx context.Context, in dto.RegisterTransactionRequest, actorID, actorRole string) (*dto.TransactionDTO, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: %w", in.Date, domain.ErrInvalidInput)
	}
	tx, err := entity.NewTransaction(in.ProductID, in.Type, in.Quantity, date, in.Notes, in.IncludeInAvg, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		_ repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.IsDeleted() {
			return domain.ErrProductDeleted
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return fmt.Errorf("insertar transacción: %w", err)
		}
		if err := reprojectProduct(ctx, txRepo, productRepo, product, now, uc.windowMonths); err != nil {
			return err
		}
		snapshot, _ := json.Marshal(dto.NewTransactionDTO(tx))
		return auditRepo.Record(ctx, &entity.AuditRecord{
			Action:     entity.AuditActionCreateTransaction,
			EntityType: "transaction",
			EntityID:   tx.ID,
			Snapshot:   snapshot,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Timestamp:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewTransactionDTO(tx)
	return &out, nil
}

// GetProjection devuelve la proyección cacheada del producto.
func (uc *LedgerUseCase) GetProjection(ctx context.Context, productID string) (*dto.ProjectionDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProjectionDTO(product)
	return &out, nil
}

// ListTransactions devuelve el historial completo del producto en orden de
// replay. Se permite consultar productos dados de baja: su historial sigue
// disponible para auditoría.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, productID string) ([]dto.TransactionDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.txRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.NewTransactionDTO(tx))
	}
	return out, nil
}

// ConsumptionWindow calcula el consumo promedio en una ventana de reporte
// (3, 4 o 12 meses) directamente desde el ledger. La proyección cacheada del
// producto usa siempre la ventana de 12 meses; estas vistas son solo de
// reporte y no tocan el punto de reorden.
func (uc *LedgerUseCase) ConsumptionWindow(ctx context.Context, productID string, months int) (*dto.ConsumptionWindowDTO, error) {
	switch months {
	case inventory.QuarterAvgWindowMonths, inventory.FourMonthAvgWindowMonths, inventory.DefaultAvgWindowMonths:
	default:
		return nil, fmt.Errorf("ventana de %d meses: %w", months, domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.txRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	proj, err := inventory.Project(txs, time.Now(), months)
	if err != nil {
		return nil, err
	}
	return &dto.ConsumptionWindowDTO{
		ProductID:      productID,
		WindowMonths:   months,
		AvgConsumption: proj.AvgConsumption.Round(2),
		QualifyingOuts: proj.QualifyingOuts,
	}, nil
}

// RecalculateAll re-deriva la proyección cacheada de todos los productos con
// transacciones, cada uno en su propia transacción corta, con paralelismo
// acotado. Herramienta administrativa para después de migraciones de datos.
func (uc *LedgerUseCase) RecalculateAll(ctx context.Context, parallelism int) (int, error) {
	if parallelism <= 0 {
		parallelism = 8
	}
	ids, err := uc.txRepo.AllProductIDs(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return uc.txRunner.Run(gctx, func(
				txRepo repository.TransactionRepository,
				productRepo repository.ProductRepository,
				_ repository.OperationRepository,
				_ repository.AuditRepository,
			) error {
				product, err := productRepo.GetForUpdate(gctx, id)
				if err != nil {
					return err
				}
				if product == nil {
					return nil // transacciones huérfanas de un producto borrado físicamente
				}
				return reprojectProduct(gctx, txRepo, productRepo, product, time.Now(), uc.windowMonths)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	uc.log.Info().Int("products", len(ids)).Msg("proyecciones recalculadas")
	return len(ids), nil
}
