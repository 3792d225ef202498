package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// OperationsUseCase lista, inspecciona y revierte operaciones masivas.
// Borrar una operación es el único "deshacer" del sistema: elimina todas sus
// transacciones y re-proyecta los productos afectados en la misma transacción.
type OperationsUseCase struct {
	txRunner     TxRunner
	opRepo       repository.OperationRepository
	log          *logger.Logger
	windowMonths int
}

// NewOperationsUseCase construye el registro de operaciones.
func NewOperationsUseCase(txRunner TxRunner, opRepo repository.OperationRepository, log *logger.Logger, windowMonths int) *OperationsUseCase {
	if windowMonths <= 0 {
		windowMonths = 12
	}
	return &OperationsUseCase{txRunner: txRunner, opRepo: opRepo, log: log, windowMonths: windowMonths}
}

// List devuelve las operaciones más recientes primero.
func (uc *OperationsUseCase) List(ctx context.Context, limit int) ([]dto.OperationDTO, error) {
	if limit <= 0 {
		limit = 50
	}
	ops, err := uc.opRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperationDTO, 0, len(ops))
	for _, op := range ops {
		out = append(out, dto.NewOperationDTO(op))
	}
	return out, nil
}

// Get devuelve el detalle de una operación.
func (uc *OperationsUseCase) Get(ctx context.Context, id string) (*dto.OperationDTO, error) {
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewOperationDTO(op)
	return &out, nil
}

// DeleteResult resumen de una reversión.
type DeleteResult struct {
	TransactionsDeleted int64 `json:"transactions_deleted"`
	ProductsReprojected int   `json:"products_reprojected"`
}

// Delete revierte una operación completa: borra sus transacciones y
// re-proyecta cada producto afectado, todo o nada. Tras la reversión el stock
// de cada producto vuelve exactamente a su valor previo a la importación.
func (uc *OperationsUseCase) Delete(ctx context.Context, operationID, actorID, actorRole string) (*DeleteResult, error) {
	var res DeleteResult
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		opRepo repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error {
		op, err := opRepo.GetByID(ctx, operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}

		affected, err := txRepo.DistinctProductIDs(ctx, operationID)
		if err != nil {
			return err
		}
		sort.Strings(affected)

		locked := make([]*entity.Product, 0, len(affected))
		for _, id := range affected {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p != nil {
				locked = append(locked, p)
			}
		}

		res.TransactionsDeleted, err = txRepo.DeleteByOperation(ctx, operationID)
		if err != nil {
			return fmt.Errorf("borrar transacciones de %s: %w", operationID, err)
		}

		for _, p := range locked {
			if err := reprojectProduct(ctx, txRepo, productRepo, p, now, uc.windowMonths); err != nil {
				return err
			}
			res.ProductsReprojected++
		}

		if err := opRepo.Delete(ctx, operationID); err != nil {
			return err
		}
		snapshot, _ := json.Marshal(dto.NewOperationDTO(op))
		return auditRepo.Record(ctx, &entity.AuditRecord{
			Action:     entity.AuditActionDeleteOperation,
			EntityType: "operation",
			EntityID:   operationID,
			Snapshot:   snapshot,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Timestamp:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("operation_id", operationID).
		Int64("transactions_deleted", res.TransactionsDeleted).
		Int("products_reprojected", res.ProductsReprojected).
		Msg("operación revertida")
	return &res, nil
}

// ClearAll reversión administrativa total: vacía el ledger, borra todas las
// operaciones y deja las proyecciones en cero. Pensado para resets completos
// entre migraciones de datos.
func (uc *OperationsUseCase) ClearAll(ctx context.Context, actorID, actorRole, reason string) (*DeleteResult, error) {
	var res DeleteResult
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		opRepo repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error {
		affected, err := txRepo.AllProductIDs(ctx)
		if err != nil {
			return err
		}
		sort.Strings(affected)

		locked := make([]*entity.Product, 0, len(affected))
		for _, id := range affected {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p != nil {
				locked = append(locked, p)
			}
		}

		res.TransactionsDeleted, err = txRepo.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("vaciar ledger: %w", err)
		}

		// Con el ledger vacío la proyección de cada producto es cero.
		for _, p := range locked {
			if err := reprojectProduct(ctx, txRepo, productRepo, p, now, uc.windowMonths); err != nil {
				return err
			}
			res.ProductsReprojected++
		}

		if _, err := opRepo.DeleteAll(ctx); err != nil {
			return err
		}
		snapshot, _ := json.Marshal(res)
		return auditRepo.Record(ctx, &entity.AuditRecord{
			Action:     entity.AuditActionClearAll,
			EntityType: "ledger",
			EntityID:   "*",
			Snapshot:   snapshot,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Reason:     reason,
			Timestamp:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Warn().
		Int64("transactions_deleted", res.TransactionsDeleted).
		Int("products_reprojected", res.ProductsReprojected).
		Str("actor", actorID).
		Msg("ledger vaciado por reversión administrativa")
	return &res, nil
}
