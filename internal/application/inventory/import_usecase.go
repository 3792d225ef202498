package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// Estados del resultado de importación.
const (
	ImportStatusAllInvalid = "all-invalid" // ninguna fila válida: no se crea operación
)

// DefaultImportChunkSize tamaño de tramo para los inserts multi-fila.
const DefaultImportChunkSize = 500

// ImportUseCase convierte filas crudas del adaptador externo en una operación
// confirmada: valida, deduplica, inserta bajo un único operationId y
// re-proyecta cada producto tocado antes de retornar (sin ventana de
// consistencia eventual). Todo el lote se confirma o se revierte completo.
type ImportUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	log          *logger.Logger
	windowMonths int
	chunkSize    int
}

// NewImportUseCase construye el caso de uso de importación masiva.
func NewImportUseCase(txRunner TxRunner, productRepo repository.ProductRepository, log *logger.Logger, windowMonths, chunkSize int) *ImportUseCase {
	if windowMonths <= 0 {
		windowMonths = 12
	}
	if chunkSize <= 0 {
		chunkSize = DefaultImportChunkSize
	}
	return &ImportUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		log:          log,
		windowMonths: windowMonths,
		chunkSize:    chunkSize,
	}
}

// acceptedRow fila validada con su producto resuelto.
type acceptedRow struct {
	index int
	norm  normalizedRow
	prod  *entity.Product
}

// ImportBatch ejecuta un intento de importación completo.
//
// Semántica de fallo parcial: una fila inválida se registra en Errors y se
// excluye, nunca aborta el lote; un duplicado (contra el ledger o dentro del
// lote) se reporta en Skipped. Solo un fallo del store revierte todo: en ese
// caso no persiste ninguna transacción del intento y se devuelve
// ErrCommitFailed. meta identifica la carga (archivo y actor) para el registro
// de operaciones y la auditoría.
func (uc *ImportUseCase) ImportBatch(ctx context.Context, operationType string, rows []ImportRow, keyFn DedupeKeyFunc, meta ImportMeta) (*dto.ImportResultDTO, error) {
	if !entity.IsValidOperationType(operationType) {
		return nil, fmt.Errorf("tipo de operación %q: %w", operationType, domain.ErrInvalidInput)
	}
	if keyFn == nil {
		keyFn = DefaultDedupeKey(operationType)
	}

	result := &dto.ImportResultDTO{
		Skipped: []dto.SkippedRowDTO{},
		Errors:  []dto.RowErrorDTO{},
	}

	// Validación fila a fila: las inválidas quedan en Errors y no abortan.
	accepted := make([]acceptedRow, 0, len(rows))
	productsByCode := make(map[string]*entity.Product)
	for i, row := range rows {
		norm, err := row.normalize()
		if err != nil {
			result.Errors = append(result.Errors, dto.RowErrorDTO{Index: i, Code: row.Code(), Reason: err.Error()})
			continue
		}
		prod, ok := productsByCode[norm.code]
		if !ok {
			var err error
			prod, err = uc.productRepo.GetByCode(ctx, norm.code)
			if err != nil {
				return nil, fmt.Errorf("resolver producto %s: %w", norm.code, err)
			}
			productsByCode[norm.code] = prod
		}
		if prod == nil {
			result.Errors = append(result.Errors, dto.RowErrorDTO{Index: i, Code: norm.code, Reason: "producto no encontrado"})
			continue
		}
		if prod.IsDeleted() {
			result.Errors = append(result.Errors, dto.RowErrorDTO{Index: i, Code: norm.code, Reason: "producto dado de baja"})
			continue
		}
		accepted = append(accepted, acceptedRow{index: i, norm: norm, prod: prod})
	}

	// Todas inválidas: termina sin crear operación.
	if len(accepted) == 0 {
		result.Status = ImportStatusAllInvalid
		uc.log.Warn().
			Str("operation_type", operationType).
			Int("rows", len(rows)).
			Msg("lote sin filas válidas, no se crea operación")
		return result, nil
	}

	opID := uuid.New().String()
	now := time.Now()

	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		opRepo repository.OperationRepository,
		auditRepo repository.AuditRepository,
	) error {
		op := &entity.Operation{
			ID:           opID,
			Type:         operationType,
			FileName:     meta.FileName,
			UploadedBy:   meta.ActorID,
			UploadedAt:   now,
			RecordsTotal: len(rows),
			Status:       entity.OperationStatusPartial,
		}
		if err := opRepo.Create(ctx, op); err != nil {
			return fmt.Errorf("crear operación: %w", err)
		}

		// Serialización por producto: bloquea las filas en orden de ID para
		// evitar deadlocks entre importaciones concurrentes.
		productIDs := make([]string, 0, len(productsByCode))
		seen := make(map[string]bool)
		for _, ar := range accepted {
			if !seen[ar.prod.ID] {
				seen[ar.prod.ID] = true
				productIDs = append(productIDs, ar.prod.ID)
			}
		}
		sort.Strings(productIDs)
		locked := make(map[string]*entity.Product, len(productIDs))
		for _, id := range productIDs {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("bloquear producto %s: %w", id, err)
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
			}
			locked[id] = p
		}

		// Deduplicación: claves del ledger existente + claves dentro del lote.
		keys := make(map[string]bool)
		for _, id := range productIDs {
			existing, err := txRepo.ListByProduct(ctx, id)
			if err != nil {
				return fmt.Errorf("leer ledger de %s: %w", id, err)
			}
			for _, tx := range existing {
				keys[keyFn(id, tx.Type, tx.Date, tx.Quantity)] = true
			}
		}

		pending := make([]*entity.Transaction, 0, len(accepted))
		rowsByProduct := make(map[string]int)
		for _, ar := range accepted {
			key := keyFn(ar.prod.ID, ar.norm.txType, ar.norm.date, ar.norm.quantity)
			if keys[key] {
				result.Skipped = append(result.Skipped, dto.SkippedRowDTO{Index: ar.index, Code: ar.norm.code, Key: key})
				continue
			}
			keys[key] = true
			tx, err := entity.NewTransaction(ar.prod.ID, ar.norm.txType, ar.norm.quantity, ar.norm.date, ar.norm.notes, ar.norm.includeInAvg, opID)
			if err != nil {
				return fmt.Errorf("fila %d: %w", ar.index, err)
			}
			pending = append(pending, tx)
			rowsByProduct[ar.prod.ID]++
		}

		// Inserción por tramos acotados; la cancelación solo aplica antes del
		// commit, el Run decide COMMITTED o ROLLED_BACK sin estados intermedios.
		for start := 0; start < len(pending); start += uc.chunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := start + uc.chunkSize
			if end > len(pending) {
				end = len(pending)
			}
			if err := txRepo.CreateBatch(ctx, pending[start:end]); err != nil {
				return fmt.Errorf("insertar tramo %d-%d: %w", start, end, err)
			}
		}

		// Re-proyección síncrona de cada producto tocado.
		for _, id := range productIDs {
			if rowsByProduct[id] == 0 {
				continue // solo duplicados: la proyección no cambió
			}
			if err := reprojectProduct(ctx, txRepo, productRepo, locked[id], now, uc.windowMonths); err != nil {
				return err
			}
			snapshot, _ := json.Marshal(map[string]any{
				"operation_id": opID,
				"rows":         rowsByProduct[id],
			})
			rec := &entity.AuditRecord{
				Action:     entity.AuditActionBulkImport,
				EntityType: "product",
				EntityID:   id,
				Snapshot:   snapshot,
				ActorID:    meta.ActorID,
				ActorRole:  meta.ActorRole,
				Timestamp:  now,
			}
			if err := auditRepo.Record(ctx, rec); err != nil {
				return fmt.Errorf("auditar importación: %w", err)
			}
		}

		result.Processed = len(pending)
		status := entity.OperationStatusCompleted
		if len(result.Errors) > 0 || len(result.Skipped) > 0 {
			status = entity.OperationStatusPartial
		}
		result.Status = status
		return opRepo.UpdateSummary(ctx, opID, result.Processed, len(result.Skipped), len(result.Errors), status)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		uc.log.Error().Err(err).
			Str("operation_type", operationType).
			Int("rows", len(rows)).
			Msg("lote revertido por fallo del store")
		return nil, fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}

	result.OperationID = opID
	uc.log.Info().
		Str("operation_id", opID).
		Str("operation_type", operationType).
		Int("processed", result.Processed).
		Int("skipped", len(result.Skipped)).
		Int("errors", len(result.Errors)).
		Msg("lote importado")
	return result, nil
}

// ImportMeta identifica la carga: nombre de archivo y actor que la subió.
type ImportMeta struct {
	FileName  string
	ActorID   string
	ActorRole string
}
