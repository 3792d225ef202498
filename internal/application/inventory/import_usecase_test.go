package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inv "github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// ImportBatch: filas inválidas se reportan sin abortar, duplicados se omiten,
// y solo un fallo del store revierte el lote completo. Los fakes simulan la
// semántica todo-o-nada de la transacción SQL con snapshot/restore.
// ──────────────────────────────────────────────────────────────────────────────

// Fechas relativas para que las filas caigan siempre dentro de la ventana
// móvil de 12 meses, sin importar cuándo corra la suite.
var (
	mesPasado    = time.Now().AddDate(0, -1, 0).Format("2006-01")
	haceDiezDias = time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	haceDosMeses = time.Now().AddDate(0, -2, 0).Format("2006-01-02")
)

func newImportFixture(t *testing.T) (*inv.ImportUseCase, *memStore) {
	t.Helper()
	store := newMemStore()
	store.addProduct(entity.Product{
		ID:         "prod-1",
		ArtisCodes: []string{"ART-001", "ALT-001"},
		Name:       "Lámina calibre 20",
	})
	store.addProduct(entity.Product{
		ID:         "prod-2",
		ArtisCodes: []string{"ART-002"},
		Name:       "Lámina calibre 18",
	})
	uc := inv.NewImportUseCase(&fakeTxRunner{s: store}, &memProductRepo{s: store}, logger.Nop(), 12, 500)
	return uc, store
}

func TestImportBatch_ConsumoConDuplicadoInterno(t *testing.T) {
	uc, store := newImportFixture(t)

	rows := []inv.ImportRow{
		inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "30", Date: mesPasado},
		inv.ConsumptionRow{ArtisCode: "ART-002", Quantity: "10", Date: mesPasado},
		// mismo producto, mes y cantidad que la primera: duplicado
		inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "30", Date: mesPasado},
	}

	res, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, rows, nil, inv.ImportMeta{FileName: "consumo-mayo.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Index, "la tercera fila es el duplicado")
	assert.Empty(t, res.Errors)
	assert.Equal(t, entity.OperationStatusPartial, res.Status)
	assert.NotEmpty(t, res.OperationID)

	assert.Equal(t, 2, store.transactionCount(), "el duplicado no se inserta")
	assert.Equal(t, 1, store.operationCount())
	assert.Contains(t, store.auditActions(), entity.AuditActionBulkImport)
}

func TestImportBatch_DuplicadoContraLedgerExistente(t *testing.T) {
	uc, store := newImportFixture(t)

	first := []inv.ImportRow{inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "30", Date: mesPasado}}
	_, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, first, nil, inv.ImportMeta{})
	require.NoError(t, err)

	// re-subir el mismo mes: todo el lote son duplicados
	res, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, first, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Processed)
	assert.Len(t, res.Skipped, 1)
	assert.Equal(t, 1, store.transactionCount(), "la re-subida no duplica transacciones")
}

func TestImportBatch_ReSubidaEsIdempotenteEnStock(t *testing.T) {
	uc, store := newImportFixture(t)

	rows := []inv.ImportRow{inv.PurchaseRow{ArtisCode: "ART-001", Date: haceDiezDias, Quantity: "100"}}
	_, err := uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)
	stockAfterFirst := store.product("prod-1").CurrentStock

	_, err = uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.True(t, store.product("prod-1").CurrentStock.Equal(stockAfterFirst),
		"importar dos veces el mismo lote deja el stock igual que una sola vez")
}

func TestImportBatch_FilasInvalidasNoAbortan(t *testing.T) {
	uc, store := newImportFixture(t)

	rows := []inv.ImportRow{
		inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "abc", Date: mesPasado}, // no numérica
		inv.ConsumptionRow{ArtisCode: "", Quantity: "10", Date: mesPasado},         // sin código
		inv.ConsumptionRow{ArtisCode: "NO-EXISTE", Quantity: "10", Date: mesPasado},
		inv.ConsumptionRow{ArtisCode: "ART-002", Quantity: "15", Date: mesPasado},
	}

	res, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Len(t, res.Errors, 3, "cada fila inválida queda reportada con su índice")
	assert.Equal(t, entity.OperationStatusPartial, res.Status)
	assert.Equal(t, 1, store.transactionCount())
}

func TestImportBatch_TodasInvalidasNoCreaOperacion(t *testing.T) {
	uc, store := newImportFixture(t)

	rows := []inv.ImportRow{
		inv.ConsumptionRow{ArtisCode: "", Quantity: "10", Date: mesPasado},
		inv.ConsumptionRow{ArtisCode: "NO-EXISTE", Quantity: "5", Date: mesPasado},
	}

	res, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, inv.ImportStatusAllInvalid, res.Status)
	assert.Empty(t, res.OperationID)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, 0, store.operationCount(), "un lote sin filas válidas no deja rastro en el registro")
	assert.Equal(t, 0, store.transactionCount())
}

func TestImportBatch_TipoDesconocido(t *testing.T) {
	uc, _ := newImportFixture(t)
	_, err := uc.ImportBatch(context.Background(), "transfer-upload", nil, nil, inv.ImportMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportBatch_FalloDelStoreRevierteTodo(t *testing.T) {
	uc, store := newImportFixture(t)
	store.failOn = "CreateBatch"

	rows := []inv.ImportRow{
		inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "30", Date: mesPasado},
		inv.ConsumptionRow{ArtisCode: "ART-002", Quantity: "10", Date: mesPasado},
	}

	_, err := uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, rows, nil, inv.ImportMeta{})
	require.ErrorIs(t, err, domain.ErrCommitFailed)

	assert.Equal(t, 0, store.transactionCount(), "tras el rollback no queda ninguna transacción del intento")
	assert.Equal(t, 0, store.operationCount(), "la operación del intento fallido tampoco persiste")
	assert.True(t, store.product("prod-1").CurrentStock.IsZero(),
		"la proyección queda como estaba antes del intento")
}

func TestImportBatch_CancelacionAntesDelCommit(t *testing.T) {
	uc, store := newImportFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []inv.ImportRow{inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "30", Date: mesPasado}}
	_, err := uc.ImportBatch(ctx, entity.OperationConsumptionUpload, rows, nil, inv.ImportMeta{})

	require.ErrorIs(t, err, context.Canceled, "la cancelación se propaga sin envolver en ErrCommitFailed")
	assert.Equal(t, 0, store.transactionCount())
}

func TestImportBatch_CompraActualizaProyeccion(t *testing.T) {
	uc, store := newImportFixture(t)

	purchase := []inv.ImportRow{inv.PurchaseRow{ArtisCode: "ART-001", Date: haceDosMeses, Quantity: "400"}}
	_, err := uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, purchase, nil, inv.ImportMeta{})
	require.NoError(t, err)

	consumption := []inv.ImportRow{inv.ConsumptionRow{ArtisCode: "ART-001", Quantity: "300", Date: mesPasado}}
	_, err = uc.ImportBatch(context.Background(), entity.OperationConsumptionUpload, consumption, nil, inv.ImportMeta{})
	require.NoError(t, err)

	p := store.product("prod-1")
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(100)), "400 − 300 = 100; obtuvo %s", p.CurrentStock)
	assert.True(t, p.AvgConsumption.Equal(decimal.NewFromInt(300)))
	// lead=10 y seguridad=15 por defecto: ROP = 10/día × 25 = 250
	require.NotNil(t, p.ReorderPoint)
	assert.True(t, p.ReorderPoint.Equal(decimal.NewFromInt(250)),
		"la re-proyección recalcula el punto de reorden; obtuvo %s", p.ReorderPoint)
}

func TestImportBatch_CodigoAlternoResuelveElMismoProducto(t *testing.T) {
	uc, store := newImportFixture(t)

	rows := []inv.ImportRow{inv.PurchaseRow{ArtisCode: "ALT-001", Date: haceDiezDias, Quantity: "50"}}
	_, err := uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.True(t, store.product("prod-1").CurrentStock.Equal(decimal.NewFromInt(50)),
		"cualquier código Artis del producto resuelve a la misma ficha")
}

func TestImportBatch_AjusteConCantidadNegativa(t *testing.T) {
	uc, store := newImportFixture(t)

	seed := []inv.ImportRow{inv.PurchaseRow{ArtisCode: "ART-001", Date: haceDosMeses, Quantity: "20"}}
	_, err := uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, seed, nil, inv.ImportMeta{})
	require.NoError(t, err)

	rows := []inv.ImportRow{
		inv.CorrectionRow{ArtisCode: "ART-001", Date: haceDiezDias, SignedQuantity: "-8", Reason: "conteo físico"},
	}
	res, err := uc.ImportBatch(context.Background(), entity.OperationCorrectionUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.True(t, store.product("prod-1").CurrentStock.Equal(decimal.NewFromInt(12)),
		"la corrección negativa resta del stock")
}

func TestImportBatch_AjusteSinMotivoEsInvalido(t *testing.T) {
	uc, _ := newImportFixture(t)

	rows := []inv.ImportRow{
		inv.CorrectionRow{ArtisCode: "ART-001", Date: haceDiezDias, SignedQuantity: "-8"},
	}
	res, err := uc.ImportBatch(context.Background(), entity.OperationCorrectionUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, inv.ImportStatusAllInvalid, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "motivo")
}

func TestImportBatch_ProductoDadoDeBajaSeRechaza(t *testing.T) {
	uc, store := newImportFixture(t)
	now := time.Now()
	p := store.product("prod-1")
	p.DeletedAt = &now
	store.addProduct(p)

	rows := []inv.ImportRow{inv.PurchaseRow{ArtisCode: "ART-001", Date: haceDiezDias, Quantity: "50"}}
	res, err := uc.ImportBatch(context.Background(), entity.OperationPurchaseUpload, rows, nil, inv.ImportMeta{})
	require.NoError(t, err)

	assert.Equal(t, inv.ImportStatusAllInvalid, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "baja")
}
