package analytics_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/analytics"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

type memForecastRepo struct {
	byKey map[string]entity.ConsumptionForecast
}

func newMemForecastRepo() *memForecastRepo {
	return &memForecastRepo{byKey: make(map[string]entity.ConsumptionForecast)}
}

func (r *memForecastRepo) Upsert(_ context.Context, f *entity.ConsumptionForecast) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	r.byKey[f.ProductID+"|"+f.ForecastMonth] = *f
	return nil
}

func (r *memForecastRepo) GetByMonth(_ context.Context, productID, month string) (*entity.ConsumptionForecast, error) {
	f, ok := r.byKey[productID+"|"+month]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *memForecastRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ConsumptionForecast, error) {
	var out []*entity.ConsumptionForecast
	for _, f := range r.byKey {
		if f.ProductID == productID {
			cp := f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ForecastMonth < out[j].ForecastMonth })
	return out, nil
}

func newForecastFixture(t *testing.T) (*analytics.ForecastUseCase, *memForecastRepo) {
	t.Helper()
	products := &staticProductRepo{products: map[string]entity.Product{
		"prod-1": {ID: "prod-1", ArtisCodes: []string{"ART-001"}, Name: "Lámina calibre 20"},
	}}
	repo := newMemForecastRepo()
	return analytics.NewForecastUseCase(repo, products, logger.Nop()), repo
}

func TestUpsert_CreaYReemplaza(t *testing.T) {
	uc, _ := newForecastFixture(t)

	out, err := uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
		ForecastMonth:        "2025-09",
		PredictedConsumption: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ForecastMethodMovingAverage, out.Method, "método por defecto")

	// reemplazo del mismo mes
	out, err = uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
		ForecastMonth:        "2025-09",
		PredictedConsumption: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.True(t, out.PredictedConsumption.Equal(decimal.NewFromInt(150)))

	list, err := uc.ListByProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Len(t, list, 1, "un pronóstico por (producto, mes)")
}

func TestUpsert_MesInvalido(t *testing.T) {
	uc, _ := newForecastFixture(t)
	_, err := uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
		ForecastMonth:        "septiembre-2025",
		PredictedConsumption: decimal.NewFromInt(120),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_ProductoInexistente(t *testing.T) {
	uc, _ := newForecastFixture(t)
	_, err := uc.Upsert(context.Background(), "no-existe", dto.UpsertForecastRequest{
		ForecastMonth:        "2025-09",
		PredictedConsumption: decimal.NewFromInt(120),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordActual_CalculaMAPE(t *testing.T) {
	uc, _ := newForecastFixture(t)

	_, err := uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
		ForecastMonth:        "2025-09",
		PredictedConsumption: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	out, err := uc.RecordActual(context.Background(), "prod-1", dto.RecordActualRequest{
		ForecastMonth:     "2025-09",
		ActualConsumption: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	require.NotNil(t, out.MAPE)
	assert.True(t, out.MAPE.Equal(decimal.NewFromInt(25)),
		"|80−100|/80 × 100 = 25%%; obtuvo %s", out.MAPE)
}

func TestRecordActual_RealCeroDejaMAPEIndefinido(t *testing.T) {
	uc, _ := newForecastFixture(t)

	_, err := uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
		ForecastMonth:        "2025-09",
		PredictedConsumption: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	out, err := uc.RecordActual(context.Background(), "prod-1", dto.RecordActualRequest{
		ForecastMonth:     "2025-09",
		ActualConsumption: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Nil(t, out.MAPE, "consumo real cero no produce MAPE cero sino indefinido")
}

func TestRecordActual_SinPronosticoPrevio(t *testing.T) {
	uc, _ := newForecastFixture(t)
	_, err := uc.RecordActual(context.Background(), "prod-1", dto.RecordActualRequest{
		ForecastMonth:     "2025-09",
		ActualConsumption: decimal.NewFromInt(80),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccuracy_ExcluyePendientes(t *testing.T) {
	uc, _ := newForecastFixture(t)

	months := []struct {
		month  string
		actual *int64
	}{
		{"2025-06", ptr(80)},  // MAPE 25
		{"2025-07", ptr(100)}, // MAPE 0
		{"2025-08", nil},      // pendiente
	}
	for _, m := range months {
		_, err := uc.Upsert(context.Background(), "prod-1", dto.UpsertForecastRequest{
			ForecastMonth:        m.month,
			PredictedConsumption: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		if m.actual != nil {
			_, err = uc.RecordActual(context.Background(), "prod-1", dto.RecordActualRequest{
				ForecastMonth:     m.month,
				ActualConsumption: decimal.NewFromInt(*m.actual),
			})
			require.NoError(t, err)
		}
	}

	acc, err := uc.Accuracy(context.Background(), "prod-1")
	require.NoError(t, err)

	assert.Equal(t, 2, acc.Realized)
	assert.Equal(t, 1, acc.Pending)
	assert.True(t, acc.MeanMAPE.Equal(decimal.NewFromFloat(12.5)), "media de 25 y 0")
	assert.True(t, acc.MinMAPE.IsZero())
	assert.True(t, acc.MaxMAPE.Equal(decimal.NewFromInt(25)))
}

func ptr(n int64) *int64 { return &n }
