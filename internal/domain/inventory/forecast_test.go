package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/inventory"
)

func TestMAPE_CalculoConocido(t *testing.T) {
	// previsto 100, real 80 → |80−100|/80 × 100 = 25%
	m := inventory.MAPE(decimal.NewFromInt(100), decimal.NewFromInt(80))
	require.NotNil(t, m)
	assert.True(t, m.Equal(decimal.NewFromInt(25)),
		"MAPE = |real − previsto| / real × 100; obtuvo %s", m)
}

func TestMAPE_PrevistoExacto(t *testing.T) {
	m := inventory.MAPE(decimal.NewFromInt(50), decimal.NewFromInt(50))
	require.NotNil(t, m)
	assert.True(t, m.IsZero(), "un pronóstico exacto tiene MAPE cero")
}

func TestMAPE_RealCeroEsIndefinido(t *testing.T) {
	assert.Nil(t, inventory.MAPE(decimal.NewFromInt(100), decimal.Zero),
		"consumo real cero deja el MAPE indefinido, nunca error cero")
}

func TestSummarizeAccuracy_SoloRealizados(t *testing.T) {
	forecasts := []*entity.ConsumptionForecast{
		realized("2025-01", "10"),
		realized("2025-02", "30"),
		pending("2025-03"),
		realized("2025-04", "20"),
	}

	s := inventory.SummarizeAccuracy(forecasts)

	assert.Equal(t, 3, s.Realized)
	assert.Equal(t, 1, s.Pending)
	assert.True(t, s.MeanMAPE.Equal(decimal.NewFromInt(20)), "media de 10, 30 y 20")
	assert.True(t, s.MinMAPE.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.MaxMAPE.Equal(decimal.NewFromInt(30)))
}

func TestSummarizeAccuracy_SinRealizados(t *testing.T) {
	s := inventory.SummarizeAccuracy([]*entity.ConsumptionForecast{pending("2025-01")})

	assert.Equal(t, 0, s.Realized)
	assert.Equal(t, 1, s.Pending)
	assert.True(t, s.MeanMAPE.IsZero())
}

func TestSummarizeAccuracy_Vacio(t *testing.T) {
	s := inventory.SummarizeAccuracy(nil)
	assert.Equal(t, 0, s.Realized)
	assert.Equal(t, 0, s.Pending)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func realized(month, mape string) *entity.ConsumptionForecast {
	actual := decimal.NewFromInt(100)
	m, _ := decimal.NewFromString(mape)
	return &entity.ConsumptionForecast{
		ProductID:         "prod-1",
		ForecastMonth:     month,
		ActualConsumption: &actual,
		MAPE:              &m,
	}
}

func pending(month string) *entity.ConsumptionForecast {
	return &entity.ConsumptionForecast{ProductID: "prod-1", ForecastMonth: month}
}
