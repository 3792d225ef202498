package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pronóstico soportados.
const (
	ForecastMethodMovingAverage = "moving_average"
)

// ConsumptionForecast guarda el consumo previsto de un producto para un mes
// (YYYY-MM) y, cuando el mes cierra, el consumo real. MAPE se calcula al
// registrar el real; un pronóstico sin real no entra en la agregación de
// exactitud.
type ConsumptionForecast struct {
	ID                   string
	ProductID            string
	ForecastMonth        string // formato YYYY-MM
	PredictedConsumption decimal.Decimal
	ActualConsumption    *decimal.Decimal
	Method               string
	MAPE                 *decimal.Decimal // % de error absoluto medio, nil hasta realizar
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsRealized indica si el pronóstico ya tiene consumo real registrado.
func (f *ConsumptionForecast) IsRealized() bool {
	return f.ActualConsumption != nil
}
