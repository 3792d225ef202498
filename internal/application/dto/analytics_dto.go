package dto

import (
	"github.com/shopspring/decimal"
)

// RiskDTO clasificación de riesgo de quiebre para un producto.
type RiskDTO struct {
	ProductID            string           `json:"product_id"`
	ArtisCode            string           `json:"artis_code"`
	Name                 string           `json:"name,omitempty"`
	Supplier             string           `json:"supplier,omitempty"`
	RiskLevel            string           `json:"risk_level"`
	CurrentStock         decimal.Decimal  `json:"current_stock"`
	AvgConsumption       decimal.Decimal  `json:"avg_consumption"`
	ReorderPoint         *decimal.Decimal `json:"reorder_point,omitempty"`
	DaysOfStockRemaining *decimal.Decimal `json:"days_of_stock_remaining,omitempty"`
	LeadTimeDays         int              `json:"lead_time_days"`
	SafetyStockDays      int              `json:"safety_stock_days"`
	RecommendedOrderQty  *decimal.Decimal `json:"recommended_order_qty,omitempty"`
}

// ForecastDTO pronóstico de consumo de un mes.
type ForecastDTO struct {
	ID                   string           `json:"id"`
	ProductID            string           `json:"product_id"`
	ForecastMonth        string           `json:"forecast_month"`
	PredictedConsumption decimal.Decimal  `json:"predicted_consumption"`
	ActualConsumption    *decimal.Decimal `json:"actual_consumption,omitempty"`
	Method               string           `json:"method"`
	MAPE                 *decimal.Decimal `json:"mape,omitempty"`
}

// ForecastAccuracyDTO agregación de exactitud por producto.
type ForecastAccuracyDTO struct {
	ProductID string          `json:"product_id"`
	Realized  int             `json:"realized"`
	Pending   int             `json:"pending"`
	MeanMAPE  decimal.Decimal `json:"mean_mape"`
	MinMAPE   decimal.Decimal `json:"min_mape"`
	MaxMAPE   decimal.Decimal `json:"max_mape"`
}

// RecordActualRequest body para registrar el consumo real de un mes pronosticado.
type RecordActualRequest struct {
	ForecastMonth     string          `json:"forecast_month"` // YYYY-MM
	ActualConsumption decimal.Decimal `json:"actual_consumption"`
}

// UpsertForecastRequest body para crear o reemplazar un pronóstico.
type UpsertForecastRequest struct {
	ForecastMonth        string          `json:"forecast_month"` // YYYY-MM
	PredictedConsumption decimal.Decimal `json:"predicted_consumption"`
	Method               string          `json:"method,omitempty"`
}
