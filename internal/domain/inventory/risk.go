package inventory

import "github.com/shopspring/decimal"

// RiskLevel clasifica el riesgo de quiebre de stock de un producto.
type RiskLevel string

// Niveles de riesgo, de mayor a menor severidad según el orden de evaluación.
const (
	RiskStockout RiskLevel = "STOCKOUT"
	RiskCritical RiskLevel = "CRITICAL"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskSafe     RiskLevel = "SAFE"
)

// Severity devuelve un rango numérico para ordenar listados (mayor = más grave).
func (r RiskLevel) Severity() int {
	switch r {
	case RiskStockout:
		return 4
	case RiskCritical:
		return 3
	case RiskLow:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

var onePointFive = decimal.NewFromFloat(1.5)
var two = decimal.NewFromInt(2)

// RiskInput estado proyectado y parámetros de aprovisionamiento de un producto.
type RiskInput struct {
	CurrentStock    decimal.Decimal
	AvgConsumption  decimal.Decimal
	ReorderPoint    *decimal.Decimal
	LeadTimeDays    int
	SafetyStockDays int
}

// ClassifyRisk aplica la escalera de clasificación; gana la primera condición:
//
//	stock <= 0                          → STOCKOUT
//	stock <= reorderPoint               → CRITICAL
//	stock <= reorderPoint × 1.5         → LOW
//	avg > 0 y díasRestantes < lead+seg  → MEDIUM
//	si no                               → SAFE
func ClassifyRisk(in RiskInput) RiskLevel {
	if !in.CurrentStock.GreaterThan(decimal.Zero) {
		return RiskStockout
	}
	if in.ReorderPoint != nil {
		if !in.CurrentStock.GreaterThan(*in.ReorderPoint) {
			return RiskCritical
		}
		if !in.CurrentStock.GreaterThan(in.ReorderPoint.Mul(onePointFive)) {
			return RiskLow
		}
	}
	if days := DaysOfStockRemaining(in.CurrentStock, in.AvgConsumption); days != nil {
		coverage := decimal.NewFromInt(int64(in.LeadTimeDays + in.SafetyStockDays))
		if days.LessThan(coverage) {
			return RiskMedium
		}
	}
	return RiskSafe
}

// DaysOfStockRemaining = stock / (avg/30). Nil cuando no hay consumo promedio.
func DaysOfStockRemaining(currentStock, avgConsumption decimal.Decimal) *decimal.Decimal {
	if !avgConsumption.GreaterThan(decimal.Zero) {
		return nil
	}
	days := currentStock.Div(avgConsumption.Div(thirty))
	return &days
}

// RecommendedOrderQty devuelve la cantidad de pedido sugerida: la cantidad
// fija del producto si existe, si no dos meses de consumo promedio, y nil
// cuando no hay ni cantidad fija ni consumo.
func RecommendedOrderQty(orderQuantity *decimal.Decimal, avgConsumption decimal.Decimal) *decimal.Decimal {
	if orderQuantity != nil && orderQuantity.GreaterThan(decimal.Zero) {
		q := *orderQuantity
		return &q
	}
	if avgConsumption.GreaterThan(decimal.Zero) {
		q := avgConsumption.Mul(two)
		return &q
	}
	return nil
}
