package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// MAPE calcula el error porcentual absoluto: |real − previsto| / real × 100.
// Devuelve nil cuando el real es cero (división indefinida, no error cero).
func MAPE(predicted, actual decimal.Decimal) *decimal.Decimal {
	if actual.IsZero() {
		return nil
	}
	m := actual.Sub(predicted).Abs().Div(actual.Abs()).Mul(hundred)
	return &m
}

// AccuracySummary agrega MAPE sobre los pronósticos realizados de un producto.
type AccuracySummary struct {
	Realized int // pronósticos con consumo real registrado
	Pending  int // pronósticos aún sin realizar (excluidos de la agregación)
	MeanMAPE decimal.Decimal
	MinMAPE  decimal.Decimal
	MaxMAPE  decimal.Decimal
}

// SummarizeAccuracy calcula media/mín/máx de MAPE sobre los pronósticos con
// real registrado. Un pronóstico sin real cuenta como pendiente, nunca como
// error cero.
func SummarizeAccuracy(forecasts []*entity.ConsumptionForecast) AccuracySummary {
	var s AccuracySummary
	sum := decimal.Zero
	for _, f := range forecasts {
		if !f.IsRealized() || f.MAPE == nil {
			s.Pending++
			continue
		}
		m := *f.MAPE
		if s.Realized == 0 {
			s.MinMAPE, s.MaxMAPE = m, m
		} else {
			if m.LessThan(s.MinMAPE) {
				s.MinMAPE = m
			}
			if m.GreaterThan(s.MaxMAPE) {
				s.MaxMAPE = m
			}
		}
		sum = sum.Add(m)
		s.Realized++
	}
	if s.Realized > 0 {
		s.MeanMAPE = sum.Div(decimal.NewFromInt(int64(s.Realized)))
	}
	return s
}
