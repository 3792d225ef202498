package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Ventanas de consumo promedio (meses). La proyección cacheada del producto
// usa siempre la de 12 meses; 3 y 4 son vistas de reporte.
const (
	DefaultAvgWindowMonths   = 12
	QuarterAvgWindowMonths   = 3
	FourMonthAvgWindowMonths = 4
)

var thirty = decimal.NewFromInt(30)

// Projection es el resultado del fold sobre la secuencia de transacciones de
// un producto: stock actual y consumo promedio mensual dentro de la ventana.
type Projection struct {
	CurrentStock   decimal.Decimal
	AvgConsumption decimal.Decimal // media aritmética de las OUT calificadas
	QualifyingOuts int             // OUT con includeInAvg dentro de la ventana
}

// Project recorre la secuencia en un solo paso acumulando:
//
//	stock = Σ IN − Σ OUT + Σ CORRECTION (CORRECTION puede ser negativa)
//	avg   = media de las OUT con IncludeInAvg y Date dentro de la ventana móvil
//
// Es una función pura y determinista: la misma secuencia produce siempre el
// mismo resultado. Una cantidad negativa en IN/OUT o un tipo desconocido
// delatan una violación de invariante del store y se reportan como
// ErrInconsistentLedger, nunca se omiten en silencio.
func Project(txs []*entity.Transaction, asOf time.Time, windowMonths int) (Projection, error) {
	if windowMonths <= 0 {
		windowMonths = DefaultAvgWindowMonths
	}
	cutoff := asOf.AddDate(0, -windowMonths, 0)

	stock := decimal.Zero
	sumOut := decimal.Zero
	outs := 0

	for _, tx := range txs {
		switch tx.Type {
		case entity.TransactionIN:
			if tx.Quantity.IsNegative() {
				return Projection{}, fmt.Errorf("%w: cantidad negativa en IN %s", domain.ErrInconsistentLedger, tx.ID)
			}
			stock = stock.Add(tx.Quantity)
		case entity.TransactionOUT:
			if tx.Quantity.IsNegative() {
				return Projection{}, fmt.Errorf("%w: cantidad negativa en OUT %s", domain.ErrInconsistentLedger, tx.ID)
			}
			stock = stock.Sub(tx.Quantity)
			if tx.IncludeInAvg && !tx.Date.Before(cutoff) {
				sumOut = sumOut.Add(tx.Quantity)
				outs++
			}
		case entity.TransactionCORRECTION:
			stock = stock.Add(tx.Quantity)
		default:
			return Projection{}, fmt.Errorf("%w: tipo desconocido %q en %s", domain.ErrInconsistentLedger, tx.Type, tx.ID)
		}
	}

	avg := decimal.Zero
	if outs > 0 {
		avg = sumOut.Div(decimal.NewFromInt(int64(outs)))
	}
	return Projection{CurrentStock: stock, AvgConsumption: avg, QualifyingOuts: outs}, nil
}

// ReorderPoint calcula el punto de reorden:
//
//	(avg/30 × leadTimeDays) + (avg/30 × safetyStockDays)
//
// Devuelve nil cuando el consumo promedio es cero o negativo: sin consumo no
// hay punto de reorden definido.
func ReorderPoint(avgConsumption decimal.Decimal, leadTimeDays, safetyStockDays int) *decimal.Decimal {
	if !avgConsumption.GreaterThan(decimal.Zero) {
		return nil
	}
	daily := avgConsumption.Div(thirty)
	rp := daily.Mul(decimal.NewFromInt(int64(leadTimeDays))).
		Add(daily.Mul(decimal.NewFromInt(int64(safetyStockDays))))
	return &rp
}
