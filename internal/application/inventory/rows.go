package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ImportRow es la variante etiquetada por tipo de lote que entrega el
// adaptador externo (parser de Excel o sync de hojas de cálculo). Los campos
// llegan como texto crudo: la validación vive aquí, en el borde, y las filas
// inválidas se reportan en el resultado sin abortar el lote.
type ImportRow interface {
	// Code devuelve el código Artis de la fila (puede venir vacío).
	Code() string
	// normalize valida y convierte la fila en la transacción que produce.
	normalize() (normalizedRow, error)
}

// ConsumptionRow fila de consumo mensual: (código, cantidad, mes/fecha).
// Produce una OUT que sí cuenta para el consumo promedio.
type ConsumptionRow struct {
	ArtisCode string
	Quantity  string
	Date      string // YYYY-MM o YYYY-MM-DD; los meses se datan al último día
	Notes     string
}

// PurchaseRow fila de compra: (código, fecha, cantidad, notas).
// Produce una IN.
type PurchaseRow struct {
	ArtisCode string
	Date      string
	Quantity  string
	Notes     string
}

// CorrectionRow fila de ajuste firmado: (código, fecha, cantidad firmada, motivo).
// Produce una CORRECTION; la cantidad puede ser negativa.
type CorrectionRow struct {
	ArtisCode      string
	Date           string
	SignedQuantity string
	Reason         string
}

// normalizedRow resultado de validar una fila: lista para volverse transacción.
type normalizedRow struct {
	code         string
	txType       string
	quantity     decimal.Decimal
	date         time.Time
	notes        string
	includeInAvg bool
}

func (r ConsumptionRow) Code() string { return strings.TrimSpace(r.ArtisCode) }
func (r PurchaseRow) Code() string    { return strings.TrimSpace(r.ArtisCode) }
func (r CorrectionRow) Code() string  { return strings.TrimSpace(r.ArtisCode) }

func (r ConsumptionRow) normalize() (normalizedRow, error) {
	code := r.Code()
	if code == "" {
		return normalizedRow{}, fmt.Errorf("falta el código Artis")
	}
	qty, err := parseQuantity(r.Quantity)
	if err != nil {
		return normalizedRow{}, err
	}
	if qty.IsNegative() {
		return normalizedRow{}, fmt.Errorf("cantidad negativa en consumo: %s", r.Quantity)
	}
	date, err := parseRowDate(r.Date)
	if err != nil {
		return normalizedRow{}, err
	}
	notes := r.Notes
	if notes == "" {
		notes = "Consumo mensual " + date.Format("2006-01")
	}
	return normalizedRow{
		code:         code,
		txType:       entity.TransactionOUT,
		quantity:     qty,
		date:         date,
		notes:        notes,
		includeInAvg: true,
	}, nil
}

func (r PurchaseRow) normalize() (normalizedRow, error) {
	code := r.Code()
	if code == "" {
		return normalizedRow{}, fmt.Errorf("falta el código Artis")
	}
	qty, err := parseQuantity(r.Quantity)
	if err != nil {
		return normalizedRow{}, err
	}
	if qty.IsNegative() {
		return normalizedRow{}, fmt.Errorf("cantidad negativa en compra: %s", r.Quantity)
	}
	date, err := parseRowDate(r.Date)
	if err != nil {
		return normalizedRow{}, err
	}
	return normalizedRow{
		code:     code,
		txType:   entity.TransactionIN,
		quantity: qty,
		date:     date,
		notes:    r.Notes,
	}, nil
}

func (r CorrectionRow) normalize() (normalizedRow, error) {
	code := r.Code()
	if code == "" {
		return normalizedRow{}, fmt.Errorf("falta el código Artis")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return normalizedRow{}, fmt.Errorf("falta el motivo del ajuste")
	}
	qty, err := parseQuantity(r.SignedQuantity)
	if err != nil {
		return normalizedRow{}, err
	}
	date, err := parseRowDate(r.Date)
	if err != nil {
		return normalizedRow{}, err
	}
	return normalizedRow{
		code:     code,
		txType:   entity.TransactionCORRECTION,
		quantity: qty,
		date:     date,
		notes:    r.Reason,
	}, nil
}

// parseQuantity convierte texto de hoja de cálculo en decimal (acepta coma
// decimal, rechaza vacío o no numérico).
func parseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("falta la cantidad")
	}
	s = strings.ReplaceAll(s, ",", ".")
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cantidad no numérica: %q", raw)
	}
	return q, nil
}

// parseRowDate acepta fecha completa (YYYY-MM-DD) o mes (YYYY-MM); los meses
// se datan al último día del mes, como en las cargas mensuales de consumo.
func parseRowDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("falta la fecha")
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	if m, err := time.Parse("2006-01", s); err == nil {
		return m.AddDate(0, 1, -1), nil
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", raw)
}

// DedupeKeyFunc calcula la clave de deduplicación de una transacción (ya sea
// existente en el ledger o candidata del lote). Dos claves iguales = duplicado.
type DedupeKeyFunc func(productID string, txType string, date time.Time, quantity decimal.Decimal) string

// DefaultDedupeKey devuelve la clave estándar por tipo de lote:
//
//	consumo: OUT-<producto>-<YYYY-MM>-<cantidad>   (una carga por mes)
//	compra:  IN-<producto>-<fecha>-<cantidad>
//	ajuste:  CORRECTION-<producto>-<fecha>-<cantidad>
func DefaultDedupeKey(operationType string) DedupeKeyFunc {
	dateLayout := "2006-01-02"
	if operationType == entity.OperationConsumptionUpload {
		dateLayout = "2006-01"
	}
	return func(productID, txType string, date time.Time, quantity decimal.Decimal) string {
		return fmt.Sprintf("%s-%s-%s-%s", txType, productID, date.Format(dateLayout), quantity.Round(2).String())
	}
}
