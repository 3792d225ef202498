package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// Tipos de transacción del ledger.
const (
	TransactionIN         = "IN"         // compra / entrada
	TransactionOUT        = "OUT"        // consumo / salida
	TransactionCORRECTION = "CORRECTION" // ajuste firmado (puede ser negativo)
)

// Transaction es una entrada inmutable del ledger de un producto.
// Nunca se edita: solo se borra completa (rollback de operación o clearAll).
// El signo lo implica Type; Quantity se guarda como magnitud no negativa,
// salvo CORRECTION, que admite valor negativo.
type Transaction struct {
	ID           string
	ProductID    string
	Type         string
	Quantity     decimal.Decimal
	Date         time.Time // fecha efectiva, distinta de CreatedAt
	Notes        string
	IncludeInAvg bool   // solo relevante en OUT: cuenta para el consumo promedio
	OperationID  string // vacío si fue registro manual
	CreatedAt    time.Time
}

// NewTransaction valida tipo y cantidad y construye la entrada del ledger.
func NewTransaction(productID, txType string, quantity decimal.Decimal, date time.Time, notes string, includeInAvg bool, operationID string) (*Transaction, error) {
	if productID == "" || date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	switch txType {
	case TransactionIN, TransactionOUT:
		if quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	case TransactionCORRECTION:
		// magnitud firmada permitida
	default:
		return nil, domain.ErrInvalidInput
	}
	return &Transaction{
		ProductID:    productID,
		Type:         txType,
		Quantity:     quantity,
		Date:         date,
		Notes:        notes,
		IncludeInAvg: includeInAvg,
		OperationID:  operationID,
	}, nil
}

// SignedQuantity devuelve el efecto de la transacción sobre el stock:
// IN suma, OUT resta, CORRECTION suma su valor firmado.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TransactionOUT {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
