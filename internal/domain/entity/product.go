package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Parámetros de aprovisionamiento por defecto (días).
const (
	DefaultLeadTimeDays         = 10
	DefaultImportedLeadTimeDays = 60
	DefaultSafetyStockDays      = 15
)

// Product representa una lámina/SKU del catálogo.
// CurrentStock, AvgConsumption y ReorderPoint son una proyección cacheada,
// siempre recalculable desde las transacciones del ledger; nunca se escriben
// por fuera de UpdateProjection.
type Product struct {
	ID         string
	ArtisCodes []string // código principal + códigos alternos, todos resolubles en import
	Name       string
	Category   string
	Supplier   string
	Thickness  string

	// Parámetros de aprovisionamiento
	LeadTimeDays    int
	SafetyStockDays int
	IsImported      bool
	OrderQuantity   *decimal.Decimal // cantidad fija de pedido; nil = sugerir 2 meses de consumo

	// Proyección cacheada (vista materializada del ledger)
	CurrentStock   decimal.Decimal
	AvgConsumption decimal.Decimal  // ventana móvil de 12 meses
	ReorderPoint   *decimal.Decimal // nil cuando AvgConsumption es cero
	LastUpdated    time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Baja lógica: las transacciones históricas siguen siendo consultables
	DeletedAt     *time.Time
	DeletedReason string
	DeletedBy     string
}

// IsDeleted indica si el producto fue dado de baja (baja lógica).
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// EffectiveLeadTimeDays devuelve el lead time con defaults: 60 días para
// productos importados, 10 para nacionales.
func (p *Product) EffectiveLeadTimeDays() int {
	if p.LeadTimeDays > 0 {
		return p.LeadTimeDays
	}
	if p.IsImported {
		return DefaultImportedLeadTimeDays
	}
	return DefaultLeadTimeDays
}

// EffectiveSafetyStockDays devuelve los días de stock de seguridad con default 15.
func (p *Product) EffectiveSafetyStockDays() int {
	if p.SafetyStockDays > 0 {
		return p.SafetyStockDays
	}
	return DefaultSafetyStockDays
}

// PrimaryCode devuelve el primer código Artis (el principal).
func (p *Product) PrimaryCode() string {
	if len(p.ArtisCodes) == 0 {
		return ""
	}
	return p.ArtisCodes[0]
}
