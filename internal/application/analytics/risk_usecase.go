package analytics

import (
	"context"
	"sort"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// RiskUseCase clasifica el riesgo de quiebre de stock a partir del estado ya
// proyectado de cada producto. Solo lectura respecto al ledger.
type RiskUseCase struct {
	productRepo repository.ProductRepository
}

// NewRiskUseCase construye el analizador de riesgo.
func NewRiskUseCase(productRepo repository.ProductRepository) *RiskUseCase {
	return &RiskUseCase{productRepo: productRepo}
}

// GetRisk clasifica un producto.
func (uc *RiskUseCase) GetRisk(ctx context.Context, productID string) (*dto.RiskDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	out := classify(product)
	return &out, nil
}

// ListRisks clasifica todos los productos activos, los más graves primero.
func (uc *RiskUseCase) ListRisks(ctx context.Context, limit, offset int) ([]dto.RiskDTO, error) {
	if limit <= 0 {
		limit = 500
	}
	products, err := uc.productRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RiskDTO, 0, len(products))
	for _, p := range products {
		out = append(out, classify(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return inventory.RiskLevel(out[i].RiskLevel).Severity() > inventory.RiskLevel(out[j].RiskLevel).Severity()
	})
	return out, nil
}

// classify arma el DTO de riesgo desde la proyección cacheada del producto.
func classify(p *entity.Product) dto.RiskDTO {
	lead := p.EffectiveLeadTimeDays()
	safety := p.EffectiveSafetyStockDays()
	level := inventory.ClassifyRisk(inventory.RiskInput{
		CurrentStock:    p.CurrentStock,
		AvgConsumption:  p.AvgConsumption,
		ReorderPoint:    p.ReorderPoint,
		LeadTimeDays:    lead,
		SafetyStockDays: safety,
	})

	out := dto.RiskDTO{
		ProductID:       p.ID,
		ArtisCode:       p.PrimaryCode(),
		Name:            p.Name,
		Supplier:        p.Supplier,
		RiskLevel:       string(level),
		CurrentStock:    p.CurrentStock.Round(2),
		AvgConsumption:  p.AvgConsumption.Round(2),
		LeadTimeDays:    lead,
		SafetyStockDays: safety,
	}
	if p.ReorderPoint != nil {
		rp := p.ReorderPoint.Round(2)
		out.ReorderPoint = &rp
	}
	if days := inventory.DaysOfStockRemaining(p.CurrentStock, p.AvgConsumption); days != nil {
		d := days.Round(2)
		out.DaysOfStockRemaining = &d
	}
	if qty := inventory.RecommendedOrderQty(p.OrderQuantity, p.AvgConsumption); qty != nil {
		q := qty.Round(2)
		out.RecommendedOrderQty = &q
	}
	return out
}
