package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ForecastRepository define el puerto de persistencia de pronósticos de consumo.
type ForecastRepository interface {
	// Upsert inserta o reemplaza el pronóstico de (producto, mes).
	Upsert(ctx context.Context, f *entity.ConsumptionForecast) error

	GetByMonth(ctx context.Context, productID, month string) (*entity.ConsumptionForecast, error)

	// ListByProduct devuelve los pronósticos del producto en orden de mes.
	ListByProduct(ctx context.Context, productID string) ([]*entity.ConsumptionForecast, error)
}
