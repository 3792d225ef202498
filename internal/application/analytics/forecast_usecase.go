package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ForecastUseCase administra pronósticos de consumo y su exactitud (MAPE).
type ForecastUseCase struct {
	forecastRepo repository.ForecastRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
}

// NewForecastUseCase construye el caso de uso de pronósticos.
func NewForecastUseCase(forecastRepo repository.ForecastRepository, productRepo repository.ProductRepository, log *logger.Logger) *ForecastUseCase {
	return &ForecastUseCase{forecastRepo: forecastRepo, productRepo: productRepo, log: log}
}

// Upsert crea o reemplaza el pronóstico de (producto, mes).
func (uc *ForecastUseCase) Upsert(ctx context.Context, productID string, in dto.UpsertForecastRequest) (*dto.ForecastDTO, error) {
	if err := validateMonth(in.ForecastMonth); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	method := in.Method
	if method == "" {
		method = entity.ForecastMethodMovingAverage
	}
	f := &entity.ConsumptionForecast{
		ProductID:            productID,
		ForecastMonth:        in.ForecastMonth,
		PredictedConsumption: in.PredictedConsumption,
		Method:               method,
	}
	if err := uc.forecastRepo.Upsert(ctx, f); err != nil {
		return nil, err
	}
	out := toForecastDTO(f)
	return &out, nil
}

// RecordActual registra el consumo real de un mes pronosticado y calcula su
// MAPE. Un real en cero deja el MAPE indefinido (no es error cero).
func (uc *ForecastUseCase) RecordActual(ctx context.Context, productID string, in dto.RecordActualRequest) (*dto.ForecastDTO, error) {
	if err := validateMonth(in.ForecastMonth); err != nil {
		return nil, err
	}
	f, err := uc.forecastRepo.GetByMonth(ctx, productID, in.ForecastMonth)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	actual := in.ActualConsumption
	f.ActualConsumption = &actual
	f.MAPE = inventory.MAPE(f.PredictedConsumption, actual)
	if err := uc.forecastRepo.Upsert(ctx, f); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Str("month", in.ForecastMonth).
		Msg("consumo real registrado")
	out := toForecastDTO(f)
	return &out, nil
}

// Accuracy agrega media/mín/máx de MAPE sobre los pronósticos realizados del
// producto; los no realizados cuentan como pendientes, nunca como error cero.
func (uc *ForecastUseCase) Accuracy(ctx context.Context, productID string) (*dto.ForecastAccuracyDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	forecasts, err := uc.forecastRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	s := inventory.SummarizeAccuracy(forecasts)
	return &dto.ForecastAccuracyDTO{
		ProductID: productID,
		Realized:  s.Realized,
		Pending:   s.Pending,
		MeanMAPE:  s.MeanMAPE.Round(2),
		MinMAPE:   s.MinMAPE.Round(2),
		MaxMAPE:   s.MaxMAPE.Round(2),
	}, nil
}

// ListByProduct devuelve los pronósticos del producto en orden de mes.
func (uc *ForecastUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.ForecastDTO, error) {
	forecasts, err := uc.forecastRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ForecastDTO, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, toForecastDTO(f))
	}
	return out, nil
}

func toForecastDTO(f *entity.ConsumptionForecast) dto.ForecastDTO {
	out := dto.ForecastDTO{
		ID:                   f.ID,
		ProductID:            f.ProductID,
		ForecastMonth:        f.ForecastMonth,
		PredictedConsumption: f.PredictedConsumption.Round(2),
		Method:               f.Method,
	}
	if f.ActualConsumption != nil {
		a := f.ActualConsumption.Round(2)
		out.ActualConsumption = &a
	}
	if f.MAPE != nil {
		m := f.MAPE.Round(2)
		out.MAPE = &m
	}
	return out
}

func validateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("mes %q: %w", month, domain.ErrInvalidInput)
	}
	return nil
}
