package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo implementación de ForecastRepository sobre PostgreSQL.
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador. Pasar pool o tx (Querier).
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

const forecastColumns = `id, product_id, forecast_month, predicted_consumption,
		actual_consumption, method, mape, created_at, updated_at`

// Upsert inserta o reemplaza el pronóstico de (producto, mes). El índice
// único (product_id, forecast_month) garantiza un pronóstico por mes.
func (r *ForecastRepo) Upsert(ctx context.Context, f *entity.ConsumptionForecast) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	query := `
		INSERT INTO consumption_forecasts (` + forecastColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (product_id, forecast_month) DO UPDATE SET
			predicted_consumption = EXCLUDED.predicted_consumption,
			actual_consumption = EXCLUDED.actual_consumption,
			method = EXCLUDED.method,
			mape = EXCLUDED.mape,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.ProductID, f.ForecastMonth, f.PredictedConsumption,
		f.ActualConsumption, f.Method, f.MAPE, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}

// GetByMonth busca el pronóstico de un mes. Devuelve (nil, nil) si no existe.
func (r *ForecastRepo) GetByMonth(ctx context.Context, productID, month string) (*entity.ConsumptionForecast, error) {
	query := `
		SELECT ` + forecastColumns + `
		FROM consumption_forecasts WHERE product_id = $1 AND forecast_month = $2`
	row := r.q.QueryRow(ctx, query, productID, month)
	f, err := scanForecast(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get forecast: %w", err)
	}
	return f, nil
}

// ListByProduct devuelve los pronósticos del producto en orden cronológico.
func (r *ForecastRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ConsumptionForecast, error) {
	query := `
		SELECT ` + forecastColumns + `
		FROM consumption_forecasts WHERE product_id = $1
		ORDER BY forecast_month`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionForecast
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func scanForecast(row pgx.Row) (*entity.ConsumptionForecast, error) {
	var f entity.ConsumptionForecast
	err := row.Scan(
		&f.ID, &f.ProductID, &f.ForecastMonth, &f.PredictedConsumption,
		&f.ActualConsumption, &f.Method, &f.MAPE, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
