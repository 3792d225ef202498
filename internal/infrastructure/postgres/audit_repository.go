package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo sink de auditoría sobre PostgreSQL. Append-only: no existe
// lectura ni borrado desde el código de la aplicación.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record persiste un registro de auditoría.
func (r *AuditRepo) Record(ctx context.Context, rec *entity.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	query := `
		INSERT INTO audit_records (id, action, entity_type, entity_id, snapshot, actor_id, actor_role, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Action, rec.EntityType, nullable(rec.EntityID),
		rec.Snapshot, nullable(rec.ActorID), nullable(rec.ActorRole),
		nullable(rec.Reason), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
