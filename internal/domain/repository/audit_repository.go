package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AuditRepository es el sink de auditoría: recibe un registro estructurado por
// cada acción mutadora. Append-only; el núcleo del ledger nunca lee de aquí.
type AuditRepository interface {
	Record(ctx context.Context, rec *entity.AuditRecord) error
}
