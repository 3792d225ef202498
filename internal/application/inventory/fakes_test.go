package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// memStore es el store en memoria compartido por los fakes de repositorio.
// failOn permite inyectar un fallo en un método concreto para probar el
// rollback del lote.
type memStore struct {
	mu       sync.Mutex
	products map[string]entity.Product
	txs      []entity.Transaction
	ops      map[string]entity.Operation
	audits   []entity.AuditRecord
	failOn   string
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]entity.Product),
		ops:      make(map[string]entity.Operation),
	}
}

func (s *memStore) addProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

func (s *memStore) operationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		out = append(out, a.Action)
	}
	return out
}

func (s *memStore) fail(method string) error {
	if s.failOn == method {
		return fmt.Errorf("fallo inyectado en %s", method)
	}
	return nil
}

// snapshot copia el estado completo para simular el rollback de una tx SQL.
func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := newMemStore()
	for k, v := range s.products {
		cp.products[k] = v
	}
	cp.txs = append([]entity.Transaction(nil), s.txs...)
	for k, v := range s.ops {
		cp.ops[k] = v
	}
	cp.audits = append([]entity.AuditRecord(nil), s.audits...)
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.txs = snap.txs
	s.ops = snap.ops
	s.audits = snap.audits
}

// ── fakes de repositorio ──────────────────────────────────────────────────────

type memTxRepo struct{ s *memStore }

var _ repository.TransactionRepository = (*memTxRepo)(nil)

func (r *memTxRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.CreateBatch(ctx, []*entity.Transaction{tx})
}

func (r *memTxRepo) CreateBatch(_ context.Context, txs []*entity.Transaction) error {
	if err := r.s.fail("CreateBatch"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		r.s.txs = append(r.s.txs, *tx)
	}
	return nil
}

func (r *memTxRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for i := range r.s.txs {
		if r.s.txs[i].ProductID == productID {
			tx := r.s.txs[i]
			out = append(out, &tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memTxRepo) ListByOperation(_ context.Context, operationID string) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for i := range r.s.txs {
		if r.s.txs[i].OperationID == operationID {
			tx := r.s.txs[i]
			out = append(out, &tx)
		}
	}
	return out, nil
}

func (r *memTxRepo) DeleteByOperation(_ context.Context, operationID string) (int64, error) {
	if err := r.s.fail("DeleteByOperation"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []entity.Transaction
	var deleted int64
	for _, tx := range r.s.txs {
		if tx.OperationID == operationID {
			deleted++
			continue
		}
		kept = append(kept, tx)
	}
	r.s.txs = kept
	return deleted, nil
}

func (r *memTxRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.txs))
	r.s.txs = nil
	return n, nil
}

func (r *memTxRepo) DistinctProductIDs(_ context.Context, operationID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, tx := range r.s.txs {
		if tx.OperationID == operationID && !seen[tx.ProductID] {
			seen[tx.ProductID] = true
			out = append(out, tx.ProductID)
		}
	}
	return out, nil
}

func (r *memTxRepo) AllProductIDs(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, tx := range r.s.txs {
		if !seen[tx.ProductID] {
			seen[tx.ProductID] = true
			out = append(out, tx.ProductID)
		}
	}
	return out, nil
}

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.addProduct(*p)
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		for _, c := range p.ArtisCodes {
			if c == code {
				cp := p
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.s.fail("GetForUpdate"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) ListActive(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.DeletedAt == nil {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) UpdateProjection(_ context.Context, productID string, stock, avgConsumption decimal.Decimal, reorderPoint *decimal.Decimal, at time.Time) error {
	if err := r.s.fail("UpdateProjection"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return fmt.Errorf("producto %s no existe", productID)
	}
	p.CurrentStock = stock
	p.AvgConsumption = avgConsumption
	p.ReorderPoint = reorderPoint
	p.LastUpdated = at
	r.s.products[productID] = p
	return nil
}

func (r *memProductRepo) SoftDelete(_ context.Context, id, reason, actor string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return fmt.Errorf("producto %s no existe", id)
	}
	now := time.Now()
	p.DeletedAt = &now
	p.DeletedReason = reason
	p.DeletedBy = actor
	r.s.products[id] = p
	return nil
}

type memOpRepo struct{ s *memStore }

var _ repository.OperationRepository = (*memOpRepo)(nil)

func (r *memOpRepo) Create(_ context.Context, op *entity.Operation) error {
	if err := r.s.fail("CreateOperation"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	r.s.ops[op.ID] = *op
	return nil
}

func (r *memOpRepo) GetByID(_ context.Context, id string) (*entity.Operation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	op, ok := r.s.ops[id]
	if !ok {
		return nil, nil
	}
	return &op, nil
}

func (r *memOpRepo) List(_ context.Context, limit int) ([]*entity.Operation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Operation
	for _, op := range r.s.ops {
		cp := op
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memOpRepo) UpdateSummary(_ context.Context, id string, processed, skipped, failed int, status string) error {
	if err := r.s.fail("UpdateSummary"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	op, ok := r.s.ops[id]
	if !ok {
		return fmt.Errorf("operación %s no existe", id)
	}
	op.RecordsProcessed = processed
	op.RecordsSkipped = skipped
	op.RecordsFailed = failed
	op.Status = status
	r.s.ops[id] = op
	return nil
}

func (r *memOpRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.ops, id)
	return nil
}

func (r *memOpRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.ops))
	r.s.ops = make(map[string]entity.Operation)
	return n, nil
}

type memAuditRepo struct{ s *memStore }

var _ repository.AuditRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Record(_ context.Context, rec *entity.AuditRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *rec)
	return nil
}

// fakeTxRunner simula la semántica todo-o-nada de la transacción SQL: toma un
// snapshot antes de fn y lo restaura si fn falla.
type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	opRepo repository.OperationRepository,
	auditRepo repository.AuditRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(&memTxRepo{s: t.s}, &memProductRepo{s: t.s}, &memOpRepo{s: t.s}, &memAuditRepo{s: t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
