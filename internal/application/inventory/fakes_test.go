package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memoryStore backs both repositories with maps. A lockingScope serializes
// Execute calls the way a row lock serializes writers of one product and
// undoes writes when fn fails.
type memoryStore struct {
	mu             sync.Mutex
	products       map[uuid.UUID]*catalog.Product
	ledger         []inventory.InventoryTransaction
	updateStockErr error
	appendErr      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{products: make(map[uuid.UUID]*catalog.Product)}
}

func (s *memoryStore) addProduct(stock, minLevel int) *catalog.Product {
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          "Widget",
		SKU:           "WID-" + uuid.NewString()[:8],
		CategoryID:    uuid.New(),
		Price:         decimal.NewFromInt(10),
		MinStockLevel: minLevel,
	}, stock)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p
}

func (s *memoryStore) stockOf(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].CurrentStock
}

func (s *memoryStore) ledgerLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}

type memoryProductRepo struct{ s *memoryStore }

func (r memoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memoryProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r memoryProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r memoryProductRepo) FindLowStock(context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (r memoryProductRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.s.products)), nil
}

func (r memoryProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r memoryProductRepo) Update(context.Context, *catalog.Product) error { return nil }

func (r memoryProductRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.updateStockErr != nil {
		return r.s.updateStockErr
	}
	p, ok := r.s.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (r memoryProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

type memoryLedger struct{ s *memoryStore }

func (l memoryLedger) Append(_ context.Context, tx *inventory.InventoryTransaction) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.appendErr != nil {
		return l.s.appendErr
	}
	l.s.ledger = append(l.s.ledger, *tx)
	return nil
}

func (l memoryLedger) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for i := range l.s.ledger {
		if l.s.ledger[i].ID == id {
			tx := l.s.ledger[i]
			return &tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (l memoryLedger) matching(filter shared.Filter) []inventory.InventoryTransaction {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	var out []inventory.InventoryTransaction
	for _, tx := range l.s.ledger {
		if pid, ok := filter.Filters["product_id"].(uuid.UUID); ok && tx.ProductID != pid {
			continue
		}
		if dir, ok := filter.Filters["type"].(inventory.Direction); ok && tx.Direction != dir {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (l memoryLedger) FindAll(_ context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	rows := l.matching(filter)
	start := min(filter.Offset(), len(rows))
	end := min(start+filter.Limit(), len(rows))
	return rows[start:end], nil
}

func (l memoryLedger) Count(_ context.Context, filter shared.Filter) (int64, error) {
	return int64(len(l.matching(filter))), nil
}

func (l memoryLedger) SumByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	var sum int64
	for _, tx := range l.s.ledger {
		if tx.ProductID == productID {
			sum += int64(tx.SignedQuantity())
		}
	}
	return sum, nil
}

type lockingScope struct {
	s    *memoryStore
	lock sync.Mutex
}

func newLockingScope(s *memoryStore) *lockingScope {
	return &lockingScope{s: s}
}

func (sc *lockingScope) Execute(_ context.Context, fn func(TxRepos) error) error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	sc.s.mu.Lock()
	stocks := make(map[uuid.UUID]int, len(sc.s.products))
	for id, p := range sc.s.products {
		stocks[id] = p.CurrentStock
	}
	ledgerLen := len(sc.s.ledger)
	sc.s.mu.Unlock()

	if err := fn(TxRepos{Products: memoryProductRepo{sc.s}, Ledger: memoryLedger{sc.s}}); err != nil {
		sc.s.mu.Lock()
		for id, stock := range stocks {
			if p, ok := sc.s.products[id]; ok {
				p.CurrentStock = stock
			}
		}
		sc.s.ledger = sc.s.ledger[:ledgerLen]
		sc.s.mu.Unlock()
		return err
	}
	return nil
}

// memoryIdempotency is a map-backed IdempotencyStore
type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]time.Time
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]time.Time)}
}

func (m *memoryIdempotency) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.keys[key]; ok && time.Now().Before(exp) {
		return false, nil
	}
	m.keys[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *memoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func (m *memoryIdempotency) Close() error { return nil }

// recordingPublisher collects events and optionally forwards them to handlers
type recordingPublisher struct {
	mu       sync.Mutex
	events   []shared.DomainEvent
	handlers []shared.EventHandler
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	p.events = append(p.events, events...)
	handlers := append([]shared.EventHandler(nil), p.handlers...)
	p.mu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			_ = h.Handle(ctx, e)
		}
	}
	return p.err
}

func (p *recordingPublisher) published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

func newActor() shared.Actor {
	return shared.NewActor(uuid.New(), shared.RoleStaff)
}
