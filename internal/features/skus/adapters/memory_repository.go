package adapters

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sku-tracker/internal/features/skus/domain"
)

// MemoryRepository keeps SKUs and events in process memory.
// It is used when no database is configured and in tests.
type MemoryRepository struct {
	skus        map[int64]domain.Sku
	events      []domain.Event
	nextSkuID   int64
	nextIdentID int64
	nextEventID int64
	sync.RWMutex
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		skus:        make(map[int64]domain.Sku),
		events:      make([]domain.Event, 0),
		nextSkuID:   1,
		nextIdentID: 1,
		nextEventID: 1,
	}
}

func now() time.Time {
	return time.Now().Round(time.Microsecond).UTC()
}

// CreateSku stores sku and its identities.
func (r *MemoryRepository) CreateSku(ctx context.Context, sku *domain.Sku) error {
	r.Lock()
	defer r.Unlock()

	ts := now()
	sku.ID = r.nextSkuID
	r.nextSkuID++
	sku.CreatedAt = ts
	sku.UpdatedAt = ts

	identities := make([]domain.Identity, len(sku.Identities))
	for i, id := range sku.Identities {
		id.ID = r.nextIdentID
		r.nextIdentID++
		id.SkuID = sku.ID
		id.CreatedAt = ts
		id.UpdatedAt = ts
		identities[i] = id
	}
	sku.Identities = identities

	r.skus[sku.ID] = copySku(*sku)
	return nil
}

// GetSku returns the SKU with id.
func (r *MemoryRepository) GetSku(ctx context.Context, id int64) (*domain.Sku, error) {
	r.RLock()
	defer r.RUnlock()

	sku, ok := r.skus[id]
	if !ok {
		return nil, domain.ErrSkuNotFound
	}
	out := copySku(sku)
	return &out, nil
}

// SearchSkus returns the SKUs whose name contains query, ignoring case, ordered by id.
func (r *MemoryRepository) SearchSkus(ctx context.Context, query string) ([]domain.Sku, error) {
	r.RLock()
	defer r.RUnlock()

	needle := strings.ToLower(query)
	result := make([]domain.Sku, 0)
	for _, sku := range r.skus {
		if strings.Contains(strings.ToLower(sku.Name), needle) {
			result = append(result, copySku(sku))
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CreateEvents stores all events under one lock. Nothing is stored if any SKU is unknown.
func (r *MemoryRepository) CreateEvents(ctx context.Context, events []*domain.Event) error {
	r.Lock()
	defer r.Unlock()

	for _, e := range events {
		if _, ok := r.skus[e.SkuID]; !ok {
			return domain.ErrSkuNotFound
		}
	}

	ts := now()
	for _, e := range events {
		e.ID = r.nextEventID
		r.nextEventID++
		e.CreatedAt = ts
		e.UpdatedAt = ts
		r.events = append(r.events, *e)
	}
	return nil
}

// ListEvents returns the events of skuID in insertion order.
func (r *MemoryRepository) ListEvents(ctx context.Context, skuID int64) ([]domain.Event, error) {
	r.RLock()
	defer r.RUnlock()

	result := make([]domain.Event, 0)
	for _, e := range r.events {
		if e.SkuID == skuID {
			result = append(result, e)
		}
	}
	return result, nil
}

func copySku(s domain.Sku) domain.Sku {
	s.Identities = append([]domain.Identity(nil), s.Identities...)
	if s.Identities == nil {
		s.Identities = []domain.Identity{}
	}
	return s
}
