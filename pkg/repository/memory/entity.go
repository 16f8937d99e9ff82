package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type entityKey struct {
	Type types.EntityType
	ID   string
}

type entityRepository struct {
	mu      sync.RWMutex
	records map[entityKey]*model.EntityRecord
}

func newEntityRepository() *entityRepository {
	return &entityRepository{
		records: make(map[entityKey]*model.EntityRecord),
	}
}

func copyEntity(rec *model.EntityRecord) *model.EntityRecord {
	copied := *rec
	copied.Fields = make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		copied.Fields[k] = v
	}
	return &copied
}

func (r *entityRepository) Create(ctx context.Context, record *model.EntityRecord) (*model.EntityRecord, error) {
	if err := record.Type.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid entity type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyEntity(record)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	key := entityKey{Type: stored.Type, ID: stored.ID}
	if _, exists := r.records[key]; exists {
		return nil, goerr.New("entity already exists",
			goerr.V("entity_type", stored.Type), goerr.V("entity_id", stored.ID))
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.records[key] = stored

	return copyEntity(stored), nil
}

func (r *entityRepository) Get(ctx context.Context, entityType types.EntityType, id string) (*model.EntityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[entityKey{Type: entityType, ID: id}]
	if !ok {
		return nil, nil
	}
	return copyEntity(rec), nil
}

func (r *entityRepository) Query(ctx context.Context, q interfaces.EntityQuery) ([]*model.EntityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*model.EntityRecord, 0)
	for key, rec := range r.records {
		if key.Type != q.Type {
			continue
		}
		if !matchesEntityFilters(rec, q.Filters) {
			continue
		}
		matched = append(matched, copyEntity(rec))
	}

	if q.SortField != "" {
		desc := q.SortOrder == types.SortOrderDesc
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i].Field(q.SortField), matched[j].Field(q.SortField)
			if desc {
				return a > b
			}
			return a < b
		})
	} else {
		// Stable default order for deterministic option lists
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func matchesEntityFilters(rec *model.EntityRecord, filters []model.DataSourceFilter) bool {
	for _, f := range filters {
		if !model.EvaluateCondition(rec.Field(f.Field), f.Operator, f.Value) {
			return false
		}
	}
	return true
}
