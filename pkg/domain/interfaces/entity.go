package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
)

// EntityQuery describes a filtered listing of one entity collection
type EntityQuery struct {
	Type      types.EntityType
	Filters   []model.DataSourceFilter
	SortField string
	SortOrder types.SortOrder
	// Limit caps the number of returned records; 0 means no limit
	Limit int
}

// EntityRepository defines the interface for business entity data access
type EntityRepository interface {
	// Create stores a new entity record and returns it with its assigned ID
	Create(ctx context.Context, record *model.EntityRecord) (*model.EntityRecord, error)

	// Get retrieves an entity record by type and ID. Returns (nil, nil)
	// when no record exists.
	Get(ctx context.Context, entityType types.EntityType, id string) (*model.EntityRecord, error)

	// Query lists entity records matching the query
	Query(ctx context.Context, q EntityQuery) ([]*model.EntityRecord, error)
}
