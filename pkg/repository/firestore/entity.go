package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type entityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEntityRepository(client *firestore.Client) *entityRepository {
	return &entityRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *entityRepository) collection(entityType types.EntityType) string {
	name := "entities_" + string(entityType)
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

func (r *entityRepository) Create(ctx context.Context, record *model.EntityRecord) (*model.EntityRecord, error) {
	if err := record.Type.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid entity type")
	}

	created := *record
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := r.client.Collection(r.collection(created.Type)).Doc(created.ID).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create entity record", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *entityRepository) Get(ctx context.Context, entityType types.EntityType, id string) (*model.EntityRecord, error) {
	docSnap, err := r.client.Collection(r.collection(entityType)).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get entity record", goerr.V("id", id))
	}

	var rec model.EntityRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode entity record", goerr.V("id", id))
	}

	return &rec, nil
}

// Query fetches the type's collection and evaluates filters client-side.
// Data source filters allow operators (contains, not_equals, ...) that
// Firestore queries cannot express uniformly, so one code path handles all.
func (r *entityRepository) Query(ctx context.Context, q interfaces.EntityQuery) ([]*model.EntityRecord, error) {
	iter := r.client.Collection(r.collection(q.Type)).Documents(ctx)
	defer iter.Stop()

	matched := make([]*model.EntityRecord, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate entity records", goerr.V("entity_type", q.Type))
		}

		var rec model.EntityRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode entity record", goerr.V("doc_id", docSnap.Ref.ID))
		}

		if !matchesEntityFilters(&rec, q.Filters) {
			continue
		}
		matched = append(matched, &rec)
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
