package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type responseKey struct {
	FormID string
	ID     string
}

type responseRepository struct {
	mu        sync.RWMutex
	responses map[responseKey]*model.FormResponse
}

func newResponseRepository() *responseRepository {
	return &responseRepository{
		responses: make(map[responseKey]*model.FormResponse),
	}
}

func copyResponse(resp *model.FormResponse) *model.FormResponse {
	copied := *resp
	copied.Values = make(model.FormValues, len(resp.Values))
	for k, v := range resp.Values {
		switch t := v.(type) {
		case []string:
			s := make([]string, len(t))
			copy(s, t)
			copied.Values[k] = s
		default:
			copied.Values[k] = v
		}
	}
	if resp.ExportedTo != nil {
		copied.ExportedTo = make(map[types.EntityType]string, len(resp.ExportedTo))
		for k, v := range resp.ExportedTo {
			copied.ExportedTo[k] = v
		}
	}
	return &copied
}

func (r *responseRepository) Create(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyResponse(resp)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.SubmittedAt.IsZero() {
		stored.SubmittedAt = time.Now()
	}
	key := responseKey{FormID: stored.FormID, ID: stored.ID}
	if _, exists := r.responses[key]; exists {
		return nil, goerr.New("response already exists", goerr.V("response_id", stored.ID))
	}
	r.responses[key] = stored

	return copyResponse(stored), nil
}

func (r *responseRepository) Get(ctx context.Context, formID, id string) (*model.FormResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resp, ok := r.responses[responseKey{FormID: formID, ID: id}]
	if !ok {
		return nil, nil
	}
	return copyResponse(resp), nil
}

func (r *responseRepository) ListByForm(ctx context.Context, formID string) ([]*model.FormResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	responses := make([]*model.FormResponse, 0)
	for key, resp := range r.responses {
		if key.FormID == formID {
			responses = append(responses, copyResponse(resp))
		}
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].SubmittedAt.After(responses[j].SubmittedAt)
	})
	return responses, nil
}

func (r *responseRepository) Update(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := responseKey{FormID: resp.FormID, ID: resp.ID}
	if _, ok := r.responses[key]; !ok {
		return nil, goerr.New("response not found", goerr.V("response_id", resp.ID))
	}
	stored := copyResponse(resp)
	r.responses[key] = stored

	return copyResponse(stored), nil
}

func (r *responseRepository) DeleteByForm(ctx context.Context, formID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.responses {
		if key.FormID == formID {
			delete(r.responses, key)
		}
	}
	return nil
}
