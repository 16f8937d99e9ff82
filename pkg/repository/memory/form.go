package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type formRepository struct {
	mu    sync.RWMutex
	forms map[string]*model.Form
}

func newFormRepository() *formRepository {
	return &formRepository{
		forms: make(map[string]*model.Form),
	}
}

// copyForm creates a deep enough copy that callers cannot mutate stored
// state through the returned pointer
func copyForm(f *model.Form) *model.Form {
	copied := *f
	copied.Fields = make([]model.FormField, len(f.Fields))
	copy(copied.Fields, f.Fields)
	if f.ThankYou != nil {
		ty := *f.ThankYou
		ty.Rules = make([]model.ThankYouRule, len(f.ThankYou.Rules))
		copy(ty.Rules, f.ThankYou.Rules)
		copied.ThankYou = &ty
	}
	copied.Exports = make([]model.ExportMapping, len(f.Exports))
	copy(copied.Exports, f.Exports)
	return &copied
}

func (r *formRepository) Create(ctx context.Context, form *model.Form) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyForm(form)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := r.forms[stored.ID]; exists {
		return nil, goerr.New("form already exists", goerr.V(model.FormIDKey, stored.ID))
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.forms[stored.ID] = stored

	return copyForm(stored), nil
}

func (r *formRepository) Get(ctx context.Context, id string) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	return copyForm(form), nil
}

func (r *formRepository) List(ctx context.Context) ([]*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	forms := make([]*model.Form, 0, len(r.forms))
	for _, f := range r.forms {
		forms = append(forms, copyForm(f))
	}
	sort.Slice(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

func (r *formRepository) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.forms[form.ID]
	if !ok {
		return nil, goerr.New("form not found", goerr.V(model.FormIDKey, form.ID))
	}

	stored := copyForm(form)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.forms[form.ID] = stored

	return copyForm(stored), nil
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.forms[id]; !ok {
		return goerr.New("form not found", goerr.V(model.FormIDKey, id))
	}
	delete(r.forms, id)
	return nil
}
