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

type publicLinkRepository struct {
	mu    sync.RWMutex
	links map[string]*model.PublicLink
}

func newPublicLinkRepository() *publicLinkRepository {
	return &publicLinkRepository{
		links: make(map[string]*model.PublicLink),
	}
}

func (r *publicLinkRepository) Create(ctx context.Context, link *model.PublicLink) (*model.PublicLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *link
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := r.links[stored.ID]; exists {
		return nil, goerr.New("public link already exists", goerr.V("link_id", stored.ID))
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.links[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (r *publicLinkRepository) Get(ctx context.Context, id string) (*model.PublicLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[id]
	if !ok {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (r *publicLinkRepository) ListByForm(ctx context.Context, formID string) ([]*model.PublicLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]*model.PublicLink, 0)
	for _, link := range r.links {
		if link.FormID == formID {
			copied := *link
			links = append(links, &copied)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (r *publicLinkRepository) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[id]
	if !ok {
		return goerr.New("public link not found", goerr.V("link_id", id))
	}
	link.Revoked = true
	return nil
}
