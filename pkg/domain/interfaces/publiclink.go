package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
)

// PublicLinkRepository defines the interface for public link data access
type PublicLinkRepository interface {
	// Create stores a new public link
	Create(ctx context.Context, link *model.PublicLink) (*model.PublicLink, error)

	// Get retrieves a public link by ID. Returns (nil, nil) when no link
	// exists.
	Get(ctx context.Context, id string) (*model.PublicLink, error)

	// ListByForm retrieves all links for a form
	ListByForm(ctx context.Context, formID string) ([]*model.PublicLink, error)

	// Revoke marks a link as revoked
	Revoke(ctx context.Context, id string) error
}
