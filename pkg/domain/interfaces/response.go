package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
)

// ResponseRepository defines the interface for form response data access
type ResponseRepository interface {
	// Create stores a new response
	Create(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error)

	// Get retrieves a response by form and response ID. Returns (nil, nil)
	// when no response exists.
	Get(ctx context.Context, formID, id string) (*model.FormResponse, error)

	// ListByForm retrieves all responses for a form ordered by submission
	// time descending
	ListByForm(ctx context.Context, formID string) ([]*model.FormResponse, error)

	// Update replaces an existing response (used to record export results)
	Update(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error)

	// DeleteByForm removes all responses of a form
	DeleteByForm(ctx context.Context, formID string) error
}
