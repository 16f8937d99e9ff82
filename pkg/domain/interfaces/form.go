package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
)

// FormRepository defines the interface for form definition data access
type FormRepository interface {
	// Create stores a new form and returns it with its assigned ID
	Create(ctx context.Context, form *model.Form) (*model.Form, error)

	// Get retrieves a form by ID. Returns (nil, nil) when no form exists.
	Get(ctx context.Context, id string) (*model.Form, error)

	// List retrieves all forms ordered by creation time descending
	List(ctx context.Context) ([]*model.Form, error)

	// Update replaces an existing form definition
	Update(ctx context.Context, form *model.Form) (*model.Form, error)

	// Delete removes a form definition
	Delete(ctx context.Context, id string) error
}
