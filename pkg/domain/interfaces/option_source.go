package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
)

// OptionSource resolves a dynamic data source into a list of options.
// Implementations query a live data store (entity repository, Notion, ...).
// The options resolver treats this as an injectable collaborator; tests
// substitute a stub returning canned lists.
type OptionSource interface {
	// FetchOptions resolves the data source to its current option list.
	// A returned error is surfaced as per-field error state, never as a
	// hard failure of the rendering pass.
	FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error)
}

// OptionSourceFunc adapts a function to the OptionSource interface
type OptionSourceFunc func(ctx context.Context, ds *model.DataSource) ([]model.Option, error)

// FetchOptions implements OptionSource
func (f OptionSourceFunc) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	return f(ctx, ds)
}
