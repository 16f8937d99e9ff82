package options

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SourceMux routes each data source to the first registered option source
// whose predicate accepts its entity type, falling back to the default
// source. It lets entity-repository-backed and Notion-backed sources
// coexist behind one OptionSource.
type SourceMux struct {
	entries  []muxEntry
	fallback interfaces.OptionSource
}

type muxEntry struct {
	handles func(types.EntityType) bool
	source  interfaces.OptionSource
}

var _ interfaces.OptionSource = &SourceMux{}

// NewSourceMux creates a mux with the given fallback source
func NewSourceMux(fallback interfaces.OptionSource) *SourceMux {
	return &SourceMux{fallback: fallback}
}

// Register adds a source consulted before the fallback
func (m *SourceMux) Register(handles func(types.EntityType) bool, source interfaces.OptionSource) {
	m.entries = append(m.entries, muxEntry{handles: handles, source: source})
}

// FetchOptions implements interfaces.OptionSource
func (m *SourceMux) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	for _, e := range m.entries {
		if e.handles(ds.EntityType) {
			return e.source.FetchOptions(ctx, ds)
		}
	}
	if m.fallback == nil {
		return nil, goerr.New("no option source for entity type", goerr.V("entity_type", ds.EntityType))
	}
	return m.fallback.FetchOptions(ctx, ds)
}
