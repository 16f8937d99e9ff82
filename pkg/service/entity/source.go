package entity

import (
	"context"
	"regexp"
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Source resolves dynamic data sources against the business entity
// repository (contacts, articles, installations).
type Source struct {
	repo interfaces.EntityRepository
}

var _ interfaces.OptionSource = &Source{}

// New creates an entity-backed option source
func New(repo interfaces.EntityRepository) *Source {
	return &Source{repo: repo}
}

var templatePlaceholder = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// FetchOptions queries the entity collection named by the data source,
// applying its filters, sort and limit, and formats one option per record.
func (s *Source) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	records, err := s.repo.Query(ctx, interfaces.EntityQuery{
		Type:      ds.EntityType,
		Filters:   ds.Filters,
		SortField: ds.SortField,
		SortOrder: ds.SortOrder,
		Limit:     ds.Limit,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query entities",
			goerr.V("entity_type", ds.EntityType))
	}

	opts := make([]model.Option, 0, len(records))
	for _, rec := range records {
		label := displayLabel(rec, ds)
		opts = append(opts, model.Option{
			ID:      rec.ID,
			Value:   rec.Field(ds.ValueField),
			LabelEn: label,
			LabelFr: label,
		})
	}
	return opts, nil
}

// displayLabel renders an option label from the record, expanding {field}
// placeholders when a display template is configured.
func displayLabel(rec *model.EntityRecord, ds *model.DataSource) string {
	if ds.DisplayTemplate == "" {
		return rec.Field(ds.DisplayField)
	}
	label := templatePlaceholder.ReplaceAllStringFunc(ds.DisplayTemplate, func(m string) string {
		name := strings.Trim(m, "{}")
		return rec.Field(name)
	})
	return strings.TrimSpace(label)
}
