package notion

import (
	"context"
	"strconv"
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
)

// Source resolves dynamic data sources against Notion databases. Each
// supported entity type is mapped to one database ID; a data source whose
// value field is "id" resolves option values to page IDs, any other value
// field names a database property.
type Source struct {
	api       *notionapi.Client
	databases map[types.EntityType]string
}

var _ interfaces.OptionSource = &Source{}

// New creates a Notion-backed option source with the provided API token
// and entity-type-to-database mapping
func New(token string, databases map[types.EntityType]string) (*Source, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}
	if len(databases) == 0 {
		return nil, goerr.New("at least one Notion database mapping is required")
	}

	return &Source{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry on rate limit (HTTP 429)
		),
		databases: databases,
	}, nil
}

// Handles reports whether this source can resolve the given entity type
func (s *Source) Handles(entityType types.EntityType) bool {
	_, ok := s.databases[entityType]
	return ok
}

// FetchOptions queries the mapped database and formats one option per page.
// Data source filters are applied client-side against the extracted
// property text; the Notion filter API does not cover every operator the
// form model allows.
func (s *Source) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	dbID, ok := s.databases[ds.EntityType]
	if !ok {
		return nil, goerr.New("no Notion database mapped for entity type",
			goerr.V("entity_type", ds.EntityType))
	}

	var opts []model.Option
	var cursor notionapi.Cursor

	for {
		resp, err := s.api.Database.Query(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query Notion database",
				goerr.V("database_id", dbID), goerr.V("entity_type", ds.EntityType))
		}

		for i := range resp.Results {
			page := &resp.Results[i]
			if !matchesFilters(page, ds.Filters) {
				continue
			}

			label := propertyText(page.Properties[ds.DisplayField])
			if label == "" {
				label = pageTitle(page)
			}
			value := page.ID.String()
			if ds.ValueField != "" && ds.ValueField != "id" {
				value = propertyText(page.Properties[ds.ValueField])
			}

			opts = append(opts, model.Option{
				ID:      page.ID.String(),
				Value:   value,
				LabelEn: label,
				LabelFr: label,
			})
			if ds.Limit > 0 && len(opts) >= ds.Limit {
				return opts, nil
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return opts, nil
}

func matchesFilters(page *notionapi.Page, filters []model.DataSourceFilter) bool {
	for _, f := range filters {
		text := propertyText(page.Properties[f.Field])
		if !model.EvaluateCondition(text, f.Operator, f.Value) {
			return false
		}
	}
	return true
}

// pageTitle finds the database's title property
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if t, ok := prop.(*notionapi.TitleProperty); ok {
			return richTextPlain(t.Title)
		}
	}
	return ""
}

// propertyText renders a property value as plain text
func propertyText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case nil:
		return ""
	case *notionapi.TitleProperty:
		return richTextPlain(p.Title)
	case *notionapi.RichTextProperty:
		return richTextPlain(p.RichText)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64)
	case *notionapi.CheckboxProperty:
		return strconv.FormatBool(p.Checkbox)
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.URLProperty:
		return p.URL
	default:
		return ""
	}
}

func richTextPlain(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, t := range rt {
		sb.WriteString(t.PlainText)
	}
	return sb.String()
}
