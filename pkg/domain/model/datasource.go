package model

import (
	"fmt"
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DataSource is a declarative query against an external entity collection,
// used to resolve a field's options at render time instead of static
// author-defined options.
type DataSource struct {
	EntityType   types.EntityType
	DisplayField string
	ValueField   string
	// DisplayTemplate optionally formats option labels from multiple entity
	// fields using {field} placeholders, e.g. "{first_name} {last_name}".
	// When set it takes precedence over DisplayField.
	DisplayTemplate string
	Filters         []DataSourceFilter
	SortField       string
	SortOrder       types.SortOrder
	Limit           int
}

// DataSourceFilter restricts the entities a data source resolves to
type DataSourceFilter struct {
	Field    string
	Operator types.ConditionOperator
	Value    string
}

// Dependency declares that a field's dynamic options must be additionally
// filtered by another field's currently selected value (cascading).
type Dependency struct {
	ParentFieldID types.FieldID
	// ParentValueField names the entity field the parent's selected value
	// corresponds to; informational for authoring UIs.
	ParentValueField string
	// FilterField is the entity field the synthetic equals-filter is applied to
	FilterField string
	// ClearOnParentChange controls whether the dependent field's stored value
	// is cleared when the parent's value changes. Nil means true.
	ClearOnParentChange *bool
}

// ShouldClearOnParentChange reports whether a dependent field's value must be
// cleared when its parent value changes. Defaults to true when unset.
func (d *Dependency) ShouldClearOnParentChange() bool {
	return d.ClearOnParentChange == nil || *d.ClearOnParentChange
}

// Validate checks the data source configuration
func (ds *DataSource) Validate() error {
	if err := ds.EntityType.Validate(); err != nil {
		return goerr.Wrap(err, "invalid data source entity type")
	}
	if ds.ValueField == "" {
		return goerr.New("data source value field is required", goerr.V("entity_type", ds.EntityType))
	}
	if ds.DisplayField == "" && ds.DisplayTemplate == "" {
		return goerr.New("data source requires a display field or template", goerr.V("entity_type", ds.EntityType))
	}
	if ds.SortOrder != "" && !ds.SortOrder.IsValid() {
		return goerr.New("invalid data source sort order", goerr.V("sort_order", ds.SortOrder))
	}
	if ds.Limit < 0 {
		return goerr.New("data source limit cannot be negative", goerr.V("limit", ds.Limit))
	}
	return nil
}

// WithFilter returns a copy of the data source with one additional filter
// appended. The receiver is not modified.
func (ds *DataSource) WithFilter(f DataSourceFilter) *DataSource {
	out := *ds
	out.Filters = make([]DataSourceFilter, 0, len(ds.Filters)+1)
	out.Filters = append(out.Filters, ds.Filters...)
	out.Filters = append(out.Filters, f)
	return &out
}

// CacheKey serializes the full data source into a stable string usable as a
// fetch-deduplication key. All query-affecting parts participate, since
// filters, sort and limit can change independently of the entity type.
func (ds *DataSource) CacheKey() string {
	var b strings.Builder
	b.WriteString(ds.EntityType.String())
	b.WriteString("|d=")
	b.WriteString(ds.DisplayField)
	b.WriteString("|t=")
	b.WriteString(ds.DisplayTemplate)
	b.WriteString("|v=")
	b.WriteString(ds.ValueField)
	b.WriteString("|s=")
	b.WriteString(ds.SortField)
	b.WriteString(":")
	b.WriteString(ds.SortOrder.String())
	fmt.Fprintf(&b, "|l=%d", ds.Limit)
	for _, f := range ds.Filters {
		fmt.Fprintf(&b, "|f=%s:%s:%s", f.Field, f.Operator, f.Value)
	}
	return b.String()
}

// Option is a resolved choice of a dynamic-data field. Resolved option
// lists are replaced wholesale on refetch, never patched incrementally.
type Option struct {
	ID      string
	Value   string
	LabelEn string
	LabelFr string
}

// StaticOptions converts a field's static options into resolved options
func StaticOptions(opts []FieldOption) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = Option{
			ID:      o.ID,
			Value:   o.Value,
			LabelEn: o.LabelEn,
			LabelFr: o.LabelFr,
		}
	}
	return out
}
