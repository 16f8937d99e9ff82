package model

import (
	"sort"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Form represents a multi-page form definition composed by a form author.
// Field order is established by each field's Order value; ties keep the
// slice order as authored.
type Form struct {
	ID          string
	Title       string
	Description string
	Status      types.FormStatus
	Fields      []FormField
	ThankYou    *ThankYouSettings
	Exports     []ExportMapping
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormField represents one configured input/display unit in a form
type FormField struct {
	ID       types.FieldID
	Type     types.FieldType
	LabelEn  string
	LabelFr  string
	Required bool
	Order    int

	// Static choices, used when UseDynamicData is false
	Options []FieldOption

	// Dynamic option source
	UseDynamicData bool
	DataSource     *DataSource
	Dependency     *Dependency

	// Visibility
	Condition       *Condition
	ConditionAction types.ConditionAction

	// Type-specific constraints. Nil means unconstrained.
	MaxStars  *int
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
}

// Label returns the field's display label, preferring the English label,
// then the French label, then the raw field ID.
func (f *FormField) Label() string {
	if f.LabelEn != "" {
		return f.LabelEn
	}
	if f.LabelFr != "" {
		return f.LabelFr
	}
	return f.ID.String()
}

// IsDynamic reports whether this field's options are resolved from a
// dynamic data source at render time.
func (f *FormField) IsDynamic() bool {
	return f.UseDynamicData && f.DataSource != nil && f.Type.HasOptions()
}

// FieldOption represents a single static choice of a select/radio/checkbox field
type FieldOption struct {
	ID      string
	Value   string
	LabelEn string
	LabelFr string
}

// SortedFields returns a copy of the form's fields ordered by Order.
// Fields with equal Order keep their authored relative order.
func (f *Form) SortedFields() []FormField {
	fields := make([]FormField, len(f.Fields))
	copy(fields, f.Fields)
	sortFieldsByOrder(fields)
	return fields
}

func sortFieldsByOrder(fields []FormField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
}

// FieldByID looks up a field definition by its ID
func (f *Form) FieldByID(id types.FieldID) (*FormField, bool) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// Dependents returns the fields whose dynamic options are filtered by the
// given parent field's current value.
func (f *Form) Dependents(parentID types.FieldID) []*FormField {
	var deps []*FormField
	for i := range f.Fields {
		d := f.Fields[i].Dependency
		if d != nil && d.ParentFieldID == parentID {
			deps = append(deps, &f.Fields[i])
		}
	}
	return deps
}

// Validate checks structural integrity of the form definition: field IDs
// are unique and non-empty, field types are known, and condition/dependency
// references point at existing fields. Reference cycles are rejected.
func (f *Form) Validate() error {
	if f.Title == "" {
		return goerr.New("form title is required")
	}

	seen := make(map[types.FieldID]bool, len(f.Fields))
	for i := range f.Fields {
		field := &f.Fields[i]
		if field.ID == "" {
			return goerr.New("field ID is required", goerr.V(FieldIndexKey, i))
		}
		if seen[field.ID] {
			return goerr.New("duplicate field ID", goerr.V(FieldIDKey, field.ID))
		}
		seen[field.ID] = true

		if !field.Type.IsValid() {
			return goerr.New("invalid field type",
				goerr.V(FieldIDKey, field.ID), goerr.V("type", field.Type))
		}
		if field.ConditionAction != "" && !field.ConditionAction.IsValid() {
			return goerr.New("invalid condition action",
				goerr.V(FieldIDKey, field.ID), goerr.V("action", field.ConditionAction))
		}
		if field.UseDynamicData && field.DataSource == nil {
			return goerr.New("dynamic field requires a data source", goerr.V(FieldIDKey, field.ID))
		}
		if field.DataSource != nil {
			if err := field.DataSource.Validate(); err != nil {
				return goerr.Wrap(err, "invalid data source", goerr.V(FieldIDKey, field.ID))
			}
		}
	}

	for i := range f.Fields {
		field := &f.Fields[i]
		if c := field.Condition; c != nil && c.FieldID != "" {
			if !seen[c.FieldID] {
				return goerr.New("condition references unknown field",
					goerr.V(FieldIDKey, field.ID), goerr.V("condition_field_id", c.FieldID))
			}
		}
		if d := field.Dependency; d != nil {
			if !seen[d.ParentFieldID] {
				return goerr.New("dependency references unknown parent field",
					goerr.V(FieldIDKey, field.ID), goerr.V("parent_field_id", d.ParentFieldID))
			}
		}
	}

	if cycle := DetectReferenceCycle(f.Fields); cycle != nil {
		return goerr.New("field references form a cycle", goerr.V("cycle", cycle))
	}

	return nil
}

// ExportMapping declares how a submitted response maps into a new business
// entity record (contact, article, installation).
type ExportMapping struct {
	EntityType types.EntityType
	// Fields maps form field IDs to target entity field names
	Fields map[types.FieldID]string
}

// Validate checks the export mapping configuration
func (m *ExportMapping) Validate() error {
	if err := m.EntityType.Validate(); err != nil {
		return goerr.Wrap(err, "invalid export entity type")
	}
	if len(m.Fields) == 0 {
		return goerr.New("export mapping requires at least one field", goerr.V("entity_type", m.EntityType))
	}
	return nil
}
