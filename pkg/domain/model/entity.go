package model

import (
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
)

// EntityRecord is a generic business entity (contact, article,
// installation) that dynamic data sources query and response exports
// create. Field shapes are schemaless here; the owning modules of each
// entity type define them.
type EntityRecord struct {
	ID        string
	Type      types.EntityType
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Field returns a named entity field rendered as a string; empty when absent
func (e *EntityRecord) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	return stringify(e.Fields[name])
}
