package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// EntityType identifies a business entity collection that dynamic data
// sources can query (e.g. "contact", "article", "installation")
type EntityType string

const (
	EntityTypeContact      EntityType = "contact"
	EntityTypeArticle      EntityType = "article"
	EntityTypeInstallation EntityType = "installation"
)

var entityTypePattern = regexp.MustCompile(`^[a-z0-9]+([_-][a-z0-9]+)*$`)

// Validate checks if the EntityType is a well-formed collection name
func (e EntityType) Validate() error {
	if e == "" {
		return goerr.New("entity type cannot be empty")
	}
	if !entityTypePattern.MatchString(string(e)) {
		return goerr.New("entity type must be lowercase alphanumeric with hyphens or underscores", goerr.V("entity_type", e))
	}
	return nil
}

// String returns the string representation of the entity type
func (e EntityType) String() string {
	return string(e)
}
