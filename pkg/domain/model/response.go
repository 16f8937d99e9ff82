package model

import (
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
)

// ResponseSource distinguishes how a response reached the service
type ResponseSource string

const (
	ResponseSourceInternal   ResponseSource = "internal"
	ResponseSourcePublicLink ResponseSource = "public_link"
)

// FormResponse is one submitted set of values for a form. Values contain
// only visible input fields after validation; signature data URLs are
// replaced with stored object paths when signature storage is configured.
type FormResponse struct {
	ID     string
	FormID string
	Values FormValues
	Source ResponseSource
	// LinkID is set when the response arrived through a public link
	LinkID      string
	SubmittedAt time.Time

	// Exported entity IDs by entity type, filled in by response export
	ExportedTo map[types.EntityType]string
}
