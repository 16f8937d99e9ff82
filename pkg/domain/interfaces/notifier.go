package interfaces

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
)

// SubmissionNotifier announces a newly submitted response to an external
// channel (e.g. Slack). Notification failures are logged, never propagated
// to the submitter.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, form *model.Form, resp *model.FormResponse) error
}

// SignatureStore persists decoded signature images and returns a stable
// object path that replaces the data URL in the stored response.
type SignatureStore interface {
	Put(ctx context.Context, formID, responseID, fieldID, mediaType string, data []byte) (string, error)
}
