package usecase

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/utils/async"
	"github.com/fieldline-hq/fieldline/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// ResponseUseCase handles submission and retrieval of form responses
type ResponseUseCase struct {
	repo       interfaces.Repository
	notifier   interfaces.SubmissionNotifier
	signatures interfaces.SignatureStore
}

func NewResponseUseCase(repo interfaces.Repository, notifier interfaces.SubmissionNotifier, signatures interfaces.SignatureStore) *ResponseUseCase {
	return &ResponseUseCase{
		repo:       repo,
		notifier:   notifier,
		signatures: signatures,
	}
}

// Submit validates and stores a submission against a published form, then
// evaluates the thank-you rules for the stored values. Dependent fields
// whose parent value is absent are cleared before validation so a stale
// child value never survives its parent.
func (uc *ResponseUseCase) Submit(ctx context.Context, formID string, values model.FormValues, source model.ResponseSource, linkID string) (*model.FormResponse, model.ThankYouResult, error) {
	form, err := uc.repo.Form().Get(ctx, formID)
	if err != nil {
		return nil, model.ThankYouResult{}, goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, formID))
	}
	if form == nil {
		return nil, model.ThankYouResult{}, goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, formID))
	}
	if !form.Status.AcceptsResponses() {
		return nil, model.ThankYouResult{}, goerr.Wrap(ErrFormNotPublished, "form does not accept responses", goerr.V(FormIDKey, formID))
	}

	values = values.Clone()
	clearOrphanedDependents(form, values)

	validated, err := model.NewFieldValidator(form).ValidateSubmission(values)
	if err != nil {
		return nil, model.ThankYouResult{}, goerr.Wrap(err, "invalid submission", goerr.V(FormIDKey, formID))
	}

	resp := &model.FormResponse{
		FormID:      formID,
		Values:      validated,
		Source:      source,
		LinkID:      linkID,
		SubmittedAt: time.Now(),
	}

	created, err := uc.repo.Response().Create(ctx, resp)
	if err != nil {
		return nil, model.ThankYouResult{}, goerr.Wrap(err, "failed to store response", goerr.V(FormIDKey, formID))
	}

	if uc.signatures != nil {
		if err := uc.offloadSignatures(ctx, form, created); err != nil {
			// the response is already stored; keep the data URLs in place
			_ = errutil.Handle(ctx, err, "failed to offload signature images")
		}
	}

	if uc.notifier != nil {
		notify := uc.notifier
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := notify.NotifySubmission(ctx, form, created); err != nil {
				return errutil.Handle(ctx, err, "failed to notify submission")
			}
			return nil
		})
	}

	result := model.EvaluateThankYouPage(form.ThankYou, created.Values)

	return created, result, nil
}

// GetResponse returns a stored response
func (uc *ResponseUseCase) GetResponse(ctx context.Context, formID, id string) (*model.FormResponse, error) {
	resp, err := uc.repo.Response().Get(ctx, formID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get response", goerr.V(ResponseIDKey, id))
	}
	if resp == nil {
		return nil, goerr.Wrap(ErrResponseNotFound, "response not found", goerr.V(FormIDKey, formID), goerr.V(ResponseIDKey, id))
	}
	return resp, nil
}

// ListResponses returns all responses of a form
func (uc *ResponseUseCase) ListResponses(ctx context.Context, formID string) ([]*model.FormResponse, error) {
	resps, err := uc.repo.Response().ListByForm(ctx, formID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses", goerr.V(FormIDKey, formID))
	}
	return resps, nil
}

// offloadSignatures replaces signature data URLs in the stored response
// with object paths from the signature store
func (uc *ResponseUseCase) offloadSignatures(ctx context.Context, form *model.Form, resp *model.FormResponse) error {
	changed := false
	for i := range form.Fields {
		field := &form.Fields[i]
		if field.Type != types.FieldTypeSignature {
			continue
		}
		raw, ok := resp.Values[field.ID].(string)
		if !ok || raw == "" {
			continue
		}
		mediaType, data, err := decodeDataURL(raw)
		if err != nil {
			return goerr.Wrap(err, "invalid signature data URL", goerr.V(model.FieldIDKey, field.ID))
		}
		path, err := uc.signatures.Put(ctx, resp.FormID, resp.ID, string(field.ID), mediaType, data)
		if err != nil {
			return goerr.Wrap(err, "failed to store signature", goerr.V(model.FieldIDKey, field.ID))
		}
		resp.Values[field.ID] = path
		changed = true
	}
	if !changed {
		return nil
	}

	if _, err := uc.repo.Response().Update(ctx, resp); err != nil {
		return goerr.Wrap(err, "failed to update response with signature paths")
	}
	return nil
}

// clearOrphanedDependents resets dependent field values whose parent has
// no value, matching what a renderer does when a parent is cleared
func clearOrphanedDependents(form *model.Form, values model.FormValues) {
	for i := range form.Fields {
		field := &form.Fields[i]
		d := field.Dependency
		if d == nil || !d.ShouldClearOnParentChange() {
			continue
		}
		if values.IsAbsent(d.ParentFieldID) {
			values.ClearDependents(form, d.ParentFieldID)
		}
	}
}

// decodeDataURL splits a "data:<mediatype>;base64,<payload>" URL
func decodeDataURL(raw string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return "", nil, goerr.New("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, goerr.New("malformed data URL")
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, goerr.New("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to decode data URL payload")
	}
	return mediaType, data, nil
}
