package usecase

import (
	"context"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FormUseCase handles form authoring operations
type FormUseCase struct {
	repo interfaces.Repository
}

func NewFormUseCase(repo interfaces.Repository) *FormUseCase {
	return &FormUseCase{repo: repo}
}

// CreateForm validates and stores a new draft form
func (uc *FormUseCase) CreateForm(ctx context.Context, form *model.Form) (*model.Form, error) {
	if form.Status == "" {
		form.Status = types.FormStatusDraft
	}
	if err := form.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid form")
	}

	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now

	created, err := uc.repo.Form().Create(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create form")
	}

	return created, nil
}

// GetForm returns a form by ID
func (uc *FormUseCase) GetForm(ctx context.Context, id string) (*model.Form, error) {
	form, err := uc.repo.Form().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, id))
	}
	if form == nil {
		return nil, goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, id))
	}
	return form, nil
}

// ListForms returns all forms
func (uc *FormUseCase) ListForms(ctx context.Context) ([]*model.Form, error) {
	forms, err := uc.repo.Form().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list forms")
	}
	return forms, nil
}

// UpdateForm validates and replaces an existing form definition
func (uc *FormUseCase) UpdateForm(ctx context.Context, form *model.Form) (*model.Form, error) {
	existing, err := uc.GetForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid form", goerr.V(FormIDKey, form.ID))
	}

	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now()

	updated, err := uc.repo.Form().Update(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update form", goerr.V(FormIDKey, form.ID))
	}

	return updated, nil
}

// PublishForm moves a form to published status so it accepts responses
func (uc *FormUseCase) PublishForm(ctx context.Context, id string) (*model.Form, error) {
	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, goerr.Wrap(err, "form is not publishable", goerr.V(FormIDKey, id))
	}

	form.Status = types.FormStatusPublished
	form.UpdatedAt = time.Now()

	updated, err := uc.repo.Form().Update(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to publish form", goerr.V(FormIDKey, id))
	}

	return updated, nil
}

// ArchiveForm moves a form to archived status. Archived forms keep their
// responses but no longer accept new ones.
func (uc *FormUseCase) ArchiveForm(ctx context.Context, id string) (*model.Form, error) {
	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	form.Status = types.FormStatusArchived
	form.UpdatedAt = time.Now()

	updated, err := uc.repo.Form().Update(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to archive form", goerr.V(FormIDKey, id))
	}

	return updated, nil
}

// DeleteForm removes a form definition
func (uc *FormUseCase) DeleteForm(ctx context.Context, id string) error {
	if _, err := uc.GetForm(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Form().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete form", goerr.V(FormIDKey, id))
	}
	return nil
}
