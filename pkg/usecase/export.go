package usecase

import (
	"context"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ExportUseCase turns stored responses into business entity records
// according to a form's export mappings
type ExportUseCase struct {
	repo interfaces.Repository
}

func NewExportUseCase(repo interfaces.Repository) *ExportUseCase {
	return &ExportUseCase{repo: repo}
}

// ExportResponse creates an entity record of the given type from one
// response's values. Each response exports at most once per entity type;
// the created entity ID is recorded on the response.
func (uc *ExportUseCase) ExportResponse(ctx context.Context, formID, responseID string, entityType types.EntityType) (*model.EntityRecord, error) {
	if err := entityType.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid entity type")
	}

	form, err := uc.repo.Form().Get(ctx, formID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, formID))
	}
	if form == nil {
		return nil, goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, formID))
	}

	mapping := exportMappingFor(form, entityType)
	if mapping == nil {
		return nil, goerr.Wrap(ErrNoExportMapping, "no export mapping", goerr.V(FormIDKey, formID), goerr.V("entity_type", entityType))
	}

	resp, err := uc.repo.Response().Get(ctx, formID, responseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get response", goerr.V(ResponseIDKey, responseID))
	}
	if resp == nil {
		return nil, goerr.Wrap(ErrResponseNotFound, "response not found", goerr.V(ResponseIDKey, responseID))
	}
	if _, done := resp.ExportedTo[entityType]; done {
		return nil, goerr.Wrap(ErrAlreadyExported, "response already exported", goerr.V(ResponseIDKey, responseID), goerr.V("entity_type", entityType))
	}

	fields := make(map[string]any, len(mapping.Fields))
	for fieldID, entityField := range mapping.Fields {
		if val, ok := resp.Values[fieldID]; ok {
			fields[entityField] = val
		}
	}

	now := time.Now()
	record := &model.EntityRecord{
		Type:      entityType,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := uc.repo.Entity().Create(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create entity record", goerr.V("entity_type", entityType))
	}

	if resp.ExportedTo == nil {
		resp.ExportedTo = make(map[types.EntityType]string)
	}
	resp.ExportedTo[entityType] = created.ID
	if _, err := uc.repo.Response().Update(ctx, resp); err != nil {
		return nil, goerr.Wrap(err, "failed to record export result", goerr.V(ResponseIDKey, responseID))
	}

	return created, nil
}

func exportMappingFor(form *model.Form, entityType types.EntityType) *model.ExportMapping {
	for i := range form.Exports {
		if form.Exports[i].EntityType == entityType {
			return &form.Exports[i]
		}
	}
	return nil
}
