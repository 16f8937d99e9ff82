package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func TestFormRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("create assigns ID and timestamps", func(t *testing.T) {
		created, err := repo.Form().Create(ctx, &model.Form{
			Title:  "Survey",
			Status: types.FormStatusDraft,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual("")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("get returns nil for unknown ID", func(t *testing.T) {
		form, err := repo.Form().Get(ctx, "no-such-form")
		gt.NoError(t, err).Required()
		gt.Value(t, form).Nil()
	})

	t.Run("stored form is isolated from caller mutation", func(t *testing.T) {
		created, err := repo.Form().Create(ctx, &model.Form{
			Title:  "Original",
			Fields: []model.FormField{{ID: "a", Type: types.FieldTypeText, Order: 1}},
		})
		gt.NoError(t, err).Required()

		created.Title = "Mutated"
		created.Fields[0].ID = "b"

		got, err := repo.Form().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Original")
		gt.Value(t, got.Fields[0].ID).Equal(types.FieldID("a"))
	})

	t.Run("update preserves CreatedAt", func(t *testing.T) {
		created, err := repo.Form().Create(ctx, &model.Form{Title: "Before"})
		gt.NoError(t, err).Required()

		created.Title = "After"
		created.CreatedAt = time.Time{}
		updated, err := repo.Form().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("After")
		gt.Bool(t, updated.CreatedAt.IsZero()).False()
	})

	t.Run("update unknown form fails", func(t *testing.T) {
		_, err := repo.Form().Update(ctx, &model.Form{ID: "missing"})
		gt.Value(t, err).NotNil()
	})

	t.Run("delete removes the form", func(t *testing.T) {
		created, err := repo.Form().Create(ctx, &model.Form{Title: "Doomed"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Form().Delete(ctx, created.ID))
		got, err := repo.Form().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()

		gt.Value(t, repo.Form().Delete(ctx, created.ID)).NotNil()
	})
}

func TestResponseRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("create assigns ID and SubmittedAt", func(t *testing.T) {
		created, err := repo.Response().Create(ctx, &model.FormResponse{
			FormID: "f1",
			Values: model.FormValues{"name": "Ada"},
			Source: model.ResponseSourceInternal,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual("")
		gt.Bool(t, created.SubmittedAt.IsZero()).False()
	})

	t.Run("list is scoped to the form and newest first", func(t *testing.T) {
		repo := memory.New()
		base := time.Now()
		for i, formID := range []string{"f1", "f1", "f2"} {
			_, err := repo.Response().Create(ctx, &model.FormResponse{
				FormID:      formID,
				Values:      model.FormValues{"i": float64(i)},
				SubmittedAt: base.Add(time.Duration(i) * time.Minute),
			})
			gt.NoError(t, err).Required()
		}

		listed, err := repo.Response().ListByForm(ctx, "f1")
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(2)
		gt.Value(t, listed[0].Values["i"]).Equal(any(float64(1)))
	})

	t.Run("update records export state", func(t *testing.T) {
		created, err := repo.Response().Create(ctx, &model.FormResponse{FormID: "f1", Values: model.FormValues{}})
		gt.NoError(t, err).Required()

		created.ExportedTo = map[types.EntityType]string{types.EntityTypeContact: "c-1"}
		updated, err := repo.Response().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.ExportedTo[types.EntityTypeContact]).Equal("c-1")
	})

	t.Run("delete by form removes only that form's responses", func(t *testing.T) {
		repo := memory.New()
		r1, err := repo.Response().Create(ctx, &model.FormResponse{FormID: "f1", Values: model.FormValues{}})
		gt.NoError(t, err).Required()
		r2, err := repo.Response().Create(ctx, &model.FormResponse{FormID: "f2", Values: model.FormValues{}})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Response().DeleteByForm(ctx, "f1"))

		got, err := repo.Response().Get(ctx, "f1", r1.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()

		kept, err := repo.Response().Get(ctx, "f2", r2.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, kept).NotNil()
	})
}

func TestEntityRepository(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) interfaces.Repository {
		t.Helper()
		repo := memory.New()
		records := []*model.EntityRecord{
			{ID: "c1", Type: types.EntityTypeContact, Fields: map[string]any{"name": "Alice", "country": "fr"}},
			{ID: "c2", Type: types.EntityTypeContact, Fields: map[string]any{"name": "Bob", "country": "de"}},
			{ID: "c3", Type: types.EntityTypeContact, Fields: map[string]any{"name": "Chloe", "country": "fr"}},
			{ID: "a1", Type: types.EntityTypeArticle, Fields: map[string]any{"name": "Widget"}},
		}
		for _, rec := range records {
			_, err := repo.Entity().Create(ctx, rec)
			gt.NoError(t, err).Required()
		}
		return repo
	}

	t.Run("query filters by entity type", func(t *testing.T) {
		repo := seed(t)
		got, err := repo.Entity().Query(ctx, interfaces.EntityQuery{Type: types.EntityTypeArticle})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].ID).Equal("a1")
	})

	t.Run("query applies data source filters", func(t *testing.T) {
		repo := seed(t)
		got, err := repo.Entity().Query(ctx, interfaces.EntityQuery{
			Type: types.EntityTypeContact,
			Filters: []model.DataSourceFilter{
				{Field: "country", Operator: types.OperatorEquals, Value: "fr"},
			},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2)
	})

	t.Run("query sorts and limits", func(t *testing.T) {
		repo := seed(t)
		got, err := repo.Entity().Query(ctx, interfaces.EntityQuery{
			Type:      types.EntityTypeContact,
			SortField: "name",
			SortOrder: types.SortOrderDesc,
			Limit:     2,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(2)
		gt.Value(t, got[0].Field("name")).Equal("Chloe")
		gt.Value(t, got[1].Field("name")).Equal("Bob")
	})

	t.Run("default order is by ID for determinism", func(t *testing.T) {
		repo := seed(t)
		got, err := repo.Entity().Query(ctx, interfaces.EntityQuery{Type: types.EntityTypeContact})
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3)
		gt.Value(t, got[0].ID).Equal("c1")
		gt.Value(t, got[2].ID).Equal("c3")
	})

	t.Run("create rejects unknown entity type", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Entity().Create(ctx, &model.EntityRecord{Type: "spaceship"})
		gt.Value(t, err).NotNil()
	})
}

func TestPublicLinkRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("create and revoke", func(t *testing.T) {
		created, err := repo.PublicLink().Create(ctx, &model.PublicLink{
			FormID:    "f1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual("")
		gt.Bool(t, created.Usable(time.Now())).True()

		gt.NoError(t, repo.PublicLink().Revoke(ctx, created.ID))

		got, err := repo.PublicLink().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.Revoked).True()
		gt.Bool(t, got.Usable(time.Now())).False()
	})

	t.Run("list by form newest first", func(t *testing.T) {
		repo := memory.New()
		base := time.Now()
		for i := 0; i < 3; i++ {
			_, err := repo.PublicLink().Create(ctx, &model.PublicLink{
				FormID:    "f1",
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
				ExpiresAt: base.Add(time.Hour),
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.PublicLink().Create(ctx, &model.PublicLink{FormID: "f2", ExpiresAt: base.Add(time.Hour)})
		gt.NoError(t, err).Required()

		links, err := repo.PublicLink().ListByForm(ctx, "f1")
		gt.NoError(t, err).Required()
		gt.Array(t, links).Length(3)
		gt.Bool(t, links[0].CreatedAt.After(links[2].CreatedAt)).True()
	})

	t.Run("revoke unknown link fails", func(t *testing.T) {
		gt.Value(t, repo.PublicLink().Revoke(ctx, "missing")).NotNil()
	})
}
