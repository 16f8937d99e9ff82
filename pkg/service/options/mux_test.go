package options_test

import (
	"context"
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/service/options"
	"github.com/m-mizutani/gt"
)

func fixedSource(value string) interfaces.OptionSource {
	return interfaces.OptionSourceFunc(func(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
		return []model.Option{{Value: value}}, nil
	})
}

func TestSourceMux(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the first matching source", func(t *testing.T) {
		mux := options.NewSourceMux(fixedSource("fallback"))
		mux.Register(func(et types.EntityType) bool {
			return et == types.EntityTypeArticle
		}, fixedSource("articles"))

		opts, err := mux.FetchOptions(ctx, &model.DataSource{EntityType: types.EntityTypeArticle})
		gt.NoError(t, err).Required()
		gt.Value(t, opts[0].Value).Equal("articles")

		opts, err = mux.FetchOptions(ctx, &model.DataSource{EntityType: types.EntityTypeContact})
		gt.NoError(t, err).Required()
		gt.Value(t, opts[0].Value).Equal("fallback")
	})

	t.Run("fails without fallback or match", func(t *testing.T) {
		mux := options.NewSourceMux(nil)
		_, err := mux.FetchOptions(ctx, &model.DataSource{EntityType: types.EntityTypeContact})
		gt.Value(t, err).NotNil()
	})
}
