package options_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/service/options"
	"github.com/m-mizutani/gt"
)

func countrySource() *model.DataSource {
	return &model.DataSource{
		EntityType:   types.EntityTypeContact,
		DisplayField: "name",
		ValueField:   "id",
	}
}

func testForm() *model.Form {
	return &model.Form{
		ID: "f1",
		Fields: []model.FormField{
			{
				ID: "color", Type: types.FieldTypeSelect, Order: 1,
				Options: []model.FieldOption{{Value: "red"}, {Value: "blue"}},
			},
			{
				ID: "country", Type: types.FieldTypeSelect, LabelEn: "Country", Order: 2,
				UseDynamicData: true,
				DataSource:     countrySource(),
			},
			{
				ID: "city", Type: types.FieldTypeSelect, Order: 3,
				UseDynamicData: true,
				DataSource: &model.DataSource{
					EntityType:   types.EntityTypeInstallation,
					DisplayField: "name",
					ValueField:   "id",
				},
				Dependency: &model.Dependency{
					ParentFieldID: "country",
					FilterField:   "country_id",
				},
			},
		},
	}
}

// countingSource counts fetches and records the last filters per entity type
type countingSource struct {
	mu      sync.Mutex
	fetches map[types.EntityType]int
	filters map[types.EntityType][]model.DataSourceFilter
	fail    map[types.EntityType]error
	result  []model.Option
}

func newCountingSource(result []model.Option) *countingSource {
	return &countingSource{
		fetches: make(map[types.EntityType]int),
		filters: make(map[types.EntityType][]model.DataSourceFilter),
		fail:    make(map[types.EntityType]error),
		result:  result,
	}
}

func (s *countingSource) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[ds.EntityType]++
	s.filters[ds.EntityType] = ds.Filters
	if err := s.fail[ds.EntityType]; err != nil {
		return nil, err
	}
	return s.result, nil
}

func (s *countingSource) count(et types.EntityType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[et]
}

func (s *countingSource) lastFilters(et types.EntityType) []model.DataSourceFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters[et]
}

func TestResolverStaticSeeding(t *testing.T) {
	src := newCountingSource([]model.Option{{Value: "x"}})
	r := options.New(testForm(), src)

	opts := r.Options("color")
	gt.Array(t, opts).Length(2)
	gt.Value(t, opts[0].Value).Equal("red")
	gt.Bool(t, r.IsLoading("color")).False()
	gt.Value(t, r.FieldError("color")).Nil()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(0)
}

func TestResolverFetchAndDedup(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource([]model.Option{{Value: "fr", LabelEn: "France"}})
	r := options.New(testForm(), src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(1)
	gt.Array(t, r.Options("country")).Length(1)

	// Identical pass hits the fetch cache
	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(1)
}

func TestResolverPendingParent(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource([]model.Option{{Value: "paris"}})
	r := options.New(testForm(), src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()

	// The dependent field issues no fetch while its parent is unset
	gt.Value(t, src.count(types.EntityTypeInstallation)).Equal(0)
	gt.Value(t, r.PendingParent("city")).Equal("Country")
	gt.Array(t, r.Options("city")).Length(0)
	gt.Bool(t, r.IsLoading("city")).False()
}

func TestResolverCascadingFilter(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource([]model.Option{{Value: "paris"}})
	r := options.New(testForm(), src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{"country": "fr"})).Required()

	gt.Value(t, src.count(types.EntityTypeInstallation)).Equal(1)
	gt.Value(t, r.PendingParent("city")).Equal("")

	filters := src.lastFilters(types.EntityTypeInstallation)
	gt.Array(t, filters).Length(1)
	gt.Value(t, filters[0].Field).Equal("country_id")
	gt.Value(t, filters[0].Operator).Equal(types.OperatorEquals)
	gt.Value(t, filters[0].Value).Equal("fr")
}

func TestResolverParentChangeInvalidation(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource([]model.Option{{Value: "opt"}})
	r := options.New(testForm(), src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{"country": "fr"})).Required()
	gt.Value(t, src.count(types.EntityTypeInstallation)).Equal(1)

	// Changing the parent refetches with the new filter value
	gt.NoError(t, r.Resolve(ctx, model.FormValues{"country": "de"})).Required()
	gt.Value(t, src.count(types.EntityTypeInstallation)).Equal(2)
	gt.Value(t, src.lastFilters(types.EntityTypeInstallation)[0].Value).Equal("de")

	// Reverting to an earlier value fetches again instead of serving a
	// stale cache entry
	gt.NoError(t, r.Resolve(ctx, model.FormValues{"country": "fr"})).Required()
	gt.Value(t, src.count(types.EntityTypeInstallation)).Equal(3)
	gt.Value(t, src.lastFilters(types.EntityTypeInstallation)[0].Value).Equal("fr")
}

func TestResolverErrorFallback(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(nil)
	src.fail[types.EntityTypeContact] = errors.New("backend down")

	form := testForm()
	// Give the dynamic field static options to fall back on
	form.Fields[1].Options = []model.FieldOption{{Value: "fallback"}}
	r := options.New(form, src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()

	gt.Value(t, r.FieldError("country")).NotNil()
	opts := r.Options("country")
	gt.Array(t, opts).Length(1)
	gt.Value(t, opts[0].Value).Equal("fallback")

	// The failed key was evicted, so the next pass retries
	src.mu.Lock()
	delete(src.fail, types.EntityTypeContact)
	src.result = []model.Option{{Value: "live"}}
	src.mu.Unlock()

	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(2)
	gt.Value(t, r.FieldError("country")).Nil()
	gt.Value(t, r.Options("country")[0].Value).Equal("live")
}

func TestResolverRefresh(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource([]model.Option{{Value: "v1"}})
	r := options.New(testForm(), src)

	gt.NoError(t, r.Resolve(ctx, model.FormValues{})).Required()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(1)

	src.mu.Lock()
	src.result = []model.Option{{Value: "v2"}}
	src.mu.Unlock()

	gt.NoError(t, r.Refresh(ctx, "country")).Required()
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(2)
	gt.Value(t, r.Options("country")[0].Value).Equal("v2")

	// Refreshing a static field is a no-op
	gt.NoError(t, r.Refresh(ctx, "color"))
	gt.Value(t, src.count(types.EntityTypeContact)).Equal(2)
}

// gatedSource blocks each fetch until the test releases its filter value,
// letting tests interleave completions deliberately. Every fetch announces
// itself on started before blocking.
type gatedSource struct {
	mu      sync.Mutex
	gates   map[string]chan []model.Option
	started chan string
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		gates:   make(map[string]chan []model.Option),
		started: make(chan string, 8),
	}
}

func (s *gatedSource) gate(filterValue string) chan []model.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.gates[filterValue]; ok {
		return ch
	}
	ch := make(chan []model.Option, 1)
	s.gates[filterValue] = ch
	return ch
}

func (s *gatedSource) FetchOptions(ctx context.Context, ds *model.DataSource) ([]model.Option, error) {
	key := ""
	if len(ds.Filters) > 0 {
		key = ds.Filters[len(ds.Filters)-1].Value
	}
	s.started <- key
	select {
	case opts := <-s.gate(key):
		return opts, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var _ interfaces.OptionSource = &gatedSource{}

func TestResolverDiscardsSupersededFetch(t *testing.T) {
	ctx := context.Background()
	src := newGatedSource()

	form := testForm()
	// Only the cascading field matters here
	form.Fields = form.Fields[2:3]
	form.Fields[0].Order = 1
	r := options.New(form, src)

	var wg sync.WaitGroup
	var firstErr, secondErr atomic.Value

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Resolve(ctx, model.FormValues{"country": "fr"}); err != nil {
			firstErr.Store(err)
		}
	}()
	gt.Value(t, <-src.started).Equal("fr")

	// Supersede the in-flight fetch with a new parent value
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Resolve(ctx, model.FormValues{"country": "de"}); err != nil {
			secondErr.Store(err)
		}
	}()
	gt.Value(t, <-src.started).Equal("de")

	// Let the newer fetch complete first, then release the stale one
	src.gate("de") <- []model.Option{{Value: "berlin"}}
	src.gate("fr") <- []model.Option{{Value: "paris"}}
	wg.Wait()

	gt.Value(t, firstErr.Load()).Nil()
	gt.Value(t, secondErr.Load()).Nil()

	// The superseded fr result must not overwrite the de result
	opts := r.Options("city")
	gt.Array(t, opts).Length(1)
	gt.Value(t, opts[0].Value).Equal("berlin")
}

func TestResolverCloseDropsResults(t *testing.T) {
	ctx := context.Background()
	src := newGatedSource()

	form := testForm()
	form.Fields = form.Fields[2:3]
	form.Fields[0].Order = 1
	r := options.New(form, src)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Resolve(ctx, model.FormValues{"country": "fr"})
	}()
	gt.Value(t, <-src.started).Equal("fr")

	r.Close()
	src.gate("fr") <- []model.Option{{Value: "paris"}}
	wg.Wait()

	gt.Array(t, r.Options("city")).Length(0)
}
