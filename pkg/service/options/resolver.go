package options

import (
	"context"
	"strconv"
	"sync"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves option lists for every dynamic-eligible field of one
// form, tracking per-field loading/error/pending state. One Resolver
// instance serves one form-rendering session; it owns its fetch cache and
// is safe for concurrent use.
//
// Cascading works through the live form values passed to Resolve: a field
// whose dependency parent has no value enters a pending state without any
// network activity, and a parent value change invalidates everything its
// dependents have fetched so far. Each fetch is stamped with a per-field
// version; a completion whose version no longer matches is discarded, so a
// superseded fetch can never overwrite the result of a newer one.
type Resolver struct {
	form   *model.Form
	source interfaces.OptionSource
	cache  FetchCache

	// dependents indexes dynamic fields by the parent they cascade from
	dependents map[types.FieldID][]types.FieldID

	mu       sync.Mutex
	closed   bool
	states   map[types.FieldID]*fieldState
	observed map[types.FieldID]string
	values   model.FormValues
}

type fieldState struct {
	field   *model.FormField
	options []model.Option
	loading bool
	err     error
	pending string
	version uint64
}

// ResolverOption customizes a Resolver
type ResolverOption func(*Resolver)

// WithCache substitutes the fetch-deduplication cache
func WithCache(cache FetchCache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// New creates a Resolver for the given form. Static choice fields are
// seeded immediately from their configured options with no network
// activity, loading or error state.
func New(form *model.Form, source interfaces.OptionSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		form:       form,
		source:     source,
		cache:      NewMemoryCache(),
		dependents: make(map[types.FieldID][]types.FieldID),
		states:     make(map[types.FieldID]*fieldState),
		observed:   make(map[types.FieldID]string),
		values:     model.FormValues{},
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range form.Fields {
		f := &form.Fields[i]
		if !f.Type.HasOptions() {
			continue
		}
		st := &fieldState{field: f}
		if !f.IsDynamic() {
			st.options = model.StaticOptions(f.Options)
		} else if d := f.Dependency; d != nil && d.ParentFieldID != "" {
			r.dependents[d.ParentFieldID] = append(r.dependents[d.ParentFieldID], f.ID)
		}
		r.states[f.ID] = st
	}

	return r
}

// Resolve runs a whole-form resolution pass against the current values.
// Every dynamic field whose fetch key is not already cached is fetched;
// fetches run in parallel and independently, so one field's failure never
// blocks or corrupts another's. The call returns once all fetches issued
// by this pass have settled. Fetch failures are recorded as per-field
// error state, never returned; the only returned error is context
// cancellation.
func (r *Resolver) Resolve(ctx context.Context, values model.FormValues) error {
	type fetchJob struct {
		st      *fieldState
		ds      *model.DataSource
		key     string
		version uint64
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return goerr.New("resolver is closed")
	}
	r.values = values.Clone()
	r.invalidateChangedParentsLocked(values)

	var jobs []fetchJob
	for _, st := range r.states {
		f := st.field
		if !f.IsDynamic() {
			continue
		}

		ds := f.DataSource
		if d := f.Dependency; d != nil && d.ParentFieldID != "" {
			if values.IsAbsent(d.ParentFieldID) {
				// Cannot query until the parent is selected
				st.pending = r.parentLabel(d.ParentFieldID)
				st.options = nil
				st.loading = false
				st.err = nil
				st.version++
				continue
			}
			st.pending = ""
			ds = ds.WithFilter(model.DataSourceFilter{
				Field:    d.FilterField,
				Operator: types.OperatorEquals,
				Value:    valueString(values.Get(d.ParentFieldID)),
			})
		}

		key := fetchKey(f.ID, ds)
		if r.cache.Has(key) {
			continue
		}
		r.cache.Add(key)
		st.loading = true
		st.version++
		jobs = append(jobs, fetchJob{st: st, ds: ds, key: key, version: st.version})
	}
	r.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		eg.Go(func() error {
			opts, err := r.source.FetchOptions(egCtx, job.ds)
			r.applyResult(job.st, job.key, job.version, opts, err)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// applyResult installs a fetch result unless it has been superseded by a
// newer fetch for the same field or the resolver has been closed.
func (r *Resolver) applyResult(st *fieldState, key string, version uint64, opts []model.Option, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || st.version != version {
		return
	}

	st.loading = false
	if err != nil {
		st.err = goerr.Wrap(err, "failed to fetch field options",
			goerr.V(model.FieldIDKey, st.field.ID))
		// Drop the key so a later pass or an explicit refresh retries
		r.cache.Delete(key)
		return
	}
	st.err = nil
	st.options = opts
}

// invalidateChangedParentsLocked compares each tracked parent's current
// value against the last observed one and, on change, wipes every
// dependent's fetch-cache entries and interim state. Clearing the cache
// keys (rather than just the options) means a later revert to the same
// parent value still produces one fresh fetch, not a stale cache hit.
func (r *Resolver) invalidateChangedParentsLocked(values model.FormValues) {
	for parentID, childIDs := range r.dependents {
		cur := valueString(values.Get(parentID))
		prev, seen := r.observed[parentID]
		r.observed[parentID] = cur
		if !seen || prev == cur {
			continue
		}
		for _, childID := range childIDs {
			r.cache.DeletePrefix(string(childID) + "|")
			if st := r.states[childID]; st != nil {
				st.options = nil
				st.err = nil
				st.loading = false
				st.version++
			}
		}
	}
}

// Refresh forces a cache bypass and refetch for one field using the values
// from the last Resolve call. A successful refresh clears the field's
// error state. Refreshing a pending or non-dynamic field is a no-op.
func (r *Resolver) Refresh(ctx context.Context, fieldID types.FieldID) error {
	r.mu.Lock()
	st, ok := r.states[fieldID]
	if !ok || !st.field.IsDynamic() || r.closed {
		r.mu.Unlock()
		return nil
	}

	ds := st.field.DataSource
	if d := st.field.Dependency; d != nil && d.ParentFieldID != "" {
		if r.values.IsAbsent(d.ParentFieldID) {
			st.pending = r.parentLabel(d.ParentFieldID)
			st.options = nil
			st.err = nil
			r.mu.Unlock()
			return nil
		}
		ds = ds.WithFilter(model.DataSourceFilter{
			Field:    d.FilterField,
			Operator: types.OperatorEquals,
			Value:    valueString(r.values.Get(d.ParentFieldID)),
		})
	}

	r.cache.DeletePrefix(string(fieldID) + "|")
	key := fetchKey(fieldID, ds)
	r.cache.Add(key)
	st.loading = true
	st.version++
	version := st.version
	r.mu.Unlock()

	opts, err := r.source.FetchOptions(ctx, ds)
	r.applyResult(st, key, version, opts, err)
	if err != nil {
		return goerr.Wrap(err, "failed to refresh field options",
			goerr.V(model.FieldIDKey, fieldID))
	}
	return nil
}

// Options returns the current option list for a field. A field whose last
// fetch failed falls back to its static options rather than showing
// nothing.
func (r *Resolver) Options(fieldID types.FieldID) []model.Option {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[fieldID]
	if !ok {
		return nil
	}
	if st.err != nil && len(st.options) == 0 {
		return model.StaticOptions(st.field.Options)
	}
	if st.options == nil {
		return []model.Option{}
	}
	return st.options
}

// IsLoading reports whether a fetch for the field is in flight
func (r *Resolver) IsLoading(fieldID types.FieldID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[fieldID]
	return ok && st.loading
}

// FieldError returns the field's current fetch error, nil when healthy
func (r *Resolver) FieldError(fieldID types.FieldID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[fieldID]; ok {
		return st.err
	}
	return nil
}

// PendingParent returns the display label of the unselected parent field
// blocking this field's resolution, or "" when the field can be queried.
func (r *Resolver) PendingParent(fieldID types.FieldID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[fieldID]; ok {
		return st.pending
	}
	return ""
}

// Close discards the resolver. In-flight fetch results arriving after
// Close are dropped.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *Resolver) parentLabel(parentID types.FieldID) string {
	if parent, ok := r.form.FieldByID(parentID); ok {
		return parent.Label()
	}
	return parentID.String()
}

func fetchKey(fieldID types.FieldID, ds *model.DataSource) string {
	return string(fieldID) + "|" + ds.CacheKey()
}

// valueString renders a parent value for filter construction and change
// tracking
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
