package options

import (
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
)

// FieldSnapshot is a point-in-time view of one field's option state,
// shaped for rendering code: resolved options (with static fallback
// already applied on error), loading flag, error text and the pending
// parent label.
type FieldSnapshot struct {
	Options       []model.Option
	Loading       bool
	Error         string
	PendingParent string
}

// Snapshot captures the state of every option-bearing field
func (r *Resolver) Snapshot() map[types.FieldID]FieldSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[types.FieldID]FieldSnapshot, len(r.states))
	for id, st := range r.states {
		snap := FieldSnapshot{
			Loading:       st.loading,
			PendingParent: st.pending,
		}
		if st.err != nil {
			snap.Error = st.err.Error()
		}
		switch {
		case st.err != nil && len(st.options) == 0:
			snap.Options = model.StaticOptions(st.field.Options)
		case st.options == nil:
			snap.Options = []model.Option{}
		default:
			snap.Options = st.options
		}
		out[id] = snap
	}
	return out
}
