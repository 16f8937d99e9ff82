package model

import "github.com/fieldline-hq/fieldline/pkg/domain/types"

// FormValues maps field IDs to the values an end user has entered so far.
// Value shapes vary by field type: string (text/date/select/radio), number,
// bool or string slice (checkbox), data-URL string (signature).
type FormValues map[types.FieldID]any

// Get returns the current value for a field; nil when absent
func (v FormValues) Get(id types.FieldID) any {
	if v == nil {
		return nil
	}
	return v[id]
}

// IsAbsent reports whether a field currently has no usable value.
// Nil, empty string, boolean false and empty slices all count as absent.
func (v FormValues) IsAbsent(id types.FieldID) bool {
	val := v.Get(id)
	if arr, ok := asStringSlice(val); ok {
		return len(arr) == 0
	}
	return isEmptyScalar(val)
}

// Clone returns a shallow copy of the values map
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ClearDependents clears the stored values of every field that cascades from
// changedID and has clear-on-parent-change enabled. Checkbox dependents reset
// to an empty slice, everything else to an empty string. Returns the IDs of
// the fields that were cleared.
//
// Callers that mutate a parent field's value must invoke this so dependents
// never keep a selection filtered by a stale parent value.
func (v FormValues) ClearDependents(form *Form, changedID types.FieldID) []types.FieldID {
	var cleared []types.FieldID
	for _, dep := range form.Dependents(changedID) {
		if !dep.Dependency.ShouldClearOnParentChange() {
			continue
		}
		if dep.Type == types.FieldTypeCheckbox {
			v[dep.ID] = []string{}
		} else {
			v[dep.ID] = ""
		}
		cleared = append(cleared, dep.ID)
	}
	return cleared
}
