package model

import "github.com/fieldline-hq/fieldline/pkg/domain/types"

// DetectReferenceCycle checks the combined condition/dependency reference
// graph for cycles (field A's visibility gated by B while B cascades from A,
// and so on). Returns the field IDs forming the first cycle found, or nil.
//
// This runs at authoring/validation time only. The runtime evaluator is
// non-recursive and total, so even an undetected cycle cannot hang
// evaluation; this check exists to reject configurations that would behave
// surprisingly during form completion.
func DetectReferenceCycle(fields []FormField) []types.FieldID {
	refs := make(map[types.FieldID][]types.FieldID, len(fields))
	for i := range fields {
		f := &fields[i]
		if c := f.Condition; c != nil && c.FieldID != "" {
			refs[f.ID] = append(refs[f.ID], c.FieldID)
		}
		if d := f.Dependency; d != nil && d.ParentFieldID != "" {
			refs[f.ID] = append(refs[f.ID], d.ParentFieldID)
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[types.FieldID]int, len(refs))

	var stack []types.FieldID
	var visit func(id types.FieldID) []types.FieldID
	visit = func(id types.FieldID) []types.FieldID {
		switch state[id] {
		case done:
			return nil
		case visiting:
			// Slice the stack from the first occurrence of id to close the loop
			for i, s := range stack {
				if s == id {
					cycle := make([]types.FieldID, len(stack)-i)
					copy(cycle, stack[i:])
					return cycle
				}
			}
			return []types.FieldID{id}
		}

		state[id] = visiting
		stack = append(stack, id)
		for _, next := range refs[id] {
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for i := range fields {
		if cycle := visit(fields[i].ID); cycle != nil {
			return cycle
		}
	}
	return nil
}
