package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
)

// Condition gates a field's visibility (or selects a thank-you rule) based
// on another field's current value.
type Condition struct {
	FieldID  types.FieldID
	Operator types.ConditionOperator
	// Value is the configured operand; string, number or bool. Optional for
	// is_empty / is_not_empty.
	Value any
}

// EvaluateCondition evaluates a single comparison between a field's current
// value and a configured operator/operand. It is pure and total: every
// operator/value combination has a defined result and it never panics.
// Unrecognized operators evaluate to true.
//
// This is the single canonical truth table, shared by field visibility and
// thank-you rule matching so the two can never drift apart.
func EvaluateCondition(source any, op types.ConditionOperator, operand any) bool {
	if arr, ok := asStringSlice(source); ok {
		return evaluateAgainstSlice(arr, op, operand)
	}

	switch op {
	case types.OperatorEquals:
		if b, ok := source.(bool); ok {
			if want, ok := operandAsBool(operand); ok {
				return b == want
			}
		}
		return strings.EqualFold(stringify(source), stringify(operand))

	case types.OperatorNotEquals:
		if b, ok := source.(bool); ok {
			if want, ok := operandAsBool(operand); ok {
				return b != want
			}
		}
		return !strings.EqualFold(stringify(source), stringify(operand))

	case types.OperatorContains:
		return strings.Contains(strings.ToLower(stringify(source)), strings.ToLower(stringify(operand)))

	case types.OperatorNotContains:
		return !strings.Contains(strings.ToLower(stringify(source)), strings.ToLower(stringify(operand)))

	case types.OperatorGreaterThan:
		a, b := toNumber(source), toNumber(operand)
		// NaN on either side makes the comparison false in both directions
		return a > b

	case types.OperatorLessThan:
		a, b := toNumber(source), toNumber(operand)
		return a < b

	case types.OperatorIsEmpty:
		return isEmptyScalar(source)

	case types.OperatorIsNotEmpty:
		return !isEmptyScalar(source)

	default:
		return true
	}
}

// evaluateAgainstSlice applies the operator to a multi-value source
// (checkbox group / multi-select). Equality means membership, containment
// means any element matches, and ordering operators pass through as true
// since arrays have no numeric ordering.
func evaluateAgainstSlice(arr []string, op types.ConditionOperator, operand any) bool {
	switch op {
	case types.OperatorEquals:
		want := stringify(operand)
		for _, v := range arr {
			if v == want {
				return true
			}
		}
		return false

	case types.OperatorNotEquals:
		want := stringify(operand)
		for _, v := range arr {
			if v == want {
				return false
			}
		}
		return true

	case types.OperatorContains:
		want := strings.ToLower(stringify(operand))
		for _, v := range arr {
			if strings.Contains(strings.ToLower(v), want) {
				return true
			}
		}
		return false

	case types.OperatorNotContains:
		want := strings.ToLower(stringify(operand))
		for _, v := range arr {
			if strings.Contains(strings.ToLower(v), want) {
				return false
			}
		}
		return true

	case types.OperatorIsEmpty:
		return len(arr) == 0

	case types.OperatorIsNotEmpty:
		return len(arr) > 0

	default:
		return true
	}
}

// EvaluateFieldVisibility decides whether a field is visible given the
// current form values. Fields without a condition (or with an empty
// condition field ID) are always visible, regardless of the action.
func EvaluateFieldVisibility(field *FormField, values FormValues) bool {
	c := field.Condition
	if c == nil || c.FieldID == "" {
		return true
	}

	met := EvaluateCondition(values[c.FieldID], c.Operator, c.Value)

	if field.ConditionAction == types.ConditionActionHide {
		return !met
	}
	// Default action is show
	return met
}

// VisibleFields filters the given fields down to those currently visible
func VisibleFields(fields []FormField, values FormValues) []FormField {
	out := make([]FormField, 0, len(fields))
	for i := range fields {
		if EvaluateFieldVisibility(&fields[i], values) {
			out = append(out, fields[i])
		}
	}
	return out
}

// asStringSlice normalizes multi-value sources to a string slice
func asStringSlice(v any) ([]string, bool) {
	switch arr := v.(type) {
	case []string:
		return arr, true
	case []any:
		out := make([]string, len(arr))
		for i, e := range arr {
			out[i] = stringify(e)
		}
		return out, true
	default:
		return nil, false
	}
}

// operandAsBool interprets a condition operand as a boolean when the source
// is a single checkbox: literal booleans and the strings "true"/"false".
func operandAsBool(operand any) (bool, bool) {
	switch v := operand.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// stringify renders a value for string comparison. Nil normalizes to the
// empty string so absent values compare like empty inputs.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// toNumber coerces a value for ordering comparisons. Non-numeric strings
// coerce to NaN, which makes both orderings false; this is accepted
// behavior, not something callers should work around.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// isEmptyScalar reports whether a scalar value counts as "no value".
// Boolean false is empty: an unchecked checkbox carries no value.
func isEmptyScalar(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	default:
		return false
	}
}
