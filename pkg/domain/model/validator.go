package model

import (
	"net/mail"
	"strings"

	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FieldValidator validates submitted values against a form definition.
// Validation is visibility-aware: hidden fields are neither required nor
// checked, and their values are dropped from the sanitized result.
type FieldValidator struct {
	form *Form
}

// NewFieldValidator creates a validator for one form definition
func NewFieldValidator(form *Form) *FieldValidator {
	return &FieldValidator{form: form}
}

// ValidateSubmission checks the submitted values and returns a sanitized
// copy containing only values for currently visible input fields.
func (v *FieldValidator) ValidateSubmission(values FormValues) (FormValues, error) {
	sanitized := make(FormValues, len(values))

	for i := range v.form.Fields {
		field := &v.form.Fields[i]
		if !field.Type.IsInput() {
			continue
		}
		if !EvaluateFieldVisibility(field, values) {
			// Hidden fields carry no value into the stored response
			continue
		}

		if values.IsAbsent(field.ID) {
			if field.Required {
				return nil, goerr.Wrap(ErrMissingRequired, "required field not provided",
					goerr.V(FieldIDKey, field.ID))
			}
			continue
		}

		val := values.Get(field.ID)
		if err := v.validateFieldValue(field, val); err != nil {
			return nil, err
		}
		sanitized[field.ID] = val
	}

	return sanitized, nil
}

func (v *FieldValidator) validateFieldValue(field *FormField, val any) error {
	switch field.Type {
	case types.FieldTypeText, types.FieldTypeTextarea, types.FieldTypePhone:
		return v.validateLength(field, val)
	case types.FieldTypeEmail:
		return v.validateEmail(field, val)
	case types.FieldTypeNumber:
		return v.validateNumber(field, val)
	case types.FieldTypeRating:
		return v.validateRating(field, val)
	case types.FieldTypeSelect, types.FieldTypeRadio:
		return v.validateChoice(field, val)
	case types.FieldTypeCheckbox:
		return v.validateCheckbox(field, val)
	case types.FieldTypeSignature:
		return v.validateSignature(field, val)
	case types.FieldTypeDate:
		return nil
	default:
		return nil
	}
}

func (v *FieldValidator) validateLength(field *FormField, val any) error {
	s, ok := val.(string)
	if !ok {
		return goerr.Wrap(ErrInvalidValue, "expected a string value", goerr.V(FieldIDKey, field.ID))
	}
	n := len([]rune(s))
	if field.MinLength != nil && n < *field.MinLength {
		return goerr.Wrap(ErrInvalidValue, "value is shorter than the minimum length",
			goerr.V(FieldIDKey, field.ID), goerr.V("min_length", *field.MinLength), goerr.V("length", n))
	}
	if field.MaxLength != nil && n > *field.MaxLength {
		return goerr.Wrap(ErrInvalidValue, "value exceeds the maximum length",
			goerr.V(FieldIDKey, field.ID), goerr.V("max_length", *field.MaxLength), goerr.V("length", n))
	}
	return nil
}

func (v *FieldValidator) validateEmail(field *FormField, val any) error {
	s, ok := val.(string)
	if !ok {
		return goerr.Wrap(ErrInvalidValue, "expected a string value", goerr.V(FieldIDKey, field.ID))
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return goerr.Wrap(ErrInvalidValue, "invalid email address", goerr.V(FieldIDKey, field.ID))
	}
	return nil
}

func (v *FieldValidator) validateNumber(field *FormField, val any) error {
	var n float64
	switch t := val.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		n = toNumber(t)
		if n != n { // NaN
			return goerr.Wrap(ErrInvalidValue, "expected a numeric value", goerr.V(FieldIDKey, field.ID))
		}
	default:
		return goerr.Wrap(ErrInvalidValue, "expected a numeric value", goerr.V(FieldIDKey, field.ID))
	}

	if field.Min != nil && n < *field.Min {
		return goerr.Wrap(ErrInvalidValue, "value is below the minimum",
			goerr.V(FieldIDKey, field.ID), goerr.V("min", *field.Min), goerr.V("value", n))
	}
	if field.Max != nil && n > *field.Max {
		return goerr.Wrap(ErrInvalidValue, "value is above the maximum",
			goerr.V(FieldIDKey, field.ID), goerr.V("max", *field.Max), goerr.V("value", n))
	}
	return nil
}

func (v *FieldValidator) validateRating(field *FormField, val any) error {
	n := toNumber(val)
	if n != n || n != float64(int(n)) {
		return goerr.Wrap(ErrInvalidValue, "rating must be a whole number", goerr.V(FieldIDKey, field.ID))
	}
	maxStars := 5
	if field.MaxStars != nil {
		maxStars = *field.MaxStars
	}
	if n < 1 || n > float64(maxStars) {
		return goerr.Wrap(ErrInvalidValue, "rating is out of range",
			goerr.V(FieldIDKey, field.ID), goerr.V("max_stars", maxStars), goerr.V("value", n))
	}
	return nil
}

// validateChoice checks single-choice values against static options only.
// Dynamic fields accept any value since their option set is resolved at
// render time from live data and may have changed by submission.
func (v *FieldValidator) validateChoice(field *FormField, val any) error {
	s, ok := val.(string)
	if !ok {
		return goerr.Wrap(ErrInvalidValue, "expected a string value", goerr.V(FieldIDKey, field.ID))
	}
	if field.UseDynamicData || len(field.Options) == 0 {
		return nil
	}
	for _, opt := range field.Options {
		if opt.Value == s {
			return nil
		}
	}
	return goerr.Wrap(ErrUnknownOption, "value is not a configured option",
		goerr.V(FieldIDKey, field.ID), goerr.V("value", s))
}

func (v *FieldValidator) validateCheckbox(field *FormField, val any) error {
	// A single checkbox submits a bool; a checkbox group submits a slice
	if _, ok := val.(bool); ok {
		return nil
	}
	arr, ok := asStringSlice(val)
	if !ok {
		return goerr.Wrap(ErrInvalidValue, "expected a boolean or list value", goerr.V(FieldIDKey, field.ID))
	}
	if field.UseDynamicData || len(field.Options) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(field.Options))
	for _, opt := range field.Options {
		allowed[opt.Value] = true
	}
	for _, s := range arr {
		if !allowed[s] {
			return goerr.Wrap(ErrUnknownOption, "value is not a configured option",
				goerr.V(FieldIDKey, field.ID), goerr.V("value", s))
		}
	}
	return nil
}

func (v *FieldValidator) validateSignature(field *FormField, val any) error {
	s, ok := val.(string)
	if !ok || !strings.HasPrefix(s, "data:image/") {
		return goerr.Wrap(ErrInvalidValue, "signature must be an image data URL", goerr.V(FieldIDKey, field.ID))
	}
	return nil
}
