package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for form definition and value validation
var (
	ErrMissingRequired = goerr.New("required field has no value")
	ErrInvalidValue    = goerr.New("invalid field value")
	ErrUnknownOption   = goerr.New("value is not one of the field's options")
)

// Context keys for error values
const (
	FieldIDKey    = "field_id"
	FieldIndexKey = "field_index"
	FormIDKey     = "form_id"
)
