package types

// FieldID represents the unique identifier for a form field
type FieldID string

// String returns the string representation of the field ID
func (f FieldID) String() string {
	return string(f)
}

// FieldType represents the type of a form field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeNumber    FieldType = "number"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSelect    FieldType = "select"
	FieldTypeDate      FieldType = "date"
	FieldTypeSection   FieldType = "section"
	FieldTypeEmail     FieldType = "email"
	FieldTypePhone     FieldType = "phone"
	FieldTypeSignature FieldType = "signature"
	FieldTypeRating    FieldType = "rating"
	FieldTypePageBreak FieldType = "page_break"
	FieldTypeContent   FieldType = "content"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeDate,
		FieldTypeSection,
		FieldTypeEmail,
		FieldTypePhone,
		FieldTypeSignature,
		FieldTypeRating,
		FieldTypePageBreak,
		FieldTypeContent,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeDate,
		FieldTypeSection,
		FieldTypeEmail,
		FieldTypePhone,
		FieldTypeSignature,
		FieldTypeRating,
		FieldTypePageBreak,
		FieldTypeContent:
		return true
	default:
		return false
	}
}

// IsInput reports whether fields of this type collect a value from the
// end user. Section, page break and content fields are display-only and
// never participate as condition sources or validation targets.
func (t FieldType) IsInput() bool {
	switch t {
	case FieldTypeSection, FieldTypePageBreak, FieldTypeContent:
		return false
	default:
		return true
	}
}

// HasOptions reports whether fields of this type present a choice list,
// either static or resolved from a dynamic data source.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}
