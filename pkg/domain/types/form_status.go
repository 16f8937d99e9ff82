package types

// FormStatus represents the publication state of a form
type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"
	FormStatusPublished FormStatus = "published"
	FormStatusArchived  FormStatus = "archived"
)

// IsValid checks if the form status is valid
func (s FormStatus) IsValid() bool {
	switch s {
	case FormStatusDraft, FormStatusPublished, FormStatusArchived:
		return true
	default:
		return false
	}
}

// AcceptsResponses reports whether forms in this status accept new submissions
func (s FormStatus) AcceptsResponses() bool {
	return s == FormStatusPublished
}

// String returns the string representation of the form status
func (s FormStatus) String() string {
	return string(s)
}
