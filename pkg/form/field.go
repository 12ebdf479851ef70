package form

// Kind tags the host element a field wraps.
type Kind string

const (
	KindInput    Kind = "input"
	KindSelect   Kind = "select"
	KindTextArea Kind = "textarea"
)

// Field is the contract a host element fulfils to take part in validation.
// Implementations must be safe for concurrent use.
type Field interface {
	ID() string
	Name() string
	Kind() Kind
	Value() string

	// Validity returns the flags computed by the last CheckValidity call.
	Validity() Validity
	// ValidationMessage describes the first failing constraint, or "".
	ValidationMessage() string
	// SetCustomValidity sets or clears (with "") the custom error message.
	SetCustomValidity(message string)
	// CheckValidity re-runs the native constraint checks and reports
	// whether the field is valid.
	CheckValidity() bool
}

// Identity returns the registry key of a field: its id, falling back to its name.
func Identity(f Field) string {
	if f == nil {
		return ""
	}
	if id := f.ID(); id != "" {
		return id
	}
	return f.Name()
}
