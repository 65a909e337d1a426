package errorz

import "fmt"

// Severity is the style of the alert built from a ReadableError.
type Severity int

const (
	SeverityInformational Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "informational"
	}
}

// ReadableError is an error that can be shown to the user as an alert.
type ReadableError struct {
	Severity    Severity
	Title       string
	Description string

	cause error
}

func (e *ReadableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Description)
}

func (e *ReadableError) Unwrap() error {
	return e.cause
}

const saveErrorTitle = "Failed to save file"

var (
	// SaveDirectoryUnavailable is raised when the home/documents directory cannot be resolved.
	SaveDirectoryUnavailable = &ReadableError{
		Severity:    SeverityCritical,
		Title:       saveErrorTitle,
		Description: "Could not access the documents directory.",
		cause:       ErrDirectoryUnavailable,
	}

	// SaveLocationNotFound is raised when the chooser confirms without a path.
	SaveLocationNotFound = &ReadableError{
		Severity:    SeverityCritical,
		Title:       saveErrorTitle,
		Description: "Could not resolve the path to the chosen location.",
		cause:       ErrLocationNotFound,
	}

	// SaveWriteFailed is raised when the image cannot be written to the chosen path.
	SaveWriteFailed = &ReadableError{
		Severity:    SeverityCritical,
		Title:       saveErrorTitle,
		Description: "Could not save the file at the chosen path, try another one.",
		cause:       ErrWriteFailed,
	}
)
