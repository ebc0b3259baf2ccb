package outline

import "fmt"

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type LockedNodeError struct {
	ID    string
	Title string
}

func (e LockedNodeError) Error() string {
	// Keep this generic; CLI/TUI can wrap with more specific phrasing.
	return fmt.Sprintf("node is locked: %s (%q)", e.ID, e.Title)
}

func errEmptyTitle() error {
	return ValidationError{Field: "title", Reason: "must not be empty"}
}

func errNodeNotFound(id string) error {
	return NotFoundError{Kind: "node", ID: id}
}
