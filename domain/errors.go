package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both "object absent" and "object not owned by the
	// caller"; the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when registering a username that
	// already exists.
	ErrDuplicateUsername = errors.New("username already exists")
)

// FieldErrors maps a field name to the list of validation failures for it.
// It is returned as structured data, never raised across the API boundary.
type FieldErrors map[string][]string

// Add appends a message to the named field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}
