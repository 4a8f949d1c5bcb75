package validation

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Use errors.Is against these to classify a failed write.
var (
	ErrStructural    = errors.New("structural validation failed")
	ErrRange         = errors.New("invalid date range")
	ErrOverlap       = errors.New("membership overlaps an existing membership")
	ErrNotRegistered = errors.New("not registered")
	ErrConsistency   = errors.New("derived state is inconsistent")
)

// Error is a field-tagged validation failure. Fields maps a field name to a
// human readable message.
type Error struct {
	Kind   error
	Fields map[string]string
}

func New(kind error, field, message string) *Error {
	return &Error{Kind: kind, Fields: map[string]string{field: message}}
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Kind.Error())
	for i, k := range keys {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Fields[k])
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Fields extracts the field messages from err, or nil if err is not a
// validation error.
func Fields(err error) map[string]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// Errors collects field failures for one entity. The kind of the resulting
// error is the kind of the first failure added; the first message per field wins.
type Errors struct {
	kind   error
	fields map[string]string
}

func (e *Errors) Add(kind error, field, message string) {
	if e.fields == nil {
		e.fields = make(map[string]string)
		e.kind = kind
	}
	if _, exists := e.fields[field]; !exists {
		e.fields[field] = message
	}
}

// Merge copies the fields of err into the collector if it is a validation error.
// Any other non-nil error is returned unchanged.
func (e *Errors) Merge(err error) error {
	if err == nil {
		return nil
	}
	var verr *Error
	if !errors.As(err, &verr) {
		return err
	}
	for field, msg := range verr.Fields {
		e.Add(verr.Kind, field, msg)
	}
	return nil
}

func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &Error{Kind: e.kind, Fields: e.fields}
}
