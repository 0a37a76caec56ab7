// Package validation collects request validation failures keyed by field so
// handlers can send them back alongside the submitted form.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ModelKey holds errors that belong to the whole form rather than one field.
const ModelKey = ""

type ModelState map[string][]string

func New() ModelState {
	return ModelState{}
}

func (m ModelState) AddError(field, msg string) {
	m[field] = append(m[field], msg)
}

func (m ModelState) IsValid() bool {
	return len(m) == 0
}

// Errors flattens the state into "field: message" strings, model-level first.
func (m ModelState) Errors() []string {
	out := append([]string(nil), m[ModelKey]...)

	fields := make([]string, 0, len(m))
	for field := range m {
		if field != ModelKey {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, msg := range m[field] {
			out = append(out, field+": "+msg)
		}
	}
	return out
}

// FromBinding turns the error returned by gin's ShouldBind into a ModelState.
// A nil error yields an empty, valid state.
func FromBinding(err error) ModelState {
	ms := New()
	if err == nil {
		return ms
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			ms.AddError(fieldName(fe), message(fe))
		}
		return ms
	}

	ms.AddError(ModelKey, "invalid request body")
	return ms
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}
