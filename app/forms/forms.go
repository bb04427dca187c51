// Package forms binds and validates user-submitted input before it reaches
// the services. Each form exposes an explicit Validate method; field-level
// messages come back in a *ValidationError.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the Errors key for problems not tied to one field.
const NonFieldErrors = "__all__"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Errors maps a form field name to its message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has reports whether field has a message
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// ValidationError is returned when submitted input is missing or malformed.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// NewFieldError builds a ValidationError carrying a single message.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: Errors{field: msg}}
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// check runs the struct tags of form and folds the result, together with
// any extra messages, into a *ValidationError. It returns nil when the
// form is clean.
func check(form interface{}, extra Errors) error {
	errs := Errors{}
	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs.Add(fe.Field(), message(fe))
		}
	}
	for field, msg := range extra {
		errs.Add(field, msg)
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), length(fe.Value()))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", fe.Param(), length(fe.Value()))
	case "email":
		return "Enter a valid email address."
	default:
		return "Enter a valid value."
	}
}

func length(v interface{}) int {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s)
	}
	return 0
}
