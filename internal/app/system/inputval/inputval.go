// Package inputval validates form and request payloads declared with
// struct tags and turns failures into per-field, human-readable messages.
//
// Structs declare rules with `validate` tags and a display name with a
// `label` tag. The field key reported in FieldError is the `json` tag name
// when present, so it lines up with the names used on the wire:
//
//	type userInput struct {
//		Username string `json:"username" validate:"required,max=64" label:"Username"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//		msg := res.First()
//	}
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single validation failure attached to one field.
type FieldError struct {
	Field   string // json name of the field
	Message string
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether validation failed.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// First returns the first error message, or "" when there are none.
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// ByField maps each failing field to its first message.
func (r *Result) ByField() map[string]string {
	out := map[string]string{}
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		// maxbytes bounds the encoded length, not the rune count.
		if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
			panic(err)
		}
	})
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Validate checks s (a struct or pointer to struct) against its tags.
// The returned Result is never nil.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(t, fe),
		})
	}
	return res
}

// label returns the `label` tag for the named Go field, falling back to the name.
func label(t reflect.Type, goName string) string {
	if f, ok := t.FieldByName(goName); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return goName
}

func message(t reflect.Type, fe validator.FieldError) string {
	name := label(t, fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes.", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s.", name, label(t, fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}
