// Package validation turns parameter rejections into client-facing errors.
//
// The params package only reports which declared parameters could not be
// read. Whether that is a problem is up to the endpoint: lenient endpoints
// ignore rejections, strict ones answer 400 with one FieldError per
// parameter using the messages built here.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/go-parameters/internal/errs"
	"github.com/deppfellow/go-parameters/internal/params"
	"github.com/go-playground/validator/v10"
)

// FieldErrors converts the rejections in values into field errors.
func FieldErrors(schema *params.Schema, values *params.Values) []errs.FieldError {
	var fieldErrors []errs.FieldError

	for _, r := range values.Rejections() {
		field, _ := schema.Lookup(r.Name)
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: r.Name,
			Error: rejectionMessage(field.Kind, r.Err),
		})
	}

	return fieldErrors
}

// Strict fails with a 400 when any declared parameter was present but
// unreadable, or when a parameter the schema marks as required is missing.
func Strict(schema *params.Schema, values *params.Values) error {
	return Require(schema, values, schema.Required()...)
}

// Require fails with a 400 when any of names is missing or unreadable.
// Rejections of other parameters are reported alongside.
func Require(schema *params.Schema, values *params.Values, names ...string) error {
	fieldErrors := FieldErrors(schema, values)

	for _, name := range names {
		if values.Has(name) || rejected(values, name) {
			continue
		}
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: name,
			Error: "is required",
		})
	}

	if fieldErrors != nil {
		return errs.NewBadRequestError("Invalid query parameters", true, nil, fieldErrors)
	}
	return nil
}

func rejected(values *params.Values, name string) bool {
	for _, r := range values.Rejections() {
		if r.Name == name {
			return true
		}
	}
	return false
}

func rejectionMessage(kind params.Kind, err error) string {
	switch {
	case errors.Is(err, params.ErrEmptyValue):
		return "must not be empty"

	case errors.Is(err, params.ErrNotNumeric):
		if kind.Type == params.TypeSigned {
			return "must be a base-10 integer"
		}
		return "must be a non-negative base-10 integer"

	case errors.Is(err, params.ErrOutOfRange):
		return fmt.Sprintf("must fit in %s", kind)

	case errors.Is(err, params.ErrRuleViolation):
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return ruleMessage(validationErrors[0])
		}
		return "is invalid"

	default:
		return "is invalid"
	}
}

// ruleMessage maps a validator tag failure to a readable message.
func ruleMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// min/max mean length for strings and value for numbers
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))

	case "alphanum":
		return "must contain only letters and digits"

	case "email":
		return "must be a valid email address"

	case "uuid":
		return "must be a valid UUID"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
		}
		return fmt.Sprintf("failed %s", err.Tag())
	}
}
