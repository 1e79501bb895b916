// Package validate runs struct-tag validation on request payloads through
// go-playground/validator, reporting failures keyed by JSON field path.
//
// Tags follow validator syntax (`validate:"required,max=100"`). On top of
// the built-in rules the store registers:
//
//	objectid     24 hex characters (a Mongo ObjectID)
//	phone        digits with optional +, spaces or dashes; 7 to 15 digits
//	alpha_dash   letters, digits, hyphens, underscores
//	notblank     not empty after trimming whitespace
//
// Nested structs are always validated; their errors are keyed
// "parent.child". Slice elements under dive are keyed "parent[i].child".
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors maps a JSON field path to the first failing rule's message.
type Errors map[string]string

var engine = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(f.Name[:1]) + f.Name[1:]
		}
		return name
	})
	must(val.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	}))
	must(val.RegisterValidation("phone", isPhone))
	must(val.RegisterValidation("alpha_dash", isAlphaDash))
	must(val.RegisterValidation("notblank", validators.NotBlank))
	return val
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("validate: register rule: %v", err))
	}
}

// Struct validates s and returns every field error. An empty map means s is valid.
func Struct(s any) Errors {
	errs := Errors{}
	err := engine.Struct(s)
	if err == nil {
		return errs
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		// nil pointers and non-struct values carry nothing to check
		return errs
	}
	for _, fe := range fields {
		name := path(fe.Namespace())
		if _, seen := errs[name]; !seen {
			errs[name] = message(name, fe)
		}
	}
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs Errors) bool { return len(errs) > 0 }

// path drops the root type name from a validator namespace:
// "PlaceOrderInput.shippingAddress.phone" becomes "shippingAddress.phone".
func path(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	param := fe.Param()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "objectid":
		return fmt.Sprintf("The %s must be a valid id.", field)
	case "phone":
		return fmt.Sprintf("The %s must be a valid phone number.", field)
	case "alphanum":
		return fmt.Sprintf("The %s field must contain only letters and numbers.", field)
	case "alpha_dash":
		return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "min":
		if numeric {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s %s.", field, param, unit(fe.Kind()))
	case "max":
		if numeric {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		return fmt.Sprintf("The %s must not exceed %s %s.", field, param, unit(fe.Kind()))
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	}
	return "characters"
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isPhone(fl validator.FieldLevel) bool {
	digits := 0
	for _, c := range fl.Field().String() {
		switch {
		case unicode.IsDigit(c):
			digits++
		case c == '+' || c == ' ' || c == '-':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

func isAlphaDash(fl validator.FieldLevel) bool {
	for _, c := range fl.Field().String() {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}
