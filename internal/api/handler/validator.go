package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// payloadValidator adapts go-playground/validator to echo.Validator and
// reports failures by JSON field name.
type payloadValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator ready to be assigned to echo.Echo.Validator.
func NewValidator() *payloadValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &payloadValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (pv *payloadValidator) Validate(i any) error {
	err := pv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = describe(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

var tagMessages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"oneof":    "%s must be one of: %s",
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	if fe.Tag() == "required_if" {
		// param is "<Field> <value>"
		other, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(other), value)
	}
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	if strings.Count(format, "%s") == 1 {
		return fmt.Sprintf(format, field)
	}
	return fmt.Sprintf(format, field, fe.Param())
}
