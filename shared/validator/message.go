package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	templates = map[string]string{
		"required": "{field} is required",
		"notblank": "{field} must not be blank",
		"gte":      "{field} must be greater than or equal to {param}",
		"gt":       "{field} must be greater than {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"uuid":     "{field} must be a valid UUID",
	}
)

func format(valErr val.FieldError) string {
	tmpl := templates[valErr.Tag()]
	if tmpl == "" {
		return valErr.Error()
	}

	msg := strings.ReplaceAll(tmpl, "{field}", valErr.Field())

	return strings.ReplaceAll(msg, "{param}", valErr.Param())
}

// messages collects every field error so callers get full feedback in one round trip.
// Only the first failing rule of a field is kept.
func messages(err error) map[string]string {
	result := map[string]string{}

	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		result["error"] = err.Error()

		return result
	}

	for _, valErr := range valErrors {
		if _, ok := result[valErr.Field()]; ok {
			continue
		}

		result[valErr.Field()] = format(valErr)
	}

	return result
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) && len(valErrors) > 0 {
		return format(valErrors[0])
	}

	return err.Error()
}
