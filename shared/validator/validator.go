package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func registerNotBlankValidation(field val.FieldLevel) bool {
	value := field.Field()

	switch value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) != ""
	case reflect.Pointer:
		if value.IsNil() {
			return false
		}

		str, ok := value.Elem().Interface().(string)

		return !ok || strings.TrimSpace(str) != ""
	default:
		return !value.IsZero()
	}
}

// jsonFieldName reports fields by their wire name so error messages match the request body.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	err := validate.RegisterValidation("notblank", registerNotBlankValidation)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error carrying one message per invalid field is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		return failure.Validation(constant.ResponseErrorValidation, messages(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
