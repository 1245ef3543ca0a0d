package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator reports fields by their json names and validates decimal.Decimal
// values as float64 so numeric tags like gt and lte apply to prices.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

func FormatValidationError(err error) map[string]string {
	result := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return result
	}

	for _, err := range validationErrors {
		field := err.Field()
		if ns := err.Namespace(); strings.Count(ns, ".") > 1 {
			field = ns[strings.Index(ns, ".")+1:]
		}

		switch err.Tag() {
		case "required":
			result[field] = fmt.Sprintf("%s is required", field)
		case "min":
			result[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			result[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			result[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			result[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			result[field] = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "oneof":
			result[field] = fmt.Sprintf("%s must be one of [%s]", field, err.Param())
		case "email":
			result[field] = fmt.Sprintf("%s must be a valid email", field)
		case "url":
			result[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			result[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return result
}
