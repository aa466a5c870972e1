package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var requiredMessages = map[string]string{
	"name":        "Please add a name",
	"sku":         "Please add a SKU",
	"category":    "Please add a category",
	"quantity":    "Please add a quantity",
	"price":       "Please add a price",
	"description": "Please add a description",
}

// FieldError describes a single invalid product attribute.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError is returned when a product violates its field constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Description
	}
	return "Product validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError builds a ValidationError from field/description pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RequiredFieldError reports a missing attribute with its standard message.
func RequiredFieldError(field string) FieldError {
	msg, ok := requiredMessages[field]
	if !ok {
		msg = field + " is required"
	}
	return FieldError{Field: field, Description: msg}
}

// ValidateProduct checks p against the product schema. It does not touch any store.
func ValidateProduct(p Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate product: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, RequiredFieldError(fe.Field()))
		case "gte":
			fields = append(fields, FieldError{
				Field:       fe.Field(),
				Description: fmt.Sprintf("%s cannot be negative", fe.Field()),
			})
		default:
			fields = append(fields, FieldError{Field: fe.Field(), Description: fe.Error()})
		}
	}
	return &ValidationError{Fields: fields}
}
