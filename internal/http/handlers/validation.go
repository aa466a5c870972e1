package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	models "github.com/rogerio-castellano/inventory-flow/internal/models"
)

type ProductValidationError = models.FieldError

const msgFillAllFields = "Please fill in all fields"

// validateCreateRequest reports every required attribute missing from the body.
// Presence is what matters here; a zero quantity or price is a valid value.
func validateCreateRequest(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, models.RequiredFieldError("name"))
	}
	if p.Category == nil || strings.TrimSpace(*p.Category) == "" {
		errs = append(errs, models.RequiredFieldError("category"))
	}
	if p.Quantity == nil {
		errs = append(errs, models.RequiredFieldError("quantity"))
	}
	if p.Price == nil {
		errs = append(errs, models.RequiredFieldError("price"))
	}
	if p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		errs = append(errs, models.RequiredFieldError("description"))
	}
	return errs
}

// decodeError turns a JSON type mismatch into a field error naming the offending attribute.
func decodeError(err error) (ProductValidationError, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return ProductValidationError{}, false
	}
	kind := "string"
	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int64:
		kind = "whole number"
	case reflect.Float64:
		kind = "number"
	}
	return ProductValidationError{
		Field:       typeErr.Field,
		Description: typeErr.Field + " must be a " + kind,
	}, true
}
