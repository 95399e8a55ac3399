/*
validate.go - Request body validation

PURPOSE:
  Struct-tag validation of request bodies at the HTTP boundary. Shape
  problems (missing fields, bad enum values) are rejected here with a
  400; domain rules live in the engine and surface through the error
  taxonomy instead.
*/
package api

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags and folds the failures into one
// human-readable message suitable for the error response body.
func validateStruct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", ve.Field(), ve.Tag()))
	}
	return fmt.Errorf("validation: %s", strings.Join(parts, ", "))
}
