package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports field names by their json tag so validation errors
// name the fields the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// decodeJSONBody decodes and validates a JSON request body into dest.
func decodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %s", err.Error())
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError flattens validator errors into one message naming
// every failing field, e.g. "missing or invalid fields: description, title".
func formatValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %s", err.Error())
	}

	fields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		fields = append(fields, fieldErr.Field())
	}
	sort.Strings(fields)
	return fmt.Errorf("missing or invalid fields: %s", strings.Join(fields, ", "))
}
