// Package validate holds the shared validator used for option structs.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is a package-level singleton; validator caches struct metadata.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// Report fields by their JSON names so errors match the wire documents.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return v.Struct(s)
}

// Var validates a single value against tag.
func Var(field any, tag string) error {
	return v.Var(field, tag)
}

// Fields returns the JSON names of the fields that failed validation, in
// order. It returns nil when err is not a validation error.
func Fields(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
