package bls

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blessnetwork/bls-sdk-go/internal/validate"
)

// Validate checks v against its `validate` struct tags. Failing fields
// are reported by their JSON names.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidateConfig decodes config into target, a pointer to a struct, and
// validates it. Failures are *ConfigError naming the offending fields.
func ValidateConfig(config Config, target any) error {
	data, err := json.Marshal(config)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("encode config: %w", err)}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &ConfigError{Err: fmt.Errorf("decode config: %w", err)}
	}
	if err := validate.Struct(target); err != nil {
		return &ConfigError{Field: strings.Join(validate.Fields(err), ","), Err: err}
	}
	return nil
}
