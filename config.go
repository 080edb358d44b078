package bls

import (
	"encoding/json"
	"fmt"

	"github.com/blessnetwork/bls-sdk-go/memory"
)

// Config is a JSON configuration document passed to the program on stdin.
type Config map[string]any

// ReadConfig reads the program's stdin as a JSON object. Empty stdin
// yields an empty Config.
func ReadConfig() (Config, error) {
	data, err := memory.Stdin()
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a JSON object.
func ParseConfig(data []byte) (Config, error) {
	cfg := Config{}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// ReadConfigInto decodes stdin into target and validates it.
func ReadConfigInto(target any) error {
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}
	return ValidateConfig(cfg, target)
}

// GetString returns the string stored under key.
func GetString(config Config, key string) (string, bool) {
	s, ok := config[key].(string)
	return s, ok
}

// GetInt returns the number stored under key as an int. JSON numbers
// decode as float64; fractions are truncated.
func GetInt(config Config, key string) (int, bool) {
	switch n := config[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// GetFloat returns the number stored under key.
func GetFloat(config Config, key string) (float64, bool) {
	switch n := config[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// GetBool returns the bool stored under key.
func GetBool(config Config, key string) (bool, bool) {
	b, ok := config[key].(bool)
	return b, ok
}

// GetStringSlice returns the array of strings stored under key. It fails
// if any element is not a string.
func GetStringSlice(config Config, key string) ([]string, bool) {
	switch v := config[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// GetObject returns the nested object stored under key.
func GetObject(config Config, key string) (Config, bool) {
	switch v := config[key].(type) {
	case map[string]any:
		return Config(v), true
	case Config:
		return v, true
	}
	return nil, false
}

// MustGetString returns the string under key or a ConfigError.
func MustGetString(config Config, key string) (string, error) {
	s, ok := GetString(config, key)
	if !ok {
		return "", missing(key, "string")
	}
	return s, nil
}

// MustGetInt returns the number under key or a ConfigError.
func MustGetInt(config Config, key string) (int, error) {
	i, ok := GetInt(config, key)
	if !ok {
		return 0, missing(key, "number")
	}
	return i, nil
}

// MustGetBool returns the bool under key or a ConfigError.
func MustGetBool(config Config, key string) (bool, error) {
	b, ok := GetBool(config, key)
	if !ok {
		return false, missing(key, "boolean")
	}
	return b, nil
}

func missing(key, kind string) error {
	return &ConfigError{Field: key, Err: fmt.Errorf("required field '%s' is missing or not a %s", key, kind)}
}

// GetStringDefault returns the string under key, or def when it is absent.
func GetStringDefault(config Config, key, def string) string {
	if s, ok := GetString(config, key); ok {
		return s
	}
	return def
}

// GetIntDefault returns the number under key as an int, or def.
func GetIntDefault(config Config, key string, def int) int {
	if i, ok := GetInt(config, key); ok {
		return i
	}
	return def
}

// GetBoolDefault returns the bool under key, or def.
func GetBoolDefault(config Config, key string, def bool) bool {
	if b, ok := GetBool(config, key); ok {
		return b
	}
	return def
}
