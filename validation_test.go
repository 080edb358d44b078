//go:build !wasip1

package bls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bls "github.com/blessnetwork/bls-sdk-go"
)

type serverConfig struct {
	Host string `json:"host" validate:"required,hostname"`
	Port int    `json:"port" validate:"required,min=1,max=65535"`
}

type appConfig struct {
	Optional *string      `json:"optional,omitempty"`
	Email    string       `json:"email" validate:"omitempty,email"`
	Hosts    []string     `json:"hosts" validate:"omitempty,dive,url"`
	Server   serverConfig `json:"server"`
	Timeout  int          `json:"timeout" validate:"min=1"`
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	valid := func() bls.Config {
		return bls.Config{
			"server":  map[string]any{"host": "api.example.com", "port": 443},
			"timeout": 30,
			"hosts":   []string{"https://a.example", "https://b.example"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(bls.Config)
		wantField string
		wantErr   bool
	}{
		{name: "valid", mutate: func(bls.Config) {}},
		{name: "optional set", mutate: func(c bls.Config) { c["optional"] = "x"; c["email"] = "a@example.com" }},
		{name: "port too high", mutate: func(c bls.Config) { c["server"] = map[string]any{"host": "a", "port": 70000} }, wantErr: true, wantField: "port"},
		{name: "missing host", mutate: func(c bls.Config) { c["server"] = map[string]any{"port": 80} }, wantErr: true, wantField: "host"},
		{name: "bad email", mutate: func(c bls.Config) { c["email"] = "nope" }, wantErr: true, wantField: "email"},
		{name: "bad url in list", mutate: func(c bls.Config) { c["hosts"] = []string{"not a url"} }, wantErr: true, wantField: "hosts[0]"},
		{name: "wrong type", mutate: func(c bls.Config) { c["timeout"] = "soon" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)

			var target appConfig
			err := bls.ValidateConfig(cfg, &target)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "api.example.com", target.Server.Host)
				return
			}
			var cerr *bls.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, err.Error(), "config validation failed")
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, cerr.Field)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, bls.Validate(serverConfig{Host: "example.com", Port: 80}))
	assert.Error(t, bls.Validate(serverConfig{Host: "example.com"}))
}
