package llm

import (
	"encoding/json"
	"slices"
	"unicode/utf8"

	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// Model names a model known to the host.
type Model string

// Models supported by the bless runtime.
const (
	Llama321BInstruct    Model = "Llama-3.2-1B-Instruct"
	Llama323BInstruct    Model = "Llama-3.2-3B-Instruct"
	Mistral7BInstructV03 Model = "Mistral-7B-Instruct-v0.3"
	Mixtral8x7BInstruct  Model = "Mixtral-8x7B-Instruct-v0.1"
	Gemma22BInstruct     Model = "gemma-2-2b-it"
	Gemma227BInstruct    Model = "gemma-2-27b-it"
	Gemma29BInstruct     Model = "gemma-2-9b-it"
)

// Custom names a model not listed above, such as a local GGUF file.
func Custom(name string) Model { return Model(name) }

// Quantized returns the name of the q quantization of m.
func (m Model) Quantized(q string) Model {
	if q == "" {
		return m
	}
	return m + "-" + Model(q)
}

func (m Model) String() string { return string(m) }

// Options configures a session. SystemMessage is always sent; the other
// members are omitted when unset.
type Options struct {
	Temperature   *float32 `validate:"omitempty,gte=0,lte=2"`
	TopP          *float32 `validate:"omitempty,gte=0,lte=1"`
	SystemMessage string
	ToolsSSEURLs  []string `validate:"omitempty,dive,url"`
}

// WithSystemMessage returns a copy of o with the system message set.
func (o Options) WithSystemMessage(msg string) Options {
	o.SystemMessage = msg
	return o
}

// WithTemperature returns a copy of o with the sampling temperature set.
func (o Options) WithTemperature(t float32) Options {
	o.Temperature = &t
	return o
}

// WithTopP returns a copy of o with nucleus sampling set.
func (o Options) WithTopP(p float32) Options {
	o.TopP = &p
	return o
}

// WithToolsSSEURLs returns a copy of o using the MCP tool servers at urls.
func (o Options) WithToolsSSEURLs(urls ...string) Options {
	o.ToolsSSEURLs = slices.Clone(urls)
	return o
}

// Equal reports whether o and other configure the same session.
func (o Options) Equal(other Options) bool {
	return o.SystemMessage == other.SystemMessage &&
		eqPtr(o.Temperature, other.Temperature) &&
		eqPtr(o.TopP, other.TopP) &&
		slices.Equal(o.ToolsSSEURLs, other.ToolsSSEURLs)
}

func eqPtr(a, b *float32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MarshalJSON encodes the document exchanged with the host.
func (o Options) MarshalJSON() ([]byte, error) {
	msg := o.SystemMessage
	return json.Marshal(wireformat.LLMOptionsWire{
		SystemMessage: &msg,
		Temperature:   o.Temperature,
		TopP:          o.TopP,
		ToolsSSEURLs:  o.ToolsSSEURLs,
	})
}

func (o Options) String() string {
	b, err := json.Marshal(o)
	if err != nil {
		return "<invalid options>"
	}
	return string(b)
}

// DecodeOptions decodes a host options document. The system_message
// member is required.
func DecodeOptions(data []byte) (Options, error) {
	if !utf8.Valid(data) {
		return Options{}, &Error{Op: "decode options", Kind: Utf8}
	}
	var w wireformat.LLMOptionsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Options{}, &Error{Op: "decode options", Kind: OptionsNotSet, Err: err}
	}
	if w.SystemMessage == nil {
		return Options{}, &Error{Op: "decode options", Kind: OptionsNotSet}
	}
	return Options{
		SystemMessage: *w.SystemMessage,
		Temperature:   w.Temperature,
		TopP:          w.TopP,
		ToolsSSEURLs:  w.ToolsSSEURLs,
	}, nil
}
