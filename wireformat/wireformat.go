// Package wireformat defines the JSON documents exchanged with the bls host
// runtime. Their field names and shapes are owned by the host and must not
// change.
package wireformat

import (
	"fmt"
	"time"
)

// HTTPOptionsWire is the options document passed to http_req.
// Headers is itself a JSON object serialized into a string.
type HTTPOptionsWire struct {
	Body           *string `json:"body" jsonschema:"type=string"`
	Method         string  `json:"method" jsonschema:"enum=GET,enum=POST,enum=PUT,enum=PATCH,enum=DELETE,enum=HEAD,enum=OPTIONS"`
	Headers        string  `json:"headers" jsonschema:"description=JSON object of header names to values encoded as a string"`
	ConnectTimeout uint32  `json:"connectTimeout"`
	ReadTimeout    uint32  `json:"readTimeout"`
}

// HTTPRequestWire is the params document of the "http.request" RPC method.
type HTTPRequestWire struct {
	Headers   map[string]string `json:"headers,omitempty"`
	URL       string            `json:"url" jsonschema:"required"`
	Method    string            `json:"method" jsonschema:"required"`
	Body      []byte            `json:"body,omitempty" jsonschema:"description=base64 encoded request body"`
	TimeoutMs uint32            `json:"timeout_ms,omitempty"`
}

// HTTPResponseWire is the result document of the "http.request" RPC method.
type HTTPResponseWire struct {
	Headers map[string]string `json:"headers,omitempty"`
	URL     string            `json:"url,omitempty"`
	Body    []byte            `json:"body,omitempty" jsonschema:"description=base64 encoded response body"`
	Status  int               `json:"status"`
}

// CGIEnvWire is one environment variable of a CGI command.
type CGIEnvWire struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CGICommandWire is the document passed to cgi_open. Args and Envs are
// always encoded as arrays.
type CGICommandWire struct {
	Command string       `json:"command"`
	Args    []string     `json:"args"`
	Envs    []CGIEnvWire `json:"envs"`
}

// CGIExtensionWire is one entry of the list streamed by cgi_list_read.
type CGIExtensionWire struct {
	FileName    string `json:"fileName"`
	Alias       string `json:"alias"`
	MD5         string `json:"md5"`
	Description string `json:"description"`
}

// LLMOptionsWire is the document exchanged by llm_set_model_options_request
// and llm_get_model_options. SystemMessage is a pointer so a missing member
// can be told apart from an empty one when decoding host documents.
type LLMOptionsWire struct {
	SystemMessage *string  `json:"system_message" jsonschema:"required,type=string"`
	Temperature   *float32 `json:"temperature,omitempty"`
	TopP          *float32 `json:"top_p,omitempty"`
	ToolsSSEURLs  []string `json:"tools_sse_urls,omitempty"`
}

// LogMessageWire is one structured log line written by the guest to stderr.
type LogMessageWire struct {
	Timestamp time.Time     `json:"timestamp"`
	Attrs     []LogAttrWire `json:"attrs,omitempty"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	Source    string        `json:"source,omitempty"`
}

// LogAttrWire represents a single slog attribute for wire transfer.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`  // "string", "int64", "bool", "float64", "time", "error", "json", "any"
	Value string `json:"value"` // String representation of the value
}

// ErrorDetail describes an SDK error in a form that can be reported as JSON.
// Type is the capability family ("http", "memory", "cgi", "socket", "llm",
// "rpc", "crawl") or "internal"; Code is the raw host status when there is
// one.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Code    uint32 `json:"code,omitempty"`
}

// Error implements the error interface for ErrorDetail.
func (e *ErrorDetail) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}
