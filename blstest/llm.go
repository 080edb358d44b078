//go:build !wasip1

package blstest

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

// blockless_llm status codes used by the fake.
const (
	llmModelNotSet   uint32 = 1
	llmOptionsNotSet uint32 = 2
)

// Replier produces the model's answer to a prompt.
type Replier func(model string, opts wireformat.LLMOptionsWire, prompt string) string

type llmSession struct {
	opts     wireformat.LLMOptionsWire
	model    string
	response []byte
	hasOpts  bool
}

// LLM fakes blockless_llm. By default every model is accepted and the
// reply echoes the prompt.
type LLM struct {
	// Models restricts the accepted model names when non-empty.
	Models []string
	// Reply answers prompts; nil echoes them.
	Reply Replier
	// Replies maps exact prompts to canned answers before Reply is used.
	Replies map[string]string
	// ReportModel, when set, is returned by llm_get_model_response in place
	// of the stored name.
	ReportModel string

	sessions Handles[*llmSession]
	prompts  []string
	rec      *recorder
	mu       sync.Mutex
}

// NewLLM returns an LLM fake accepting every model.
func NewLLM() *LLM {
	return &LLM{Replies: make(map[string]string)}
}

// Prompts returns the prompts received so far.
func (l *LLM) Prompts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.prompts)
}

// OpenSessions returns the number of sessions not yet closed.
func (l *LLM) OpenSessions() int { return l.sessions.Len() }

func (l *LLM) SetModel(handle uint32, model []byte) (newHandle, code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMSetModel)
	name := string(model)
	if len(l.Models) > 0 && !slices.Contains(l.Models, name) {
		return 0, llmModelNotSet
	}
	if s, ok := l.sessions.Get(handle); ok {
		s.model = name
		return handle, 0
	}
	return l.sessions.Add(&llmSession{model: name}), 0
}

func (l *LLM) GetModel(handle uint32, buf []byte) (n, code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMGetModel)
	s, ok := l.sessions.Get(handle)
	if !ok {
		return 0, llmModelNotSet
	}
	name := s.model
	if l.ReportModel != "" {
		name = l.ReportModel
	}
	return uint32(copy(buf, name)), 0
}

func (l *LLM) SetOptions(handle uint32, opts []byte) (code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMSetOptions)
	s, ok := l.sessions.Get(handle)
	if !ok {
		return llmModelNotSet
	}
	var o wireformat.LLMOptionsWire
	if err := json.Unmarshal(opts, &o); err != nil || o.SystemMessage == nil {
		return llmOptionsNotSet
	}
	s.opts, s.hasOpts = o, true
	return 0
}

func (l *LLM) GetOptions(handle uint32, buf []byte) (n, code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMGetOptions)
	s, ok := l.sessions.Get(handle)
	if !ok || !s.hasOpts {
		return 0, llmOptionsNotSet
	}
	doc, err := json.Marshal(s.opts)
	if err != nil {
		return 0, llmOptionsNotSet
	}
	return uint32(copy(buf, doc)), 0
}

func (l *LLM) Prompt(handle uint32, prompt []byte) (code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMPrompt)
	s, ok := l.sessions.Get(handle)
	if !ok {
		return llmModelNotSet
	}
	p := string(prompt)

	l.mu.Lock()
	l.prompts = append(l.prompts, p)
	reply, canned := l.Replies[p]
	l.mu.Unlock()

	switch {
	case canned:
	case l.Reply != nil:
		reply = l.Reply(s.model, s.opts, p)
	default:
		reply = p
	}
	s.response = []byte(reply)
	return 0
}

func (l *LLM) ReadResponse(handle uint32, buf []byte) (n, code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMReadResponse)
	s, ok := l.sessions.Get(handle)
	if !ok {
		return 0, llmModelNotSet
	}
	n = uint32(copy(buf, s.response))
	s.response = nil
	return n, 0
}

func (l *LLM) Close(handle uint32) (code uint32) {
	l.rec.add(hostfuncs.ModuleLLM, hostfuncs.FuncLLMClose)
	if !l.sessions.Remove(handle) {
		return llmModelNotSet
	}
	return 0
}
