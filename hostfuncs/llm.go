package hostfuncs

import (
	"context"
	"math"
)

// FaultLLM is returned by blockless_llm functions when guest memory cannot
// be accessed or no backend is configured. It has no named meaning on the
// guest side and surfaces as an unknown code.
const FaultLLM = math.MaxUint8

// LLMBundle binds the blockless_llm module to b. Model name lengths travel
// as u8 and options and prompt lengths as u16, so the byte-count
// out-parameters are one and two bytes wide.
func LLMBundle(b LLM) HostFuncBundle {
	fns := []HostFunction{
		{
			Name: FuncLLMSetModel, Params: 3,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				handle := f.get32(0)
				model := f.bytes(1, 2)
				if f.faulted || b == nil {
					f.ret(FaultLLM, FaultLLM)
					return
				}
				next, code := b.SetModel(handle, model)
				if code == 0 {
					f.put32(0, next)
				}
				f.ret(code, FaultLLM)
			},
		},
		{
			Name: FuncLLMGetModel, Params: 4,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				buf := f.bytes(1, 2)
				if f.faulted || b == nil {
					f.ret(FaultLLM, FaultLLM)
					return
				}
				n, code := b.GetModel(f.u32(0), buf)
				if code == 0 {
					f.put8(3, uint8(clamp(clamp(n, uint32(len(buf))), math.MaxUint8)))
				}
				f.ret(code, FaultLLM)
			},
		},
		{
			Name: FuncLLMSetOptions, Params: 3,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				opts := f.bytes(1, 2)
				if f.faulted || b == nil {
					f.ret(FaultLLM, FaultLLM)
					return
				}
				f.ret(b.SetOptions(f.u32(0), opts), FaultLLM)
			},
		},
		{
			Name: FuncLLMGetOptions, Params: 4,
			Handler: llmRead16(b, func(l LLM) func(uint32, []byte) (uint32, uint32) { return l.GetOptions }),
		},
		{
			Name: FuncLLMPrompt, Params: 3,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				prompt := f.bytes(1, 2)
				if f.faulted || b == nil {
					f.ret(FaultLLM, FaultLLM)
					return
				}
				f.ret(b.Prompt(f.u32(0), prompt), FaultLLM)
			},
		},
		{
			Name: FuncLLMReadResponse, Params: 4,
			Handler: llmRead16(b, func(l LLM) func(uint32, []byte) (uint32, uint32) { return l.ReadResponse }),
		},
		{
			Name: FuncLLMClose, Params: 1,
			Handler: func(_ context.Context, mem GuestMemory, stack []uint64) {
				f := frame{mem: mem, stack: stack}
				if b == nil {
					f.ret(FaultLLM, FaultLLM)
					return
				}
				f.ret(b.Close(f.u32(0)), FaultLLM)
			},
		},
	}
	return newStaticBundle(ModuleLLM, FaultLLM, fns)
}

func llmRead16(b LLM, pick func(LLM) func(uint32, []byte) (uint32, uint32)) Handler {
	return func(_ context.Context, mem GuestMemory, stack []uint64) {
		f := frame{mem: mem, stack: stack}
		buf := f.bytes(1, 2)
		if f.faulted || b == nil {
			f.ret(FaultLLM, FaultLLM)
			return
		}
		n, code := pick(b)(f.u32(0), buf)
		if code == 0 {
			f.put16(3, uint16(clamp(clamp(n, uint32(len(buf))), math.MaxUint16)))
		}
		f.ret(code, FaultLLM)
	}
}
