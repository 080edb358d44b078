//go:build !wasip1

package llm

import (
	"math"
	"unsafe"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/internal/abi"
	"github.com/blessnetwork/bls-sdk-go/internal/mockffi"
)

func backend() hostfuncs.LLM {
	return mockffi.Must(hostfuncs.ModuleLLM, func(b *hostfuncs.Backends) hostfuncs.LLM { return b.LLM })
}

func host_llm_set_model_request(handle *uint32, model unsafe.Pointer, modelLen uint32) uint32 {
	h, code := backend().SetModel(*handle, abi.Bytes(model, modelLen))
	if code == 0 {
		*handle = h
	}
	return code
}

func host_llm_get_model_response(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint8) uint32 {
	n, code := backend().GetModel(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = uint8(min(n, bufLen, math.MaxUint8))
	}
	return code
}

func host_llm_set_model_options_request(handle uint32, opts unsafe.Pointer, optsLen uint32) uint32 {
	return backend().SetOptions(handle, abi.Bytes(opts, optsLen))
}

func host_llm_get_model_options(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint16) uint32 {
	n, code := backend().GetOptions(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = uint16(min(n, bufLen, math.MaxUint16))
	}
	return code
}

func host_llm_prompt_request(handle uint32, prompt unsafe.Pointer, promptLen uint32) uint32 {
	return backend().Prompt(handle, abi.Bytes(prompt, promptLen))
}

func host_llm_read_prompt_response(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint16) uint32 {
	n, code := backend().ReadResponse(handle, abi.Bytes(buf, bufLen))
	if code == 0 {
		*num = uint16(min(n, bufLen, math.MaxUint16))
	}
	return code
}

func host_llm_close(handle uint32) uint32 {
	return backend().Close(handle)
}
