//go:build wasip1

package llm

import "unsafe"

// Host functions of the blockless_llm module. Model name lengths are u8
// and options and prompt lengths u16; both travel as i32.
//
//go:wasmimport blockless_llm llm_set_model_request
func host_llm_set_model_request(handle *uint32, model unsafe.Pointer, modelLen uint32) uint32

//go:wasmimport blockless_llm llm_get_model_response
func host_llm_get_model_response(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint8) uint32

//go:wasmimport blockless_llm llm_set_model_options_request
func host_llm_set_model_options_request(handle uint32, opts unsafe.Pointer, optsLen uint32) uint32

//go:wasmimport blockless_llm llm_get_model_options
func host_llm_get_model_options(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint16) uint32

//go:wasmimport blockless_llm llm_prompt_request
func host_llm_prompt_request(handle uint32, prompt unsafe.Pointer, promptLen uint32) uint32

//go:wasmimport blockless_llm llm_read_prompt_response
func host_llm_read_prompt_response(handle uint32, buf unsafe.Pointer, bufLen uint32, num *uint16) uint32

//go:wasmimport blockless_llm llm_close
func host_llm_close(handle uint32) uint32
