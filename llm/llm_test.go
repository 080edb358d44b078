//go:build !wasip1

package llm_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blessnetwork/bls-sdk-go/blstest"
	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/llm"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

func TestModel_Quantized(t *testing.T) {
	assert.Equal(t, llm.Model("Llama-3.2-1B-Instruct-Q6_K"), llm.Llama321BInstruct.Quantized("Q6_K"))
	assert.Equal(t, llm.Gemma29BInstruct, llm.Gemma29BInstruct.Quantized(""))
	assert.Equal(t, "my-model.gguf", llm.Custom("my-model.gguf").String())
}

func TestOptions_JSON(t *testing.T) {
	tests := []struct {
		name string
		opts llm.Options
		want string
	}{
		{name: "defaults", opts: llm.Options{}, want: `{"system_message":""}`},
		{
			name: "all members",
			opts: llm.Options{}.
				WithSystemMessage("be brief").
				WithTemperature(0.5).
				WithTopP(0.25).
				WithToolsSSEURLs("http://localhost:3001/sse"),
			want: `{"system_message":"be brief","temperature":0.5,"top_p":0.25,"tools_sse_urls":["http://localhost:3001/sse"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.opts)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			back, err := llm.DecodeOptions(got)
			require.NoError(t, err)
			assert.True(t, back.Equal(tt.opts))
		})
	}
}

func TestDecodeOptions_Errors(t *testing.T) {
	_, err := llm.DecodeOptions([]byte(`{"temperature":1}`))
	assert.ErrorIs(t, err, llm.OptionsNotSet)

	_, err = llm.DecodeOptions([]byte(`{`))
	assert.ErrorIs(t, err, llm.OptionsNotSet)

	_, err = llm.DecodeOptions([]byte{0xff})
	assert.ErrorIs(t, err, llm.Utf8)
}

func TestClient_Chat(t *testing.T) {
	host := blstest.Install(t, blstest.NewHost())
	host.LLM.Reply = func(model string, opts wireformat.LLMOptionsWire, prompt string) string {
		return model + "|" + *opts.SystemMessage + "|" + prompt
	}

	c, err := llm.New(llm.Mistral7BInstructV03)
	require.NoError(t, err)
	defer c.Close()
	assert.NotZero(t, c.Handle())

	require.NoError(t, c.SetOptions(llm.Options{}.WithSystemMessage("You are lucy.")))
	assert.Equal(t, "You are lucy.", c.Options().SystemMessage)

	reply, err := c.Chat(context.Background(), "What is your name?")
	require.NoError(t, err)
	assert.Equal(t, "Mistral-7B-Instruct-v0.3|You are lucy.|What is your name?", reply)

	model, err := c.GetModel()
	require.NoError(t, err)
	assert.Equal(t, string(llm.Mistral7BInstructV03), model)
	assert.Equal(t, []string{"What is your name?"}, host.LLM.Prompts())
}

func TestClient_SessionsAreIndependent(t *testing.T) {
	host := blstest.Install(t, blstest.NewHost())

	big, err := llm.New(llm.Mistral7BInstructV03)
	require.NoError(t, err)
	small, err := llm.New(llm.Llama321BInstruct)
	require.NoError(t, err)

	assert.NotEqual(t, big.Handle(), small.Handle())
	assert.Equal(t, 2, host.LLM.OpenSessions())

	require.NoError(t, small.SetModel(llm.Gemma22BInstruct))
	assert.Equal(t, llm.Gemma22BInstruct, small.Model())
	assert.Equal(t, 2, host.LLM.OpenSessions(), "switching model keeps the handle")

	require.NoError(t, big.Close())
	require.NoError(t, big.Close())
	require.NoError(t, small.Close())
	assert.Zero(t, host.LLM.OpenSessions())
	assert.Equal(t, 2, host.CallCount(hostfuncs.ModuleLLM, hostfuncs.FuncLLMClose))
}

func TestClient_Errors(t *testing.T) {
	t.Run("model rejected by host", func(t *testing.T) {
		host := blstest.Install(t, blstest.NewHost())
		host.LLM.Models = []string{string(llm.Llama321BInstruct)}

		_, err := llm.New(llm.Gemma227BInstruct)
		assert.ErrorIs(t, err, llm.ModelNotSet)
	})

	t.Run("host reports a different model", func(t *testing.T) {
		host := blstest.Install(t, blstest.NewHost())
		host.LLM.ReportModel = "other"

		_, err := llm.New(llm.Llama321BInstruct)
		assert.ErrorIs(t, err, llm.ModelNotSet)
	})

	t.Run("model name too long", func(t *testing.T) {
		blstest.Install(t, blstest.NewHost())
		_, err := llm.New(llm.Custom(strings.Repeat("m", 256)))
		assert.ErrorIs(t, err, llm.NameTooLong)
	})

	t.Run("invalid options", func(t *testing.T) {
		blstest.Install(t, blstest.NewHost())
		c, err := llm.New(llm.Llama321BInstruct)
		require.NoError(t, err)

		err = c.SetOptions(llm.Options{}.WithTemperature(3))
		assert.ErrorIs(t, err, llm.InvalidOptions)
		err = c.SetOptions(llm.Options{}.WithToolsSSEURLs("not a url"))
		assert.ErrorIs(t, err, llm.InvalidOptions)
	})

	t.Run("options before model", func(t *testing.T) {
		blstest.Install(t, blstest.NewHost())
		var c llm.Client
		err := c.SetOptions(llm.Options{}.WithSystemMessage("x"))
		assert.ErrorIs(t, err, llm.ModelNotSet)
	})

	t.Run("prompt too large", func(t *testing.T) {
		blstest.Install(t, blstest.NewHost())
		c, err := llm.New(llm.Llama321BInstruct)
		require.NoError(t, err)

		_, err = c.Chat(context.Background(), strings.Repeat("p", llm.MaxPayloadLen+1))
		assert.ErrorIs(t, err, llm.PayloadTooLarge)
	})

	t.Run("invalid utf-8 reply", func(t *testing.T) {
		host := blstest.Install(t, blstest.NewHost())
		host.LLM.Replies["hi"] = "\xff"
		c, err := llm.New(llm.Llama321BInstruct)
		require.NoError(t, err)

		_, err = c.Chat(context.Background(), "hi")
		assert.ErrorIs(t, err, llm.Utf8)
	})

	t.Run("closed client", func(t *testing.T) {
		blstest.Install(t, blstest.NewHost())
		c, err := llm.New(llm.Llama321BInstruct)
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = c.Chat(context.Background(), "hi")
		assert.ErrorIs(t, err, llm.Closed)
	})
}

func TestKindFromCode(t *testing.T) {
	tests := []struct {
		code uint32
		want llm.Kind
	}{
		{1, llm.ModelNotSet},
		{2, llm.OptionsNotSet},
		{3, llm.Utf8},
		{4, llm.Unknown},
		{255, llm.Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, llm.KindFromCode(tt.code))
	}

	err := &llm.Error{Op: "chat", Kind: llm.KindFromCode(9), Code: 9}
	assert.Equal(t, "llm chat: unknown error (code 9)", err.Error())
	assert.Equal(t, uint32(9), err.HostCode())
}
