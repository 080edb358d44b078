//go:build !wasip1

package bls_test

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bls "github.com/blessnetwork/bls-sdk-go"
	"github.com/blessnetwork/bls-sdk-go/blshttp"
	"github.com/blessnetwork/bls-sdk-go/blstest"
	"github.com/blessnetwork/bls-sdk-go/cgi"
	"github.com/blessnetwork/bls-sdk-go/crawl"
	"github.com/blessnetwork/bls-sdk-go/llm"
	"github.com/blessnetwork/bls-sdk-go/memory"
	"github.com/blessnetwork/bls-sdk-go/rpc"
	"github.com/blessnetwork/bls-sdk-go/socket"
)

func TestToErrorDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode uint32
	}{
		{name: "http", err: &blshttp.Error{Op: "request", Kind: blshttp.RequestError, Code: 10}, wantType: "http", wantCode: 10},
		{name: "llm", err: &llm.Error{Op: "set_model", Kind: llm.ModelNotSet, Code: 1}, wantType: "llm", wantCode: 1},
		{name: "cgi", err: &cgi.Error{Op: "exec", Kind: cgi.ExecError, Code: 2}, wantType: "cgi", wantCode: 2},
		{name: "socket", err: &socket.Error{Op: "bind", Kind: socket.AddressInUse, Code: 4}, wantType: "socket", wantCode: 4},
		{name: "rpc", err: &rpc.Error{Method: "ping", Kind: rpc.BufferTooSmall, Code: 5}, wantType: "rpc", wantCode: 5},
		{name: "crawl", err: &crawl.Error{Op: "scrape", Kind: crawl.Network, Code: 3}, wantType: "crawl", wantCode: 3},
		{name: "wrapped", err: fmt.Errorf("fetch: %w", &crawl.Error{Op: "scrape", Kind: crawl.Timeout, Code: 2}), wantType: "crawl", wantCode: 2},
		{name: "errno", err: syscall.EBADF, wantType: "memory", wantCode: uint32(syscall.EBADF)},
		{name: "too large", err: memory.ErrTooLarge, wantType: "memory"},
		{name: "config", err: &bls.ConfigError{Field: "url", Err: errors.New("required")}, wantType: "config"},
		{name: "detail", err: &bls.ErrorDetail{Type: "custom", Message: "x"}, wantType: "custom"},
		{name: "plain", err: errors.New("boom"), wantType: "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := bls.ToErrorDetail(tt.err)
			require.NotNil(t, d)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, tt.wantCode, d.Code)
			assert.NotEmpty(t, d.Message)
		})
	}

	assert.Nil(t, bls.ToErrorDetail(nil))
}

func TestHostCode(t *testing.T) {
	t.Parallel()

	code, ok := bls.HostCode(&llm.Error{Op: "prompt", Kind: llm.Utf8, Code: 3})
	assert.True(t, ok)
	assert.Equal(t, uint32(3), code)

	code, ok = bls.HostCode(fmt.Errorf("read: %w", syscall.EINVAL))
	assert.True(t, ok)
	assert.Equal(t, uint32(syscall.EINVAL), code)

	_, ok = bls.HostCode(&crawl.Error{Op: "crawl", Kind: crawl.CrawlFailed})
	assert.False(t, ok)

	_, ok = bls.HostCode(errors.New("plain"))
	assert.False(t, ok)
}

func TestHostCode_FromCapability(t *testing.T) {
	host := blstest.Install(t, blstest.NewHost())
	host.Crawl.Fail("https://example.com", 2)

	_, err := crawl.New().Scrape(context.Background(), "https://example.com", nil)
	code, ok := bls.HostCode(err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), code)
	assert.Equal(t, "crawl", bls.ToErrorDetail(err).Type)
}

func TestHostCode_ThroughSDKError(t *testing.T) {
	blstest.Install(t, blstest.NewHost())

	_, err := crawl.New().Map(context.Background(), "https://example.com", nil)
	require.ErrorIs(t, err, crawl.MapFailed)

	code, ok := bls.HostCode(err)
	assert.True(t, ok)
	assert.Equal(t, uint32(crawl.Network), code)

	d := bls.ToErrorDetail(err)
	assert.Equal(t, "crawl", d.Type)
	assert.Equal(t, crawl.MapFailed.Error(), d.Kind)
	assert.Equal(t, uint32(crawl.Network), d.Code)

	wrapped := fmt.Errorf("step: %w", &cgi.Error{Op: "exec", Kind: cgi.ExecError, Err: &llm.Error{Op: "prompt", Kind: llm.Utf8, Code: 3}})
	code, ok = bls.HostCode(wrapped)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), code)
}
