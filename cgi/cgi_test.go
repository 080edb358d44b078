//go:build !wasip1

package cgi_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blessnetwork/bls-sdk-go/blstest"
	"github.com/blessnetwork/bls-sdk-go/cgi"
	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/blessnetwork/bls-sdk-go/wireformat"
)

func newHost(t *testing.T) *blstest.Host {
	t.Helper()
	host := blstest.Install(t, blstest.NewHost())
	host.CGI.Register(
		wireformat.CGIExtensionWire{FileName: "ipfs-cli", Alias: "ipfs", MD5: "abc", Description: "IPFS client"},
		blstest.CGIScript{Stdout: "added QmHash\n", Stderr: "warn"},
	)
	host.CGI.Register(
		wireformat.CGIExtensionWire{FileName: "cat", Alias: "cat"},
		blstest.CGIScript{Echo: true},
	)
	return host
}

func TestCommand_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cgi.Command
		want string
	}{
		{
			name: "empty args and envs stay arrays",
			cmd:  cgi.NewCommand("ipfs", nil, nil),
			want: `{"command":"ipfs","args":[],"envs":[]}`,
		},
		{
			name: "args and envs",
			cmd:  cgi.NewCommand("ipfs", []string{"add", "-q"}, []cgi.Env{{Name: "IPFS_PATH", Value: "/data"}}),
			want: `{"command":"ipfs","args":["add","-q"],"envs":[{"name":"IPFS_PATH","value":"/data"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.cmd)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestListExtensions(t *testing.T) {
	host := newHost(t)

	list, err := cgi.ListExtensions()
	require.NoError(t, err)
	exts, err := list.List()
	require.NoError(t, err)

	require.Len(t, exts, 2)
	assert.Equal(t, cgi.Extension{FileName: "ipfs-cli", Alias: "ipfs", MD5: "abc", Description: "IPFS client"}, exts[0])
	assert.Equal(t, "cat", exts[1].Alias)
	assert.Contains(t, exts[0].String(), "alias: ipfs")

	require.NoError(t, list.Close())
	require.NoError(t, list.Close())
	assert.Equal(t, 1, host.CallCount(hostfuncs.ModuleCGI, hostfuncs.FuncCGIClose))
	assert.Zero(t, host.CGI.OpenHandles())
}

func TestListExtensions_Fails(t *testing.T) {
	host := newHost(t)
	host.CGI.ListFails = true

	_, err := cgi.ListExtensions()
	assert.ErrorIs(t, err, cgi.ListError)
}

func TestList_LenientEntries(t *testing.T) {
	host := newHost(t)
	host.CGI.ListDoc = []byte(`[{"alias":"a","md5":7,"extra":true},{"fileName":"f"},null,3]`)

	list, err := cgi.ListExtensions()
	require.NoError(t, err)
	defer list.Close()
	exts, err := list.List()
	require.NoError(t, err)

	assert.Equal(t, []cgi.Extension{{Alias: "a"}, {FileName: "f"}, {}, {}}, exts)

	host.CGI.ListDoc = []byte(`{"alias":"a"}`)
	bad, err := cgi.ListExtensions()
	require.NoError(t, err)
	defer bad.Close()
	_, err = bad.List()
	assert.ErrorIs(t, err, cgi.JSONDecodingError)
}

func TestExtensionList_Command(t *testing.T) {
	host := newHost(t)
	list, err := cgi.ListExtensions()
	require.NoError(t, err)
	defer list.Close()

	cmd, err := list.Command("ipfs", []string{"add"}, []cgi.Env{{Name: "K", Value: "V"}})
	require.NoError(t, err)
	defer cmd.Close()

	out, err := cmd.ExecCommand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "added QmHash\n", out)

	stderr, err := cmd.ReadAllStderr()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(stderr))

	sent := host.CGI.Commands()
	require.Len(t, sent, 1)
	assert.Equal(t, wireformat.CGICommandWire{
		Command: "ipfs",
		Args:    []string{"add"},
		Envs:    []wireformat.CGIEnvWire{{Name: "K", Value: "V"}},
	}, sent[0])

	_, err = list.Command("missing", nil, nil)
	assert.ErrorIs(t, err, cgi.NoCommandError)
}

func TestCommand_WriteStdin(t *testing.T) {
	newHost(t)
	cmd := cgi.NewCommand("cat", nil, nil)

	_, err := cmd.WriteStdin([]byte("early"))
	assert.ErrorIs(t, err, cgi.ReadError)

	require.NoError(t, cmd.Exec(context.Background()))
	n, err := cmd.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	out, err := cmd.ReadAllStdout()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
	require.NoError(t, cmd.Close())
}

func TestCommand_ExecTwiceClosesPrevious(t *testing.T) {
	host := newHost(t)
	cmd := cgi.NewCommand("ipfs", nil, nil)

	require.NoError(t, cmd.Exec(context.Background()))
	require.NoError(t, cmd.Exec(context.Background()))
	assert.Equal(t, 1, host.CallCount(hostfuncs.ModuleCGI, hostfuncs.FuncCGIClose))
	assert.Equal(t, 1, host.CGI.OpenHandles())

	out, err := cmd.ReadAllStdout()
	require.NoError(t, err)
	assert.Equal(t, "added QmHash\n", string(out))

	require.NoError(t, cmd.Close())
	assert.Zero(t, host.CGI.OpenHandles())
}

func TestCommand_Failures(t *testing.T) {
	t.Run("unknown command fails exec", func(t *testing.T) {
		newHost(t)
		err := cgi.NewCommand("nope", nil, nil).Exec(context.Background())
		assert.ErrorIs(t, err, cgi.ExecError)

		var cerr *cgi.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, uint32(1), cerr.HostCode())
	})

	t.Run("unstarted command reads nothing", func(t *testing.T) {
		newHost(t)
		out, err := cgi.NewCommand("ipfs", nil, nil).ReadAllStdout()
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid utf-8 stdout", func(t *testing.T) {
		host := newHost(t)
		host.CGI.Register(wireformat.CGIExtensionWire{Alias: "bin"}, blstest.CGIScript{Stdout: "\xff\xfe"})
		_, err := cgi.NewCommand("bin", nil, nil).ExecCommand(context.Background())
		assert.ErrorIs(t, err, cgi.EncodingError)
	})

	t.Run("canceled context", func(t *testing.T) {
		newHost(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := cgi.NewCommand("ipfs", nil, nil).Exec(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestList_LargeOutputIsChunked(t *testing.T) {
	host := blstest.Install(t, blstest.NewHost())
	for i := range 40 {
		host.CGI.Register(wireformat.CGIExtensionWire{Alias: strings.Repeat("x", i+1), Description: strings.Repeat("d", 50)}, blstest.CGIScript{})
	}

	list, err := cgi.ListExtensions()
	require.NoError(t, err)
	exts, err := list.List()
	require.NoError(t, err)
	assert.Len(t, exts, 40)
	assert.Greater(t, host.CallCount(hostfuncs.ModuleCGI, hostfuncs.FuncCGIListRead), 2)
}
