package server

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/bastiangx/axserve/internal/logger"
	"github.com/bastiangx/axserve/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// startPair runs a server on in-memory pipes and returns a connected client.
func startPair(t *testing.T, opts Options) (*Server, *Client) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logger.NewWithWriter(io.Discard, "ipc")
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	srv := NewServer(inR, outW, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	t.Cleanup(func() {
		_ = inW.Close()
		assert.NoError(t, <-done)
		cancel()
		_ = outR.Close()
	})

	client := NewClient(outR, inW)
	require.NoError(t, client.WaitReady())
	return srv, client
}

func TestCompletion_Global(t *testing.T) {
	_, client := startPair(t, Options{})

	resp, err := client.Complete("    ax.", 0)
	require.NoError(t, err)

	require.Equal(t, 36, resp.Count)
	require.Len(t, resp.Suggestions, 36)
	assert.Equal(t, "req_001", resp.ID)
	assert.GreaterOrEqual(t, resp.TimeTaken, int64(0))

	first := resp.Suggestions[0]
	assert.Equal(t, "agents", first.Label)
	assert.Equal(t, "method", first.Kind)
	assert.Equal(t, "agents()", first.InsertText)
	assert.False(t, first.Snippet)
	assert.Equal(t, uint16(1), first.Rank)

	info := resp.Suggestions[1]
	assert.Equal(t, "agent_info", info.Label)
	assert.True(t, info.Snippet)
	assert.Equal(t, uint16(2), info.Rank)
	assert.Equal(t, uint16(36), resp.Suggestions[35].Rank)
}

func TestCompletion_ObjectsEmptyAndLimit(t *testing.T) {
	_, client := startPair(t, Options{})

	resp, err := client.Complete("", 0)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 3)
	for i, name := range []string{"ax", "form", "menu"} {
		assert.Equal(t, name, resp.Suggestions[i].Label)
		assert.Equal(t, "variable", resp.Suggestions[i].Kind)
		assert.Empty(t, resp.Suggestions[i].Detail)
	}

	resp, err = client.Complete("foo.", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Suggestions)

	resp, err = client.Complete("form.", 2)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "create_textline", resp.Suggestions[1].Label)
}

func TestCompletion_PrefixTooLong(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxPrefix = 8
	_, client := startPair(t, Options{Config: cfg})

	_, err := client.Complete("let v = ax.", 0)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 400, remote.Code)
	assert.Contains(t, remote.Message, "8 bytes")

	// the loop keeps serving after a rejected request
	resp, err := client.Complete("ax.", 0)
	require.NoError(t, err)
	assert.Equal(t, 36, resp.Count)
}

func TestCatalogActions(t *testing.T) {
	_, client := startPair(t, Options{})

	info, err := client.Catalog("get_info", "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, 36, info.Stats["ax"])
	assert.Equal(t, 10, info.Stats["categories"])

	nss, err := client.Catalog("get_namespaces", "", "")
	require.NoError(t, err)
	assert.Equal(t, []CatalogNamespace{
		{Name: "ax", Count: 36},
		{Name: "form", Count: 11},
		{Name: "menu", Count: 3},
		{Name: "command", Count: 4},
	}, nss.Namespaces)

	found, err := client.Catalog("lookup", "form", "connect")
	require.NoError(t, err)
	require.NotNil(t, found.Function)
	assert.Equal(t, "connect", found.Function.Label)
	assert.True(t, found.Function.Snippet)

	missing, err := client.Catalog("lookup", "window", "open")
	require.NoError(t, err)
	assert.Equal(t, "error", missing.Status)
	assert.Contains(t, missing.Error, "window")

	missing, err = client.Catalog("lookup", "menu", "connect")
	require.NoError(t, err)
	assert.Equal(t, "error", missing.Status)
}

func TestConfigActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.SaveConfig(config.DefaultConfig(), path))
	_, client := startPair(t, Options{ConfigPath: path})

	cur, err := client.Config("get_config", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 512, cur.MaxPrefix)
	assert.Equal(t, path, cur.Path)

	maxPrefix, plain := 4, true
	updated, err := client.Config("update_config", &maxPrefix, &plain)
	require.NoError(t, err)
	assert.Equal(t, "ok", updated.Status)
	assert.Equal(t, 4, updated.MaxPrefix)
	assert.True(t, updated.PlainText)

	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Server.MaxPrefix)
	assert.True(t, saved.LSP.PlainText)

	_, err = client.Complete("form.", 0)
	require.Error(t, err)

	resp, err := client.Complete("ax.", 2)
	require.NoError(t, err)
	assert.Equal(t, `agent_info("id", "property")`, resp.Suggestions[1].InsertText)
	assert.False(t, resp.Suggestions[1].Snippet)

	bad := 0
	rejected, err := client.Config("update_config", &bad, nil)
	require.NoError(t, err)
	assert.Equal(t, "error", rejected.Status)
}

func TestApplyConfig(t *testing.T) {
	srv, client := startPair(t, Options{})

	cfg := config.DefaultConfig()
	cfg.Server.MaxPrefix = 2
	srv.ApplyConfig(cfg)

	_, err := client.Complete("ax.", 0)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)

	// the server holds its own copy
	cfg.Server.MaxPrefix = 100
	_, err = client.Complete("ax.", 0)
	require.ErrorAs(t, err, &remote)
}

func TestInvalidMessages(t *testing.T) {
	var in bytes.Buffer
	for _, msg := range []any{
		42,
		map[string]any{"id": "x1", "action": "fly"},
		CompletionRequest{ID: "ok1", Prefix: "menu."},
	} {
		data, err := msgpack.Marshal(msg)
		require.NoError(t, err)
		in.Write(data)
	}

	var out bytes.Buffer
	srv := NewServer(&in, &out, Options{Logger: logger.NewWithWriter(io.Discard, "ipc")})
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)

	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready["status"])

	var invalid CompletionError
	require.NoError(t, dec.Decode(&invalid))
	assert.Equal(t, 400, invalid.Code)
	assert.Equal(t, "Invalid msgpack request", invalid.Error)

	var unknown CompletionError
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, "x1", unknown.ID)
	assert.Contains(t, unknown.Error, "fly")

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "ok1", resp.ID)
	assert.Equal(t, 3, resp.Count)
}
