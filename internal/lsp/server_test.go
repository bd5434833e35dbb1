package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/bastiangx/axserve/internal/logger"
	"github.com/bastiangx/axserve/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session builds a framed client stream and collects the server's replies.
type session struct {
	t      *testing.T
	input  bytes.Buffer
	nextID int
}

func newSession(t *testing.T) *session {
	return &session{t: t}
}

func (c *session) frame(v any) {
	body, err := json.Marshal(v)
	require.NoError(c.t, err)
	fmt.Fprintf(&c.input, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

func (c *session) request(method string, params any) int {
	c.nextID++
	c.frame(map[string]any{"jsonrpc": "2.0", "id": c.nextID, "method": method, "params": params})
	return c.nextID
}

func (c *session) notify(method string, params any) {
	c.frame(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (c *session) initialize(snippets bool) int {
	return c.request("initialize", map[string]any{
		"processId":  1,
		"rootUri":    "file:///work",
		"clientInfo": map[string]any{"name": "test"},
		"capabilities": map[string]any{
			"textDocument": map[string]any{
				"completion": map[string]any{
					"completionItem": map[string]any{"snippetSupport": snippets},
				},
			},
		},
	})
}

func (c *session) open(uri, text string) {
	c.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "axs", "version": 1, "text": text},
	})
}

func (c *session) position(method, uri string, line, character int) int {
	return c.request(method, map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	})
}

// run feeds the stream to a fresh server and returns replies keyed by id.
func (c *session) run(cfg *config.Config) (map[int]JSONRPCMessage, error) {
	var out bytes.Buffer
	srv := NewServer(&c.input, &out, Options{
		Config:  cfg,
		Logger:  logger.NewWithWriter(io.Discard, "lsp"),
		Version: "test",
	})
	runErr := srv.Run()

	replies := make(map[int]JSONRPCMessage)
	for _, msg := range readFrames(c.t, &out) {
		if msg.ID == nil {
			continue
		}
		id, err := strconv.Atoi(string(*msg.ID))
		if err != nil {
			continue
		}
		replies[id] = msg
	}
	return replies, runErr
}

func readFrames(t *testing.T, r io.Reader) []JSONRPCMessage {
	t.Helper()
	reader := bufio.NewReader(r)
	var msgs []JSONRPCMessage
	for {
		header, err := reader.ReadString('\n')
		if err == io.EOF {
			return msgs
		}
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(header, "Content-Length: "), "bad header %q", header)
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(header, "Content-Length: ")))
		require.NoError(t, err)
		_, err = reader.ReadString('\n')
		require.NoError(t, err)

		body := make([]byte, n)
		_, err = io.ReadFull(reader, body)
		require.NoError(t, err)

		var msg JSONRPCMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		msgs = append(msgs, msg)
	}
}

func decodeCompletion(t *testing.T, msg JSONRPCMessage) CompletionList {
	t.Helper()
	require.Nil(t, msg.Error)
	var list CompletionList
	require.NoError(t, json.Unmarshal(msg.Result, &list))
	return list
}

func TestServer_Initialize(t *testing.T) {
	c := newSession(t)
	id := c.initialize(true)

	cfg := config.DefaultConfig()
	cfg.LSP.TriggerCharacters = []string{".", "("}
	replies, err := c.run(cfg)
	require.NoError(t, err)

	var result InitializeResult
	require.NoError(t, json.Unmarshal(replies[id].Result, &result))
	assert.Equal(t, TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync.Change)
	assert.True(t, result.Capabilities.TextDocumentSync.OpenClose)
	assert.Equal(t, []string{".", "("}, result.Capabilities.CompletionProvider.TriggerCharacters)
	assert.True(t, result.Capabilities.HoverProvider)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "axserve", result.ServerInfo.Name)
}

func TestServer_InitializeDefaultTriggerCharacters(t *testing.T) {
	c := newSession(t)
	id := c.initialize(true)

	cfg := config.DefaultConfig()
	cfg.LSP.TriggerCharacters = nil
	replies, err := c.run(cfg)
	require.NoError(t, err)

	var result InitializeResult
	require.NoError(t, json.Unmarshal(replies[id].Result, &result))
	assert.Equal(t, []string{"."}, result.Capabilities.CompletionProvider.TriggerCharacters)
}

func TestServer_CompletionWithSnippets(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	c.notify("initialized", map[string]any{})
	c.open("file:///beacon.axs", "let x = 1;\n    ax.")
	id := c.position("textDocument/completion", "file:///beacon.axs", 1, 7)

	replies, err := c.run(nil)
	require.NoError(t, err)

	list := decodeCompletion(t, replies[id])
	require.Len(t, list.Items, 36)
	assert.Equal(t, "agents", list.Items[0].Label)
	assert.Equal(t, CompletionItemKindMethod, list.Items[0].Kind)
	assert.Equal(t, InsertTextFormatPlainText, list.Items[0].InsertTextFormat)
	assert.Equal(t, "0000", list.Items[0].SortText)

	info := list.Items[1]
	assert.Equal(t, "agent_info", info.Label)
	assert.Equal(t, "(string id, string property) → any", info.Detail)
	assert.Equal(t, InsertTextFormatSnippet, info.InsertTextFormat)
	assert.Equal(t, `agent_info("${1:id}", "${2:property}")`, info.InsertText)
}

func TestServer_CompletionPlainTextFallback(t *testing.T) {
	for name, tc := range map[string]struct {
		snippets  bool
		plainText bool
	}{
		"client without snippets": {snippets: false},
		"forced by config":        {snippets: true, plainText: true},
	} {
		t.Run(name, func(t *testing.T) {
			c := newSession(t)
			c.initialize(tc.snippets)
			c.open("file:///a.axs", "form.")
			id := c.position("textDocument/completion", "file:///a.axs", 0, 5)

			cfg := config.DefaultConfig()
			cfg.LSP.PlainText = tc.plainText
			replies, err := c.run(cfg)
			require.NoError(t, err)

			list := decodeCompletion(t, replies[id])
			require.NotEmpty(t, list.Items)
			label := list.Items[0]
			assert.Equal(t, "create_label", label.Label)
			assert.Equal(t, InsertTextFormatPlainText, label.InsertTextFormat)
			assert.Equal(t, `create_label("Label text")`, label.InsertText)
		})
	}
}

func TestServer_CompletionObjectsAndEmpty(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	c.open("file:///a.axs", "fo\nsomevar.otherMethod")
	objects := c.position("textDocument/completion", "file:///a.axs", 0, 2)
	empty := c.position("textDocument/completion", "file:///a.axs", 1, 19)
	unknown := c.position("textDocument/completion", "file:///missing.axs", 0, 0)

	replies, err := c.run(nil)
	require.NoError(t, err)

	list := decodeCompletion(t, replies[objects])
	require.Len(t, list.Items, 3)
	for i, name := range []string{"ax", "form", "menu"} {
		assert.Equal(t, name, list.Items[i].Label)
		assert.Equal(t, CompletionItemKindVariable, list.Items[i].Kind)
		assert.Empty(t, list.Items[i].Detail)
	}

	assert.Empty(t, decodeCompletion(t, replies[empty]).Items)
	assert.Empty(t, decodeCompletion(t, replies[unknown]).Items)
}

func TestServer_CompletionAfterChange(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	c.open("file:///a.axs", "")
	c.notify("textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": "file:///a.axs", "version": 2},
		"contentChanges": []map[string]any{{"text": "let c = _cmd_1."}},
	})
	id := c.position("textDocument/completion", "file:///a.axs", 0, 15)

	replies, err := c.run(nil)
	require.NoError(t, err)

	list := decodeCompletion(t, replies[id])
	require.Len(t, list.Items, 4)
	assert.Equal(t, "addArgString", list.Items[0].Label)
}

func TestServer_CompletionUTF16Position(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	// the emoji takes two UTF-16 code units and four bytes
	c.open("file:///a.axs", "/* 😀 */ menu.")
	id := c.position("textDocument/completion", "file:///a.axs", 0, 14)

	replies, err := c.run(nil)
	require.NoError(t, err)

	list := decodeCompletion(t, replies[id])
	require.Len(t, list.Items, 3)
	assert.Equal(t, "create_action", list.Items[0].Label)
}

func TestServer_Hover(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	c.open("file:///a.axs", "ax.agent_info(id, \"os\");\ncmd.addArgString(\"x\", true);\nform\nfoo.bar")
	fn := c.position("textDocument/hover", "file:///a.axs", 0, 6)
	builder := c.position("textDocument/hover", "file:///a.axs", 1, 8)
	object := c.position("textDocument/hover", "file:///a.axs", 2, 1)
	none := c.position("textDocument/hover", "file:///a.axs", 3, 5)

	replies, err := c.run(nil)
	require.NoError(t, err)

	var hover Hover
	require.NoError(t, json.Unmarshal(replies[fn].Result, &hover))
	assert.Equal(t, MarkupKindMarkdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "ax.agent_info(string id, string property) → any")
	assert.Contains(t, hover.Contents.Value, "metadata")
	require.NotNil(t, hover.Range)
	assert.Equal(t, uint32(3), hover.Range.Start.Character)
	assert.Equal(t, uint32(13), hover.Range.End.Character)

	hover = Hover{}
	require.NoError(t, json.Unmarshal(replies[builder].Result, &hover))
	assert.Contains(t, hover.Contents.Value, "addArgString(")

	hover = Hover{}
	require.NoError(t, json.Unmarshal(replies[object].Result, &hover))
	assert.Contains(t, hover.Contents.Value, "**form**")

	assert.Equal(t, "null", string(replies[none].Result))
}

func TestServer_Errors(t *testing.T) {
	c := newSession(t)
	early := c.position("textDocument/completion", "file:///a.axs", 0, 0)
	c.initialize(true)
	unknown := c.request("textDocument/definition", map[string]any{})
	bad := c.request("textDocument/completion", []int{1, 2})

	replies, err := c.run(nil)
	require.NoError(t, err)

	require.NotNil(t, replies[early].Error)
	assert.Equal(t, CodeServerNotInitialized, replies[early].Error.Code)
	require.NotNil(t, replies[unknown].Error)
	assert.Equal(t, CodeMethodNotFound, replies[unknown].Error.Code)
	require.NotNil(t, replies[bad].Error)
	assert.Equal(t, CodeInvalidParams, replies[bad].Error.Code)
}

func TestServer_ShutdownExit(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	shutdown := c.request("shutdown", nil)
	after := c.request("textDocument/hover", map[string]any{})
	c.notify("exit", nil)
	// never read: the loop stops at exit
	ignored := c.request("shutdown", nil)

	replies, err := c.run(nil)
	require.NoError(t, err)

	assert.Nil(t, replies[shutdown].Error)
	require.NotNil(t, replies[after].Error)
	assert.Equal(t, CodeInvalidRequest, replies[after].Error.Code)
	assert.NotContains(t, replies, ignored)
}

func TestServer_ExitWithoutShutdown(t *testing.T) {
	c := newSession(t)
	c.initialize(true)
	c.notify("exit", nil)

	_, err := c.run(nil)
	assert.ErrorIs(t, err, ErrExitWithoutShutdown)
}
