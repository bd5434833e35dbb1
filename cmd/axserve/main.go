// Copyright 2025 The AXServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the AXS completion server, language server and CLI.

Note: This is a BETA release. APIs and functionality may rapidly change.

AXServe offers autocompletion for AXS scripts, the scripting language of the
AdaptixC2 client. The vocabulary is fixed and ships with the binary: the global
ax object with its categorized functions, the form and menu builders, and the
methods of command objects. What to offer is decided from the text of the
current line up to the cursor, so "ax." lists every global function and
"let c = _cmd_shell." lists the command methods.

# Usage

Start the MessagePack IPC server on stdin/stdout (the default):

	axserve
	axserve serve --watch

Start the Language Server Protocol server for an editor:

	axserve lsp

Try completions interactively, or browse the catalog:

	axserve repl
	axserve list --ns form --prefix create_

Print the editor language configuration for AXS files:

	axserve langconfig

# Configuration

Runtime configuration lives in a TOML file. The --config flag wins, then
[UserConfigDir]/axserve/config.toml, which is created with defaults on first
run:

	[server]
	max_prefix = 512
	watch = false

	[lsp]
	trigger_characters = ["."]
	plain_text = false

	[log]
	level = "info"

	[cli]
	color = true
	prompt = "axs> "

With --watch (or server.watch) the file is reloaded whenever it changes and
the new values apply to the running server without a restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout and announces itself
with {"status": "ready"}. Completion requests carry the line prefix:

	{"id": "r1", "p": "let d = form."}

Responses list suggestions in catalog order with microsecond timing:

	{"id": "r1", "s": [{"l": "create_label", "k": "method", "d": "...", "i": "...", "sn": true, "r": 1}], "c": 11, "t": 12}

Catalog and config requests are routed by their action field:

	{"id": "c1", "action": "get_info"}
	{"id": "c2", "action": "lookup", "ns": "form", "name": "connect"}
	{"id": "c3", "action": "update_config", "plain_text": true}

# Language Server

The lsp command speaks JSON-RPC with Content-Length framing. It supports
completion and hover over open documents, and falls back to plain text
inserts for clients without snippet support.
*/
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// Version is set at build time.
var Version = "0.1.0-beta"

const (
	AppName = "axserve"
	gh      = "https://github.com/bastiangx/axserve"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
