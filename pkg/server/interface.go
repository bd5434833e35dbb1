/*
Package server implements msgpack IPC for AXS completions.

The server reads a stream of msgpack maps from stdin and answers each one
with a single msgpack map on stdout. Messages are handled one at a time, in
order. Logging goes to stderr only.

# IPC

On start the server announces itself:

	{"status": "ready"}

A completion request carries the current line up to the cursor:

	{"id": "req_001", "p": "    ax."}

and is answered with the suggestions in catalog order:

	{"id": "req_001", "s": [{"l": "agents", "k": "method", "d": "() → AGENT[id]", "doc": "...", "i": "agents()", "r": 1}, ...], "c": 36, "t": 12}

"t" is the handling time in microseconds and "r" the 1-based rank. An
optional "l" limits the number of suggestions returned.

Catalog requests have an action field:

	{"id": "cat_001", "action": "get_info"}
	{"id": "cat_002", "action": "get_namespaces"}
	{"id": "cat_003", "action": "lookup", "ns": "form", "name": "connect"}

Config requests read or change the live limits:

	{"id": "cfg_001", "action": "get_config"}
	{"id": "cfg_002", "action": "update_config", "max_prefix": 256}

Failed completion requests get a CompletionError with an HTTP-like code;
failed action requests carry "status": "error" and an "error" text.
*/
package server

// CompletionRequest asks for suggestions for a line prefix
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion is one suggestion in a response
type CompletionSuggestion struct {
	Label         string `msgpack:"l"`
	Kind          string `msgpack:"k"`
	Detail        string `msgpack:"d,omitempty"`
	Documentation string `msgpack:"doc,omitempty"`
	InsertText    string `msgpack:"i"`
	Snippet       bool   `msgpack:"sn,omitempty"`
	Rank          uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// CATALOG MESSAGES - read-only views of the function tables

// CatalogRequest - catalog query
type CatalogRequest struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"action"`         // "get_info", "get_namespaces", "lookup"
	Namespace string `msgpack:"ns,omitempty"`   // for "lookup"
	Name      string `msgpack:"name,omitempty"` // for "lookup"
}

// CatalogNamespace describes one namespace
type CatalogNamespace struct {
	Name  string `msgpack:"name"`
	Count int    `msgpack:"count"`
}

// CatalogResponse - catalog query response
type CatalogResponse struct {
	ID         string                `msgpack:"id"`
	Status     string                `msgpack:"status"`
	Error      string                `msgpack:"error,omitempty"`
	Stats      map[string]int        `msgpack:"stats,omitempty"`
	Namespaces []CatalogNamespace    `msgpack:"namespaces,omitempty"`
	Function   *CompletionSuggestion `msgpack:"function,omitempty"`
}

// CONFIG MESSAGES - live limits, persisted to the TOML file when one is loaded

// ConfigRequest - config query or update
type ConfigRequest struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"action"` // "get_config", "update_config"
	MaxPrefix *int   `msgpack:"max_prefix,omitempty"`
	PlainText *bool  `msgpack:"plain_text,omitempty"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Error     string `msgpack:"error,omitempty"`
	MaxPrefix int    `msgpack:"max_prefix,omitempty"`
	PlainText bool   `msgpack:"plain_text"`
	Path      string `msgpack:"path,omitempty"`
}

// envelope is decoded first to route a message by its action.
type envelope struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
}
