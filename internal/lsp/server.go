package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/bastiangx/axserve/pkg/config"
	"github.com/bastiangx/axserve/pkg/language"
	"github.com/bastiangx/axserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// ErrExitWithoutShutdown is returned by Run when the client sends exit
// without a preceding shutdown request.
var ErrExitWithoutShutdown = errors.New("lsp: exit received before shutdown")

// Options configures a Server. Zero values select the shipped defaults.
type Options struct {
	Catalog *catalog.Catalog
	Config  *config.Config
	Logger  *log.Logger
	Version string
}

// Server implements the Language Server Protocol for AXS files.
type Server struct {
	documents *DocumentStore
	completer suggest.ICompleter
	catalog   *catalog.Catalog
	language  *language.Language
	version   string

	// Settings that the config watcher may swap at runtime
	settingsMu        sync.RWMutex
	triggerCharacters []string
	plainText         bool

	// Client state from initialize
	initialized    bool
	snippetSupport bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *log.Logger

	shutdown bool
	exited   bool
}

// NewServer creates a new LSP server instance reading from reader and
// writing to writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		documents: NewDocumentStore(),
		completer: suggest.NewCompleter(cat),
		catalog:   cat,
		language:  language.AXS(),
		version:   opts.Version,
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig updates the settings read from config. Trigger characters only
// reach clients that initialize afterwards; an empty list falls back to the
// language's own.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	triggers := cfg.LSP.TriggerCharacters
	if len(triggers) == 0 {
		triggers = s.language.TriggerCharacters
	}
	s.triggerCharacters = slices.Clone(triggers)
	s.plainText = cfg.LSP.PlainText
}

// Documents exposes the open document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Run processes JSON-RPC messages until the client disconnects or sends exit.
func (s *Server) Run() error {
	s.logger.Info("AXS language server starting")

	for {
		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("Client disconnected")
				return nil
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				s.sendResponse(nil, nil, &JSONRPCError{Code: CodeParseError, Message: err.Error()})
			}
			s.logger.Error("Error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("Error handling message", "method", msg.Method, "error", err)
		}

		if s.exited {
			if !s.shutdown {
				return ErrExitWithoutShutdown
			}
			return nil
		}
	}
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}
	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}
	if id == nil {
		null := json.RawMessage("null")
		msg.ID = &null
	}

	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("Error marshaling result", "error", err)
			msg.Error = &JSONRPCError{Code: CodeInternalError, Message: err.Error()}
		} else {
			msg.Result = resultBytes
		}
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	_, _ = s.writer.Write([]byte(header))
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("Received", "method", msg.Method)

	switch msg.Method {
	case "exit":
		s.exited = true
		s.logger.Info("Server exit")
		return nil
	case "initialize":
		return s.handleInitialize(msg)
	}

	if s.shutdown {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}
	if !s.initialized {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeServerNotInitialized, Message: "server not initialized"})
		}
		return nil
	}

	switch msg.Method {
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    CodeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()})
		return err
	}

	s.snippetSupport = params.Capabilities.TextDocument.Completion.CompletionItem.SnippetSupport
	s.initialized = true
	if params.ClientInfo != nil {
		s.logger.Info("Client connected", "name", params.ClientInfo.Name, "version", params.ClientInfo.Version, "snippets", s.snippetSupport)
	}

	s.settingsMu.RLock()
	triggers := slices.Clone(s.triggerCharacters)
	s.settingsMu.RUnlock()

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: triggers,
			},
			HoverProvider: true,
		},
		ServerInfo: &ServerInfo{Name: "axserve", Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdown = true
	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("Server shutdown")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	doc := params.TextDocument
	if doc.LanguageID != s.language.ID && !s.language.Matches(doc.URI) {
		s.logger.Warn("Opened a document that is not AXS", "uri", doc.URI, "language", doc.LanguageID)
	}
	s.documents.Open(doc.URI, doc.Text, doc.Version)
	s.logger.Debug("Opened", "uri", doc.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("Closed", "uri", params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	if !s.documents.Apply(uri, params.TextDocument.Version, params.ContentChanges) {
		return fmt.Errorf("change for unopened document %s", uri)
	}
	return nil
}

// --- Language feature handlers ---

func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()})
		return err
	}

	items := s.getCompletions(params)
	s.sendResponse(msg.ID, CompletionList{IsIncomplete: false, Items: items}, nil)
	return nil
}

func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()})
		return err
	}

	hover := s.getHover(params)
	s.sendResponse(msg.ID, hover, nil)
	return nil
}
