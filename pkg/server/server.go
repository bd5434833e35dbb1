package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/axserve/internal/utils"
	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/bastiangx/axserve/pkg/config"
	"github.com/bastiangx/axserve/pkg/snippet"
	"github.com/bastiangx/axserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// statsInterval is how many requests pass between debug stat lines.
const statsInterval = 1000

// Options configures a Server. Zero values select the shipped defaults.
type Options struct {
	Catalog *catalog.Catalog
	Config  *config.Config
	// ConfigPath is where update_config persists changes. Empty keeps
	// changes in memory.
	ConfigPath string
	Logger     *log.Logger
}

// Server handles msgpack IPC for completions
type Server struct {
	completer suggest.ICompleter
	catalog   *catalog.Catalog
	decoder   *msgpack.Decoder
	writer    io.Writer
	writeMu   sync.Mutex
	logger    *log.Logger

	cfgMu      sync.RWMutex
	cfg        *config.Config
	configPath string

	requests int
}

// NewServer creates a completion server reading requests from r and writing
// responses to w.
func NewServer(r io.Reader, w io.Writer, opts Options) *Server {
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

	return &Server{
		completer:  suggest.NewCompleter(cat),
		catalog:    cat,
		decoder:    msgpack.NewDecoder(r),
		writer:     w,
		logger:     logger,
		cfg:        cfg.Clone(),
		configPath: opts.ConfigPath,
	}
}

// ApplyConfig swaps in a new config. Safe to call while Start runs.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	s.cfg = cfg.Clone()
	s.logger.Debug("Applied config", "max_prefix", s.cfg.Server.MaxPrefix, "plain_text", s.cfg.LSP.PlainText)
}

func (s *Server) config() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// Start announces readiness and serves requests until the input ends or ctx
// is cancelled. A cancelled ctx leaves the reader goroutine blocked on its
// input; callers exit the process afterwards.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(map[string]string{"status": "ready"})

	errc := make(chan error, 1)
	go func() { errc <- s.serve() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}

func (s *Server) serve() error {
	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		s.handleRequest(raw)

		s.requests++
		if s.requests%statsInterval == 0 {
			s.logger.Debug("Served requests", "count", s.requests)
		}
	}
}

// handleRequest routes one raw message by its action field
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var env envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", 400)
		return
	}

	switch env.Action {
	case "":
		var req CompletionRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.sendError(env.ID, "Invalid completion request", 400)
			return
		}
		s.handleComplete(req)
	case "get_info", "get_namespaces", "lookup":
		var req CatalogRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.sendResponse(CatalogResponse{ID: env.ID, Status: "error", Error: "invalid catalog request"})
			return
		}
		s.sendResponse(s.handleCatalog(req))
	case "get_config", "update_config":
		var req ConfigRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.sendResponse(ConfigResponse{ID: env.ID, Status: "error", Error: "invalid config request"})
			return
		}
		s.sendResponse(s.handleConfig(req))
	default:
		s.sendError(env.ID, fmt.Sprintf("Unknown action: %s", env.Action), 400)
	}
}

// handleComplete validates the prefix and answers with ranked suggestions
func (s *Server) handleComplete(req CompletionRequest) {
	cfg := s.config()
	if len(req.Prefix) > cfg.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d bytes", cfg.Server.MaxPrefix), 400)
		s.logger.Debug("Prefix is too long in request", "id", req.ID, "len", len(req.Prefix))
		return
	}

	start := time.Now()
	suggestions := s.completer.Complete(req.Prefix)
	if req.Limit > 0 && len(suggestions) > req.Limit {
		suggestions = suggestions[:req.Limit]
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = toWire(sg, cfg.LSP.PlainText)
		out[i].Rank = ranks[i]
	}

	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleCatalog(req CatalogRequest) CatalogResponse {
	resp := CatalogResponse{ID: req.ID, Status: "ok"}

	switch req.Action {
	case "get_info":
		resp.Stats = s.completer.Stats()
	case "get_namespaces":
		for _, ns := range catalog.Namespaces {
			resp.Namespaces = append(resp.Namespaces, CatalogNamespace{Name: ns.String(), Count: s.catalog.Len(ns)})
		}
	case "lookup":
		ns, ok := catalog.ParseNamespace(req.Namespace)
		if !ok {
			resp.Status, resp.Error = "error", fmt.Sprintf("unknown namespace %q", req.Namespace)
			return resp
		}
		fn, ok := s.catalog.Lookup(ns, req.Name)
		if !ok {
			resp.Status, resp.Error = "error", fmt.Sprintf("%s has no function %q", ns, req.Name)
			return resp
		}
		wire := toWire(suggest.FromFunction(fn), false)
		resp.Function = &wire
	}
	return resp
}

func (s *Server) handleConfig(req ConfigRequest) ConfigResponse {
	if req.Action == "update_config" {
		if req.MaxPrefix != nil && *req.MaxPrefix <= 0 {
			return ConfigResponse{ID: req.ID, Status: "error", Error: "max_prefix must be positive"}
		}
		next := s.config().Clone()
		if s.configPath != "" {
			if err := next.Update(s.configPath, req.MaxPrefix, req.PlainText); err != nil {
				s.logger.Error("Saving config failed", "path", s.configPath, "error", err)
				return ConfigResponse{ID: req.ID, Status: "error", Error: err.Error()}
			}
		} else {
			if req.MaxPrefix != nil {
				next.Server.MaxPrefix = *req.MaxPrefix
			}
			if req.PlainText != nil {
				next.LSP.PlainText = *req.PlainText
			}
		}
		s.ApplyConfig(next)
	}

	cfg := s.config()
	return ConfigResponse{
		ID:        req.ID,
		Status:    "ok",
		MaxPrefix: cfg.Server.MaxPrefix,
		PlainText: cfg.LSP.PlainText,
		Path:      s.configPath,
	}
}

// toWire converts a suggestion to its msgpack form. plain expands snippet
// templates into literal text.
func toWire(sg suggest.Suggestion, plain bool) CompletionSuggestion {
	out := CompletionSuggestion{
		Label:         sg.Label,
		Kind:          string(sg.Kind),
		Detail:        sg.Detail,
		Documentation: sg.Documentation,
		InsertText:    sg.InsertText,
		Snippet:       sg.Snippet,
	}
	if plain && sg.Snippet {
		out.InsertText = snippet.PlainText(sg.InsertText)
		out.Snippet = false
	}
	return out
}

// sendResponse encodes response and writes it in one piece
func (s *Server) sendResponse(response any) {
	data, err := msgpack.Marshal(response)
	if err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.writer.Write(data); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

// sendError sends a CompletionError
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
