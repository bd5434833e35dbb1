// Package cli handles the interactive prompt and the table output of the axserve command.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/axserve/pkg/config"
	"github.com/bastiangx/axserve/pkg/snippet"
	"github.com/bastiangx/axserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
	insertStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ea9a97"})
)

// InputHandler reads line prefixes from a terminal and prints what the
// completer offers for each one. Every line is taken as the text before the
// cursor, so "let d = form." lists the form functions.
type InputHandler struct {
	completer    suggest.ICompleter
	prompt       string
	color        bool
	maxPrefix    int
	requestCount int
	out          *log.Logger
}

// NewInputHandler creates a prompt over completer using the cli and server
// sections of cfg. A nil cfg selects the defaults.
func NewInputHandler(completer suggest.ICompleter, cfg *config.Config) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InputHandler{
		completer: completer,
		prompt:    cfg.CLI.Prompt,
		color:     cfg.CLI.Color,
		maxPrefix: cfg.Server.MaxPrefix,
	}
}

// Start runs the prompt on stdin until EOF or :quit.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin, os.Stderr)
}

// Run reads prefixes from r and writes results to w. Reaching the end of r
// is a normal exit.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	h.out = log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	h.out.Print("AXServe CLI")
	h.out.Print("type the text before the cursor and press Enter, :help lists commands (Ctrl+D to exit):")

	reader := bufio.NewReader(r)
	for {
		h.out.Print(h.prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		prefix := strings.TrimRight(line, "\r\n")

		if prefix != "" {
			if quit := h.handleInput(w, prefix); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// handleInput runs one line. It reports whether the prompt should stop.
func (h *InputHandler) handleInput(w io.Writer, prefix string) bool {
	switch strings.TrimSpace(prefix) {
	case ":q", ":quit":
		return true
	case ":help":
		h.out.Print("  :stats   catalog sizes")
		h.out.Print("  :quit    leave the prompt")
		h.out.Print("anything else is completed as a line prefix")
		return false
	case ":stats":
		RenderStats(w, h.completer.Stats())
		return false
	}

	h.requestCount++
	if len(prefix) > h.maxPrefix {
		h.out.Errorf("Prefix too long: %d bytes (max %d)", len(prefix), h.maxPrefix)
		return false
	}

	start := time.Now()
	scope, ns := h.completer.Resolve(prefix)
	suggestions := h.completer.Complete(prefix)
	elapsed := time.Since(start)
	log.Debugf("Request %d took [ %v ] for prefix '%s'", h.requestCount, elapsed, prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions for '%s'", prefix)
		return false
	}

	if scope == suggest.ScopeFunctions {
		h.out.Printf("Found %d %s functions for '%s':", len(suggestions), ns, prefix)
	} else {
		h.out.Printf("Found %d objects for '%s':", len(suggestions), prefix)
	}
	for i, s := range suggestions {
		h.out.Print(h.formatSuggestion(i+1, s))
	}
	return false
}

func (h *InputHandler) formatSuggestion(n int, s suggest.Suggestion) string {
	label := fmt.Sprintf("%-28s", s.Label)
	detail := s.Detail
	insert := s.InsertText
	if s.Snippet {
		insert = snippet.PlainText(insert)
	}
	if h.color {
		label = labelStyle.Render(label)
		detail = detailStyle.Render(detail)
		insert = insertStyle.Render(insert)
	}
	if detail == "" {
		return fmt.Sprintf("%2d. %s %s", n, label, insert)
	}
	return fmt.Sprintf("%2d. %s %s  %s", n, label, detail, insert)
}
