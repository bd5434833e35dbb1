// Package language describes how editors should treat AXS source files.
package language

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ID is the language identifier editors associate with AXS files.
const ID = "axs"

// Pair is an auto-closing pair.
type Pair struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Language holds the static syntax metadata of a scripting dialect.
type Language struct {
	ID                string
	Extensions        []string
	LineComment       string
	BlockComment      [2]string
	Brackets          [][2]string
	AutoClosingPairs  []Pair
	WordPattern       *regexp.Regexp
	TriggerCharacters []string
}

// Numbers like -1.5 stay whole; anything else is split on punctuation and space.
var wordPattern = regexp.MustCompile("(-?\\d*\\.\\d\\w*)|([^`~!@#%^&*()\\-=+\\[{\\]}\\\\|;:'\",.<>/?\\s]+)")

// AXS returns the AXS language description.
func AXS() *Language {
	return &Language{
		ID:           ID,
		Extensions:   []string{".axs"},
		LineComment:  "//",
		BlockComment: [2]string{"/*", "*/"},
		Brackets: [][2]string{
			{"{", "}"},
			{"[", "]"},
			{"(", ")"},
		},
		AutoClosingPairs: []Pair{
			{"{", "}"},
			{"[", "]"},
			{"(", ")"},
			{`"`, `"`},
			{"'", "'"},
			{"`", "`"},
		},
		WordPattern:       wordPattern,
		TriggerCharacters: []string{"."},
	}
}

// Matches reports whether path has one of the language's extensions.
func (l *Language) Matches(path string) bool {
	return slices.Contains(l.Extensions, strings.ToLower(filepath.Ext(path)))
}

// WordAt returns the word of line touching byte offset col, along with its
// byte range. A cursor sitting right after a word still selects it. When no
// word touches col the result is empty and start == end == col.
func (l *Language) WordAt(line string, col int) (word string, start, end int) {
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	for _, loc := range l.WordPattern.FindAllStringIndex(line, -1) {
		if loc[0] > col {
			break
		}
		if col <= loc[1] {
			return line[loc[0]:loc[1]], loc[0], loc[1]
		}
	}
	return "", col, col
}

// Configuration is the editor-facing form of a Language, shaped like a
// VS Code language-configuration.json file.
type Configuration struct {
	Comments struct {
		LineComment  string    `json:"lineComment"`
		BlockComment [2]string `json:"blockComment"`
	} `json:"comments"`
	Brackets         [][2]string `json:"brackets"`
	AutoClosingPairs []Pair      `json:"autoClosingPairs"`
	WordPattern      string      `json:"wordPattern"`
}

// Configuration converts l to its editor-facing form.
func (l *Language) Configuration() Configuration {
	var cfg Configuration
	cfg.Comments.LineComment = l.LineComment
	cfg.Comments.BlockComment = l.BlockComment
	cfg.Brackets = l.Brackets
	cfg.AutoClosingPairs = l.AutoClosingPairs
	if l.WordPattern != nil {
		cfg.WordPattern = l.WordPattern.String()
	}
	return cfg
}

// MarshalJSON encodes l as a language-configuration document.
func (l *Language) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Configuration())
}
