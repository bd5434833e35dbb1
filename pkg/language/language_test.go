package language

import (
	"encoding/json"
	"testing"
)

func TestWordAt(t *testing.T) {
	axs := AXS()

	testCases := []struct {
		line  string
		col   int
		word  string
		start int
	}{
		{"ax.agents()", 0, "ax", 0},
		{"ax.agents()", 2, "ax", 0},
		{"ax.agents()", 5, "agents", 3},
		{"ax.agents()", 9, "agents", 3},
		{"ax.agents()", 10, "", 10},
		{"let x = -1.5;", 10, "-1.5", 8},
		{"  form.create_label(\"hi\")", 12, "create_label", 7},
		{"", 0, "", 0},
		{"menu", 99, "menu", 0},
	}

	for _, tc := range testCases {
		word, start, end := axs.WordAt(tc.line, tc.col)
		if word != tc.word || start != tc.start {
			t.Errorf("WordAt(%q, %d): expected %q at %d, got %q at %d", tc.line, tc.col, tc.word, tc.start, word, start)
		}
		if end-start != len(word) {
			t.Errorf("WordAt(%q, %d): range %d..%d does not match %q", tc.line, tc.col, start, end, word)
		}
	}
}

func TestMatches(t *testing.T) {
	axs := AXS()
	for path, want := range map[string]bool{
		"beacon.axs":        true,
		"/tmp/EXT.AXS":      true,
		"script.js":         false,
		"axs":               false,
		"dir.axs/notes.txt": false,
	} {
		if got := axs.Matches(path); got != want {
			t.Errorf("Matches(%q): expected %v, got %v", path, want, got)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(AXS())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc struct {
		Comments struct {
			LineComment  string   `json:"lineComment"`
			BlockComment []string `json:"blockComment"`
		} `json:"comments"`
		Brackets         [][]string          `json:"brackets"`
		AutoClosingPairs []map[string]string `json:"autoClosingPairs"`
		WordPattern      string              `json:"wordPattern"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if doc.Comments.LineComment != "//" {
		t.Errorf("expected // line comment, got %q", doc.Comments.LineComment)
	}
	if len(doc.Comments.BlockComment) != 2 || doc.Comments.BlockComment[0] != "/*" || doc.Comments.BlockComment[1] != "*/" {
		t.Errorf("unexpected block comment %v", doc.Comments.BlockComment)
	}
	if len(doc.Brackets) != 3 {
		t.Errorf("expected 3 bracket pairs, got %d", len(doc.Brackets))
	}
	if len(doc.AutoClosingPairs) != 6 || doc.AutoClosingPairs[5]["open"] != "`" {
		t.Errorf("unexpected auto-closing pairs %v", doc.AutoClosingPairs)
	}
	if doc.WordPattern != wordPattern.String() {
		t.Errorf("word pattern not preserved: %q", doc.WordPattern)
	}
}
