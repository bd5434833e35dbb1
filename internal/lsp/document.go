package lsp

import (
	"sort"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.axs)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = newDocument(uri, content, version)
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get returns a snapshot of the document, nil when it is not open.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Apply applies content changes in order and returns false when the document
// is not open. Documents are replaced rather than mutated so snapshots handed
// out by Get stay valid.
func (s *DocumentStore) Apply(uri string, version int, changes []TextDocumentContentChangeEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[uri]
	if !ok {
		return false
	}
	content := doc.Content
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		cur := newDocument(uri, content, version)
		start := cur.PositionToOffset(change.Range.Start)
		end := cur.PositionToOffset(change.Range.End)
		if end < start {
			start, end = end, start
		}
		content = content[:start] + change.Text + content[end:]
	}
	s.documents[uri] = newDocument(uri, content, version)
	return true
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0}

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// GetLine returns the content of a line without its line terminator.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1
	}
	if end > start && d.Content[end-1] == '\r' {
		end--
	}
	if end < start {
		end = start
	}
	return d.Content[start:end]
}

// PositionToOffset converts a Position to a byte offset in the document.
// Positions past the end of a line clamp to the end of that line.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}
	return d.Lines[line] + byteOffset(d.GetLine(line), int(pos.Character))
}

// LinePrefix returns the text of pos's line from its start up to pos.
func (d *Document) LinePrefix(pos Position) string {
	line := d.GetLine(int(pos.Line))
	return line[:byteOffset(line, int(pos.Character))]
}

// byteOffset converts a UTF-16 column into a byte offset within line.
func byteOffset(line string, col int) int {
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		if r == utf8.RuneError {
			units++
			continue
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

// utf16Column converts a byte offset within line into a UTF-16 column.
func utf16Column(line string, offset int) int {
	if offset > len(line) {
		offset = len(line)
	}
	units := 0
	for _, r := range line[:offset] {
		if r == utf8.RuneError {
			units++
			continue
		}
		units += utf16.RuneLen(r)
	}
	return units
}
