package lsp

import (
	"strings"

	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/bastiangx/axserve/pkg/suggest"
)

// getHover describes the function or script object under the cursor. The
// namespace comes from the same decision completion makes, first for the
// text before the word and then for the text through it, so builder methods
// such as cmd.addArgString resolve too.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	lineNo := int(params.Position.Line)
	line := doc.GetLine(lineNo)
	col := byteOffset(line, int(params.Position.Character))

	word, start, end := s.language.WordAt(line, col)
	if word == "" {
		return nil
	}

	value, ok := s.describe(line, word, start, end)
	if !ok {
		return nil
	}

	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: value},
		Range: &Range{
			Start: Position{Line: uint32(lineNo), Character: uint32(utf16Column(line, start))},
			End:   Position{Line: uint32(lineNo), Character: uint32(utf16Column(line, end))},
		},
	}
}

func (s *Server) describe(line, word string, start, end int) (string, bool) {
	for _, prefix := range []string{line[:start], line[:end]} {
		scope, ns := s.completer.Resolve(prefix)
		if scope != suggest.ScopeFunctions {
			continue
		}
		if fn, ok := s.catalog.Lookup(ns, word); ok {
			return functionMarkdown(ns, fn), true
		}
	}

	if strings.HasSuffix(line[:start], ".") {
		return "", false
	}
	for _, obj := range s.catalog.Objects() {
		if obj.Name() == word {
			return objectMarkdown(obj), true
		}
	}
	return "", false
}

func functionMarkdown(ns catalog.Namespace, fn catalog.Function) string {
	var b strings.Builder
	b.WriteString("```axs\n")
	if ns != catalog.Command {
		b.WriteString(ns.String())
		b.WriteString(".")
	}
	b.WriteString(fn.Name)
	b.WriteString(fn.Signature)
	b.WriteString("\n```")
	if fn.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(fn.Description)
	}
	return b.String()
}

func objectMarkdown(obj catalog.Object) string {
	return "**" + obj.Name() + "** *" + obj.Detail + "*\n\n" + obj.Description
}
