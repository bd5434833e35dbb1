package lsp

import (
	"fmt"

	"github.com/bastiangx/axserve/pkg/snippet"
	"github.com/bastiangx/axserve/pkg/suggest"
)

// getCompletions returns completion items for the given position.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		s.logger.Debug("Completion for unopened document", "uri", params.TextDocument.URI)
		return []CompletionItem{}
	}

	linePrefix := doc.LinePrefix(params.Position)
	suggestions := s.completer.Complete(linePrefix)
	snippets := s.snippetsEnabled()

	items := make([]CompletionItem, 0, len(suggestions))
	for i, sg := range suggestions {
		items = append(items, toCompletionItem(sg, i, snippets))
	}
	s.logger.Debug("Completion", "prefix", linePrefix, "items", len(items))
	return items
}

// snippetsEnabled reports whether tab-stop templates may be sent as is.
func (s *Server) snippetsEnabled() bool {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.snippetSupport && !s.plainText
}

// toCompletionItem converts a suggestion at position index of its list.
// SortText keeps the catalog order, since clients sort by label otherwise.
func toCompletionItem(sg suggest.Suggestion, index int, snippets bool) CompletionItem {
	item := CompletionItem{
		Label:            sg.Label,
		Kind:             completionKind(sg.Kind),
		Detail:           sg.Detail,
		Documentation:    sg.Documentation,
		SortText:         fmt.Sprintf("%04d", index),
		InsertText:       sg.InsertText,
		InsertTextFormat: InsertTextFormatPlainText,
	}
	if sg.Snippet {
		if snippets {
			item.InsertTextFormat = InsertTextFormatSnippet
		} else {
			item.InsertText = snippet.PlainText(sg.InsertText)
		}
	}
	return item
}

func completionKind(kind suggest.Kind) CompletionItemKind {
	switch kind {
	case suggest.KindMethod:
		return CompletionItemKindMethod
	case suggest.KindVariable:
		return CompletionItemKindVariable
	default:
		return CompletionItemKindText
	}
}
