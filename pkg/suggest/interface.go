// Package suggest decides which part of the AXS vocabulary to offer for the text typed before the cursor.
package suggest

import "github.com/bastiangx/axserve/pkg/catalog"

// ICompleter defines the interface the transports depend on
type ICompleter interface {
	// Complete returns the suggestions for the current line up to the cursor
	Complete(linePrefix string) []Suggestion

	// Resolve reports which scope Complete would pick, without building suggestions
	Resolve(linePrefix string) (Scope, catalog.Namespace)

	// Stats returns statistics about the loaded catalog
	Stats() map[string]int
}
