package suggest

import (
	"regexp"
	"strings"

	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/bastiangx/axserve/pkg/snippet"
)

// Kind is a presentation hint for the host's icon choice.
type Kind string

const (
	KindMethod   Kind = "method"
	KindVariable Kind = "variable"
)

// Suggestion is one presentable completion item.
type Suggestion struct {
	Label         string
	Kind          Kind
	Detail        string `json:",omitempty"`
	Documentation string `json:",omitempty"`
	// InsertText is a tab-stop template when Snippet is set, literal text otherwise.
	InsertText string
	Snippet    bool `json:",omitempty"`
}

// Scope is the outcome of looking at a line prefix.
type Scope int

const (
	// ScopeNone offers nothing.
	ScopeNone Scope = iota
	// ScopeObjects offers the bare ax, form and menu identifiers.
	ScopeObjects
	// ScopeFunctions offers the functions of one namespace.
	ScopeFunctions
)

func (s Scope) String() string {
	switch s {
	case ScopeObjects:
		return "objects"
	case ScopeFunctions:
		return "functions"
	default:
		return "none"
	}
}

var (
	// A dotted access to one of the AxCommand builder methods, anywhere on the line.
	commandMethodPattern = regexp.MustCompile(`\w+\.(addArg|setPreHook|addSub)`)
	// A dotted access on a variable following the _cmd naming convention.
	commandVarPattern = regexp.MustCompile(`_cmd\w*\.`)
)

// Completer maps line prefixes to suggestions. It keeps no state between
// calls; the same prefix always yields the same result.
type Completer struct {
	catalog *catalog.Catalog
}

// NewCompleter creates a completer over c. A nil c selects catalog.Default().
func NewCompleter(c *catalog.Catalog) *Completer {
	if c == nil {
		c = catalog.Default()
	}
	return &Completer{catalog: c}
}

// Catalog returns the vocabulary the completer reads from.
func (c *Completer) Catalog() *catalog.Catalog {
	return c.catalog
}

// Resolve picks the scope for linePrefix. The checks run in a fixed order and
// the first one that matches wins.
func (c *Completer) Resolve(linePrefix string) (Scope, catalog.Namespace) {
	switch {
	case strings.HasSuffix(linePrefix, "ax."):
		return ScopeFunctions, catalog.Global
	case strings.HasSuffix(linePrefix, "form."):
		return ScopeFunctions, catalog.Form
	case strings.HasSuffix(linePrefix, "menu."):
		return ScopeFunctions, catalog.Menu
	case commandMethodPattern.MatchString(linePrefix) || commandVarPattern.MatchString(linePrefix):
		return ScopeFunctions, catalog.Command
	case !strings.Contains(linePrefix, "."):
		return ScopeObjects, 0
	default:
		return ScopeNone, 0
	}
}

// Complete returns the suggestions for linePrefix, the current line from its
// start up to the cursor. The result is never nil.
func (c *Completer) Complete(linePrefix string) []Suggestion {
	scope, ns := c.Resolve(linePrefix)

	switch scope {
	case ScopeFunctions:
		suggestions := make([]Suggestion, 0, c.catalog.Len(ns))
		c.catalog.Each(ns, func(fn catalog.Function) bool {
			suggestions = append(suggestions, FromFunction(fn))
			return true
		})
		return suggestions
	case ScopeObjects:
		objects := c.catalog.Objects()
		suggestions := make([]Suggestion, 0, len(objects))
		for _, obj := range objects {
			suggestions = append(suggestions, FromObject(obj))
		}
		return suggestions
	default:
		return []Suggestion{}
	}
}

// Stats returns statistics about the loaded catalog
func (c *Completer) Stats() map[string]int {
	return c.catalog.Stats()
}

// FromFunction converts a catalog function into a suggestion.
func FromFunction(fn catalog.Function) Suggestion {
	return Suggestion{
		Label:         fn.Name,
		Kind:          KindMethod,
		Detail:        fn.Signature,
		Documentation: fn.Description,
		InsertText:    fn.Example,
		Snippet:       snippet.IsTemplate(fn.Example),
	}
}

// FromObject converts a script object into a bare identifier suggestion.
func FromObject(obj catalog.Object) Suggestion {
	return Suggestion{
		Label:         obj.Name(),
		Kind:          KindVariable,
		Documentation: obj.Description,
		InsertText:    obj.Name(),
	}
}
