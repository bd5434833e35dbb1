package suggest

import (
	"reflect"
	"testing"

	"github.com/bastiangx/axserve/pkg/catalog"
)

func labels(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Label
	}
	return out
}

func namesOf(fns []catalog.Function) []string {
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Name
	}
	return out
}

func TestCompleteNamespaces(t *testing.T) {
	c := NewCompleter(nil)
	cat := catalog.Default()

	// prefix is the line up to the cursor, want is the namespace whose
	// functions must come back in declaration order
	testCases := []struct {
		prefix string
		want   catalog.Namespace
	}{
		{"ax.", catalog.Global},
		{"    let x = ax.", catalog.Global},
		{"max.", catalog.Global},
		{"form.", catalog.Form},
		{"let dlg = form.", catalog.Form},
		{"menu.", catalog.Menu},
		{"cmd.addArgString", catalog.Command},
		{"cmd.setPreHook(", catalog.Command},
		{"x.addSub", catalog.Command},
		{"_cmd_1.", catalog.Command},
		{"let y = _cmd.", catalog.Command},
		// the method pattern is not anchored, so it wins anywhere on the line
		{"cmd.addArgInt(\"n\", true, 0); foo.", catalog.Command},
	}

	for _, tc := range testCases {
		got := c.Complete(tc.prefix)
		want := namesOf(cat.Functions(tc.want))
		if !reflect.DeepEqual(labels(got), want) {
			t.Errorf("Complete(%q): expected %s functions %v, got %v", tc.prefix, tc.want, want, labels(got))
		}
	}
}

func TestCompleteGlobalHasEveryFunction(t *testing.T) {
	got := NewCompleter(nil).Complete("ax.")
	if len(got) != 36 {
		t.Fatalf("expected 36 suggestions, got %d", len(got))
	}
	if got[0].Label != "agents" {
		t.Errorf("expected first suggestion agents, got %s", got[0].Label)
	}
	if got[len(got)-1].Label != "open_browser_files" {
		t.Errorf("expected last suggestion open_browser_files, got %s", got[len(got)-1].Label)
	}
}

func TestCompleteObjects(t *testing.T) {
	c := NewCompleter(nil)

	for _, prefix := range []string{"", "a", "foo_bar", "let x = ", "\t"} {
		got := c.Complete(prefix)
		if !reflect.DeepEqual(labels(got), []string{"ax", "form", "menu"}) {
			t.Errorf("Complete(%q): expected objects, got %v", prefix, labels(got))
			continue
		}
		for _, s := range got {
			if s.Kind != KindVariable {
				t.Errorf("%s: expected variable kind, got %s", s.Label, s.Kind)
			}
			if s.Detail != "" {
				t.Errorf("%s: expected no detail, got %q", s.Label, s.Detail)
			}
			if s.Documentation == "" {
				t.Errorf("%s: expected documentation", s.Label)
			}
			if s.InsertText != s.Label || s.Snippet {
				t.Errorf("%s: expected literal insert of the identifier, got %q", s.Label, s.InsertText)
			}
		}
	}
}

func TestCompleteEmpty(t *testing.T) {
	c := NewCompleter(nil)

	for _, prefix := range []string{"foo.", "somevar.otherMethod", "ax.agents().", "cmd.", "a.b"} {
		got := c.Complete(prefix)
		if got == nil {
			t.Errorf("Complete(%q): expected empty slice, got nil", prefix)
		}
		if len(got) != 0 {
			t.Errorf("Complete(%q): expected nothing, got %v", prefix, labels(got))
		}
	}
}

func TestResolve(t *testing.T) {
	c := NewCompleter(nil)

	testCases := []struct {
		prefix string
		scope  Scope
		ns     catalog.Namespace
	}{
		{"ax.", ScopeFunctions, catalog.Global},
		{"form.", ScopeFunctions, catalog.Form},
		{"menu.", ScopeFunctions, catalog.Menu},
		{"c.addArgFile", ScopeFunctions, catalog.Command},
		{"abc", ScopeObjects, 0},
		{"x.y", ScopeNone, 0},
	}

	for _, tc := range testCases {
		scope, ns := c.Resolve(tc.prefix)
		if scope != tc.scope {
			t.Errorf("Resolve(%q): expected scope %s, got %s", tc.prefix, tc.scope, scope)
			continue
		}
		if scope == ScopeFunctions && ns != tc.ns {
			t.Errorf("Resolve(%q): expected namespace %s, got %s", tc.prefix, tc.ns, ns)
		}
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	c := NewCompleter(nil)
	for _, prefix := range []string{"ax.", "form.", "x", "_cmd2.", "nope."} {
		first := c.Complete(prefix)
		second := c.Complete(prefix)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Complete(%q) changed between calls", prefix)
		}
	}
}

func TestFromFunction(t *testing.T) {
	testCases := []struct {
		fn      catalog.Function
		snippet bool
	}{
		{catalog.Function{Name: "agents", Signature: "() → AGENT[id]", Description: "all agents", Example: "agents()"}, false},
		{catalog.Function{Name: "arch", Signature: "(string id) → string", Description: "arch", Example: `arch("${1:id}")`}, true},
		{catalog.Function{Name: "odd", Example: "odd($1)"}, false},
	}

	for _, tc := range testCases {
		s := FromFunction(tc.fn)
		if s.Label != tc.fn.Name || s.Detail != tc.fn.Signature || s.Documentation != tc.fn.Description {
			t.Errorf("%s: fields not carried over: %+v", tc.fn.Name, s)
		}
		if s.InsertText != tc.fn.Example {
			t.Errorf("%s: expected insert %q, got %q", tc.fn.Name, tc.fn.Example, s.InsertText)
		}
		if s.Kind != KindMethod {
			t.Errorf("%s: expected method kind, got %s", tc.fn.Name, s.Kind)
		}
		if s.Snippet != tc.snippet {
			t.Errorf("%s: expected snippet=%v, got %v", tc.fn.Name, tc.snippet, s.Snippet)
		}
	}
}

func TestCompleterOverCustomCatalog(t *testing.T) {
	custom := catalog.New(
		[]catalog.Category{{Name: "Only", Functions: []catalog.Function{{Name: "one", Example: "one()"}}}},
		nil, nil, nil,
	)
	c := NewCompleter(custom)

	if got := labels(c.Complete("ax.")); !reflect.DeepEqual(got, []string{"one"}) {
		t.Errorf("expected [one], got %v", got)
	}
	if got := c.Complete("form."); len(got) != 0 || got == nil {
		t.Errorf("expected empty non-nil form list, got %v", got)
	}
	if c.Stats()["ax"] != 1 {
		t.Errorf("expected stats to report 1 global function, got %d", c.Stats()["ax"])
	}
}

func TestCompleterImplementsInterface(t *testing.T) {
	var _ ICompleter = NewCompleter(nil)
}
