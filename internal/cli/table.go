package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/bastiangx/axserve/internal/utils"
	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ListOptions selects the rows RenderCatalog prints.
type ListOptions struct {
	// Namespaces to list, in order. Empty means all of them.
	Namespaces []catalog.Namespace
	// Prefix keeps only names starting with it.
	Prefix     string
	IgnoreCase bool
}

// RenderCatalog writes the selected functions as a table and returns how many
// rows it printed.
func RenderCatalog(w io.Writer, cat *catalog.Catalog, opts ListOptions) int {
	namespaces := opts.Namespaces
	if len(namespaces) == 0 {
		namespaces = catalog.Namespaces
	}

	// Only the global namespace is grouped.
	categoryOf := make(map[string]string)
	for _, c := range cat.Categories() {
		for _, fn := range c.Functions {
			categoryOf[fn.Name] = c.Name
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Namespace", "Category", "Name", "Signature"})

	rows := 0
	for _, ns := range namespaces {
		for _, fn := range matching(cat, ns, opts) {
			category := ""
			if ns == catalog.Global {
				category = categoryOf[fn.Name]
			}
			rows++
			t.AppendRow(table.Row{rows, ns.String(), category, fn.Name, fn.Signature})
		}
	}

	if rows == 0 {
		_, _ = fmt.Fprintln(w, "(0 functions)")
		return 0
	}
	t.Render()
	return rows
}

func matching(cat *catalog.Catalog, ns catalog.Namespace, opts ListOptions) []catalog.Function {
	if !opts.IgnoreCase {
		return cat.Search(ns, opts.Prefix)
	}
	return slices.DeleteFunc(cat.Functions(ns), func(fn catalog.Function) bool {
		return !utils.HasPrefixIgnoreCase(fn.Name, opts.Prefix)
	})
}

// RenderStats writes catalog counts as a two column table, in namespace
// order followed by any remaining keys.
func RenderStats(w io.Writer, stats map[string]int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Entries"})

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	order := []string{"categories", "ax", "form", "menu", "command"}
	slices.SortFunc(keys, func(a, b string) int {
		ia, ib := slices.Index(order, a), slices.Index(order, b)
		switch {
		case ia >= 0 && ib >= 0:
			return ia - ib
		case ia >= 0:
			return -1
		case ib >= 0:
			return 1
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})

	for _, k := range keys {
		t.AppendRow(table.Row{k, stats[k]})
	}
	t.Render()
}
