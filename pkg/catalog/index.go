package catalog

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// buildIndex stores every function name in a per-namespace trie. Items are
// positions into the namespace table so results can be put back in
// declaration order.
func buildIndex(c *Catalog) map[Namespace]*patricia.Trie {
	index := make(map[Namespace]*patricia.Trie, len(Namespaces))
	for _, ns := range Namespaces {
		trie := patricia.NewTrie()
		for pos, fn := range c.list(ns) {
			// First declaration wins; duplicates are reported by Validate.
			trie.Insert(patricia.Prefix(fn.Name), pos)
		}
		index[ns] = trie
	}
	return index
}

// Lookup finds a function by exact name.
func (c *Catalog) Lookup(ns Namespace, name string) (Function, bool) {
	trie, ok := c.index[ns]
	if !ok || name == "" {
		return Function{}, false
	}
	item := trie.Get(patricia.Prefix(name))
	if item == nil {
		return Function{}, false
	}
	return c.list(ns)[item.(int)], true
}

// Search returns the functions of ns whose name starts with prefix, in
// declaration order. An empty prefix matches everything.
func (c *Catalog) Search(ns Namespace, prefix string) []Function {
	trie, ok := c.index[ns]
	if !ok {
		return nil
	}
	if prefix == "" {
		return c.Functions(ns)
	}

	var positions []int
	err := trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		pos, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for name %s", item, p)
			return nil
		}
		positions = append(positions, pos)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting catalog index: %v", err)
		return nil
	}

	slices.Sort(positions)
	list := c.list(ns)
	results := make([]Function, 0, len(positions))
	for _, pos := range positions {
		results = append(results, list[pos])
	}
	return results
}

// Find looks name up across every namespace, in Namespaces order.
func (c *Catalog) Find(name string) (Namespace, Function, bool) {
	for _, ns := range Namespaces {
		if fn, ok := c.Lookup(ns, name); ok {
			return ns, fn, true
		}
	}
	return 0, Function{}, false
}
