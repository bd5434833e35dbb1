/*
Package catalog holds the built-in AXS function vocabulary.

The vocabulary is split in four namespaces. The global "ax" object is grouped
into display categories; the form, menu and command-object namespaces are flat
lists. Everything is declared once as package data and never changes while the
process runs, so a *Catalog can be shared freely between goroutines.

Enumeration always follows declaration order: categories as declared, then
functions within each category as declared.

	c := catalog.Default()
	for _, fn := range c.Functions(catalog.Global) {
		fmt.Println(fn.Name, fn.Signature)
	}
*/
package catalog

import (
	"slices"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Function describes one built-in function.
type Function struct {
	// Name is the bare identifier typed after the namespace dot.
	Name string
	// Signature is display text only, it is never parsed.
	Signature   string
	Description string
	// Example is inserted on completion. It is a snippet template when it
	// contains "${", literal text otherwise.
	Example string
}

// Category is a named group of global functions.
type Category struct {
	Name      string
	Functions []Function
}

// Namespace selects one of the four vocabularies.
type Namespace int

const (
	Global Namespace = iota
	Form
	Menu
	Command
)

// Namespaces lists every namespace in presentation order.
var Namespaces = []Namespace{Global, Form, Menu, Command}

func (ns Namespace) String() string {
	switch ns {
	case Global:
		return "ax"
	case Form:
		return "form"
	case Menu:
		return "menu"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// ParseNamespace maps an identifier back to its Namespace.
func ParseNamespace(s string) (Namespace, bool) {
	switch s {
	case "ax", "global":
		return Global, true
	case "form":
		return Form, true
	case "menu":
		return Menu, true
	case "command", "cmd":
		return Command, true
	}
	return 0, false
}

// Object is one of the script-level objects a user types before the dot.
type Object struct {
	Namespace   Namespace
	Detail      string
	Description string
}

// Name returns the identifier of the object.
func (o Object) Name() string {
	return o.Namespace.String()
}

// Catalog is an immutable, indexed view of the function tables.
type Catalog struct {
	categories []Category
	global     []Function
	form       []Function
	menu       []Function
	command    []Function
	objects    []Object
	index      map[Namespace]*patricia.Trie
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the shipped AXS catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(axsCategories, formFunctions, menuFunctions, commandFunctions)
	})
	return defaultCatalog
}

// New builds a catalog over the given tables. The tables are copied.
func New(categories []Category, form, menu, command []Function) *Catalog {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		form:       slices.Clone(form),
		menu:       slices.Clone(menu),
		command:    slices.Clone(command),
		objects:    slices.Clone(scriptObjects),
	}
	for _, cat := range categories {
		fns := slices.Clone(cat.Functions)
		c.categories = append(c.categories, Category{Name: cat.Name, Functions: fns})
		c.global = append(c.global, fns...)
	}
	c.index = buildIndex(c)
	return c
}

// Categories returns the global namespace grouped by category.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Functions: slices.Clone(cat.Functions)}
	}
	return out
}

// Functions returns the functions of ns in declaration order. The global
// namespace is flattened across its categories.
func (c *Catalog) Functions(ns Namespace) []Function {
	return slices.Clone(c.list(ns))
}

// Form returns the form namespace.
func (c *Catalog) Form() []Function { return c.Functions(Form) }

// Menu returns the menu namespace.
func (c *Catalog) Menu() []Function { return c.Functions(Menu) }

// Command returns the functions callable on command objects.
func (c *Catalog) Command() []Function { return c.Functions(Command) }

// Objects returns the top-level script objects (ax, form, menu).
func (c *Catalog) Objects() []Object {
	return slices.Clone(c.objects)
}

// Len returns the number of functions in ns.
func (c *Catalog) Len(ns Namespace) int {
	return len(c.list(ns))
}

// Stats returns counts about the loaded tables.
func (c *Catalog) Stats() map[string]int {
	return map[string]int{
		"categories": len(c.categories),
		"ax":         len(c.global),
		"form":       len(c.form),
		"menu":       len(c.menu),
		"command":    len(c.command),
	}
}

// Each calls fn for every function of ns in order and stops early when fn
// returns false. It does not copy the underlying table.
func (c *Catalog) Each(ns Namespace, fn func(Function) bool) {
	for _, f := range c.list(ns) {
		if !fn(f) {
			return
		}
	}
}

func (c *Catalog) list(ns Namespace) []Function {
	switch ns {
	case Global:
		return c.global
	case Form:
		return c.form
	case Menu:
		return c.menu
	case Command:
		return c.command
	default:
		return nil
	}
}
