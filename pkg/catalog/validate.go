package catalog

import (
	"errors"
	"fmt"

	"github.com/bastiangx/axserve/internal/utils"
	"github.com/bastiangx/axserve/pkg/snippet"
)

// Validate checks the tables for mistakes a maintainer can make while adding
// functions: empty, malformed or duplicate names within a namespace, examples whose
// placeholders do not parse, and tab stops that skip an index. Every problem
// found is reported, joined into one error.
func Validate(c *Catalog) error {
	var errs []error
	for _, ns := range Namespaces {
		filter := utils.NewNameFilter()
		for pos, fn := range c.list(ns) {
			if fn.Name == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: empty name", ns, pos))
				continue
			}
			if !utils.IsIdentifier(fn.Name) {
				errs = append(errs, fmt.Errorf("%s[%d]: %q is not an identifier", ns, pos, fn.Name))
			}
			if first, ok := filter.Add(fn.Name, pos); !ok {
				errs = append(errs, fmt.Errorf("%s.%s: duplicate name (first declared at %d)", ns, fn.Name, first))
			}
			if err := validateExample(fn.Example); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", ns, fn.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func validateExample(example string) error {
	if !snippet.IsTemplate(example) {
		return nil
	}
	tmpl, err := snippet.Parse(example)
	if err != nil {
		return err
	}
	if !tmpl.Contiguous() {
		return fmt.Errorf("tab stops %v are not contiguous from 1", tmpl.Indices())
	}
	return nil
}
