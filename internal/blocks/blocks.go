// Package blocks collects the baseline block kinds shipped with the
// engine. Hosts install them via CoreModules and may append their own
// schema.Module implementations for custom kinds.
package blocks

import (
	"github.com/theFisher86/coolChat-sub000/internal/blocks/character"
	"github.com/theFisher86/coolChat-sub000/internal/blocks/combiner"
	"github.com/theFisher86/coolChat-sub000/internal/blocks/history"
	"github.com/theFisher86/coolChat-sub000/internal/blocks/text"
	"github.com/theFisher86/coolChat-sub000/internal/blocks/variable"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
)

// CoreModules lists the built-in block kinds in registration order.
var CoreModules = []schema.Module{
	&text.Module{},
	&character.Module{},
	&history.Module{},
	&variable.Module{},
	&combiner.Module{},
}

// NewRegistry builds a registry with the core modules plus any extras
// installed.
func NewRegistry(extras ...schema.Module) *schema.Registry {
	r := schema.NewRegistry()
	for _, m := range CoreModules {
		m.Register(r)
	}
	for _, m := range extras {
		m.Register(r)
	}
	return r
}
