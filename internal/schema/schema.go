// Package schema holds the static catalog of block kinds: the ports each
// kind declares, the setting schema its instances must satisfy, and the
// pure processor function that produces its output values. The registry is
// populated once at process start and read-only afterwards.
package schema

import (
	"context"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/zclconf/go-cty/cty"
)

// Port is a named input or output slot on a block kind.
type Port struct {
	Name string
	// Type is the value type carried by the port. Baseline kinds use
	// cty.String and cty.Number; cty.DynamicPseudoType marks a port that
	// accepts or produces either.
	Type cty.Type
}

// ProcessFunc implements one block kind's value-production rule. It must be
// pure: no I/O, no mutation of its arguments, identical inputs always yield
// identical outputs. Resolved inputs contain an entry per connected input
// port; unconnected ports are simply absent and the kind applies its
// documented default.
type ProcessFunc func(ctx context.Context, settings Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error)

// Kind is the immutable, registry-held descriptor of one block kind.
type Kind struct {
	// ID is the kind identifier referenced by circuit nodes, e.g. "text".
	ID          string
	Description string

	// Inputs and Outputs declare the fixed port sets. A kind whose port
	// set depends on its settings supplies DynamicInputs/DynamicOutputs
	// instead, which take precedence when non-nil.
	Inputs         []Port
	Outputs        []Port
	DynamicInputs  func(settings Settings) []Port
	DynamicOutputs func(settings Settings) []Port

	// Settings is the schema node settings are decoded and validated
	// against.
	Settings []SettingSpec

	// Run is the kind's processor.
	Run ProcessFunc
}

// InputPorts returns the live input port set for the given decoded
// settings, re-deriving dynamically sized ports.
func (k *Kind) InputPorts(settings Settings) []Port {
	if k.DynamicInputs != nil {
		return k.DynamicInputs(settings)
	}
	return k.Inputs
}

// OutputPorts returns the live output port set for the given decoded
// settings.
func (k *Kind) OutputPorts(settings Settings) []Port {
	if k.DynamicOutputs != nil {
		return k.DynamicOutputs(settings)
	}
	return k.Outputs
}

// Module is implemented by packages that contribute block kinds to a
// registry. Hosts extend the engine by passing extra modules at startup.
type Module interface {
	Register(r *Registry)
}
