// Package variable implements the variable block: it emits the value bound
// to a name in the union of user variables and built-in placeholders.
package variable

import (
	"context"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

const (
	// KindID identifies this block kind in circuit documents.
	KindID = "variable"

	// PortOutput is the single output port.
	PortOutput = "output"
)

// Module implements schema.Module for this package.
type Module struct{}

// Register registers the variable kind with the registry.
func (m *Module) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:          KindID,
		Description: "Emits the value of a user variable or built-in placeholder.",
		Outputs: []schema.Port{
			// Variables carry strings or numbers; the port type follows
			// whatever the table binds at run time.
			{Name: PortOutput, Type: cty.DynamicPseudoType},
		},
		Settings: []schema.SettingSpec{
			{
				Name:     "variable",
				Type:     cty.String,
				Required: true,
			},
		},
		Run: run,
	})
}

func run(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
	name := settings.String("variable")
	val, ok := chat.ResolveVariable(name)
	if !ok {
		return nil, &chatctx.UnknownVariableError{Name: name}
	}
	return map[string]cty.Value{PortOutput: val}, nil
}
