// Package character implements the current-character block: it exposes the
// active character's name and numeric id from the execution context.
package character

import (
	"context"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

const (
	// KindID identifies this block kind in circuit documents.
	KindID = "current_character"

	// PortName carries the character's display name.
	PortName = "name"
	// PortCharacterID carries the character's numeric id.
	PortCharacterID = "character_id"
)

// Module implements schema.Module for this package.
type Module struct{}

// Register registers the current_character kind with the registry.
func (m *Module) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:          KindID,
		Description: "Emits the active character's name and id.",
		Outputs: []schema.Port{
			{Name: PortName, Type: cty.String},
			{Name: PortCharacterID, Type: cty.Number},
		},
		Run: run,
	})
}

func run(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
	char, ok := chat.ActiveCharacter()
	if !ok {
		return nil, &chatctx.NoActiveCharacterError{}
	}
	return map[string]cty.Value{
		PortName:        cty.StringVal(char.Name),
		PortCharacterID: cty.NumberIntVal(char.ID),
	}, nil
}
