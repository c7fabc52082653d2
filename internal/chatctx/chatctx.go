// Package chatctx defines the narrow read-only interface through which the
// engine sees the surrounding chat runtime: the active character, the chat
// history, and the variable table. The engine never mutates or caches this
// state; each execution receives a fresh snapshot built by the host.
package chatctx

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Character is the active character's identity.
type Character struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Role classifies a chat message. History filtering recognizes RoleUser and
// RoleAI; any other value counts as "other".
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one entry of the ordered chat history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider supplies the runtime context a circuit executes against.
// Implementations must be read-only for the duration of a run.
type Provider interface {
	// ActiveCharacter returns the active character, or ok=false when none
	// is set.
	ActiveCharacter() (Character, bool)
	// ChatHistory returns the chat history in chronological order.
	ChatHistory() []Message
	// ResolveVariable looks up a name in the union of user-defined
	// variables and built-in placeholders.
	ResolveVariable(name string) (cty.Value, bool)
}

// NoActiveCharacterError reports a block that needs an active character
// when none is set. It is node-local.
type NoActiveCharacterError struct{}

func (e *NoActiveCharacterError) Error() string {
	return "no active character is set"
}

// UnknownVariableError reports a reference to a variable that is neither
// user-defined nor a built-in placeholder. It is node-local.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}
