package chatctx

import "github.com/zclconf/go-cty/cty"

// Snapshot is an immutable Provider built from plain values. NewSnapshot
// copies everything it is given, so a snapshot stays stable even if the
// host keeps mutating its own chat state during a run.
type Snapshot struct {
	character    *Character
	history      []Message
	variables    map[string]cty.Value
	placeholders map[string]cty.Value
}

// NewSnapshot captures the given chat state. Pass a nil character when no
// character is active. User variables shadow placeholders on name
// collision.
func NewSnapshot(character *Character, history []Message, variables, placeholders map[string]cty.Value) *Snapshot {
	s := &Snapshot{
		history:      make([]Message, len(history)),
		variables:    make(map[string]cty.Value, len(variables)),
		placeholders: make(map[string]cty.Value, len(placeholders)),
	}
	if character != nil {
		c := *character
		s.character = &c
	}
	copy(s.history, history)
	for k, v := range variables {
		s.variables[k] = v
	}
	for k, v := range placeholders {
		s.placeholders[k] = v
	}
	return s
}

// BuiltinPlaceholders derives the standard read-only placeholders exposed
// alongside user variables. With no active character the table is empty.
func BuiltinPlaceholders(character *Character) map[string]cty.Value {
	if character == nil {
		return nil
	}
	return map[string]cty.Value{
		"char":    cty.StringVal(character.Name),
		"char_id": cty.NumberIntVal(character.ID),
	}
}

// ActiveCharacter implements Provider.
func (s *Snapshot) ActiveCharacter() (Character, bool) {
	if s.character == nil {
		return Character{}, false
	}
	return *s.character, true
}

// ChatHistory implements Provider. The returned slice is a copy, so
// callers cannot disturb the snapshot mid-run.
func (s *Snapshot) ChatHistory() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// ResolveVariable implements Provider. User variables take precedence over
// placeholders.
func (s *Snapshot) ResolveVariable(name string) (cty.Value, bool) {
	if v, ok := s.variables[name]; ok {
		return v, true
	}
	if v, ok := s.placeholders[name]; ok {
		return v, true
	}
	return cty.NilVal, false
}
