package chatctx

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// snapshotDoc is the JSON shape a host CLI supplies a chat context in.
type snapshotDoc struct {
	Character *Character     `json:"character,omitempty"`
	History   []Message      `json:"history,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

// DecodeSnapshot reads a context document and builds a Snapshot with the
// built-in placeholders derived from the character. Variable values may be
// JSON strings, numbers, or booleans.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc snapshotDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode context document: %w", err)
	}

	vars := make(map[string]cty.Value, len(doc.Variables))
	for name, raw := range doc.Variables {
		val, err := variableValue(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = val
	}

	return NewSnapshot(doc.Character, doc.History, vars, BuiltinPlaceholders(doc.Character)), nil
}

func variableValue(raw any) (cty.Value, error) {
	switch v := raw.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case json.Number:
		f, _, err := big.ParseFloat(v.String(), 10, 512, big.ToNearestEven)
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid number %q", v.String())
		}
		return cty.NumberVal(f), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported variable value of type %T", raw)
	}
}
