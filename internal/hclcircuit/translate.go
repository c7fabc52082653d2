package hclcircuit

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// decodeSettings statically evaluates a settings block's attributes into
// plain JSON-shaped values. Circuit settings are literals; expressions that
// need an evaluation context are rejected.
func decodeSettings(block *settingsHCL) (map[string]any, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid settings block: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	settings := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("setting %q must be a literal value: %w", name, diags)
		}
		raw, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", name, err)
		}
		settings[name] = raw
	}
	return settings, nil
}

// ctyToGo converts a primitive cty.Value to its plain Go equivalent.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		return val.True(), nil
	default:
		return nil, fmt.Errorf("unsupported setting type %s", val.Type().FriendlyName())
	}
}

// splitPortRef parses a "node.port" address, splitting at the last dot so
// node ids may themselves contain dots.
func splitPortRef(ref string) (node, port string, err error) {
	at := strings.LastIndex(ref, ".")
	if at <= 0 || at == len(ref)-1 {
		return "", "", fmt.Errorf("invalid port reference %q: want \"node.port\"", ref)
	}
	return ref[:at], ref[at+1:], nil
}
