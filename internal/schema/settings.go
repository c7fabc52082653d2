package schema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Settings is a node's configuration after decoding against its kind's
// setting schema: every value is typed, defaulted, and checked.
type Settings map[string]cty.Value

// String returns the named setting as a Go string. Decoded settings are
// guaranteed to match their declared type, so absence yields "".
func (s Settings) String(name string) string {
	v, ok := s[name]
	if !ok || v.IsNull() {
		return ""
	}
	return v.AsString()
}

// Int returns the named setting as a Go int, or 0 when absent.
func (s Settings) Int(name string) int {
	v, ok := s[name]
	if !ok || v.IsNull() {
		return 0
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

// Has reports whether the named setting carries a value.
func (s Settings) Has(name string) bool {
	v, ok := s[name]
	return ok && !v.IsNull()
}

// CheckFunc validates a single decoded setting value.
type CheckFunc func(v cty.Value) error

// SettingSpec declares one entry of a kind's setting schema.
type SettingSpec struct {
	Name     string
	Type     cty.Type
	Required bool
	// Default is applied when the setting is absent or blank. cty.NilVal
	// means "no default": the decoded settings simply omit the entry.
	Default cty.Value
	Check   CheckFunc
}

// OneOf returns a check accepting only the listed string values.
func OneOf(allowed ...string) CheckFunc {
	return func(v cty.Value) error {
		if v.IsNull() {
			return fmt.Errorf("must not be null")
		}
		got := v.AsString()
		for _, a := range allowed {
			if got == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), got)
	}
}

// IntBetween returns a check enforcing an inclusive whole-number range.
func IntBetween(min, max int64) CheckFunc {
	return func(v cty.Value) error {
		if v.IsNull() {
			return fmt.Errorf("must not be null")
		}
		i, acc := v.AsBigFloat().Int64()
		if acc != big.Exact {
			return fmt.Errorf("must be a whole number")
		}
		if i < min || i > max {
			return fmt.Errorf("must be between %d and %d, got %d", min, max, i)
		}
		return nil
	}
}

// MinInt returns a check enforcing an inclusive whole-number lower bound.
func MinInt(min int64) CheckFunc {
	return func(v cty.Value) error {
		if v.IsNull() {
			return fmt.Errorf("must not be null")
		}
		i, acc := v.AsBigFloat().Int64()
		if acc != big.Exact {
			return fmt.Errorf("must be a whole number")
		}
		if i < min {
			return fmt.Errorf("must be at least %d, got %d", min, i)
		}
		return nil
	}
}

// DecodeSettings converts a node's raw JSON-shaped settings into typed
// values per the kind's schema: unknown keys are rejected, defaults
// applied, types converted, and checks enforced. A blank string supplied
// for a non-string setting counts as absent, so editors may leave numeric
// fields empty.
func (k *Kind) DecodeSettings(raw map[string]any) (Settings, error) {
	specs := make(map[string]*SettingSpec, len(k.Settings))
	for i := range k.Settings {
		specs[k.Settings[i].Name] = &k.Settings[i]
	}

	unknown := make([]string, 0)
	for name := range raw {
		if _, ok := specs[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &SettingError{
			Setting: unknown[0],
			Detail:  fmt.Sprintf("not declared by kind %q", k.ID),
		}
	}

	out := make(Settings, len(k.Settings))
	for _, spec := range k.Settings {
		rawVal, present := raw[spec.Name]
		if present && rawVal == nil {
			// JSON null counts as unset, same as an omitted key.
			present = false
		}
		if present && spec.Type != cty.String {
			// Blank strings stand in for "unset" in editor forms.
			if s, isStr := rawVal.(string); isStr && s == "" {
				present = false
			}
		}
		if !present {
			if spec.Required {
				return nil, &SettingError{Setting: spec.Name, Detail: "required setting is missing"}
			}
			if spec.Default != cty.NilVal {
				out[spec.Name] = spec.Default
			}
			continue
		}

		val, err := toCty(rawVal)
		if err != nil {
			return nil, &SettingError{Setting: spec.Name, Detail: err.Error()}
		}
		val, err = convert.Convert(val, spec.Type)
		if err != nil {
			return nil, &SettingError{
				Setting: spec.Name,
				Detail:  fmt.Sprintf("expected %s: %v", spec.Type.FriendlyName(), err),
			}
		}
		if spec.Check != nil {
			if err := spec.Check(val); err != nil {
				return nil, &SettingError{Setting: spec.Name, Detail: err.Error()}
			}
		}
		out[spec.Name] = val
	}
	return out, nil
}

// PortSettings decodes settings only far enough to derive a kind's live
// port set. Invalid or missing entries fall back to their defaults, so the
// validator can still check edges against the current port names and
// report the setting violation separately.
func (k *Kind) PortSettings(raw map[string]any) Settings {
	out := make(Settings, len(k.Settings))
	for _, spec := range k.Settings {
		if spec.Default != cty.NilVal {
			out[spec.Name] = spec.Default
		}
		rawVal, present := raw[spec.Name]
		if !present || rawVal == nil {
			continue
		}
		val, err := toCty(rawVal)
		if err != nil {
			continue
		}
		val, err = convert.Convert(val, spec.Type)
		if err != nil {
			continue
		}
		if spec.Check != nil && spec.Check(val) != nil {
			continue
		}
		out[spec.Name] = val
	}
	return out
}

// toCty converts a plain JSON-shaped Go value into a cty.Value.
func toCty(raw any) (cty.Value, error) {
	switch v := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return v, nil
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
		ty, err := gocty.ImpliedType(raw)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unsupported setting value of type %T", raw)
		}
		val, err := gocty.ToCtyValue(raw, ty)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unsupported setting value of type %T: %v", raw, err)
		}
		return val, nil
	}
}
