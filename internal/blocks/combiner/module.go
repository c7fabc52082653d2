// Package combiner implements the string combiner block: it joins the
// string form of its connected inputs in port order. The live input port
// count is derived from the `inputs` setting.
package combiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	// KindID identifies this block kind in circuit documents.
	KindID = "combiner"

	// PortOutput is the single output port.
	PortOutput = "output"

	// MinInputs and MaxInputs bound the live input port count.
	MinInputs = 2
	MaxInputs = 8
)

// Module implements schema.Module for this package.
type Module struct{}

// Register registers the combiner kind with the registry.
func (m *Module) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:          KindID,
		Description: "Concatenates its inputs, joined by a separator.",
		Outputs: []schema.Port{
			{Name: PortOutput, Type: cty.String},
		},
		Settings: []schema.SettingSpec{
			{
				Name:    "inputs",
				Type:    cty.Number,
				Default: cty.NumberIntVal(MinInputs),
				Check:   schema.IntBetween(MinInputs, MaxInputs),
			},
			{
				Name:    "separator",
				Type:    cty.String,
				Default: cty.StringVal(""),
			},
		},
		DynamicInputs: inputPorts,
		Run:           run,
	})
}

// InputPort names the n-th live input port, counting from 1.
func InputPort(n int) string {
	return fmt.Sprintf("input%d", n)
}

func inputPorts(settings schema.Settings) []schema.Port {
	count := settings.Int("inputs")
	ports := make([]schema.Port, 0, count)
	for i := 1; i <= count; i++ {
		ports = append(ports, schema.Port{Name: InputPort(i), Type: cty.DynamicPseudoType})
	}
	return ports
}

func run(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
	count := settings.Int("inputs")
	separator := settings.String("separator")

	parts := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		val, connected := inputs[InputPort(i)]
		if !connected || val.IsNull() {
			// An unconnected input contributes an empty string.
			parts = append(parts, "")
			continue
		}
		// Plain stringification: numbers render without locale formatting.
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, &schema.TypeConversionError{
				Value: val.Type().FriendlyName(),
				Want:  "string",
				Cause: err,
			}
		}
		parts = append(parts, str.AsString())
	}

	return map[string]cty.Value{PortOutput: cty.StringVal(strings.Join(parts, separator))}, nil
}
