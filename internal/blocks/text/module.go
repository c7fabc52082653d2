// Package text implements the text literal block: it emits its content
// setting verbatim, or converted to a number when configured as numeric.
package text

import (
	"context"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	// KindID identifies this block kind in circuit documents.
	KindID = "text"

	// PortOutput is the single output port.
	PortOutput = "output"

	outputString  = "string"
	outputNumeric = "numeric"
)

// Module implements schema.Module for this package.
type Module struct{}

// Register registers the text kind with the registry.
func (m *Module) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:          KindID,
		Description: "Emits a literal text value, optionally converted to a number.",
		Settings: []schema.SettingSpec{
			{
				Name:    "content",
				Type:    cty.String,
				Default: cty.StringVal(""),
			},
			{
				Name:    "output_type",
				Type:    cty.String,
				Default: cty.StringVal(outputString),
				Check:   schema.OneOf(outputString, outputNumeric),
			},
		},
		DynamicOutputs: outputPorts,
		Run:            run,
	})
}

// outputPorts reports the output's value type, which follows the
// output_type setting.
func outputPorts(settings schema.Settings) []schema.Port {
	ty := cty.String
	if settings.String("output_type") == outputNumeric {
		ty = cty.Number
	}
	return []schema.Port{{Name: PortOutput, Type: ty}}
}

func run(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
	content := settings.String("content")

	if settings.String("output_type") == outputNumeric {
		num, err := convert.Convert(cty.StringVal(content), cty.Number)
		if err != nil {
			return nil, &schema.TypeConversionError{Value: content, Want: "number", Cause: err}
		}
		return map[string]cty.Value{PortOutput: num}, nil
	}

	return map[string]cty.Value{PortOutput: cty.StringVal(content)}, nil
}
