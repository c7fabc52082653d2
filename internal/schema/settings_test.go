package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testKind() *Kind {
	return &Kind{
		ID: "sample",
		Settings: []SettingSpec{
			{Name: "label", Type: cty.String, Default: cty.StringVal("untitled")},
			{Name: "count", Type: cty.Number, Default: cty.NumberIntVal(2), Check: IntBetween(2, 8)},
			{Name: "target", Type: cty.String, Required: true},
		},
		Run: noopRun,
	}
}

func TestDecodeSettings_AppliesDefaults(t *testing.T) {
	t.Parallel()
	settings, err := testKind().DecodeSettings(map[string]any{"target": "out"})
	require.NoError(t, err)

	assert.Equal(t, "untitled", settings.String("label"))
	assert.Equal(t, 2, settings.Int("count"))
	assert.Equal(t, "out", settings.String("target"))
}

func TestDecodeSettings_RequiredMissing(t *testing.T) {
	t.Parallel()
	_, err := testKind().DecodeSettings(nil)
	require.Error(t, err)

	var settingErr *SettingError
	require.ErrorAs(t, err, &settingErr)
	assert.Equal(t, "target", settingErr.Setting)
}

func TestDecodeSettings_UnknownKeyRejected(t *testing.T) {
	t.Parallel()
	_, err := testKind().DecodeSettings(map[string]any{"target": "out", "bogus": 1})
	require.Error(t, err)

	var settingErr *SettingError
	require.ErrorAs(t, err, &settingErr)
	assert.Equal(t, "bogus", settingErr.Setting)
}

func TestDecodeSettings_ConvertsNumericStrings(t *testing.T) {
	t.Parallel()
	settings, err := testKind().DecodeSettings(map[string]any{"target": "out", "count": "4"})
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Int("count"))
}

func TestDecodeSettings_RangeViolation(t *testing.T) {
	t.Parallel()
	for _, bad := range []any{1, 9, 2.5} {
		_, err := testKind().DecodeSettings(map[string]any{"target": "out", "count": bad})
		require.Error(t, err, "count=%v should be rejected", bad)
	}
}

func TestDecodeSettings_BlankStringMeansAbsent(t *testing.T) {
	t.Parallel()
	// Editors submit empty strings for untouched numeric fields; those
	// fall back to the default instead of failing conversion.
	settings, err := testKind().DecodeSettings(map[string]any{"target": "out", "count": ""})
	require.NoError(t, err)
	assert.Equal(t, 2, settings.Int("count"))
}

func TestDecodeSettings_NullMeansAbsent(t *testing.T) {
	t.Parallel()
	// A JSON null decodes to an untyped nil; it must fall back to the
	// default instead of reaching the range check.
	settings, err := testKind().DecodeSettings(map[string]any{"target": "out", "count": nil})
	require.NoError(t, err)
	assert.Equal(t, 2, settings.Int("count"))
}

func TestDecodeSettings_NullRequiredSetting(t *testing.T) {
	t.Parallel()
	_, err := testKind().DecodeSettings(map[string]any{"target": nil})
	require.Error(t, err)

	var settingErr *SettingError
	require.ErrorAs(t, err, &settingErr)
	assert.Equal(t, "target", settingErr.Setting)
}

func TestChecks_RejectNullValues(t *testing.T) {
	t.Parallel()
	assert.Error(t, IntBetween(2, 8)(cty.NullVal(cty.Number)))
	assert.Error(t, MinInt(0)(cty.NullVal(cty.Number)))
	assert.Error(t, OneOf("red")(cty.NullVal(cty.String)))
}

func TestDecodeSettings_TypeMismatch(t *testing.T) {
	t.Parallel()
	_, err := testKind().DecodeSettings(map[string]any{"target": "out", "count": "plenty"})
	require.Error(t, err)
}

func TestPortSettings_FallsBackToDefaults(t *testing.T) {
	t.Parallel()
	// Out-of-range count must not break port derivation; the validator
	// reports the violation separately.
	settings := testKind().PortSettings(map[string]any{"count": 99})
	assert.Equal(t, 2, settings.Int("count"))

	settings = testKind().PortSettings(map[string]any{"count": 5})
	assert.Equal(t, 5, settings.Int("count"))

	settings = testKind().PortSettings(map[string]any{"count": nil})
	assert.Equal(t, 2, settings.Int("count"))
}

func TestOneOf(t *testing.T) {
	t.Parallel()
	check := OneOf("red", "green")
	assert.NoError(t, check(cty.StringVal("red")))
	assert.Error(t, check(cty.StringVal("blue")))
}
