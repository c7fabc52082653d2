package schema

import "fmt"

// UnknownKindError reports a node referencing a kind that was never
// registered. It is fatal and surfaces before any evaluation.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown block kind %q", e.Kind)
}

// TypeConversionError reports a value that could not be converted to the
// type a port or setting requires, e.g. a text block in numeric mode whose
// content does not parse as a number. It is node-local.
type TypeConversionError struct {
	Value string
	Want  string
	Cause error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Want, e.Cause)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Cause
}

// SettingError reports a node setting that violates its kind's schema.
type SettingError struct {
	Setting string
	Detail  string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("invalid setting %q: %s", e.Setting, e.Detail)
}
