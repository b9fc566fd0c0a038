package model

// FieldState classifies the outcome of a single field extraction.
type FieldState string

const (
	// FieldFound means the locator matched and the value parsed cleanly.
	FieldFound FieldState = "found"
	// FieldNotFound means no pattern matched anywhere in the document.
	FieldNotFound FieldState = "not_found"
	// FieldInvalid means a label matched but the captured span could not be
	// parsed, which downstream consumers must distinguish from a clean miss.
	FieldInvalid FieldState = "invalid"
)

// Sentinel strings rendered into exported records. Downstream consumers key on
// these exact values, so they are fixed here rather than per call site.
const (
	SentinelNotFound = "Not found"
	SentinelUnknown  = "Unknown"
	SentinelInvalid  = "Invalid format"
)

// Field is the tagged result of one locator: a canonical value plus the raw
// matched span, or one of the two terminal non-value states. Absence is a
// legitimate outcome, never an error.
type Field struct {
	State FieldState `json:"state"`
	Value string     `json:"value,omitempty"`
	Raw   string     `json:"raw,omitempty"`
}

// Found builds a successfully extracted field.
func Found(value, raw string) Field {
	return Field{State: FieldFound, Value: value, Raw: raw}
}

// NotFound builds the no-match result.
func NotFound() Field {
	return Field{State: FieldNotFound}
}

// Invalid builds the matched-but-unparseable result, keeping the raw span for
// diagnostics.
func Invalid(raw string) Field {
	return Field{State: FieldInvalid, Raw: raw}
}

// Render returns the field value, or the given sentinel when nothing was
// found, or the invalid-format sentinel when a match failed to parse.
func (f Field) Render(missing string) string {
	switch f.State {
	case FieldFound:
		return f.Value
	case FieldInvalid:
		return SentinelInvalid
	default:
		return missing
	}
}

// OK reports whether the field holds a usable value.
func (f Field) OK() bool {
	return f.State == FieldFound
}
