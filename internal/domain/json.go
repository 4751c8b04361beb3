package domain

import (
	"encoding/json"
	"fmt"
)

// jsonRepr renders v to a canonical JSON string for structural comparison.
// Used only by ParamValue.Equal for the ParamJSON variant.
func jsonRepr(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// paramValueWire is the on-disk/on-wire shape of a ParamValue, used by both
// the file tier's strategies.json and the migration toolkit's export format.
type paramValueWire struct {
	Type ParamType `json:"type"`
	I    int64     `json:"i,omitempty"`
	F    float64   `json:"f,omitempty"`
	S    string    `json:"s,omitempty"`
	J    any       `json:"j,omitempty"`
}

// MarshalJSON renders a ParamValue as a tagged object so the JSON file tier
// round-trips the type information an untyped map would lose.
func (p ParamValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(paramValueWire{Type: p.Type, I: p.I, F: p.F, S: p.S, J: p.J})
}

// UnmarshalJSON restores a ParamValue from its tagged-object form.
func (p *ParamValue) UnmarshalJSON(b []byte) error {
	var w paramValueWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Type {
	case ParamInt, ParamFloat, ParamString, ParamJSON:
		*p = ParamValue{Type: w.Type, I: w.I, F: w.F, S: w.S, J: w.J}
		return nil
	default:
		return fmt.Errorf("domain: unknown ParamValue type %q", w.Type)
	}
}
