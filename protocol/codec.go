package protocol

import (
	"encoding/json"

	"github.com/oakline-labs/playwright-go/perrors"
)

// GUIDRef is the wire shape of a Remote Object reference: {"guid": "..."}.
type GUIDRef struct {
	GUID string `json:"guid"`
}

// RefEncoder resolves a live value (typically a façade handle) to the guid
// it should be serialized as. It returns ok=false for values that are not
// Remote Object references and should be serialized as plain JSON instead.
type RefEncoder func(v any) (guid string, ok bool)

// RefResolver resolves a guid found on the wire back to a live Go value
// (typically a façade handle looked up in the Object Registry). It returns
// ok=false when the guid is unknown, in which case the raw GUIDRef map is
// left in place.
type RefResolver func(guid string) (v any, ok bool)

// EncodeValue recursively walks v (built from plain Go maps/slices/scalars
// and façade handles) and marshals it to JSON, rewriting any value that
// encode resolves to a guid into the wire {"guid": "..."} shape. Nested
// occurrences inside maps and slices are rewritten recursively.
func EncodeValue(v any, encode RefEncoder) (json.RawMessage, error) {
	rewritten := rewriteForWire(v, encode)
	data, err := json.Marshal(rewritten)
	if err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return data, nil
}

func rewriteForWire(v any, encode RefEncoder) any {
	if encode != nil {
		if guid, ok := encode(v); ok {
			return GUIDRef{GUID: guid}
		}
	}
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = rewriteForWire(e, encode)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = rewriteForWire(e, encode)
		}
		return out
	default:
		return v
	}
}

// DecodeValue unmarshals raw into a generic any tree (maps/slices/scalars)
// and recursively rewrites every {"guid": "..."} occurrence into whatever
// resolve returns for that guid. Unknown guids are left as the raw map so
// callers can still inspect the wire shape.
func DecodeValue(raw json.RawMessage, resolve RefResolver) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, &perrors.Serde{Cause: err, Raw: raw}
	}
	return rewriteFromWire(generic, resolve), nil
}

func rewriteFromWire(v any, resolve RefResolver) any {
	switch val := v.(type) {
	case map[string]any:
		if guid, ok := isGUIDRef(val); ok && resolve != nil {
			if live, ok := resolve(guid); ok {
				return live
			}
		}
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = rewriteFromWire(e, resolve)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = rewriteFromWire(e, resolve)
		}
		return out
	default:
		return v
	}
}

// isGUIDRef reports whether m is exactly the single-field {"guid": "..."}
// shape that denotes a Remote Object reference on the wire.
func isGUIDRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	raw, ok := m["guid"]
	if !ok {
		return "", false
	}
	guid, ok := raw.(string)
	if !ok || guid == "" {
		return "", false
	}
	return guid, true
}
