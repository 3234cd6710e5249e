package protocol

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// TestGUIDRefRoundtripProperty validates the codec roundtrip invariant:
// encoding then decoding an arbitrary value that embeds a Remote
// Object reference yields an equivalent value, with the reference resolved
// back to the live handle the resolver knows about.
func TestGUIDRefRoundtripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	type handle struct{ GUID string }

	properties.Property("guid refs roundtrip through encode/decode", prop.ForAll(
		func(guid, key string, n int) bool {
			if guid == "" {
				return true // encoder never resolves the empty guid in this test
			}
			h := handle{GUID: guid}
			encode := func(v any) (string, bool) {
				if hv, ok := v.(handle); ok {
					return hv.GUID, true
				}
				return "", false
			}
			resolve := func(g string) (any, bool) {
				if g == guid {
					return h, true
				}
				return nil, false
			}

			payload := map[string]any{
				key: h,
				"n": float64(n),
				"nested": map[string]any{
					"items": []any{h, float64(n)},
				},
			}
			data, err := EncodeValue(payload, encode)
			if err != nil {
				return false
			}
			decoded, err := DecodeValue(data, resolve)
			if err != nil {
				return false
			}
			m, ok := decoded.(map[string]any)
			if !ok {
				return false
			}
			return m[key] == h
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

func TestEncodeValuePassesPlainValuesThrough(t *testing.T) {
	data, err := EncodeValue(map[string]any{"url": "https://example/"}, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"url":"https://example/"}`, string(data))
}

func TestDecodeValueLeavesUnknownGUIDAsMap(t *testing.T) {
	var raw json.RawMessage = []byte(`{"ref":{"guid":"unknown"}}`)
	decoded, err := DecodeValue(raw, func(string) (any, bool) { return nil, false })
	require.NoError(t, err)
	m := decoded.(map[string]any)
	ref := m["ref"].(map[string]any)
	require.Equal(t, "unknown", ref["guid"])
}
