package schema

import "testing"

func TestDecodeAcceptsValidDescription(t *testing.T) {
	raw := []byte(`{
		"interfaces": [
			{
				"name": "Widget",
				"members": [
					{"name": "label", "kind": "property", "type": {"kind": "string"}},
					{
						"name": "resize",
						"kind": "method",
						"args": [
							{"name": "width", "type": {"kind": "int"}, "required": true},
							{"name": "options", "type": {"kind": "object", "fields": [
								{"name": "animate", "type": {"kind": "boolean"}, "required": false}
							]}, "required": false}
						],
						"type": {"kind": "void"}
					}
				]
			}
		]
	}`)

	api, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(api.Interfaces) != 1 || api.Interfaces[0].Name != "Widget" {
		t.Fatalf("unexpected decode result: %+v", api)
	}
	if len(api.Interfaces[0].Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(api.Interfaces[0].Members))
	}
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	raw := []byte(`{"interfaces": [{"name": "Widget", "members": [], "bogus": true}]}`)
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected schema validation to reject an unknown field")
	}
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	raw := []byte(`{"interfaces": [{"members": []}]}`)
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected schema validation to reject a missing interface name")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatal("expected Decode to reject malformed JSON")
	}
}
