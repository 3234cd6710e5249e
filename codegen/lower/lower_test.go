package lower

import (
	"testing"

	"github.com/oakline-labs/playwright-go/codegen/schema"
)

func TestPrimitiveTypesLowerDirectly(t *testing.T) {
	l := New()
	cases := []struct {
		kind schema.TypeKind
		want string
	}{
		{schema.TypeString, "string"},
		{schema.TypeBoolean, "bool"},
		{schema.TypeInt, "int64"},
		{schema.TypeFloat, "float64"},
		{schema.TypeVoid, "struct{}"},
		{schema.TypeAny, "json.RawMessage"},
	}
	for _, c := range cases {
		if got := l.Type(schema.Type{Kind: c.kind}, "member", "Result"); got != c.want {
			t.Errorf("%s lowers to %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestArrayLowersToSlice(t *testing.T) {
	l := New()
	elem := schema.Type{Kind: schema.TypeString}
	got := l.Type(schema.Type{Kind: schema.TypeArray, Element: &elem}, "member", "Result")
	if got != "[]string" {
		t.Fatalf("array lowers to %q, want []string", got)
	}
}

func TestObjectWithFieldsIsHoisted(t *testing.T) {
	l := New()
	obj := schema.Type{Kind: schema.TypeObject, Fields: []schema.Field{
		{Name: "width", Type: schema.Type{Kind: schema.TypeInt}, Required: true},
		{Name: "height", Type: schema.Type{Kind: schema.TypeInt}, Required: false},
	}}
	name := l.Type(obj, "setViewport", "Result")
	if name == "string" || name == "" {
		t.Fatalf("expected a hoisted type name, got %q", name)
	}
	if len(l.Hoisted) != 1 {
		t.Fatalf("expected exactly one hoisted type, got %d", len(l.Hoisted))
	}
	h := l.Hoisted[0]
	if h.Name != name || h.IsEnum {
		t.Fatalf("hoisted type mismatch: %+v", h)
	}
	if len(h.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(h.Fields))
	}
	if !h.Fields[1].Optional {
		t.Fatalf("height field should be optional")
	}
}

func TestLiteralUnionIsHoistedAsEnum(t *testing.T) {
	l := New()
	union := schema.Type{Kind: schema.TypeUnion, Variants: []schema.Type{
		{Kind: schema.TypeLiteral, Literal: "load"},
		{Kind: schema.TypeLiteral, Literal: "domcontentloaded"},
	}}
	name := l.Type(union, "goto", "WaitUntil")
	if len(l.Hoisted) != 1 || !l.Hoisted[0].IsEnum {
		t.Fatalf("expected one enum hoisted, got %+v", l.Hoisted)
	}
	if l.Hoisted[0].Name != name {
		t.Fatalf("returned type %q does not match hoisted name %q", name, l.Hoisted[0].Name)
	}
	if len(l.Hoisted[0].Variants) != 2 {
		t.Fatalf("expected 2 enum variants, got %d", len(l.Hoisted[0].Variants))
	}
}

func TestNullableUnionOfSingleTypeIsPointer(t *testing.T) {
	l := New()
	union := schema.Type{Kind: schema.TypeUnion, Nullable: true, Variants: []schema.Type{
		{Kind: schema.TypeString},
	}}
	got := l.Type(union, "member", "Result")
	if got != "*string" {
		t.Fatalf("nullable string union lowers to %q, want *string", got)
	}
}

func TestRefTypeCarriesGUID(t *testing.T) {
	l := New()
	got := l.Type(schema.Type{Kind: schema.TypeRef, RefName: "Browser"}, "member", "Result")
	if got == "" {
		t.Fatal("ref type lowered to empty string")
	}
}

func TestFlattenArgsExpandsOptionsObject(t *testing.T) {
	l := New()
	args := []schema.Arg{
		{Name: "url", Type: schema.Type{Kind: schema.TypeString}, Required: true},
		{Name: "options", Required: false, Type: schema.Type{Kind: schema.TypeObject, Fields: []schema.Field{
			{Name: "timeout", Type: schema.Type{Kind: schema.TypeFloat}, Required: false},
			{Name: "waitUntil", Type: schema.Type{Kind: schema.TypeString}, Required: false},
		}}},
	}
	flat := FlattenArgs(l, "goto", args)
	if len(flat) != 3 {
		t.Fatalf("expected 3 flattened args (url + 2 options fields), got %d: %+v", len(flat), flat)
	}
	if flat[0].GoName == "" || flat[0].Optional {
		t.Fatalf("url arg should be required, got %+v", flat[0])
	}
	for _, a := range flat[1:] {
		if !a.Optional {
			t.Fatalf("flattened options field %+v should be optional", a)
		}
	}
}

func TestNeedsBuilderRequiresMoreThanOneOptional(t *testing.T) {
	one := []Arg{{GoName: "A", Optional: true}}
	two := []Arg{{GoName: "A", Optional: true}, {GoName: "B", Optional: true}}
	if NeedsBuilder(one) {
		t.Fatal("one optional arg must not require a builder")
	}
	if !NeedsBuilder(two) {
		t.Fatal("two optional args must require a builder")
	}
}

func TestSortHoistedIsDeterministic(t *testing.T) {
	in := []Hoisted{{Name: "Zeta"}, {Name: "Alpha"}, {Name: "Mu"}}
	out := SortHoisted(in)
	if out[0].Name != "Alpha" || out[1].Name != "Mu" || out[2].Name != "Zeta" {
		t.Fatalf("unexpected order: %+v", out)
	}
}
