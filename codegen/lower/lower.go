// Package lower translates schema.Type values into Go type expressions,
// hoisting nested anonymous object and union-of-literal types into
// named, module-level declarations as it goes.
package lower

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oakline-labs/playwright-go/codegen/naming"
	"github.com/oakline-labs/playwright-go/codegen/schema"
)

// Field is one lowered struct field destined for a hoisted type or an
// inline params/result struct.
type Field struct {
	GoName   string
	WireName string
	GoType   string
	Optional bool
}

// Hoisted is a named type the Lowerer produced while lowering a
// containing Type: either a struct (object with fields) or an enum
// (union of string literals).
type Hoisted struct {
	Name     string
	IsEnum   bool
	Fields   []Field
	Variants []naming.EnumVariant
}

// Lowerer accumulates Hoisted declarations across every Type it lowers so
// the caller can emit them once per generated file.
type Lowerer struct {
	Hoisted []Hoisted
	seen    map[string]bool
}

// New returns an empty Lowerer.
func New() *Lowerer { return &Lowerer{seen: make(map[string]bool)} }

// Type returns the Go type expression for t. ownerMember and fieldPath
// scope any type this call hoists, so sibling members never collide.
func (l *Lowerer) Type(t schema.Type, ownerMember, fieldPath string) string {
	switch t.Kind {
	case schema.TypeString:
		return "string"
	case schema.TypeBoolean:
		return "bool"
	case schema.TypeInt:
		return "int64"
	case schema.TypeFloat:
		return "float64"
	case schema.TypeVoid:
		return "struct{}"
	case schema.TypeAny:
		return "json.RawMessage"
	case schema.TypeLiteral:
		return "string"
	case schema.TypeRef:
		// A reference to another remote-object Interface is carried on the
		// wire as {"guid": "..."} and resolved client-side through the
		// Registry, never decoded into a value type.
		return "struct {\n\t\tGUID string `json:\"guid\"`\n\t}"
	case schema.TypeArray:
		if t.Element == nil {
			return "[]json.RawMessage"
		}
		return "[]" + l.Type(*t.Element, ownerMember, fieldPath+"Item")
	case schema.TypeObject:
		return l.object(t, ownerMember, fieldPath)
	case schema.TypeUnion:
		return l.union(t, ownerMember, fieldPath)
	default:
		return "json.RawMessage"
	}
}

func (l *Lowerer) object(t schema.Type, ownerMember, fieldPath string) string {
	if len(t.Fields) == 0 {
		if t.Value != nil {
			return "map[string]" + l.Type(*t.Value, ownerMember, fieldPath+"Value")
		}
		return "map[string]json.RawMessage"
	}
	name := naming.HoistedTypeName(ownerMember, fieldPath)
	if l.seen[name] {
		return name
	}
	l.seen[name] = true

	fields := make([]Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, Field{
			GoName:   naming.FieldName(f.Name),
			WireName: naming.WireName(f.Name),
			GoType:   l.Type(f.Type, ownerMember, fieldPath+naming.FieldName(f.Name)),
			Optional: !f.Required,
		})
	}
	l.Hoisted = append(l.Hoisted, Hoisted{Name: name, Fields: fields})
	return name
}

func (l *Lowerer) union(t schema.Type, ownerMember, fieldPath string) string {
	variants := t.Variants
	nonNull := variants[:0:0]
	nullable := t.Nullable
	for _, v := range variants {
		if v.Kind == schema.TypeVoid {
			nullable = true
			continue
		}
		nonNull = append(nonNull, v)
	}

	if len(nonNull) == 1 {
		base := l.Type(nonNull[0], ownerMember, fieldPath)
		if nullable {
			return "*" + base
		}
		return base
	}

	allLiteral := len(nonNull) > 0
	literals := make([]string, 0, len(nonNull))
	for _, v := range nonNull {
		if v.Kind != schema.TypeLiteral {
			allLiteral = false
			break
		}
		literals = append(literals, v.Literal)
	}

	if allLiteral {
		name := naming.HoistedTypeName(ownerMember, fieldPath)
		if !l.seen[name] {
			l.seen[name] = true
			l.Hoisted = append(l.Hoisted, Hoisted{
				Name:     name,
				IsEnum:   true,
				Variants: naming.EnumVariants(name, literals),
			})
		}
		if nullable {
			return "*" + name
		}
		return name
	}

	// A tagged union of non-literal branches (e.g. Array<Foo>|Bar) is
	// passed through as the raw JSON payload; callers that need a
	// specific branch type-assert against it themselves.
	return "json.RawMessage"
}

// Arg is one Member argument after options.* flattening: either a
// required positional parameter or an optional builder-settable field.
type Arg struct {
	GoName   string
	WireName string
	GoType   string
	Optional bool
}

// FlattenArgs expands a single optional "options" object argument into
// its member fields as individual optional Args, matching the wire shape
// every other driver call already flattens options onto.
func FlattenArgs(l *Lowerer, member string, args []schema.Arg) []Arg {
	out := make([]Arg, 0, len(args))
	for _, a := range args {
		if !a.Required && strings.EqualFold(a.Name, "options") && a.Type.Kind == schema.TypeObject && len(a.Type.Fields) > 0 {
			for _, f := range a.Type.Fields {
				out = append(out, Arg{
					GoName:   naming.ArgName(f.Name),
					WireName: naming.WireName(f.Name),
					GoType:   l.Type(f.Type, member, naming.FieldName(f.Name)),
					Optional: !f.Required,
				})
			}
			continue
		}
		out = append(out, Arg{
			GoName:   naming.ArgName(a.Name),
			WireName: naming.WireName(a.Name),
			GoType:   l.Type(a.Type, member, naming.FieldName(a.Name)),
			Optional: !a.Required,
		})
	}
	return out
}

// NeedsBuilder reports whether args has strictly more than one optional
// field, the mechanical rule that decides builder emission.
func NeedsBuilder(args []Arg) bool {
	n := 0
	for _, a := range args {
		if a.Optional {
			n++
		}
	}
	return n > 1
}

// SortHoisted orders hoisted declarations by name so generator output is
// deterministic regardless of map iteration order upstream.
func SortHoisted(hoisted []Hoisted) []Hoisted {
	out := append([]Hoisted(nil), hoisted...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate returns an error if name is empty. It does not check that a
// non-empty name is a valid Go identifier fragment.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("lower: empty name")
	}
	return nil
}
