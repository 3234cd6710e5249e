// Package naming applies the façade generator's casing rules: interface
// names become UpperCamel Go type names, method names become exported
// camel-case Go identifiers, argument names become unexported camel-case
// Go identifiers, and enum values keep their wire spelling verbatim via a
// rename annotation recorded alongside the Go name.
package naming

import (
	"strings"

	goacodegen "goa.design/goa/v3/codegen"
)

// InterfaceName lowers a driver interface name ("BrowserType") to its
// UpperCamel Go type name.
func InterfaceName(name string) string {
	return goacodegen.Goify(name, true)
}

// MemberName Goifies a method or property name ("waitForSelector") into an
// exported Go method name ("WaitForSelector"). No snake_case form is
// produced; the wire spelling is kept separately by WireName.
func MemberName(name string) string {
	return goacodegen.Goify(name, true)
}

// ArgName lowers an argument name to an unexported Go parameter name.
func ArgName(name string) string {
	return goacodegen.Goify(name, false)
}

// FieldName lowers an anonymous object field name to an exported Go
// struct field name; WireName returns the name to use in its json tag.
func FieldName(name string) string {
	return goacodegen.Goify(name, true)
}

// WireName returns name unchanged: every wire-facing json tag and RPC
// method/arg string must reproduce the driver's own casing exactly,
// regardless of the Go identifier derived from it.
func WireName(name string) string { return name }

// EnumVariant derives the Go constant name for one literal-union branch,
// preserving the literal's wire spelling as its rename annotation (the
// value assigned to the constant) rather than transliterating it.
type EnumVariant struct {
	GoName string // exported Go identifier, e.g. "WaitUntilLoad"
	Wire   string // literal as it appears on the wire, e.g. "load"
}

// EnumVariants derives one EnumVariant per literal branch of a union type,
// prefixed with enumName to avoid collisions between enums that share a
// branch spelling (e.g. WaitUntil's "load" vs LifecycleEvent's "load").
func EnumVariants(enumName string, literals []string) []EnumVariant {
	out := make([]EnumVariant, 0, len(literals))
	for _, lit := range literals {
		out = append(out, EnumVariant{
			GoName: goacodegen.Goify(enumName, true) + goacodegen.Goify(sanitizeLiteral(lit), true),
			Wire:   lit,
		})
	}
	return out
}

// sanitizeLiteral replaces characters Goify would otherwise drop silently
// (e.g. a literal like "domcontentloaded" is already a valid identifier
// fragment; this only matters for literals containing separators such as
// "-" or ".").
func sanitizeLiteral(lit string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return r.Replace(lit)
}

// HoistedTypeName names an anonymous nested object type hoisted into a
// module-level type, scoped by the owning method so sibling methods with
// similarly-shaped anonymous results never collide.
func HoistedTypeName(ownerMember, fieldPath string) string {
	return goacodegen.Goify(ownerMember, true) + goacodegen.Goify(fieldPath, true)
}
