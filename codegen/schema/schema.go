// Package schema defines the JSON description of a driver API consumed by
// the façade generator: a list of Interfaces, each with Members (methods
// and properties), each Member with Args and a result Type.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/oakline-labs/playwright-go/perrors"
)

//go:embed api.schema.json
var schemaFS embed.FS

// API is the top-level decoded driver API description.
type API struct {
	Interfaces []Interface `json:"interfaces"`
}

// Interface describes one remote object type: its name and its members.
type Interface struct {
	Name       string   `json:"name"`
	Extends    string   `json:"extends,omitempty"`
	Members    []Member `json:"members"`
	Deprecated bool     `json:"deprecated,omitempty"`
}

// MemberKind classifies a Member as an async method or a synchronous
// property getter.
type MemberKind string

const (
	MemberMethod   MemberKind = "method"
	MemberProperty MemberKind = "property"
)

// Member is one method or property on an Interface.
type Member struct {
	Name         string     `json:"name"`
	Kind         MemberKind `json:"kind"`
	Args         []Arg      `json:"args,omitempty"`
	Type         Type       `json:"type"`
	Deprecated   bool       `json:"deprecated,omitempty"`
	Experimental bool       `json:"experimental,omitempty"`
}

// Arg is one parameter of a method Member.
type Arg struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Required bool   `json:"required"`
}

// TypeKind classifies a Type node in the driver's type algebra.
type TypeKind string

const (
	TypeString  TypeKind = "string"
	TypeBoolean TypeKind = "boolean"
	TypeInt     TypeKind = "int"
	TypeFloat   TypeKind = "float"
	TypeVoid    TypeKind = "void"
	TypeArray   TypeKind = "array"
	TypeObject  TypeKind = "object"
	TypeLiteral TypeKind = "literal"
	TypeUnion   TypeKind = "union"
	TypeRef     TypeKind = "ref"
	TypeAny     TypeKind = "any"
)

// Type is a recursive description of a value's shape on the wire. Exactly
// the fields relevant to Kind are populated; the rest are zero.
type Type struct {
	Kind     TypeKind `json:"kind"`
	Element  *Type    `json:"element,omitempty"`  // array element type
	Key      *Type    `json:"key,omitempty"`      // object(map) key type
	Value    *Type    `json:"value,omitempty"`    // object(map) value type
	Literal  string   `json:"literal,omitempty"`  // literal string value
	Variants []Type   `json:"variants,omitempty"` // union branches
	Nullable bool     `json:"nullable,omitempty"` // union-with-null shorthand
	RefName  string   `json:"refName,omitempty"`  // named interface/type reference
	Fields   []Field  `json:"fields,omitempty"`   // anonymous object fields
}

// Field is one property of an anonymous object Type.
type Field struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Required bool   `json:"required"`
}

// Decode validates raw against the bundled JSON Schema and, on success,
// unmarshals it into an API.
func Decode(raw []byte) (API, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return API{}, &perrors.Serde{Cause: fmt.Errorf("schema: invalid JSON: %w", err)}
	}
	if err := validate(doc); err != nil {
		return API{}, &perrors.Serde{Cause: fmt.Errorf("schema: %w", err)}
	}
	var api API
	if err := json.Unmarshal(raw, &api); err != nil {
		return API{}, &perrors.Serde{Cause: fmt.Errorf("schema: %w", err)}
	}
	return api, nil
}

func validate(doc any) error {
	data, err := schemaFS.ReadFile("api.schema.json")
	if err != nil {
		return fmt.Errorf("load bundled schema: %w", err)
	}
	var schemaDoc any
	if err := json.Unmarshal(data, &schemaDoc); err != nil {
		return fmt.Errorf("parse bundled schema: %w", err)
	}

	const resourceName = "api.schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, schemaDoc); err != nil {
		return fmt.Errorf("add bundled schema resource: %w", err)
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return fmt.Errorf("compile bundled schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("driver API description failed schema validation: %w", err)
	}
	return nil
}
