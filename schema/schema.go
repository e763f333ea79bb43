// Package schema lets the embedding application declare the shape of
// its configuration: field names, expected kinds, optionality,
// defaults, per-field validation and cross-field checks.
//
// A Schema is built once, is immutable for the duration of a bind, and
// is safe for concurrent use. It is declared in code rather than
// parsed from data:
//
//	sc := schema.New(
//	    schema.String("host").Require(),
//	    schema.Int("port").WithDefault(ir.FromInt(8080)).
//	        WithValidator(schema.Range(1, 65535)),
//	    schema.Object("tls", schema.New(
//	        schema.String("cert").Require(),
//	        schema.String("key").Require(),
//	    )),
//	    schema.Array("peers", schema.Elem(ir.StringType)),
//	)
//
// A nested object field that is not required acts as an optional
// section: when the section is entirely absent no violations are
// reported for its children, but a partially present section still
// reports its missing required children.
package schema

import (
	"fmt"

	"github.com/uconfig/go-uconfig/ir"
)

type Schema struct {
	Fields []*Field
	Checks []*Check
}

// Field describes one entry of a target structure.
type Field struct {
	// Name is the key in the configuration tree. For array element
	// descriptors Name is empty.
	Name string
	// Kind is the expected node kind after coercion.
	Kind ir.Type
	// Required makes total absence (with no default) a violation.
	Required bool
	// Default is used when the field is absent; absence with a
	// default is not a violation.
	Default *ir.Node
	// Sub describes the nested structure when Kind is ObjectType.
	Sub *Schema
	// Elem describes the element when Kind is ArrayType.
	Elem *Field
	// Validators run against the coerced node.
	Validators []Validator

	float bool
}

func New(fields ...*Field) *Schema {
	return &Schema{Fields: fields}
}

// WithCheck attaches a compiled cross-field check to the schema.
func (s *Schema) WithCheck(c *Check) *Schema {
	s.Checks = append(s.Checks, c)
	return s
}

// Get returns the field named name, or nil.
func (s *Schema) Get(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func String(name string) *Field {
	return &Field{Name: name, Kind: ir.StringType}
}

func Int(name string) *Field {
	return &Field{Name: name, Kind: ir.NumberType}
}

func Float(name string) *Field {
	return &Field{Name: name, Kind: ir.NumberType, float: true}
}

func Bool(name string) *Field {
	return &Field{Name: name, Kind: ir.BoolType}
}

func Object(name string, sub *Schema) *Field {
	return &Field{Name: name, Kind: ir.ObjectType, Sub: sub}
}

func Array(name string, elem *Field) *Field {
	return &Field{Name: name, Kind: ir.ArrayType, Elem: elem}
}

// Elem builds an anonymous element descriptor for Array fields with
// scalar elements; use ObjectElem for arrays of structures.
func Elem(kind ir.Type) *Field {
	return &Field{Kind: kind}
}

// ObjectElem builds an element descriptor for arrays of structures.
func ObjectElem(sub *Schema) *Field {
	return &Field{Kind: ir.ObjectType, Sub: sub}
}

func (f *Field) Require() *Field {
	f.Required = true
	return f
}

func (f *Field) WithDefault(n *ir.Node) *Field {
	f.Default = n
	return f
}

func (f *Field) WithValidator(vs ...Validator) *Field {
	f.Validators = append(f.Validators, vs...)
	return f
}

// WantsFloat distinguishes float-typed number fields from integer
// ones; both share ir.NumberType.
func (f *Field) WantsFloat() bool {
	return f.float
}

func (f *Field) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, f.Kind)
}
