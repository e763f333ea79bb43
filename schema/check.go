package schema

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Check is a compiled cross-field invariant declared at the schema
// level. The expression sees the bound section as its environment, so
// fields are referenced by name:
//
//	schema.MustCheck("tls-port", `!tls.enabled || port == 443`)
//
// A check evaluating to false yields one CrossFieldFailed violation;
// an expression that cannot evaluate (e.g. it references an absent
// optional field) also fails the check.
type Check struct {
	Name   string
	Source string

	prog *vm.Program
}

func NewCheck(name, source string) (*Check, error) {
	prog, err := expr.Compile(source,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling check %q: %w", name, err)
	}
	return &Check{Name: name, Source: source, prog: prog}, nil
}

// MustCheck is NewCheck panicking on compile errors, for statically
// declared schemas.
func MustCheck(name, source string) *Check {
	c, err := NewCheck(name, source)
	if err != nil {
		panic(err)
	}
	return c
}

// Eval runs the check against an environment of bound field values.
func (c *Check) Eval(env map[string]any) (bool, error) {
	out, err := expr.Run(c.prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluating check %q: %w", c.Name, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("check %q did not produce a boolean", c.Name)
	}
	return ok, nil
}
