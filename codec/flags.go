package codec

import (
	"strconv"
	"strings"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/ir/path"
)

// FlagsAdapter turns command-line flag arguments into a tree. Flag
// names are dotted/indexed path expressions:
//
//	--server.host=example.com
//	--server.port 8080
//	--verbose                (bare flag, becomes true)
//	--tags[0]=a --tags[1]=b  (sequence elements)
//
// Values get best-effort scalar inference like environment variables.
// A flag repeated at the same path keeps the last occurrence. The byte
// form handled by Parse/Emit is one argument per line; ParseArgs and
// EmitArgs work on argument slices directly.
type FlagsAdapter struct{}

func (a *FlagsAdapter) Format() format.Format {
	return format.FlagsFormat
}

func (a *FlagsAdapter) Parse(data []byte) (*ir.Node, error) {
	var args []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return a.ParseArgs(args)
}

func (a *FlagsAdapter) ParseArgs(args []string) (*ir.Node, error) {
	root := newEnvBuilder()
	root.format = format.FlagsFormat
	root.keepCase = true
	root.override = true
	i := 0
	for i < len(args) {
		arg := args[i]
		name, ok := strings.CutPrefix(arg, "--")
		if !ok {
			return nil, &SyntaxError{
				Format:  format.FlagsFormat,
				Message: "unexpected argument " + strconv.Quote(arg),
			}
		}
		i++
		var value string
		name, value, ok = strings.Cut(name, "=")
		if !ok {
			if i < len(args) && !strings.HasPrefix(args[i], "--") {
				value = args[i]
				i++
			} else {
				// bare flag
				value = "true"
			}
		}
		segs, err := flagSegments(name)
		if err != nil {
			return nil, err
		}
		if err := root.put(name, segs, InferScalar(value)); err != nil {
			return nil, err
		}
	}
	return root.build("")
}

// flagSegments parses a flag name as a path expression and renders it
// to the flat segment form shared with the env builder: fields stay
// as-is, indices become digit segments.
func flagSegments(name string) ([]string, error) {
	p, err := path.Parse(name)
	if err != nil {
		return nil, &SyntaxError{
			Format:  format.FlagsFormat,
			Message: err.Error(),
			Err:     err,
		}
	}
	if p == nil {
		return nil, &SyntaxError{
			Format:  format.FlagsFormat,
			Message: "empty flag name",
		}
	}
	var segs []string
	for x := p; x != nil; x = x.Next {
		if x.Field != nil {
			segs = append(segs, *x.Field)
			continue
		}
		segs = append(segs, strconv.Itoa(*x.Index))
	}
	return segs, nil
}

func (a *FlagsAdapter) Emit(node *ir.Node) ([]byte, error) {
	args, err := a.EmitArgs(node)
	if err != nil {
		return nil, err
	}
	buf := strings.Builder{}
	for _, arg := range args {
		buf.WriteString(arg)
		buf.WriteByte('\n')
	}
	return []byte(buf.String()), nil
}

func (a *FlagsAdapter) EmitArgs(node *ir.Node) ([]string, error) {
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	if node.Type != ir.ObjectType {
		return nil, &UnsupportedShapeError{
			Format:  format.FlagsFormat,
			Path:    node.Path(),
			Message: "top level must be an object",
		}
	}
	var args []string
	if err := flattenFlags(node, nil, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// validFlagSegment reports whether a field name survives the flatten/
// unflatten round-trip: no path metacharacters, and not all digits
// (those read back as sequence indices).
func validFlagSegment(s string) bool {
	if s == "" || strings.ContainsAny(s, ".[]=") {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func flattenFlags(node *ir.Node, at *path.Path, args *[]string) error {
	switch node.Type {
	case ir.ObjectType:
		for i := range node.Fields {
			key := node.Fields[i].String
			if !validFlagSegment(key) {
				return &UnsupportedShapeError{
					Format:  format.FlagsFormat,
					Path:    node.Values[i].Path(),
					Message: "key " + strconv.Quote(key) + " cannot flatten reversibly",
				}
			}
			if err := flattenFlags(node.Values[i], at.Child(key), args); err != nil {
				return err
			}
		}
		return nil
	case ir.ArrayType:
		for i, v := range node.Values {
			if err := flattenFlags(v, at.At(i), args); err != nil {
				return err
			}
		}
		return nil
	default:
		if at == nil {
			return &UnsupportedShapeError{
				Format:  format.FlagsFormat,
				Path:    node.Path(),
				Message: "scalar at top level",
			}
		}
		s, _ := ScalarString(node)
		*args = append(*args, "--"+at.String()+"="+s)
		return nil
	}
}
