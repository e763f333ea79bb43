package codec

import (
	"bytes"
	stdjson "encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
)

// JSONAdapter parses and emits JSON documents. Object key order is
// preserved, and numbers without a fraction or exponent are kept as
// int64 so the integer/float distinction survives a round-trip.
type JSONAdapter struct{}

func (a *JSONAdapter) Format() format.Format {
	return format.JSONFormat
}

func (a *JSONAdapter) Parse(data []byte) (*ir.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, jsonSyntaxError(data)
	}
	node, err := fromResult(gjson.ParseBytes(data))
	if err != nil {
		return nil, err
	}
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	return node, nil
}

// jsonSyntaxError recovers the byte offset of the first syntax error
// by re-running the standard decoder, which reports positions.
func jsonSyntaxError(data []byte) error {
	var v any
	err := stdjson.Unmarshal(data, &v)
	se := &SyntaxError{Format: format.JSONFormat, Err: err}
	if err == nil {
		se.Message = "invalid document"
		return se
	}
	se.Message = err.Error()
	if jse, ok := err.(*stdjson.SyntaxError); ok {
		se.Offset = jse.Offset
		se.Line = int64ToLine(data, jse.Offset)
	}
	return se
}

func int64ToLine(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte("\n"))
}

func fromResult(r gjson.Result) (*ir.Node, error) {
	switch {
	case r.Type == gjson.Null:
		return ir.Null(), nil
	case r.Type == gjson.True:
		return ir.FromBool(true), nil
	case r.Type == gjson.False:
		return ir.FromBool(false), nil
	case r.Type == gjson.String:
		return ir.FromString(r.Str), nil
	case r.Type == gjson.Number:
		return numberFromRaw(r.Raw), nil
	case r.IsArray():
		var (
			vs     []*ir.Node
			subErr error
		)
		r.ForEach(func(_, value gjson.Result) bool {
			v, err := fromResult(value)
			if err != nil {
				subErr = err
				return false
			}
			vs = append(vs, v)
			return true
		})
		if subErr != nil {
			return nil, subErr
		}
		return ir.FromSlice(vs), nil
	case r.IsObject():
		var (
			kvs    []ir.KeyVal
			index  = map[string]int{}
			subErr error
		)
		r.ForEach(func(key, value gjson.Result) bool {
			v, err := fromResult(value)
			if err != nil {
				subErr = err
				return false
			}
			// JSON allows duplicate keys; last occurrence wins to
			// keep the object-key uniqueness invariant.
			if i, ok := index[key.Str]; ok {
				kvs[i].Val = v
				return true
			}
			index[key.Str] = len(kvs)
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key.Str), Val: v})
			return true
		})
		if subErr != nil {
			return nil, subErr
		}
		return ir.FromKeyVals(kvs), nil
	}
	return nil, &SyntaxError{Format: format.JSONFormat, Message: "invalid value " + r.Raw}
}

// numberFromRaw keeps the integer/float distinction by inspecting the
// raw literal: a fraction or exponent marks a float.
func numberFromRaw(raw string) *ir.Node {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return ir.FromInt(i)
		}
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return ir.FromFloat(f)
}

func (a *JSONAdapter) Emit(node *ir.Node) ([]byte, error) {
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := a.emit(buf, node, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (a *JSONAdapter) emit(buf *bytes.Buffer, node *ir.Node, depth int) error {
	switch node.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case ir.NumberType:
		if node.Int64 != nil {
			buf.WriteString(strconv.FormatInt(*node.Int64, 10))
			return nil
		}
		f := *node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &UnsupportedShapeError{
				Format:  format.JSONFormat,
				Path:    node.Path(),
				Message: "JSON cannot represent NaN or Inf",
			}
		}
		buf.WriteString(floatLiteral(f))
	case ir.StringType:
		writeJSONString(buf, node.String)
	case ir.ArrayType:
		if len(node.Values) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeIndent(buf, depth+1)
			if err := a.emit(buf, v, depth+1); err != nil {
				return err
			}
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i := range node.Fields {
			if node.Fields[i].Type != ir.StringType {
				return &UnsupportedShapeError{
					Format:  format.JSONFormat,
					Path:    node.Path(),
					Message: "JSON object keys must be strings",
				}
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			writeIndent(buf, depth+1)
			writeJSONString(buf, node.Fields[i].String)
			buf.WriteString(": ")
			if err := a.emit(buf, node.Values[i], depth+1); err != nil {
				return err
			}
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	}
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	for range depth {
		buf.WriteString("  ")
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	d, err := stdjson.Marshal(s)
	if err != nil {
		// marshalling a string cannot fail
		panic(err)
	}
	buf.Write(d)
}
