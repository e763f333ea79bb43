package codec

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
)

// xmlRootName wraps every emitted document; the root element's name is
// ignored on parse.
const xmlRootName = "config"

// xmlTextKey holds the character data of an element that carries both
// attributes and text.
const xmlTextKey = "#text"

// XMLAdapter parses and emits XML documents using an ordered element
// tree. The mapping convention:
//
//   - child elements become object entries keyed by element name;
//   - repeated sibling elements with the same name become a sequence;
//   - attributes become object entries alongside child elements;
//   - text-only elements become scalars via InferScalar;
//   - an element with attributes and text keeps the text under "#text".
//
// A sequence of length one collapses to a plain value on re-parse, so
// the parse/emit round-trip is exact only for trees without
// single-element sequences.
type XMLAdapter struct{}

func (a *XMLAdapter) Format() format.Format {
	return format.XMLFormat
}

func (a *XMLAdapter) Parse(data []byte) (*ir.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &SyntaxError{
			Format:  format.XMLFormat,
			Message: err.Error(),
			Err:     err,
		}
	}
	root := doc.Root()
	if root == nil {
		return nil, &SyntaxError{
			Format:  format.XMLFormat,
			Message: "no root element",
		}
	}
	node, err := xmlToNode(root)
	if err != nil {
		return nil, err
	}
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	return node, nil
}

func xmlToNode(e *etree.Element) (*ir.Node, error) {
	children := e.ChildElements()
	if len(children) == 0 && len(e.Attr) == 0 {
		text := strings.TrimSpace(e.Text())
		if text == "" {
			return ir.Null(), nil
		}
		return InferScalar(text), nil
	}

	var (
		kvs   []ir.KeyVal
		index = map[string]int{}
	)
	add := func(key string, val *ir.Node) error {
		if _, ok := index[key]; ok {
			return &SyntaxError{
				Format:  format.XMLFormat,
				Message: "attribute and element share key " + key,
			}
		}
		index[key] = len(kvs)
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
		return nil
	}

	for _, attr := range e.Attr {
		if err := add(attr.Key, InferScalar(attr.Value)); err != nil {
			return nil, err
		}
	}

	if len(children) == 0 {
		if text := strings.TrimSpace(e.Text()); text != "" {
			if err := add(xmlTextKey, InferScalar(text)); err != nil {
				return nil, err
			}
		}
		return ir.FromKeyVals(kvs), nil
	}

	if text := strings.TrimSpace(e.Text()); text != "" {
		return nil, &SyntaxError{
			Format:  format.XMLFormat,
			Message: "mixed text and element content in <" + e.Tag + ">",
		}
	}

	// group repeated sibling names into sequences, first occurrence
	// fixing the entry's position
	groups := map[string][]*ir.Node{}
	for _, child := range children {
		sub, err := xmlToNode(child)
		if err != nil {
			return nil, err
		}
		if prev, ok := groups[child.Tag]; ok {
			groups[child.Tag] = append(prev, sub)
			continue
		}
		groups[child.Tag] = []*ir.Node{sub}
		if err := add(child.Tag, nil); err != nil {
			return nil, err
		}
	}
	for i := range kvs {
		if kvs[i].Val != nil {
			continue
		}
		group := groups[kvs[i].Key.String]
		if len(group) == 1 {
			kvs[i].Val = group[0]
			continue
		}
		kvs[i].Val = ir.FromSlice(group)
	}
	return ir.FromKeyVals(kvs), nil
}

func (a *XMLAdapter) Emit(node *ir.Node) ([]byte, error) {
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(xmlRootName)
	if err := nodeToXML(root, node); err != nil {
		return nil, err
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

func nodeToXML(e *etree.Element, node *ir.Node) error {
	switch node.Type {
	case ir.NullType:
		return nil
	case ir.BoolType, ir.NumberType, ir.StringType:
		s, _ := ScalarString(node)
		e.SetText(s)
		return nil
	case ir.ArrayType:
		return &UnsupportedShapeError{
			Format:  format.XMLFormat,
			Path:    node.Path(),
			Message: "sequence without an enclosing element name",
		}
	case ir.ObjectType:
		for i := range node.Fields {
			field := node.Fields[i]
			if field.Type != ir.StringType {
				return &UnsupportedShapeError{
					Format:  format.XMLFormat,
					Path:    node.Path(),
					Message: "object keys must be strings",
				}
			}
			key := field.String
			val := node.Values[i]
			if key == xmlTextKey {
				s, ok := ScalarString(val)
				if !ok {
					return &UnsupportedShapeError{
						Format:  format.XMLFormat,
						Path:    val.Path(),
						Message: "#text value must be a scalar",
					}
				}
				e.SetText(s)
				continue
			}
			if !validXMLName(key) {
				return &UnsupportedShapeError{
					Format:  format.XMLFormat,
					Path:    val.Path(),
					Message: "key " + key + " is not a valid element name",
				}
			}
			if val.Type == ir.ArrayType {
				for _, elem := range val.Values {
					child := e.CreateElement(key)
					if err := nodeToXML(child, elem); err != nil {
						return err
					}
				}
				continue
			}
			child := e.CreateElement(key)
			if err := nodeToXML(child, val); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func validXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 {
			if !letter {
				return false
			}
			continue
		}
		if letter || r == '-' || r == '.' || (r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}
