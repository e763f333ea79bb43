package ir

import (
	"fmt"
	"strconv"

	"github.com/uconfig/go-uconfig/ir/path"
)

// Path returns the dotted/indexed path expression of this node's
// position in the tree, e.g. "a.b[0].c". The root renders as "".
func (n *Node) Path() string {
	if n.Parent == nil {
		return ""
	}
	switch n.Parent.Type {
	case ObjectType:
		prefix := n.Parent.Path()
		if prefix == "" {
			return n.ParentField
		}
		return prefix + "." + n.ParentField
	case ArrayType:
		return n.Parent.Path() + "[" + strconv.Itoa(n.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

// GetPath resolves p against the tree rooted at n. Resolution either
// yields exactly one node or fails: a field segment against a
// non-object node is ErrTypeMismatch, as is an index segment against a
// non-array node; an absent field or an out-of-range index is
// ErrPathNotFound.
func (n *Node) GetPath(p *path.Path) (*Node, error) {
	res := n
	walked := (*path.Path)(nil)
	for p != nil {
		if p.Field != nil {
			if res.Type != ObjectType {
				return nil, fmt.Errorf("%w: expected object at %q, got %s",
					ErrTypeMismatch, walked.String(), res.Type)
			}
			field := *p.Field
			walked = walked.Child(field)
			next := Get(res, field)
			if next == nil {
				return nil, fmt.Errorf("%w: no field %q at %q",
					ErrPathNotFound, field, walked.String())
			}
			res = next
			p = p.Next
			continue
		}
		if p.Index != nil {
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: expected array at %q, got %s",
					ErrTypeMismatch, walked.String(), res.Type)
			}
			index := *p.Index
			walked = walked.At(index)
			if index >= len(res.Values) {
				return nil, fmt.Errorf("%w: index %d out of bounds (len %d) at %q",
					ErrPathNotFound, index, len(res.Values), walked.String())
			}
			res = res.Values[index]
			p = p.Next
			continue
		}
		p = p.Next
	}
	return res, nil
}

// GetPathString parses expr and resolves it against n.
func (n *Node) GetPathString(expr string) (*Node, error) {
	p, err := path.Parse(expr)
	if err != nil {
		return nil, err
	}
	return n.GetPath(p)
}
