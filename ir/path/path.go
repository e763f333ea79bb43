// Package path implements dotted/indexed path expressions addressing
// nodes inside a configuration tree, such as "a.b[2].c". A path is a
// linked list of segments, each either an object field or a
// non-negative array index.
package path

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var ErrBadPath = errors.New("bad path")

// Path represents one segment of a path expression. Exactly one of
// Field and Index is set; Next links to the following segment, nil at
// the leaf. A nil *Path addresses the root.
type Path struct {
	Field *string
	Index *int
	Next  *Path
}

// Parse parses a dotted/indexed path expression. The empty string
// yields a nil path (the root). Leading or trailing dots and empty
// segments are errors, as are negative or malformed indices.
func Parse(s string) (*Path, error) {
	if s == "" {
		return nil, nil
	}
	var (
		head *Path
		tail *Path
	)
	appendSeg := func(p *Path) {
		if head == nil {
			head = p
			tail = p
			return
		}
		tail.Next = p
		tail = p
	}
	i := 0
	n := len(s)
	dotPending := false
	for i < n {
		switch {
		case s[i] == '.':
			if i == 0 {
				return nil, fmt.Errorf("%w: leading dot in %q", ErrBadPath, s)
			}
			if dotPending {
				return nil, fmt.Errorf("%w: empty segment in %q", ErrBadPath, s)
			}
			dotPending = true
			i++
		case s[i] == '[':
			if dotPending {
				return nil, fmt.Errorf("%w: empty segment before index in %q", ErrBadPath, s)
			}
			j := i + 1
			for j < n && s[j] != ']' {
				j++
			}
			if j == n {
				return nil, fmt.Errorf("%w: unclosed index in %q", ErrBadPath, s)
			}
			idxStr := s[i+1 : j]
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 || (len(idxStr) > 1 && idxStr[0] == '0') {
				return nil, fmt.Errorf("%w: invalid index %q in %q", ErrBadPath, idxStr, s)
			}
			appendSeg(&Path{Index: &idx})
			i = j + 1
		default:
			if head != nil && !dotPending {
				return nil, fmt.Errorf("%w: missing dot before field in %q", ErrBadPath, s)
			}
			j := i
			for j < n && s[j] != '.' && s[j] != '[' {
				j++
			}
			appendSeg(&Path{Field: ptr(s[i:j])})
			i = j
			dotPending = false
		}
	}
	if dotPending {
		return nil, fmt.Errorf("%w: trailing dot in %q", ErrBadPath, s)
	}
	return head, nil
}

func ptr(s string) *string {
	return &s
}

// String returns the canonical path expression for p. The root path
// renders as "".
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	x := p
	for x != nil {
		if x.Field != nil {
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(*x.Field)
			x = x.Next
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(buf, "[%d]", *x.Index)
			x = x.Next
			continue
		}
		x = x.Next
	}
	return buf.String()
}

// Append returns a new path with seg appended; p is not modified.
func (p *Path) Append(seg *Path) *Path {
	if p == nil {
		return seg.copySegment()
	}
	head := p.copySegment()
	tail := head
	for x := p.Next; x != nil; x = x.Next {
		tail.Next = x.copySegment()
		tail = tail.Next
	}
	tail.Next = seg.copySegment()
	return head
}

// Child returns p extended with the field segment name.
func (p *Path) Child(name string) *Path {
	return p.Append(&Path{Field: &name})
}

// At returns p extended with the index segment i.
func (p *Path) At(i int) *Path {
	return p.Append(&Path{Index: &i})
}

func (p *Path) copySegment() *Path {
	if p == nil {
		return nil
	}
	res := &Path{}
	if p.Field != nil {
		tmp := *p.Field
		res.Field = &tmp
	}
	if p.Index != nil {
		tmp := *p.Index
		res.Index = &tmp
	}
	return res
}

// Equal reports segment-wise equality of two paths.
func Equal(a, b *Path) bool {
	for a != nil && b != nil {
		if (a.Field == nil) != (b.Field == nil) {
			return false
		}
		if a.Field != nil && *a.Field != *b.Field {
			return false
		}
		if (a.Index == nil) != (b.Index == nil) {
			return false
		}
		if a.Index != nil && *a.Index != *b.Index {
			return false
		}
		a = a.Next
		b = b.Next
	}
	return a == nil && b == nil
}
