package codec

import (
	"fmt"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
)

// Adapter converts between raw source bytes and ir.Node trees for one
// format. Implementations are pure: Parse never returns a partial
// tree, Emit never mutates its input, and adapters hold no state, so
// one instance may be used from any number of goroutines.
type Adapter interface {
	Format() format.Format
	Parse(data []byte) (*ir.Node, error)
	Emit(node *ir.Node) ([]byte, error)
}

var adapters = map[format.Format]Adapter{}

// Register installs an adapter in the static registry. New formats
// are added by implementing Adapter and registering here; the merger
// and binder never change.
func Register(a Adapter) {
	adapters[a.Format()] = a
}

// Lookup returns the adapter registered for f, or nil.
func Lookup(f format.Format) Adapter {
	return adapters[f]
}

// Parse parses data using the adapter registered for f.
func Parse(f format.Format, data []byte) (*ir.Node, error) {
	a := Lookup(f)
	if a == nil {
		return nil, fmt.Errorf("%w: no adapter for %s", format.ErrBadFormat, f)
	}
	return a.Parse(data)
}

// Emit emits node using the adapter registered for f.
func Emit(f format.Format, node *ir.Node) ([]byte, error) {
	a := Lookup(f)
	if a == nil {
		return nil, fmt.Errorf("%w: no adapter for %s", format.ErrBadFormat, f)
	}
	return a.Emit(node)
}

func init() {
	Register(&JSONAdapter{})
	Register(&YAMLAdapter{})
	Register(&XMLAdapter{})
	Register(&EnvAdapter{})
	Register(&FlagsAdapter{})
}
