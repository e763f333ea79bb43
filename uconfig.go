// Package uconfig assembles the pieces of the configuration engine
// into one front door: register sources in precedence order, then
// load them into a schema-described structure in a single call.
//
//	loader := uconfig.New()
//	loader.AddFile("base.yaml", uconfig.RankFile)
//	loader.AddEnviron(os.Environ(), "APP_", uconfig.RankEnv)
//	loader.AddArgs(os.Args[1:], uconfig.RankFlags)
//
//	var cfg serverConfig
//	vs, err := loader.Load(sc, &cfg)
//
// Load parses every source, merges the trees by rank, binds the merged
// tree onto cfg and runs the schema's validators and cross-field
// checks. Violations come back accumulated across the whole tree; err
// reports engine problems (unreadable file, syntax error, excessive
// nesting), never data problems.
package uconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/uconfig/go-uconfig/bind"
	"github.com/uconfig/go-uconfig/codec"
	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/merge"
	"github.com/uconfig/go-uconfig/schema"
)

// Conventional ranks for the usual source layering: defaults under
// files under environment under command line. Any int works; these
// just leave room in between.
const (
	RankDefaults = 0
	RankFile     = 10
	RankEnv      = 20
	RankFlags    = 30
)

type Loader struct {
	inputs   []merge.Input
	log      zerolog.Logger
	maxDepth int
}

type LoaderOpt func(*Loader)

// WithLogger directs source and merge diagnostics to log. Without it
// the loader is silent.
func WithLogger(log zerolog.Logger) LoaderOpt {
	return func(l *Loader) { l.log = log }
}

// WithMaxDepth bounds tree nesting across parse, merge and bind.
// Zero means ir.DefaultMaxDepth.
func WithMaxDepth(n int) LoaderOpt {
	return func(l *Loader) { l.maxDepth = n }
}

func New(opts ...LoaderOpt) *Loader {
	l := &Loader{
		log:      zerolog.Nop(),
		maxDepth: ir.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddTree registers an already-built tree, useful for programmatic
// defaults.
func (l *Loader) AddTree(name string, tree *ir.Node, rank int) {
	l.add(name, rank, tree)
}

// AddBytes parses data in the given format and registers it.
func (l *Loader) AddBytes(name string, f format.Format, data []byte, rank int) error {
	tree, err := codec.Parse(f, data)
	if err != nil {
		return fmt.Errorf("source %s: %w", name, err)
	}
	l.add(name, rank, tree)
	return nil
}

// AddFile reads and parses path, inferring the format from its
// extension.
func (l *Loader) AddFile(path string, rank int) error {
	f, err := format.FromSuffix(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("source %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return l.AddBytes(path, f, data, rank)
}

// AddEnviron registers environment variables in os.Environ form,
// keeping only those with the given prefix (stripped before key
// folding). The key convention is the inverse of the env adapter's
// emit: A_B_C selects a.b.c, digit segments select sequence indices.
func (l *Loader) AddEnviron(environ []string, prefix string, rank int) error {
	a := &codec.EnvAdapter{}
	tree, err := a.ParseEnviron(environ, prefix)
	if err != nil {
		return fmt.Errorf("source env: %w", err)
	}
	l.add("env", rank, tree)
	return nil
}

// AddArgs registers command-line arguments of the form --a.b=v,
// --a.b v, or bare --a.b for true. Repeated flags keep the last
// value.
func (l *Loader) AddArgs(args []string, rank int) error {
	a := &codec.FlagsAdapter{}
	tree, err := a.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("source flags: %w", err)
	}
	l.add("flags", rank, tree)
	return nil
}

func (l *Loader) add(name string, rank int, tree *ir.Node) {
	src := merge.Source{Name: name, Rank: rank}
	l.log.Debug().
		Stringer("source", src).
		Str("root", tree.Type.String()).
		Msg("source registered")
	l.inputs = append(l.inputs, merge.Input{Source: src, Tree: tree})
}

// Tree merges the registered sources and returns the combined tree
// without binding it.
func (l *Loader) Tree() (*ir.Node, error) {
	return merge.Merge(l.inputs, merge.WithMaxDepth(l.maxDepth))
}

// Load merges all sources and binds the result onto dst (a pointer to
// a struct, or nil to only check). The returned violations cover
// structure, coercion, per-field validators and cross-field checks in
// one pass over the whole tree. A config with any violation is never
// handed over partially: dst is left untouched unless the violation
// list is empty.
func (l *Loader) Load(sc *schema.Schema, dst any) (schema.Violations, error) {
	tree, err := l.Tree()
	if err != nil {
		return nil, err
	}
	vs := bind.Validate(tree, sc, bind.WithMaxDepth(l.maxDepth))
	if dst != nil && len(vs) == 0 {
		if _, err := bind.Bind(tree, sc, dst, bind.WithMaxDepth(l.maxDepth)); err != nil {
			return nil, err
		}
	}
	l.log.Debug().
		Int("sources", len(l.inputs)).
		Int("violations", len(vs)).
		Msg("configuration loaded")
	return vs, nil
}

// Emit renders a bound value back out in the given format, laid out
// in schema field order.
func Emit(src any, sc *schema.Schema, f format.Format) ([]byte, error) {
	tree, err := bind.Unbind(src, sc)
	if err != nil {
		return nil, err
	}
	return codec.Emit(f, tree)
}
