// uconf is a command line tool for working with layered
// configuration: convert files between formats, merge sources under
// the engine's precedence rules, and look up values by path.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	uconfig "github.com/uconfig/go-uconfig"
	"github.com/uconfig/go-uconfig/codec"
	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/ir/path"
)

func main() {
	app := kingpin.New("uconf", "Work with layered configuration: convert, merge, and query config files.")
	outFmt := app.Flag("output", "Output format: json/j, yaml/y, xml/x, env/e, flags/f.").
		Short('O').Default("yaml").String()
	verbose := app.Flag("verbose", "Log source and merge diagnostics to stderr.").
		Short('v').Bool()

	convertCmd := app.Command("convert", "Re-emit one config file in another format.")
	convertFile := convertCmd.Arg("file", "Input file; format from extension.").Required().String()

	mergeCmd := app.Command("merge", "Merge config files in order, later files win, and emit the result.")
	mergeFiles := mergeCmd.Arg("files", "Input files, lowest precedence first.").Required().Strings()
	mergeEnvPrefix := mergeCmd.Flag("env-prefix", "Also merge environment variables with this prefix, above all files.").String()
	mergeSets := mergeCmd.Flag("set", "Override a value by path, e.g. --set server.port=80; highest precedence.").Strings()

	getCmd := app.Command("get", "Print the value at a path in the merged files.")
	getPath := getCmd.Arg("path", "Dotted path, e.g. server.tls.cert or peers[0].").Required().String()
	getFiles := getCmd.Arg("files", "Input files, lowest precedence first.").Required().Strings()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	f, err := format.ParseFormat(*outFmt)
	if err != nil {
		fatal(err)
	}

	var err2 error
	switch cmd {
	case convertCmd.FullCommand():
		err2 = runConvert(*convertFile, f)
	case mergeCmd.FullCommand():
		err2 = runMerge(*mergeFiles, *mergeEnvPrefix, *mergeSets, f, *verbose)
	case getCmd.FullCommand():
		err2 = runGet(*getPath, *getFiles)
	}
	if err2 != nil {
		fatal(err2)
	}
}

func runConvert(file string, out format.Format) error {
	in, err := format.FromSuffix(filepath.Ext(file))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	tree, err := codec.Parse(in, data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return emit(tree, out)
}

func runMerge(files []string, envPrefix string, sets []string, out format.Format, verbose bool) error {
	tree, err := mergedTree(files, envPrefix, sets, verbose)
	if err != nil {
		return err
	}
	return emit(tree, out)
}

func runGet(pathExpr string, files []string) error {
	p, err := path.Parse(pathExpr)
	if err != nil {
		return err
	}
	tree, err := mergedTree(files, "", nil, false)
	if err != nil {
		return err
	}
	node, err := tree.GetPath(p)
	if err != nil {
		return err
	}
	if s, ok := codec.ScalarString(node); ok {
		fmt.Println(s)
		return nil
	}
	return emit(node, format.YAMLFormat)
}

func mergedTree(files []string, envPrefix string, sets []string, verbose bool) (*ir.Node, error) {
	opts := []uconfig.LoaderOpt{}
	if verbose {
		opts = append(opts, uconfig.WithLogger(
			zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(zerolog.DebugLevel).With().Timestamp().Logger()))
	}
	loader := uconfig.New(opts...)
	for _, file := range files {
		// equal ranks: later files win by input order, and env/--set
		// stay above every file no matter how many are given
		if err := loader.AddFile(file, uconfig.RankFile); err != nil {
			return nil, err
		}
	}
	if envPrefix != "" {
		if err := loader.AddEnviron(os.Environ(), envPrefix, uconfig.RankEnv); err != nil {
			return nil, err
		}
	}
	if len(sets) > 0 {
		args := make([]string, len(sets))
		for i, s := range sets {
			args[i] = "--" + s
		}
		if err := loader.AddArgs(args, uconfig.RankFlags); err != nil {
			return nil, err
		}
	}
	return loader.Tree()
}

func emit(tree *ir.Node, f format.Format) error {
	data, err := codec.Emit(f, tree)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func fatal(err error) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintln(os.Stderr, color.RedString("uconf: %s", err))
	} else {
		fmt.Fprintf(os.Stderr, "uconf: %s\n", err)
	}
	os.Exit(1)
}
