package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/nemtech/gocatbuffer/pkg/render"
)

var usage = `
Usage:
  catdump --schema NAME [--hex HEX | --in FILE] [flags]
  catdump --list [--schema-file PATH]

Decodes catbuffer records given as hex and prints them. Input is read from stdin
unless --hex or --in is given. With --batch every non-empty input line is a record;
lines starting with # are skipped.

An entity type (e.g. 0x4150) selects the transaction of that type, its embedded form
with --embedded or its body with --body. The schema "auto" reads the type of every
record from its transaction header.
`

type Options struct {
	Schema     string
	Body       bool
	Embedded   bool
	Hex        string
	In         string
	SchemaFile string
	Format     render.Format
	Bytes      render.Bytes
	Lenient    bool
	Exact      bool
	Verify     bool
	Batch      bool
	Parallel   int
	List       bool
	LogLevel   string
	Help       bool
}

func newFlagSet(opts *Options, format, bytes *string) *flag.FlagSet {
	fs := flag.NewFlagSet("catdump", flag.ContinueOnError)
	fs.StringVarP(&opts.Schema, "schema", "s", "", "Schema name, entity type (e.g. 0x4150) or auto")
	fs.BoolVar(&opts.Body, "body", false, "Resolve entity types to transaction bodies")
	fs.BoolVar(&opts.Embedded, "embedded", false, "Resolve entity types to embedded transactions")
	fs.StringVarP(&opts.Hex, "hex", "x", "", "Record bytes as hex")
	fs.StringVarP(&opts.In, "in", "i", "", "File with hex records, stdin if empty")
	fs.StringVar(&opts.SchemaFile, "schema-file", "", "TOML file or directory with additional schemas")
	fs.StringVarP(format, "format", "f", "text", "Output format: text, json or cbor")
	fs.StringVar(bytes, "bytes", "hex", "Encoding of fixed size values: hex or base58")
	fs.BoolVar(&opts.Lenient, "lenient", false, "Keep unknown flag bits instead of failing")
	fs.BoolVar(&opts.Exact, "exact", false, "Fail on bytes left after the record")
	fs.BoolVar(&opts.Verify, "verify", false, "Re-encode every record and compare with the input")
	fs.BoolVarP(&opts.Batch, "batch", "b", false, "Treat every input line as a separate record")
	fs.IntVarP(&opts.Parallel, "parallel", "p", runtime.NumCPU(), "Number of records decoded concurrently in batch mode")
	fs.BoolVarP(&opts.List, "list", "l", false, "List known schemas and exit")
	fs.StringVar(&opts.LogLevel, "log-level", "INFO", "Logging level: DEBUG, INFO, WARN, ERROR or FATAL")
	fs.BoolVarP(&opts.Help, "help", "h", false, "Show usage information and exit")
	return fs
}

func parseOptions(args []string) (Options, error) {
	var (
		opts   Options
		format string
		bytes  string
	)
	fs := newFlagSet(&opts, &format, &bytes)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Options{Help: true}, nil
		}
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, errors.Errorf("unexpected arguments %v", fs.Args())
	}
	var err error
	if opts.Format, err = render.ParseFormat(format); err != nil {
		return Options{}, err
	}
	if opts.Bytes, err = render.ParseBytes(bytes); err != nil {
		return Options{}, err
	}
	if opts.Help || opts.List {
		return opts, nil
	}
	if opts.Schema == "" {
		return Options{}, errors.New("--schema is required")
	}
	if opts.Body && opts.Embedded {
		return Options{}, errors.New("--body and --embedded are mutually exclusive")
	}
	if opts.Body && opts.Schema == autoSchema {
		return Options{}, errors.New("--body cannot be used with --schema auto")
	}
	if opts.Hex != "" && opts.In != "" {
		return Options{}, errors.New("--hex and --in are mutually exclusive")
	}
	if opts.Parallel < 1 {
		return Options{}, errors.Errorf("invalid --parallel value %d", opts.Parallel)
	}
	return opts, nil
}

func showUsage() {
	_, _ = fmt.Fprint(os.Stderr, usage+"\nFlags:\n")
	var (
		opts          Options
		format, bytes string
	)
	fs := newFlagSet(&opts, &format, &bytes)
	fs.SetOutput(os.Stderr)
	fs.PrintDefaults()
}
