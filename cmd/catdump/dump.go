package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/errs"
	"github.com/nemtech/gocatbuffer/pkg/render"
	"github.com/nemtech/gocatbuffer/pkg/schemafile"
	"github.com/nemtech/gocatbuffer/pkg/symbol"
	"github.com/nemtech/gocatbuffer/pkg/util/common"
)

const (
	maxLineSize = 16 * 1024 * 1024
	autoSchema  = "auto"
)

func dump(ctx context.Context, opts Options, fs afero.Fs, stdin io.Reader, out io.Writer) error {
	reg, err := registry(fs, opts.SchemaFile)
	if err != nil {
		return err
	}
	if opts.List {
		return list(reg, out)
	}
	d := &dumper{opts: opts}
	if opts.Schema == autoSchema {
		d.resolve = func(src []byte) (*catbuffer.Schema, error) {
			return reg.TransactionSchemaOf(src, opts.Embedded)
		}
	} else {
		s, err := resolveSchema(reg, opts)
		if err != nil {
			return err
		}
		d.resolve = func([]byte) (*catbuffer.Schema, error) {
			return s, nil
		}
	}

	if opts.Hex != "" {
		return d.single(opts.Hex, out)
	}
	in := stdin
	if opts.In != "" {
		f, err := fs.Open(opts.In)
		if err != nil {
			return errors.Wrapf(err, "failed to open input %s", opts.In)
		}
		defer func() {
			if err := f.Close(); err != nil {
				zap.S().Warnf("Failed to close input %s: %v", opts.In, err)
			}
		}()
		in = f
	}
	if opts.Batch {
		return d.batch(ctx, in, out)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	return d.single(string(data), out)
}

func registry(fs afero.Fs, path string) (*symbol.Registry, error) {
	reg := symbol.NewDefaultRegistry()
	if path == "" {
		return reg, nil
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open schema file %s", path)
	}
	var res schemafile.Result
	if info.IsDir() {
		res, err = schemafile.LoadDir(fs, path, reg)
	} else {
		res, err = schemafile.Load(fs, path, reg)
	}
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("Loaded %d flag tables and %d schemas from %s", len(res.FlagTables), len(res.Schemas), path)
	return reg, nil
}

// resolveSchema accepts a schema name or an entity type.
func resolveSchema(reg *symbol.Registry, opts Options) (*catbuffer.Schema, error) {
	if s, ok := reg.Lookup(opts.Schema); ok {
		return s, nil
	}
	v, err := strconv.ParseUint(opts.Schema, 0, 16)
	if err != nil {
		return reg.Get(opts.Schema)
	}
	t := symbol.EntityType(v)
	var (
		s    *catbuffer.Schema
		ok   bool
		what string
	)
	switch {
	case opts.Body:
		s, ok = reg.Body(t)
		what = "body"
	case opts.Embedded:
		s, ok = reg.Embedded(t)
		what = "embedded transaction"
	default:
		s, ok = reg.Transaction(t)
		what = "transaction"
	}
	if !ok {
		return nil, errors.Errorf("no %s schema for entity type %s", what, t)
	}
	return s, nil
}

func list(reg *symbol.Registry, out io.Writer) error {
	for _, name := range reg.Names() {
		s, _ := reg.Lookup(name)
		if _, err := fmt.Fprintf(out, "%-45s min %4d bytes  %016x\n", name, s.MinSize(), s.Fingerprint()); err != nil {
			return err
		}
	}
	return nil
}

type dumper struct {
	resolve func(src []byte) (*catbuffer.Schema, error)
	opts    Options
}

func (d *dumper) decodeOptions() []catbuffer.DecodeOption {
	var o []catbuffer.DecodeOption
	if d.opts.Lenient {
		o = append(o, catbuffer.Lenient())
	}
	if d.opts.Exact {
		o = append(o, catbuffer.ExactLength())
	}
	return o
}

// process decodes one hex record and returns its rendered form.
func (d *dumper) process(hexRecord string) ([]byte, error) {
	src, err := common.FromHexString(hexRecord)
	if err != nil {
		return nil, err
	}
	s, err := d.resolve(src)
	if err != nil {
		return nil, err
	}
	r, err := catbuffer.Decode(s, src, d.decodeOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", s.Name())
	}
	if d.opts.Verify {
		if err := verify(r, src, d.opts.Exact); err != nil {
			return nil, err
		}
	}
	data, err := render.Render(r, d.opts.Format, render.Options{Bytes: d.opts.Bytes})
	if err != nil {
		return nil, err
	}
	switch d.opts.Format {
	case render.FormatCBOR:
		data = []byte(common.ToHexString(data) + "\n")
	case render.FormatJSON:
		data = append(data, '\n')
	}
	return data, nil
}

// verify checks that the record encodes back to the bytes it was decoded from.
func verify(r *catbuffer.Record, src []byte, exact bool) error {
	enc, err := catbuffer.Encode(r)
	if err != nil {
		return errors.Wrap(err, "verification failed")
	}
	size, err := catbuffer.SizeOf(r)
	if err != nil {
		return errors.Wrap(err, "verification failed")
	}
	if size != len(enc) {
		return errors.Errorf("verification failed: size %d differs from encoded length %d", size, len(enc))
	}
	if exact && len(enc) != len(src) {
		return errors.Wrap(errs.NewTrailingBytes(len(src)-len(enc)), "verification failed")
	}
	if !bytes.Equal(enc, src[:len(enc)]) {
		return errors.Errorf("verification failed: re-encoded bytes differ\n  input:   %s\n  encoded: %s",
			common.ToHexString(src[:len(enc)]), common.ToHexString(enc))
	}
	return nil
}

func (d *dumper) single(hexRecord string, out io.Writer) error {
	data, err := d.process(hexRecord)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

type line struct {
	number int
	text   string
}

func (d *dumper) batch(ctx context.Context, in io.Reader, out io.Writer) error {
	var lines []line
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{number: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	results := make([][]byte, len(lines))
	failures := make([]error, len(lines))
	failed := atomic.NewInt64(0)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Parallel)
	for i, l := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := d.process(l.text)
			if err != nil {
				failed.Inc()
				failures[i] = err
				zap.S().Debugf("Line %d: %v", l.number, err)
				return nil
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, l := range lines {
		var err error
		if failures[i] != nil {
			_, err = fmt.Fprintf(out, "# line %d: %v\n", l.number, failures[i])
		} else {
			if d.opts.Format == render.FormatText {
				_, err = fmt.Fprintf(out, "# line %d\n", l.number)
			}
			if err == nil {
				_, err = out.Write(results[i])
			}
		}
		if err != nil {
			return err
		}
	}
	if n := failed.Load(); n > 0 {
		return errors.Errorf("%d of %d records failed", n, len(lines))
	}
	zap.S().Debugf("Decoded %d records", len(lines))
	return nil
}
