// Package schemafile reads schema definitions from TOML documents.
//
// A document declares flag tables and schemas; both may reference anything declared
// earlier in the document or already present in the registry:
//
//	[[flagtable]]
//	name = "LinkAction"
//	width = 1
//	flags = [{ name = "LINK", value = 1 }]
//
//	[[schema]]
//	name = "KeyLinkBody"
//
//	[[schema.field]]
//	name = "linkedPublicKey"
//	kind = "fixed"
//	size = 32
//
//	[[schema.field]]
//	name = "linkAction"
//	kind = "flags"
//	flags = "LinkAction"
//
// Field kinds are uint, fixed, reserved, count, size, flags, struct and array. Count
// fields default to one byte and size fields to four. A key that the kind does not read
// is an error.
package schemafile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/errs"
	"github.com/nemtech/gocatbuffer/pkg/symbol"
)

type document struct {
	FlagTables []flagTableDef `toml:"flagtable"`
	Schemas    []schemaDef    `toml:"schema"`
}

type flagTableDef struct {
	Name  string    `toml:"name"`
	Width int       `toml:"width"`
	Flags []flagDef `toml:"flags"`
}

type flagDef struct {
	Name  string `toml:"name"`
	Value uint64 `toml:"value"`
}

type schemaDef struct {
	Name   string     `toml:"name"`
	Fields []fieldDef `toml:"field"`
}

type fieldDef struct {
	Name          string   `toml:"name"`
	Kind          string   `toml:"kind"`
	Size          *int     `toml:"size"`
	Flags         string   `toml:"flags"`
	Count         string   `toml:"count"`
	Element       string   `toml:"element"`
	ElementSize   int      `toml:"element_size"`
	ElementSchema string   `toml:"element_schema"`
	Schema        string   `toml:"schema"`
	When          *whenDef `toml:"when"`
}

// allowedKeys lists the optional keys each field kind reads; name, kind and when apply
// to all of them.
var allowedKeys = map[string][]string{
	"uint":     {"size"},
	"fixed":    {"size"},
	"reserved": {"size"},
	"count":    {"size"},
	"size":     {"size"},
	"flags":    {"flags"},
	"struct":   {"schema"},
	"array":    {"count", "element", "element_size", "element_schema"},
}

// setKeys returns the optional keys present in the definition.
func (fd fieldDef) setKeys() []string {
	var keys []string
	for _, k := range []struct {
		name string
		set  bool
	}{
		{"size", fd.Size != nil},
		{"flags", fd.Flags != ""},
		{"count", fd.Count != ""},
		{"element", fd.Element != ""},
		{"element_size", fd.ElementSize != 0},
		{"element_schema", fd.ElementSchema != ""},
		{"schema", fd.Schema != ""},
	} {
		if k.set {
			keys = append(keys, k.name)
		}
	}
	return keys
}

func (fd fieldDef) size(def int) int {
	if fd.Size == nil {
		return def
	}
	return *fd.Size
}

type whenDef struct {
	Field string `toml:"field"`
	Flag  string `toml:"flag"`
}

// Result lists what a document declared, in declaration order.
type Result struct {
	FlagTables []*catbuffer.FlagTable
	Schemas    []*catbuffer.Schema
}

// Load reads the file from fs and registers its flag tables and schemas in reg.
func Load(fs afero.Fs, path string, reg *symbol.Registry) (Result, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to read schema file %s", path)
	}
	res, err := Parse(data, reg)
	if err != nil {
		return Result{}, errors.Wrapf(err, "schema file %s", path)
	}
	return res, nil
}

// LoadDir loads every *.toml file of the directory in lexical order.
func LoadDir(fs afero.Fs, dir string, reg *symbol.Registry) (Result, error) {
	files, err := afero.Glob(fs, strings.TrimSuffix(dir, "/")+"/*.toml")
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to list schema files in %s", dir)
	}
	var out Result
	for _, f := range files {
		res, err := Load(fs, f, reg)
		if err != nil {
			return Result{}, err
		}
		out.FlagTables = append(out.FlagTables, res.FlagTables...)
		out.Schemas = append(out.Schemas, res.Schemas...)
	}
	return out, nil
}

// Parse decodes a TOML document and registers its declarations in reg. Nothing is
// registered unless the whole document is valid.
func Parse(data []byte, reg *symbol.Registry) (Result, error) {
	var doc document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to parse TOML")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Result{}, errs.NewInvalidSchema("unknown keys: " + strings.Join(keys, ", "))
	}
	b := &builder{
		reg:     reg,
		tables:  make(map[string]*catbuffer.FlagTable),
		schemas: make(map[string]*catbuffer.Schema),
	}
	var res Result
	for i, def := range doc.FlagTables {
		t, err := b.flagTable(def)
		if err != nil {
			return Result{}, errs.Extend(err, fmt.Sprintf("flagtable #%d", i))
		}
		res.FlagTables = append(res.FlagTables, t)
	}
	for i, def := range doc.Schemas {
		s, err := b.schema(def)
		if err != nil {
			return Result{}, errs.Extend(err, fmt.Sprintf("schema #%d", i))
		}
		res.Schemas = append(res.Schemas, s)
	}
	for _, t := range res.FlagTables {
		if err := reg.RegisterFlagTable(t); err != nil {
			return Result{}, err
		}
	}
	for _, s := range res.Schemas {
		if err := reg.Register(s); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

type builder struct {
	reg     *symbol.Registry
	tables  map[string]*catbuffer.FlagTable
	schemas map[string]*catbuffer.Schema
}

func (b *builder) flagTable(def flagTableDef) (*catbuffer.FlagTable, error) {
	if _, ok := b.lookupTable(def.Name); ok {
		return nil, errs.NewInvalidSchema(fmt.Sprintf("flag table %q is already declared", def.Name))
	}
	flags := make([]catbuffer.Flag, len(def.Flags))
	for i, f := range def.Flags {
		flags[i] = catbuffer.Flag{Name: f.Name, Value: f.Value}
	}
	t, err := catbuffer.NewFlagTable(def.Name, def.Width, flags...)
	if err != nil {
		return nil, err
	}
	b.tables[def.Name] = t
	return t, nil
}

func (b *builder) lookupTable(name string) (*catbuffer.FlagTable, bool) {
	if t, ok := b.tables[name]; ok {
		return t, true
	}
	return b.reg.FlagTable(name)
}

func (b *builder) lookupSchema(name string) (*catbuffer.Schema, error) {
	if s, ok := b.schemas[name]; ok {
		return s, nil
	}
	if s, ok := b.reg.Lookup(name); ok {
		return s, nil
	}
	return nil, errs.NewInvalidSchema(fmt.Sprintf("unknown schema %q", name))
}

func (b *builder) schema(def schemaDef) (*catbuffer.Schema, error) {
	if _, ok := b.schemas[def.Name]; ok {
		return nil, errs.NewInvalidSchema(fmt.Sprintf("schema %q is already declared", def.Name))
	}
	fields := make([]catbuffer.Field, len(def.Fields))
	for i, fd := range def.Fields {
		f, err := b.field(fd)
		if err != nil {
			return nil, errs.Extend(err, fmt.Sprintf("%s field #%d %q", def.Name, i, fd.Name))
		}
		fields[i] = f
	}
	s, err := catbuffer.NewSchema(def.Name, fields...)
	if err != nil {
		return nil, err
	}
	if prev, ok := b.reg.Lookup(def.Name); ok && prev.Fingerprint() != s.Fingerprint() {
		return nil, errs.NewInvalidSchema(fmt.Sprintf("schema %q is already registered with a different layout", def.Name))
	}
	b.schemas[def.Name] = s
	return s, nil
}

func (b *builder) field(fd fieldDef) (catbuffer.Field, error) {
	var f catbuffer.Field
	kind := strings.ToLower(fd.Kind)
	if allowed, ok := allowedKeys[kind]; ok {
		for _, k := range fd.setKeys() {
			if !slices.Contains(allowed, k) {
				return f, errs.NewInvalidSchema(fmt.Sprintf("key %q does not apply to %s fields", k, kind))
			}
		}
	}
	switch kind {
	case "uint":
		f = catbuffer.Uint(fd.Name, fd.size(0))
	case "fixed":
		f = catbuffer.Fixed(fd.Name, fd.size(0))
	case "reserved":
		f = catbuffer.Reserved(fd.Name, fd.size(0))
	case "count":
		f = catbuffer.Count(fd.Name, fd.size(1))
	case "size":
		f = catbuffer.SizePrefix(fd.Name, fd.size(4))
	case "flags":
		t, ok := b.lookupTable(fd.Flags)
		if !ok {
			return f, errs.NewInvalidSchema(fmt.Sprintf("unknown flag table %q", fd.Flags))
		}
		f = catbuffer.Flags(fd.Name, t)
	case "struct":
		s, err := b.lookupSchema(fd.Schema)
		if err != nil {
			return f, err
		}
		f = catbuffer.Struct(fd.Name, s)
	case "array":
		e, err := b.element(fd)
		if err != nil {
			return f, err
		}
		f = catbuffer.Array(fd.Name, fd.Count, e)
	default:
		return f, errs.NewInvalidSchema(fmt.Sprintf("unknown field kind %q", fd.Kind))
	}
	if fd.When != nil {
		f = f.When(fd.When.Field, fd.When.Flag)
	}
	return f, nil
}

func (b *builder) element(fd fieldDef) (catbuffer.Element, error) {
	switch strings.ToLower(fd.Element) {
	case "uint":
		return catbuffer.UintElement(fd.ElementSize), nil
	case "fixed":
		return catbuffer.FixedElement(fd.ElementSize), nil
	case "struct":
		s, err := b.lookupSchema(fd.ElementSchema)
		if err != nil {
			return catbuffer.Element{}, err
		}
		return catbuffer.StructElement(s), nil
	default:
		return catbuffer.Element{}, errs.NewInvalidSchema(fmt.Sprintf("unknown element kind %q", fd.Element))
	}
}
