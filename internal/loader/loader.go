// Package loader reads mention type definitions from YAML or TOML files.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yangbooom/mentions-go/internal/markup"
)

// Format is the encoding of a definitions file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// TypeDef defines one mention type.
type TypeDef struct {
	Name    string `yaml:"name" toml:"name"`
	Trigger string `yaml:"trigger" toml:"trigger"`
	Markup  string `yaml:"markup" toml:"markup"`
	// Regex overrides the matcher derived from Markup.
	Regex string `yaml:"regex,omitempty" toml:"regex,omitempty"`
	// Display is a template for the visible text, e.g. "@__display__".
	Display           string `yaml:"display,omitempty" toml:"display,omitempty"`
	AppendSpace       bool   `yaml:"append_space" toml:"append_space"`
	AllowSpaceInQuery bool   `yaml:"allow_space_in_query" toml:"allow_space_in_query"`
}

// File is the content of a definitions file.
type File struct {
	Unit     string    `yaml:"unit,omitempty" toml:"unit,omitempty"`
	Markdown bool      `yaml:"markdown" toml:"markdown"`
	Types    []TypeDef `yaml:"types" toml:"types"`
}

// ParseError represents an error while parsing a definitions file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatOf guesses the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported definitions file %s", path)
}

// LoadFile reads a definitions file, choosing the format by extension.
func LoadFile(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file %s: %w", path, err)
	}
	return parse(path, data, format)
}

// Load reads definitions from r.
func Load(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}
	return parse("<reader>", data, format)
}

func parse(source string, data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return nil, perr
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &f, nil
}

// Configs builds the mention types defined in f, in file order.
func (f *File) Configs() ([]*markup.Config, error) {
	configs := make([]*markup.Config, 0, len(f.Types))
	for i, def := range f.Types {
		c, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("mention type %d (%s): %w", i, def.Name, err)
		}
		configs = append(configs, c)
	}
	return configs, nil
}

// Build validates the definition and returns its mention type.
func (d TypeDef) Build() (*markup.Config, error) {
	opts := []markup.Option{
		markup.WithName(d.Name),
		markup.WithAppendSpace(d.AppendSpace),
		markup.WithAllowSpaceInQuery(d.AllowSpaceInQuery),
	}
	if d.Trigger != "" {
		opts = append(opts, markup.WithTrigger(d.Trigger))
	}
	if d.Regex != "" {
		re, err := compileRegex(d.Regex)
		if err != nil {
			return nil, err
		}
		opts = append(opts, markup.WithRegexp(re))
	}
	if d.Display != "" {
		tpl := d.Display
		opts = append(opts, markup.WithDisplayTransform(func(id, display string) string {
			return markup.Serialize(tpl, id, markup.DefaultDisplayTransform(id, display))
		}))
	}
	return markup.New(d.Markup, opts...)
}
