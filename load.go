package mentions

import (
	"fmt"
	"io"
	"strings"

	"github.com/yangbooom/mentions-go/internal/loader"
)

// ParseError is returned when a definitions file cannot be decoded.
type ParseError = loader.ParseError

// LoadFile creates an engine from a YAML or TOML definitions file. Options
// given here override the file's settings.
func LoadFile(path string, opts ...Option) (*Engine, error) {
	f, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return fromFile(f, opts)
}

// Load creates an engine from definitions read from r. format is "yaml"
// or "toml".
func Load(r io.Reader, format string, opts ...Option) (*Engine, error) {
	f, err := loader.Load(r, loader.Format(strings.ToLower(format)))
	if err != nil {
		return nil, err
	}
	return fromFile(f, opts)
}

func fromFile(f *loader.File, opts []Option) (*Engine, error) {
	configs, err := f.Configs()
	if err != nil {
		return nil, err
	}
	var fileOpts []Option
	if f.Unit != "" {
		unit, err := ParseUnit(f.Unit)
		if err != nil {
			return nil, err
		}
		fileOpts = append(fileOpts, WithUnit(unit))
	}
	fileOpts = append(fileOpts, WithMarkdown(f.Markdown))
	return New(configs, append(fileOpts, opts...)...)
}

// ParseUnit parses a unit name: rune, byte, utf16 or grapheme.
func ParseUnit(s string) (Unit, error) {
	for _, u := range []Unit{UnitRune, UnitByte, UnitUTF16, UnitGrapheme} {
		if strings.EqualFold(s, u.String()) {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrConfig, s)
}
