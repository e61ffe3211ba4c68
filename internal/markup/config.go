// Package markup compiles mention templates and scans markup strings.
//
// A template is a small DSL with two placeholders, PlaceholderID and
// PlaceholderDisplay. Each Config is validated once at construction and is
// immutable afterwards, so a slice of configs can be shared freely.
package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	PlaceholderID      = "__id__"
	PlaceholderDisplay = "__display__"
)

// ErrConfig is matched by every *ConfigError via errors.Is.
var ErrConfig = errors.New("invalid markup config")

// ConfigError reports a template or matcher that cannot be used.
type ConfigError struct {
	Template     string
	Pattern      string
	Groups       int
	Placeholders int
	Reason       string
}

func (e *ConfigError) Error() string {
	if e.Pattern != "" && e.Groups != e.Placeholders {
		return fmt.Sprintf("markup %q: number of capturing groups in %s (%d) does not match the number of placeholders (%d)",
			e.Template, e.Pattern, e.Groups, e.Placeholders)
	}
	return fmt.Sprintf("markup %q: %s", e.Template, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// DisplayTransform derives the visible text of a mention.
type DisplayTransform func(id, display string) string

// DefaultDisplayTransform shows the display text, or the id when it is empty.
func DefaultDisplayTransform(id, display string) string {
	if display != "" {
		return display
	}
	return id
}

// Config describes one mention type.
type Config struct {
	name              string
	template          string
	trigger           string
	appendSpace       bool
	allowSpaceInQuery bool

	re           *regexp.Regexp
	triggerRe    *regexp.Regexp
	idGroup      int
	displayGroup int
	transform    DisplayTransform
}

// Option configures a Config under construction.
type Option func(*Config)

// WithName labels the mention type (used by loaders and the CLI).
func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}

// WithRegexp replaces the matcher derived from the template. Its number of
// capturing groups must equal the number of placeholders in the template.
func WithRegexp(re *regexp.Regexp) Option {
	return func(c *Config) {
		c.re = re
	}
}

// WithDisplayTransform sets how the visible text is derived from id and display.
func WithDisplayTransform(fn DisplayTransform) Option {
	return func(c *Config) {
		c.transform = fn
	}
}

// WithTrigger sets the literal that opens a suggestion query, e.g. "@".
func WithTrigger(trigger string) Option {
	return func(c *Config) {
		c.trigger = trigger
	}
}

// WithTriggerRegexp sets a custom query pattern. Group 1 must span the whole
// query sequence including the trigger, group 2 the query text.
func WithTriggerRegexp(re *regexp.Regexp) Option {
	return func(c *Config) {
		c.triggerRe = re
	}
}

// WithAppendSpace appends a space after an accepted suggestion.
func WithAppendSpace(enable bool) Option {
	return func(c *Config) {
		c.appendSpace = enable
	}
}

// WithAllowSpaceInQuery lets a suggestion query contain whitespace.
func WithAllowSpaceInQuery(enable bool) Option {
	return func(c *Config) {
		c.allowSpaceInQuery = enable
	}
}

// New validates template and builds a Config.
func New(template string, opts ...Option) (*Config, error) {
	c := &Config{template: template}
	for _, opt := range opts {
		opt(c)
	}
	if c.transform == nil {
		c.transform = DefaultDisplayTransform
	}

	if template == "" {
		return nil, &ConfigError{Reason: "template is empty"}
	}
	idCount := strings.Count(template, PlaceholderID)
	displayCount := strings.Count(template, PlaceholderDisplay)
	if idCount != 1 {
		return nil, &ConfigError{
			Template: template,
			Reason:   fmt.Sprintf("template must contain %s exactly once (found %d)", PlaceholderID, idCount),
		}
	}
	if displayCount > 1 {
		return nil, &ConfigError{
			Template: template,
			Reason:   fmt.Sprintf("template must contain %s at most once (found %d)", PlaceholderDisplay, displayCount),
		}
	}
	placeholders := idCount + displayCount

	if c.re == nil {
		re, err := compileTemplate(template)
		if err != nil {
			return nil, &ConfigError{Template: template, Reason: err.Error()}
		}
		c.re = re
	}
	if groups := c.re.NumSubexp(); groups != placeholders {
		return nil, &ConfigError{
			Template:     template,
			Pattern:      c.re.String(),
			Groups:       groups,
			Placeholders: placeholders,
		}
	}

	c.idGroup, c.displayGroup = 1, 0
	if displayCount == 1 {
		if strings.Index(template, PlaceholderID) < strings.Index(template, PlaceholderDisplay) {
			c.displayGroup = 2
		} else {
			c.idGroup, c.displayGroup = 2, 1
		}
	}

	if c.triggerRe == nil && c.trigger != "" {
		c.triggerRe = triggerPattern(c.trigger, c.allowSpaceInQuery)
	}
	if c.triggerRe != nil && c.triggerRe.NumSubexp() < 2 {
		return nil, &ConfigError{
			Template: template,
			Reason:   fmt.Sprintf("trigger pattern %s needs two capturing groups", c.triggerRe.String()),
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for package-level vars.
func MustNew(template string, opts ...Option) *Config {
	c, err := New(template, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) Name() string                  { return c.name }
func (c *Config) Template() string              { return c.template }
func (c *Config) Trigger() string               { return c.trigger }
func (c *Config) AppendSpace() bool             { return c.appendSpace }
func (c *Config) AllowSpaceInQuery() bool       { return c.allowSpaceInQuery }
func (c *Config) Regexp() *regexp.Regexp        { return c.re }
func (c *Config) TriggerRegexp() *regexp.Regexp { return c.triggerRe }

// Display applies the display transform.
func (c *Config) Display(id, display string) string {
	return c.transform(id, display)
}

// Serialize renders a mention token of this type.
func (c *Config) Serialize(id, display string) string {
	return Serialize(c.template, id, display)
}

// compileTemplate turns each placeholder into a lazy group that stops at
// the character following it in the template. A trailing placeholder runs
// up to the next whitespace.
func compileTemplate(template string) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(template)
	pattern = strings.Replace(pattern, PlaceholderDisplay, placeholderGroup(template, PlaceholderDisplay), 1)
	pattern = strings.Replace(pattern, PlaceholderID, placeholderGroup(template, PlaceholderID), 1)
	return regexp.Compile(pattern)
}

func placeholderGroup(template, placeholder string) string {
	i := strings.Index(template, placeholder)
	if i < 0 {
		return ""
	}
	rest := template[i+len(placeholder):]
	if rest == "" {
		return `(\S+)`
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return "([^" + classEscape(string(r)) + "]+?)"
}

// triggerPattern matches a trigger at the start of the text or after
// whitespace, followed by the query, anchored at the caret.
func triggerPattern(trigger string, allowSpace bool) *regexp.Regexp {
	exclude := classEscape(trigger)
	if !allowSpace {
		exclude = `\s` + exclude
	}
	return regexp.MustCompile(`(?:^|\s)(` + regexp.QuoteMeta(trigger) + `([^` + exclude + `]*))$`)
}

func classEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ']', '[', '^', '-':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
