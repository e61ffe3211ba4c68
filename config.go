package mentions

import (
	"sync"

	"github.com/yangbooom/mentions-go/internal/markup"
	"github.com/yangbooom/mentions-go/internal/types"
)

// 导出类型别名
type (
	Token            = types.Token
	TokenKind        = types.TokenKind
	Mention          = types.Mention
	Selection        = types.Selection
	BoundaryPolicy   = types.BoundaryPolicy
	Unit             = types.Unit
	MarkupConfig     = markup.Config
	MarkupOption     = markup.Option
	DisplayTransform = markup.DisplayTransform
	ConfigError      = markup.ConfigError
)

const (
	TokenText    = types.TokenText
	TokenMention = types.TokenMention

	PolicyStart = types.PolicyStart
	PolicyEnd   = types.PolicyEnd
	PolicyNull  = types.PolicyNull

	UnitRune     = types.UnitRune
	UnitByte     = types.UnitByte
	UnitUTF16    = types.UnitUTF16
	UnitGrapheme = types.UnitGrapheme
)

const (
	PlaceholderID      = markup.PlaceholderID
	PlaceholderDisplay = markup.PlaceholderDisplay

	// DefaultTemplate is the markup of the default user mention type.
	DefaultTemplate = "@[" + PlaceholderDisplay + "](" + PlaceholderID + ")"
)

// ErrConfig is matched by every configuration error.
var ErrConfig = markup.ErrConfig

// NewMarkup validates template and returns a mention type. It fails when
// the matcher's capturing groups do not line up with the placeholders.
func NewMarkup(template string, opts ...MarkupOption) (*MarkupConfig, error) {
	return markup.New(template, opts...)
}

// WithName labels a mention type.
func WithName(name string) MarkupOption { return markup.WithName(name) }

// WithTrigger sets the literal that opens a suggestion query.
func WithTrigger(trigger string) MarkupOption { return markup.WithTrigger(trigger) }

// WithDisplayTransform sets how the visible text of a mention is derived.
func WithDisplayTransform(fn DisplayTransform) MarkupOption {
	return markup.WithDisplayTransform(fn)
}

// WithAppendSpace appends a space after an accepted suggestion.
func WithAppendSpace(enable bool) MarkupOption { return markup.WithAppendSpace(enable) }

// WithAllowSpaceInQuery lets suggestion queries contain whitespace.
func WithAllowSpaceInQuery(enable bool) MarkupOption { return markup.WithAllowSpaceInQuery(enable) }

var (
	defaultConfigs     []*MarkupConfig
	defaultConfigsOnce sync.Once
)

// DefaultConfigs returns the default mention types (singleton): one user
// mention serialized as DefaultTemplate and triggered by "@".
func DefaultConfigs() []*MarkupConfig {
	defaultConfigsOnce.Do(func() {
		defaultConfigs = []*MarkupConfig{
			markup.MustNew(DefaultTemplate, markup.WithName("user"), markup.WithTrigger("@")),
		}
	})
	return append([]*MarkupConfig(nil), defaultConfigs...)
}
