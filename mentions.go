// Package mentions maps a markup string with embedded mention tokens to
// the plain text a user sees and edits, and reconciles edits of that plain
// text back into markup.
//
// A mention type is described by a template such as "@[__display__](__id__)".
// Literal markup is shown verbatim; each mention token is shown as its
// display text and is treated as one atomic unit: an edit touching any
// part of a mention replaces the whole mention.
//
// Basic usage:
//
//	e, _ := mentions.New(nil)
//	plain := e.PlainText("Hi @[John](42)!")                  // "Hi John!"
//	res := e.ApplyChange("Hi @[John](42)!", "Hi Joh!", change) // "Hi !"
package mentions

import (
	"iter"

	"github.com/yangbooom/mentions-go/internal/markup"
)

// Tokenize lazily splits value into tokens using configs.
func Tokenize(value string, configs []*MarkupConfig) iter.Seq[Token] {
	return markup.Tokenize(value, configs)
}

// Serialize fills a template with id and display.
func Serialize(template, id, display string) string {
	return markup.Serialize(template, id, display)
}

// PlainText returns the plain-text projection of value.
func PlainText(value string, configs []*MarkupConfig) string {
	return engineFor(configs).PlainText(value)
}

// ExtractMentions returns the mentions of value. Plain-text indices are
// measured in runes.
func ExtractMentions(value string, configs []*MarkupConfig) []Mention {
	return engineFor(configs).ExtractMentions(value)
}

// MapPlainToMarkup converts a rune index of the plain text of value to a
// markup byte offset.
func MapPlainToMarkup(value string, configs []*MarkupConfig, plainIndex int, policy BoundaryPolicy) (int, bool) {
	return engineFor(configs).MapPlainToMarkup(value, plainIndex, policy)
}

// ApplyEdit returns the markup after the plain text of value was edited
// into newPlain. Selection indices are measured in runes.
func ApplyEdit(value, newPlain string, change Change, configs []*MarkupConfig) string {
	return engineFor(configs).ApplyEdit(value, newPlain, change)
}

// engineFor returns an uncached engine with default options. Invalid
// configs panic with the *ConfigError; use New to get it as an error.
func engineFor(configs []*MarkupConfig) *Engine {
	return MustNew(configs, WithCacheSize(0))
}
