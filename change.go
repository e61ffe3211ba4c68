package mentions

import (
	"strings"
	"unicode/utf8"

	"github.com/yangbooom/mentions-go/internal/util"
)

// Change describes the selection around one edit of the plain text.
//
// Before is the selection in the old plain text, After the caret the
// control reported once the edit was applied. Either may be inactive when
// the control does not know it.
type Change struct {
	Before Selection `json:"before"`
	After  Selection `json:"after"`
}

// Result is the state of a value after an edit.
type Result struct {
	Markup    string    `json:"markup"`
	PlainText string    `json:"plain_text"`
	Mentions  []Mention `json:"mentions"`
	// Selection is the caret to restore, in plain-text units of the new
	// plain text.
	Selection Selection `json:"selection"`
	// Fallback reports that no single edit region could be established and
	// the new plain text replaced the markup wholesale.
	Fallback bool `json:"fallback,omitempty"`
}

// edit replaces old plain bytes [start, end) with insert.
type edit struct {
	start, end int
	insert     string
}

// ApplyChange derives the new markup after the plain text of value was
// edited into newPlain.
//
// The edited region is located from the selection when it is consistent
// with the two texts, otherwise by a prefix and suffix diff. A region that
// cuts into a mention is widened to the mention's edges so the whole
// mention is replaced; mentions outside the region are preserved verbatim.
// Inserted text is spliced in as literal markup and is never turned into a
// mention unless it already spells one.
func (e *Engine) ApplyChange(value, newPlain string, change Change) Result {
	old := e.analyze(value)
	if newPlain == old.plain {
		sel := change.After
		if !sel.Active {
			sel = change.Before
		}
		return Result{
			Markup:    value,
			PlainText: old.plain,
			Mentions:  old.describe(),
			Selection: sel,
		}
	}

	newIndex := util.NewIndex(newPlain, e.opts.Unit)
	ed, ok := selectionEdit(old, newPlain, newIndex, change)
	if !ok {
		ed, ok = regionEdit(old, newPlain, newIndex, change)
	}
	if !ok {
		Logger.Printf("no single edit region between %d and %d plain bytes, replacing markup", len(old.plain), len(newPlain))
		res := e.result(newPlain, len(newPlain))
		if change.After.Active {
			res.Selection = e.caret(newPlain, newIndex.ToByte(change.After.End))
		}
		res.Fallback = true
		return res
	}

	ed = old.widen(ed)
	start, _ := old.plainToMarkup(ed.start, PolicyStart)
	end, _ := old.plainToMarkup(ed.end, PolicyEnd)
	return e.result(value[:start]+ed.insert+value[end:], ed.start+len(ed.insert))
}

// ApplyEdit is ApplyChange returning only the new markup.
func (e *Engine) ApplyEdit(value, newPlain string, change Change) string {
	return e.ApplyChange(value, newPlain, change).Markup
}

// selectionEdit reconstructs the edit from the reported selections and
// checks it against both texts.
func selectionEdit(old *snapshot, newPlain string, newIndex *util.Index, change Change) (edit, bool) {
	if !change.After.Active {
		return edit{}, false
	}
	endAfter := newIndex.ToByte(change.After.End)
	delta := len(old.plain) - len(newPlain)

	var startBefore, endBefore int
	if change.Before.Active {
		startBefore = old.index.ToByte(min(change.Before.Start, change.Before.End))
		endBefore = old.index.ToByte(max(change.Before.Start, change.Before.End))
	} else {
		startBefore = old.index.Snap(max(endAfter+delta, 0))
		endBefore = startBefore
	}

	// 输入法组字：光标未动且长度不变，视为替换了光标前的一个字符
	before := change.Before
	if before.Collapsed() && before.End == change.After.End && old.index.Len() == newIndex.Len() {
		startBefore = old.index.ToByte(before.End - 1)
	}

	var insert string
	if startBefore <= endAfter && endAfter <= len(newPlain) {
		insert = newPlain[startBefore:endAfter]
	}
	start := min(startBefore, endAfter)
	end := endBefore
	if startBefore == endAfter {
		end = max(endBefore, startBefore+delta)
	}

	ed := edit{start: start, end: end, insert: insert}
	if !ed.valid(old.plain, newPlain) {
		return edit{}, false
	}
	return ed, true
}

// regionEdit derives the edit from the two texts when the selections do not
// explain it. The caret-bounded diff is tried first, then a plain prefix and
// suffix diff. A region reaching past both ends of the Before selection
// means two separate edits landed around it and is rejected.
func regionEdit(old *snapshot, newPlain string, newIndex *util.Index, change Change) (edit, bool) {
	var ed edit
	ok := false
	if change.After.Active {
		ed, ok = diffEdit(old.plain, newPlain, newIndex.ToByte(change.After.End))
	}
	if !ok {
		ed, _ = diffEdit(old.plain, newPlain, -1)
		ed = old.slide(ed)
	}
	if b := change.Before; b.Active {
		lo := old.index.ToByte(min(b.Start, b.End))
		hi := old.index.ToByte(max(b.Start, b.End))
		if ed.start < lo && ed.end > hi {
			return edit{}, false
		}
	}
	return ed, true
}

// diffEdit finds the region by stripping the common prefix and suffix. A
// caret (byte offset into newPlain, or -1) must sit at the end of the
// inserted text; when the text after it is not a suffix of oldPlain no
// single edit explains the change.
func diffEdit(oldPlain, newPlain string, caret int) (edit, bool) {
	p := commonPrefix(oldPlain, newPlain)
	if caret >= 0 {
		tail := newPlain[caret:]
		if !strings.HasSuffix(oldPlain, tail) {
			return edit{}, false
		}
		end := len(oldPlain) - len(tail)
		start := min(p, caret, end)
		return edit{start: start, end: end, insert: newPlain[start:caret]}, true
	}

	limit := min(len(oldPlain), len(newPlain)) - p
	sfx := commonSuffix(oldPlain, newPlain, limit)
	return edit{
		start:  p,
		end:    len(oldPlain) - sfx,
		insert: newPlain[p : len(newPlain)-sfx],
	}, true
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return util.RuneStart(a, i)
}

func commonSuffix(a, b string, limit int) int {
	n := 0
	for n < limit && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	for n > 0 && !utf8.RuneStart(a[len(a)-n]) {
		n--
	}
	return n
}

func (ed edit) valid(oldPlain, newPlain string) bool {
	if ed.start < 0 || ed.start > ed.end || ed.end > len(oldPlain) {
		return false
	}
	if len(oldPlain)-(ed.end-ed.start)+len(ed.insert) != len(newPlain) {
		return false
	}
	return strings.HasPrefix(newPlain, oldPlain[:ed.start]) &&
		newPlain[ed.start:ed.start+len(ed.insert)] == ed.insert &&
		strings.HasSuffix(newPlain, oldPlain[ed.end:])
}

// slide moves a pure insertion or deletion that cuts into a mention to
// the left while the shifted edit yields the same text, so that typing or
// deleting a character equal to its neighbour leaves the mention intact.
// If no shift escapes the mention the edit is returned unchanged.
func (s *snapshot) slide(ed edit) edit {
	orig := ed
	for ed.start > 0 && s.cuts(ed) {
		r, size := utf8.DecodeLastRuneInString(s.plain[:ed.start])
		switch {
		case ed.start == ed.end && ed.insert != "":
			last, n := utf8.DecodeLastRuneInString(ed.insert)
			if last != r {
				return orig
			}
			ed.insert = s.plain[ed.start-size:ed.start] + ed.insert[:len(ed.insert)-n]
		case ed.insert == "" && ed.end > ed.start:
			last, _ := utf8.DecodeLastRuneInString(s.plain[:ed.end])
			if last != r {
				return orig
			}
		default:
			return orig
		}
		ed.start -= size
		ed.end -= size
	}
	if s.cuts(ed) {
		return orig
	}
	return ed
}

func (s *snapshot) cuts(ed edit) bool {
	if _, ok := s.inside(ed.start); ok {
		return true
	}
	_, ok := s.inside(ed.end)
	return ok
}

// widen extends the region to the edges of mentions it cuts into.
func (s *snapshot) widen(ed edit) edit {
	if tok, ok := s.inside(ed.start); ok {
		ed.start = tok.PlainStart
	}
	if tok, ok := s.inside(ed.end); ok {
		ed.end = tok.PlainEnd
	}
	return ed
}

// result analyzes the new markup and places the caret at the plain byte
// offset caret.
func (e *Engine) result(value string, caret int) Result {
	s := e.analyze(value)
	return Result{
		Markup:    value,
		PlainText: s.plain,
		Mentions:  s.describe(),
		Selection: e.caret(value, caret),
	}
}

func (e *Engine) caret(value string, b int) Selection {
	s := e.analyze(value)
	i := s.index.FromByte(min(b, len(s.plain)))
	return Selection{Start: i, End: i, Active: true}
}
