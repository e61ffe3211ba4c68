package mentions

import "sync/atomic"

// Query is an open suggestion query: a trigger followed by the text typed
// so far, ending at the caret.
type Query struct {
	// TypeIndex is the mention type whose trigger matched.
	TypeIndex int
	// Text is what follows the trigger.
	Text string
	// Start and End delimit trigger and text in plain-text units.
	Start int
	End   int
}

// Queries returns the suggestion queries open at the caret, one per
// mention type whose trigger matches. The search starts after the last
// mention before the caret; a caret inside a mention opens nothing.
func (e *Engine) Queries(value string, caret int) []Query {
	s := e.analyze(value)
	cb := s.index.ToByte(caret)
	pos, ok := s.plainToMarkup(cb, PolicyNull)
	if !ok {
		return nil
	}
	from := s.endOfLastMention(pos)
	if from > cb {
		return nil
	}
	sub := s.plain[from:cb]

	var queries []Query
	for i, c := range e.configs {
		re := c.TriggerRegexp()
		if re == nil {
			continue
		}
		loc := re.FindStringSubmatchIndex(sub)
		if loc == nil || loc[2] < 0 || loc[4] < 0 {
			continue
		}
		queries = append(queries, Query{
			TypeIndex: i,
			Text:      sub[loc[4]:loc[5]],
			Start:     s.index.FromByte(from + loc[2]),
			End:       s.index.FromByte(from + loc[3]),
		})
	}
	return queries
}

// Accept replaces the query's trigger and text with a mention of the
// query's type and puts the caret after the mention.
func (e *Engine) Accept(value string, q Query, id, display string) Result {
	s := e.analyze(value)
	if q.TypeIndex < 0 || q.TypeIndex >= len(e.configs) {
		Logger.Printf("accept: unknown mention type %d", q.TypeIndex)
		return e.result(value, len(s.plain))
	}
	c := e.configs[q.TypeIndex]

	qs := s.index.ToByte(q.Start)
	qe := s.index.ToByte(q.End)
	start, _ := s.plainToMarkup(qs, PolicyStart)
	end := min(start+qe-qs, len(value))

	insert := c.Serialize(id, display)
	shown := c.Display(id, display)
	if c.AppendSpace() {
		insert += " "
		shown += " "
	}
	return e.result(value[:start]+insert+value[end:], qs+len(shown))
}

// QuerySeq numbers suggestion requests so that a response arriving after a
// newer request was issued can be recognized as stale and dropped.
type QuerySeq struct {
	n atomic.Uint64
}

// Next starts a new request and returns its number.
func (q *QuerySeq) Next() uint64 {
	return q.n.Add(1)
}

// Current reports whether seq is the most recent request.
func (q *QuerySeq) Current(seq uint64) bool {
	return q.n.Load() == seq
}
