package markup

import (
	"regexp"
	"regexp/syntax"
	"strings"
)

// Set is an ordered list of configs compiled into a single matcher.
//
// Every type's pattern becomes one alternative of the combined expression,
// so one scan over the whole markup finds the mentions of all types and each
// pattern keeps its left context: ^ only matches at offset 0 and \b sees the
// character before a match.
type Set struct {
	configs []*Config
	re      *regexp.Regexp
	// groups[i] is the capture index wrapping configs[i]'s pattern.
	groups []int
}

// NewSet combines configs. Earlier configs win when two types match at the
// same offset.
func NewSet(configs []*Config) *Set {
	s := &Set{configs: configs, groups: make([]int, len(configs))}
	if len(configs) == 0 {
		return s
	}
	parts := make([]string, len(configs))
	next := 1
	for i, c := range configs {
		s.groups[i] = next
		parts[i] = "(" + anonymous(c.re) + ")"
		next += 1 + c.re.NumSubexp()
	}
	s.re = regexp.MustCompile(strings.Join(parts, "|"))
	return s
}

// split returns the index of the type that produced loc and loc rewritten
// to that type's own group numbering.
func (s *Set) split(loc []int) (int, []int) {
	for i, g := range s.groups {
		if loc[2*g] < 0 {
			continue
		}
		n := s.configs[i].re.NumSubexp()
		sub := make([]int, 2+2*n)
		sub[0], sub[1] = loc[0], loc[1]
		copy(sub[2:], loc[2*g+2:2*g+2+2*n])
		return i, sub
	}
	return -1, nil
}

// anonymous drops capture names so that patterns reusing a name can share
// one expression.
func anonymous(re *regexp.Regexp) string {
	tree, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return re.String()
	}
	var strip func(*syntax.Regexp)
	strip = func(r *syntax.Regexp) {
		r.Name = ""
		for _, sub := range r.Sub {
			strip(sub)
		}
	}
	strip(tree)
	return tree.String()
}
