// Package rules evaluates user-supplied custom filter rules against
// normalized text. Chat and party finder carry independent rule sets; a
// matcher never sees the other set's rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Matcher holds one compiled rule set. A rule wrapped in slashes, like
// /sell.*gil/, is compiled as a case-insensitive regular expression; any
// other rule is a case-folded substring. Rules are checked in order and the
// first hit wins, though only the fact of a match is reported.
type Matcher struct {
	rules []rule
}

type rule struct {
	substring string
	regex     *regexp.Regexp
}

// NewMatcher compiles patterns into a matcher. Invalid regex rules fail
// compilation up front rather than at match time.
func NewMatcher(patterns []string) (*Matcher, error) {
	caser := cases.Fold()
	compiled := make([]rule, 0, len(patterns))

	for _, p := range patterns {
		if p == "" {
			continue
		}

		if len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
			re, err := regexp.Compile("(?i)" + p[1:len(p)-1])
			if err != nil {
				return nil, fmt.Errorf("rules: compiling %q: %w", p, err)
			}

			compiled = append(compiled, rule{regex: re})

			continue
		}

		compiled = append(compiled, rule{substring: caser.String(p)})
	}

	return &Matcher{rules: compiled}, nil
}

// Len returns the number of compiled rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Matches reports whether any rule matches text. Text is expected to be
// normalized already.
func (m *Matcher) Matches(text string) bool {
	if len(m.rules) == 0 {
		return false
	}

	folded := cases.Fold().String(text)

	for _, r := range m.rules {
		if r.regex != nil {
			if r.regex.MatchString(text) {
				return true
			}

			continue
		}

		if strings.Contains(folded, r.substring) {
			return true
		}
	}

	return false
}
