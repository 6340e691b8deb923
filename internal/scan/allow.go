package scan

import "strings"

// AllowList is an immutable set of words that may legitimately repeat.
// Membership is case-insensitive.
type AllowList struct {
	words map[string]struct{}
}

// DefaultAllowList holds the words that repeat in ordinary English and C prose
var DefaultAllowList = NewAllowList("long", "that", "had")

// NewAllowList builds an allow-list from words
func NewAllowList(words ...string) AllowList {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return AllowList{words: set}
}

// With returns a new allow-list containing the receiver's words plus extra
func (a AllowList) With(extra ...string) AllowList {
	words := make([]string, 0, len(a.words)+len(extra))
	for w := range a.words {
		words = append(words, w)
	}
	return NewAllowList(append(words, extra...)...)
}

// Contains reports whether word is allowed to repeat
func (a AllowList) Contains(word string) bool {
	_, ok := a.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of allowed words
func (a AllowList) Len() int {
	return len(a.words)
}
