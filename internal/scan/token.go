package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a maximal run of either word characters or non-word characters
type Token struct {
	Text  string
	Start int // byte offset in the line
	Word  bool
}

// End returns the byte offset just past the token
func (t Token) End() int {
	return t.Start + len(t.Text)
}

// Alphabetic reports whether the token is a word made only of letters.
// Combining marks are accepted after the first letter so decomposed
// text ("e" + U+0301) counts the same as precomposed text.
func (t Token) Alphabetic() bool {
	if !t.Word {
		return false
	}
	for i, r := range t.Text {
		if unicode.IsLetter(r) || (i > 0 && unicode.Is(unicode.M, r)) {
			continue
		}
		return false
	}
	return true
}

// Whitespace reports whether the token is a non-empty run of whitespace
func (t Token) Whitespace() bool {
	if t.Word || t.Text == "" {
		return false
	}
	return strings.TrimFunc(t.Text, unicode.IsSpace) == ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.M, r)
}

// Tokenize splits line into alternating word and separator tokens.
// Word tokens are bounded the same way a regex \b boundary would bound \w+.
func Tokenize(line string) []Token {
	var tokens []Token
	start := 0
	inWord := false
	for i, r := range line {
		w := isWordRune(r)
		if i == 0 {
			inWord = w
			continue
		}
		if w != inWord {
			tokens = append(tokens, Token{Text: line[start:i], Start: start, Word: inWord})
			start = i
			inWord = w
		}
	}
	if start < len(line) {
		tokens = append(tokens, Token{Text: line[start:], Start: start, Word: inWord})
	}
	return tokens
}

// Duplicates returns every word that is immediately repeated in line,
// compared case-insensitively. Matches do not overlap, so "a a a" yields one.
//
// A single-letter word whose repetition is directly followed by '<' is not
// reported: "C C<foo>" is a formatting code after a word, not a typo.
func Duplicates(line string) []string {
	tokens := Tokenize(line)

	var dups []string
	for i := 0; i+2 < len(tokens); {
		first, sep, second := tokens[i], tokens[i+1], tokens[i+2]
		if !first.Alphabetic() || !sep.Whitespace() || !strings.EqualFold(first.Text, second.Text) {
			i++
			continue
		}
		if utf8.RuneCountInString(first.Text) == 1 && strings.HasPrefix(line[second.End():], "<") {
			i += 2
			continue
		}
		dups = append(dups, first.Text)
		i += 4
	}
	return dups
}

// trailingWord returns the last word of line if it ends in an alphabetic
// word followed only by optional whitespace.
func trailingWord(line string) string {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return ""
	}
	last := tokens[len(tokens)-1]
	if last.Whitespace() {
		if len(tokens) < 2 {
			return ""
		}
		last = tokens[len(tokens)-2]
	}
	if !last.Alphabetic() {
		return ""
	}
	return last.Text
}
