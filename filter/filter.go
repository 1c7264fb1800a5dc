// Package filter censors disallowed words in chat text before it is
// persisted or displayed. Matching tolerates common leetspeak stand-ins and
// separator characters wedged between letters, so "sh1t" and "s.h.i.t" are
// caught along with the plain spelling.
package filter

import (
	"regexp"
	"strings"
)

// substitutions maps the letters that commonly get swapped for visually
// similar characters to the full set a matcher accepts for them. Asterisk
// is deliberately absent everywhere so censored output never re-matches.
var substitutions = map[rune]string{
	'a': "a@4",
	'e': "e3",
	'i': "i1!",
	'o': "o0",
	's': "s$5",
	't': "t7+",
	'l': "l1|",
}

// separators may appear in any run between two letters of a banned word.
const separators = `[\s._-]*`

// defaultWords is the built-in banned list. Compound words come before
// their roots so the compound's rule claims the whole span first.
var defaultWords = []string{
	"bullshit",
	"shit",
	"asshole",
	"ass",
	"fuck",
	"bitch",
	"cunt",
	"dick",
	"piss",
	"crap",
	"bastard",
	"wanker",
}

// CensorRule pairs a banned root word with its derived matcher.
type CensorRule struct {
	Word    string
	matcher *regexp.Regexp
}

// Filter applies an ordered list of censor rules to free text.
type Filter struct {
	rules []CensorRule
}

// Default is the filter over the built-in word list, compiled once at
// process start.
var Default = New(defaultWords)

// New builds a filter from banned root words, one rule per word in the
// given order. Every emitted pattern token is either a fixed character
// class or quoted text, so compilation cannot fail on user-supplied words.
func New(words []string) *Filter {
	f := &Filter{rules: make([]CensorRule, 0, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		f.rules = append(f.rules, CensorRule{Word: w, matcher: compile(w)})
	}
	return f
}

// compile derives the leetspeak- and separator-tolerant matcher for one
// word, anchored to word boundaries and compiled case-insensitive.
func compile(word string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)\b`)
	for i, r := range word {
		if i > 0 {
			b.WriteString(separators)
		}
		if subs, ok := substitutions[r]; ok {
			b.WriteString("[")
			b.WriteString(subs)
			b.WriteString("]")
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`\b`)
	return regexp.MustCompile(b.String())
}

// Censor replaces every match of every rule with its first character
// followed by one asterisk per remaining matched character. Rules run in
// list order, each over the current state of the string, so the
// earliest-listed rule wins a contested span. Text without any banned word
// comes back unchanged.
func (f *Filter) Censor(text string) string {
	if text == "" {
		return text
	}
	for _, rule := range f.rules {
		text = rule.matcher.ReplaceAllStringFunc(text, redact)
	}
	return text
}

// Detect reports whether any rule matches the text, stopping at the first
// hit.
func (f *Filter) Detect(text string) bool {
	if text == "" {
		return false
	}
	for _, rule := range f.rules {
		if rule.matcher.MatchString(text) {
			return true
		}
	}
	return false
}

// Rules exposes the compiled rule list, mainly so callers can report which
// word fired.
func (f *Filter) Rules() []CensorRule {
	return f.rules
}

// Matches reports whether this rule's matcher fires on the text.
func (r CensorRule) Matches(text string) bool {
	return r.matcher.MatchString(text)
}

func redact(match string) string {
	runes := []rune(match)
	if len(runes) <= 1 {
		return match
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}

// Censor runs the built-in filter over the text.
func Censor(text string) string {
	return Default.Censor(text)
}

// Detect runs the built-in filter over the text.
func Detect(text string) bool {
	return Default.Detect(text)
}
