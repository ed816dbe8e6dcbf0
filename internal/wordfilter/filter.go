// Package wordfilter scans text for banned terms.
//
// Matching is case-insensitive and substring based: a term matches anywhere
// inside the text, including inside longer words. A Filter is immutable once
// built and safe for concurrent use.
package wordfilter

import (
	"fmt"
	"strings"
	"unicode"
)

// MaskRune replaces every rune of a matched term.
const MaskRune = '*'

// Mode selects what happens to a submission containing banned terms.
type Mode int

const (
	// ModeMask replaces banned terms and lets the submission through.
	ModeMask Mode = iota
	// ModeBlock rejects the submission outright.
	ModeBlock
)

func (m Mode) String() string {
	switch m {
	case ModeMask:
		return "mask"
	case ModeBlock:
		return "block"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "mask" or "block", ignoring case and surrounding spaces.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mask":
		return ModeMask, nil
	case "block":
		return ModeBlock, nil
	default:
		return ModeMask, fmt.Errorf("unknown word filter mode %q", s)
	}
}

type node struct {
	children map[rune]*node
	terminal bool
}

// Filter is a rune trie of lower-cased banned terms.
type Filter struct {
	root  *node
	terms int
}

// New builds a Filter. Terms are trimmed and lower-cased; empty terms and
// duplicates are ignored. An empty term set yields a Filter that never matches.
func New(terms []string) *Filter {
	f := &Filter{root: &node{}}
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		f.add(t)
	}
	return f
}

func (f *Filter) add(term string) {
	n := f.root
	for _, r := range term {
		r = unicode.ToLower(r)
		if n.children == nil {
			n.children = make(map[rune]*node)
		}
		next, ok := n.children[r]
		if !ok {
			next = &node{}
			n.children[r] = next
		}
		n = next
	}
	if !n.terminal {
		n.terminal = true
		f.terms++
	}
}

// Len returns the number of distinct terms.
func (f *Filter) Len() int {
	return f.terms
}

// Contains reports whether any banned term occurs in text.
func (f *Filter) Contains(text string) bool {
	if f.terms == 0 || text == "" {
		return false
	}
	runes := []rune(text)
	for i := range runes {
		if f.longestMatch(runes, i) > 0 {
			return true
		}
	}
	return false
}

// Mask returns text with every rune of each banned term replaced by MaskRune.
// The longest term starting at a position wins. Text without matches is
// returned unchanged.
func (f *Filter) Mask(text string) string {
	if f.terms == 0 || text == "" {
		return text
	}
	runes := []rune(text)
	masked := false
	for i := 0; i < len(runes); {
		n := f.longestMatch(runes, i)
		if n == 0 {
			i++
			continue
		}
		for j := i; j < i+n; j++ {
			runes[j] = MaskRune
		}
		masked = true
		i += n
	}
	if !masked {
		return text
	}
	return string(runes)
}

// longestMatch returns the rune length of the longest term starting at
// runes[start], or 0.
func (f *Filter) longestMatch(runes []rune, start int) int {
	n := f.root
	best := 0
	for j := start; j < len(runes); j++ {
		n = n.children[unicode.ToLower(runes[j])]
		if n == nil {
			break
		}
		if n.terminal {
			best = j - start + 1
		}
	}
	return best
}

// SplitTerms splits a '|' separated term list, the format banned words are
// configured in.
func SplitTerms(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, "|")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}
