package token

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Token is a normalized, whitespace-free word.
type Token string

// Len returns the token length in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(string(t))
}

// Sequence is the ordered list of tokens derived from one string.
type Sequence []Token

// Runes returns the summed rune length of all tokens.
func (s Sequence) Runes() int {
	n := 0
	for _, t := range s {
		n += t.Len()
	}
	return n
}

// String returns the canonical form: tokens joined by a single space.
// Tokens never contain whitespace, so the mapping is injective.
func (s Sequence) String() string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return string(s[0])
	}

	var b strings.Builder
	for i, t := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(t))
	}
	return b.String()
}

// Equal reports whether both sequences hold the same tokens in the same order.
func (s Sequence) Equal(other Sequence) bool {
	return slices.Equal(s, other)
}

// Options configures a Tokenizer.
type Options struct {
	// Form is the Unicode normalization form applied before lower-casing.
	Form norm.Form

	// KeepPunctuation disables trimming of edge punctuation and keeps
	// punctuation-only tokens.
	KeepPunctuation bool
}

// DefaultOptions contains the options used by Tokenize.
var DefaultOptions = Options{
	Form: norm.NFC,
}

// Tokenizer turns strings into Sequences. It is stateless and safe for
// concurrent use.
type Tokenizer struct {
	opts Options
}

// New creates a Tokenizer.
func New(optFns ...func(o *Options)) *Tokenizer {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tokenizer{opts: opts}
}

var defaultTokenizer = New()

// Tokenize splits s using DefaultOptions.
func Tokenize(s string) Sequence {
	return defaultTokenizer.Tokenize(s)
}

// Normalize returns the canonical form of s (equivalent to Tokenize(s).String()).
func Normalize(s string) string {
	return defaultTokenizer.Tokenize(s).String()
}

// Tokenize splits s into tokens. Empty or all-whitespace input yields an
// empty (nil) Sequence.
func (t *Tokenizer) Tokenize(s string) Sequence {
	if s == "" {
		return nil
	}

	s = t.opts.Form.String(s)
	s = strings.ToLower(s)

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}

	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		if !t.opts.KeepPunctuation {
			f = trimEdges(f)
		}
		if f == "" {
			continue
		}
		seq = append(seq, Token(f))
	}
	if len(seq) == 0 {
		return nil
	}
	return seq
}

const (
	// leadingPunct is trimmed from the start of a token.
	leadingPunct = "\"'([{<«“‘¿¡"
	// trailingPunct is trimmed from the end of a token.
	trailingPunct = ".,;:!?\"')]}>»”’…"
)

// trimEdges strips quotes, brackets and sentence punctuation around a word.
// Symbols that belong to domain terms ("c#", "c++", "#go", "node.js") are
// kept. A token made only of punctuation ("-", "...") is dropped.
func trimEdges(f string) string {
	f = strings.TrimRight(strings.TrimLeft(f, leadingPunct), trailingPunct)
	if isPunctOnly(f) {
		return ""
	}
	return f
}

func isPunctOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
