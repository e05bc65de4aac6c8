package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Sequence
	}{
		{"Empty", "", nil},
		{"Whitespace", " \t\n  ", nil},
		{"Single", "apple", Sequence{"apple"}},
		{"LowerCase", "ApPLe", Sequence{"apple"}},
		{"CollapseWhitespace", "  premium \t device\n\ntechno  ", Sequence{"premium", "device", "techno"}},
		{"TrimPunctuation", "\"hello,\" world!", Sequence{"hello", "world"}},
		{"KeepInnerPunctuation", "e-mail o'neil", Sequence{"e-mail", "o'neil"}},
		{"DropPunctuationOnly", "a - b", Sequence{"a", "b"}},
		{"DomainTerms", "c++ c# #golang node.js", Sequence{"c++", "c#", "#golang", "node.js"}},
		{"SentencePunctuation", "Hello! (really?) \u201cyes\u201d...", Sequence{"hello", "really", "yes"}},
		{"Ellipsis", "wait... ...", Sequence{"wait"}},
		{"Unicode", "Äpfel Über", Sequence{"äpfel", "über"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenizeNormalizationForm(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	require.NotEqual(t, composed, decomposed)
	assert.Equal(t, Tokenize(composed), Tokenize(decomposed))

	nfkc := New(func(o *Options) { o.Form = norm.NFKC })
	assert.Equal(t, Sequence{"fi"}, nfkc.Tokenize("\ufb01"))
}

func TestTokenizeKeepPunctuation(t *testing.T) {
	tok := New(func(o *Options) { o.KeepPunctuation = true })
	assert.Equal(t, Sequence{"hello,", "world!"}, tok.Tokenize("Hello, World!"))
}

func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"apple",
		"  The  Quick, brown FOX!! ",
		"premium device techno",
		"ünïcödé -- text...",
		"<- c# (node.js) \"quoted\"",
		"",
	}

	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(in)
		assert.True(t, first.Equal(second), "repeated tokenization of %q differs", in)

		again := Tokenize(first.String())
		assert.True(t, first.Equal(again), "tokenizing canonical form of %q differs", in)
	}
}

func TestSequence(t *testing.T) {
	seq := Sequence{"über", "a", "bc"}

	assert.Equal(t, 4, Token("über").Len())
	assert.Equal(t, 7, seq.Runes())
	assert.Equal(t, "über a bc", seq.String())
	assert.Equal(t, "", Sequence(nil).String())
	assert.Equal(t, "über a bc", Normalize("  ÜBER A  bc "))
	assert.False(t, seq.Equal(Sequence{"a", "über", "bc"}))
}
