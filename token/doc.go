// Package token splits strings into normalized word tokens.
//
// Normalization applies a Unicode normalization form (NFC by default),
// lower-cases the text, and collapses whitespace. Each whitespace-separated
// field becomes one token after its leading and trailing punctuation is
// trimmed; punctuation inside a token is kept so that terms such as
// "e-mail" or "o'neil" still match exactly.
//
// # Usage
//
//	seq := token.Tokenize("  Premium   Techno-Device! ")
//	// seq == token.Sequence{"premium", "techno-device"}
//
// Tokenization is deterministic and idempotent:
//
//	token.Tokenize(seq.String()).Equal(seq) // true
package token
