// Package textproc implements the tokenizer, stemmer, and stop-word
// filter used by both indexing and querying. These are the "external
// collaborator" contracts of the larger system: fixed in behavior, but
// implemented here as real Go rather than assumed black boxes.
package textproc

import (
	"bufio"
	"io"

	snowballeng "github.com/kljensen/snowball/english"
)

// TokenStream produces a lazy sequence of stemmed tokens from an input
// byte stream, discarding any "<...>" span (inclusive of the angle
// brackets, no nesting support — a naive markup scrubber, not an HTML
// parser).
type TokenStream struct {
	r *bufio.Reader
}

// NewTokenStream wraps r for token-at-a-time scanning.
func NewTokenStream(r io.Reader) *TokenStream {
	return &TokenStream{r: bufio.NewReader(r)}
}

// Next returns the next token, lowercased and stemmed, or ("", false)
// once the stream is exhausted (or ends mid tag with no token formed).
func (t *TokenStream) Next() (string, bool) {
	var buf []byte

	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return "", false
		}
		if isAlnum(b) {
			buf = append(buf, b)
			break
		}
		if b == '<' {
			if err := t.skipTag(); err != nil {
				return "", false
			}
		}
	}

	for {
		b, err := t.r.ReadByte()
		if err != nil {
			break
		}
		if !isAlnum(b) {
			// Leave the delimiter for the next call, so a '<' that ends a
			// token still opens a tag to be skipped.
			_ = t.r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}

	return stem(string(buf)), true
}

func (t *TokenStream) skipTag() error {
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return err
		}
		if b == '>' {
			return nil
		}
	}
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// stem lowercases ASCII bytes only and applies the Snowball/Porter2
// English stemmer, matching the spec's "Porter stemming over ASCII;
// non-ASCII bytes pass through; lowercasing is byte-wise ASCII only".
func stem(word string) string {
	return snowballeng.Stem(lowerASCII(word), false)
}

func lowerASCII(s string) string {
	buf := []byte(s)
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + ('a' - 'A')
		}
	}
	return string(buf)
}
