package syntax

import (
	"github.com/rbrovko/SwiftLint/internal/source"
)

// Token types produced by Classify.
const (
	TypeComment    = syntaxTypePrefix + "comment"
	TypeDocComment = syntaxTypePrefix + "doccomment"
	TypeString     = syntaxTypePrefix + "string"
)

// cursor walks the bytes of a file.
type cursor struct {
	src []byte
	off uint32
}

func (c *cursor) eof() bool {
	return int(c.off) >= len(c.src)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

func (c *cursor) peekAt(n uint32) byte {
	if int(c.off+n) >= len(c.src) {
		return 0
	}
	return c.src[c.off+n]
}

func (c *cursor) bump() {
	if !c.eof() {
		c.off++
	}
}

func (c *cursor) hasPrefix(s string) bool {
	if len(c.src)-int(c.off) < len(s) {
		return false
	}
	return string(c.src[c.off:int(c.off)+len(s)]) == s
}

// Classify produces an approximate syntax map holding only comment and
// string tokens. It is used when the front end supplied no syntax map.
// Block comments nest; unterminated comments and strings run to the end of
// the line (single-line strings) or the end of the file.
func Classify(f *source.File) *SyntaxMap {
	c := cursor{src: f.Content}
	m := &SyntaxMap{}
	emit := func(start uint32, typ string) {
		if c.off > start {
			m.Tokens = append(m.Tokens, Token{Offset: start, Length: c.off - start, Type: typ})
		}
	}
	for !c.eof() {
		start := c.off
		switch {
		case c.hasPrefix("///"):
			c.skipLine()
			emit(start, TypeDocComment)
		case c.hasPrefix("//"):
			c.skipLine()
			emit(start, TypeComment)
		case c.hasPrefix("/**") && !c.hasPrefix("/**/"):
			c.skipBlockComment()
			emit(start, TypeDocComment)
		case c.hasPrefix("/*"):
			c.skipBlockComment()
			emit(start, TypeComment)
		case c.peek() == '"' || (c.peek() == '#' && c.rawQuote()):
			c.skipString()
			emit(start, TypeString)
		default:
			c.bump()
		}
	}
	return m
}

func (c *cursor) skipLine() {
	for !c.eof() && c.peek() != '\n' {
		c.bump()
	}
}

func (c *cursor) skipBlockComment() {
	c.bump()
	c.bump()
	depth := 1
	for !c.eof() && depth > 0 {
		switch {
		case c.hasPrefix("/*"):
			c.bump()
			c.bump()
			depth++
		case c.hasPrefix("*/"):
			c.bump()
			c.bump()
			depth--
		default:
			c.bump()
		}
	}
}

// rawQuote reports whether a run of '#' at the cursor opens a raw string.
func (c *cursor) rawQuote() bool {
	var n uint32
	for c.peekAt(n) == '#' {
		n++
	}
	return c.peekAt(n) == '"'
}

// skipString consumes "..." , """...""" and their raw #"..."# forms.
// Interpolated segments are treated as part of the string.
func (c *cursor) skipString() {
	var hashes uint32
	for c.peek() == '#' {
		hashes++
		c.bump()
	}
	multiline := c.hasPrefix(`"""`)
	if multiline {
		c.off += 3
	} else {
		c.bump()
	}
	for !c.eof() {
		b := c.peek()
		switch {
		case b == '\\' && hashes == 0:
			c.bump()
			c.bump()
		case b == '\n' && !multiline:
			return
		case multiline && c.hasPrefix(`"""`) && c.closesRaw(3, hashes):
			c.off += 3 + hashes
			return
		case !multiline && b == '"' && c.closesRaw(1, hashes):
			c.off += 1 + hashes
			return
		default:
			c.bump()
		}
	}
}

func (c *cursor) closesRaw(quoteLen, hashes uint32) bool {
	for i := uint32(0); i < hashes; i++ {
		if c.peekAt(quoteLen+i) != '#' {
			return false
		}
	}
	return true
}

// Comments returns the comment ranges of the map, excluding strings.
func (m *SyntaxMap) Comments(file source.FileID) []source.Span {
	if m == nil {
		return nil
	}
	var out []source.Span
	for _, t := range m.Tokens {
		if t.Length > 0 && IsComment(t.Type) {
			out = append(out, source.Span{File: file, Start: t.Offset, End: t.Offset + t.Length})
		}
	}
	return out
}

// IsComment reports whether a token type denotes a comment of any kind.
func IsComment(tokenType string) bool {
	return IsNonCode(tokenType) && trimType(tokenType) != "string"
}
