package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// Token is one classified lexical range of the syntax map.
type Token struct {
	Offset uint32
	Length uint32
	Type   string
}

// SyntaxMap is the lexical classification of a file.
type SyntaxMap struct {
	Tokens     []Token
	SourceHash string
}

const syntaxTypePrefix = "source.lang.swift.syntaxtype."

// nonCodeTypes lists token types that are not code.
var nonCodeTypes = map[string]struct{}{
	"comment":          {},
	"comment.mark":     {},
	"comment.url":      {},
	"doccomment":       {},
	"doccomment.field": {},
	"string":           {},
}

type tokenJSON struct {
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	Type   string `json:"type"`
}

type syntaxDocJSON struct {
	SourceSHA256 string      `json:"source_sha256"`
	Tokens       []tokenJSON `json:"tokens"`
}

// DecodeSyntaxMap decodes either a bare token array or an object of the form
// {"source_sha256": ..., "tokens": [...]}.
func DecodeSyntaxMap(data []byte) (*SyntaxMap, error) {
	var doc syntaxDocJSON
	trimmed := bytes.TrimSpace(data)
	var err error
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &doc)
	} else {
		err = json.Unmarshal(trimmed, &doc.Tokens)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: syntax map: %w", ErrMalformedTree, err)
	}

	m := &SyntaxMap{
		Tokens:     make([]Token, 0, len(doc.Tokens)),
		SourceHash: strings.ToLower(doc.SourceSHA256),
	}
	for i, t := range doc.Tokens {
		off, err := safecast.Conv[uint32](t.Offset)
		if err != nil {
			return nil, fmt.Errorf("%w: syntax token %d offset: %w", ErrMalformedTree, i, err)
		}
		ln, err := safecast.Conv[uint32](t.Length)
		if err != nil {
			return nil, fmt.Errorf("%w: syntax token %d length: %w", ErrMalformedTree, i, err)
		}
		if off+ln < off {
			return nil, fmt.Errorf("%w: syntax token %d overflows", ErrMalformedTree, i)
		}
		m.Tokens = append(m.Tokens, Token{Offset: off, Length: ln, Type: t.Type})
	}
	sort.SliceStable(m.Tokens, func(i, j int) bool { return m.Tokens[i].Offset < m.Tokens[j].Offset })
	return m, nil
}

// IsNonCode reports whether a token type denotes a comment or string.
func IsNonCode(tokenType string) bool {
	_, ok := nonCodeTypes[trimType(tokenType)]
	return ok
}

func trimType(tokenType string) string {
	return strings.TrimPrefix(tokenType, syntaxTypePrefix)
}

// NonCode returns the comment and string ranges of the map as spans of file,
// in ascending order.
func (m *SyntaxMap) NonCode(file source.FileID) []source.Span {
	if m == nil {
		return nil
	}
	var out []source.Span
	for _, t := range m.Tokens {
		if t.Length == 0 || !IsNonCode(t.Type) {
			continue
		}
		out = append(out, source.Span{File: file, Start: t.Offset, End: t.Offset + t.Length})
	}
	return out
}

// CheckSource verifies the recorded content hash, when present, against f.
func (m *SyntaxMap) CheckSource(f *source.File) error {
	return checkHash(m.SourceHash, f)
}

// Validate checks every token against the file length.
func (m *SyntaxMap) Validate(fileLen uint32) error {
	for i, t := range m.Tokens {
		if t.Offset+t.Length > fileLen {
			return fmt.Errorf("%w: syntax token %d [%d,%d) beyond content length %d", ErrMalformedTree, i, t.Offset, t.Offset+t.Length, fileLen)
		}
	}
	return nil
}
