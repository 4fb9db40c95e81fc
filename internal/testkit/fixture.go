package testkit

import (
	"fmt"

	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// FixtureTree builds a structural tree for small examples. It recognises
// calls (an identifier directly followed by parentheses, or by a brace on
// the same line), their arguments, closures and closure parameters. It is a
// test fixture, not a parser: anything else is ignored. Masked bytes are
// treated as whitespace.
func FixtureTree(f *source.File, nonCode match.Mask) (*syntax.Node, error) {
	p := &fixtureParser{src: f.Content, mask: nonCode}
	root := newNode(syntax.KindFile, 0, f.Len())
	children, err := p.sequence(0, f.Len())
	if err != nil {
		return nil, err
	}
	root.Children = children
	return root, nil
}

type fixtureParser struct {
	src  []byte
	mask match.Mask
}

func newNode(kind syntax.Kind, start, end uint32) *syntax.Node {
	return &syntax.Node{
		Kind:    kind,
		RawKind: kind.Tag(),
		Range:   &syntax.Extent{Offset: start, Length: end - start},
	}
}

func (p *fixtureParser) code(i uint32) bool {
	return i < uint32(len(p.src)) && !p.mask.Covers(i)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ident returns the end of the identifier starting at i.
func (p *fixtureParser) ident(i, end uint32) uint32 {
	for i < end && p.code(i) && isIdent(p.src[i]) {
		i++
	}
	return i
}

// trivia skips whitespace and masked bytes.
func (p *fixtureParser) trivia(i, end uint32) uint32 {
	for i < end && (!p.code(i) || isSpace(p.src[i])) {
		i++
	}
	return i
}

// closing returns the offset of the delimiter closing the one at open.
func (p *fixtureParser) closing(open, end uint32) (uint32, error) {
	var closer byte
	switch p.src[open] {
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return 0, fmt.Errorf("no delimiter at %d", open)
	}
	depth := 0
	for i := open; i < end; i++ {
		if !p.code(i) {
			continue
		}
		switch p.src[i] {
		case p.src[open]:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced %q at %d", p.src[open], open)
}

// sequence collects the calls and closures in [start, end).
func (p *fixtureParser) sequence(start, end uint32) ([]*syntax.Node, error) {
	var out []*syntax.Node
	for i := start; i < end; {
		if !p.code(i) {
			i++
			continue
		}
		c := p.src[i]
		switch {
		case isIdentStart(c):
			nameEnd := p.ident(i, end)
			if open, ok := p.callOpen(nameEnd, end); ok {
				call, next, err := p.call(i, nameEnd, open, end)
				if err != nil {
					return nil, err
				}
				out = append(out, call)
				i = next
				continue
			}
			i = nameEnd
		case c >= '0' && c <= '9':
			i = p.ident(i, end)
		case c == '{':
			closure, next, err := p.closure(i, end)
			if err != nil {
				return nil, err
			}
			out = append(out, closure)
			i = next
		default:
			i++
		}
	}
	return out, nil
}

// callOpen finds the delimiter that makes the identifier ending at i a call.
func (p *fixtureParser) callOpen(i, end uint32) (uint32, bool) {
	if i < end && p.code(i) && p.src[i] == '(' {
		return i, true
	}
	for i < end && p.code(i) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return i, i < end && p.code(i) && p.src[i] == '{'
}

func (p *fixtureParser) call(nameStart, nameEnd, open, end uint32) (*syntax.Node, uint32, error) {
	call := &syntax.Node{
		Kind:    syntax.KindCall,
		RawKind: syntax.KindCall.Tag(),
		Name:    &syntax.Extent{Offset: nameStart, Length: nameEnd - nameStart},
	}
	bodyStart, bodyEnd := open+1, open+1
	i := open

	if p.src[i] == '(' {
		closeAt, err := p.closing(i, end)
		if err != nil {
			return nil, 0, err
		}
		args, err := p.arguments(i+1, closeAt)
		if err != nil {
			return nil, 0, err
		}
		call.Children = args
		bodyEnd = closeAt
		i = closeAt + 1
		if next, ok := p.callOpen(i, end); ok && p.src[next] == '{' {
			i = next
		}
	}
	if i < end && p.code(i) && p.src[i] == '{' {
		closure, next, err := p.closure(i, end)
		if err != nil {
			return nil, 0, err
		}
		call.Children = append(call.Children, closure)
		bodyEnd = next - 1
		i = next
	}

	call.Range = &syntax.Extent{Offset: nameStart, Length: i - nameStart}
	call.Body = &syntax.Extent{Offset: bodyStart, Length: bodyEnd - bodyStart}
	return call, i, nil
}

// arguments splits [start, end) at top-level commas.
func (p *fixtureParser) arguments(start, end uint32) ([]*syntax.Node, error) {
	var out []*syntax.Node
	emit := func(a, b uint32) error {
		a = p.trivia(a, b)
		if a == b {
			return nil
		}
		arg := newNode(syntax.KindArgument, a, b)
		children, err := p.sequence(a, b)
		if err != nil {
			return err
		}
		arg.Children = children
		out = append(out, arg)
		return nil
	}

	from := start
	for i := start; i < end; i++ {
		if !p.code(i) {
			continue
		}
		switch p.src[i] {
		case '(', '{', '[':
			closeAt, err := p.closing(i, end)
			if err != nil {
				return nil, err
			}
			i = closeAt
		case ',':
			if err := emit(from, i); err != nil {
				return nil, err
			}
			from = i + 1
		}
	}
	if err := emit(from, end); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *fixtureParser) closure(open, end uint32) (*syntax.Node, uint32, error) {
	closeAt, err := p.closing(open, end)
	if err != nil {
		return nil, 0, err
	}
	closure := newNode(syntax.KindClosure, open, closeAt+1)
	closure.Body = &syntax.Extent{Offset: open + 1, Length: closeAt - open - 1}

	params, bodyStart := p.parameters(open+1, closeAt)
	children, err := p.sequence(bodyStart, closeAt)
	if err != nil {
		return nil, 0, err
	}
	closure.Children = append(params, children...)
	return closure, closeAt + 1, nil
}

// parameters parses a closure signature `[captures] a, b in` or
// `[captures] (a: T, b: U) -> R in` at the start of [start, end). It returns
// the parameters and the offset where the statements begin.
func (p *fixtureParser) parameters(start, end uint32) ([]*syntax.Node, uint32) {
	in, ok := p.inKeyword(start, end)
	if !ok {
		return nil, start
	}
	i := p.trivia(start, in)
	if i < in && p.src[i] == '[' {
		closeAt, err := p.closing(i, in)
		if err != nil {
			return nil, start
		}
		i = p.trivia(closeAt+1, in)
	}

	var params []*syntax.Node
	if i < in && p.src[i] == '(' {
		closeAt, err := p.closing(i, in)
		if err != nil {
			return nil, start
		}
		first := true
		for j := i + 1; j < closeAt; j++ {
			if !p.code(j) {
				continue
			}
			if p.src[j] == ',' {
				first = true
				continue
			}
			if first && isIdentStart(p.src[j]) {
				nameEnd := p.ident(j, closeAt)
				params = append(params, newNode(syntax.KindParameter, j, nameEnd))
				j = nameEnd - 1
			}
			if !isSpace(p.src[j]) {
				first = false
			}
		}
		return params, in + 2
	}

	expectName := true
	for i < in {
		switch c := p.src[i]; {
		case expectName && isIdentStart(c):
			nameEnd := p.ident(i, in)
			params = append(params, newNode(syntax.KindParameter, i, nameEnd))
			i = nameEnd
			expectName = false
		case !expectName && c == ',':
			i++
			expectName = true
		case !expectName && c == '-' && i+1 < in && p.src[i+1] == '>':
			return params, in + 2
		default:
			return nil, start
		}
		i = p.trivia(i, in)
	}
	if expectName {
		return nil, start
	}
	return params, in + 2
}

// inKeyword finds the first top-level `in` of the closure body.
func (p *fixtureParser) inKeyword(start, end uint32) (uint32, bool) {
	for i := start; i < end; i++ {
		if !p.code(i) {
			continue
		}
		c := p.src[i]
		switch {
		case c == '(' || c == '{' || c == '[':
			closeAt, err := p.closing(i, end)
			if err != nil {
				return 0, false
			}
			i = closeAt
		case isIdentStart(c):
			wordEnd := p.ident(i, end)
			if string(p.src[i:wordEnd]) == "in" {
				return i, true
			}
			i = wordEnd - 1
		case c >= '0' && c <= '9':
			i = p.ident(i, end) - 1
		}
	}
	return 0, false
}
