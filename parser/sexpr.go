package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// SExpr represents an s-expression node
type SExpr struct {
	Type     ExprType
	Value    string
	Quoted   bool // true if this atom was originally a quoted string
	Children []*SExpr
	Pos      int
}

// ExprType represents the type of s-expression node
type ExprType int

const (
	ExprAtom ExprType = iota
	ExprList
)

type reader struct {
	input []rune
	pos   int
}

func newReader(input string) *reader {
	return &reader{
		input: []rune(input),
	}
}

// readAll reads the input into a list of s-expressions
func (r *reader) readAll() ([]*SExpr, error) {
	var exprs []*SExpr

	for r.pos < len(r.input) {
		r.skipWhitespace()
		if r.pos >= len(r.input) {
			break
		}

		expr, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	return exprs, nil
}

func (r *reader) readExpr() (*SExpr, error) {
	r.skipWhitespace()

	if r.pos >= len(r.input) {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch r.input[r.pos] {
	case '(':
		return r.readList()
	case ')':
		return nil, fmt.Errorf("unexpected ')' at position %d", r.pos)
	}

	return r.readAtom()
}

func (r *reader) readList() (*SExpr, error) {
	expr := &SExpr{
		Type:     ExprList,
		Children: []*SExpr{},
		Pos:      r.pos,
	}
	r.pos++ // consume '('

	for {
		r.skipWhitespace()
		if r.pos >= len(r.input) {
			return nil, fmt.Errorf("unexpected end of input, expected ')' for list at position %d", expr.Pos)
		}

		if r.input[r.pos] == ')' {
			r.pos++ // consume ')'
			break
		}

		child, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		expr.Children = append(expr.Children, child)
	}

	return expr, nil
}

func (r *reader) readAtom() (*SExpr, error) {
	if r.input[r.pos] == '"' {
		return r.readString()
	}

	start := r.pos
	for r.pos < len(r.input) && !unicode.IsSpace(r.input[r.pos]) &&
		r.input[r.pos] != '(' && r.input[r.pos] != ')' {
		r.pos++
	}

	return &SExpr{
		Type:  ExprAtom,
		Value: string(r.input[start:r.pos]),
		Pos:   start,
	}, nil
}

func (r *reader) readString() (*SExpr, error) {
	start := r.pos
	r.pos++ // consume opening quote

	var value strings.Builder
	for r.pos < len(r.input) {
		if r.input[r.pos] == '"' {
			r.pos++ // consume closing quote
			return &SExpr{
				Type:   ExprAtom,
				Value:  value.String(),
				Quoted: true,
				Pos:    start,
			}, nil
		}

		if r.input[r.pos] == '\\' && r.pos+1 < len(r.input) {
			r.pos++
			switch r.input[r.pos] {
			case 'n':
				value.WriteRune('\n')
			case 't':
				value.WriteRune('\t')
			default:
				value.WriteRune(r.input[r.pos])
			}
			r.pos++
		} else {
			value.WriteRune(r.input[r.pos])
			r.pos++
		}
	}

	return nil, fmt.Errorf("unterminated string at position %d", start)
}

// skipWhitespace skips whitespace and `;` comments
func (r *reader) skipWhitespace() {
	for r.pos < len(r.input) {
		if unicode.IsSpace(r.input[r.pos]) {
			r.pos++
		} else if r.input[r.pos] == ';' {
			for r.pos < len(r.input) && r.input[r.pos] != '\n' {
				r.pos++
			}
		} else {
			break
		}
	}
}

// Dump returns the s-expression as a string
func (e *SExpr) Dump() string {
	var sb strings.Builder
	e.dumpTo(&sb)
	return sb.String()
}

func (e *SExpr) dumpTo(sb *strings.Builder) {
	if e.Type == ExprAtom {
		if e.Quoted {
			sb.WriteRune('"')
			for _, ch := range e.Value {
				switch ch {
				case '"':
					sb.WriteString("\\\"")
				case '\\':
					sb.WriteString("\\\\")
				case '\n':
					sb.WriteString("\\n")
				case '\t':
					sb.WriteString("\\t")
				default:
					sb.WriteRune(ch)
				}
			}
			sb.WriteRune('"')
		} else {
			sb.WriteString(e.Value)
		}
		return
	}
	sb.WriteRune('(')
	for i, child := range e.Children {
		if i > 0 {
			sb.WriteRune(' ')
		}
		child.dumpTo(sb)
	}
	sb.WriteRune(')')
}

// IsAtom returns true if this is an atom
func (e *SExpr) IsAtom() bool {
	return e.Type == ExprAtom
}

// IsList returns true if this is a list
func (e *SExpr) IsList() bool {
	return e.Type == ExprList
}

// head returns the leading keyword of a list, or "" if there is none
func (e *SExpr) head() string {
	if e.Type != ExprList || len(e.Children) == 0 || !e.Children[0].IsAtom() || e.Children[0].Quoted {
		return ""
	}
	return e.Children[0].Value
}
