package css

import "fmt"

// ParseSelectorList parses one comma-separated selector list into its
// structured form. The scan is a single left-to-right pass: identifier,
// bracket, paren and string runs are recognized with explicit depth and
// quote tracking, so combinator characters inside "[...]" or ":not(...)"
// are never treated as structure. Attribute selectors and pseudo parts
// keep their raw text verbatim.
func ParseSelectorList(text string) (SelectorList, error) {
	p := &selectorParser{input: text}

	var list SelectorList
	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		list = append(list, sel)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return list, nil
		}
		// parseSelector stops only at a comma or at end of input
		p.pos++
	}
}

// selectorParser scans one selector list left to right. pos is a byte
// offset; multi-byte runes only ever occur inside identifiers and raw
// bracket/paren runs, where bytes >= 0x80 are consumed as identifier text.
type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) parseSelector() (Selector, error) {
	var sel Selector
	for {
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] == ',' {
			if len(sel.Steps) == 0 {
				return Selector{}, p.errorf(p.pos, "empty selector")
			}
			return sel, nil
		}

		comb := CombinatorNone
		switch b := p.input[p.pos]; b {
		case '>', '+', '~':
			if len(sel.Steps) == 0 {
				return Selector{}, p.errorf(p.pos, "selector starts with combinator %q", string(b))
			}
			comb = combinatorFor(b)
			p.pos++
			p.skipSpace()
			if p.pos >= len(p.input) || p.input[p.pos] == ',' {
				return Selector{}, p.errorf(p.pos, "combinator %q with no following compound selector", string(b))
			}
		default:
			if len(sel.Steps) > 0 {
				// whitespace between compounds and no explicit operator
				comb = CombinatorDescendant
			}
		}

		at := p.pos
		compound, err := p.parseCompound()
		if err != nil {
			return Selector{}, err
		}
		if compound.IsEmpty() {
			// parseCompound stopped at a boundary character without
			// consuming anything, e.g. the second '>' in "a > > b"
			return Selector{}, p.errorf(at, "expected compound selector, got %q", string(p.input[at]))
		}
		sel.Steps = append(sel.Steps, SelectorStep{Combinator: comb, Compound: compound})
	}
}

func (p *selectorParser) parseCompound() (Compound, error) {
	var c Compound

	// optional leading element or universal selector
	if p.pos < len(p.input) {
		switch b := p.input[p.pos]; {
		case b == '*':
			c.Element = "*"
			c.Universal = true
			p.pos++
		case isIdentByte(b):
			c.Element = p.scanIdent()
		}
	}

	for p.pos < len(p.input) {
		switch b := p.input[p.pos]; b {
		case '.':
			at := p.pos
			p.pos++
			name := p.scanIdent()
			if name == "" {
				return Compound{}, p.errorf(at, "class selector missing name")
			}
			c.Classes = append(c.Classes, name)
		case '#':
			at := p.pos
			p.pos++
			name := p.scanIdent()
			if name == "" {
				return Compound{}, p.errorf(at, "id selector missing name")
			}
			if c.ID != "" {
				return Compound{}, p.errorf(at, "multiple id selectors in one compound selector")
			}
			c.ID = name
		case '[':
			raw, err := p.scanBracketed()
			if err != nil {
				return Compound{}, err
			}
			c.Attributes = append(c.Attributes, raw)
		case ':':
			raw, err := p.scanPseudo()
			if err != nil {
				return Compound{}, err
			}
			c.Pseudos = append(c.Pseudos, raw)
		case ' ', '\t', '\n', '\r', '\f', ',', '>', '+', '~':
			return c, nil
		default:
			return Compound{}, p.errorf(p.pos, "unexpected character %q in selector", string(b))
		}
	}
	return c, nil
}

// scanIdent consumes an identifier run. Bytes >= 0x80 belong to multi-byte
// runes and are treated as identifier text.
func (p *selectorParser) scanIdent() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// scanBracketed consumes one "[...]" attribute selector and returns its
// raw text. Quoted strings inside are skipped whole, so ']' or combinator
// characters inside quotes never terminate the run.
func (p *selectorParser) scanBracketed() (string, error) {
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch b := p.input[p.pos]; b {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				p.pos++
				return p.input[start:p.pos], nil
			}
		case '"', '\'':
			if err := p.skipString(b); err != nil {
				return "", err
			}
			continue
		}
		p.pos++
	}
	return "", p.errorf(start, "unterminated attribute selector")
}

// scanPseudo consumes one pseudo-class or pseudo-element, including a
// parenthesized functional argument when present, and returns its raw text.
func (p *selectorParser) scanPseudo() (string, error) {
	start := p.pos
	p.pos++ // ':'
	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++ // pseudo-element "::"
	}
	if name := p.scanIdent(); name == "" {
		return "", p.errorf(start, "pseudo selector missing name")
	}
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		if err := p.skipParens(); err != nil {
			return "", err
		}
	}
	return p.input[start:p.pos], nil
}

// skipParens consumes a balanced "(...)" run, honoring nested parens and
// quoted strings. The functional argument is opaque raw text; nothing
// inside is interpreted.
func (p *selectorParser) skipParens() error {
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch b := p.input[p.pos]; b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		case '"', '\'':
			if err := p.skipString(b); err != nil {
				return err
			}
			continue
		}
		p.pos++
	}
	return p.errorf(start, "unterminated pseudo selector arguments")
}

// skipString consumes a quoted string starting at the current position.
// Backslash escapes the following byte.
func (p *selectorParser) skipString(quote byte) error {
	start := p.pos
	p.pos++
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '\\':
			p.pos++
		case quote:
			p.pos++
			return nil
		}
		p.pos++
	}
	return p.errorf(start, "unterminated string")
}

// skipSpace consumes whitespace and reports whether any was present.
func (p *selectorParser) skipSpace() bool {
	start := p.pos
	for p.pos < len(p.input) && isSpaceByte(p.input[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func (p *selectorParser) errorf(offset int, format string, args ...any) error {
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Near:   near(p.input, offset),
	}
}

func combinatorFor(b byte) Combinator {
	switch b {
	case '>':
		return CombinatorChild
	case '+':
		return CombinatorAdjacentSibling
	case '~':
		return CombinatorGeneralSibling
	default:
		return CombinatorDescendant
	}
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b >= 0x80
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
