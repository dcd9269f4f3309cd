package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors within a selector.
type Combinator int

const (
	CombinatorNone            Combinator = iota // first compound of a selector
	CombinatorDescendant                        // "A B"
	CombinatorChild                             // "A > B"
	CombinatorAdjacentSibling                   // "A + B"
	CombinatorGeneralSibling                    // "A ~ B"
)

// String returns the normalized textual form used when selectors are
// serialized: a single space for the descendant combinator, the operator
// surrounded by single spaces for the explicit ones.
func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return " > "
	case CombinatorAdjacentSibling:
		return " + "
	case CombinatorGeneralSibling:
		return " ~ "
	default:
		return ""
	}
}

// Compound is a maximal run of simple selector parts with no combinator
// in between, e.g. "div#label.active[href]:hover".
type Compound struct {
	Element    string   // tag name, "*" when Universal, or empty when absent
	Universal  bool     // true when Element is the universal selector
	ID         string   // id name without the leading '#', at most one per compound
	Classes    []string // class names without the leading '.', source order, duplicates preserved
	Attributes []string // raw "[...]" text, verbatim
	Pseudos    []string // raw ":..."/"::..." text including functional arguments, verbatim
}

// IsEmpty reports whether the compound carries no parts at all.
func (c Compound) IsEmpty() bool {
	return c.Element == "" && c.ID == "" &&
		len(c.Classes) == 0 && len(c.Attributes) == 0 && len(c.Pseudos) == 0
}

// String serializes the compound without any scoping applied. Part kinds
// appear in element, id, classes, attributes, pseudos order.
func (c Compound) String() string {
	var b strings.Builder
	b.WriteString(c.Element)
	if c.ID != "" {
		b.WriteByte('#')
		b.WriteString(c.ID)
	}
	for _, name := range c.Classes {
		b.WriteByte('.')
		b.WriteString(name)
	}
	for _, attr := range c.Attributes {
		b.WriteString(attr)
	}
	for _, pseudo := range c.Pseudos {
		b.WriteString(pseudo)
	}
	return b.String()
}

// SelectorStep is one (combinator, compound) pair in a selector chain.
type SelectorStep struct {
	Combinator Combinator
	Compound   Compound
}

// Selector is an ordered chain of steps. The first step always has
// CombinatorNone; every following step carries the combinator that joins
// it to the step before it.
type Selector struct {
	Steps []SelectorStep
}

// String serializes the selector with normalized combinator whitespace.
func (s Selector) String() string {
	var b strings.Builder
	for _, step := range s.Steps {
		b.WriteString(step.Combinator.String())
		b.WriteString(step.Compound.String())
	}
	return b.String()
}

// SelectorList corresponds to one comma-separated selector list.
type SelectorList []Selector

// String serializes the list, re-joining selectors with ", ".
func (l SelectorList) String() string {
	parts := make([]string, len(l))
	for i, sel := range l {
		parts[i] = sel.String()
	}
	return strings.Join(parts, ", ")
}

// ParseError describes a structural problem in CSS source or in a
// selector list. Offset is a byte offset into the text that was being
// parsed and Near is the offending fragment, when one can be shown.
type ParseError struct {
	Msg    string
	Offset int
	Near   string
}

func (e *ParseError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("css: %s at offset %d near %q", e.Msg, e.Offset, e.Near)
	}
	return fmt.Sprintf("css: %s at offset %d", e.Msg, e.Offset)
}

// near extracts a short fragment of text starting at off for error messages.
func near(text string, off int) string {
	if off < 0 || off >= len(text) {
		return ""
	}
	end := off + 16
	if end > len(text) {
		end = len(text)
	}
	return text[off:end]
}
