// Package css rewrites stylesheet selectors so that they only match
// elements marked with a scope token, leaving declaration bodies
// untouched. Class and id names are prefixed with the token, element
// selectors gain an exact-match attribute selector targeting the scope
// marker, and everything else passes through verbatim.
package css

import (
	"errors"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultScopeAttribute is the attribute name targeted by the attribute
// selector appended to element parts, e.g. div[data-scope="sc_1"].
const DefaultScopeAttribute = "data-scope"

// ErrEmptyScope is returned when scoping is attempted with an empty
// scope token.
var ErrEmptyScope = errors.New("css: empty scope token")

// Scoper transforms CSS so that its selectors only match elements tagged
// with a scope token. A Scoper is stateless between calls and safe for
// concurrent use.
//
// Functional pseudo-class arguments (":not(.foo)") are carried verbatim:
// selectors inside them are NOT rewritten. Scoping is meant to run
// exactly once per stylesheet; feeding already-scoped output back in is
// unsupported.
type Scoper struct {
	log  *zap.Logger
	attr string
}

// NewScoper creates a new Scoper. The optional attribute parameter
// overrides the scope-marker attribute name (DefaultScopeAttribute).
func NewScoper(log *zap.Logger, attribute ...string) *Scoper {
	if log == nil {
		log = zap.NewNop()
	}
	attr := DefaultScopeAttribute
	if len(attribute) > 0 && attribute[0] != "" {
		attr = attribute[0]
	}
	return &Scoper{log: log.Named("css-scoper"), attr: attr}
}

// Scoped is the result of scoping one unit of CSS source.
type Scoped struct {
	CSS        string
	ClassNames []string // distinct class names seen in selectors, first-seen order
}

// Scope rewrites every selector in source against the given scope token
// and returns the scoped text together with the class names that were
// rewritten. The transformation is deterministic and atomic: any
// structural or selector parse error fails the whole call with no
// partial output.
func (s *Scoper) Scope(source, scope string) (Scoped, error) {
	if scope == "" {
		return Scoped{}, ErrEmptyScope
	}

	w := &scopeWalker{scoper: s, sp: newSplitter(source), scope: scope}
	w.out.Grow(len(source) + len(scope)*8)

	if err := w.block(0); err != nil {
		s.log.Debug("CSS scoping failed", zap.String("scope", scope), zap.Error(err))
		return Scoped{}, err
	}
	if w.selErr != nil {
		s.log.Debug("CSS scoping failed", zap.String("scope", scope), zap.Error(w.selErr))
		return Scoped{}, w.selErr
	}

	s.log.Debug("Scoped stylesheet",
		zap.String("scope", scope),
		zap.Int("bytes", w.out.Len()),
		zap.Int("classes", len(w.names.names)))
	return Scoped{CSS: w.out.String(), ClassNames: w.names.names}, nil
}

// ScopeCSS is Scope without the class name report.
func (s *Scoper) ScopeCSS(source, scope string) (string, error) {
	scoped, err := s.Scope(source, scope)
	return scoped.CSS, err
}

// ScopeSelector rewrites a single selector list (no braces, no
// declarations) against the given scope token.
func (s *Scoper) ScopeSelector(selectorList, scope string) (string, error) {
	if scope == "" {
		return "", ErrEmptyScope
	}
	var names classSet
	return s.scopeSelectorList(selectorList, scope, &names)
}

// scopeSelectorList parses a selector list and serializes it back with
// the per-part rewrite policy applied.
func (s *Scoper) scopeSelectorList(text, scope string, names *classSet) (string, error) {
	list, err := ParseSelectorList(text)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(text) + len(scope)*4)
	for i, sel := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		for _, step := range sel.Steps {
			b.WriteString(step.Combinator.String())
			s.writeScopedCompound(&b, step.Compound, scope, names)
		}
	}
	return b.String(), nil
}

// writeScopedCompound serializes one compound selector under the scoping
// policy: element (with the scope-marker attribute selector appended),
// id and classes (prefixed with "{scope}_"), then attributes and pseudos
// verbatim. The universal selector is exempt from element scoping.
func (s *Scoper) writeScopedCompound(b *strings.Builder, c Compound, scope string, names *classSet) {
	if c.Universal {
		b.WriteByte('*')
	} else if c.Element != "" {
		b.WriteString(c.Element)
		b.WriteByte('[')
		b.WriteString(s.attr)
		b.WriteString(`="`)
		b.WriteString(scope)
		b.WriteString(`"]`)
	}
	if c.ID != "" {
		b.WriteByte('#')
		b.WriteString(scope)
		b.WriteByte('_')
		b.WriteString(c.ID)
	}
	for _, name := range c.Classes {
		names.add(name)
		b.WriteByte('.')
		b.WriteString(scope)
		b.WriteByte('_')
		b.WriteString(name)
	}
	for _, attr := range c.Attributes {
		b.WriteString(attr)
	}
	for _, pseudo := range c.Pseudos {
		b.WriteString(pseudo)
	}
}

// scopeWalker drives one pass over the token stream, pairing selector
// preludes with declaration blocks and emitting scoped output. Selector
// parse errors are collected in selErr so one pass can report all of
// them; structural errors abort the walk.
type scopeWalker struct {
	scoper *Scoper
	sp     *splitter
	scope  string
	out    strings.Builder
	names  classSet
	selErr error
}

// block consumes rules until end of input (depth 0) or the brace closing
// the enclosing at-rule block (depth > 0).
func (w *scopeWalker) block(depth int) error {
	var prelude strings.Builder
	preludeStart := -1

	for {
		tt, data, off := w.sp.next()
		switch tt {
		case css.ErrorToken:
			if err := w.sp.err(off); err != nil {
				return err
			}
			if depth > 0 {
				return &ParseError{Msg: "unterminated block", Offset: off}
			}
			if rest := strings.TrimSpace(prelude.String()); rest != "" {
				return &ParseError{Msg: "selector with no declaration block", Offset: preludeStart, Near: rest}
			}
			return nil

		case css.BadStringToken:
			return &ParseError{Msg: "unterminated string", Offset: off}

		case css.LeftBraceToken:
			sel := strings.TrimSpace(prelude.String())
			prelude.Reset()
			preludeStart = -1
			if sel == "" {
				return &ParseError{Msg: "declaration block with no selector", Offset: off}
			}
			if err := w.rule(sel, depth); err != nil {
				return err
			}

		case css.RightBraceToken:
			if depth == 0 {
				return &ParseError{Msg: "unexpected '}'", Offset: off}
			}
			if rest := strings.TrimSpace(prelude.String()); rest != "" {
				return &ParseError{Msg: "selector with no declaration block", Offset: preludeStart, Near: rest}
			}
			return nil

		case css.SemicolonToken:
			// block-less at-rule statement, e.g. @import or @charset
			stmt := strings.TrimSpace(prelude.String())
			prelude.Reset()
			preludeStart = -1
			if stmt != "" {
				w.indent(depth)
				w.out.WriteString(stmt)
				w.out.WriteString(";\n")
			}

		default:
			if prelude.Len() == 0 {
				if strings.TrimSpace(data) == "" {
					continue
				}
				preludeStart = off
			}
			prelude.WriteString(data)
		}
	}
}

// rule handles one prelude and its just-opened block. Conditional group
// at-rules (@media, @supports) keep their prelude and get their inner
// rules scoped recursively; every other at-rule block and :root blocks
// pass through whole. Keyframe selectors are percentages and keywords,
// never element selectors, so @keyframes falls under the verbatim path.
func (w *scopeWalker) rule(sel string, depth int) error {
	switch {
	case strings.HasPrefix(sel, "@"):
		if name := atRuleName(sel); name == "media" || name == "supports" {
			w.indent(depth)
			w.out.WriteString(sel)
			w.out.WriteString(" {\n")
			if err := w.block(depth + 1); err != nil {
				return err
			}
			w.indent(depth)
			w.out.WriteString("}\n")
			return nil
		}
		return w.verbatim(sel, depth)

	case strings.HasPrefix(sel, ":root"):
		return w.verbatim(sel, depth)

	default:
		decls, err := w.sp.rawBlock()
		if err != nil {
			return err
		}
		scoped, serr := w.scoper.scopeSelectorList(sel, w.scope, &w.names)
		if serr != nil {
			w.selErr = multierr.Append(w.selErr, serr)
			return nil
		}
		w.indent(depth)
		w.out.WriteString(scoped)
		if decls = strings.TrimSpace(decls); decls == "" {
			w.out.WriteString(" { }\n")
		} else {
			w.out.WriteString(" { ")
			w.out.WriteString(decls)
			w.out.WriteString(" }\n")
		}
		return nil
	}
}

// verbatim copies a whole block through unscoped.
func (w *scopeWalker) verbatim(sel string, depth int) error {
	raw, err := w.sp.rawBlock()
	if err != nil {
		return err
	}
	w.indent(depth)
	w.out.WriteString(sel)
	w.out.WriteString(" {")
	w.out.WriteString(raw)
	w.out.WriteString("}\n")
	return nil
}

func (w *scopeWalker) indent(depth int) {
	for range depth {
		w.out.WriteString("  ")
	}
}

// atRuleName extracts the lowercased at-rule name from a prelude like
// "@media (max-width: 600px)".
func atRuleName(sel string) string {
	rest := sel[1:]
	end := 0
	for end < len(rest) && isIdentByte(rest[end]) {
		end++
	}
	return strings.ToLower(rest[:end])
}

// classSet is an ordered set of class names.
type classSet struct {
	seen  map[string]struct{}
	names []string
}

func (c *classSet) add(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[name] = struct{}{}
	c.names = append(c.names, name)
}
