package css

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// splitter feeds raw CSS tokens to the scoping walk. It wraps the
// tdewolff lexer, tracks the byte offset of every token and drops
// comments. Because strings arrive as whole tokens, braces inside quotes
// never reach the depth tracking above it.
type splitter struct {
	lex    *css.Lexer
	offset int
}

func newSplitter(source string) *splitter {
	return &splitter{lex: css.NewLexer(parse.NewInputString(source))}
}

// next returns the next token, its raw text and its byte offset,
// skipping comment tokens.
func (sp *splitter) next() (css.TokenType, string, int) {
	for {
		tt, data := sp.lex.Next()
		off := sp.offset
		sp.offset += len(data)
		if tt == css.CommentToken {
			continue
		}
		return tt, string(data), off
	}
}

// err translates the lexer state at an ErrorToken into a terminal error.
// A nil result means clean end of input.
func (sp *splitter) err(off int) error {
	if lerr := sp.lex.Err(); lerr != nil && lerr != io.EOF {
		return &ParseError{Msg: "lexical error: " + lerr.Error(), Offset: off}
	}
	return nil
}

// rawBlock consumes tokens verbatim until the brace that closes the
// block whose '{' was just read, and returns the raw inner text without
// the closing brace. Nested blocks are counted, not interpreted.
func (sp *splitter) rawBlock() (string, error) {
	var b strings.Builder
	depth := 1
	for {
		tt, data, off := sp.next()
		switch tt {
		case css.ErrorToken:
			if err := sp.err(off); err != nil {
				return "", err
			}
			return "", &ParseError{Msg: "unterminated block", Offset: off}
		case css.BadStringToken:
			return "", &ParseError{Msg: "unterminated string", Offset: off}
		case css.LeftBraceToken:
			depth++
			b.WriteString(data)
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return b.String(), nil
			}
			b.WriteString(data)
		default:
			b.WriteString(data)
		}
	}
}
