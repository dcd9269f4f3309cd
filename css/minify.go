package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Minify strips comments and collapses whitespace in CSS text. Runs of
// whitespace become a single space, and the space is dropped entirely
// after '{', '}', ':', ';' and ','. This is a pure text pass with no
// selector awareness; it composes with scoping in either order.
func Minify(source string) string {
	lex := css.NewLexer(parse.NewInputString(source))

	var b strings.Builder
	b.Grow(len(source))
	var last byte

	for {
		tt, data := lex.Next()
		switch tt {
		case css.ErrorToken:
			return strings.TrimRight(b.String(), " ")
		case css.CommentToken:
			// dropped
		case css.WhitespaceToken:
			switch last {
			case 0, ' ', '{', '}', ':', ';', ',':
			default:
				b.WriteByte(' ')
				last = ' '
			}
		default:
			b.Write(data)
			last = data[len(data)-1]
		}
	}
}
