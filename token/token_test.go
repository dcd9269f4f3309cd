package token_test

import (
	"strings"
	"testing"

	"github.com/jaiprakash274/dioxus-style/token"
)

func TestFromContent(t *testing.T) {
	css1 := ".button { color: red; }"
	css2 := ".button { color: blue; }"

	tok1 := token.FromContent(css1)
	tok2 := token.FromContent(css2)

	if tok1 == tok2 {
		t.Errorf("different content produced equal tokens: %q", tok1)
	}
	if again := token.FromContent(css1); again != tok1 {
		t.Errorf("FromContent() not deterministic: %q vs %q", again, tok1)
	}
	if !strings.HasPrefix(tok1, token.Prefix) {
		t.Errorf("token %q missing %q prefix", tok1, token.Prefix)
	}
}

func TestFromFile(t *testing.T) {
	css := ".button { color: red; }"

	tok1 := token.FromFile("components/button.css", css)
	tok2 := token.FromFile("components/card.css", css)

	if tok1 == tok2 {
		t.Errorf("same content in different files produced equal tokens: %q", tok1)
	}
	if token.FromFile("", css) != token.FromContent(css) {
		t.Error("FromFile() with empty path should equal FromContent()")
	}
}

func TestTokensAreIdentifierSafe(t *testing.T) {
	isSafe := func(tok string) bool {
		for _, r := range tok {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r == '_' || r == '-':
			default:
				return false
			}
		}
		return true
	}

	for _, tok := range []string{
		token.FromContent(".a { x: 1; }"),
		token.FromFile("a.css", ".a { x: 1; }"),
		token.Random(),
	} {
		if !isSafe(tok) {
			t.Errorf("token %q contains characters unsafe for CSS identifiers", tok)
		}
	}
}

func TestRandom(t *testing.T) {
	if token.Random() == token.Random() {
		t.Error("Random() returned equal tokens")
	}
}
