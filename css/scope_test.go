package css_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jaiprakash274/dioxus-style/css"
)

func newScoper(t *testing.T) *css.Scoper {
	t.Helper()
	return css.NewScoper(zap.NewNop())
}

func TestScopeCSS_Basic(t *testing.T) {
	cases := []struct {
		name   string
		source string
		scope  string
		want   string
	}{
		{
			name:   "class",
			source: ".btn { color: red; }",
			scope:  "sc_1",
			want:   ".sc_1_btn { color: red; }\n",
		},
		{
			name:   "element",
			source: "div { margin: 10px; }",
			scope:  "sc_1",
			want:   `div[data-scope="sc_1"] { margin: 10px; }` + "\n",
		},
		{
			name:   "element with class and child id",
			source: "div.container > span#label { color: red; }",
			scope:  "sc_t",
			want:   `div[data-scope="sc_t"].sc_t_container > span[data-scope="sc_t"]#sc_t_label { color: red; }` + "\n",
		},
		{
			name:   "selector list",
			source: ".a, .b, #c { x: y; }",
			scope:  "s",
			want:   ".s_a, .s_b, #s_c { x: y; }\n",
		},
		{
			name:   "pseudo class",
			source: ".btn:hover { color: blue; }",
			scope:  "s",
			want:   ".s_btn:hover { color: blue; }\n",
		},
		{
			name:   "universal untouched",
			source: "* { box-sizing: border-box; }",
			scope:  "s",
			want:   "* { box-sizing: border-box; }\n",
		},
		{
			name:   "attribute selector verbatim",
			source: `input[type="text"] { width: 10em; }`,
			scope:  "s",
			want:   `input[data-scope="s"][type="text"] { width: 10em; }` + "\n",
		},
		{
			name:   "pseudo element",
			source: "p::before { content: \"*\"; }",
			scope:  "s",
			want:   `p[data-scope="s"]::before { content: "*"; }` + "\n",
		},
		{
			name:   "comments stripped",
			source: "/* lead */ .a { color: red; /* inline */ }",
			scope:  "s",
			want:   ".s_a { color: red; }\n",
		},
		{
			name:   "braces inside quoted value",
			source: `.a { content: "{not a block}"; }`,
			scope:  "s",
			want:   `.s_a { content: "{not a block}"; }` + "\n",
		},
		{
			name:   "multiple rules",
			source: ".a { x: 1; }\n.b { y: 2; }",
			scope:  "s",
			want:   ".s_a { x: 1; }\n.s_b { y: 2; }\n",
		},
	}

	s := newScoper(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ScopeCSS(tc.source, tc.scope)
			if err != nil {
				t.Fatalf("ScopeCSS() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("ScopeCSS() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScopeCSS_MediaBlock(t *testing.T) {
	source := "@media (max-width: 600px) {\n.menu { display: none; }\ndiv { margin: 0; }\n}"
	want := "@media (max-width: 600px) {\n" +
		"  .s_menu { display: none; }\n" +
		"  div[data-scope=\"s\"] { margin: 0; }\n" +
		"}\n"

	got, err := newScoper(t).ScopeCSS(source, "s")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	if got != want {
		t.Errorf("ScopeCSS() = %q, want %q", got, want)
	}
}

func TestScopeCSS_KeyframesVerbatim(t *testing.T) {
	source := "@keyframes spin { from { transform: rotate(0); } to { transform: rotate(360deg); } }"
	got, err := newScoper(t).ScopeCSS(source, "s")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	if strings.Contains(got, "s_") || strings.Contains(got, "data-scope") {
		t.Errorf("keyframe selectors were scoped: %q", got)
	}
	if !strings.Contains(got, "from { transform: rotate(0); }") {
		t.Errorf("keyframes body altered: %q", got)
	}
}

func TestScopeCSS_RootVerbatim(t *testing.T) {
	source := ":root { --accent: #f00; }"
	got, err := newScoper(t).ScopeCSS(source, "s")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	if got != ":root { --accent: #f00; }\n" {
		t.Errorf("ScopeCSS() = %q", got)
	}
}

func TestScopeCSS_FontFaceVerbatim(t *testing.T) {
	source := `@font-face { font-family: "X"; src: url(x.woff2); }`
	got, err := newScoper(t).ScopeCSS(source, "s")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	if strings.Contains(got, "data-scope") {
		t.Errorf("font-face block was scoped: %q", got)
	}
	if !strings.Contains(got, `font-family: "X";`) {
		t.Errorf("font-face body altered: %q", got)
	}
}

func TestScopeCSS_ImportStatement(t *testing.T) {
	source := "@import url(\"base.css\");\n.a { x: 1; }"
	got, err := newScoper(t).ScopeCSS(source, "s")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	want := "@import url(\"base.css\");\n.s_a { x: 1; }\n"
	if got != want {
		t.Errorf("ScopeCSS() = %q, want %q", got, want)
	}
}

func TestScopeCSS_Deterministic(t *testing.T) {
	source := ".a { x: 1; }\n@media screen { .b:hover { y: 2; } }\ndiv > .c { z: 3; }"
	s := newScoper(t)

	first, err := s.ScopeCSS(source, "sc_d")
	if err != nil {
		t.Fatalf("ScopeCSS() error = %v", err)
	}
	for range 10 {
		again, err := s.ScopeCSS(source, "sc_d")
		if err != nil {
			t.Fatalf("ScopeCSS() error = %v", err)
		}
		if again != first {
			t.Fatalf("ScopeCSS() not deterministic: %q vs %q", again, first)
		}
	}
}

func TestScopeCSS_EmptyScope(t *testing.T) {
	_, err := newScoper(t).ScopeCSS(".a { x: 1; }", "")
	if !errors.Is(err, css.ErrEmptyScope) {
		t.Fatalf("expected ErrEmptyScope, got %v", err)
	}
}

func TestScopeCSS_StructuralErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"unterminated block", ".a { color: red;"},
		{"stray closing brace", "}"},
		{"selector without block", ".a"},
		{"unterminated media block", "@media screen { .a { x: 1; }"},
	}

	s := newScoper(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ScopeCSS(tc.source, "s")
			if err == nil {
				t.Fatalf("expected error, got output %q", got)
			}
			var perr *css.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if got != "" {
				t.Errorf("partial output %q returned with error", got)
			}
		})
	}
}

func TestScopeCSS_AggregatesSelectorErrors(t *testing.T) {
	source := ".a# { x: 1; }\n.# { y: 2; }"
	_, err := newScoper(t).ScopeCSS(source, "s")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("expected 2 aggregated selector errors, got %d: %v", got, err)
	}
}

func TestScope_ClassNames(t *testing.T) {
	source := ".btn { x: 1; }\n.btn:hover { x: 2; }\n.card > .btn { x: 3; }\ndiv { x: 4; }"
	scoped, err := newScoper(t).Scope(source, "s")
	if err != nil {
		t.Fatalf("Scope() error = %v", err)
	}

	want := []string{"btn", "card"}
	if len(scoped.ClassNames) != len(want) {
		t.Fatalf("ClassNames = %v, want %v", scoped.ClassNames, want)
	}
	for i, name := range want {
		if scoped.ClassNames[i] != name {
			t.Errorf("ClassNames[%d] = %q, want %q", i, scoped.ClassNames[i], name)
		}
	}
}

func TestScopeSelector(t *testing.T) {
	s := newScoper(t)

	got, err := s.ScopeSelector("div.container > span#label", "sc_t")
	if err != nil {
		t.Fatalf("ScopeSelector() error = %v", err)
	}
	want := `div[data-scope="sc_t"].sc_t_container > span[data-scope="sc_t"]#sc_t_label`
	if got != want {
		t.Errorf("ScopeSelector() = %q, want %q", got, want)
	}

	if _, err := s.ScopeSelector(".a", ""); !errors.Is(err, css.ErrEmptyScope) {
		t.Errorf("expected ErrEmptyScope, got %v", err)
	}
	if _, err := s.ScopeSelector("> .a", "s"); err == nil {
		t.Error("expected parse error for leading combinator")
	}
	if out, err := s.ScopeSelector("div > > span", "s"); err == nil {
		t.Errorf("expected parse error for doubled combinator, got %q", out)
	}
}

func TestScopeSelector_NotArgumentVerbatim(t *testing.T) {
	// selectors inside functional pseudo-classes are not rewritten
	got, err := newScoper(t).ScopeSelector(".item:not(.done)", "s")
	if err != nil {
		t.Fatalf("ScopeSelector() error = %v", err)
	}
	if got != ".s_item:not(.done)" {
		t.Errorf("ScopeSelector() = %q, want %q", got, ".s_item:not(.done)")
	}
}

func TestScopeSelector_StructuralFidelity(t *testing.T) {
	input := `nav > ul li + li ~ span[data-kind="x y"]:hover`
	got, err := newScoper(t).ScopeSelector(input, "s")
	if err != nil {
		t.Fatalf("ScopeSelector() error = %v", err)
	}

	// combinator count and order survive
	for _, op := range []string{" > ", " + ", " ~ "} {
		if strings.Count(got, op) != 1 {
			t.Errorf("combinator %q count = %d, want 1 in %q", op, strings.Count(got, op), got)
		}
	}
	// raw attribute and pseudo text survive byte for byte
	if !strings.Contains(got, `[data-kind="x y"]`) {
		t.Errorf("attribute text altered: %q", got)
	}
	if !strings.Contains(got, ":hover") {
		t.Errorf("pseudo text altered: %q", got)
	}
}

func TestNewScoper_CustomAttribute(t *testing.T) {
	s := css.NewScoper(zap.NewNop(), "data-v")
	got, err := s.ScopeSelector("div", "s1")
	if err != nil {
		t.Fatalf("ScopeSelector() error = %v", err)
	}
	if got != `div[data-v="s1"]` {
		t.Errorf("ScopeSelector() = %q", got)
	}
}
