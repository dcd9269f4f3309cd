package css_test

import (
	"strings"
	"testing"

	"github.com/jaiprakash274/dioxus-style/css"
)

func TestMinify(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "collapse whitespace",
			source: ".button {\n\tcolor: red;\n}",
			want:   ".button {color:red;}",
		},
		{
			name:   "comments removed",
			source: "/* lead */ .a { color: red; /* inline */ }",
			want:   ".a {color:red;}",
		},
		{
			name:   "selector spacing kept",
			source: "div > p { margin: 0; }",
			want:   "div > p {margin:0;}",
		},
		{
			name:   "string content untouched",
			source: `.a { content: "a  b"; }`,
			want:   `.a {content:"a  b";}`,
		},
		{
			name:   "no space after comma",
			source: ".a, .b { x: 1; }",
			want:   ".a,.b {x:1;}",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := css.Minify(tc.source); got != tc.want {
				t.Errorf("Minify(%q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}

func TestMinify_ShorterThanPrettySource(t *testing.T) {
	source := `
		.button {
			color: red;
		}
	`
	got := css.Minify(source)
	if len(got) >= len(source) {
		t.Errorf("Minify() did not shrink input: %d >= %d", len(got), len(source))
	}
	if strings.Contains(got, "/*") || strings.Contains(got, "*/") {
		t.Errorf("Minify() left comment markers: %q", got)
	}
}
