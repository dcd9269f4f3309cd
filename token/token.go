// Package token derives scope tokens for styling boundaries. Tokens are
// short "sc_"-prefixed strings built only from CSS-identifier-safe
// characters, so they can be embedded directly into class names, id
// names and attribute values.
package token

import (
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Prefix starts every generated scope token.
const Prefix = "sc_"

// FromContent derives a deterministic token from CSS content: the same
// content always yields the same token, so repeated builds of one
// stylesheet deduplicate in the registry.
func FromContent(content string) string {
	return Prefix + encodeBase62(xxh3.HashString(content))
}

// FromFile derives a deterministic token from CSS content salted with
// its source path, so identical stylesheets in different files get
// distinct scopes. An empty path degrades to FromContent.
func FromFile(path, content string) string {
	if path == "" {
		return FromContent(content)
	}
	return Prefix + encodeBase62(xxh3.HashString(path+"::"+content))
}

// Random returns a unique token with no content coupling, for callers
// that want a fresh scope on every invocation.
func Random() string {
	return Prefix + strings.ReplaceAll(uuid.NewString(), "-", "_")
}

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// encodeBase62 renders a hash as base62, the densest alphabet that stays
// inside CSS identifier characters.
func encodeBase62(num uint64) string {
	if num == 0 {
		return "0"
	}
	// uint64 max is 11 digits in base62
	var buf [11]byte
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base62Chars[num%62]
		num /= 62
	}
	return string(buf[i:])
}
