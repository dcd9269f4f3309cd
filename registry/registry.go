// Package registry accumulates scoped CSS fragments, deduplicated by
// scope token and kept in first-registration order, for assembly into a
// single style sheet.
package registry

import (
	"errors"
	"strings"
	"sync"
)

// Entry is one registered (scope token, scoped CSS) pair.
type Entry struct {
	Token string
	CSS   string
}

// Registry is a concurrency-safe, write-once-per-token store. The first
// writer for a token wins; later registrations with the same token are
// no-ops that return the stored text. Entries are never updated or
// removed.
type Registry struct {
	mu     sync.Mutex
	styles map[string]string
	order  []string
}

// New creates an empty, isolated registry. Use it when a fresh instance
// is needed (tests, independent builds); normal use goes through Default.
func New() *Registry {
	return &Registry{styles: make(map[string]string)}
}

var defaultRegistry = sync.OnceValue(New)

// Default returns the shared process-wide registry, created lazily on
// first use and never torn down.
func Default() *Registry {
	return defaultRegistry()
}

// GetOrInsert returns the text stored for token, invoking produce only
// when the token is seen for the first time. The check-then-insert
// sequence is atomic: concurrent callers for the same token observe
// exactly one produce invocation. A produce error is returned to the
// caller and leaves the registry unchanged.
func (r *Registry) GetOrInsert(token string, produce func() (string, error)) (string, error) {
	if token == "" {
		return "", errors.New("registry: empty scope token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if css, ok := r.styles[token]; ok {
		return css, nil
	}
	css, err := produce()
	if err != nil {
		return "", err
	}
	r.styles[token] = css
	r.order = append(r.order, token)
	return css, nil
}

// Has reports whether a token is already registered.
func (r *Registry) Has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.styles[token]
	return ok
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Snapshot returns an immutable copy of all entries in first-insertion
// order. Later insertions do not affect a returned snapshot.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, len(r.order))
	for i, token := range r.order {
		entries[i] = Entry{Token: token, CSS: r.styles[token]}
	}
	return entries
}

// StyleBlock concatenates all registered fragments in first-insertion
// order into one style sheet, one fragment per line. Each fragment is a
// complete set of rules, so plain concatenation yields valid CSS.
func (r *Registry) StyleBlock() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return ""
	}
	var b strings.Builder
	for _, token := range r.order {
		css := r.styles[token]
		b.WriteString(css)
		if css == "" || css[len(css)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
