// Package ignore matches file and directory base names against glob
// patterns. The sync core consults a Set at every level of a tree walk.
package ignore

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

var (
	// SyncDefaults are never copied into a destination tree.
	SyncDefaults = []string{"node_modules", ".git", ".DS_Store"}

	// ScanDefaults are skipped when scanning for instruction documents.
	ScanDefaults = []string{"node_modules", ".git", "templates"}

	// NonAliasFolders are top-level content folders that never become an alias.
	NonAliasFolders = []string{"node_modules", "templates", "pull-request", "documentation", "backlog", "unit-testing"}
)

// Set is an ordered list of compiled patterns.
type Set struct {
	patterns []string
	globs    []glob.Glob
}

// New compiles patterns into a Set. An empty pattern list yields a Set that
// matches nothing.
func New(patterns ...string) (*Set, error) {
	s := &Set{}
	for _, p := range patterns {
		if err := s.add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNew is New for package-level defaults whose patterns are known valid.
func MustNew(patterns ...string) *Set {
	s, err := New(patterns...)
	if err != nil {
		panic(fmt.Sprintf("ignore.MustNew: %v", err))
	}
	return s
}

func (s *Set) add(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("ignore: empty pattern")
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("ignore: compiling %q: %w", pattern, err)
	}
	s.patterns = append(s.patterns, pattern)
	s.globs = append(s.globs, g)
	return nil
}

// With returns a new Set holding s's patterns followed by extra.
func (s *Set) With(extra ...string) (*Set, error) {
	out := &Set{}
	if s != nil {
		out.patterns = append(out.patterns, s.patterns...)
		out.globs = append(out.globs, s.globs...)
	}
	for _, p := range extra {
		if err := out.add(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Match reports whether the base name of path matches any pattern.
// A nil Set matches nothing.
func (s *Set) Match(path string) bool {
	if s == nil {
		return false
	}
	name := filepath.Base(path)
	for _, g := range s.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns in order.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.patterns...)
}
