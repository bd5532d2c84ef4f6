// Package merge combines a freshly generated main instructions document with
// a copy the user may have edited. Everything before the managed section
// belongs to the user and is kept; the managed section is always replaced.
package merge

import "strings"

// Marker is the header that opens the managed section. Documents written by
// earlier releases carry this exact text, so it must not change.
const Marker = "## 🎯 Sistema de Activación por Palabras Clave"

// separator joins user content and an appended managed section.
const separator = "\n\n"

// Section returns text from the first Marker onward, or "" when text has no
// marker.
func Section(text string) string {
	i := strings.Index(text, Marker)
	if i < 0 {
		return ""
	}
	return text[i:]
}

// UserContent returns text before the first Marker. Without a marker the
// whole text is user content.
func UserContent(text string) string {
	i := strings.Index(text, Marker)
	if i < 0 {
		return text
	}
	return text[:i]
}

// HasMarker reports whether text contains the managed section header.
func HasMarker(text string) bool {
	return strings.Contains(text, Marker)
}

// Merge returns existing with its managed section replaced by the one in
// generated. When existing has no managed section, the generated section is
// appended after a blank line. When generated has no managed section there
// is nothing to replace or append and existing is returned unchanged. The
// plain prefix-plus-section rule would truncate existing at its marker in
// that case; keeping the old section instead means a marker-less source can
// never drop managed text from a workspace.
//
// Merge(generated, Merge(generated, x)) == Merge(generated, x) for any x.
func Merge(generated, existing string) string {
	section := Section(generated)
	if section == "" {
		return existing
	}
	if i := strings.Index(existing, Marker); i >= 0 {
		return existing[:i] + section
	}
	return existing + separator + section
}
