package index

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/projex-snippets/projex/internal/fsys"
	"gopkg.in/yaml.v3"
)

// defaultEmoji marks aliases without a configured emoji.
const defaultEmoji = "🔹"

// CatalogEntry is the display metadata for one alias key. Empty fields fall
// through to the next lookup.
type CatalogEntry struct {
	Emoji       string   `yaml:"emoji,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Catalog maps lookup keys to display metadata. Keys are an alias with
// hyphens replaced by spaces ("doc vtex") or its first segment ("doc").
type Catalog map[string]CatalogEntry

// DefaultCatalog returns the built-in metadata for the bundled categories.
func DefaultCatalog() Catalog {
	return Catalog{
		"pr": {
			Emoji:       "📋",
			Title:       "Pull Request y Control de Versiones",
			Keywords:    []string{"pr", "pull request", "crear pr", "generar pr"},
			Description: "Automatiza la generación del contenido de Pull Request basándose en el template y el historial de cambios",
		},
		"commit": {
			Emoji:       "📋",
			Title:       "Conventional Commits",
			Keywords:    []string{"commit", "conventional commit", "formato commit", "mensaje commit"},
			Description: "Aplica las reglas de Conventional Commits 1.0.0 para estructurar mensajes de commit consistentes",
		},
		"doc": {
			Emoji:       "📚",
			Title:       "Documentación General",
			Keywords:    []string{"doc", "documentación", "generar docs", "crear documentación"},
			Description: "Genera documentación detallada en la carpeta docs con diagramas Mermaid y actualiza README.md",
		},
		"doc vtex": {
			Title:       "Documentación VTEX IO",
			Keywords:    []string{"doc vtex", "vtex documentation", "documentación vtex", "vtex io"},
			Description: "Especializada en documentación para proyectos VTEX IO, incluyendo componentes, props y APIs",
		},
		"vtex": {
			Emoji:       "🏪",
			Title:       "Documentación VTEX IO",
			Description: "Especializada en documentación para proyectos VTEX IO, incluyendo componentes, props y APIs",
		},
		"qa": {
			Emoji:       "🧪",
			Title:       "QA y Testing",
			Keywords:    []string{"qa", "qa-hu", "resumen qa", "testing guide", "qa guide"},
			Description: "Genera resumen estructurado para QA con casos de prueba, puntos críticos y regresiones a verificar",
		},
		"coverage": {
			Emoji:       "🧪",
			Title:       "Cobertura de Tests",
			Keywords:    []string{"coverage", "test-coverage", "cobertura", "sonar quality gate", "cobertura tests"},
			Description: "Mejora sistemáticamente la cobertura de tests hasta alcanzar el 87% requerido por SonarQube",
		},
	}
}

// LoadCatalog reads a YAML catalog file and overlays it on base, key by key
// and field by field. A missing file returns base unchanged.
func LoadCatalog(fs fsys.FS, path string, base Catalog) (Catalog, error) {
	out := Catalog{}
	for k, v := range base {
		out[k] = v
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	for k, v := range file {
		cur := out[k]
		if v.Emoji != "" {
			cur.Emoji = v.Emoji
		}
		if v.Title != "" {
			cur.Title = v.Title
		}
		if len(v.Keywords) > 0 {
			cur.Keywords = v.Keywords
		}
		if v.Description != "" {
			cur.Description = v.Description
		}
		out[k] = cur
	}
	return out, nil
}

// resolved is the metadata chosen for one alias.
type resolved struct {
	emoji, title, description string
	keywords                  []string
}

// resolve picks metadata for alias. Multi-segment aliases try the specific
// key first and then the base key; keywords only come from the specific key
// so "doc-vtex" never inherits the generic "doc" keywords.
func (c Catalog) resolve(alias string) resolved {
	specific := strings.ReplaceAll(alias, "-", " ")
	base, _, _ := strings.Cut(alias, "-")
	compound := strings.Contains(alias, "-")

	r := resolved{
		emoji:       defaultEmoji,
		title:       Humanize(alias),
		keywords:    []string{specific},
		description: "Ejecuta instrucciones específicas para " + specific,
	}

	if e := c[base].Emoji; e != "" {
		r.emoji = e
	}

	switch {
	case c[specific].Title != "":
		r.title = c[specific].Title
	case compound && c[base].Title != "":
		r.title = c[base].Title
	}

	if kw := c[specific].Keywords; len(kw) > 0 {
		r.keywords = append([]string(nil), kw...)
	}

	switch {
	case c[specific].Description != "":
		r.description = c[specific].Description
	case c[base].Description != "":
		r.description = c[base].Description
	}
	return r
}

// Humanize turns an alias into a readable default title: the first letter is
// upper-cased and separators become spaces.
func Humanize(alias string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(alias)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
