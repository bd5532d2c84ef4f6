package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/index"
	"github.com/projex-snippets/projex/internal/term"
	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the available instructions and prompts",
	Long: `Render a help page listing every instruction category with its trigger
keywords, followed by the available prompts.

Use --raw to print the markdown source instead of the rendered page.`,
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")
		cfg, _ := loadConfig(cmd)
		svc := newService(cfg, stderrNotifier{})

		idx, err := svc.BuildIndex(instructionsRoot(cfg))
		if err != nil {
			cfg.Logger.Warn("instructions unavailable", "err", err)
		}
		prompts, err := svc.ListPrompts(promptsRoot(cfg))
		if err != nil {
			cfg.Logger.Warn("prompts unavailable", "err", err)
		}

		md := guideMarkdown(idx, prompts)
		if raw {
			fmt.Print(md)
			return
		}
		fmt.Println(renderMarkdown(md, term.Width(100)))
	},
}

// guideMarkdown lays out the help page. A nil index or prompt list renders
// as an empty section.
func guideMarkdown(idx *index.Index, prompts []content.Prompt) string {
	var b strings.Builder
	b.WriteString("# Projex Snippets\n\n")
	b.WriteString("Escribe cualquiera de las palabras clave en el chat de Copilot para activar las instrucciones correspondientes.\n\n")

	b.WriteString("## Instrucciones\n\n")
	if idx.Empty() {
		b.WriteString("_No hay instrucciones disponibles._\n\n")
	}
	for _, g := range idx.ByAlias() {
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "### %s %s\n\n", e.Emoji, e.Title)
			fmt.Fprintf(&b, "%s\n\n", e.Description)
			quoted := make([]string, len(e.Keywords))
			for i, k := range e.Keywords {
				quoted[i] = "`" + k + "`"
			}
			fmt.Fprintf(&b, "- **Palabras clave:** %s\n", strings.Join(quoted, ", "))
			fmt.Fprintf(&b, "- **Archivo:** `%s`\n\n", e.ActivationPath)
		}
	}

	b.WriteString("## Prompts\n\n")
	if len(prompts) == 0 {
		b.WriteString("_No hay prompts disponibles._\n")
		return b.String()
	}
	b.WriteString("| Prompt | Descripción |\n|---|---|\n")
	for _, p := range prompts {
		desc := strings.ReplaceAll(p.Description, "|", "\\|")
		fmt.Fprintf(&b, "| `%s` | %s |\n", p.Name, desc)
	}
	return b.String()
}

// renderMarkdown renders md for the terminal, falling back to the source
// when glamour fails. Piped output gets the unstyled layout.
func renderMarkdown(md string, width int) string {
	style := glamour.WithAutoStyle()
	if !term.IsTerminal(os.Stdout) || !term.Enabled() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func init() {
	rootCmd.AddCommand(guideCmd)
	guideCmd.Flags().Bool("raw", false, "Print markdown source instead of rendering it")
}
