package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/projex-snippets/projex/internal/content"
	"github.com/projex-snippets/projex/internal/term"
	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the bundled prompt files",
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		source, _ := cmd.Flags().GetString("source")
		cfg, _ := loadConfig(cmd)
		if source == "" {
			source = promptsRoot(cfg)
		}
		svc := newService(cfg, stderrNotifier{})

		prompts, err := svc.ListPrompts(source)
		if err != nil {
			Fatal("%v", err)
		}

		if asJSON {
			if prompts == nil {
				prompts = []content.Prompt{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(prompts)
			return
		}

		if len(prompts) == 0 {
			fmt.Printf("No prompts found in %s.\n", source)
			return
		}
		width := 0
		for _, p := range prompts {
			width = max(width, len([]rune(p.Name)))
		}
		for _, p := range prompts {
			fmt.Printf("  %s  %s\n", term.PadRight(p.Name, width, term.Cyan), p.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.Flags().Bool("json", false, "Output structured JSON")
	promptsCmd.Flags().String("source", "", "Prompts directory (default <content>/prompts)")
}
