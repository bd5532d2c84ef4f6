package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/projex-snippets/projex/internal/term"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "List the indexed instruction categories",
	Long: `Build the category index of the content root and print it.

Each entry shows the alias derived from its folder, its title, the trigger
keywords, and the activation path used in the main document.`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		source, _ := cmd.Flags().GetString("source")
		cfg, _ := loadConfig(cmd)
		if source == "" {
			source = instructionsRoot(cfg)
		}
		svc := newService(cfg, stderrNotifier{})

		idx, err := svc.BuildIndex(source)
		if err != nil {
			Fatal("%v", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(idx)
			return
		}

		if idx.Empty() {
			fmt.Printf("No instruction documents found in %s (%d folders).\n", source, len(idx.Folders))
			return
		}
		for _, g := range idx.ByAlias() {
			fmt.Println(term.Cyan(g.Alias))
			for _, e := range g.Entries {
				fmt.Printf("  %s %s\n", e.Emoji, term.Bold(e.Title))
				fmt.Printf("    %s %s\n", term.Dim("keywords"), strings.Join(e.Keywords, ", "))
				fmt.Printf("    %s %s\n", term.Dim("activate"), e.ActivationPath)
			}
		}
		fmt.Printf("\n%d documents in %d folders.\n", len(idx.Entries), len(idx.Folders))
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Bool("json", false, "Output structured JSON")
	indexCmd.Flags().String("source", "", "Instructions directory (default <content>/instructions)")
}
