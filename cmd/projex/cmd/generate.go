package cmd

import (
	"errors"
	"fmt"

	"github.com/projex-snippets/projex/internal/workspace"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate the main instructions document from the category index",
	Long: `Build the category index of the content root and render the main
document (instructions/main-copilot-instructions.md) from it.

Run this after adding or renaming category folders so the keyword-activation
section lists every instruction document. A content root without alias
folders is an error and leaves the existing document untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		toStdout, _ := cmd.Flags().GetBool("stdout")
		cfg, _ := loadConfig(cmd)
		svc := newService(cfg, stderrNotifier{})

		if toStdout {
			doc, _, err := svc.GenerateMain(cfg.ContentRoot)
			if err != nil {
				Fatal("%v", err)
			}
			fmt.Print(doc)
			return
		}

		path, idx, err := svc.WriteMain(cfg.ContentRoot)
		if errors.Is(err, workspace.ErrNoInstructions) {
			Fatal("%v in %s, nothing written", err, instructionsRoot(cfg))
		}
		if err != nil {
			Fatal("%v", err)
		}
		fmt.Printf("Wrote %s (%d documents).\n", path, len(idx.Entries))
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Bool("stdout", false, "Print the document instead of writing it")
}
