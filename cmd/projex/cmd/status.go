package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/projex-snippets/projex/internal/term"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which instructions and prompts are installed in the workspace",
	Long: `Inspect the destination directory of the workspace.

Reports whether the main document exists and carries the keyword-activation
section, lists the installed categories with their document counts, and
counts the installed prompts.`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		cfg, _ := loadConfig(cmd)
		svc := newService(cfg, stderrNotifier{})

		st, err := svc.Status()
		if err != nil {
			Fatal("%v", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(st)
			return
		}

		fmt.Println(term.Bold("Projex Snippets"))
		fmt.Printf("  workspace  %s\n\n", st.Workspace)

		fmt.Printf("  %s  %s\n", mark(st.MainDocExists), st.MainDocPath)
		if st.MainDocExists && !st.MainDocHasMarker {
			fmt.Printf("     %s\n", term.Yellow("keyword-activation section missing, run projex sync"))
		}
		fmt.Printf("  %s  %s\n", mark(st.InstructionsExist), st.InstructionsPath)
		for _, c := range st.Categories {
			fmt.Printf("       %s %s\n", term.PadRight(c.Name, 20, term.Cyan), term.Dimf("%d files", c.FileCount))
		}
		fmt.Printf("  %s  %s %s\n", mark(st.PromptsExist), st.PromptsPath, term.Dimf("(%d prompts)", st.PromptCount))

		if !svc.HasInstructions() {
			fmt.Printf("\nNot installed. Run %s to install.\n", term.Bold("projex sync"))
		}
	},
}

func mark(ok bool) string {
	if ok {
		return term.Green("✓")
	}
	return term.Red("✗")
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("json", false, "Output structured JSON")
}
