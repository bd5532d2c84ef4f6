package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/projex-snippets/projex/internal/syncer"
	"github.com/projex-snippets/projex/internal/term"
	"github.com/projex-snippets/projex/internal/workspace"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize instructions and prompts into the workspace",
	Long: `Copy the bundled instructions and prompts into the workspace.

The main document is merged: text above the keyword-activation section is
kept, the section itself is replaced with the bundled one. Category and
prompt files are written only when their content differs. Nothing in the
workspace is ever deleted.

The command is idempotent. A second run over unchanged content writes
nothing.

  --dry-run   show what would change without writing
  --check     exit 0 if up to date, 1 if a sync is needed
  --auto      startup mode: silent, honors auto_sync, reports first install
  --silent    no notifications (logging is unaffected)`,
	Run: runSync,
}

func runSync(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	check, _ := cmd.Flags().GetBool("check")
	asJSON, _ := cmd.Flags().GetBool("json")
	auto, _ := cmd.Flags().GetBool("auto")
	silent, _ := cmd.Flags().GetBool("silent")

	// The JSON document replaces notifications.
	if asJSON {
		silent = true
	}

	cfg, _ := loadConfig(cmd)
	svc := newService(cfg, stderrNotifier{})

	if dryRun || check {
		p, err := svc.Plan(cfg.ContentRoot)
		if err != nil {
			Fatal("%v", err)
		}
		pending := p.Pending()
		switch {
		case asJSON:
			emitSyncJSON(p, nil, false)
		case check && pending > 0:
			fmt.Printf("%d changes pending in %s.\n", pending, p.Target)
		case pending == 0:
			fmt.Println("Everything is up to date.")
		default:
			printPlan(p)
			fmt.Printf("%d changes pending. (dry run, no files written)\n", pending)
		}
		if check && pending > 0 {
			os.Exit(1)
		}
		return
	}

	var (
		r   *workspace.Report
		err error
	)
	if auto {
		if !cfg.AutoSyncEnabled() {
			cfg.Logger.Info("auto sync disabled, nothing to do")
			return
		}
		r, err = svc.AutoSync(cfg.ContentRoot)
	} else {
		r, err = svc.SyncInstructions(cfg.ContentRoot, silent)
	}
	if errors.Is(err, workspace.ErrNoWorkspace) {
		os.Exit(1)
	}
	if err != nil {
		Fatal("%v", err)
	}
	if r == nil {
		return
	}

	if asJSON {
		emitSyncJSON(r.Plan, r, true)
	} else if !auto {
		printReport(r)
	}
	if r.Err() != nil {
		os.Exit(1)
	}
}

// printPlan lists the entries a sync would write.
func printPlan(p *workspace.Plan) {
	fmt.Printf("Syncing into %s:\n\n", p.Target)
	if p.MainDoc.Err != nil {
		fmt.Printf("  %s  %s %s\n", term.Red("error"), workspace.MainDocDest, term.Dim(p.MainDoc.Err.Error()))
	} else if p.MainDoc.Action.Writes() {
		fmt.Printf("  %s  %s %s\n", actionLabel(p.MainDoc.Action), workspace.MainDocDest, term.Dimf("(%s)", p.MainDoc.Origin))
	}
	for _, tree := range planTrees(p) {
		for _, a := range tree.plan.Actions {
			switch {
			case a.Err != nil:
				fmt.Printf("  %s  %s/%s %s\n", term.Red("error"), tree.name, a.RelPath, term.Dim(a.Err.Error()))
			case a.Action.Writes() || a.Action == syncer.ActionMkdir:
				fmt.Printf("  %s  %s/%s\n", actionLabel(a.Action), tree.name, a.RelPath)
			}
		}
	}
	for _, m := range p.Missing {
		fmt.Printf("  %s  %s %s\n", term.Yellow("missing"), m, term.Dim("(skipped)"))
	}
	fmt.Println()
}

// printReport shows the outcome of an executed sync.
func printReport(r *workspace.Report) {
	md := r.MainDoc
	switch {
	case md.Err != nil:
		fmt.Printf("  %s  %s — %v\n", term.Red("✗"), workspace.MainDocDest, md.Err)
	case md.Action.Writes():
		detail := "created"
		if md.Merged {
			detail = "merged"
		}
		fmt.Printf("  %s  %s %s\n", term.Green("✓"), workspace.MainDocDest, term.Dimf("(%s, %s)", detail, md.Origin))
	default:
		fmt.Printf("  %s  %s %s\n", term.Dim("·"), workspace.MainDocDest, term.Dim("(up to date)"))
	}

	if r.Plan != nil {
		for _, tree := range planTrees(r.Plan) {
			for _, a := range tree.plan.Actions {
				switch {
				case a.Err != nil:
					fmt.Printf("  %s  %s/%s — %v\n", term.Red("✗"), tree.name, a.RelPath, a.Err)
				case a.Action.Writes():
					fmt.Printf("  %s  %s/%s\n", term.Green("✓"), tree.name, a.RelPath)
				}
			}
		}
	}
	for _, m := range r.Missing {
		fmt.Printf("  %s  %s %s\n", term.Yellow("!"), m, term.Dim("(not found, skipped)"))
	}
	fmt.Println()

	fmt.Printf("Done. %d written.", r.Written())
	if n := r.Failed(); n > 0 {
		fmt.Printf(" %s", term.Redf("%d failed.", n))
	}
	fmt.Println()
}

func actionLabel(a syncer.Action) string {
	switch a {
	case syncer.ActionCreate:
		return term.PadRight(a.String(), 9, term.Green)
	case syncer.ActionOverwrite:
		return term.PadRight(a.String(), 9, term.Yellow)
	default:
		return term.PadRight(a.String(), 9, term.Dim)
	}
}

type namedPlan struct {
	name string
	plan *syncer.Plan
}

func planTrees(p *workspace.Plan) []namedPlan {
	var out []namedPlan
	if p.Instructions != nil {
		out = append(out, namedPlan{workspace.InstructionsDir, p.Instructions})
	}
	if p.Prompts != nil {
		out = append(out, namedPlan{workspace.PromptsDir, p.Prompts})
	}
	return out
}

// --- JSON output types ---

type syncMainDocJSON struct {
	Path   string `json:"path"`
	Origin string `json:"origin"`
	Action string `json:"action"`
	Merged bool   `json:"merged"`
	Error  string `json:"error,omitempty"`
}

type syncActionJSON struct {
	Tree   string `json:"tree"`
	Path   string `json:"path"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

type syncSummaryJSON struct {
	Pending int `json:"pending"`
	Written int `json:"written"`
	Failed  int `json:"failed"`
}

type syncResultJSON struct {
	Target       string           `json:"target"`
	MainDoc      syncMainDocJSON  `json:"main_doc"`
	Actions      []syncActionJSON `json:"actions"`
	Missing      []string         `json:"missing,omitempty"`
	Summary      syncSummaryJSON  `json:"summary"`
	Executed     bool             `json:"executed"`
	FirstInstall bool             `json:"first_install"`
}

func emitSyncJSON(p *workspace.Plan, r *workspace.Report, executed bool) {
	md := p.MainDoc
	if r != nil {
		md = r.MainDoc
	}
	out := syncResultJSON{
		Target:   p.Target,
		Missing:  p.Missing,
		Executed: executed,
		MainDoc: syncMainDocJSON{
			Path:   md.TargetPath,
			Origin: md.Origin.String(),
			Action: md.Action.String(),
			Merged: md.Merged,
		},
		Actions: []syncActionJSON{},
	}
	if md.Err != nil {
		out.MainDoc.Error = md.Err.Error()
	}

	for _, tree := range planTrees(p) {
		for _, a := range tree.plan.Actions {
			aj := syncActionJSON{Tree: tree.name, Path: a.RelPath, Action: a.Action.String()}
			if a.Err != nil {
				aj.Error = a.Err.Error()
			}
			out.Actions = append(out.Actions, aj)
		}
	}

	if r != nil {
		out.Summary = syncSummaryJSON{Written: r.Written(), Failed: r.Failed()}
		out.FirstInstall = r.FirstInstall
	} else {
		out.Summary = syncSummaryJSON{Pending: p.Pending(), Failed: len(p.Errors)}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	// Best-effort: stdout write failures are unrecoverable in a CLI.
	_ = enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("dry-run", false, "Show what would change without writing files")
	syncCmd.Flags().Bool("check", false, "Check if a sync is needed (exit 0=up-to-date, 1=needs sync)")
	syncCmd.Flags().Bool("json", false, "Output structured JSON")
	syncCmd.Flags().Bool("auto", false, "Startup mode: silent, honors auto_sync, reports first install")
	syncCmd.Flags().Bool("silent", false, "Suppress notifications")
}
