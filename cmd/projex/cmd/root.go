package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/projex-snippets/projex/internal/config"
	"github.com/projex-snippets/projex/internal/fsys"
	"github.com/projex-snippets/projex/internal/index"
	"github.com/projex-snippets/projex/internal/term"
	"github.com/projex-snippets/projex/internal/workspace"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "projex",
	Short: "Projex Snippets - keep Copilot instructions and prompts in sync",
	Long: `projex installs the bundled Projex Snippets instructions and prompts into
a project workspace and keeps them up to date.

Files land under <workspace>/.github by default:
  copilot-instructions.md   main document, merged with your own content
  instructions/             category instruction documents
  prompts/                  prompt files

Existing files are never deleted, and anything you wrote above the
keyword-activation section of the main document is preserved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		term.Disable(noColor)
	},
}

// SetVersion sets the version printed by --version.
func SetVersion(v string) { rootCmd.Version = v }

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is <workspace>/.projex.yaml)")
	pf.StringP("workspace", "w", "", "workspace directory (default is the current directory)")
	pf.String("content", "", "content root holding instructions/ and prompts/ (default is $XDG_DATA_HOME/projex)")
	pf.String("dest", "", "destination directory inside the workspace (default .github)")
	pf.StringSlice("ignore", nil, "extra glob patterns never copied (repeatable)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("log-format", "text", "log format: text or json")
	pf.Bool("no-color", false, "disable colored output")
}

// Fatal prints an error and exits.
func Fatal(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+msg+"\n", args...)
	os.Exit(1)
}

// loadConfig assembles configuration from flags, the config file, and
// defaults, then installs the configured logger as the slog default. It
// returns the config file path so commands can write back to it.
func loadConfig(cmd *cobra.Command) (*config.Config, string) {
	cfg := &config.Config{}
	cfg.Workspace, _ = cmd.Flags().GetString("workspace")
	cfg.ContentRoot, _ = cmd.Flags().GetString("content")
	cfg.DestDir, _ = cmd.Flags().GetString("dest")
	cfg.Ignore, _ = cmd.Flags().GetStringSlice("ignore")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		dir := cfg.Workspace
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, config.DefaultConfigFile)
	}
	if err := config.LoadConfigFile(path, cfg); err != nil {
		Fatal("%v", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		Fatal("invalid config: %v", err)
	}

	format, _ := cmd.Flags().GetString("log-format")
	logger, err := newLogger(cfg.LogLevel, format)
	if err != nil {
		Fatal("%v", err)
	}
	slog.SetDefault(logger)
	cfg.Logger = logger

	slog.Debug("config loaded",
		"file", path,
		"workspace", cfg.Workspace,
		"content_root", cfg.ContentRoot,
		"dest_dir", cfg.DestDir,
		"auto_sync", cfg.AutoSyncEnabled(),
	)
	return cfg, path
}

// newLogger builds a stderr logger at the given level.
func newLogger(level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("--log-format must be text or json, got %q", format)
	}
}

// newService builds the sync service for cfg. A workspace directory that
// does not exist is treated as no workspace at all.
func newService(cfg *config.Config, notify workspace.Notifier) *workspace.Service {
	ws := cfg.Workspace
	if !fsys.IsDir(fsys.OS{}, ws) {
		cfg.Logger.Debug("workspace directory not found", "workspace", ws)
		ws = ""
	}

	var catalog index.Catalog
	if cfg.Catalog != "" {
		loaded, err := index.LoadCatalog(fsys.OS{}, cfg.Catalog, index.DefaultCatalog())
		if err != nil {
			Fatal("%v", err)
		}
		catalog = loaded
	}

	svc, err := workspace.New(workspace.Options{
		Logger:    cfg.Logger,
		Notifier:  notify,
		Workspace: ws,
		DestDir:   cfg.DestDir,
		Ignore:    cfg.Ignore,
		Catalog:   catalog,
	})
	if err != nil {
		Fatal("%v", err)
	}
	return svc
}

// stderrNotifier prints service notifications for a terminal user.
type stderrNotifier struct{}

func (stderrNotifier) Info(msg string)  { fmt.Fprintln(os.Stderr, term.Green(msg)) }
func (stderrNotifier) Error(msg string) { fmt.Fprintln(os.Stderr, term.Red(msg)) }

// instructionsRoot and promptsRoot locate the source trees of a content root.
func instructionsRoot(cfg *config.Config) string {
	return filepath.Join(cfg.ContentRoot, workspace.InstructionsDir)
}

func promptsRoot(cfg *config.Config) string {
	return filepath.Join(cfg.ContentRoot, workspace.PromptsDir)
}
