package cmd

import (
	"fmt"

	"github.com/projex-snippets/projex/internal/config"
	"github.com/projex-snippets/projex/internal/term"
	"github.com/spf13/cobra"
)

var autosyncCmd = &cobra.Command{
	Use:       "autosync [on|off]",
	Short:     "Show or change whether startup sync runs",
	Long:      `Without arguments, print the current auto_sync setting. With on or off, store it in the config file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	Run: func(cmd *cobra.Command, args []string) {
		cfg, path := loadConfig(cmd)

		if len(args) == 0 {
			state := term.Green("on")
			if !cfg.AutoSyncEnabled() {
				state = term.Yellow("off")
			}
			fmt.Printf("auto_sync: %s %s\n", state, term.Dimf("(%s)", path))
			return
		}

		var enabled bool
		switch args[0] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			Fatal("expected on or off, got %q", args[0])
		}

		if err := config.SaveAutoSync(path, enabled); err != nil {
			Fatal("Error al cambiar configuración: %v", err)
		}
		if enabled {
			fmt.Println("✅ Sincronización automática de instrucciones ACTIVADA. Las instrucciones se sincronizarán al iniciar.")
		} else {
			fmt.Println("⏸️ Sincronización automática de instrucciones DESACTIVADA. Usa projex sync para sincronizar.")
		}
	},
}

func init() {
	rootCmd.AddCommand(autosyncCmd)
}
