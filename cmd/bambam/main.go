// bambam is a keyboard-mashing game engine for babies and toddlers with
// per-child engagement profiles, content rotation, and a web remote for
// parents.
//
// Usage:
//
//	bambam play                  - Start a play session
//	bambam extensions            - List discovered content extensions
//	bambam themes                - List available themes
//	bambam profiles list         - List child profiles
//	bambam profiles show <name>  - Show a profile's engagement data
//	bambam profiles delete <name>- Delete a profile
//	bambam sessions [profile]    - Show the session log
//	bambam remote                - Run the parent remote server standalone
//
// Global flags:
//
//	--config <path> - Config file path (default: search order)
//	--seed <value>  - RNG seed for reproducible rotation
//	--db <path>     - Session log database path
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagSeed   int64
	flagDBPath string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bambam",
	Short: "BamBam - A keyboard mashing game for babies and toddlers",
	Long: `BamBam lets babies and toddlers bash the keyboard safely. Every
keypress makes a sound and draws something; the engine learns which
sounds, pictures, and themes hold the child's attention and rotates
content to match.

Available commands:
  play        - Start a play session
  extensions  - List discovered content extensions
  themes      - List available themes
  profiles    - Manage child profiles
  sessions    - Show the session log
  remote      - Run the parent remote server standalone

Examples:
  bambam play
  bambam play --profile ana --theme farm
  bambam profiles show ana
  bambam sessions ana --limit 20`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: standard search order)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.config/bambam/sessions.db", "Path to session log database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(extensionsCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(remoteCmd)
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
