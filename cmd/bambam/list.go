package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user-mgrei/bambam-extended/internal/config"
	"github.com/user-mgrei/bambam-extended/internal/rng"
)

var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List discovered content extensions",
	Long: `Scan the configured extension roots and list every extension found.

Examples:
  bambam extensions
  bambam extensions --config ./my-config.yaml`,
	Args: cobra.NoArgs,
	RunE: runExtensions,
}

func runExtensions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	exts, _, _, err := buildCatalogs(cfg, rng.New(flagSeed), newLogger("bambam"))
	if err != nil {
		return err
	}

	available := exts.Available()
	if len(available) == 0 {
		fmt.Println("No extensions found.")
		if len(cfg.Extensions.Roots) == 0 {
			fmt.Println("Set extensions.roots in the config to point at extension directories.")
		}
		return nil
	}

	active := make(map[string]bool)
	for _, id := range exts.Active() {
		active[id] = true
	}

	fmt.Println("Available extensions:")
	fmt.Println()
	for _, id := range available {
		marker := " "
		if active[id] {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, id)
	}
	fmt.Println()
	fmt.Println("* = eligible for rotation")
	return nil
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List the built-in themes plus any custom themes from the configured
theme directory.

Examples:
  bambam themes`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func runThemes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	_, themes, _, err := buildCatalogs(cfg, rng.New(flagSeed), newLogger("bambam"))
	if err != nil {
		return err
	}

	fmt.Println("Available themes:")
	fmt.Println()
	for _, name := range themes.Names() {
		t, ok := themes.Get(name)
		if !ok {
			continue
		}
		fmt.Printf("  %-10s  %s\n", name, t.Description)
	}
	return nil
}
