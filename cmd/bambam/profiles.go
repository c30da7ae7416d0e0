package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user-mgrei/bambam-extended/internal/config"
	"github.com/user-mgrei/bambam-extended/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage child profiles",
	Long: `List, inspect, and delete child profiles. Each profile tracks one
child's engagement with sounds, images, extensions, and themes.

Examples:
  bambam profiles list
  bambam profiles show ana
  bambam profiles delete ana`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List child profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's engagement data",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	store, err := profileStoreFromConfig()
	if err != nil {
		return err
	}

	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No profiles yet.")
		fmt.Println("A profile is created the first time 'bambam play --profile <name>' runs.")
		return nil
	}

	fmt.Println("Profiles:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	store, err := profileStoreFromConfig()
	if err != nil {
		return err
	}

	p := store.Get(args[0]).Profile()

	fmt.Printf("Profile: %s\n", p.Name)
	fmt.Printf("Created: %s\n", p.Created.Format("2006-01-02"))
	if p.AgeMonths != nil {
		fmt.Printf("Age:     %d months\n", *p.AgeMonths)
	}
	fmt.Println()
	fmt.Printf("Sessions:  %d\n", p.TotalSessions)
	fmt.Printf("Playtime:  %s\n", time.Duration(p.TotalPlaytimeSeconds*float64(time.Second)).Round(time.Second))
	if len(p.FavoriteLetters) > 0 {
		fmt.Printf("Favorites: %s\n", strings.Join(p.FavoriteLetters, " "))
	}

	printScores("Extension engagement", p.ExtensionEngagement)
	printScores("Theme engagement", p.ThemeEngagement)

	if len(p.SessionHistory) > 0 {
		fmt.Println()
		fmt.Println("Recent sessions:")
		history := p.SessionHistory
		if len(history) > 5 {
			history = history[len(history)-5:]
		}
		for i := len(history) - 1; i >= 0; i-- {
			s := history[i]
			fmt.Printf("  %s  %4ds  %5d events  %s / %s\n",
				s.Date.Format("2006-01-02 15:04"), s.DurationSeconds, s.EventCount,
				orDash(s.Extension), orDash(s.Theme))
		}
	}
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	store, err := profileStoreFromConfig()
	if err != nil {
		return err
	}

	existed, err := store.Delete(args[0])
	if err != nil {
		return err
	}
	if !existed {
		fmt.Printf("No profile named %q.\n", args[0])
		return nil
	}
	fmt.Printf("Deleted profile %q.\n", args[0])
	return nil
}

func profileStoreFromConfig() (*profile.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	return openProfileStore(cfg)
}

func printScores(title string, scores map[string]float64) {
	if len(scores) == 0 {
		return
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	fmt.Println()
	fmt.Printf("%s:\n", title)
	for _, id := range ids {
		fmt.Printf("  %-16s %.2f\n", id, scores[id])
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
