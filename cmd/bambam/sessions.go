package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user-mgrei/bambam-extended/internal/profile"
	"github.com/user-mgrei/bambam-extended/internal/storage"
)

var (
	flagSessionsLimit int
	flagSessionsClear bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [profile]",
	Short: "Show the session log",
	Long: `Display recent play sessions from the session log, newest first.
With a profile name the listing is restricted to that child and totals
are shown.

Examples:
  bambam sessions
  bambam sessions ana
  bambam sessions ana --limit 20
  bambam sessions ana --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 10, "Number of sessions to show")
	sessionsCmd.Flags().BoolVar(&flagSessionsClear, "clear", false, "Delete the profile's sessions instead of listing them")
}

func runSessions(cmd *cobra.Command, args []string) error {
	var profileKey string
	if len(args) == 1 {
		profileKey = profile.FileKey(args[0])
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagSessionsClear {
		if profileKey == "" {
			return fmt.Errorf("sessions --clear requires a profile name")
		}
		if err := store.ClearSessions(profileKey); err != nil {
			return err
		}
		fmt.Printf("Cleared sessions for %q.\n", args[0])
		return nil
	}

	records, err := store.RecentSessions(profileKey, flagSessionsLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-8s  %-7s  %-14s  %s\n",
		"Started", "Profile", "Duration", "Events", "Extension", "Theme")
	fmt.Printf("  %-16s  %-10s  %-8s  %-7s  %-14s  %s\n",
		"-------", "-------", "--------", "------", "---------", "-----")
	for _, rec := range records {
		fmt.Printf("  %-16s  %-10s  %-8s  %-7d  %-14s  %s\n",
			rec.StartedAt.Format("2006-01-02 15:04"),
			rec.Profile,
			(time.Duration(rec.DurationSecs) * time.Second).String(),
			rec.EventCount,
			orDash(rec.Extension),
			orDash(rec.Theme))
	}

	if profileKey != "" {
		sessions, playtime, err := store.ProfileTotals(profileKey)
		if err == nil {
			fmt.Println()
			fmt.Printf("Total: %d sessions, %s of play\n",
				sessions, (time.Duration(playtime) * time.Second).String())
		}
	}
	return nil
}
