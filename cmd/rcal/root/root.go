// Package root wires the rcal developer CLI. The engine itself is an
// embedded library; this binary is the local harness for inspecting and
// driving progression state.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

const Version = "0.1.0"

var (
	dbPath     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "rcal",
	Short:         "RealCalender progression engine harness",
	Long:          "rcal drives the RealCalender progression engine (quests, XP, streaks, pets) against a local state database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the state database (default ~/.realcalender/progression.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the tunables file (default ~/.realcalender/progression.toml)")

	rootCmd.AddCommand(
		newStatusCmd(),
		newQuestCmd(),
		newPetCmd(),
		newStreakCmd(),
		newLogCmd(),
		newSchedCmd(),
		newGraphCmd(),
		newSummaryCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
