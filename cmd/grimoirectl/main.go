package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"grimoires/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "grimoirectl",
	Short: "Grimoires administration CLI",
	Long: `grimoirectl manages the Grimoires database and inspects game content.

Configuration is read from the environment (and .env) like the server.
--driver and --sqlite override STORAGE_DRIVER and SQLITE_PATH.

Examples:
  # Create or upgrade the schema
  grimoirectl migrate

  # Seed a demo game for a user on a local SQLite file
  grimoirectl --driver sqlite --sqlite dev.db seed --user 00000000-0000-0000-0000-000000000001

  # Roll dice the way the chat does
  grimoirectl roll "2d6 + 1"`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

var (
	driverFlag  string
	sqliteFlag  string
	verboseFlag bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Storage driver: postgres|sqlite")
	rootCmd.PersistentFlags().StringVar(&sqliteFlag, "sqlite", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(newMigrateCmd(), newDropTablesCmd(), newSeedCmd(), newRollCmd(), newTreeCmd(), newExportCmd())
}

// loadConfig reads the environment and applies the command-line overrides
func loadConfig() (*config.Config, error) {
	if driverFlag != "" {
		os.Setenv("STORAGE_DRIVER", driverFlag)
	}
	if sqliteFlag != "" {
		os.Setenv("SQLITE_PATH", sqliteFlag)
	}
	return config.Load()
}

func newLogger() *slog.Logger {
	var out io.Writer = io.Discard
	if verboseFlag {
		out = os.Stderr
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
