package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile      string
	dashboardURL string
	jsonOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "surveillance-dashboard",
	Short: "Surveillance dashboard backend and tools",
	Long: `Stores camera detection events, serves the dashboard API and
live alert stream, and talks to a running dashboard from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
	},
}

// loadEnvFile exports variables from a dotenv file before config is read.
// A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().StringVar(&dashboardURL, "url", "http://127.0.0.1:8080", "dashboard base URL for client commands")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")

	rootCmd.AddCommand(serveCmd, migrateCmd, pushCmd, statsCmd, watchCmd)
}
