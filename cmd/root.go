package cmd

import (
	"errors"
	"os"

	"reactor/internal/coreerr"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates a referenced service does not exist.
	ExitCodeNotFound = 2
	// ExitCodeTimeout indicates a dependency wait expired (coreerr.ErrTimeout).
	ExitCodeTimeout = 3
)

// rootCmd represents the base command. It is the entry point when the
// application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reactor",
	Short: "Boot, inspect, and drive a graph of reactive services",
	Long: `reactor boots a graph of named services in dependency order, tracks
each one's observed state (its own state merged with its dependencies'
availability), and lets an operator start, stop, and inspect them while
the process runs.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
// This can be used by other commands to access the build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "reactor version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if errors.Is(err, coreerr.ErrNotFound) {
		return ExitCodeNotFound
	}
	if errors.Is(err, coreerr.ErrTimeout) {
		return ExitCodeTimeout
	}
	return ExitCodeError
}

// init adds every subcommand to the root command.
func init() {
	rootCmd.AddCommand(newBootCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newReplCmd())
}
