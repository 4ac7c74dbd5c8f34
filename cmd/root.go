/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/contentpacks/internal/ops"
	"github.com/fulmenhq/contentpacks/pkg/buildinfo"
	"github.com/fulmenhq/contentpacks/pkg/exitcode"
	"github.com/fulmenhq/contentpacks/pkg/importer"
	"github.com/fulmenhq/contentpacks/pkg/logger"
	"github.com/spf13/cobra"
)

// errConfig marks failures to load configuration.
var errConfig = errors.New("configuration error")

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contentpacks",
		Short: "Build offline content packs from directory trees",
		Long: `Contentpacks turns a directory of learning material into a content pack:
a zip bundle with the content tree, assessment items, media payloads and
pack metadata that an offline learning client can install.

Examples:
   contentpacks import en 0.17 ./course "My Channel"   # Build en.zip from ./course
   contentpacks tree ./course "My Channel"             # Preview the content tree
   contentpacks version --json                         # Show version information`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("dry-run", false, "Build everything in memory and write nothing")
	cmd.PersistentFlags().String("config", "", "Config file (default: contentpacks.yaml in ., $HOME or ~/.contentpacks/config)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("contentpacks {{.Version}}\n")

	// Grouped help by command group (Build → Inspect → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.Long)
			cmd.Println()
			cmd.Print(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		for _, group := range ops.Groups {
			cmd.Printf("%s:\n", group.Title())
			for _, c := range reg.GetCommandsByGroup(group) {
				cmd.Printf("  %-12s %s\n", c.Name, c.Description)
			}
			cmd.Println()
		}
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(importCmd)
	cmd.AddCommand(treeCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, importer.ErrInvalidInput), errors.Is(err, importer.ErrMalformedMetadata):
		return exitcode.ValidationError
	case errors.Is(err, errConfig):
		return exitcode.ConfigError
	default:
		return exitcode.GeneralError
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "contentpacks",
		DryRun:    dryRun,
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
