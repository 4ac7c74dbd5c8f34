package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/contentpacks/internal/ops"
	"github.com/fulmenhq/contentpacks/pkg/buildinfo"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show contentpacks version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")

	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		panic(fmt.Sprintf("Failed to register version command: %v", err))
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	info := map[string]string{
		"version":       buildinfo.Version(),
		"moduleVersion": buildinfo.ModuleVersion(),
		"goVersion":     runtime.Version(),
		"platform":      runtime.GOOS,
		"arch":          runtime.GOARCH,
	}
	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	fmt.Fprintf(out, "contentpacks %s\n", info["version"])
	fmt.Fprintf(out, "Go Version: %s\n", info["goVersion"])
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", info["platform"], info["arch"])
	return nil
}
