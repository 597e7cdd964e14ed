package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/glotscan/glot/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		ver, commit, date := version.Info()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "glot version %s\n", ver)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Date: %s\n", date)
		fmt.Fprintf(out, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
