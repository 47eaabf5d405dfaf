package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/hyperpolymath/betlang/core"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no configuration is needed to print a version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bet %s\n", core.Version)
			if info, ok := debug.ReadBuildInfo(); ok && info.GoVersion != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info.GoVersion)
			}
		},
	}
}
