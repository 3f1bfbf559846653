package main

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"
)

// version and commit info
// DO NOT EDIT - values are set at build time with -ldflags "-X main.version=..."
var (
	version   = "0.0.0"
	commit    = "none"
	buildDate = "unknown"
)

// newVersionCmd returns a version information cmd
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.Parse(version)
			if err != nil {
				// A non-release build (e.g. a dev checkout) may carry a
				// placeholder version string; fall back to it verbatim.
				fmt.Printf("  version: %s (unparsed: %v)\n", version, err)
			} else {
				fmt.Printf("  version: %s\n", v.String())
			}
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", buildDate)
			return nil
		},
	}
}
