package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ibmetrics/internal/app"
)

func (c *CLI) newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <dump>",
		Short: "Load a dump through the cache and summarise it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			noCache, _ := cmd.Flags().GetBool("no-cache")
			refresh, _ := cmd.Flags().GetBool("refresh")
			failures, _ := cmd.Flags().GetBool("failures")
			return c.app.Load(cmd.Context(), args[0], app.LoadOptions{
				NoCache:  noCache,
				Refresh:  refresh,
				Failures: failures,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Parse the dump without reading or writing the cache")
	cmd.Flags().BoolP("refresh", "r", false, "Parse the dump and replace its cache entry")
	cmd.Flags().BoolP("failures", "f", false, "List the lines that could not be decoded")
	cmd.MarkFlagsMutuallyExclusive("no-cache", "refresh")
	return cmd
}
