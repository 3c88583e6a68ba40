package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ibmetrics/internal/app"
)

func (c *CLI) newWarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm <dump>...",
		Short: "Load several dumps concurrently to fill the cache",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			refresh, _ := cmd.Flags().GetBool("refresh")
			return c.app.Warm(cmd.Context(), args, app.WarmOptions{Refresh: refresh})
		},
	}
	cmd.Flags().BoolP("refresh", "r", false, "Re-parse dumps that are already cached")
	return cmd
}
