package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ibmetrics/internal/app"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <dump>",
		Short: "Print the records of a dump",
		Example: `  ibmetrics show weekly.txt --where org_id=12345 --since 2024-01-01
  ibmetrics show weekly.txt --format tsv | cut -f1,5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			format, _ := cmd.Flags().GetString("format")
			where, _ := cmd.Flags().GetStringArray("where")
			since, _ := cmd.Flags().GetString("since")
			until, _ := cmd.Flags().GetString("until")
			limit, _ := cmd.Flags().GetInt("limit")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Show(cmd.Context(), args[0], app.ShowOptions{
				Format:  format,
				Where:   where,
				Since:   since,
				Until:   until,
				Limit:   limit,
				NoCache: noCache,
			})
		},
	}
	cmd.Flags().String("format", "auto", "Output format: auto, table or tsv")
	cmd.Flags().StringArrayP("where", "w", nil, "Only show records where field=value (repeatable)")
	cmd.Flags().String("since", "", "Only show records created at or after this date or time")
	cmd.Flags().String("until", "", "Only show records created at or before this date or time")
	cmd.Flags().IntP("limit", "l", 0, "Show at most this many records")
	cmd.Flags().BoolP("no-cache", "n", false, "Parse the dump without reading or writing the cache")
	return cmd
}
