package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:      "stats",
	Short:    "Show cached image count and approximate size",
	PreRunE:  appSetup,
	PostRunE: appTeardown,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := application.Images.Stats(cmd.Context())
		if err != nil {
			return err
		}

		cacheCfg := application.Images.Config()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"Metric", "Value"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		if err := table.Bulk([][]string{
			{"Backend", cfg.Store.Backend},
			{"Total images", strconv.Itoa(stats.TotalImages)},
			{"Approx size (MB)", strconv.FormatFloat(stats.ApproxSizeMB, 'f', 2, 64)},
			{"Capacity", strconv.Itoa(cacheCfg.MaxImages)},
			{"Expiry", cacheCfg.Expiry.String()},
		}); err != nil {
			return err
		}
		return table.Render()
	},
}
