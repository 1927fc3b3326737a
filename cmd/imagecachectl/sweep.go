package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:      "sweep",
	Short:    "Remove expired images once",
	PreRunE:  appSetup,
	PostRunE: appTeardown,
	RunE: func(cmd *cobra.Command, _ []string) error {
		removed := application.Images.SweepExpired(cmd.Context())
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired images.\n", removed)
		return err
	},
}
