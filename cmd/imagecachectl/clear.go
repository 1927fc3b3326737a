package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached image",
	Long: `Delete every cached image from the configured store.

Entries whose persisted copy could not be deleted are kept and reported.`,
	PreRunE:  appSetup,
	PostRunE: appTeardown,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := application.Images.ClearAll(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully.")
		return err
	},
}
