package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all locations in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := initIndex()
		if err != nil {
			return err
		}

		renderList(os.Stdout, index.List())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
