package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the location index by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := initIndex()
		if err != nil {
			return err
		}

		matches, err := index.Search(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "locations matching %q:\n%s\n", args[0], candidateGroups(matches))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
