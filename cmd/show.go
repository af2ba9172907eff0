package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/colcmp/internal/model"
)

var (
	showFlags   locationFlags
	showFamily  string
	showExclude []string
	showJSON    bool
	showNoCache bool
)

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show living wage data for a single location",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		flags := showFlags
		if len(args) == 1 {
			flags.search = append(flags.search, args[0])
		}

		env, err := initEnv(ctx, "compare", !showNoCache)
		if err != nil {
			return err
		}
		defer env.Close()

		rep, err := runComparison(ctx, env, compareRequest{
			Search:   flags.search,
			Metros:   flags.metros,
			Counties: flags.counties,
			States:   flags.states,
			Family:   showFamily,
			Exclude:  showExclude,
		})
		if err != nil {
			return err
		}
		if len(rep.Locations) != 1 {
			return eris.Errorf("show expects exactly one location, got %d", len(rep.Locations))
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		renderSingle(os.Stdout, rep)
		return nil
	},
}

func init() {
	f := showCmd.Flags()
	f.StringSliceVar(&showFlags.metros, "metros", nil, "metro area by CBSA code")
	f.StringSliceVar(&showFlags.counties, "counties", nil, "county by FIPS code")
	f.StringSliceVar(&showFlags.states, "states", nil, "state by FIPS code")
	f.StringVar(&showFamily, "family", model.DefaultFamilyKey, "family configuration key")
	f.StringSliceVar(&showExclude, "exclude", nil, "expense categories to exclude")
	f.BoolVar(&showJSON, "json", false, "emit the data as JSON")
	f.BoolVar(&showNoCache, "no-cache", false, "bypass the figures cache")
	rootCmd.AddCommand(showCmd)
}
