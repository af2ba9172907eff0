package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/colcmp/internal/catalog"
	"github.com/sells-group/colcmp/internal/equiv"
	"github.com/sells-group/colcmp/internal/export"
	"github.com/sells-group/colcmp/internal/model"
	"github.com/sells-group/colcmp/internal/report"
)

// compareRequest carries one comparison's inputs. The serve command decodes
// the same shape from JSON.
type compareRequest struct {
	Search   []string `json:"search,omitempty"`
	Metros   []string `json:"metros,omitempty"`
	Counties []string `json:"counties,omitempty"`
	States   []string `json:"states,omitempty"`
	Family   string   `json:"family,omitempty"`
	Income   float64  `json:"income,omitempty"`
	Methods  []string `json:"methods,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

// runComparison resolves the requested locations, loads their figures, and
// assembles the report.
func runComparison(ctx context.Context, env *appEnv, req compareRequest) (*report.Report, error) {
	familyKey := req.Family
	if familyKey == "" {
		familyKey = model.DefaultFamilyKey
	}
	family, err := model.ParseFamily(familyKey)
	if err != nil {
		return nil, err
	}

	var methods []equiv.Method
	for _, raw := range req.Methods {
		m, err := equiv.ParseMethod(raw)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	var exclude []model.Category
	for _, raw := range req.Exclude {
		c, err := model.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, c)
	}

	ids, err := resolveLocations(env.Index, locationFlags{
		search:   req.Search,
		metros:   req.Metros,
		counties: req.Counties,
		states:   req.States,
	})
	if err != nil {
		return nil, err
	}

	ds, warnings, err := env.Loader.Load(ctx, ids)
	if err != nil {
		return nil, eris.Wrap(err, "load location data")
	}

	figures, err := catalog.Load(ds)
	if err != nil {
		return nil, eris.Wrap(err, "index fetched data")
	}

	records := make([]model.LocationRecord, 0, len(ids))
	for _, id := range ids {
		loc, err := figures.ResolveByCode(id.Kind, id.Code)
		if err != nil {
			return nil, eris.Wrapf(err, "no data loaded for %s", id)
		}
		rec, err := loc.Record(family)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	rep, err := report.Build(records, report.Options{
		Income:  req.Income,
		Methods: methods,
		Exclude: exclude,
	})
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", w.ID, w.Message))
	}
	for _, w := range figures.Warnings() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", w.ID, w.Message))
	}
	return rep, nil
}

var (
	compareFlags   locationFlags
	compareFamily  string
	compareIncome  float64
	compareMethods []string
	compareExclude []string
	compareJSON    bool
	compareXLSX    string
	compareNoCache bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare cost of living between locations",
	Long:  "Fetches living wage data for each location and prints a category-by-category comparison. With --income, also translates that income from the first location into its equivalent in each other location.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "compare", !compareNoCache)
		if err != nil {
			return err
		}
		defer env.Close()

		rep, err := runComparison(ctx, env, compareRequest{
			Search:   compareFlags.search,
			Metros:   compareFlags.metros,
			Counties: compareFlags.counties,
			States:   compareFlags.states,
			Family:   compareFamily,
			Income:   compareIncome,
			Methods:  compareMethods,
			Exclude:  compareExclude,
		})
		if err != nil {
			return err
		}

		if compareXLSX != "" {
			if err := export.WriteXLSX(rep, compareXLSX); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", compareXLSX))
		}

		if compareJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		if len(rep.Locations) == 1 {
			renderSingle(os.Stdout, rep)
		} else {
			renderReport(os.Stdout, rep)
		}
		return nil
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringSliceVar(&compareFlags.search, "search", nil, "locations by name (e.g. \"New York\",Atlanta)")
	f.StringSliceVar(&compareFlags.metros, "metros", nil, "metro areas by CBSA code")
	f.StringSliceVar(&compareFlags.counties, "counties", nil, "counties by FIPS code")
	f.StringSliceVar(&compareFlags.states, "states", nil, "states by FIPS code")
	f.StringVar(&compareFamily, "family", model.DefaultFamilyKey, "family configuration key")
	f.Float64Var(&compareIncome, "income", 0, "annual income in the first location for equivalence")
	f.StringSliceVar(&compareMethods, "method", nil, "equivalence method: linear, sqrt, log-linear, engel (repeatable; default sqrt)")
	f.StringSliceVar(&compareExclude, "exclude", nil, "expense categories to exclude")
	f.BoolVar(&compareJSON, "json", false, "emit the report as JSON")
	f.StringVar(&compareXLSX, "xlsx", "", "also write the report to an XLSX workbook at this path")
	f.BoolVar(&compareNoCache, "no-cache", false, "bypass the figures cache")
	rootCmd.AddCommand(compareCmd)
}
