package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/colcmp/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "colcmp",
	Short: "Compare cost of living between US locations",
	Long:  "Fetches living wage and typical expense data for US metros, counties, and states, compares locations category by category, and translates an income from one location into its equivalent elsewhere.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
