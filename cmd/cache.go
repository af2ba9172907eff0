package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the figures cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("cache"); err != nil {
			return err
		}

		st, err := initCache(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("caching is off")
		}
		defer st.Close()

		n, err := st.DeleteExpired(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("expired cache entries deleted", zap.Int("count", n))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}
