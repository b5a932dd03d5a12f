package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliqgyurova/toolplanner/config"
	"github.com/liliqgyurova/toolplanner/internal/store"
)

func seedCMD() *cobra.Command {
	var cfgPath string
	var seed = &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in starter catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			dsn, err := cfg.Storage.Postgres.DSN()
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := store.NewWithDSN(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()
			inserted, err := st.SeedEmbedded(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d new tools\n", inserted)
			return nil
		},
	}
	seed.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return seed
}
