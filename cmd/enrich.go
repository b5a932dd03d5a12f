package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliqgyurova/toolplanner/config"
	"github.com/liliqgyurova/toolplanner/internal/catalog"
	"github.com/liliqgyurova/toolplanner/internal/store"
)

// enrichCMD backfills empty tool descriptions by rendering each tool's
// website and extracting a readable snippet.
func enrichCMD() *cobra.Command {
	var cfgPath string
	var limit int
	var enrich = &cobra.Command{
		Use:   "enrich",
		Short: "Backfill missing tool descriptions from tool websites",
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

			tools, err := st.ListAllTools(ctx)
			if err != nil {
				return err
			}
			enricher := catalog.NewEnricher(cfg.Enrich.Timeout, cfg.Enrich.MaxChars)
			done := 0
			for _, t := range tools {
				if limit > 0 && done >= limit {
					break
				}
				if t.Description != "" || t.Website() == "" {
					continue
				}
				desc, err := enricher.Describe(ctx, t.Website())
				if err != nil || desc == "" {
					fmt.Printf("skip %s: %v\n", t.Name, err)
					continue
				}
				if err := st.UpdateToolDescription(ctx, t.ID, desc); err != nil {
					return err
				}
				fmt.Printf("enriched %s\n", t.Name)
				done++
			}
			fmt.Printf("enriched %d tools\n", done)
			return nil
		},
	}
	enrich.Flags().IntVar(&limit, "limit", 0, "max tools to enrich (0 = all)")
	enrich.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return enrich
}
