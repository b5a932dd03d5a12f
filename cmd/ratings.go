package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/liliqgyurova/toolplanner/config"
	"github.com/liliqgyurova/toolplanner/internal/ratings"
)

// ratingsCMD fetches the live leaderboard once and prints the scores, useful
// for checking the parser against the current page layout.
func ratingsCMD() *cobra.Command {
	var cfgPath string
	var render bool
	var cmdRatings = &cobra.Command{
		Use:   "ratings",
		Short: "Fetch the live model leaderboard and print parsed scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			logger := log.New(log.Writer(), "[RATINGS] ", log.LstdFlags)

			var rendered ratings.Fetcher
			if render || cfg.Ratings.RenderFallback {
				rendered = &ratings.RenderedFetcher{URL: cfg.Ratings.URL, Timeout: cfg.Ratings.Timeout() * 4}
			}
			cache := ratings.NewCache(ratings.Options{
				Enabled:   true,
				TTL:       cfg.Ratings.TTL(),
				FailRetry: cfg.Ratings.FailRetry(),
				Timeout:   cfg.Ratings.Timeout(),
			}, ratings.NewHTTPFetcher(cfg.Ratings.URL, cfg.Ratings.Timeout()), rendered, logger)

			ok, count := cache.Refresh(context.Background())
			if !ok {
				return fmt.Errorf("leaderboard fetch failed")
			}
			for name, score := range cache.Fetch(context.Background(), false) {
				fmt.Printf("%-20s %.2f\n", name, score)
			}
			fmt.Printf("%d scores\n", count)
			return nil
		},
	}
	cmdRatings.Flags().BoolVar(&render, "render", false, "force the headless-browser fetch")
	cmdRatings.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return cmdRatings
}
