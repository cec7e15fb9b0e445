package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"organizer/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the classification cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheCleanupCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *cache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Classifications", strconv.Itoa(stats.Classifications)},
					{"AI results", strconv.Itoa(stats.AIResults)},
					{"Corrections", strconv.Itoa(stats.Corrections)},
					{"Pending corrections", strconv.Itoa(stats.UnappliedCount)},
					{"Learning patterns", strconv.Itoa(stats.LearningPatterns)},
					{"Tracked files", strconv.Itoa(stats.TrackedFiles)},
				}

				categories := make([]string, 0, len(stats.ByCategory))
				for category := range stats.ByCategory {
					categories = append(categories, category)
				}
				sort.Strings(categories)
				for _, category := range categories {
					rows = append(rows, []string{"  " + category, strconv.Itoa(stats.ByCategory[category])})
				}

				out := cmd.OutOrStdout()
				headers := []string{"Metric", "Count"}
				aligns := []columnAlignment{alignLeft, alignRight}
				fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
				return nil
			})
		},
	}
}

func newCacheCleanupCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove cache entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			retentionDays := days
			if retentionDays <= 0 {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				retentionDays = cfg.Workflow.CacheRetentionDays
			}
			if retentionDays <= 0 {
				return fmt.Errorf("retention must be positive, got %d days", retentionDays)
			}
			return ctx.withStore(func(store *cache.Store) error {
				removed, err := store.Cleanup(cmd.Context(), time.Duration(retentionDays)*24*time.Hour)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries older than %d days\n", removed, retentionDays)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (defaults to the configured value)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached classifications and tracking state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("cache clear removes all cached classifications; rerun with --force to confirm")
			}
			return ctx.withStore(func(store *cache.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion of all cached state")
	return cmd
}
