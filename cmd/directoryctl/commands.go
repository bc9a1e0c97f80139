package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

func init() {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty store with the sample catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.seeder.Seed(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	rootCmd.AddCommand(seedCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show store, cache and search status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				seeded, err := a.seeder.DataExists(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"driver": a.cfg.App.StoreDriver,
					"seeded": seeded,
					"cache":  a.cached,
					"search": a.search,
				})
			})
		},
	}
	rootCmd.AddCommand(statusCmd)

	var search, category, location string
	var minRating float64
	businessesCmd := &cobra.Command{
		Use:   "businesses",
		Short: "List businesses matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &entities.BusinessFilter{SearchTerm: search, Category: category, Location: location}
			if cmd.Flags().Changed("min-rating") {
				f.MinRating = &minRating
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				businesses, source := a.catalog.ListBusinessesWithSource(ctx, f)
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"source":     source,
					"count":      len(businesses),
					"businesses": businesses,
				})
			})
		},
	}
	businessesCmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive substring of name or description")
	businessesCmd.Flags().StringVarP(&category, "category", "c", "", "Exact category")
	businessesCmd.Flags().StringVarP(&location, "location", "l", "", "Exact city")
	businessesCmd.Flags().Float64VarP(&minRating, "min-rating", "r", 0, "Minimum rating")
	rootCmd.AddCommand(businessesCmd)

	businessCmd := &cobra.Command{
		Use:   "business BUSINESS_ID",
		Short: "Show one business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				business, err := a.catalog.GetBusiness(ctx, args[0])
				if err != nil {
					return err
				}
				if business == nil {
					return fmt.Errorf("business %s not found", args[0])
				}
				return printJSON(cmd.OutOrStdout(), business)
			})
		},
	}
	rootCmd.AddCommand(businessCmd)

	reviewsCmd := &cobra.Command{
		Use:   "reviews BUSINESS_ID",
		Short: "List reviews for a business, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				reviews, source := a.catalog.ListReviewsWithSource(ctx, args[0])
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"source":  source,
					"count":   len(reviews),
					"reviews": reviews,
				})
			})
		},
	}
	rootCmd.AddCommand(reviewsCmd)
}
