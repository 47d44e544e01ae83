package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/repository"
	"storefront/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert categories and products from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := seed.LoadFile(file, time.Now())
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store *repository.Store) error {
				result, err := seed.Apply(ctx, store, catalog, a.log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories and %d products\n", result.Categories, result.Products)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed/catalog.yaml", "seed file to load")
	return cmd
}

func newDeleteProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-product <id>",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withStore(cmd.Context(), func(ctx context.Context, store *repository.Store) error {
				if err := store.Products.Delete(ctx, id); err != nil {
					if errors.Is(err, repository.ErrProductNotFound) {
						return fmt.Errorf("product %s does not exist", id)
					}
					return err
				}
				a.log.Info("Product deleted", zap.String("product_id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", id)
				return nil
			})
		},
	}
}
