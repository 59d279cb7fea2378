package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Fetch the catalog once and print it as a table",
	RunE:  runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().Bool("plain", false, "Print the raw markdown table without styling")
}

func runProducts(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	plain, _ := cmd.Flags().GetBool("plain")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Service: "storefront", Level: cfg.LogLevel, Development: true})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	base, err := catalog.NewClient("catalog", cfg.CatalogURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	items, err := catalog.NewProductsClient(base, cfg.CatalogPath).ListProducts(ctx)
	if err != nil {
		logger.Debug("catalog fetch failed", zap.Error(err))
		return errors.New(catalog.UserMessage)
	}

	md := productsMarkdown(items)
	if plain {
		_, err = fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}

	out, err := renderMarkdown(md, terminalWidth(os.Stdout), "")
	if err != nil {
		return fmt.Errorf("render products: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
