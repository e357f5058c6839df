package main

import (
	"context"
	"fmt"

	"drop-reconcile-go/internal/common"
	"drop-reconcile-go/internal/config"
	"drop-reconcile-go/internal/reconcile"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	logger.Info("Starting catalog synchronization")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	synchronizer := reconcile.NewSynchronizer(services.DbService, services.LedgerService, logger)
	stats, err := synchronizer.Synchronize(ctx)
	if err != nil {
		logger.Fatal("Catalog synchronization aborted", zap.Error(err))
	}

	common.PrintHeader("CATALOG SYNCHRONIZATION REPORT", common.DefaultWidth)
	fmt.Printf("Network:              %s\n", services.Network.Name)
	fmt.Printf("Items processed:      %d\n", stats.ItemsProcessed)
	fmt.Printf("Drops created:        %d\n", stats.DropsCreated)
	fmt.Printf("Placeholders created: %d\n", stats.PlaceholdersCreated)
	fmt.Printf("Failures:             %d\n", stats.Failures)
	summary := fmt.Sprintf("SUMMARY: %d drops (%d placeholders) created across %d catalog items, %d failures",
		stats.DropsCreated, stats.PlaceholdersCreated, stats.ItemsProcessed, stats.Failures)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Catalog synchronization completed",
		zap.Int("items_processed", stats.ItemsProcessed),
		zap.Int("drops_created", stats.DropsCreated),
		zap.Int("placeholders_created", stats.PlaceholdersCreated),
		zap.Int("failures", stats.Failures))
}
