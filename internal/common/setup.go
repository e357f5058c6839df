package common

import (
	"context"
	"log"
	"strings"

	"drop-reconcile-go/internal/database"
	"drop-reconcile-go/internal/ledger"
	"drop-reconcile-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService     *database.Service
	LedgerService *ledger.Service
	Network       *NetworkConfig
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices wires the catalog store and a signing ledger client.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	network, err := LoadNetworkConfig(cfg.Chain.NetworksFile, cfg.Chain.Network)
	if err != nil {
		dbService.Close()
		return nil, err
	}
	zap.L().Info("Using network",
		zap.String("name", network.Name),
		zap.String("rpc_url", network.RpcUrl),
		zap.Int64("chain_id", network.ChainId),
		zap.String("drop_contract", network.DropContract))

	ledgerService, err := ledger.NewService(ctx, ledgerParams(cfg, network), zap.L())
	if err != nil {
		dbService.Close()
		return nil, err
	}

	return &Services{
		DbService:     dbService,
		LedgerService: ledgerService,
		Network:       network,
	}, nil
}

// InitializeReadOnlyServices wires the catalog store and a ledger client
// without a signing key, for report-style commands.
func InitializeReadOnlyServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	network, err := LoadNetworkConfig(cfg.Chain.NetworksFile, cfg.Chain.Network)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	ledgerService, err := ledger.NewReadOnlyService(ctx, ledgerParams(cfg, network), zap.L())
	if err != nil {
		dbService.Close()
		return nil, err
	}

	return &Services{
		DbService:     dbService,
		LedgerService: ledgerService,
		Network:       network,
	}, nil
}

// InitializeDatabaseOnly initializes just the catalog store.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	return database.NewService(ctx, cfg.Database)
}

func ledgerParams(cfg *models.Config, network *NetworkConfig) ledger.ServiceParams {
	return ledger.ServiceParams{
		RpcUrl:          network.RpcUrl,
		ChainId:         network.ChainId,
		ContractAddress: network.DropContract,
		PrivateKey:      cfg.Chain.PrivateKey,
		ReceiptTimeout:  cfg.Chain.ReceiptTimeout,
	}
}

func (cs *Services) Close() {
	if cs.LedgerService != nil {
		cs.LedgerService.Close()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
