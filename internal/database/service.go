package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.ReconcileStore.
var _ store.ReconcileStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.CreateDemoData); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(createDemoData bool) error {
	schema := `
	-- Catalog of sellable items. item_id comes from the catalog UI and
	-- may have gaps where rows were deleted.
	CREATE TABLE IF NOT EXISTS catalog_items (
		item_id INTEGER PRIMARY KEY,
		price TEXT NOT NULL,
		supply INTEGER,
		minimum_units INTEGER NOT NULL DEFAULT 1,
		drop_kind TEXT NOT NULL DEFAULT 'fixed_supply',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		start_date TIMESTAMP,
		end_date TIMESTAMP NOT NULL
	);

	-- Accounts with on-chain wallets
	CREATE TABLE IF NOT EXISTS accounts (
		user_id TEXT PRIMARY KEY,
		wallet_address TEXT,
		external_user_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_wallet ON accounts(wallet_address);
	CREATE INDEX IF NOT EXISTS idx_accounts_external_id ON accounts(external_user_id);

	-- Per-user order events; redeemed and refunded never both set
	CREATE TABLE IF NOT EXISTS order_events (
		order_id TEXT PRIMARY KEY,
		item_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		redeemed BOOLEAN NOT NULL DEFAULT 0,
		refunded BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_order_events_user_item ON order_events(user_id, item_id);
	CREATE INDEX IF NOT EXISTS idx_order_events_redeemed ON order_events(redeemed);
	CREATE INDEX IF NOT EXISTS idx_order_events_refunded ON order_events(refunded);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if createDemoData {
		if err := s.seedDemoData(); err != nil {
			return err
		}
	} else {
		zap.L().Info("Skipping demo data creation (CREATE_DEMO_DATA=false)")
	}

	return nil
}

// seedDemoData inserts a small catalog, two wallet-holding accounts and a
// handful of order events so a dry run against a local node has work to do.
func (s *Service) seedDemoData() error {
	now := time.Now().UTC()

	items := []models.CatalogItem{
		{ItemId: 1, Price: decimal.NewFromFloat(0.1), Supply: 100, MinimumUnits: 1, DropKind: models.DropKindFixedSupply, EndDate: now.Add(720 * time.Hour)},
		{ItemId: 2, Price: decimal.NewFromFloat(0.25), Supply: 0, MinimumUnits: 1, DropKind: models.DropKindOpenEdition, EndDate: now.Add(720 * time.Hour)},
		{ItemId: 4, Price: decimal.NewFromFloat(1.5), Supply: 10, MinimumUnits: 2, DropKind: models.DropKindFixedSupply, EndDate: now.Add(240 * time.Hour)},
	}
	for _, item := range items {
		_, err := s.db.Exec(queryInsertCatalogItem,
			item.ItemId, item.Price.String(), item.Supply, item.MinimumUnits,
			string(item.DropKind), now, nil, item.EndDate)
		if err != nil {
			zap.L().Error("Failed to insert demo catalog item", zap.Int64("item_id", item.ItemId), zap.Error(err))
		}
	}

	accounts := []struct {
		wallet     string
		externalId string
	}{
		{"0x8ba1f109551bD432803012645Ac136ddd64DBA72", "demo-alice"},
		{"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", "demo-bob"},
	}
	for _, account := range accounts {
		userId := uuid.New().String()
		if _, err := s.db.Exec(queryInsertAccount, userId, account.wallet, account.externalId); err != nil {
			zap.L().Error("Failed to insert demo account", zap.String("external_id", account.externalId), zap.Error(err))
			continue
		}
		// One redeemed and one refunded order against item 1
		if _, err := s.db.Exec(queryInsertOrderEvent, uuid.New().String(), 1, userId, true, false); err != nil {
			zap.L().Error("Failed to insert demo order event", zap.Error(err))
		}
		if _, err := s.db.Exec(queryInsertOrderEvent, uuid.New().String(), 1, userId, false, true); err != nil {
			zap.L().Error("Failed to insert demo order event", zap.Error(err))
		}
		zap.L().Info("Demo account created", zap.String("user_id", userId), zap.String("wallet", account.wallet))
	}

	return nil
}
