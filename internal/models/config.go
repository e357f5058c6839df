package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Chain    ChainConfig
}

// DatabaseConfig holds catalog/order store connection settings
type DatabaseConfig struct {
	Path            string        `validate:"required"`
	MaxOpenConns    int           `validate:"gt=0"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration `validate:"gt=0"`
	CreateDemoData  bool
}

// ChainConfig holds drop-contract client settings
type ChainConfig struct {
	NetworksFile   string        `validate:"required"`
	Network        string        `validate:"required"`
	PrivateKey     string
	ReceiptTimeout time.Duration `validate:"gt=0"`
}
