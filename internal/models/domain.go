package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DropKind distinguishes fixed-supply drops from open editions.
type DropKind string

const (
	DropKindFixedSupply DropKind = "fixed_supply"
	DropKindOpenEdition DropKind = "open_edition"
)

// CatalogItem represents one sellable item in the off-chain catalog.
// ItemId values are assigned externally, only ever grow, and may have
// gaps where rows were deleted.
type CatalogItem struct {
	ItemId       int64           `db:"item_id"`
	Price        decimal.Decimal `db:"price"`
	Supply       int64           `db:"supply"` // 0 means unlimited
	MinimumUnits int64           `db:"minimum_units"`
	DropKind     DropKind        `db:"drop_kind"`
	CreatedAt    time.Time       `db:"created_at"`
	StartDate    *time.Time      `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
}

// WindowStart resolves the sale window opening: the explicit start date
// when one was set, otherwise the row's creation time.
func (c CatalogItem) WindowStart() time.Time {
	if c.StartDate != nil {
		return *c.StartDate
	}
	return c.CreatedAt
}

// IsOpenEdition maps the catalog enum onto the contract's boolean flag.
func (c CatalogItem) IsOpenEdition() bool {
	return c.DropKind == DropKindOpenEdition
}

// Account represents a user with an on-chain wallet.
type Account struct {
	UserId         string    `db:"user_id"`
	WalletAddress  string    `db:"wallet_address"`
	ExternalUserId string    `db:"external_user_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// OrderEvent is one off-chain order row. Redeemed and refunded are
// mutually exclusive categories; each event counts at most once toward
// a user's entitlement.
type OrderEvent struct {
	OrderId   string    `db:"order_id"`
	ItemId    int64     `db:"item_id"`
	UserId    string    `db:"user_id"`
	Redeemed  bool      `db:"redeemed"`
	Refunded  bool      `db:"refunded"`
	CreatedAt time.Time `db:"created_at"`
}

// DropParams carries the arguments of one on-chain drop creation.
type DropParams struct {
	MaxUnits      int64
	UnitPrice     decimal.Decimal
	IsOpenEdition bool
	WindowStart   time.Time
	WindowEnd     time.Time
	MinimumUnits  int64
}
