package reconcile

import (
	"context"
	"errors"
	"fmt"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"
)

// fakeStore implements store.ReconcileStore from in-memory fixtures.
type fakeStore struct {
	items    []models.CatalogItem
	itemsErr error
	redeemed map[string]int64
	refunded map[string]int64
	countErr error
}

var _ store.ReconcileStore = (*fakeStore)(nil)

func orderKey(userId string, itemId int64) string {
	return fmt.Sprintf("%s:%d", userId, itemId)
}

func (f *fakeStore) GetCatalogItems(_ context.Context) ([]models.CatalogItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeStore) GetCatalogItemIds(_ context.Context) ([]int64, error) {
	ids := make([]int64, len(f.items))
	for i, item := range f.items {
		ids[i] = item.ItemId
	}
	return ids, f.itemsErr
}

func (f *fakeStore) GetAccountsWithWallets(_ context.Context) ([]models.Account, error) {
	return nil, nil
}

func (f *fakeStore) GetAccountByExternalId(_ context.Context, _ string) (*models.Account, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) CountRedeemedOrders(_ context.Context, userId string, itemId int64) (int64, error) {
	return f.redeemed[orderKey(userId, itemId)], f.countErr
}

func (f *fakeStore) CountRefundedOrders(_ context.Context, userId string, itemId int64) (int64, error) {
	return f.refunded[orderKey(userId, itemId)], f.countErr
}

func (f *fakeStore) GetOrderEventsForUser(_ context.Context, _ string) ([]models.OrderEvent, error) {
	return nil, nil
}

func (f *fakeStore) Close() {}

// writerCall records one attempted contract call, failed or not.
type writerCall struct {
	method string
	itemId int64
	wallet string
	amount int64
	params models.DropParams
}

type fakeWriter struct {
	calls []writerCall
	// failCreateWithMaxUnits fails CreateDrop calls whose MaxUnits match
	failCreateWithMaxUnits map[int64]bool
	// failMethods fails every call of the named method
	failMethods map[string]bool
}

var _ DropWriter = (*fakeWriter)(nil)

func (f *fakeWriter) CreateDrop(_ context.Context, params models.DropParams) error {
	f.calls = append(f.calls, writerCall{method: "createDrop", params: params})
	if f.failCreateWithMaxUnits[params.MaxUnits] || f.failMethods["createDrop"] {
		return errors.New("rpc error: execution reverted")
	}
	return nil
}

func (f *fakeWriter) record(method string, itemId int64, wallet string, amount int64) error {
	f.calls = append(f.calls, writerCall{method: method, itemId: itemId, wallet: wallet, amount: amount})
	if f.failMethods[method] {
		return errors.New("rpc error: execution reverted")
	}
	return nil
}

func (f *fakeWriter) Mint(_ context.Context, itemId int64, wallet string, amount int64) error {
	return f.record("mint", itemId, wallet, amount)
}

func (f *fakeWriter) Redeem(_ context.Context, itemId int64, wallet string, amount int64) error {
	return f.record("redeem", itemId, wallet, amount)
}

func (f *fakeWriter) Refund(_ context.Context, itemId int64, wallet string, amount int64) error {
	return f.record("refund", itemId, wallet, amount)
}

// maxUnitsSequence projects the recorded createDrop calls onto their
// MaxUnits, which the tests use to tell placeholders (MaxUnits 1) from
// real drops (distinct supplies).
func (f *fakeWriter) maxUnitsSequence() []int64 {
	var seq []int64
	for _, call := range f.calls {
		if call.method == "createDrop" {
			seq = append(seq, call.params.MaxUnits)
		}
	}
	return seq
}

// fakeReader returns programmed balances per wallet; unknown wallets get
// an empty result, the "read failed" signal.
type fakeReader struct {
	balances map[string][]int64
}

var _ BalanceReader = (*fakeReader)(nil)

func (f *fakeReader) ReadBalances(_ context.Context, wallet string, _ []int64) []int64 {
	return f.balances[wallet]
}
