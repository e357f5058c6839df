package reconcile

import (
	"context"
	"testing"

	"drop-reconcile-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const settleWallet = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func settleAccount() models.Account {
	return models.Account{UserId: "user1", WalletAddress: settleWallet, ExternalUserId: "ext-1"}
}

func TestSettle_EntitlementArithmetic(t *testing.T) {
	st := &fakeStore{
		redeemed: map[string]int64{orderKey("user1", 7): 3},
		refunded: map[string]int64{orderKey("user1", 7): 2},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {0}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	require.Len(t, writer.calls, 3)
	assert.Equal(t, writerCall{method: "mint", itemId: 7, wallet: settleWallet, amount: 5}, writer.calls[0])
	assert.Equal(t, writerCall{method: "redeem", itemId: 7, wallet: settleWallet, amount: 3}, writer.calls[1])
	assert.Equal(t, writerCall{method: "refund", itemId: 7, wallet: settleWallet, amount: 2}, writer.calls[2])
	assert.Equal(t, 1, stats.AccountsProcessed)
	assert.Equal(t, 0, stats.Failures)
}

func TestSettle_RedeemFailureDoesNotBlockRefund(t *testing.T) {
	st := &fakeStore{
		redeemed: map[string]int64{orderKey("user1", 7): 3},
		refunded: map[string]int64{orderKey("user1", 7): 2},
	}
	writer := &fakeWriter{failMethods: map[string]bool{"redeem": true}}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {0}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	require.Len(t, writer.calls, 3)
	assert.Equal(t, "mint", writer.calls[0].method)
	assert.Equal(t, "redeem", writer.calls[1].method)
	assert.Equal(t, "refund", writer.calls[2].method)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 1, stats.RefundCalls)
	assert.Equal(t, 0, stats.RedeemCalls)
}

func TestSettle_EmptyBalanceReadSkipsAccount(t *testing.T) {
	st := &fakeStore{
		redeemed: map[string]int64{orderKey("user1", 7): 3},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{} // unknown wallet: read failure
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	assert.Empty(t, writer.calls)
	assert.Equal(t, 1, stats.AccountsSkipped)
	assert.Equal(t, 0, stats.AccountsProcessed)
}

func TestSettle_MintsOnlyShortfall(t *testing.T) {
	st := &fakeStore{
		redeemed: map[string]int64{orderKey("user1", 7): 3},
		refunded: map[string]int64{orderKey("user1", 7): 2},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {2}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	require.Len(t, writer.calls, 3)
	assert.Equal(t, writerCall{method: "mint", itemId: 7, wallet: settleWallet, amount: 3}, writer.calls[0])
}

func TestSettle_NoMintWhenBalanceCoversEntitlement(t *testing.T) {
	st := &fakeStore{
		redeemed: map[string]int64{orderKey("user1", 7): 3},
		refunded: map[string]int64{orderKey("user1", 7): 2},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {5}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	require.Len(t, writer.calls, 2)
	assert.Equal(t, "redeem", writer.calls[0].method)
	assert.Equal(t, "refund", writer.calls[1].method)
	assert.Equal(t, 0, stats.MintCalls)
}

func TestSettle_NoOrdersNoCalls(t *testing.T) {
	st := &fakeStore{}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {4}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7})

	assert.Empty(t, writer.calls)
	assert.Equal(t, 1, stats.AccountsProcessed)
}

func TestSettle_CountErrorSkipsPair(t *testing.T) {
	st := &fakeStore{countErr: assert.AnError}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {0, 0}}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	stats := engine.Settle(context.Background(), []models.Account{settleAccount()}, []int64{7, 8})

	assert.Empty(t, writer.calls)
	assert.Equal(t, 2, stats.Failures)
}

func TestSettle_MultipleAccountsSequential(t *testing.T) {
	otherWallet := "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	st := &fakeStore{
		redeemed: map[string]int64{
			orderKey("user1", 1): 1,
			orderKey("user2", 1): 2,
		},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{
		settleWallet: {0},
		otherWallet:  {0},
	}}
	engine := NewEngine(st, writer, reader, zap.NewNop())

	accounts := []models.Account{
		settleAccount(),
		{UserId: "user2", WalletAddress: otherWallet, ExternalUserId: "ext-2"},
	}
	stats := engine.Settle(context.Background(), accounts, []int64{1})

	require.Len(t, writer.calls, 4)
	// user1 fully settled before user2 starts.
	assert.Equal(t, settleWallet, writer.calls[0].wallet)
	assert.Equal(t, settleWallet, writer.calls[1].wallet)
	assert.Equal(t, otherWallet, writer.calls[2].wallet)
	assert.Equal(t, otherWallet, writer.calls[3].wallet)
	assert.Equal(t, 2, stats.AccountsProcessed)
}

// Full pass over a one-item catalog: create the drop, then settle a
// single redeemed order for one account.
func TestReconcile_EndToEnd(t *testing.T) {
	st := &fakeStore{
		items:    []models.CatalogItem{catalogItem(1, 100)},
		redeemed: map[string]int64{orderKey("user1", 1): 1},
	}
	writer := &fakeWriter{}
	reader := &fakeReader{balances: map[string][]int64{settleWallet: {0}}}

	synchronizer := NewSynchronizer(st, writer, zap.NewNop())
	_, err := synchronizer.Synchronize(context.Background())
	require.NoError(t, err)

	itemIds, err := st.GetCatalogItemIds(context.Background())
	require.NoError(t, err)

	engine := NewEngine(st, writer, reader, zap.NewNop())
	engine.Settle(context.Background(), []models.Account{settleAccount()}, itemIds)

	require.Len(t, writer.calls, 3)
	assert.Equal(t, "createDrop", writer.calls[0].method)
	assert.Equal(t, int64(100), writer.calls[0].params.MaxUnits)
	assert.False(t, writer.calls[0].params.IsOpenEdition)
	assert.Equal(t, writerCall{method: "mint", itemId: 1, wallet: settleWallet, amount: 1}, writer.calls[1])
	assert.Equal(t, writerCall{method: "redeem", itemId: 1, wallet: settleWallet, amount: 1}, writer.calls[2])
}
