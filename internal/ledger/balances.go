package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// balanceBatchSize caps how many (wallet, id) pairs go into one
// balanceOfBatch call.
const balanceBatchSize = 20

// BatchCaller is the single read-only contract call the reader needs.
type BatchCaller interface {
	BalanceOfBatch(ctx context.Context, wallets []common.Address, ids []*big.Int) ([]*big.Int, error)
}

// BalanceReader reads on-chain balances for one wallet across many item
// ids, batching the underlying calls.
type BalanceReader struct {
	caller BatchCaller
	logger *zap.Logger
}

func NewBalanceReader(caller BatchCaller, logger *zap.Logger) *BalanceReader {
	return &BalanceReader{caller: caller, logger: logger}
}

// ReadBalances returns one balance per requested item id, positionally
// aligned with itemIds. If any underlying batch fails or comes back
// misaligned, the whole read returns an empty slice: callers must treat
// that as "unknown, skip this wallet for the pass", never as zero
// balances. No retry happens at this layer.
func (r *BalanceReader) ReadBalances(ctx context.Context, wallet string, itemIds []int64) []int64 {
	address := common.HexToAddress(wallet)
	balances := make([]int64, 0, len(itemIds))

	for start := 0; start < len(itemIds); start += balanceBatchSize {
		end := min(start+balanceBatchSize, len(itemIds))
		batch := itemIds[start:end]

		wallets := make([]common.Address, len(batch))
		ids := make([]*big.Int, len(batch))
		for i, id := range batch {
			wallets[i] = address
			ids[i] = big.NewInt(id)
		}

		result, err := r.caller.BalanceOfBatch(ctx, wallets, ids)
		if err != nil {
			r.logger.Warn("Balance batch read failed",
				zap.String("wallet", wallet),
				zap.Int64("first_item_id", batch[0]),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			return []int64{}
		}
		if len(result) != len(batch) {
			r.logger.Warn("Balance batch response misaligned",
				zap.String("wallet", wallet),
				zap.Int("want", len(batch)),
				zap.Int("got", len(result)))
			return []int64{}
		}

		for _, balance := range result {
			if balance == nil {
				r.logger.Warn("Balance batch response contains nil entry", zap.String("wallet", wallet))
				return []int64{}
			}
			balances = append(balances, balance.Int64())
		}
	}

	return balances
}
