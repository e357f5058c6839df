package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	errTransient = errors.New("rpc error: method is not whitelisted for this account")
	errTerminal  = errors.New("rpc error: insufficient funds for gas")
)

type fakeSubmitter struct {
	attempts  int
	succeedOn int // attempt number that succeeds; 0 = never
	err       error
}

func (f *fakeSubmitter) Submit(_ context.Context, _ Call) (*types.Transaction, error) {
	f.attempts++
	if f.succeedOn != 0 && f.attempts >= f.succeedOn {
		return types.NewTx(&types.LegacyTx{}), nil
	}
	return nil, f.err
}

func TestRetrier_TransientExhaustsCeiling(t *testing.T) {
	submitter := &fakeSubmitter{err: errTransient}
	retrier := NewRetrier(submitter, zap.NewNop())

	_, err := retrier.Submit(context.Background(), Call{Method: "mint"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
	// 1 initial attempt + 10 retries
	assert.Equal(t, 11, submitter.attempts)
}

func TestRetrier_TerminalErrorNotRetried(t *testing.T) {
	submitter := &fakeSubmitter{err: errTerminal}
	retrier := NewRetrier(submitter, zap.NewNop())

	_, err := retrier.Submit(context.Background(), Call{Method: "createDrop"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errTerminal)
	assert.Equal(t, 1, submitter.attempts)
}

func TestRetrier_RecoversMidway(t *testing.T) {
	submitter := &fakeSubmitter{err: errTransient, succeedOn: 3}
	retrier := NewRetrier(submitter, zap.NewNop())

	tx, err := retrier.Submit(context.Background(), Call{Method: "redeem"})

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, 3, submitter.attempts)
}

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	submitter := &fakeSubmitter{succeedOn: 1}
	retrier := NewRetrier(submitter, zap.NewNop())

	_, err := retrier.Submit(context.Background(), Call{Method: "refund"})

	require.NoError(t, err)
	assert.Equal(t, 1, submitter.attempts)
}

func TestIsTransientRejection(t *testing.T) {
	assert.True(t, IsTransientRejection(errTransient))
	assert.False(t, IsTransientRejection(errTerminal))
	assert.False(t, IsTransientRejection(nil))
}
