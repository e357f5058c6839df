package ledger

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	// maxSubmitRetries bounds retries of a transiently rejected call.
	// Counting the initial attempt, a call is submitted at most 11 times.
	maxSubmitRetries = 10

	// transientRejectionSignature is the node's allow-list gate message.
	// The gate clears on its own, unrelated to load, so retries are
	// immediate with no backoff.
	transientRejectionSignature = "method is not whitelisted"
)

// IsTransientRejection reports whether err carries the allow-list
// rejection signature. Anything else is terminal for the retrier.
func IsTransientRejection(err error) bool {
	return err != nil && strings.Contains(err.Error(), transientRejectionSignature)
}

// Retrier wraps a Submitter with bounded retry on transient rejections.
// Every attempt is a real network submission; idempotency is the
// caller's concern, not the transport's.
type Retrier struct {
	inner  Submitter
	logger *zap.Logger
}

func NewRetrier(inner Submitter, logger *zap.Logger) *Retrier {
	return &Retrier{inner: inner, logger: logger}
}

func (r *Retrier) Submit(ctx context.Context, call Call) (*types.Transaction, error) {
	return r.attempt(ctx, call, maxSubmitRetries)
}

func (r *Retrier) attempt(ctx context.Context, call Call, retriesLeft int) (*types.Transaction, error) {
	tx, err := r.inner.Submit(ctx, call)
	if err == nil {
		return tx, nil
	}
	if !IsTransientRejection(err) || retriesLeft == 0 {
		return nil, err
	}

	r.logger.Warn("Transient rejection, retrying submission",
		zap.String("method", call.Method),
		zap.Int("attempt", maxSubmitRetries-retriesLeft+1),
		zap.Int("retries_left", retriesLeft),
		zap.Error(err))
	return r.attempt(ctx, call, retriesLeft-1)
}
