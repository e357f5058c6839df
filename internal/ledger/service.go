package ledger

import (
	"context"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"drop-reconcile-go/internal/models"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// dropContractABI covers the slice of the drop contract this tool talks
// to: drop creation, the three balance-mutating calls, and the batch
// balance view.
const dropContractABI = `[
	{"type":"function","name":"createDrop","stateMutability":"nonpayable","inputs":[{"name":"maxUnits","type":"uint256"},{"name":"unitPrice","type":"uint256"},{"name":"isOpenEdition","type":"bool"},{"name":"windowStart","type":"uint256"},{"name":"windowEnd","type":"uint256"},{"name":"minimumUnits","type":"uint256"}],"outputs":[{"name":"newIndex","type":"uint256"}]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"redeem","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"refund","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"balanceOfBatch","stateMutability":"view","inputs":[{"name":"accounts","type":"address[]"},{"name":"ids","type":"uint256[]"}],"outputs":[{"name":"","type":"uint256[]"}]}
]`

// Call is one encoded contract invocation.
type Call struct {
	Method string
	Args   []interface{}
}

// Submitter submits a single contract-mutating call.
type Submitter interface {
	Submit(ctx context.Context, call Call) (*types.Transaction, error)
}

// ServiceParams holds everything needed to talk to one drop contract.
type ServiceParams struct {
	RpcUrl          string
	ChainId         int64
	ContractAddress string
	PrivateKey      string // empty for a read-only service
	ReceiptTimeout  time.Duration
}

type Service struct {
	client         *ethclient.Client
	contract       *bind.BoundContract
	submit         Submitter
	reader         *BalanceReader
	receiptTimeout time.Duration
	logger         *zap.Logger
}

// NewService connects to the chain and prepares a signing client. All
// mutating calls from one signer are sequenced by nonce, so a single
// Service must not be shared across concurrent writers.
func NewService(ctx context.Context, params ServiceParams, logger *zap.Logger) (*Service, error) {
	if params.PrivateKey == "" {
		return nil, fmt.Errorf("missing signing key (set PRIVATE_KEY)")
	}

	service, err := newService(ctx, params, logger)
	if err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(params.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}
	signer, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(params.ChainId))
	if err != nil {
		return nil, fmt.Errorf("unable to create transactor: %w", err)
	}

	service.submit = NewRetrier(&contractSubmitter{contract: service.contract, signer: signer}, logger)
	return service, nil
}

// NewReadOnlyService connects without a signing key; mutating calls fail.
func NewReadOnlyService(ctx context.Context, params ServiceParams, logger *zap.Logger) (*Service, error) {
	return newService(ctx, params, logger)
}

func newService(ctx context.Context, params ServiceParams, logger *zap.Logger) (*Service, error) {
	if params.RpcUrl == "" {
		return nil, fmt.Errorf("rpc url cannot be empty")
	}
	if params.ContractAddress == "" {
		return nil, fmt.Errorf("contract address cannot be empty")
	}

	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	rpcClient, err := rpc.DialOptions(ctx, params.RpcUrl, rpc.WithHTTPClient(&httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to dial %s: %w", params.RpcUrl, err)
	}
	client := ethclient.NewClient(rpcClient)

	parsed, err := abi.JSON(strings.NewReader(dropContractABI))
	if err != nil {
		return nil, fmt.Errorf("unable to parse drop contract abi: %w", err)
	}

	service := &Service{
		client:         client,
		contract:       bind.NewBoundContract(common.HexToAddress(params.ContractAddress), parsed, client, client, client),
		receiptTimeout: params.ReceiptTimeout,
		logger:         logger,
	}
	service.reader = NewBalanceReader(service, logger)
	return service, nil
}

func createCustomHttpClient() (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

func (s *Service) Close() {
	s.client.Close()
}

// contractSubmitter encodes and sends one transaction per Submit. Nonce
// assignment is left to the transactor, which is safe only because calls
// are fully sequential.
type contractSubmitter struct {
	contract *bind.BoundContract
	signer   *bind.TransactOpts
}

func (c *contractSubmitter) Submit(ctx context.Context, call Call) (*types.Transaction, error) {
	opts := *c.signer
	opts.Context = ctx
	return c.contract.Transact(&opts, call.Method, call.Args...)
}

// CreateDrop creates the next drop on the contract. The contract assigns
// the index from its internal counter; keeping that counter aligned with
// catalog item ids is the synchronizer's job.
func (s *Service) CreateDrop(ctx context.Context, params models.DropParams) error {
	return s.transact(ctx, Call{
		Method: "createDrop",
		Args: []interface{}{
			big.NewInt(params.MaxUnits),
			priceToWei(params.UnitPrice),
			params.IsOpenEdition,
			big.NewInt(params.WindowStart.Unix()),
			big.NewInt(params.WindowEnd.Unix()),
			big.NewInt(params.MinimumUnits),
		},
	})
}

func (s *Service) Mint(ctx context.Context, itemId int64, wallet string, amount int64) error {
	return s.transact(ctx, Call{
		Method: "mint",
		Args:   []interface{}{big.NewInt(itemId), common.HexToAddress(wallet), big.NewInt(amount)},
	})
}

func (s *Service) Redeem(ctx context.Context, itemId int64, wallet string, amount int64) error {
	return s.transact(ctx, Call{
		Method: "redeem",
		Args:   []interface{}{big.NewInt(itemId), common.HexToAddress(wallet), big.NewInt(amount)},
	})
}

func (s *Service) Refund(ctx context.Context, itemId int64, wallet string, amount int64) error {
	return s.transact(ctx, Call{
		Method: "refund",
		Args:   []interface{}{big.NewInt(itemId), common.HexToAddress(wallet), big.NewInt(amount)},
	})
}

// transact submits through the retrier and waits for the receipt, so
// calls reach the chain in the order this process issues them.
func (s *Service) transact(ctx context.Context, call Call) error {
	if s.submit == nil {
		return fmt.Errorf("ledger service is read-only, cannot submit %s", call.Method)
	}

	tx, err := s.submit.Submit(ctx, call)
	if err != nil {
		return fmt.Errorf("%s submission failed: %w", call.Method, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.receiptTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, s.client, tx)
	if err != nil {
		return fmt.Errorf("%s not mined (tx %s): %w", call.Method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%s reverted (tx %s)", call.Method, tx.Hash().Hex())
	}

	s.logger.Info("Ledger call mined",
		zap.String("method", call.Method),
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()))
	return nil
}

// BalanceOfBatch issues one eth_call for positionally aligned balances.
func (s *Service) BalanceOfBatch(ctx context.Context, wallets []common.Address, ids []*big.Int) ([]*big.Int, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOfBatch", wallets, ids); err != nil {
		return nil, fmt.Errorf("balanceOfBatch call failed: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("balanceOfBatch returned %d values, want 1", len(out))
	}
	balances, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOfBatch returned non-sequence response")
	}
	return balances, nil
}

// ReadBalances reads current balances for (wallet, itemIds) through the
// batched reader. An empty result means the read failed and the caller
// must skip this wallet for the pass.
func (s *Service) ReadBalances(ctx context.Context, wallet string, itemIds []int64) []int64 {
	return s.reader.ReadBalances(ctx, wallet, itemIds)
}

// priceToWei converts a decimal catalog price to the contract's
// 18-decimal integer representation.
func priceToWei(price decimal.Decimal) *big.Int {
	return price.Mul(decimal.New(1, 18)).BigInt()
}
