package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	apperrors "flowclicker-backend/internal/common/errors"
)

var (
	// ErrReceiptNotFound means the transaction is unknown or not yet mined.
	ErrReceiptNotFound = errors.New("transaction receipt not found")
	// ErrEventNotFound means the receipt carries no Claimed event from the
	// token contract.
	ErrEventNotFound = errors.New("claim event not found in receipt")
)

// Backend is the subset of ethclient the oracle needs. Narrowed so tests can
// substitute a fake RPC node.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Schedule describes the on-chain linear reward decay.
type Schedule struct {
	InitialReward   *big.Int
	FinalReward     *big.Int
	DurationSeconds int64
	LaunchTimestamp int64
}

// ClaimEvent is a decoded Claimed log.
type ClaimEvent struct {
	Player common.Address
	Amount *big.Int
	Clicks *big.Int
}

// FeeInfo carries the tokenomics getters used by the global stats endpoint.
type FeeInfo struct {
	DevWallet        common.Address
	FoundationWallet common.Address
	BurnAddress      common.Address
	DevFeeBPS        int64
	FoundationFeeBPS int64
	BurnFeeBPS       int64
}

// Oracle is the read-only view into the token contract. Every call is bounded
// by the configured timeout and failures surface as ORACLE_UNAVAILABLE, never
// as silently-defaulted zero values.
type Oracle struct {
	backend  Backend
	contract common.Address
	abi      abi.ABI
	timeout  time.Duration
}

// NewOracle dials the RPC endpoint and prepares the contract ABI.
func NewOracle(rpcURL string, contractAddress string, timeout time.Duration) (*Oracle, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return NewOracleWithBackend(client, contractAddress, timeout)
}

// NewOracleWithBackend wires the oracle onto an existing backend.
func NewOracleWithBackend(backend Backend, contractAddress string, timeout time.Duration) (*Oracle, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid token contract address: %q", contractAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Oracle{
		backend:  backend,
		contract: common.HexToAddress(contractAddress),
		abi:      parsed,
		timeout:  timeout,
	}, nil
}

// Contract returns the token contract address the oracle trusts.
func (o *Oracle) Contract() common.Address {
	return o.contract
}

func (o *Oracle) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := o.abi.Pack(method, args...)
	if err != nil {
		return nil, apperrors.NewOracleError(method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.backend.CallContract(callCtx, ethereum.CallMsg{To: &o.contract, Data: data}, nil)
	if err != nil {
		return nil, apperrors.NewOracleError(method, err)
	}

	values, err := o.abi.Unpack(method, out)
	if err != nil {
		return nil, apperrors.NewOracleError(method, err)
	}
	return values, nil
}

func (o *Oracle) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := o.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, apperrors.NewOracleError(method, fmt.Errorf("unexpected return type %T", values[0]))
	}
	return v, nil
}

func (o *Oracle) callAddress(ctx context.Context, method string) (common.Address, error) {
	values, err := o.call(ctx, method)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, apperrors.NewOracleError(method, fmt.Errorf("unexpected return type %T", values[0]))
	}
	return v, nil
}

// BalanceOf returns the authoritative token balance in wei.
func (o *Oracle) BalanceOf(ctx context.Context, player common.Address) (*big.Int, error) {
	return o.callBig(ctx, "balanceOf", player)
}

// NonceOf returns the claim nonce the contract expects next for the player.
func (o *Oracle) NonceOf(ctx context.Context, player common.Address) (*big.Int, error) {
	return o.callBig(ctx, "nonces", player)
}

// CurrentReward returns the contract's own view of reward-per-click, used to
// cross-check the local decay calculation.
func (o *Oracle) CurrentReward(ctx context.Context) (*big.Int, error) {
	return o.callBig(ctx, "getCurrentReward")
}

// TotalSupply returns the minted supply in wei.
func (o *Oracle) TotalSupply(ctx context.Context) (*big.Int, error) {
	return o.callBig(ctx, "totalSupply")
}

// Decimals returns the token's fixed-point decimal count.
func (o *Oracle) Decimals(ctx context.Context) (uint8, error) {
	values, err := o.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	v, ok := values[0].(uint8)
	if !ok {
		return 0, apperrors.NewOracleError("decimals", fmt.Errorf("unexpected return type %T", values[0]))
	}
	return v, nil
}

// DecaySchedule reads the four schedule constants from the contract.
func (o *Oracle) DecaySchedule(ctx context.Context) (*Schedule, error) {
	initial, err := o.callBig(ctx, "INITIAL_REWARD_PER_CLICK")
	if err != nil {
		return nil, err
	}
	final, err := o.callBig(ctx, "FINAL_REWARD_PER_CLICK")
	if err != nil {
		return nil, err
	}
	duration, err := o.callBig(ctx, "DECAY_DURATION_SECONDS")
	if err != nil {
		return nil, err
	}
	launch, err := o.callBig(ctx, "launchTime")
	if err != nil {
		return nil, err
	}

	return &Schedule{
		InitialReward:   initial,
		FinalReward:     final,
		DurationSeconds: duration.Int64(),
		LaunchTimestamp: launch.Int64(),
	}, nil
}

// FeeInfo reads the tokenomics getters.
func (o *Oracle) FeeInfo(ctx context.Context) (*FeeInfo, error) {
	dev, err := o.callAddress(ctx, "devWallet")
	if err != nil {
		return nil, err
	}
	foundation, err := o.callAddress(ctx, "foundationWallet")
	if err != nil {
		return nil, err
	}
	burn, err := o.callAddress(ctx, "BURN_ADDRESS")
	if err != nil {
		return nil, err
	}
	devBPS, err := o.callBig(ctx, "DEV_FEE_BPS")
	if err != nil {
		return nil, err
	}
	foundationBPS, err := o.callBig(ctx, "FOUNDATION_FEE_BPS")
	if err != nil {
		return nil, err
	}
	burnBPS, err := o.callBig(ctx, "BURN_FEE_BPS")
	if err != nil {
		return nil, err
	}

	return &FeeInfo{
		DevWallet:        dev,
		FoundationWallet: foundation,
		BurnAddress:      burn,
		DevFeeBPS:        devBPS.Int64(),
		FoundationFeeBPS: foundationBPS.Int64(),
		BurnFeeBPS:       burnBPS.Int64(),
	}, nil
}

// GetReceipt fetches the receipt of a submitted claim transaction.
func (o *Oracle) GetReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	receipt, err := o.backend.TransactionReceipt(callCtx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, apperrors.NewOracleError("transactionReceipt", err)
	}
	return receipt, nil
}

// DecodeClaimEvent extracts the Claimed event from a receipt. Only logs
// emitted by the known token contract are considered; anything else in the
// same receipt is ignored.
func (o *Oracle) DecodeClaimEvent(receipt *types.Receipt) (*ClaimEvent, error) {
	event := o.abi.Events["Claimed"]
	for _, lg := range receipt.Logs {
		if lg.Address != o.contract {
			continue
		}
		if len(lg.Topics) < 2 || lg.Topics[0] != event.ID {
			continue
		}

		values, err := event.Inputs.NonIndexed().Unpack(lg.Data)
		if err != nil {
			return nil, apperrors.NewOracleError("decodeClaimEvent", err)
		}
		amount, ok := values[0].(*big.Int)
		if !ok {
			return nil, apperrors.NewOracleError("decodeClaimEvent", fmt.Errorf("unexpected amount type %T", values[0]))
		}
		clicks, ok := values[1].(*big.Int)
		if !ok {
			return nil, apperrors.NewOracleError("decodeClaimEvent", fmt.Errorf("unexpected clicks type %T", values[1]))
		}

		return &ClaimEvent{
			Player: common.BytesToAddress(lg.Topics[1].Bytes()),
			Amount: amount,
			Clicks: clicks,
		}, nil
	}
	return nil, ErrEventNotFound
}
