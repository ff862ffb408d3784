package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flowclicker-backend/internal/common/errors"
	"flowclicker-backend/internal/features/player/models"
	playerrepo "flowclicker-backend/internal/features/player/repository"
	"flowclicker-backend/internal/platform/chain"
)

var (
	devWallet        = common.HexToAddress("0xd000000000000000000000000000000000000001")
	foundationWallet = common.HexToAddress("0xf000000000000000000000000000000000000002")
	burnAddress      = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
)

type stubOracle struct {
	supply    *big.Int
	supplyErr error
	balances  map[common.Address]*big.Int
}

func (s *stubOracle) TotalSupply(ctx context.Context) (*big.Int, error) {
	if s.supplyErr != nil {
		return nil, s.supplyErr
	}
	return s.supply, nil
}

func (s *stubOracle) Decimals(ctx context.Context) (uint8, error) {
	return 18, nil
}

func (s *stubOracle) FeeInfo(ctx context.Context) (*chain.FeeInfo, error) {
	return &chain.FeeInfo{
		DevWallet:        devWallet,
		FoundationWallet: foundationWallet,
		BurnAddress:      burnAddress,
		DevFeeBPS:        100,
		FoundationFeeBPS: 100,
		BurnFeeBPS:       300,
	}, nil
}

func (s *stubOracle) BalanceOf(ctx context.Context, address common.Address) (*big.Int, error) {
	if b, ok := s.balances[address]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

type stubLedger struct {
	clicks int64
	sumErr error
}

func (s *stubLedger) GetTotals(ctx context.Context, player string) (*models.Player, error) {
	return nil, playerrepo.ErrPlayerNotFound
}

func (s *stubLedger) CreateIfAbsent(ctx context.Context, player, country string) (*models.Player, error) {
	return &models.Player{Address: player}, nil
}

func (s *stubLedger) ApplyClickIncrement(ctx context.Context, player, country string) error {
	return nil
}

func (s *stubLedger) ApplyClaim(ctx context.Context, player string, amount *big.Int, clicks int64, txHash string) (*models.Player, bool, error) {
	return nil, false, errors.New("not used")
}

func (s *stubLedger) SetOnchainBalance(ctx context.Context, player string, balance *big.Int) error {
	return nil
}

func (s *stubLedger) SumTotalClicks(ctx context.Context) (int64, error) {
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	return s.clicks, nil
}

func (s *stubLedger) ResetAll(ctx context.Context) error { return nil }

func wei(tokens int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(tokens), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestGlobalStats(t *testing.T) {
	oracle := &stubOracle{
		supply: wei(1000),
		balances: map[common.Address]*big.Int{
			devWallet:        wei(10),
			foundationWallet: wei(10),
			burnAddress:      wei(30),
		},
	}
	svc := NewStatsService(oracle, &stubLedger{clicks: 12345})

	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1000", stats.TotalSupply)
	// Supply minus the three fee-wallet balances.
	assert.Equal(t, "950", stats.TotalClaimed)
	assert.Equal(t, int64(12345), stats.TotalClicksAllTime)
	assert.Equal(t, int64(500), stats.Tokenomics.TotalFeeBPS)
}

func TestGlobalStatsOracleDown(t *testing.T) {
	oracle := &stubOracle{supplyErr: apperrors.NewOracleError("totalSupply", errors.New("rpc timeout"))}
	svc := NewStatsService(oracle, &stubLedger{})

	_, err := svc.GlobalStats(context.Background())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeOracleUnavailable, appErr.Code)
}

func TestGlobalStatsLedgerDownDegradesGracefully(t *testing.T) {
	oracle := &stubOracle{supply: wei(100), balances: map[common.Address]*big.Int{}}
	svc := NewStatsService(oracle, &stubLedger{sumErr: errors.New("connection refused")})

	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", stats.TotalSupply)
	assert.Zero(t, stats.TotalClicksAllTime)
}
