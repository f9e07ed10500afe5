package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/transfer"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/clock"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/logger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository/memory"
)

func newTestAggregator(t *testing.T) (*Aggregator, *ledger.Service, *transfer.Coordinator, *clock.FixedClock) {
	t.Helper()

	engine, err := rules.NewEngine(rules.CreditRules{
		MinimumBalance:           0,
		MaximumBalance:           10000000,
		MinimumTransaction:       1,
		MaximumTransaction:       1000000,
		LowBalanceThreshold:      1000,
		CriticalBalanceThreshold: 200,
	})
	require.NoError(t, err)

	fixedClock := clock.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(fixedClock)
	balanceRepo := memory.NewBalanceRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	uow := memory.NewUnitOfWork(store, balanceRepo, transactionRepo)
	noop := logger.NewNoopLogger()

	aggregator := NewAggregator(balanceRepo, transactionRepo, noop)
	ledgerService := ledger.NewService(uow, engine, fixedClock, noop)
	coordinator := transfer.NewCoordinator(uow, engine, fixedClock, noop)
	return aggregator, ledgerService, coordinator, fixedClock
}

func TestUserSpendingPattern(t *testing.T) {
	t.Run("User with no history gets zeroed aggregates", func(t *testing.T) {
		aggregator, _, _, _ := newTestAggregator(t)

		pattern, err := aggregator.UserSpendingPattern(context.Background(), "nobody")

		require.NoError(t, err)
		assert.Equal(t, "0.00", pattern.TotalAdded)
		assert.Equal(t, "0.00", pattern.TotalDeducted)
		assert.Equal(t, int64(0), pattern.TransactionCount)
		assert.Equal(t, "0.00", pattern.AveragePerTransaction)
		assert.Nil(t, pattern.MostRecentActivity)
	})

	t.Run("Pattern reflects purchases and usage", func(t *testing.T) {
		aggregator, ledgerService, _, fixedClock := newTestAggregator(t)
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "user-1", Amount: "20.00"})
		require.NoError(t, err)
		fixedClock.Advance(time.Minute)
		_, err = ledgerService.DeductCredits(ctx, ledger.MutationRequest{UserID: "user-1", Amount: "3.00"})
		require.NoError(t, err)
		fixedClock.Advance(time.Minute)
		_, err = ledgerService.DeductCredits(ctx, ledger.MutationRequest{UserID: "user-1", Amount: "1.00"})
		require.NoError(t, err)
		lastActivity := fixedClock.Now()

		pattern, err := aggregator.UserSpendingPattern(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "20.00", pattern.TotalAdded)
		assert.Equal(t, "4.00", pattern.TotalDeducted)
		assert.Equal(t, int64(3), pattern.TransactionCount)
		// (20.00 + 4.00) / 3
		assert.Equal(t, "8.00", pattern.AveragePerTransaction)
		require.NotNil(t, pattern.MostRecentActivity)
		assert.Equal(t, lastActivity, *pattern.MostRecentActivity)
	})

	t.Run("Transfers do not count into purchase or usage totals", func(t *testing.T) {
		aggregator, ledgerService, coordinator, _ := newTestAggregator(t)
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "50.00"})
		require.NoError(t, err)
		_, err = coordinator.Transfer(ctx, transfer.Request{FromUserID: "alice", ToUserID: "bob", Amount: "10.00"})
		require.NoError(t, err)

		pattern, err := aggregator.UserSpendingPattern(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "50.00", pattern.TotalAdded)
		assert.Equal(t, "0.00", pattern.TotalDeducted)
		assert.Equal(t, int64(2), pattern.TransactionCount)
		// the transfer leg counts as an entry but not into the spending average
		assert.Equal(t, "50.00", pattern.AveragePerTransaction)
	})

	t.Run("Average divides by spending entries only", func(t *testing.T) {
		aggregator, ledgerService, coordinator, _ := newTestAggregator(t)
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "10.00"})
		require.NoError(t, err)
		_, err = coordinator.Transfer(ctx, transfer.Request{FromUserID: "alice", ToUserID: "bob", Amount: "1.00"})
		require.NoError(t, err)
		_, err = coordinator.Transfer(ctx, transfer.Request{FromUserID: "alice", ToUserID: "carol", Amount: "1.00"})
		require.NoError(t, err)

		pattern, err := aggregator.UserSpendingPattern(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(3), pattern.TransactionCount)
		assert.Equal(t, "10.00", pattern.AveragePerTransaction)
	})

	t.Run("Empty user ID", func(t *testing.T) {
		aggregator, _, _, _ := newTestAggregator(t)

		_, err := aggregator.UserSpendingPattern(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestOverallAnalytics(t *testing.T) {
	t.Run("Empty system", func(t *testing.T) {
		aggregator, _, _, _ := newTestAggregator(t)

		overview, err := aggregator.OverallAnalytics(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(0), overview.TotalUsers)
		assert.Equal(t, "0.00", overview.TotalCreditsInCirculation)
		assert.Equal(t, int64(0), overview.TotalTransactions)
	})

	t.Run("Circulation sums all balances", func(t *testing.T) {
		aggregator, ledgerService, coordinator, _ := newTestAggregator(t)
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "50.00"})
		require.NoError(t, err)
		_, err = ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "bob", Amount: "25.00"})
		require.NoError(t, err)
		_, err = ledgerService.DeductCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "10.00"})
		require.NoError(t, err)

		overview, err := aggregator.OverallAnalytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), overview.TotalUsers)
		assert.Equal(t, "65.00", overview.TotalCreditsInCirculation)
		assert.Equal(t, int64(3), overview.TotalTransactions)

		// transfers move credits around but never change the circulation
		_, err = coordinator.Transfer(ctx, transfer.Request{FromUserID: "alice", ToUserID: "carol", Amount: "5.00"})
		require.NoError(t, err)

		overview, err = aggregator.OverallAnalytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), overview.TotalUsers)
		assert.Equal(t, "65.00", overview.TotalCreditsInCirculation)
		assert.Equal(t, int64(5), overview.TotalTransactions)
	})
}
