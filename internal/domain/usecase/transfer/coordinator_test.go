package transfer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/clock"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/logger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository/memory"
)

func testRules() rules.CreditRules {
	return rules.CreditRules{
		MinimumBalance:           0,
		MaximumBalance:           10000000,
		MinimumTransaction:       1,
		MaximumTransaction:       1000000,
		LowBalanceThreshold:      1000,
		CriticalBalanceThreshold: 200,
	}
}

// newTestCoordinator wires a coordinator and a ledger service on one shared store
func newTestCoordinator(t *testing.T, creditRules rules.CreditRules) (*Coordinator, *ledger.Service) {
	t.Helper()

	engine, err := rules.NewEngine(creditRules)
	require.NoError(t, err)

	fixedClock := clock.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(fixedClock)
	uow := memory.NewUnitOfWork(store, memory.NewBalanceRepository(store), memory.NewTransactionRepository(store))
	noop := logger.NewNoopLogger()

	coordinator := NewCoordinator(uow, engine, fixedClock, noop)
	ledgerService := ledger.NewService(uow, engine, fixedClock, noop)
	return coordinator, ledgerService
}

func TestTransfer(t *testing.T) {
	t.Run("Successful transfer moves credits and logs both legs", func(t *testing.T) {
		coordinator, ledgerService := newTestCoordinator(t, testRules())
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "100.00"})
		require.NoError(t, err)

		result, err := coordinator.Transfer(ctx, Request{
			FromUserID:  "alice",
			ToUserID:    "bob",
			Amount:      "30.00",
			Description: "shared project",
		})

		require.NoError(t, err)
		assert.Equal(t, "70.00", result.FromBalance)
		assert.Equal(t, "30.00", result.ToBalance)

		assert.Equal(t, entity.TypeTransferOut, result.Outgoing.Type)
		assert.Equal(t, entity.TypeTransferIn, result.Incoming.Type)
		assert.Equal(t, "30.00", result.Outgoing.Amount())
		assert.Equal(t, "30.00", result.Incoming.Amount())
		assert.Equal(t, "70.00", result.Outgoing.ResultBalance)
		assert.Equal(t, "30.00", result.Incoming.ResultBalance)

		// both legs share one reference id so either resolves its counterpart
		assert.NotEmpty(t, result.Outgoing.ReferenceID)
		assert.Equal(t, result.Outgoing.ReferenceID, result.Incoming.ReferenceID)
		assert.NotEqual(t, result.Outgoing.ID, result.Incoming.ID)

		// the receiver's account was created implicitly
		bobBalance, err := ledgerService.GetBalance(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "30.00", bobBalance.Balance)
	})

	t.Run("Insufficient funds rejects without any mutation", func(t *testing.T) {
		coordinator, ledgerService := newTestCoordinator(t, testRules())
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "10.00"})
		require.NoError(t, err)

		_, err = coordinator.Transfer(ctx, Request{FromUserID: "alice", ToUserID: "bob", Amount: "10.01"})
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

		var transferErr *errs.TransferError
		require.ErrorAs(t, err, &transferErr)
		assert.Equal(t, "alice", transferErr.FromUserID)
		assert.Equal(t, "bob", transferErr.ToUserID)

		// sender untouched, receiver never created, no legs logged
		aliceBalance, err := ledgerService.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "10.00", aliceBalance.Balance)

		_, err = ledgerService.UnitOfWork().BalanceRepository(ctx).Get(ctx, "bob")
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)

		history, err := ledgerService.History(ctx, "alice", persistence.TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("Receiver overflow rejects without any mutation", func(t *testing.T) {
		creditRules := testRules()
		creditRules.MaximumBalance = 5000 // 50.00
		coordinator, ledgerService := newTestCoordinator(t, creditRules)
		ctx := context.Background()

		_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "30.00"})
		require.NoError(t, err)
		_, err = ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "bob", Amount: "40.00"})
		require.NoError(t, err)

		_, err = coordinator.Transfer(ctx, Request{FromUserID: "alice", ToUserID: "bob", Amount: "20.00"})
		assert.ErrorIs(t, err, errs.ErrBalanceOutOfRange)

		aliceBalance, err := ledgerService.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "30.00", aliceBalance.Balance)
		bobBalance, err := ledgerService.GetBalance(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "40.00", bobBalance.Balance)
	})

	t.Run("Self transfer is rejected", func(t *testing.T) {
		coordinator, _ := newTestCoordinator(t, testRules())

		_, err := coordinator.Transfer(context.Background(), Request{
			FromUserID: "alice",
			ToUserID:   "alice",
			Amount:     "1.00",
		})
		assert.ErrorIs(t, err, errs.ErrSelfTransfer)
	})

	t.Run("Unknown sender is rejected", func(t *testing.T) {
		coordinator, _ := newTestCoordinator(t, testRules())

		_, err := coordinator.Transfer(context.Background(), Request{
			FromUserID: "ghost",
			ToUserID:   "bob",
			Amount:     "1.00",
		})
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("Invalid amounts are rejected", func(t *testing.T) {
		coordinator, _ := newTestCoordinator(t, testRules())
		ctx := context.Background()

		for _, amount := range []string{"0.00", "-1.00", "1.005", ""} {
			_, err := coordinator.Transfer(ctx, Request{FromUserID: "alice", ToUserID: "bob", Amount: amount})
			assert.ErrorIs(t, err, errs.ErrInvalidAmount, amount)
		}
	})

	t.Run("Empty user IDs are rejected", func(t *testing.T) {
		coordinator, _ := newTestCoordinator(t, testRules())

		_, err := coordinator.Transfer(context.Background(), Request{ToUserID: "bob", Amount: "1.00"})
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	coordinator, ledgerService := newTestCoordinator(t, testRules())
	ctx := context.Background()

	_, err := ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "alice", Amount: "500.00"})
	require.NoError(t, err)
	_, err = ledgerService.AddCredits(ctx, ledger.MutationRequest{UserID: "bob", Amount: "500.00"})
	require.NoError(t, err)

	// opposite directions between the same pair; ordered locking means these
	// must all complete rather than deadlock
	const rounds = 25
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := coordinator.Transfer(ctx, Request{FromUserID: "alice", ToUserID: "bob", Amount: "1.00"})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := coordinator.Transfer(ctx, Request{FromUserID: "bob", ToUserID: "alice", Amount: "1.00"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// equal volume in both directions leaves both balances where they started
	aliceBalance, err := ledgerService.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "500.00", aliceBalance.Balance)
	bobBalance, err := ledgerService.GetBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "500.00", bobBalance.Balance)
}
