// Package transfer implements atomic two-account credit transfers on top of
// the balance store and the transaction log.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
)

// DefaultMaxAttempts bounds the retries on transient storage conflicts
const DefaultMaxAttempts = 3

// Coordinator orchestrates transfers: both balance changes and both log
// entries (TRANSFER_OUT, TRANSFER_IN) commit together or not at all.
type Coordinator struct {
	uow          persistence.UnitOfWork
	rules        *rules.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	maxAttempts  int
}

// NewCoordinator creates a transfer coordinator
func NewCoordinator(
	uow persistence.UnitOfWork,
	engine *rules.Engine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Coordinator {
	return &Coordinator{
		uow:          uow,
		rules:        engine,
		timeProvider: timeProvider,
		logger:       logger,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// Request describes a peer-to-peer transfer
type Request struct {
	FromUserID  string
	ToUserID    string
	Amount      string // Decimal string, strictly positive
	Description string
}

// Result carries both post-transfer balances and the paired log entries
type Result struct {
	FromUserID  string
	ToUserID    string
	FromBalance string
	ToBalance   string
	Outgoing    *entity.Transaction
	Incoming    *entity.Transaction
}

// Transfer moves credits between two accounts. The sender must exist; the
// receiver's account is created implicitly, consistent with first-credit
// behavior. Both resulting balances are validated before any mutation.
func (c *Coordinator) Transfer(ctx context.Context, req Request) (*Result, error) {
	if req.FromUserID == "" || req.ToUserID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if req.FromUserID == req.ToUserID {
		return nil, errs.ErrSelfTransfer
	}

	amountInCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := c.rules.ValidateTransactionAmount(amountInCents); err != nil {
		return nil, err
	}

	var result *Result
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err = c.transferOnce(ctx, req, amountInCents)
		if err == nil {
			break
		}
		if !errs.IsStorageConflictError(err) {
			return nil, errs.NewTransferError(req.FromUserID, req.ToUserID, entity.CentsToString(amountInCents), err)
		}
		c.logger.Warn("Storage conflict during transfer, retrying", map[string]any{
			"from_user_id": req.FromUserID,
			"to_user_id":   req.ToUserID,
			"attempt":      attempt,
			"max_attempts": c.maxAttempts,
			"error":        err.Error(),
		})
	}
	if err != nil {
		return nil, errs.NewTransferError(req.FromUserID, req.ToUserID, entity.CentsToString(amountInCents),
			fmt.Errorf("%w: %s", errs.ErrStorageFailure, err.Error()))
	}

	c.logger.Info("Transfer committed", map[string]any{
		"from_user_id": req.FromUserID,
		"to_user_id":   req.ToUserID,
		"amount":       entity.CentsToString(amountInCents),
		"from_balance": result.FromBalance,
		"to_balance":   result.ToBalance,
	})
	return result, nil
}

// transferOnce runs one attempt of the two-account atomic unit
func (c *Coordinator) transferOnce(ctx context.Context, req Request, amountInCents int64) (*Result, error) {
	uctx, err := c.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.uow.Rollback(uctx) }()

	balanceRepo := c.uow.BalanceRepository(uctx)

	sender, receiver, err := c.lockBothAccounts(uctx, balanceRepo, req.FromUserID, req.ToUserID)
	if err != nil {
		return nil, err
	}

	// Validate both resulting balances before touching either account
	senderCandidate := sender.AmountInCents() - amountInCents
	if senderCandidate < c.rules.Rules().MinimumBalance {
		return nil, errs.NewInsufficientFundsError(req.FromUserID, entity.CentsToString(amountInCents), sender.Formatted())
	}
	if err := c.rules.ValidateResultingBalance(req.FromUserID, senderCandidate); err != nil {
		return nil, err
	}
	if err := c.rules.ValidateResultingBalance(req.ToUserID, receiver.AmountInCents()+amountInCents); err != nil {
		return nil, err
	}

	sender.Apply(-amountInCents, c.timeProvider)
	receiver.Apply(amountInCents, c.timeProvider)
	if err := balanceRepo.Update(uctx, sender); err != nil {
		return nil, err
	}
	if err := balanceRepo.Update(uctx, receiver); err != nil {
		return nil, err
	}

	// The pair shares a reference id so either side resolves to its counterpart
	pairID := uuid.NewString()

	outgoing, err := c.newTransferLeg(req.FromUserID, entity.TypeTransferOut, amountInCents, req.Description, pairID, sender.Formatted())
	if err != nil {
		return nil, err
	}
	incoming, err := c.newTransferLeg(req.ToUserID, entity.TypeTransferIn, amountInCents, req.Description, pairID, receiver.Formatted())
	if err != nil {
		return nil, err
	}

	transactionRepo := c.uow.TransactionRepository(uctx)
	if err := transactionRepo.Create(uctx, outgoing); err != nil {
		return nil, err
	}
	if err := transactionRepo.Create(uctx, incoming); err != nil {
		return nil, err
	}

	if err := c.uow.Commit(uctx); err != nil {
		return nil, err
	}

	return &Result{
		FromUserID:  req.FromUserID,
		ToUserID:    req.ToUserID,
		FromBalance: sender.Formatted(),
		ToBalance:   receiver.Formatted(),
		Outgoing:    outgoing,
		Incoming:    incoming,
	}, nil
}

// lockBothAccounts acquires both row locks in lexicographic userID order so
// opposite-direction transfers between the same pair can never deadlock.
// The sender must already exist; the receiver is initialized when missing.
func (c *Coordinator) lockBothAccounts(
	ctx context.Context,
	balanceRepo persistence.BalanceRepository,
	fromUserID, toUserID string,
) (sender, receiver *entity.Balance, err error) {
	lock := func(userID string) (*entity.Balance, error) {
		if userID == fromUserID {
			balance, err := balanceRepo.LockForUpdate(ctx, userID)
			if err != nil && errors.Is(err, errs.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: sender %s", errs.ErrAccountNotFound, userID)
			}
			return balance, err
		}
		return balanceRepo.LockOrInitForUpdate(ctx, userID)
	}

	first, second := fromUserID, toUserID
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}

	firstBalance, err := lock(first)
	if err != nil {
		return nil, nil, err
	}
	secondBalance, err := lock(second)
	if err != nil {
		return nil, nil, err
	}

	if first == fromUserID {
		return firstBalance, secondBalance, nil
	}
	return secondBalance, firstBalance, nil
}

// newTransferLeg builds one side of the transfer pair
func (c *Coordinator) newTransferLeg(
	userID string,
	txType entity.TransactionType,
	amountInCents int64,
	description, pairID, resultBalance string,
) (*entity.Transaction, error) {
	leg, err := entity.NewTransaction(userID, txType, amountInCents, description, c.timeProvider)
	if err != nil {
		return nil, err
	}
	leg.ID = uuid.NewString()
	leg.ReferenceID = pairID
	leg.ResultBalance = resultBalance
	return leg, nil
}
