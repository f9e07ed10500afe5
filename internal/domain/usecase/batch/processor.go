// Package batch applies administrative bulk credit grants. Unlike transfers,
// the items of a batch are independent administrative acts: each one is its
// own atomic unit, and one item's rejection never rolls back the others.
package batch

import (
	"context"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
)

// Processor applies batches of credit grants through the ledger service
type Processor struct {
	ledger *ledger.Service
	logger coreport.Logger
}

// NewProcessor creates a batch processor
func NewProcessor(ledgerService *ledger.Service, logger coreport.Logger) *Processor {
	return &Processor{
		ledger: ledgerService,
		logger: logger,
	}
}

// Operation is one independent credit grant inside a batch
type Operation struct {
	UserID      string
	Amount      string
	Description string
	ReferenceID string
	PackageID   string
}

// OperationResult reports the outcome of one batch item. Failed items carry
// the typed rejection; successful items carry the new balance.
type OperationResult struct {
	Operation  Operation
	Success    bool
	NewBalance string
	Err        error
	ErrorCode  int
}

// Apply validates and applies every operation independently and returns one
// result per item in input order, so partial success is explicit and auditable.
func (p *Processor) Apply(ctx context.Context, operations []Operation) []OperationResult {
	results := make([]OperationResult, 0, len(operations))

	for _, op := range operations {
		mutation, err := p.ledger.Adjust(ctx, ledger.MutationRequest{
			UserID:      op.UserID,
			Amount:      op.Amount,
			Description: op.Description,
			ReferenceID: op.ReferenceID,
			PackageID:   op.PackageID,
		})
		if err != nil {
			p.logger.Warn("Batch grant item rejected", map[string]any{
				"user_id":    op.UserID,
				"amount":     op.Amount,
				"error":      err.Error(),
				"error_code": errs.ErrorCode(err),
			})
			results = append(results, OperationResult{
				Operation: op,
				Success:   false,
				Err:       err,
				ErrorCode: errs.ErrorCode(err),
			})
			continue
		}

		results = append(results, OperationResult{
			Operation:  op,
			Success:    true,
			NewBalance: mutation.Balance,
		})
	}

	p.logger.Info("Batch grant applied", map[string]any{
		"total":     len(operations),
		"succeeded": countSuccesses(results),
	})
	return results
}

func countSuccesses(results []OperationResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
