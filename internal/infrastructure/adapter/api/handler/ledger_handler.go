package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/dto"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

// LedgerHandler handles balance reads and single-account mutations
type LedgerHandler struct {
	ledgerService *ledger.Service
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerService *ledger.Service, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// GetBalance handles GET /users/:userId/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID := c.Param("userId")

	result, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:     result.UserID,
		Balance:    result.Balance,
		AlertLevel: string(result.AlertLevel),
	})
}

// GetHistory handles GET /users/:userId/transactions
func (h *LedgerHandler) GetHistory(c *gin.Context) {
	userID := c.Param("userId")

	filter, err := historyFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	transactions, err := h.ledgerService.History(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entries := make([]dto.TransactionEntry, 0, len(transactions))
	for _, transaction := range transactions {
		entries = append(entries, dto.TransactionEntry{
			ID:            transaction.ID,
			Type:          string(transaction.Type),
			Amount:        transaction.Amount(),
			Description:   transaction.Description,
			ReferenceID:   transaction.ReferenceID,
			PackageID:     transaction.PackageID,
			ResultBalance: transaction.ResultBalance,
			CreatedAt:     transaction.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		UserID:       userID,
		Transactions: entries,
	})
}

// AddCredits handles POST /users/:userId/credits/purchase
func (h *LedgerHandler) AddCredits(c *gin.Context) {
	h.mutate(c, entity.TypePurchase)
}

// DeductCredits handles POST /users/:userId/credits/usage
func (h *LedgerHandler) DeductCredits(c *gin.Context) {
	h.mutate(c, entity.TypeUsage)
}

// mutate runs the shared request handling for credits and debits
func (h *LedgerHandler) mutate(c *gin.Context, txType entity.TransactionType) {
	userID := c.Param("userId")

	var req dto.MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid mutation request format", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidRequest,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	mutationReq := ledger.MutationRequest{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		PackageID:   req.PackageID,
	}

	var result *ledger.MutationResult
	var err error
	if txType == entity.TypePurchase {
		result, err = h.ledgerService.AddCredits(c.Request.Context(), mutationReq)
	} else {
		result, err = h.ledgerService.DeductCredits(c.Request.Context(), mutationReq)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	metrics.TransactionsTotal.WithLabelValues(string(txType)).Inc()
	c.JSON(http.StatusOK, dto.MutationResponse{
		UserID:        result.UserID,
		TransactionID: result.Transaction.ID,
		Type:          string(result.Transaction.Type),
		Amount:        result.Transaction.Amount(),
		Balance:       result.Balance,
		AlertLevel:    string(result.AlertLevel),
	})
}

// historyFilter parses the optional history query parameters
func historyFilter(c *gin.Context) (persistence.TransactionFilter, error) {
	var filter persistence.TransactionFilter

	if raw := c.Query("type"); raw != "" {
		txType := entity.TransactionType(raw)
		if !entity.IsValidType(raw) {
			return filter, errs.ErrInvalidRequest
		}
		filter.Type = &txType
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errs.ErrInvalidRequest
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errs.ErrInvalidRequest
		}
		filter.Offset = offset
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errs.ErrInvalidRequest
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errs.ErrInvalidRequest
		}
		filter.To = &to
	}
	return filter, nil
}
