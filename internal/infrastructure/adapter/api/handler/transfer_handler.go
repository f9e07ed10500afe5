package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/transfer"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/dto"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

// TransferHandler handles peer-to-peer transfer requests
type TransferHandler struct {
	coordinator *transfer.Coordinator
	logger      coreport.Logger
}

// NewTransferHandler creates a new transfer handler instance
func NewTransferHandler(coordinator *transfer.Coordinator, logger coreport.Logger) *TransferHandler {
	return &TransferHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Transfer handles POST /transfers
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid transfer request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidRequest,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.coordinator.Transfer(c.Request.Context(), transfer.Request{
		FromUserID:  req.FromUserID,
		ToUserID:    req.ToUserID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	metrics.TransfersTotal.Inc()
	metrics.TransactionsTotal.WithLabelValues(string(result.Outgoing.Type)).Inc()
	metrics.TransactionsTotal.WithLabelValues(string(result.Incoming.Type)).Inc()
	c.JSON(http.StatusOK, dto.TransferResponse{
		FromUserID:   result.FromUserID,
		ToUserID:     result.ToUserID,
		Amount:       result.Outgoing.Amount(),
		FromBalance:  result.FromBalance,
		ToBalance:    result.ToBalance,
		ReferenceID:  result.Outgoing.ReferenceID,
		OutgoingTxID: result.Outgoing.ID,
		IncomingTxID: result.Incoming.ID,
	})
}
