package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/batch"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/dto"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

// BatchHandler handles administrative bulk credit grants
type BatchHandler struct {
	processor *batch.Processor
	logger    coreport.Logger
}

// NewBatchHandler creates a new batch handler instance
func NewBatchHandler(processor *batch.Processor, logger coreport.Logger) *BatchHandler {
	return &BatchHandler{
		processor: processor,
		logger:    logger,
	}
}

// Grant handles POST /admin/batch-grants
func (h *BatchHandler) Grant(c *gin.Context) {
	var req dto.BatchGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch grant request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.CodeInvalidRequest,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	operations := make([]batch.Operation, 0, len(req.Operations))
	for _, op := range req.Operations {
		operations = append(operations, batch.Operation{
			UserID:      op.UserID,
			Amount:      op.Amount,
			Description: op.Description,
			ReferenceID: op.ReferenceID,
			PackageID:   op.PackageID,
		})
	}

	results := h.processor.Apply(c.Request.Context(), operations)

	response := dto.BatchGrantResponse{
		Total:   len(results),
		Results: make([]dto.BatchItemResult, 0, len(results)),
	}
	for _, result := range results {
		item := dto.BatchItemResult{
			UserID:  result.Operation.UserID,
			Success: result.Success,
		}
		if result.Success {
			response.Succeeded++
			item.NewBalance = result.NewBalance
			metrics.BatchOperationsTotal.WithLabelValues("success").Inc()
			metrics.TransactionsTotal.WithLabelValues(string(entity.TypeAdjustment)).Inc()
		} else {
			item.ErrorCode = result.ErrorCode
			item.Error = result.Err.Error()
			metrics.BatchOperationsTotal.WithLabelValues("rejected").Inc()
		}
		response.Results = append(response.Results, item)
	}

	// Partial success is a successful batch call; per-item outcomes carry the detail
	c.JSON(http.StatusOK, response)
}
