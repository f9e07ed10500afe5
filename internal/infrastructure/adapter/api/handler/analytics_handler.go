package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/analytics"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/dto"
)

// AnalyticsHandler handles read-only reporting endpoints
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	logger     coreport.Logger
}

// NewAnalyticsHandler creates a new analytics handler instance
func NewAnalyticsHandler(aggregator *analytics.Aggregator, logger coreport.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// SpendingPattern handles GET /users/:userId/analytics/spending
func (h *AnalyticsHandler) SpendingPattern(c *gin.Context) {
	userID := c.Param("userId")

	pattern, err := h.aggregator.UserSpendingPattern(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SpendingPatternResponse{
		UserID:                pattern.UserID,
		TotalAdded:            pattern.TotalAdded,
		TotalDeducted:         pattern.TotalDeducted,
		TransactionCount:      pattern.TransactionCount,
		AveragePerTransaction: pattern.AveragePerTransaction,
		MostRecentActivity:    pattern.MostRecentActivity,
	})
}

// Overview handles GET /analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.aggregator.OverallAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.OverviewResponse{
		TotalUsers:                overview.TotalUsers,
		TotalCreditsInCirculation: overview.TotalCreditsInCirculation,
		TotalTransactions:         overview.TotalTransactions,
	})
}
