package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/services"
	"ledger/internal/summary"
)

// SummaryHandler serves the combined views across both record kinds.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// FeedResponse wraps the merged activity feed
type FeedResponse struct {
	Transactions []summary.FeedEntry `json:"transactions"`
}

// GetSummary returns the combined income and expense summary
// @Summary     Combined summary
// @Description Income and expense summaries, the balance between them and the number of matching records
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       category  query string false "Category filter (either kind)"
// @Param       startDate query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} summary.CombinedSummary "Combined summary"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.summaryService.ComputeSummary(c.Request.Context(), userID, bindFilterParams(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFeed returns recent income and expense records, newest first
// @Summary     Activity feed
// @Description Merges filter-scoped expenses with the most recent incomes
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       category  query string false "Expense category filter"
// @Param       startDate query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Param       max       query int    false "Maximum entries (default 10)"
// @Success     200 {object} FeedResponse "Feed"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /feed [get]
func (h *SummaryHandler) GetFeed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if v := c.Query("max"); v != "" {
		n, parseErr := strconv.Atoi(v)
		if parseErr != nil || n < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "max must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := h.summaryService.ComputeFeed(c.Request.Context(), userID, bindFilterParams(c), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Transactions: entries})
}
