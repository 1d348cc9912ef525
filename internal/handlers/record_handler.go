package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/services"
	"ledger/internal/summary"
)

// RecordHandler serves the CRUD routes of one record kind. The API mounts
// one instance under /incomes and another under /expenses.
type RecordHandler struct {
	recordService  services.RecordServicer
	summaryService services.SummaryServicer
	auditService   services.AuditServicer
	loc            *time.Location
}

// NewRecordHandler creates a RecordHandler for the kind served by recordService.
// Bare dates in requests are read in loc.
func NewRecordHandler(
	recordService services.RecordServicer,
	summaryService services.SummaryServicer,
	auditService services.AuditServicer,
	loc *time.Location,
) *RecordHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RecordHandler{
		recordService:  recordService,
		summaryService: summaryService,
		auditService:   auditService,
		loc:            loc,
	}
}

// RecordRequest is the payload for creating or replacing a record
type RecordRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"12.50"`
	Category    string           `json:"category" binding:"required,ledger_category"`
	Description string           `json:"description" binding:"required,max=200"`
	Date        *string          `json:"date"`
}

// ListRecordsQuery holds the filter and sort query parameters of a listing
type ListRecordsQuery struct {
	Category  string `form:"category"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	SortBy    string `form:"sortBy" binding:"omitempty,sort_field"`
	SortOrder string `form:"sortOrder" binding:"omitempty,sort_order"`
}

// RecordResponse wraps a single record
type RecordResponse struct {
	Record *models.Record `json:"record"`
}

func (h *RecordHandler) kind() summary.Kind { return h.recordService.Kind() }

func (h *RecordHandler) toInput(req RecordRequest) (services.RecordInput, error) {
	in := services.RecordInput{
		Amount:      *req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseFlexibleTime(*req.Date, h.loc)
		if err != nil {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		in.Date = &parsed
	}
	return in, nil
}

// bindFilterParams reads category, startDate and endDate from the query string.
func bindFilterParams(c *gin.Context) summary.FilterParams {
	return summary.FilterParams{
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
}

// List returns a page of records
// @Summary     List records
// @Description List the user's records of this kind with optional filters and sorting
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind      path  string true  "incomes or expenses"
// @Param       category  query string false "Category filter"
// @Param       startDate query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Param       sortBy    query string false "date, amount or category (default date)"
// @Param       sortOrder query string false "asc or desc (default desc)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Record] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{kind} [get]
func (h *RecordHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var q ListRecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recordService.ListRecords(c.Request.Context(), userID, services.RecordListQuery{
		Filter:    summary.FilterParams{Category: q.Category, StartDate: q.StartDate, EndDate: q.EndDate},
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      page,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create adds a record
// @Summary     Create a record
// @Description Create an income or expense record
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string        true "incomes or expenses"
// @Param       request body RecordRequest true "Record details"
// @Success     201 {object} RecordResponse "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{kind} [post]
func (h *RecordHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := h.toInput(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.CreateRecord(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateRecord, h.kind().String(), record.ID, c.ClientIP(),
		map[string]any{"amount": record.Amount.StringFixed(2), "category": record.Category})

	c.JSON(http.StatusCreated, RecordResponse{Record: record})
}

// Get returns a single record
// @Summary     Get a record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "incomes or expenses"
// @Param       id   path string true "Record ID"
// @Success     200 {object} RecordResponse "Record"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /{kind}/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecord(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecordResponse{Record: record})
}

// Update replaces a record's fields
// @Summary     Update a record
// @Description Replace amount, category and description; the date is kept when omitted
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string        true "incomes or expenses"
// @Param       id      path string        true "Record ID"
// @Param       request body RecordRequest true "Record details"
// @Success     200 {object} RecordResponse "Record updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{kind}/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := h.toInput(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.UpdateRecord(c.Request.Context(), userID, id, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateRecord, h.kind().String(), record.ID, c.ClientIP(),
		map[string]any{"amount": record.Amount.StringFixed(2), "category": record.Category})

	c.JSON(http.StatusOK, RecordResponse{Record: record})
}

// Delete removes a record
// @Summary     Delete a record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "incomes or expenses"
// @Param       id   path string true "Record ID"
// @Success     200 {object} map[string]string "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /{kind}/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteRecord, h.kind().String(), id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// Summary returns the kind's summary and its most recent records
// @Summary     Per-kind summary
// @Description Totals and category buckets follow the filter; month totals, trends and recent records cover all records
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       kind      path  string true  "incomes or expenses"
// @Param       category  query string false "Category filter"
// @Param       startDate query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.KindSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{kind}/summary [get]
func (h *RecordHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.summaryService.ComputeKindSummary(c.Request.Context(), userID, h.kind(), bindFilterParams(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
