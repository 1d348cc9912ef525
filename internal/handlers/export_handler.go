package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams records as a spreadsheet.
type ExportHandler struct {
	exportService services.ExportServicer
	auditService  services.AuditServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer, auditService services.AuditServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService, auditService: auditService}
}

// Export writes the filter-scoped records of the requested scope as xlsx
// @Summary     Export records
// @Description Download records as an xlsx workbook with one sheet per kind
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       scope     path  string true  "incomes, expenses or all"
// @Param       category  query string false "Category filter"
// @Param       startDate query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Success     200 {file} file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid scope or filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /export/{scope} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scope := services.ExportScope(c.Param("scope"))

	// Buffer so a failed export can still answer with a JSON error.
	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), userID, scope, bindFilterParams(c), &buf); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditExport, "export", string(scope), c.ClientIP(),
		map[string]any{"bytes": buf.Len()})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.xlsx"`, scope))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
