package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
)

type CashHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
	ledgerRepo    repository.CashLedgerRepository
}

func NewCashHandler(reportService *services.ReportService, exportService *services.ExportService, ledgerRepo repository.CashLedgerRepository) *CashHandler {
	return &CashHandler{reportService: reportService, exportService: exportService, ledgerRepo: ledgerRepo}
}

// @Summary Studio Dashboard
// @Description Get the studio-wide financial summary: master cash, admin cash, projects by status, monthly flow
// @Tags Cash
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Router /cash/dashboard [get]
func (h *CashHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Export Dashboard
// @Description Download the studio financial summary as XLSX
// @Tags Cash
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /cash/dashboard/export [get]
func (h *CashHandler) ExportDashboard(c *gin.Context) {
	data, filename, err := h.exportService.DashboardXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary List Movements
// @Description Get a paginated, filterable list of cash movements across all ledgers
// @Tags Cash
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param project_id query int false "Filter by project"
// @Param currency query string false "Filter by currency"
// @Param movement_type query string false "Filter by movement type"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Router /cash/movements [get]
func (h *CashHandler) Movements(c *gin.Context) {
	query := &repository.MovementQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Currency = c.Query("currency")
	query.MovementType = c.Query("movement_type")
	if projectID, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil {
		query.ProjectID = uint(projectID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.AddDate(0, 0, 1)
			query.To = &end
		}
	}

	movements, total, err := h.ledgerRepo.ListMovements(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CashMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, movements[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"movements": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Master Cash
// @Description Get the master cash ledger state
// @Tags Cash
// @Produce json
// @Success 200 {object} models.MasterCash
// @Router /cash/master [get]
func (h *CashHandler) Master(c *gin.Context) {
	master, err := h.ledgerRepo.GetMasterCash(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, master)
}

// @Summary Admin Cash
// @Description Get the administrative cash ledger state
// @Tags Cash
// @Produce json
// @Success 200 {object} models.AdminCash
// @Router /cash/admin [get]
func (h *CashHandler) Admin(c *gin.Context) {
	admin, err := h.ledgerRepo.GetAdminCash(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, admin)
}
