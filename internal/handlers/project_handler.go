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
	"github.com/obra-studio/obra-api/internal/storage"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	exportService  *services.ExportService
	storage        *storage.LocalStorage
}

func NewProjectHandler(projectService *services.ProjectService, exportService *services.ExportService, storage *storage.LocalStorage) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, exportService: exportService, storage: storage}
}

// CreateProjectRequest is the JSON body for project creation
type CreateProjectRequest struct {
	ClientID              uint    `json:"client_id" binding:"required"`
	Name                  string  `json:"name" binding:"required"`
	TotalAmount           float64 `json:"total_amount" binding:"required"`
	Currency              string  `json:"currency"`
	DownPaymentAmount     float64 `json:"down_payment_amount"`
	DownPaymentPercentage float64 `json:"down_payment_percentage"`
	InstallmentsCount     int     `json:"installments_count"`
	PaymentFrequency      string  `json:"payment_frequency"`
	FirstPaymentDate      string  `json:"first_payment_date"` // YYYY-MM-DD
	LateFeePercentage     float64 `json:"late_fee_percentage"`
	AdminFeeType          string  `json:"admin_fee_type"`
	AdminFeePercentage    float64 `json:"admin_fee_percentage"`
	AdminFeeFixedAmount   float64 `json:"admin_fee_fixed_amount"`
	ConfirmDownPayment    bool    `json:"confirm_down_payment"`
	PaymentMethod         *string `json:"payment_method"`
	ReferenceNumber       *string `json:"reference_number"`
}

// @Summary Create Project
// @Description Create a project with its cash box, installment schedule and optional confirmed down payment
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := BindNestedOrFlat(c, "project", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}
	if req.ClientID == 0 || req.Name == "" || req.TotalAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id, name y total_amount son obligatorios"})
		return
	}
	if req.Currency == "" {
		req.Currency = models.CurrencyARS
	}

	input := services.CreateProjectInput{
		ClientID:              req.ClientID,
		Name:                  req.Name,
		TotalAmount:           req.TotalAmount,
		Currency:              req.Currency,
		DownPaymentAmount:     req.DownPaymentAmount,
		DownPaymentPercentage: req.DownPaymentPercentage,
		InstallmentsCount:     req.InstallmentsCount,
		PaymentFrequency:      req.PaymentFrequency,
		LateFeePercentage:     req.LateFeePercentage,
		AdminFeeType:          req.AdminFeeType,
		AdminFeePercentage:    req.AdminFeePercentage,
		AdminFeeFixedAmount:   req.AdminFeeFixedAmount,
		ConfirmDownPayment:    req.ConfirmDownPayment,
		PaymentMethod:         req.PaymentMethod,
		ReferenceNumber:       req.ReferenceNumber,
		Actor:                 actorFrom(c),
	}
	if req.FirstPaymentDate != "" {
		date, err := time.Parse("2006-01-02", req.FirstPaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "first_payment_date debe tener formato YYYY-MM-DD"})
			return
		}
		input.FirstPaymentDate = date
	}

	result, err := h.projectService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	installments := make([]models.InstallmentResponse, 0, len(result.Installments))
	for i := range result.Installments {
		installments = append(installments, result.Installments[i].ToResponse())
	}

	c.JSON(http.StatusCreated, gin.H{
		"project":      result.Project.ToResponse(),
		"cash_box":     result.CashBox,
		"installments": installments,
		"warnings":     result.Warnings,
	})
}

// @Summary List Projects
// @Description Get a paginated list of projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := &repository.ProjectQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.Currency = c.Query("currency")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if clientID, err := strconv.ParseUint(c.Query("client_id"), 10, 32); err == nil {
		query.ClientID = uint(clientID)
	}

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, projects[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Project
// @Description Get a project by ID with its cash box
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := project.ToResponse()
	if box, err := h.projectService.CashBox(c.Request.Context(), project.ID); err == nil {
		resp.BalanceARS = box.CurrentBalanceARS
		resp.BalanceUSD = box.CurrentBalanceUSD
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// @Summary Get Project Installments
// @Description Get the installment schedule of a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/installments [get]
func (h *ProjectHandler) Installments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	installments, err := h.projectService.Installments(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.InstallmentResponse, 0, len(installments))
	for i := range installments {
		responses = append(responses, installments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"installments": responses})
}

// @Summary Get Project Movements
// @Description Get the cash movement history of a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/movements [get]
func (h *ProjectHandler) Movements(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	movements, err := h.projectService.Movements(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CashMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, movements[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"movements": responses})
}

// ConfirmPaymentRequest is the JSON body for payment confirmation
type ConfirmPaymentRequest struct {
	Amount          float64 `json:"amount"`
	PaymentMethod   *string `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	BankAccount     *string `json:"bank_account"`
}

// @Summary Confirm Down Payment
// @Description Record the project's down payment as received
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param payment body ConfirmPaymentRequest false "Payment details"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/{id}/down_payment/confirm [post]
func (h *ProjectHandler) ConfirmDownPayment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req ConfirmPaymentRequest
	BindNestedOrFlat(c, "payment", &req)

	err := h.projectService.ConfirmDownPayment(c.Request.Context(), uint(id), services.PaymentConfirmation{
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		BankAccount:     req.BankAccount,
		Actor:           actorFrom(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Anticipo confirmado"})
}

// @Summary Confirm Installment
// @Description Record a numbered installment as received
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param number path int true "Installment number"
// @Param payment body ConfirmPaymentRequest false "Payment details"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /projects/{id}/installments/{number}/confirm [post]
func (h *ProjectHandler) ConfirmInstallment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Número de cuota inválido"})
		return
	}

	var req ConfirmPaymentRequest
	BindNestedOrFlat(c, "payment", &req)

	err = h.projectService.ConfirmInstallment(c.Request.Context(), uint(id), number, services.PaymentConfirmation{
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		BankAccount:     req.BankAccount,
		Actor:           actorFrom(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Cuota %d confirmada", number)})
}

// @Summary Get Project Progress
// @Description Get collection progress computed from the installments
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} services.ProjectProgress
// @Router /projects/{id}/progress [get]
func (h *ProjectHandler) Progress(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	progress, err := h.projectService.CalculateProgress(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// UpdateStatusRequest carries the FSM event name
type UpdateStatusRequest struct {
	Event string `json:"event" binding:"required"` // activate, hold, complete, cancel
}

// @Summary Update Project Status
// @Description Transition the project through its state machine
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param status body UpdateStatusRequest true "Transition event"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Router /projects/{id}/status [patch]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event es obligatorio"})
		return
	}

	project, err := h.projectService.UpdateStatus(c.Request.Context(), uint(id), req.Event, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project.ToResponse()})
}

// @Summary Delete Project
// @Description Soft-delete a project; its ledger history remains
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	if err := h.projectService.Delete(c.Request.Context(), uint(id), actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proyecto eliminado"})
}

// @Summary Export Project Movements
// @Description Download the project's movement history as XLSX
// @Tags Projects
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Project ID"
// @Success 200 {file} binary
// @Router /projects/{id}/movements/export [get]
func (h *ProjectHandler) ExportMovements(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, filename, err := h.exportService.ProjectMovementsXLSX(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Upload Project Document
// @Description Attach a document (receipt, contract scan) to a project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param file formData file true "Document"
// @Success 201 {object} map[string]string
// @Router /projects/{id}/documents [post]
func (h *ProjectHandler) UploadDocument(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	if _, err := h.projectService.FindByID(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	relPath, err := h.storage.Upload(uint(id), fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	url := h.storage.SignedURL(relPath, 24*time.Hour)
	c.JSON(http.StatusCreated, gin.H{"path": relPath, "url": url})
}

// actorFrom extracts the acting user from the request headers. There is no
// session layer; callers identify themselves with X-Actor.
func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor"); actor != "" {
		return actor
	}
	return "system"
}
