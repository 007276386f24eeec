package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/services"
)

type ContractorHandler struct {
	contractorService *services.ContractorService
}

func NewContractorHandler(contractorService *services.ContractorService) *ContractorHandler {
	return &ContractorHandler{contractorService: contractorService}
}

// BudgetItemRequest is one budget line in the request body
type BudgetItemRequest struct {
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// RegisterContractorRequest is the JSON body for contractor registration
type RegisterContractorRequest struct {
	Name        string              `json:"name" binding:"required"`
	Trade       string              `json:"trade"`
	ContactInfo *string             `json:"contact_info"`
	BudgetItems []BudgetItemRequest `json:"budget_items"`
}

// @Summary Register Contractor
// @Description Register a contractor with its budget on a project
// @Tags Contractors
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param contractor body RegisterContractorRequest true "Contractor data"
// @Success 201 {object} map[string]interface{}
// @Router /projects/{id}/contractors [post]
func (h *ContractorHandler) Create(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req RegisterContractorRequest
	if err := BindNestedOrFlat(c, "contractor", &req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name es obligatorio"})
		return
	}

	items := make([]services.BudgetItemInput, 0, len(req.BudgetItems))
	for _, item := range req.BudgetItems {
		items = append(items, services.BudgetItemInput{
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	contractor, err := h.contractorService.Register(c.Request.Context(), services.RegisterContractorInput{
		ProjectID:   uint(projectID),
		Name:        req.Name,
		Trade:       req.Trade,
		ContactInfo: req.ContactInfo,
		BudgetItems: items,
		Actor:       actorFrom(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contractor": contractor})
}

// @Summary List Project Contractors
// @Description Get the contractors of a project with budgets and payments
// @Tags Contractors
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/{id}/contractors [get]
func (h *ContractorHandler) Index(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contractors, err := h.contractorService.FindByProject(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractors": contractors})
}

// @Summary Get Contractor
// @Description Get a contractor with budget and payments
// @Tags Contractors
// @Produce json
// @Param id path int true "Contractor ID"
// @Success 200 {object} map[string]interface{}
// @Router /contractors/{id} [get]
func (h *ContractorHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contractor, err := h.contractorService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// @Summary Get Contractor Progress
// @Description Get how much of the contractor's budget has been paid
// @Tags Contractors
// @Produce json
// @Param id path int true "Contractor ID"
// @Success 200 {object} services.ContractorProgress
// @Router /contractors/{id}/progress [get]
func (h *ContractorHandler) Progress(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	progress, err := h.contractorService.Progress(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// SchedulePaymentRequest is the JSON body for scheduling a contractor payment
type SchedulePaymentRequest struct {
	BudgetItemID *uint   `json:"budget_item_id"`
	Amount       float64 `json:"amount" binding:"required"`
	Currency     string  `json:"currency"`
	PaymentType  string  `json:"payment_type"`
	Description  *string `json:"description"`
	DueDate      string  `json:"due_date"` // YYYY-MM-DD
	PayNow       bool    `json:"pay_now"`

	// Used when pay_now is true
	PaidBy          *string `json:"paid_by"`
	PaymentMethod   *string `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	ReceiptFileURL  *string `json:"receipt_file_url"`
}

// @Summary Schedule Contractor Payment
// @Description Create a contractor payment; with pay_now it is confirmed immediately against the project cash box
// @Tags Contractors
// @Accept json
// @Produce json
// @Param id path int true "Contractor ID"
// @Param payment body SchedulePaymentRequest true "Payment data"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /contractors/{id}/payments [post]
func (h *ContractorHandler) CreatePayment(c *gin.Context) {
	contractorID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req SchedulePaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount debe ser mayor a cero"})
		return
	}

	schedule := services.SchedulePaymentInput{
		ContractorID: uint(contractorID),
		BudgetItemID: req.BudgetItemID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PaymentType:  req.PaymentType,
		Description:  req.Description,
		DueDate:      time.Now(),
		Actor:        actorFrom(c),
	}
	if req.DueDate != "" {
		date, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date debe tener formato YYYY-MM-DD"})
			return
		}
		schedule.DueDate = date
	}

	var payment *models.ContractorPayment
	var err error
	if req.PayNow {
		payment, err = h.contractorService.RegisterAndPay(c.Request.Context(), schedule, services.PayInput{
			PaidBy:          req.PaidBy,
			PaymentMethod:   req.PaymentMethod,
			ReferenceNumber: req.ReferenceNumber,
			ReceiptFileURL:  req.ReceiptFileURL,
			Actor:           actorFrom(c),
		})
	} else {
		payment, err = h.contractorService.SchedulePayment(c.Request.Context(), schedule)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// PayRequest is the JSON body for confirming a contractor payment
type PayRequest struct {
	PaidBy          *string `json:"paid_by"`
	PaymentMethod   *string `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	ReceiptFileURL  *string `json:"receipt_file_url"`
}

// @Summary Pay Contractor Payment
// @Description Confirm a pending payment; fails with 422 when the project cash box lacks funds
// @Tags Contractors
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param payment body PayRequest false "Payment details"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /contractor_payments/{id}/pay [post]
func (h *ContractorHandler) Pay(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req PayRequest
	BindNestedOrFlat(c, "payment", &req)

	payment, err := h.contractorService.MarkAsPaid(c.Request.Context(), uint(id), services.PayInput{
		PaidBy:          req.PaidBy,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		ReceiptFileURL:  req.ReceiptFileURL,
		Actor:           actorFrom(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Cancel Contractor Payment
// @Description Void a pending or overdue payment
// @Tags Contractors
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Router /contractor_payments/{id}/cancel [post]
func (h *ContractorHandler) CancelPayment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	payment, err := h.contractorService.CancelPayment(c.Request.Context(), uint(id), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}
