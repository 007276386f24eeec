package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest is the JSON body for client creation
type CreateClientRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	TaxID    *string `json:"tax_id"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

// @Summary Create Client
// @Description Register a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client data"
// @Success 201 {object} map[string]interface{}
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil || req.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name es obligatorio"})
		return
	}

	client := &models.Client{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		TaxID:    req.TaxID,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := h.clientService.Create(c.Request.Context(), client, actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// @Summary List Clients
// @Description Get a paginated list of clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Client
// @Description Get a client by ID
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /clients/{id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// @Summary Update Client
// @Description Update client data
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param client body CreateClientRequest true "Client data"
// @Success 200 {object} map[string]interface{}
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	client, err := h.clientService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req CreateClientRequest
	if err := BindNestedOrFlat(c, "client", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if req.FullName != "" {
		client.FullName = req.FullName
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.TaxID != nil {
		client.TaxID = req.TaxID
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if err := h.clientService.Update(c.Request.Context(), client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// @Summary Delete Client
// @Description Soft-delete a client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	if err := h.clientService.Delete(c.Request.Context(), uint(id), actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}
