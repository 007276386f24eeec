package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/services"
)

type JobHandler struct {
	jobService    *services.JobService
	outboxService *services.OutboxService
}

func NewJobHandler(jobSvc *services.JobService, outboxSvc *services.OutboxService) *JobHandler {
	return &JobHandler{
		jobService:    jobSvc,
		outboxService: outboxSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, finished, failed, queue length)
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// @Summary Drain Outbox
// @Description Run one drain cycle over pending outbox tasks
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /jobs/outbox/drain [post]
func (h *JobHandler) DrainOutbox(c *gin.Context) {
	done, err := h.outboxService.ProcessPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": done})
}
