package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PipelineTrigger runs the full pipeline body (refresh, alerts, daily
// reports) synchronously. Satisfied by the scheduler.
type PipelineTrigger interface {
	RunNow(ctx context.Context) error
}

// PipelineHandler exposes the API-key-protected operational trigger.
type PipelineHandler struct {
	trigger PipelineTrigger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(trigger PipelineTrigger) *PipelineHandler {
	return &PipelineHandler{trigger: trigger}
}

// Refresh runs the pipeline body once
// @Summary     Run the refresh pipeline
// @Description Run the refresh, alert and daily report passes once; for operational use
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]string "Pipeline completed"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Pipeline failed"
// @Router      /pipeline/refresh [post]
func (h *PipelineHandler) Refresh(c *gin.Context) {
	if err := h.trigger.RunNow(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "pipeline completed"})
}
