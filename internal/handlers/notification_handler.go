package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
	"cryptofolio/internal/services"
)

// NotificationHandler handles notification settings, the dispatch log and the
// manual pipeline triggers.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	reportService       services.ReportServicer
	trigger             PipelineTrigger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer, reportService services.ReportServicer, trigger PipelineTrigger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		reportService:       reportService,
		trigger:             trigger,
	}
}

// CreateSettingRequest represents the request payload for creating a
// notification setting.
type CreateSettingRequest struct {
	AssetKind           string  `json:"asset_kind" binding:"required,asset_kind"`
	ThresholdPercent    float64 `json:"threshold_percent" binding:"gte=0,lte=100"`
	IntervalHours       int     `json:"interval_hours" binding:"required,check_interval"`
	UpdateIntervalHours int     `json:"update_interval_hours" binding:"required,check_interval"`
}

// UpdateSettingRequest represents the request payload for updating a
// notification setting. Absent fields are left unchanged.
type UpdateSettingRequest struct {
	Enabled             *bool    `json:"enabled"`
	ThresholdPercent    *float64 `json:"threshold_percent" binding:"omitempty,gte=0,lte=100"`
	IntervalHours       *int     `json:"interval_hours" binding:"omitempty,check_interval"`
	UpdateIntervalHours *int     `json:"update_interval_hours" binding:"omitempty,check_interval"`
}

// GenerateReportRequest represents the request payload for the manual report
// trigger.
type GenerateReportRequest struct {
	Period string `json:"period" binding:"required,report_period"`
}

// CreateSetting creates a notification setting
// @Summary     Create a notification setting
// @Description Create the alert configuration for one asset kind
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSettingRequest true "Setting details"
// @Success     201 {object} models.NotificationSetting "Setting created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Setting already exists for this kind"
// @Router      /notifications/settings [post]
func (h *NotificationHandler) CreateSetting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	setting, err := h.notificationService.CreateSetting(
		userID,
		models.AssetKind(req.AssetKind),
		req.ThresholdPercent,
		req.IntervalHours,
		req.UpdateIntervalHours,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"setting": setting})
}

// ListSettings returns the user's notification settings
// @Summary     List notification settings
// @Description List the authenticated user's notification settings
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.NotificationSetting "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/settings [get]
func (h *NotificationHandler) ListSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.notificationService.GetUserSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSetting updates a notification setting
// @Summary     Update a notification setting
// @Description Update fields of one notification setting; absent fields stay unchanged
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Setting ID"
// @Param       request body UpdateSettingRequest true "Fields to update"
// @Success     200 {object} models.NotificationSetting "Setting updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Setting not found"
// @Router      /notifications/settings/{id} [put]
func (h *NotificationHandler) UpdateSetting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	setting, err := h.notificationService.UpdateSetting(userID, settingID, services.SettingUpdate{
		Enabled:             req.Enabled,
		ThresholdPercent:    req.ThresholdPercent,
		IntervalHours:       req.IntervalHours,
		UpdateIntervalHours: req.UpdateIntervalHours,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

// DeleteSetting removes a notification setting
// @Summary     Delete a notification setting
// @Description Remove one of the user's notification settings
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Setting ID"
// @Success     204 "Setting deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Setting not found"
// @Router      /notifications/settings/{id} [delete]
func (h *NotificationHandler) DeleteSetting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteSetting(userID, settingID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListLogs returns the user's notification log
// @Summary     List notification log entries
// @Description List the user's dispatched notifications, newest first
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.NotificationLog] "Paginated log entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/logs [get]
func (h *NotificationHandler) ListLogs(c *gin.Context) {
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

	resp, err := h.notificationService.GetUserLogs(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateReports triggers report generation for a period
// @Summary     Generate reports now
// @Description Run report generation for the given window immediately
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GenerateReportRequest true "Report period"
// @Success     200 {object} map[string]string "Reports generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/reports/generate [post]
func (h *NotificationHandler) GenerateReports(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.reportService.GenerateReports(c.Request.Context(), models.Period(req.Period)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reports generated", "period": req.Period})
}

// TriggerAssetUpdate runs the full pipeline body immediately
// @Summary     Refresh assets now
// @Description Run the refresh, alert and daily report passes immediately
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Pipeline completed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Pipeline failed"
// @Router      /notifications/assets/update [post]
func (h *NotificationHandler) TriggerAssetUpdate(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.trigger.RunNow(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "pipeline completed"})
}
