package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dinacademy/batch-scheduler-api/internal/service"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/response"
)

// DashboardHandler handles the availability board endpoint.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Availability godoc
// @Summary Teacher availability for a day and timeframe
// @Tags Dashboard
// @Produce json
// @Param day query string true "Weekday name, e.g. Monday"
// @Param timeframe_id query int true "Timeframe ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/availability [get]
func (h *DashboardHandler) Availability(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingField, "day is required"))
		return
	}
	rawID := c.Query("timeframe_id")
	if rawID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingField, "timeframe_id is required"))
		return
	}
	timeframeID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || timeframeID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("invalid timeframe_id %q", rawID)))
		return
	}

	board, err := h.service.Availability(c.Request.Context(), day, timeframeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}
