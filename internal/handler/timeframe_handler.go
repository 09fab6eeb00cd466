package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dinacademy/batch-scheduler-api/internal/service"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/response"
)

// TimeframeHandler handles timeframe endpoints.
type TimeframeHandler struct {
	service *service.TimeframeService
}

// NewTimeframeHandler constructs a timeframe handler.
func NewTimeframeHandler(svc *service.TimeframeService) *TimeframeHandler {
	return &TimeframeHandler{service: svc}
}

// List godoc
// @Summary List timeframes
// @Tags Timeframes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeframes [get]
func (h *TimeframeHandler) List(c *gin.Context) {
	timeframes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timeframes)
}

// Create godoc
// @Summary Create timeframe
// @Tags Timeframes
// @Accept json
// @Produce json
// @Param payload body service.CreateTimeframeRequest true "Timeframe payload"
// @Success 201 {object} response.Envelope
// @Router /timeframes [post]
func (h *TimeframeHandler) Create(c *gin.Context) {
	var req service.CreateTimeframeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	timeframe, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timeframe)
}

// Delete godoc
// @Summary Delete timeframe
// @Tags Timeframes
// @Param id path int true "Timeframe ID"
// @Success 204
// @Router /timeframes/{id} [delete]
func (h *TimeframeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
