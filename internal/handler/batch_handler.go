package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinacademy/batch-scheduler-api/internal/service"
	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/response"
)

// BatchHandler handles batch endpoints.
type BatchHandler struct {
	service *service.BatchService
	export  *service.ExportService
}

// NewBatchHandler constructs a batch handler.
func NewBatchHandler(svc *service.BatchService, export *service.ExportService) *BatchHandler {
	return &BatchHandler{service: svc, export: export}
}

// List godoc
// @Summary List batches with resolved course, timeframe, room and teachers
// @Tags Batches
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches)
}

// Get godoc
// @Summary Get batch by id
// @Tags Batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	batch, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch)
}

// Create godoc
// @Summary Create batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	batch, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Update godoc
// @Summary Update batch fields
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path int true "Batch ID"
// @Param payload body service.UpdateBatchRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	batch, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch)
}

// Delete godoc
// @Summary Delete batch
// @Tags Batches
// @Param id path int true "Batch ID"
// @Success 204
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
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

// ExportCSV godoc
// @Summary Download the batch roster as CSV
// @Tags Batches
// @Produce text/csv
// @Success 200 {file} file
// @Router /batches/export/csv [get]
func (h *BatchHandler) ExportCSV(c *gin.Context) {
	if !h.export.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}
	data, err := h.export.BatchRosterCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	name := fmt.Sprintf("batches_%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Download the batch roster as PDF
// @Tags Batches
// @Produce application/pdf
// @Success 200 {file} file
// @Router /batches/export/pdf [get]
func (h *BatchHandler) ExportPDF(c *gin.Context) {
	if !h.export.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}
	data, err := h.export.BatchRosterPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	name := fmt.Sprintf("batches_%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}
