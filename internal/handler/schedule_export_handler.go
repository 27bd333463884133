package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unsa-dacc/cb-ttp-engine/internal/service"
	appErrors "github.com/unsa-dacc/cb-ttp-engine/pkg/errors"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/response"
)

// ScheduleExportHandler exposes CSV/PDF rendering for committed schedules.
type ScheduleExportHandler struct {
	exports *service.ScheduleExportService
}

// NewScheduleExportHandler constructs a new ScheduleExportHandler.
func NewScheduleExportHandler(exports *service.ScheduleExportService) *ScheduleExportHandler {
	return &ScheduleExportHandler{exports: exports}
}

// Generate godoc
// @Summary Render a committed schedule version to CSV or PDF
// @Tags Timetable
// @Produce json
// @Param scheduleId path string true "Semester Schedule ID"
// @Param format query string true "csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/{scheduleId}/export [post]
func (h *ScheduleExportHandler) Generate(c *gin.Context) {
	format := service.ScheduleExportFormat(c.DefaultQuery("format", string(service.ScheduleExportFormatCSV)))
	result, err := h.exports.Generate(c.Request.Context(), c.Param("scheduleId"), format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render export"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a rendered schedule export via signed token
// @Tags Timetable
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /timetable/exports/{token} [get]
func (h *ScheduleExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	_, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid or expired token"))
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, http.StatusNotFound, "export not found"))
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export metadata"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", relPath))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
