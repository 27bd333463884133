package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unsa-dacc/cb-ttp-engine/internal/dto"
	"github.com/unsa-dacc/cb-ttp-engine/internal/service"
	appErrors "github.com/unsa-dacc/cb-ttp-engine/pkg/errors"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/response"
)

// TimetableGeneratorHandler wires the GA solver service to HTTP routes.
type TimetableGeneratorHandler struct {
	generator *service.TimetableGeneratorService
}

// NewTimetableGeneratorHandler constructs a new TimetableGeneratorHandler.
func NewTimetableGeneratorHandler(generator *service.TimetableGeneratorService) *TimetableGeneratorHandler {
	return &TimetableGeneratorHandler{generator: generator}
}

// Generate godoc
// @Summary Run the GA solver for a term
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Term ID"
// @Param payload body dto.GenerateTimetableRequest true "Instance and solver parameters"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/timetable/generate [post]
func (h *TimetableGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GetRun godoc
// @Summary Poll the status of a generation run
// @Tags Timetable
// @Produce json
// @Param id path string true "Term ID"
// @Param runId path string true "Generation run ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/timetable/runs/{runId} [get]
func (h *TimetableGeneratorHandler) GetRun(c *gin.Context) {
	result, err := h.generator.GetRun(c.Request.Context(), c.Param("id"), c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Commit godoc
// @Summary Persist a generated run as a new draft schedule version
// @Tags Timetable
// @Produce json
// @Param id path string true "Term ID"
// @Param runId path string true "Generation run ID"
// @Success 201 {object} response.Envelope
// @Router /terms/{id}/timetable/runs/{runId}/commit [post]
func (h *TimetableGeneratorHandler) Commit(c *gin.Context) {
	schedule, err := h.generator.Commit(c.Request.Context(), c.Param("id"), c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// List godoc
// @Summary List semester schedule versions for a term
// @Tags Timetable
// @Produce json
// @Param id path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/timetable/schedules [get]
func (h *TimetableGeneratorHandler) List(c *gin.Context) {
	schedules, err := h.generator.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// GetSlots godoc
// @Summary Get slot detail for a stored schedule version
// @Tags Timetable
// @Produce json
// @Param scheduleId path string true "Semester Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/{scheduleId}/slots [get]
func (h *TimetableGeneratorHandler) GetSlots(c *gin.Context) {
	slots, err := h.generator.GetSlots(c.Request.Context(), c.Param("scheduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Publish godoc
// @Summary Promote a draft schedule version to published
// @Tags Timetable
// @Param scheduleId path string true "Semester Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/{scheduleId}/publish [post]
func (h *TimetableGeneratorHandler) Publish(c *gin.Context) {
	if err := h.generator.Publish(c.Request.Context(), c.Param("scheduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "published"}, nil)
}

// Delete godoc
// @Summary Delete a draft schedule version
// @Tags Timetable
// @Param scheduleId path string true "Semester Schedule ID"
// @Success 204
// @Router /timetable/schedules/{scheduleId} [delete]
func (h *TimetableGeneratorHandler) Delete(c *gin.Context) {
	if err := h.generator.Delete(c.Request.Context(), c.Param("scheduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
