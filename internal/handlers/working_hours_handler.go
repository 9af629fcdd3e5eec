package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/service-scheduler/internal/usecase/schedule"
)

type WorkingHoursHandler struct {
	uc *ucSchedule.WorkingHours
}

func NewWorkingHoursHandler(uc *ucSchedule.WorkingHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{uc: uc}
}

type WorkingHoursUpdateRequest struct {
	Days []schedule.DayRule `json:"days"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	hours, err := h.uc.Get(c.Request.Context(), staffID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_working_hours")
		return
	}

	httpresp.OK(c, hours)
}

// Update replaces the whole week. Weekdays left out become days off.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	hours, err := h.uc.Replace(c.Request.Context(), middleware.UserID(c), staffID, req.Days)
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_working_hours")
		return
	}

	httpresp.OK(c, hours)
}
