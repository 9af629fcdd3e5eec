package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/service-scheduler/internal/usecase/schedule"
)

type TimeOffHandler struct {
	uc *ucSchedule.TimeOff
}

func NewTimeOffHandler(uc *ucSchedule.TimeOff) *TimeOffHandler {
	return &TimeOffHandler{uc: uc}
}

func (h *TimeOffHandler) List(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entries, err := h.uc.List(c.Request.Context(), staffID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_time_off")
		return
	}

	httpresp.List(c, entries)
}

func (h *TimeOffHandler) Create(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req schedule.TimeOffInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	entry, err := h.uc.Create(c.Request.Context(), middleware.UserID(c), staffID, req)
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_time_off")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *TimeOffHandler) Delete(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}
	timeOffID, ok := paramID(c, "timeOffId")
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), middleware.UserID(c), staffID, timeOffID); err != nil {
		httperr.FromError(c, err, "failed_to_delete_time_off")
		return
	}

	c.Status(http.StatusNoContent)
}
