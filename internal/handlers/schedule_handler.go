package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	ucSchedule "github.com/BruksfildServices01/service-scheduler/internal/usecase/schedule"
)

type ScheduleHandler struct {
	board *ucSchedule.GetScheduleBoard
}

func NewScheduleHandler(board *ucSchedule.GetScheduleBoard) *ScheduleHandler {
	return &ScheduleHandler{board: board}
}

// Board serves GET /admin/schedule?date=YYYY-MM-DD&staff_ids=1,2
func (h *ScheduleHandler) Board(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	staffIDs, ok := queryIDs(c, "staff_ids")
	if !ok {
		return
	}

	board, err := h.board.Execute(c.Request.Context(), schedule.BoardInput{
		Date:     date,
		StaffIDs: staffIDs,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_load_schedule")
		return
	}

	httpresp.OK(c, board)
}
