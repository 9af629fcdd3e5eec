package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	confirm      *ucAppointment.ConfirmAppointment
	decline      *ucAppointment.DeclineAppointment
	propose      *ucAppointment.ProposeAlternative
	accept       *ucAppointment.AcceptProposal
	reject       *ucAppointment.RejectProposal
	cancel       *ucAppointment.CancelAppointment
	setStatus    *ucAppointment.SetTerminalStatus
	list         *ucAppointment.ListAppointments
}

func NewAppointmentHandler(d ucAppointment.Deps) *AppointmentHandler {
	return &AppointmentHandler{
		availability: ucAppointment.NewGetAvailability(d),
		create:       ucAppointment.NewCreateAppointment(d),
		confirm:      ucAppointment.NewConfirmAppointment(d),
		decline:      ucAppointment.NewDeclineAppointment(d),
		propose:      ucAppointment.NewProposeAlternative(d),
		accept:       ucAppointment.NewAcceptProposal(d),
		reject:       ucAppointment.NewRejectProposal(d),
		cancel:       ucAppointment.NewCancelAppointment(d),
		setStatus:    ucAppointment.NewSetTerminalStatus(d),
		list:         ucAppointment.NewListAppointments(d.Repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required,yyyymmdd"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	Note      string `json:"note"`
}

type DeclineRequest struct {
	Reason string `json:"reason"`
}

type ProposeRequest struct {
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required,yyyymmdd"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	Message   string `json:"message"`
}

type RejectProposalRequest struct {
	Message string `json:"message"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		return
	}
	date := c.Query("date")
	if serviceID == nil || staffID == nil || date == "" {
		httperr.BadRequest(c, "missing_parameters", "service_id, staff_id and date are required.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID: *serviceID,
		StaffID:   *staffID,
		Date:      date,
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// CLIENT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:  middleware.UserID(c),
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Note:      req.Note,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	aps, err := h.list.Mine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(aps))
}

func (h *AppointmentHandler) AcceptProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.accept.Execute(c.Request.Context(), middleware.UserID(c), id)
	respond(c, ap, err, "failed_to_accept_proposal")
}

func (h *AppointmentHandler) RejectProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RejectProposalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body.")
			return
		}
	}

	ap, err := h.reject.Execute(c.Request.Context(), middleware.UserID(c), id, req.Message)
	respond(c, ap, err, "failed_to_reject_proposal")
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id)
	respond(c, ap, err, "failed_to_cancel_appointment")
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	staffID, ok := queryID(c, "staff_id")
	if !ok {
		return
	}

	aps, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		StaffID:  staffID,
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(aps))
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.UserID(c), id)
	respond(c, ap, err, "failed_to_confirm_appointment")
}

func (h *AppointmentHandler) Decline(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.decline.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	respond(c, ap, err, "failed_to_decline_appointment")
}

func (h *AppointmentHandler) Propose(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.propose.Execute(c.Request.Context(), ucAppointment.ProposeInput{
		ActorID:       middleware.UserID(c),
		AppointmentID: id,
		StaffID:       req.StaffID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		Message:       req.Message,
	})
	respond(c, ap, err, "failed_to_propose")
}

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	respond(c, ap, err, "failed_to_update_status")
}

func respond(c *gin.Context, ap *models.Appointment, err error, fallbackCode string) {
	if err != nil {
		httperr.FromError(c, err, fallbackCode)
		return
	}
	httpresp.OK(c, ap)
}
