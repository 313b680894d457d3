package viewings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	viewingdomain "rental-app-go/internal/domain/viewing"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type requestViewingRequest struct {
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes"`
	Source     string `json:"source"`
}

type rescheduleRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type proposalResponse struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Reason        *string `json:"reason"`
	RescheduledBy string  `json:"rescheduled_by"`
}

type appointmentResponse struct {
	ID           string            `json:"id"`
	PropertyID   string            `json:"property_id"`
	LandlordID   string            `json:"landlord_id"`
	TenantID     *string           `json:"tenant_id"`
	GuestName    string            `json:"guest_name"`
	GuestPhone   string            `json:"guest_phone"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Notes        string            `json:"notes"`
	Source       string            `json:"source"`
	Status       string            `json:"status"`
	Reschedule   *proposalResponse `json:"reschedule"`
	CancelReason *string           `json:"cancel_reason"`
	CompletedAt  *time.Time        `json:"completed_at"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (h *Handlers) RequestViewing(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req requestViewingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	date, err := commonhandler.ParseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	input := viewingdomain.RequestInput{
		PropertyID: strings.TrimSpace(req.PropertyID),
		TenantID:   strings.TrimSpace(req.TenantID),
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
		Time:       req.Time,
		Notes:      req.Notes,
		Source:     req.Source,
	}
	if date != nil {
		input.Date = *date
	}
	if input.TenantID == "" && strings.TrimSpace(req.GuestName) == "" && actor.Role == lifecycle.RoleTenant {
		input.TenantID = actor.UserID
	}

	appointment, err := h.Viewings.RequestViewing(r.Context(), actor, input)
	if err != nil {
		h.writeViewingError(w, "viewings.request", err, "user_id", actor.UserID, "property_id", input.PropertyID)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(*appointment))
}

func (h *Handlers) ListViewings(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	scope, err := commonhandler.ResolveListScope(r.Context(), r, actor, h.Delegation, lifecycle.CapabilityViewings)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "viewings.list", err, "user_id", actor.UserID)
		return
	}

	query := r.URL.Query()
	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter := viewingdomain.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := viewingdomain.ParseStatus(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	var items []viewingdomain.Appointment
	if scope.Side == commonhandler.SideTenant {
		items, err = h.Viewings.ListByTenant(r.Context(), scope.OwnerID, filter)
	} else {
		items, err = h.Viewings.ListByLandlord(r.Context(), scope.OwnerID, filter)
	}
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "viewings.list", err, "user_id", actor.UserID, "owner_id", scope.OwnerID)
		return
	}

	resp := make([]appointmentResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toAppointmentResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) GetViewing(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "viewings.get", h.Viewings.GetByID)
}

func (h *Handlers) ConfirmViewing(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "viewings.confirm", h.Viewings.Confirm)
}

func (h *Handlers) AgreeReschedule(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "viewings.agree_reschedule", h.Viewings.AgreeReschedule)
}

func (h *Handlers) CompleteViewing(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "viewings.complete", h.Viewings.Complete)
}

func (h *Handlers) RescheduleViewing(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	date, err := commonhandler.ParseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	id := chi.URLParam(r, "id")
	appointment, err := h.Viewings.Reschedule(r.Context(), actor, id, date, req.Time, req.Reason)
	if err != nil {
		h.writeViewingError(w, "viewings.reschedule", err, "user_id", actor.UserID, "viewing_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*appointment))
}

func (h *Handlers) CancelViewing(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	appointment, err := h.Viewings.Cancel(r.Context(), actor, id, req.Reason)
	if err != nil {
		h.writeViewingError(w, "viewings.cancel", err, "user_id", actor.UserID, "viewing_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*appointment))
}

type viewingAction func(ctx context.Context, actor lifecycle.Actor, id string) (*viewingdomain.Appointment, error)

func (h *Handlers) act(w http.ResponseWriter, r *http.Request, op string, action viewingAction) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	appointment, err := action(r.Context(), actor, id)
	if err != nil {
		h.writeViewingError(w, op, err, "user_id", actor.UserID, "viewing_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*appointment))
}

func (h *Handlers) writeViewingError(w http.ResponseWriter, op string, err error, args ...any) {
	if errors.Is(err, viewingdomain.ErrAppointmentNotFound) {
		commonhandler.WriteNotFound(w, h.log, op, "viewing_not_found", err, args...)
		return
	}
	commonhandler.WriteServiceError(w, h.log, op, err, args...)
}

func toAppointmentResponse(appointment viewingdomain.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:           appointment.ID,
		PropertyID:   appointment.PropertyID,
		LandlordID:   appointment.LandlordID,
		TenantID:     appointment.TenantID,
		GuestName:    appointment.GuestName,
		GuestPhone:   appointment.GuestPhone,
		Date:         lifecycle.FormatDate(appointment.AppointmentDate),
		Time:         appointment.AppointmentTime,
		Notes:        appointment.Notes,
		Source:       appointment.Source,
		Status:       string(appointment.Status),
		CancelReason: appointment.CancelReason,
		CompletedAt:  appointment.CompletedAt,
		Version:      appointment.Version,
		CreatedAt:    appointment.CreatedAt,
	}
	if appointment.RescheduleDate != nil && appointment.RescheduleTime != nil {
		proposal := &proposalResponse{
			Date:   lifecycle.FormatDate(*appointment.RescheduleDate),
			Time:   *appointment.RescheduleTime,
			Reason: appointment.RescheduleReason,
		}
		if appointment.RescheduledBy != nil {
			proposal.RescheduledBy = string(*appointment.RescheduledBy)
		}
		resp.Reschedule = proposal
	}
	return resp
}
