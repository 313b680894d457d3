package repairs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	repairdomain "rental-app-go/internal/domain/repair"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type createRepairRequest struct {
	PropertyID  string   `json:"property_id"`
	TenantID    string   `json:"tenant_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
}

type assignRequest struct {
	AssignedTo     string `json:"assigned_to"`
	AssignedType   string `json:"assigned_type"`
	Responsibility string `json:"responsibility"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type completeRequest struct {
	Notes      string   `json:"notes"`
	Images     []string `json:"images"`
	Cost       float64  `json:"cost"`
	CostBearer string   `json:"cost_bearer"`
}

type orderResponse struct {
	ID               string     `json:"id"`
	PropertyID       string     `json:"property_id"`
	TenantID         string     `json:"tenant_id"`
	LandlordID       string     `json:"landlord_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Images           []string   `json:"images"`
	Category         string     `json:"category"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	AssignedTo       *string    `json:"assigned_to"`
	AssignedType     *string    `json:"assigned_type"`
	Responsibility   *string    `json:"responsibility"`
	CompletionNotes  *string    `json:"completion_notes"`
	CompletionImages []string   `json:"completion_images"`
	Cost             *float64   `json:"cost"`
	CostBearer       *string    `json:"cost_bearer"`
	AssignedAt       *time.Time `json:"assigned_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at"`
	Version          int        `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (h *Handlers) CreateRepair(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req createRepairRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	order, err := h.Repairs.Create(r.Context(), actor, repairdomain.CreateInput{
		PropertyID:  strings.TrimSpace(req.PropertyID),
		TenantID:    req.TenantID,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    strings.TrimSpace(req.Category),
		Priority:    repairdomain.Priority(strings.TrimSpace(req.Priority)),
	})
	if err != nil {
		h.writeRepairError(w, "repairs.create", err, "user_id", actor.UserID, "property_id", req.PropertyID)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

func (h *Handlers) ListRepairs(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	scope, err := commonhandler.ResolveListScope(r.Context(), r, actor, h.Delegation, lifecycle.CapabilityRepairs)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "repairs.list", err, "user_id", actor.UserID)
		return
	}

	query := r.URL.Query()
	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter := repairdomain.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := repairdomain.ParseStatus(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	var items []repairdomain.Order
	if scope.Side == commonhandler.SideTenant {
		items, err = h.Repairs.ListByTenant(r.Context(), scope.OwnerID, filter)
	} else {
		items, err = h.Repairs.ListByLandlord(r.Context(), scope.OwnerID, filter)
	}
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "repairs.list", err, "user_id", actor.UserID, "owner_id", scope.OwnerID)
		return
	}

	resp := make([]orderResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toOrderResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) GetRepair(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Repairs.GetByID(r.Context(), actor, id)
	if err != nil {
		h.writeRepairError(w, "repairs.get", err, "user_id", actor.UserID, "repair_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func (h *Handlers) AssignRepair(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Repairs.Assign(r.Context(), actor, id, repairdomain.AssignInput{
		AssignedTo:     req.AssignedTo,
		AssignedType:   req.AssignedType,
		Responsibility: repairdomain.Party(strings.TrimSpace(req.Responsibility)),
	})
	if err != nil {
		h.writeRepairError(w, "repairs.assign", err, "user_id", actor.UserID, "repair_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func (h *Handlers) UpdateRepairStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	status, valid := repairdomain.ParseStatus(strings.TrimSpace(req.Status))
	if !valid {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Repairs.UpdateStatus(r.Context(), actor, id, status)
	if err != nil {
		h.writeRepairError(w, "repairs.update_status", err, "user_id", actor.UserID, "repair_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func (h *Handlers) CompleteRepair(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Repairs.Complete(r.Context(), actor, id, repairdomain.CompleteInput{
		Notes:      req.Notes,
		Images:     req.Images,
		Cost:       req.Cost,
		CostBearer: repairdomain.Party(strings.TrimSpace(req.CostBearer)),
	})
	if err != nil {
		h.writeRepairError(w, "repairs.complete", err, "user_id", actor.UserID, "repair_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func (h *Handlers) ConfirmRepair(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Repairs.Confirm(r.Context(), actor, id)
	if err != nil {
		h.writeRepairError(w, "repairs.confirm", err, "user_id", actor.UserID, "repair_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

func (h *Handlers) writeRepairError(w http.ResponseWriter, op string, err error, args ...any) {
	if errors.Is(err, repairdomain.ErrOrderNotFound) {
		commonhandler.WriteNotFound(w, h.log, op, "repair_not_found", err, args...)
		return
	}
	commonhandler.WriteServiceError(w, h.log, op, err, args...)
}

func toOrderResponse(order repairdomain.Order) orderResponse {
	return orderResponse{
		ID:               order.ID,
		PropertyID:       order.PropertyID,
		TenantID:         order.TenantID,
		LandlordID:       order.LandlordID,
		Title:            order.Title,
		Description:      order.Description,
		Images:           nonNil(order.Images),
		Category:         order.Category,
		Priority:         string(order.Priority),
		Status:           string(order.Status),
		AssignedTo:       order.AssignedTo,
		AssignedType:     order.AssignedType,
		Responsibility:   partyString(order.Responsibility),
		CompletionNotes:  order.CompletionNotes,
		CompletionImages: nonNil(order.CompletionImages),
		Cost:             order.Cost,
		CostBearer:       partyString(order.CostBearer),
		AssignedAt:       order.AssignedAt,
		CompletedAt:      order.CompletedAt,
		ConfirmedAt:      order.ConfirmedAt,
		Version:          order.Version,
		CreatedAt:        order.CreatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func partyString(party *repairdomain.Party) *string {
	if party == nil {
		return nil
	}
	value := string(*party)
	return &value
}
