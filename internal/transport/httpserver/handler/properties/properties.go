package properties

import (
	"net/http"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	propertydomain "rental-app-go/internal/domain/property"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type createPropertyRequest struct {
	LandlordID string  `json:"landlord_id"`
	Title      string  `json:"title"`
	Address    string  `json:"address"`
	RentAmount float64 `json:"rent_amount"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type propertyResponse struct {
	ID         string    `json:"id"`
	LandlordID string    `json:"landlord_id"`
	Title      string    `json:"title"`
	Address    string    `json:"address"`
	RentAmount float64   `json:"rent_amount"`
	Status     string    `json:"status"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	property, err := h.Properties.Create(r.Context(), actor, propertydomain.CreateInput{
		LandlordID: req.LandlordID,
		Title:      req.Title,
		Address:    req.Address,
		RentAmount: req.RentAmount,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "properties.create", err, "user_id", actor.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, toPropertyResponse(*property))
}

func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	landlordID := strings.TrimSpace(query.Get("landlord_id"))
	if landlordID == "" {
		landlordID = actor.UserID
	}
	if err := commonhandler.AuthorizeLandlord(r.Context(), h.Delegation, actor, landlordID, lifecycle.CapabilityProperties); err != nil {
		commonhandler.WriteServiceError(w, h.log, "properties.list", err, "user_id", actor.UserID, "landlord_id", landlordID)
		return
	}

	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter := propertydomain.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status := propertydomain.Status(value)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	items, err := h.Properties.ListByLandlord(r.Context(), landlordID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "properties.list", err, "user_id", actor.UserID, "landlord_id", landlordID)
		return
	}

	resp := make([]propertyResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toPropertyResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	property, err := h.Properties.GetByID(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "properties.get", err, "user_id", actor.UserID, "property_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*property))
}

func (h *Handlers) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	property, err := h.Properties.UpdateStatus(r.Context(), actor, id, propertydomain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "properties.update_status", err, "user_id", actor.UserID, "property_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*property))
}

func toPropertyResponse(property propertydomain.Property) propertyResponse {
	return propertyResponse{
		ID:         property.ID,
		LandlordID: property.LandlordID,
		Title:      property.Title,
		Address:    property.Address,
		RentAmount: property.RentAmount,
		Status:     string(property.Status),
		Version:    property.Version,
		CreatedAt:  property.CreatedAt,
		UpdatedAt:  property.UpdatedAt,
	}
}
