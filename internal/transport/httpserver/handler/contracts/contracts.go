package contracts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	contractdomain "rental-app-go/internal/domain/contract"
	"rental-app-go/internal/domain/lifecycle"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type createContractRequest struct {
	PropertyID    string  `json:"property_id"`
	LandlordID    string  `json:"landlord_id"`
	TenantID      string  `json:"tenant_id"`
	TemplateID    string  `json:"template_id"`
	RentAmount    float64 `json:"rent_amount"`
	DepositAmount float64 `json:"deposit_amount"`
	PaymentDay    int     `json:"payment_day"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	CustomContent string  `json:"custom_content"`
	InitiatedBy   string  `json:"initiated_by"`
}

type signRequest struct {
	Signature string `json:"signature"`
}

type terminateRequest struct {
	Reason string `json:"reason"`
}

type contractResponse struct {
	ID                string     `json:"id"`
	PropertyID        string     `json:"property_id"`
	LandlordID        string     `json:"landlord_id"`
	TenantID          string     `json:"tenant_id"`
	TemplateID        string     `json:"template_id"`
	RentAmount        float64    `json:"rent_amount"`
	DepositAmount     float64    `json:"deposit_amount"`
	PaymentDay        int        `json:"payment_day"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	CustomContent     string     `json:"custom_content"`
	InitiatedBy       string     `json:"initiated_by"`
	Status            string     `json:"status"`
	LandlordSigned    bool       `json:"landlord_signed"`
	LandlordSignedAt  *time.Time `json:"landlord_signed_at"`
	TenantSigned      bool       `json:"tenant_signed"`
	TenantSignedAt    *time.Time `json:"tenant_signed_at"`
	ActivatedAt       *time.Time `json:"activated_at"`
	TerminationReason *string    `json:"termination_reason"`
	TerminatedAt      *time.Time `json:"terminated_at"`
	Version           int        `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (h *Handlers) CreateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req createContractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	startDate, err := commonhandler.ParseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start_date")
		return
	}
	endDate, err := commonhandler.ParseDateRequired(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end_date")
		return
	}

	initiatedBy := contractdomain.Party(strings.TrimSpace(req.InitiatedBy))
	if initiatedBy == "" {
		initiatedBy = contractdomain.PartyLandlord
		if actor.Role == lifecycle.RoleTenant {
			initiatedBy = contractdomain.PartyTenant
		}
	}

	contract, err := h.Contracts.Create(r.Context(), actor, contractdomain.CreateInput{
		PropertyID:    strings.TrimSpace(req.PropertyID),
		LandlordID:    req.LandlordID,
		TenantID:      strings.TrimSpace(req.TenantID),
		TemplateID:    req.TemplateID,
		RentAmount:    req.RentAmount,
		DepositAmount: req.DepositAmount,
		PaymentDay:    req.PaymentDay,
		StartDate:     startDate,
		EndDate:       endDate,
		CustomContent: req.CustomContent,
		InitiatedBy:   initiatedBy,
	})
	if err != nil {
		h.writeContractError(w, "contracts.create", err, "user_id", actor.UserID, "property_id", req.PropertyID)
		return
	}

	writeJSON(w, http.StatusCreated, h.toContractResponse(*contract))
}

func (h *Handlers) ListContracts(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	scope, err := commonhandler.ResolveListScope(r.Context(), r, actor, h.Delegation, lifecycle.CapabilityContracts)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contracts.list", err, "user_id", actor.UserID)
		return
	}

	query := r.URL.Query()
	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter := contractdomain.ListFilter{AsOf: h.now(), Limit: page.Limit, Offset: page.Offset}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := contractdomain.ParseStatus(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	var items []contractdomain.Contract
	if scope.Side == commonhandler.SideTenant {
		items, err = h.Contracts.ListByTenant(r.Context(), scope.OwnerID, filter)
	} else {
		items, err = h.Contracts.ListByLandlord(r.Context(), scope.OwnerID, filter)
	}
	if err != nil {
		h.writeContractError(w, "contracts.list", err, "user_id", actor.UserID, "owner_id", scope.OwnerID)
		return
	}

	resp := make([]contractResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, h.toContractResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) GetContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	contract, err := h.Contracts.GetByID(r.Context(), actor, id)
	if err != nil {
		h.writeContractError(w, "contracts.get", err, "user_id", actor.UserID, "contract_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toContractResponse(*contract))
}

func (h *Handlers) TenantSign(w http.ResponseWriter, r *http.Request) {
	h.sign(w, r, "contracts.tenant_sign", h.Contracts.TenantSign)
}

func (h *Handlers) LandlordSign(w http.ResponseWriter, r *http.Request) {
	h.sign(w, r, "contracts.landlord_sign", h.Contracts.LandlordSign)
}

func (h *Handlers) sign(w http.ResponseWriter, r *http.Request, op string, sign func(ctx context.Context, actor lifecycle.Actor, id, signature string) (*contractdomain.Contract, error)) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req signRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	contract, err := sign(r.Context(), actor, id, req.Signature)
	if err != nil {
		h.writeContractError(w, op, err, "user_id", actor.UserID, "contract_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toContractResponse(*contract))
}

func (h *Handlers) ActivateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	contract, err := h.Contracts.Activate(r.Context(), actor, id)
	if err != nil {
		h.writeContractError(w, "contracts.activate", err, "user_id", actor.UserID, "contract_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toContractResponse(*contract))
}

func (h *Handlers) TerminateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req terminateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	contract, err := h.Contracts.Terminate(r.Context(), actor, id, req.Reason)
	if err != nil {
		h.writeContractError(w, "contracts.terminate", err, "user_id", actor.UserID, "contract_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toContractResponse(*contract))
}

func (h *Handlers) writeContractError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, contractdomain.ErrContractNotFound):
		commonhandler.WriteNotFound(w, h.log, op, "contract_not_found", err, args...)
	case errors.Is(err, contractdomain.ErrPropertyMismatch):
		h.log.BusinessError(op+": property mismatch", err, args...)
		writeError(w, http.StatusBadRequest, "property_mismatch", "property does not belong to landlord")
	default:
		commonhandler.WriteServiceError(w, h.log, op, err, args...)
	}
}

func (h *Handlers) toContractResponse(contract contractdomain.Contract) contractResponse {
	return contractResponse{
		ID:                contract.ID,
		PropertyID:        contract.PropertyID,
		LandlordID:        contract.LandlordID,
		TenantID:          contract.TenantID,
		TemplateID:        contract.TemplateID,
		RentAmount:        contract.RentAmount,
		DepositAmount:     contract.DepositAmount,
		PaymentDay:        contract.PaymentDay,
		StartDate:         lifecycle.FormatDate(contract.StartDate),
		EndDate:           lifecycle.FormatDate(contract.EndDate),
		CustomContent:     contract.CustomContent,
		InitiatedBy:       string(contract.InitiatedBy),
		Status:            string(contract.EffectiveStatus(h.now())),
		LandlordSigned:    contract.LandlordSignature != nil,
		LandlordSignedAt:  contract.LandlordSignedAt,
		TenantSigned:      contract.TenantSignature != nil,
		TenantSignedAt:    contract.TenantSignedAt,
		ActivatedAt:       contract.ActivatedAt,
		TerminationReason: contract.TerminationReason,
		TerminatedAt:      contract.TerminatedAt,
		Version:           contract.Version,
		CreatedAt:         contract.CreatedAt,
	}
}
