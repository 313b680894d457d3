package payments

import (
	"errors"
	"net/http"
	"strings"
	"time"

	billingdomain "rental-app-go/internal/domain/billing"
	"rental-app-go/internal/domain/lifecycle"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type submitProofRequest struct {
	ProofURL string `json:"proof_url"`
}

type paymentResponse struct {
	ID          string     `json:"id"`
	ContractID  string     `json:"contract_id"`
	PropertyID  string     `json:"property_id"`
	TenantID    string     `json:"tenant_id"`
	LandlordID  string     `json:"landlord_id"`
	Amount      float64    `json:"amount"`
	PaymentType string     `json:"payment_type"`
	DueDate     string     `json:"due_date"`
	Status      string     `json:"status"`
	ProofURL    *string    `json:"proof_url"`
	PaidDate    *string    `json:"paid_date"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	scope, err := commonhandler.ResolveListScope(r.Context(), r, actor, h.Delegation, lifecycle.CapabilityPayments)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "payments.list", err, "user_id", actor.UserID)
		return
	}

	query := r.URL.Query()
	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter := billingdomain.ListFilter{AsOf: h.now(), Limit: page.Limit, Offset: page.Offset}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := billingdomain.ParseStatus(value)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	var items []billingdomain.Payment
	if scope.Side == commonhandler.SideTenant {
		items, err = h.Billing.ListByTenant(r.Context(), scope.OwnerID, filter)
	} else {
		items, err = h.Billing.ListByLandlord(r.Context(), scope.OwnerID, filter)
	}
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "payments.list", err, "user_id", actor.UserID, "owner_id", scope.OwnerID)
		return
	}

	resp := make([]paymentResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, h.toPaymentResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	landlordID := strings.TrimSpace(r.URL.Query().Get("landlord_id"))
	if landlordID == "" {
		landlordID = actor.UserID
	}
	if err := commonhandler.AuthorizeLandlord(r.Context(), h.Delegation, actor, landlordID, lifecycle.CapabilityPayments); err != nil {
		commonhandler.WriteServiceError(w, h.log, "payments.summary", err, "user_id", actor.UserID, "landlord_id", landlordID)
		return
	}

	summary, err := h.Billing.Summary(r.Context(), landlordID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "payments.summary", err, "user_id", actor.UserID, "landlord_id", landlordID)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	payment, err := h.Billing.GetByID(r.Context(), actor, id)
	if err != nil {
		h.writePaymentError(w, "payments.get", err, "user_id", actor.UserID, "payment_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toPaymentResponse(*payment))
}

func (h *Handlers) SubmitProof(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req submitProofRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	payment, err := h.Billing.SubmitProof(r.Context(), actor, id, req.ProofURL)
	if err != nil {
		h.writePaymentError(w, "payments.submit_proof", err, "user_id", actor.UserID, "payment_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toPaymentResponse(*payment))
}

func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	payment, err := h.Billing.Confirm(r.Context(), actor, id)
	if err != nil {
		h.writePaymentError(w, "payments.confirm", err, "user_id", actor.UserID, "payment_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toPaymentResponse(*payment))
}

func (h *Handlers) writePaymentError(w http.ResponseWriter, op string, err error, args ...any) {
	if errors.Is(err, billingdomain.ErrPaymentNotFound) {
		commonhandler.WriteNotFound(w, h.log, op, "payment_not_found", err, args...)
		return
	}
	commonhandler.WriteServiceError(w, h.log, op, err, args...)
}

func (h *Handlers) toPaymentResponse(payment billingdomain.Payment) paymentResponse {
	resp := paymentResponse{
		ID:          payment.ID,
		ContractID:  payment.ContractID,
		PropertyID:  payment.PropertyID,
		TenantID:    payment.TenantID,
		LandlordID:  payment.LandlordID,
		Amount:      payment.Amount,
		PaymentType: string(payment.PaymentType),
		DueDate:     lifecycle.FormatDate(payment.DueDate),
		Status:      string(payment.EffectiveStatus(h.now())),
		ProofURL:    payment.ProofURL,
		ConfirmedAt: payment.ConfirmedAt,
		Version:     payment.Version,
		CreatedAt:   payment.CreatedAt,
	}
	if payment.PaidDate != nil {
		paid := lifecycle.FormatDate(*payment.PaidDate)
		resp.PaidDate = &paid
	}
	return resp
}
