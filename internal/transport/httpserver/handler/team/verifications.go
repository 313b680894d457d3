package team

import (
	"errors"
	"net/http"
	"strings"
	"time"

	verificationdomain "rental-app-go/internal/domain/verification"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type submitVerificationRequest struct {
	Kind              string `json:"kind"`
	RealName          string `json:"real_name"`
	IDNumber          string `json:"id_number"`
	IDCardFront       string `json:"id_card_front"`
	IDCardBack        string `json:"id_card_back"`
	PropertyCertImage string `json:"property_cert_image"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type verificationResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Kind              string     `json:"kind"`
	RealName          string     `json:"real_name"`
	IDNumber          string     `json:"id_number"`
	IDCardFront       *string    `json:"id_card_front"`
	IDCardBack        *string    `json:"id_card_back"`
	PropertyCertImage *string    `json:"property_cert_image"`
	Status            string     `json:"status"`
	ReviewedBy        *string    `json:"reviewed_by"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
	RejectedReason    *string    `json:"rejected_reason"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (h *Handlers) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req submitVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	record, err := h.Verifications.Submit(r.Context(), actor, verificationdomain.SubmitInput{
		Kind:              verificationdomain.Kind(strings.TrimSpace(req.Kind)),
		RealName:          req.RealName,
		IDNumber:          req.IDNumber,
		IDCardFront:       req.IDCardFront,
		IDCardBack:        req.IDCardBack,
		PropertyCertImage: req.PropertyCertImage,
	})
	if err != nil {
		h.writeVerificationError(w, "verifications.submit", err, "user_id", actor.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, toVerificationResponse(*record))
}

func (h *Handlers) GetVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		userID = actor.UserID
	}

	record, err := h.Verifications.GetByUser(r.Context(), actor, userID)
	if err != nil {
		h.writeVerificationError(w, "verifications.get", err, "user_id", actor.UserID, "subject_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, toVerificationResponse(*record))
}

func (h *Handlers) ListPendingVerifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	limit, err := commonhandler.ParseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	items, err := h.Verifications.ListPending(r.Context(), actor, limit)
	if err != nil {
		h.writeVerificationError(w, "verifications.list_pending", err, "user_id", actor.UserID)
		return
	}

	resp := make([]verificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toVerificationResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.Verifications.Approve(r.Context(), actor, id)
	if err != nil {
		h.writeVerificationError(w, "verifications.approve", err, "user_id", actor.UserID, "verification_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toVerificationResponse(*record))
}

func (h *Handlers) RejectVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.Verifications.Reject(r.Context(), actor, id, req.Reason)
	if err != nil {
		h.writeVerificationError(w, "verifications.reject", err, "user_id", actor.UserID, "verification_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toVerificationResponse(*record))
}

func (h *Handlers) writeVerificationError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, verificationdomain.ErrVerificationNotFound):
		commonhandler.WriteNotFound(w, h.log, op, "verification_not_found", err, args...)
	case errors.Is(err, verificationdomain.ErrReviewPending):
		h.log.BusinessError(op+": review pending", err, args...)
		writeError(w, http.StatusConflict, "review_pending", "a verification is already under review")
	case errors.Is(err, verificationdomain.ErrAlreadyVerified):
		h.log.BusinessError(op+": already verified", err, args...)
		writeError(w, http.StatusConflict, "already_verified", "user is already verified")
	default:
		commonhandler.WriteServiceError(w, h.log, op, err, args...)
	}
}

func toVerificationResponse(record verificationdomain.Verification) verificationResponse {
	return verificationResponse{
		ID:                record.ID,
		UserID:            record.UserID,
		Kind:              string(record.Kind),
		RealName:          record.RealName,
		IDNumber:          maskIDNumber(record.IDNumber),
		IDCardFront:       record.IDCardFront,
		IDCardBack:        record.IDCardBack,
		PropertyCertImage: record.PropertyCertImage,
		Status:            string(record.Status),
		ReviewedBy:        record.ReviewedBy,
		ReviewedAt:        record.ReviewedAt,
		RejectedReason:    record.RejectedReason,
		CreatedAt:         record.CreatedAt,
	}
}

// maskIDNumber keeps the first and last four characters.
func maskIDNumber(value string) string {
	runes := []rune(value)
	if len(runes) <= 8 {
		return value
	}
	return string(runes[:4]) + strings.Repeat("*", len(runes)-8) + string(runes[len(runes)-4:])
}
