package team

import (
	"errors"
	"net/http"
	"strings"
	"time"

	teamdomain "rental-app-go/internal/domain/team"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type inviteRequest struct {
	LandlordID    string   `json:"landlord_id"`
	MemberID      string   `json:"member_id"`
	Role          string   `json:"role"`
	PropertyScope string   `json:"property_scope"`
	PropertyIDs   []string `json:"property_ids"`
}

type updateRoleRequest struct {
	Role          string   `json:"role"`
	PropertyScope string   `json:"property_scope"`
	PropertyIDs   []string `json:"property_ids"`
}

type memberResponse struct {
	ID            string     `json:"id"`
	LandlordID    string     `json:"landlord_id"`
	MemberID      string     `json:"member_id"`
	Role          string     `json:"role"`
	PropertyScope string     `json:"property_scope"`
	PropertyIDs   []string   `json:"property_ids"`
	Status        string     `json:"status"`
	JoinedAt      *time.Time `json:"joined_at"`
	RemovedAt     *time.Time `json:"removed_at"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (h *Handlers) InviteMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	member, err := h.Team.Invite(r.Context(), actor, teamdomain.InviteInput{
		LandlordID:    req.LandlordID,
		MemberID:      req.MemberID,
		Role:          teamdomain.Role(strings.TrimSpace(req.Role)),
		PropertyScope: teamdomain.Scope(strings.TrimSpace(req.PropertyScope)),
		PropertyIDs:   req.PropertyIDs,
	})
	if err != nil {
		h.writeMemberError(w, "team.invite", err, "user_id", actor.UserID, "member_id", req.MemberID)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	landlordID := strings.TrimSpace(r.URL.Query().Get("landlord_id"))
	if landlordID == "" {
		landlordID = actor.UserID
	}

	items, err := h.Team.ListByLandlord(r.Context(), actor, landlordID)
	if err != nil {
		h.writeMemberError(w, "team.list", err, "user_id", actor.UserID, "landlord_id", landlordID)
		return
	}

	commonhandler.WriteList(w, toMemberResponses(items))
}

func (h *Handlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	items, err := h.Team.ListByMember(r.Context(), actor.UserID)
	if err != nil {
		h.writeMemberError(w, "team.memberships", err, "user_id", actor.UserID)
		return
	}

	commonhandler.WriteList(w, toMemberResponses(items))
}

func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	member, err := h.Team.AcceptInvite(r.Context(), actor, id)
	if err != nil {
		h.writeMemberError(w, "team.accept", err, "user_id", actor.UserID, "team_member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	id := chi.URLParam(r, "id")
	member, err := h.Team.UpdateRole(r.Context(), actor, id, teamdomain.RoleInput{
		Role:          teamdomain.Role(strings.TrimSpace(req.Role)),
		PropertyScope: teamdomain.Scope(strings.TrimSpace(req.PropertyScope)),
		PropertyIDs:   req.PropertyIDs,
	})
	if err != nil {
		h.writeMemberError(w, "team.update_role", err, "user_id", actor.UserID, "team_member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	member, err := h.Team.Remove(r.Context(), actor, id)
	if err != nil {
		h.writeMemberError(w, "team.remove", err, "user_id", actor.UserID, "team_member_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, teamdomain.ErrMemberNotFound):
		commonhandler.WriteNotFound(w, h.log, op, "team_member_not_found", err, args...)
	case errors.Is(err, teamdomain.ErrAlreadyMember):
		h.log.BusinessError(op+": already member", err, args...)
		writeError(w, http.StatusConflict, "already_member", "user is already on the team")
	default:
		commonhandler.WriteServiceError(w, h.log, op, err, args...)
	}
}

func toMemberResponses(items []teamdomain.Member) []memberResponse {
	resp := make([]memberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMemberResponse(item))
	}
	return resp
}

func toMemberResponse(member teamdomain.Member) memberResponse {
	ids := []string(member.PropertyIDs)
	if ids == nil {
		ids = []string{}
	}
	return memberResponse{
		ID:            member.ID,
		LandlordID:    member.LandlordID,
		MemberID:      member.MemberID,
		Role:          string(member.Role),
		PropertyScope: string(member.PropertyScope),
		PropertyIDs:   ids,
		Status:        string(member.Status),
		JoinedAt:      member.JoinedAt,
		RemovedAt:     member.RemovedAt,
		Version:       member.Version,
		CreatedAt:     member.CreatedAt,
	}
}
