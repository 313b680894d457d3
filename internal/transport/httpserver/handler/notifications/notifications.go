package notifications

import (
	"errors"
	"net/http"
	"time"

	notificationdomain "rental-app-go/internal/domain/notification"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type notificationResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	RelatedID   string     `json:"related_id"`
	RelatedType string     `json:"related_type"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

type markAllResponse struct {
	Updated int64 `json:"updated"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, err := commonhandler.ParsePage(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	unreadOnly, err := commonhandler.ParseBoolParam(query.Get("unread_only"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid unread_only")
		return
	}

	items, err := h.Notifications.ListByUser(r.Context(), actor, notificationdomain.ListFilter{
		UnreadOnly: unreadOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "notifications.list", err, "user_id", actor.UserID)
		return
	}

	resp := make([]notificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toNotificationResponse(item))
	}
	commonhandler.WriteList(w, resp)
}

func (h *Handlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	count, err := h.Notifications.UnreadCount(r.Context(), actor)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "notifications.unread_count", err, "user_id", actor.UserID)
		return
	}

	writeJSON(w, http.StatusOK, unreadCountResponse{Count: count})
}

func (h *Handlers) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	notification, err := h.Notifications.MarkAsRead(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, notificationdomain.ErrNotificationNotFound) {
			commonhandler.WriteNotFound(w, h.log, "notifications.mark_read", "notification_not_found", err, "user_id", actor.UserID, "notification_id", id)
			return
		}
		commonhandler.WriteServiceError(w, h.log, "notifications.mark_read", err, "user_id", actor.UserID, "notification_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationResponse(*notification))
}

func (h *Handlers) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.Notifications.MarkAllAsRead(r.Context(), actor)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "notifications.mark_all_read", err, "user_id", actor.UserID)
		return
	}

	writeJSON(w, http.StatusOK, markAllResponse{Updated: updated})
}

func toNotificationResponse(notification notificationdomain.Notification) notificationResponse {
	return notificationResponse{
		ID:          notification.ID,
		Type:        notification.Type,
		Title:       notification.Title,
		Content:     notification.Content,
		RelatedID:   notification.RelatedID,
		RelatedType: notification.RelatedType,
		IsRead:      notification.IsRead,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}
