package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
}

func NewNotificationHandler(repo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

type NotificationEventResponse struct {
	ID         uint64            `json:"id"`
	Kind       string            `json:"kind"`
	EntityType string            `json:"entityType"`
	EntityID   uint64            `json:"entityId"`
	Params     map[string]string `json:"params,omitempty"`
	CreatedAt  string            `json:"createdAt"`
}

func toNotificationEventResponse(n *model.NotificationEvent) NotificationEventResponse {
	var params map[string]string
	if n.Params != "" {
		_ = json.Unmarshal([]byte(n.Params), &params)
	}
	return NotificationEventResponse{
		ID:         n.ID,
		Kind:       n.Kind,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Params:     params,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
}

func (h *NotificationHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.repo.ListByRecipient(c.Request().Context(), uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch notifications"))
	}
	resp := make([]NotificationEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toNotificationEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
