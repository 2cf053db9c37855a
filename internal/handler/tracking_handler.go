package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/tracking"
)

// TrackingHandler exposes the carrier-lookup session store. The frontend
// fetches the carrier captcha itself, parks the cookies and form state here,
// and replays them on the query step.
type TrackingHandler struct {
	store *tracking.Store
}

func NewTrackingHandler(store *tracking.Store) *TrackingHandler {
	return &TrackingHandler{store: store}
}

type CreateTrackingSessionRequest struct {
	Cookies   map[string]string `json:"cookies"`
	FormState map[string]string `json:"formState"`
}

type TrackingSessionResponse struct {
	SessionID string            `json:"sessionId"`
	Cookies   map[string]string `json:"cookies"`
	FormState map[string]string `json:"formState"`
	CreatedAt string            `json:"createdAt"`
}

func toTrackingSessionResponse(sess *tracking.Session) TrackingSessionResponse {
	return TrackingSessionResponse{
		SessionID: sess.ID,
		Cookies:   sess.Cookies,
		FormState: sess.FormState,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
	}
}

func (h *TrackingHandler) CreateSession(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateTrackingSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	sess := h.store.Create(req.Cookies, req.FormState)
	return c.JSON(http.StatusCreated, toTrackingSessionResponse(sess))
}

func (h *TrackingHandler) GetSession(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "session expired or unknown"))
	}
	return c.JSON(http.StatusOK, toTrackingSessionResponse(sess))
}

func (h *TrackingHandler) DeleteSession(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	h.store.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
