package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/service"
)

type SwapHandler struct {
	svc service.SwapService
}

func NewSwapHandler(svc service.SwapService) *SwapHandler {
	return &SwapHandler{svc: svc}
}

type SwapResponse struct {
	ID           uint64  `json:"id"`
	ProposalID   uint64  `json:"proposalId"`
	ListingID    uint64  `json:"listingId"`
	AUserUID     string  `json:"aUserUid"`
	BUserUID     string  `json:"bUserUid"`
	Status       string  `json:"status"`
	AConfirmedAt *string `json:"aConfirmedAt,omitempty"`
	BConfirmedAt *string `json:"bConfirmedAt,omitempty"`
	CompletedAt  *string `json:"completedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type SwapListResponse struct {
	Swaps []SwapResponse `json:"swaps"`
	Total int64          `json:"total"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	val := t.Format(time.RFC3339)
	return &val
}

func toSwapResponse(s *model.Swap) SwapResponse {
	return SwapResponse{
		ID:           s.ID,
		ProposalID:   s.ProposalID,
		ListingID:    s.ListingID,
		AUserUID:     s.AUserUID,
		BUserUID:     s.BUserUID,
		Status:       string(s.Status),
		AConfirmedAt: formatTimePtr(s.AConfirmedAt),
		BConfirmedAt: formatTimePtr(s.BConfirmedAt),
		CompletedAt:  formatTimePtr(s.CompletedAt),
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *SwapHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid swap id"))
	}
	s, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err, "swap not found")
	}
	return c.JSON(http.StatusOK, toSwapResponse(s))
}

func (h *SwapHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	swaps, total, err := h.svc.ListMine(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch swaps"))
	}
	resp := SwapListResponse{
		Swaps: make([]SwapResponse, 0, len(swaps)),
		Total: total,
	}
	for i := range swaps {
		resp.Swaps = append(resp.Swaps, toSwapResponse(&swaps[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SwapHandler) ConfirmReceived(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid swap id"))
	}
	s, err := h.svc.ConfirmReceived(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err, "swap not found")
	}
	return c.JSON(http.StatusOK, toSwapResponse(s))
}
