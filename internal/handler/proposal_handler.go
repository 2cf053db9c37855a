package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/service"
)

type ProposalHandler struct {
	svc service.ProposalService
}

func NewProposalHandler(svc service.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

type ProposalItemResponse struct {
	ID        uint64 `json:"id"`
	ListingID uint64 `json:"listingId"`
	Side      string `json:"side"`
}

type ProposalResponse struct {
	ID          uint64                 `json:"id"`
	ListingID   uint64                 `json:"listingId"`
	ProposerUID string                 `json:"proposerUid"`
	ReceiverUID string                 `json:"receiverUid"`
	Message     string                 `json:"message"`
	Status      string                 `json:"status"`
	Items       []ProposalItemResponse `json:"items"`
	CreatedAt   string                 `json:"createdAt"`
	UpdatedAt   string                 `json:"updatedAt"`
}

type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Total     int64              `json:"total"`
}

func toProposalResponse(p *model.Proposal) ProposalResponse {
	items := make([]ProposalItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, ProposalItemResponse{
			ID:        item.ID,
			ListingID: item.ListingID,
			Side:      string(item.Side),
		})
	}
	return ProposalResponse{
		ID:          p.ID,
		ListingID:   p.ListingID,
		ProposerUID: p.ProposerUID,
		ReceiverUID: p.ReceiverUID,
		Message:     p.Message,
		Status:      string(p.Status),
		Items:       items,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateProposalRequest struct {
	ListingID         uint64   `json:"listingId"`
	OfferedListingIDs []uint64 `json:"offeredListingIds"`
	Message           string   `json:"message"`
}

func (h *ProposalHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	p, err := h.svc.Create(c.Request().Context(), uid, req.ListingID, req.OfferedListingIDs, req.Message)
	if err != nil {
		return respondServiceError(c, err, "proposal rejected")
	}
	return c.JSON(http.StatusCreated, toProposalResponse(p))
}

func (h *ProposalHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposal id"))
	}
	p, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err, "proposal not found")
	}
	return c.JSON(http.StatusOK, toProposalResponse(p))
}

type SwapRef struct {
	SwapID uint64 `json:"swapId"`
}

type AcceptProposalResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Swap     SwapRef          `json:"swap"`
}

func (h *ProposalHandler) Accept(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposal id"))
	}
	p, sw, err := h.svc.Accept(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err, "proposal not acceptable")
	}
	return c.JSON(http.StatusOK, AcceptProposalResponse{
		Proposal: toProposalResponse(p),
		Swap:     SwapRef{SwapID: sw.ID},
	})
}

func (h *ProposalHandler) Reject(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid proposal id"))
	}
	p, err := h.svc.Reject(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err, "proposal not rejectable")
	}
	return c.JSON(http.StatusOK, toProposalResponse(p))
}

func (h *ProposalHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	proposals, total, err := h.svc.ListMine(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch proposals"))
	}
	return c.JSON(http.StatusOK, toProposalListResponse(proposals, total))
}

func (h *ProposalHandler) ListReceived(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	proposals, total, err := h.svc.ListReceived(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch proposals"))
	}
	return c.JSON(http.StatusOK, toProposalListResponse(proposals, total))
}

func (h *ProposalHandler) ListByListing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	proposals, total, err := h.svc.ListByListing(c.Request().Context(), listingID, uid, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "listing not found")
	}
	return c.JSON(http.StatusOK, toProposalListResponse(proposals, total))
}

func toProposalListResponse(proposals []model.Proposal, total int64) ProposalListResponse {
	resp := ProposalListResponse{
		Proposals: make([]ProposalResponse, 0, len(proposals)),
		Total:     total,
	}
	for i := range proposals {
		resp.Proposals = append(resp.Proposals, toProposalResponse(&proposals[i]))
	}
	return resp
}
