package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingResponse struct {
	ID                 uint64  `json:"id"`
	OwnerUID           string  `json:"ownerUid"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	ImageURL           *string `json:"imageUrl,omitempty"`
	Status             string  `json:"status"`
	LockedByProposalID *uint64 `json:"lockedByProposalId,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

func toListingResponse(l *model.Listing) ListingResponse {
	return ListingResponse{
		ID:                 l.ID,
		OwnerUID:           l.OwnerUID,
		Title:              l.Title,
		Description:        l.Description,
		ImageURL:           l.ImageURL,
		Status:             string(l.Status),
		LockedByProposalID: l.LockedByProposalID,
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          l.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Create(c.Request().Context(), uid, req.Title, req.Description, req.ImageURL)
	if err != nil {
		return respondServiceError(c, err, "invalid listing")
	}
	return c.JSON(http.StatusCreated, toListingResponse(l))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	l, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "listing not found")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

type UpdateListingRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Update(c.Request().Context(), id, uid, service.ListingPatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err, "listing not editable")
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *ListingHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		return respondServiceError(c, err, "listing not deletable")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ListingHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	q := c.QueryParam("q")

	excludeOwner := ""
	if c.QueryParam("excludeMine") == "true" {
		excludeOwner = uid
	}

	listings, total, err := h.svc.List(c.Request().Context(), limit, offset, q, excludeOwner)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, toListingListResponse(listings, total))
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	listings, total, err := h.svc.ListMine(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, toListingListResponse(listings, total))
}

func toListingListResponse(listings []model.Listing, total int64) ListingListResponse {
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i]))
	}
	return resp
}
