package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/service"
)

type ShipmentHandler struct {
	svc service.ShipmentService
}

func NewShipmentHandler(svc service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{svc: svc}
}

type ShipmentResponse struct {
	ID             uint64  `json:"id"`
	SwapID         uint64  `json:"swapId"`
	SenderUID      string  `json:"senderUid"`
	DeliveryMethod string  `json:"deliveryMethod"`
	MeetupLocation *string `json:"meetupLocation,omitempty"`
	MeetupTime     *string `json:"meetupTime,omitempty"`
	MeetupNotes    *string `json:"meetupNotes,omitempty"`
	PreferredStore *string `json:"preferredStore,omitempty"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`
	TrackingURL    *string `json:"trackingUrl,omitempty"`
	LastStatus     *string `json:"lastStatus,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toShipmentResponse(s *model.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID,
		SwapID:         s.SwapID,
		SenderUID:      s.SenderUID,
		DeliveryMethod: string(s.DeliveryMethod),
		MeetupLocation: s.MeetupLocation,
		MeetupTime:     formatTimePtr(s.MeetupTime),
		MeetupNotes:    s.MeetupNotes,
		PreferredStore: s.PreferredStore,
		TrackingNumber: s.TrackingNumber,
		TrackingURL:    s.TrackingURL,
		LastStatus:     s.LastStatus,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

type UpsertShipmentRequest struct {
	DeliveryMethod string     `json:"deliveryMethod"`
	MeetupLocation *string    `json:"meetupLocation"`
	MeetupTime     *time.Time `json:"meetupTime"`
	MeetupNotes    *string    `json:"meetupNotes"`
	PreferredStore *string    `json:"preferredStore"`
	TrackingNumber *string    `json:"trackingNumber"`
	TrackingURL    *string    `json:"trackingUrl"`
}

func (h *ShipmentHandler) UpsertMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	swapID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid swap id"))
	}
	var req UpsertShipmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	s, err := h.svc.UpsertMyShipment(c.Request().Context(), swapID, uid, service.UpsertShipmentInput{
		DeliveryMethod: req.DeliveryMethod,
		MeetupLocation: req.MeetupLocation,
		MeetupTime:     req.MeetupTime,
		MeetupNotes:    req.MeetupNotes,
		PreferredStore: req.PreferredStore,
		TrackingNumber: req.TrackingNumber,
		TrackingURL:    req.TrackingURL,
	})
	if err != nil {
		return respondServiceError(c, err, "shipment not saved")
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

func (h *ShipmentHandler) GetMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	swapID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid swap id"))
	}
	s, err := h.svc.GetMyShipment(c.Request().Context(), swapID, uid)
	if err != nil {
		return respondServiceError(c, err, "shipment not found")
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

func (h *ShipmentHandler) ListBySwap(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	swapID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid swap id"))
	}
	shipments, err := h.svc.ListShipments(c.Request().Context(), swapID, uid)
	if err != nil {
		return respondServiceError(c, err, "swap not found")
	}
	resp := make([]ShipmentResponse, 0, len(shipments))
	for i := range shipments {
		resp = append(resp, toShipmentResponse(&shipments[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type ShipmentEventResponse struct {
	ID         uint64  `json:"id"`
	ShipmentID uint64  `json:"shipmentId"`
	Status     string  `json:"status"`
	Note       *string `json:"note,omitempty"`
	OccurredAt string  `json:"occurredAt"`
	CreatedAt  string  `json:"createdAt"`
}

func toShipmentEventResponse(ev *model.ShipmentEvent) ShipmentEventResponse {
	return ShipmentEventResponse{
		ID:         ev.ID,
		ShipmentID: ev.ShipmentID,
		Status:     ev.Status,
		Note:       ev.Note,
		OccurredAt: ev.OccurredAt.Format(time.RFC3339),
		CreatedAt:  ev.CreatedAt.Format(time.RFC3339),
	}
}

type CreateShipmentEventRequest struct {
	Status     string     `json:"status"`
	Note       *string    `json:"note"`
	OccurredAt *time.Time `json:"occurredAt"`
}

func (h *ShipmentHandler) AddEvent(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid shipment id"))
	}
	var req CreateShipmentEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	ev, err := h.svc.AddEvent(c.Request().Context(), shipmentID, uid, req.Status, req.Note, req.OccurredAt)
	if err != nil {
		return respondServiceError(c, err, "shipment not found")
	}
	return c.JSON(http.StatusCreated, toShipmentEventResponse(ev))
}

func (h *ShipmentHandler) ListEvents(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	shipmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid shipment id"))
	}
	events, err := h.svc.ListEvents(c.Request().Context(), shipmentID, uid)
	if err != nil {
		return respondServiceError(c, err, "shipment not found")
	}
	resp := make([]ShipmentEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toShipmentEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
