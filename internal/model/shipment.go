package model

import (
	"strings"
	"time"
)

type DeliveryMethod string

const (
	DeliveryFaceToFace DeliveryMethod = "FACE_TO_FACE"
	DeliveryShipNow    DeliveryMethod = "SHIPNOW"
)

// ParseDeliveryMethod resolves a client-supplied method string
// case-insensitively. The second return is false for unknown values.
func ParseDeliveryMethod(raw string) (DeliveryMethod, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FACE_TO_FACE":
		return DeliveryFaceToFace, true
	case "SHIPNOW":
		return DeliveryShipNow, true
	}
	return "", false
}

// Shipment is one participant's delivery declaration for a swap, unique per
// (swap, sender). Fields that do not apply to the active delivery method are
// kept null: meetup fields belong to FACE_TO_FACE, store/tracking fields to
// SHIPNOW.
type Shipment struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement"`
	SwapID         uint64         `gorm:"column:swap_id;uniqueIndex:uk_shipments_swap_sender;not null"`
	SenderUID      string         `gorm:"column:sender_uid;size:128;uniqueIndex:uk_shipments_swap_sender;not null"`
	DeliveryMethod DeliveryMethod `gorm:"column:delivery_method;size:32;not null"`
	MeetupLocation *string        `gorm:"column:meetup_location;size:500"`
	MeetupTime     *time.Time     `gorm:"column:meetup_time"`
	MeetupNotes    *string        `gorm:"column:meetup_notes;type:text"`
	PreferredStore *string        `gorm:"column:preferred_store;size:500"`
	TrackingNumber *string        `gorm:"column:tracking_number;size:64"`
	TrackingURL    *string        `gorm:"column:tracking_url;size:512"`
	LastStatus     *string        `gorm:"column:last_status;size:64"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentEvent is an append-only audit entry for a shipment. The owning
// shipment's LastStatus always mirrors the status of the newest event.
type ShipmentEvent struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ShipmentID uint64    `gorm:"column:shipment_id;index;not null"`
	Status     string    `gorm:"size:64;not null"`
	Note       *string   `gorm:"size:500"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ShipmentEvent) TableName() string {
	return "shipment_events"
}
