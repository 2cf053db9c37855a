package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

func strPtr(s string) *string { return &s }

func newShipmentFixture(t *testing.T) (ShipmentService, *swapFixture) {
	t.Helper()
	f := newSwapFixture(t)
	svc := NewShipmentService(
		f.deps.db,
		repository.NewShipmentRepository(f.deps.db),
		repository.NewSwapRepository(f.deps.db),
		f.deps.notifier,
	)
	return svc, f
}

func TestShipmentServiceUpsertValidation(t *testing.T) {
	svc, f := newShipmentFixture(t)
	ctx := context.Background()

	if _, err := svc.UpsertMyShipment(ctx, 9999, "alice", UpsertShipmentInput{DeliveryMethod: "SHIPNOW"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown swap: got %v, want ErrNotFound", err)
	}
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "mallory", UpsertShipmentInput{DeliveryMethod: "SHIPNOW"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: got %v, want ErrForbidden", err)
	}
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "alice", UpsertShipmentInput{DeliveryMethod: "CARRIER_PIGEON"}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("unknown method: got %v, want ErrBadRequest", err)
	}
}

func TestShipmentServiceUpsertMethodFields(t *testing.T) {
	svc, f := newShipmentFixture(t)
	ctx := context.Background()
	meetAt := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	// SHIPNOW input carrying meetup fields: those must come out null.
	sh, err := svc.UpsertMyShipment(ctx, f.swap.ID, "alice", UpsertShipmentInput{
		DeliveryMethod: "shipnow",
		MeetupLocation: strPtr("station west exit"),
		MeetupTime:     &meetAt,
		PreferredStore: strPtr("store-001"),
		TrackingNumber: strPtr("TRK123"),
	})
	if err != nil {
		t.Fatalf("upsert shipnow: %v", err)
	}
	if sh.DeliveryMethod != model.DeliveryShipNow {
		t.Errorf("method = %s, want SHIPNOW (case-insensitive parse)", sh.DeliveryMethod)
	}
	if sh.MeetupLocation != nil || sh.MeetupTime != nil {
		t.Errorf("meetup fields survived a SHIPNOW upsert: %v %v", sh.MeetupLocation, sh.MeetupTime)
	}
	if sh.PreferredStore == nil || sh.TrackingNumber == nil {
		t.Errorf("shipnow fields dropped: %v %v", sh.PreferredStore, sh.TrackingNumber)
	}

	// Switching to FACE_TO_FACE clears the shipping side.
	sh, err = svc.UpsertMyShipment(ctx, f.swap.ID, "alice", UpsertShipmentInput{
		DeliveryMethod: "FACE_TO_FACE",
		MeetupLocation: strPtr("station west exit"),
		MeetupTime:     &meetAt,
		TrackingNumber: strPtr("TRK123"),
	})
	if err != nil {
		t.Fatalf("upsert face-to-face: %v", err)
	}
	if sh.PreferredStore != nil || sh.TrackingNumber != nil || sh.TrackingURL != nil {
		t.Errorf("shipping fields survived a FACE_TO_FACE upsert")
	}
	if sh.MeetupLocation == nil || *sh.MeetupLocation != "station west exit" {
		t.Errorf("meetup location = %v", sh.MeetupLocation)
	}

	// Still one shipment row per sender.
	list, err := svc.ListShipments(ctx, f.swap.ID, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("shipments = %d, want 1", len(list))
	}
}

func TestShipmentServiceTrackingNotification(t *testing.T) {
	svc, f := newShipmentFixture(t)
	ctx := context.Background()

	// No tracking number yet, so nothing to announce.
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "bob", UpsertShipmentInput{DeliveryMethod: "SHIPNOW"}); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}
	if got := f.deps.notifier.byKind(notify.KindShipmentSent); len(got) != 0 {
		t.Fatalf("premature shipment-sent events: %+v", got)
	}

	// The null -> non-null tracking transition notifies the counterpart.
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "bob", UpsertShipmentInput{
		DeliveryMethod: "SHIPNOW",
		TrackingNumber: strPtr("TRK999"),
	}); err != nil {
		t.Fatalf("tracking upsert: %v", err)
	}
	got := f.deps.notifier.byKind(notify.KindShipmentSent)
	if len(got) != 1 || got[0].RecipientUID != "alice" {
		t.Fatalf("shipment-sent events = %+v, want one to alice", got)
	}

	// Re-saving with the number already set does not notify again.
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "bob", UpsertShipmentInput{
		DeliveryMethod: "SHIPNOW",
		TrackingNumber: strPtr("TRK999"),
	}); err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}
	if got := f.deps.notifier.byKind(notify.KindShipmentSent); len(got) != 1 {
		t.Errorf("shipment-sent events = %d, want still 1", len(got))
	}
}

func TestShipmentServiceGetMine(t *testing.T) {
	svc, f := newShipmentFixture(t)
	ctx := context.Background()

	if _, err := svc.GetMyShipment(ctx, f.swap.ID, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("no shipment yet: got %v, want ErrNotFound", err)
	}
	if _, err := svc.UpsertMyShipment(ctx, f.swap.ID, "alice", UpsertShipmentInput{DeliveryMethod: "SHIPNOW"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	sh, err := svc.GetMyShipment(ctx, f.swap.ID, "alice")
	if err != nil {
		t.Fatalf("get mine: %v", err)
	}
	if sh.SenderUID != "alice" {
		t.Errorf("sender = %q", sh.SenderUID)
	}
	// Each participant only sees their own declaration here.
	if _, err := svc.GetMyShipment(ctx, f.swap.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("counterpart's get-mine: got %v, want ErrNotFound", err)
	}
}

func TestShipmentServiceEvents(t *testing.T) {
	svc, f := newShipmentFixture(t)
	ctx := context.Background()

	sh, err := svc.UpsertMyShipment(ctx, f.swap.ID, "bob", UpsertShipmentInput{
		DeliveryMethod: "SHIPNOW",
		TrackingNumber: strPtr("TRK1"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := svc.AddEvent(ctx, sh.ID, "alice", "IN_TRANSIT", nil, nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("counterpart adding event: got %v, want ErrForbidden", err)
	}
	if _, err := svc.AddEvent(ctx, sh.ID, "bob", "   ", nil, nil); !errors.Is(err, ErrBadRequest) {
		t.Errorf("blank status: got %v, want ErrBadRequest", err)
	}
	if _, err := svc.AddEvent(ctx, 9999, "bob", "IN_TRANSIT", nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown shipment: got %v, want ErrNotFound", err)
	}

	early := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)
	if _, err := svc.AddEvent(ctx, sh.ID, "bob", "IN_TRANSIT", strPtr("left depot"), &early); err != nil {
		t.Fatalf("add event: %v", err)
	}
	if _, err := svc.AddEvent(ctx, sh.ID, "bob", "DELIVERED", nil, &late); err != nil {
		t.Fatalf("add event: %v", err)
	}

	// Both participants can read the history, oldest first.
	for _, uid := range []string{"alice", "bob"} {
		events, err := svc.ListEvents(ctx, sh.ID, uid)
		if err != nil {
			t.Fatalf("list events as %s: %v", uid, err)
		}
		if len(events) != 2 || events[0].Status != "IN_TRANSIT" || events[1].Status != "DELIVERED" {
			t.Errorf("as %s: events out of order: %+v", uid, events)
		}
	}
	if _, err := svc.ListEvents(ctx, sh.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger listing events: got %v, want ErrForbidden", err)
	}

	got, err := svc.GetMyShipment(ctx, f.swap.ID, "bob")
	if err != nil {
		t.Fatalf("reload shipment: %v", err)
	}
	if got.LastStatus == nil || *got.LastStatus != "DELIVERED" {
		t.Errorf("lastStatus = %v, want DELIVERED", got.LastStatus)
	}
}
