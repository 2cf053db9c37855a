package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache databases keep one in-memory instance per test across
	// the pool's connections.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&model.Listing{},
		&model.Proposal{},
		&model.ProposalItem{},
		&model.Swap{},
		&model.Shipment{},
		&model.ShipmentEvent{},
		&model.NotificationEvent{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

// testDeps bundles the fixtures a service test pokes at directly.
type testDeps struct {
	db       *gorm.DB
	notifier *recordingNotifier
	chat     *recordingChat
}

// recordingNotifier collects emitted events instead of writing the outbox.
type recordingNotifier struct {
	events []notify.Event
}

func (n *recordingNotifier) Emit(_ context.Context, ev notify.Event) {
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) byKind(kind notify.Kind) []notify.Event {
	var out []notify.Event
	for _, ev := range n.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

type recordingChat struct {
	swapIDs []uint64
}

func (c *recordingChat) SetReadOnly(_ context.Context, swapID uint64) {
	c.swapIDs = append(c.swapIDs, swapID)
}

func mustCreateListing(t *testing.T, gdb *gorm.DB, ownerUID, title string, status model.ListingStatus) *model.Listing {
	t.Helper()
	l := &model.Listing{
		OwnerUID:    ownerUID,
		Title:       title,
		Description: "test listing",
		Status:      status,
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("create listing %q: %v", title, err)
	}
	return l
}

func mustReloadListing(t *testing.T, gdb *gorm.DB, id uint64) *model.Listing {
	t.Helper()
	var l model.Listing
	if err := gdb.First(&l, id).Error; err != nil {
		t.Fatalf("reload listing %d: %v", id, err)
	}
	return &l
}
