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

// swapFixture is an accepted proposal ready for confirmations: alice owns the
// target, bob offered one listing.
type swapFixture struct {
	svc       *swapService
	deps      *testDeps
	swap      *model.Swap
	targetID  uint64
	offeredID uint64
}

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()
	gdb := setupTestDB(t)
	deps := &testDeps{db: gdb, notifier: &recordingNotifier{}, chat: &recordingChat{}}

	proposalRepo := repository.NewProposalRepository(gdb)
	listingRepo := repository.NewListingRepository(gdb)
	swapRepo := repository.NewSwapRepository(gdb)

	proposals := NewProposalService(gdb, proposalRepo, listingRepo, swapRepo, deps.notifier)
	swaps := NewSwapService(gdb, swapRepo, proposalRepo, listingRepo, deps.chat, deps.notifier).(*swapService)

	ctx := context.Background()
	target := mustCreateListing(t, gdb, "alice", "Target", model.ListingStatusAvailable)
	offered := mustCreateListing(t, gdb, "bob", "Offered", model.ListingStatusAvailable)
	p, err := proposals.Create(ctx, "bob", target.ID, []uint64{offered.ID}, "")
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	_, sw, err := proposals.Accept(ctx, p.ID, "alice")
	if err != nil {
		t.Fatalf("accept proposal: %v", err)
	}

	return &swapFixture{svc: swaps, deps: deps, swap: sw, targetID: target.ID, offeredID: offered.ID}
}

func TestSwapServiceGetAccess(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	for _, uid := range []string{"alice", "bob"} {
		if _, err := f.svc.Get(ctx, f.swap.ID, uid); err != nil {
			t.Errorf("get as %s: %v", uid, err)
		}
	}
	if _, err := f.svc.Get(ctx, f.swap.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Errorf("get as stranger: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Get(ctx, 9999, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown swap: got %v, want ErrNotFound", err)
	}
}

func TestSwapServiceConfirmFirstSide(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	sw, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "alice")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sw.Status != model.SwapStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS after one confirmation", sw.Status)
	}
	if sw.AConfirmedAt == nil || sw.BConfirmedAt != nil || sw.CompletedAt != nil {
		t.Errorf("timestamps = %v/%v/%v, want only A set", sw.AConfirmedAt, sw.BConfirmedAt, sw.CompletedAt)
	}
	if len(f.deps.chat.swapIDs) != 0 {
		t.Errorf("chat signaled before completion: %v", f.deps.chat.swapIDs)
	}
	// Listings stay locked until both sides confirm.
	if l := mustReloadListing(t, f.deps.db, f.targetID); l.Status != model.ListingStatusLocked {
		t.Errorf("target = %s, want LOCKED", l.Status)
	}
}

func TestSwapServiceConfirmBothOrders(t *testing.T) {
	orders := map[string][2]string{
		"owner first":    {"alice", "bob"},
		"proposer first": {"bob", "alice"},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			f := newSwapFixture(t)
			ctx := context.Background()

			if _, err := f.svc.ConfirmReceived(ctx, f.swap.ID, order[0]); err != nil {
				t.Fatalf("first confirm: %v", err)
			}
			sw, err := f.svc.ConfirmReceived(ctx, f.swap.ID, order[1])
			if err != nil {
				t.Fatalf("second confirm: %v", err)
			}

			if sw.Status != model.SwapStatusCompleted {
				t.Errorf("status = %s, want COMPLETED", sw.Status)
			}
			if sw.AConfirmedAt == nil || sw.BConfirmedAt == nil || sw.CompletedAt == nil {
				t.Errorf("timestamps incomplete: %v/%v/%v", sw.AConfirmedAt, sw.BConfirmedAt, sw.CompletedAt)
			}
			for _, id := range []uint64{f.targetID, f.offeredID} {
				if l := mustReloadListing(t, f.deps.db, id); l.Status != model.ListingStatusTraded {
					t.Errorf("listing %d = %s, want TRADED", id, l.Status)
				}
			}
			if len(f.deps.chat.swapIDs) != 1 || f.deps.chat.swapIDs[0] != sw.ID {
				t.Errorf("chat signals = %v, want one for swap %d", f.deps.chat.swapIDs, sw.ID)
			}
			events := f.deps.notifier.byKind(notify.KindSwapCompleted)
			if len(events) != 2 {
				t.Errorf("swap-completed events = %d, want 2", len(events))
			}
		})
	}
}

func TestSwapServiceConfirmIdempotent(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }

	first, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "alice")
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	// A repeat confirmation later must not move the recorded timestamp.
	f.svc.now = func() time.Time { return base.Add(time.Hour) }
	second, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "alice")
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if second.Status != model.SwapStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", second.Status)
	}
	if !second.AConfirmedAt.Equal(*first.AConfirmedAt) {
		t.Errorf("aConfirmedAt moved: %v -> %v", first.AConfirmedAt, second.AConfirmedAt)
	}

	done, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "bob")
	if err != nil {
		t.Fatalf("completing confirm: %v", err)
	}
	if done.Status != model.SwapStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", done.Status)
	}

	// Confirming an already-completed swap changes nothing further.
	again, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "bob")
	if err != nil {
		t.Fatalf("post-completion confirm: %v", err)
	}
	if !again.CompletedAt.Equal(*done.CompletedAt) {
		t.Errorf("completedAt moved: %v -> %v", done.CompletedAt, again.CompletedAt)
	}
	if len(f.deps.chat.swapIDs) != 1 {
		t.Errorf("chat signaled %d times, want once", len(f.deps.chat.swapIDs))
	}
}

func TestSwapServiceConfirmAccess(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ConfirmReceived(ctx, f.swap.ID, "mallory"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger confirm: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.ConfirmReceived(ctx, 9999, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown swap: got %v, want ErrNotFound", err)
	}
}

func TestSwapServiceListMine(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()

	for _, uid := range []string{"alice", "bob"} {
		list, total, err := f.svc.ListMine(ctx, uid, 20, 0)
		if err != nil {
			t.Fatalf("list mine as %s: %v", uid, err)
		}
		if total != 1 || len(list) != 1 {
			t.Errorf("as %s: %d rows (total %d), want 1", uid, len(list), total)
		}
	}
	list, total, err := f.svc.ListMine(ctx, "mallory", 20, 0)
	if err != nil {
		t.Fatalf("list mine as stranger: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Errorf("stranger sees %d swaps", len(list))
	}
}
