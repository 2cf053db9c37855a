package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&model.Listing{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

func TestListingRepositoryConditionalTransitions(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewListingRepository(gdb)
	ctx := context.Background()

	l := &model.Listing{OwnerUID: "u1", Title: "Chair", Status: model.ListingStatusAvailable}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := repo.LockIfAvailable(ctx, l.ID, 42)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if rows != 1 {
		t.Fatalf("lock rows = %d, want 1", rows)
	}

	// The second lock finds no AVAILABLE row; this is the accept race.
	rows, err = repo.LockIfAvailable(ctx, l.ID, 43)
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	if rows != 0 {
		t.Fatalf("relock rows = %d, want 0", rows)
	}

	got, err := repo.FindByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.ListingStatusLocked {
		t.Errorf("status = %s, want LOCKED", got.Status)
	}
	if got.LockedByProposalID == nil || *got.LockedByProposalID != 42 {
		t.Errorf("lockedByProposalId = %v, want 42 (first winner)", got.LockedByProposalID)
	}

	// Edits and deletes are refused while locked.
	if rows, err = repo.UpdateIfAvailable(ctx, l.ID, map[string]interface{}{"title": "New"}); err != nil || rows != 0 {
		t.Errorf("update while locked: rows=%d err=%v, want 0,nil", rows, err)
	}
	if rows, err = repo.MarkDeletedIfAvailable(ctx, l.ID); err != nil || rows != 0 {
		t.Errorf("delete while locked: rows=%d err=%v, want 0,nil", rows, err)
	}

	if rows, err = repo.MarkTradedIfLocked(ctx, l.ID); err != nil || rows != 1 {
		t.Fatalf("mark traded: rows=%d err=%v, want 1,nil", rows, err)
	}
	if rows, err = repo.MarkTradedIfLocked(ctx, l.ID); err != nil || rows != 0 {
		t.Errorf("second mark traded: rows=%d err=%v, want 0,nil", rows, err)
	}
}

func TestListingRepositoryUnlock(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewListingRepository(gdb)
	ctx := context.Background()

	l := &model.Listing{OwnerUID: "u1", Title: "Lamp", Status: model.ListingStatusAvailable}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.LockIfAvailable(ctx, l.ID, 7); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := repo.Unlock(ctx, l.ID); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	got, err := repo.FindByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.ListingStatusAvailable {
		t.Errorf("status = %s, want AVAILABLE", got.Status)
	}
	if got.LockedByProposalID != nil {
		t.Errorf("lockedByProposalId = %v, want nil", got.LockedByProposalID)
	}
}
