package tracking

import (
	"testing"
	"time"
)

func TestStoreCreateGetDelete(t *testing.T) {
	s := NewStore(time.Minute)

	sess := s.Create(map[string]string{"sid": "abc"}, map[string]string{"token": "xyz"})
	if sess.ID == "" {
		t.Fatal("empty session id")
	}

	got := s.Get(sess.ID)
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Cookies["sid"] != "abc" || got.FormState["token"] != "xyz" {
		t.Errorf("artifacts lost: %+v", got)
	}

	s.Delete(sess.ID)
	if s.Get(sess.ID) != nil {
		t.Error("session survived delete")
	}
	if s.Get("no-such-id") != nil {
		t.Error("unknown id returned a session")
	}
}

func TestStoreTTL(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old := s.Create(nil, nil)

	now = now.Add(30 * time.Second)
	fresh := s.Create(nil, nil)

	if s.Get(old.ID) == nil {
		t.Error("session expired before its TTL")
	}

	// 90s after the first create: old is past the TTL, fresh is not.
	now = now.Add(time.Minute)
	if s.Get(old.ID) != nil {
		t.Error("expired session still returned")
	}
	if s.Get(fresh.ID) == nil {
		t.Error("live session evicted")
	}
	if n := s.Len(); n != 1 {
		t.Errorf("len = %d, want 1 after sweep", n)
	}
}
