package session

import (
	"testing"
	"time"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(time.Minute)
	created := m.Create("u1")
	if created.ID == "" {
		t.Fatalf("expected session id")
	}
	if created.Status != StatusActive {
		t.Fatalf("Status = %q, want %q", created.Status, StatusActive)
	}

	got, err := m.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("UserID = %q, want u1", got.UserID)
	}

	if _, err := m.Get("missing"); err != ErrNotFound {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestManagerGetReturnsCopy(t *testing.T) {
	m := NewManager(time.Minute)
	created := m.Create("u1")

	got, _ := m.Get(created.ID)
	got.Status = StatusEnded

	again, _ := m.Get(created.ID)
	if again.Status != StatusActive {
		t.Fatalf("mutating a returned session leaked into the manager")
	}
}

func TestManagerTurnLifecycle(t *testing.T) {
	m := NewManager(time.Minute)
	created := m.Create("u1")

	if err := m.StartTurn(created.ID, "t1"); err != nil {
		t.Fatalf("StartTurn() error = %v", err)
	}
	got, _ := m.Get(created.ID)
	if got.ActiveTurnID != "t1" {
		t.Fatalf("ActiveTurnID = %q, want t1", got.ActiveTurnID)
	}

	if err := m.FinishTurn(created.ID); err != nil {
		t.Fatalf("FinishTurn() error = %v", err)
	}
	got, _ = m.Get(created.ID)
	if got.ActiveTurnID != "" {
		t.Fatalf("ActiveTurnID = %q, want empty after finish", got.ActiveTurnID)
	}
}

func TestManagerEnd(t *testing.T) {
	m := NewManager(time.Minute)
	created := m.Create("u1")

	ended, err := m.End(created.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("Status = %q, want %q", ended.Status, StatusEnded)
	}
	if m.ActiveCount() != 0 {
		t.Fatalf("ActiveCount() = %d, want 0", m.ActiveCount())
	}

	if _, err := m.End("missing"); err != ErrNotFound {
		t.Fatalf("End(missing) error = %v, want ErrNotFound", err)
	}
}

func TestManagerExpiresInactiveSessions(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	created := m.Create("u1")

	var expired []string
	m.SetExpireHook(func(s *Session) {
		expired = append(expired, s.ID)
	})

	// Backdate the activity stamp instead of sleeping.
	m.mu.Lock()
	m.sessions[created.ID].LastActivityAt = time.Now().UTC().Add(-time.Minute)
	m.mu.Unlock()

	m.expireInactive()

	got, _ := m.Get(created.ID)
	if got.Status != StatusEnded {
		t.Fatalf("Status = %q, want %q", got.Status, StatusEnded)
	}
	if len(expired) != 1 || expired[0] != created.ID {
		t.Fatalf("expire hook calls = %v, want [%s]", expired, created.ID)
	}

	// Already-ended sessions are not expired twice.
	expired = nil
	m.expireInactive()
	if len(expired) != 0 {
		t.Fatalf("expire hook re-fired on ended session: %v", expired)
	}
}

func TestManagerTouchRefreshesActivity(t *testing.T) {
	m := NewManager(time.Minute)
	created := m.Create("u1")

	m.mu.Lock()
	m.sessions[created.ID].LastActivityAt = time.Now().UTC().Add(-time.Hour)
	m.mu.Unlock()

	if err := m.Touch(created.ID); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	m.expireInactive()
	got, _ := m.Get(created.ID)
	if got.Status != StatusActive {
		t.Fatalf("Status = %q, want still active after touch", got.Status)
	}
}
