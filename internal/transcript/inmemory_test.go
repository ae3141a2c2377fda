package transcript

import (
	"context"
	"testing"
)

func TestInMemoryStoreSaveAndRecent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		err := store.SaveTurn(ctx, TurnRecord{SessionID: "s1", Role: "user", Content: content})
		if err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}
	if err := store.SaveTurn(ctx, TurnRecord{SessionID: "s2", Role: "user", Content: "other session"}); err != nil {
		t.Fatalf("SaveTurn() error = %v", err)
	}

	got, err := store.Recent(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Content != "second" || got[1].Content != "third" {
		t.Fatalf("Recent() = %+v, want the last two in order", got)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("record not filled in: %+v", got[0])
	}
}

func TestInMemoryStoreRecentUnknownSession(t *testing.T) {
	store := NewInMemoryStore()
	got, err := store.Recent(context.Background(), "nope", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Recent() = %v, want nil", got)
	}
}

func TestNewStoreDefaultsToInMemory(t *testing.T) {
	store, err := NewStore(context.Background(), "   ")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, ok := store.(*InMemoryStore); !ok {
		t.Fatalf("store type = %T, want *InMemoryStore", store)
	}
}
