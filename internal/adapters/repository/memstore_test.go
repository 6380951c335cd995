package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/wildcat/internal/domain/heat"
)

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	rec := Record{ID: "h1", Mode: heat.ModeSingle, Status: StatusPending}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	rec.Status = StatusScored
	rec.Heat = heat.Single{}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, "h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusScored || got.Heat == nil {
		t.Errorf("expected replaced record, got %+v", got)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("replacing should not grow the store, got %d", count)
	}
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, Record{}); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
	if _, err := store.List(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMemoryStore_ListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := range 5 {
		if err := store.Put(ctx, Record{ID: fmt.Sprintf("h%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 records, got %d", len(all))
	}
	for i, r := range all {
		if r.ID != fmt.Sprintf("h%d", i) {
			t.Errorf("expected insertion order, got %s at %d", r.ID, i)
		}
	}

	two, _ := store.List(ctx, 2)
	if len(two) != 2 || two[1].ID != "h1" {
		t.Errorf("expected first two records, got %+v", two)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := range 3 {
		_ = store.Put(ctx, Record{ID: fmt.Sprintf("h%d", i)})
	}

	if err := store.Delete(ctx, "h1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting an unknown id should succeed, got %v", err)
	}
	all, _ := store.List(ctx, 0)
	if len(all) != 2 || all[0].ID != "h0" || all[1].ID != "h2" {
		t.Errorf("expected h0, h2 to remain, got %+v", all)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithMaxHeats(3))
	for i := range 5 {
		_ = store.Put(ctx, Record{ID: fmt.Sprintf("h%d", i)})
	}

	if count := store.Count(ctx); count != 3 {
		t.Errorf("expected 3 records, got %d", count)
	}
	if _, err := store.Get(ctx, "h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected h1 evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "h4"); err != nil {
		t.Errorf("expected h4 kept, got %v", err)
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithMaxHeats(2))

	if err := store.Put(ctx, Record{ID: "h1", Status: StatusScored}); err != nil {
		t.Fatal(err)
	}
	ok, err := store.Insert(ctx, Record{ID: "h1", Status: StatusPending})
	if err != nil || ok {
		t.Fatalf("expected existing record to be kept, got ok=%v err=%v", ok, err)
	}
	if got, _ := store.Get(ctx, "h1"); got.Status != StatusScored {
		t.Errorf("insert replaced a stored record: %+v", got)
	}

	for _, id := range []string{"h2", "h3"} {
		ok, err := store.Insert(ctx, Record{ID: id, Status: StatusPending})
		if err != nil || !ok {
			t.Fatalf("insert %s: ok=%v err=%v", id, ok, err)
		}
	}
	if _, err := store.Get(ctx, "h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected h1 evicted by a new insert, got %v", err)
	}
	if _, err := store.Insert(ctx, Record{}); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 50 {
				id := fmt.Sprintf("w%d-h%d", w, i)
				_ = store.Put(ctx, Record{ID: id})
				if _, err := store.Get(ctx, id); err != nil {
					t.Errorf("get %s: %v", id, err)
				}
				_, _ = store.List(ctx, 10)
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 400 {
		t.Errorf("expected 400 records, got %d", count)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected empty store after close, got %d", count)
	}
}
