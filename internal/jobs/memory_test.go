package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	analysis := &Analysis{
		DocumentID: "doc-1",
		Status:     StatusProcessing,
		Filename:   "lease.txt",
		CreatedAt:  time.Now(),
	}
	if err := store.Put(ctx, analysis); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusProcessing || got.Filename != "lease.txt" {
		t.Errorf("Get = %+v", got)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Put(ctx, &Analysis{DocumentID: "doc-1", Status: StatusProcessing})
	now := time.Now()
	store.Put(ctx, &Analysis{
		DocumentID:  "doc-1",
		Status:      StatusCompleted,
		Clauses:     []Clause{{Index: 0, Text: "clause", Score: 0.5}},
		CompletedAt: &now,
	})

	got, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusCompleted || len(got.Clauses) != 1 {
		t.Errorf("Get after replace = %+v", got)
	}
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Put(ctx, &Analysis{DocumentID: "doc-1", Status: StatusProcessing})

	first, _ := store.Get(ctx, "doc-1")
	first.Status = StatusFailed

	second, _ := store.Get(ctx, "doc-1")
	if second.Status != StatusProcessing {
		t.Error("mutating a Get result leaked into the store")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%8))
			store.Put(ctx, &Analysis{DocumentID: id, Status: StatusProcessing})
			store.Get(ctx, id)
		}(i)
	}
	wg.Wait()
}
