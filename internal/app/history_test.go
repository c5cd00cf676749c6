package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func TestRecent_CacheMissThenHit(t *testing.T) {
	repo := &fakeHistoryRepo{recs: []domain.SearchRecord{
		{ID: "r1", SessionID: "chat", City: "Dallas", Hotels: []domain.HotelSummary{{ID: "1", Name: "Hotel Test"}}},
	}}
	cache := &fakeCache{}
	h := app.NewHistoryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	got, err := h.Recent(context.Background(), "chat", 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0].City != "Dallas" || got[0].Hotels[0].Name != "Hotel Test" {
		t.Fatalf("unexpected history: %+v", got)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.recs[0].Hotels[0].Name = "SHOULD NOT SEE THIS"

	got2, err := h.Recent(context.Background(), "chat", 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got2[0].Hotels[0].Name != "Hotel Test" {
		t.Fatalf("expected cached name, got %s", got2[0].Hotels[0].Name)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repo call, got %d", repo.listCalls)
	}
}

func TestRecord_EvictsSessionCache(t *testing.T) {
	repo := &fakeHistoryRepo{}
	cache := &fakeCache{}
	h := app.NewHistoryService(repo, cache, time.Minute)
	ctx := context.Background()

	if _, err := h.Recent(ctx, "chat", 5); err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := h.Record(ctx, domain.SearchRecord{SessionID: "chat", City: "Paris"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cache.dels) != 1 || cache.dels[0] != "history:chat" {
		t.Fatalf("expected eviction of history:chat, got %v", cache.dels)
	}
	if repo.recs[0].ID == "" || repo.recs[0].CreatedAt.IsZero() {
		t.Fatalf("record should get an id and timestamp: %+v", repo.recs[0])
	}

	got, _ := h.Recent(ctx, "chat", 5)
	if len(got) != 1 || got[0].City != "Paris" {
		t.Fatalf("expected fresh history after record, got %+v", got)
	}
}

func TestRecent_LimitAndNilCache(t *testing.T) {
	repo := &fakeHistoryRepo{}
	for i := 0; i < 8; i++ {
		repo.recs = append(repo.recs, domain.SearchRecord{SessionID: "chat"})
	}
	h := app.NewHistoryService(repo, nil, time.Minute)

	got, err := h.Recent(context.Background(), "chat", 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
}

func TestRecord_RepoError(t *testing.T) {
	boom := errors.New("db down")
	h := app.NewHistoryService(&fakeHistoryRepo{err: boom}, nil, time.Minute)
	if err := h.Record(context.Background(), domain.SearchRecord{SessionID: "chat"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
