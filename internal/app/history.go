package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel_finder/internal/domain"
)

// historyDepth is how many records per session are cached.
const historyDepth = 20

type HistoryService struct {
	repo     domain.HistoryRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewHistoryService returns a cache-through history reader. c may be nil.
func NewHistoryService(r domain.HistoryRepository, c domain.Cache, ttl time.Duration) *HistoryService {
	return &HistoryService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("history:%s", sessionID)
}

// Record stores rec and evicts the session's cached history.
func (s *HistoryService) Record(ctx context.Context, rec domain.SearchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if err := s.repo.InsertSearch(ctx, rec); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, historyKey(rec.SessionID))
	}
	return nil
}

// Recent returns up to limit searches for the session, newest first.
func (s *HistoryService) Recent(ctx context.Context, sessionID string, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 || limit > historyDepth {
		limit = historyDepth
	}
	key := historyKey(sessionID)
	var out []domain.SearchRecord
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return head(out, limit), nil
		}
	}

	recs, err := s.repo.ListSearches(ctx, sessionID, historyDepth)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}

	// copy so later repo mutations never leak into the cached value
	out = deepCopyRecords(recs)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return head(out, limit), nil
}

func head(recs []domain.SearchRecord, n int) []domain.SearchRecord {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

func deepCopyRecords(in []domain.SearchRecord) []domain.SearchRecord {
	out := make([]domain.SearchRecord, len(in))
	for i, r := range in {
		out[i] = r
		if n := len(r.Hotels); n > 0 {
			out[i].Hotels = make([]domain.HotelSummary, n)
			copy(out[i].Hotels, r.Hotels)
		}
	}
	return out
}
