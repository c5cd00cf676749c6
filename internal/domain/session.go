package domain

import (
	"context"
	"time"
)

// DialogState is the step a conversation is waiting on.
type DialogState string

const (
	StateEnded       DialogState = "ended"
	StateLocation    DialogState = "location"
	StateCheckIn     DialogState = "checkin"
	StateCheckOut    DialogState = "checkout"
	StateResultCount DialogState = "result_count"
	StatePriceRange  DialogState = "price_range"
	StateMaxDistance DialogState = "max_distance"
	StateLoadPhotos  DialogState = "load_photos"
)

// Session is the per-conversation dialog data. It lives only in memory.
type Session struct {
	ID        string
	State     DialogState
	Criteria  SearchCriteria
	UpdatedAt time.Time
}

// Reset drops collected criteria and returns the session to StateEnded.
func (s *Session) Reset() {
	s.State = StateEnded
	s.Criteria = SearchCriteria{}
}

// SessionStore hands out sessions one holder at a time. The returned
// release func must be called exactly once.
type SessionStore interface {
	Acquire(ctx context.Context, id string) (*Session, func(), error)
}
