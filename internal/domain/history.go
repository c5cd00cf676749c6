package domain

import "time"

// SearchRecord is one completed search kept for the /history command.
type SearchRecord struct {
	ID        string
	SessionID string
	Command   RankingFunction
	City      string
	CheckIn   time.Time
	CheckOut  time.Time
	CreatedAt time.Time
	Hotels    []HotelSummary
}

type HotelSummary struct {
	ID    PropertyID
	Name  string
	Price Price
}
