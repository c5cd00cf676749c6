package domain

import (
	"strings"
	"time"
)

// RankingFunction is the ordering applied once to the full candidate set.
// Its value doubles as the command that selects it.
type RankingFunction string

const (
	RankLowPrice  RankingFunction = "lowprice"
	RankHighPrice RankingFunction = "highprice"
	RankBestDeal  RankingFunction = "bestdeal"
)

var Rankings = []RankingFunction{RankLowPrice, RankHighPrice, RankBestDeal}

func RankingFromCommand(cmd string) (RankingFunction, bool) {
	cmd = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cmd), "/"))
	for _, r := range Rankings {
		if string(r) == cmd {
			return r, true
		}
	}
	return "", false
}

type PriceRange struct{ Min, Max float64 }

// SearchCriteria is filled one field per dialog step and is complete only
// when the dialog reaches its last step.
type SearchCriteria struct {
	Ranking       RankingFunction
	CityText      string
	Destination   *ResolvedCity
	CheckIn       time.Time
	CheckOut      time.Time
	ResultCount   int
	Price         PriceRange
	MaxDistanceKm float64
	LoadPhotos    bool
}

func (c SearchCriteria) Nights() int {
	n := int(c.CheckOut.Sub(c.CheckIn).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}
