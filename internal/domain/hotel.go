package domain

import (
	"fmt"
	"strconv"
)

// PropertyID identifies a property in the property provider's namespace.
type PropertyID string

type DistanceUnit string

const (
	UnitMile      DistanceUnit = "MILE"
	UnitKilometer DistanceUnit = "KILOMETER"
)

const kmPerMile = 1.60934

type Distance struct {
	Value float64
	Unit  DistanceUnit
}

// Kilometers converts the distance to the canonical unit.
func (d Distance) Kilometers() float64 {
	if d.Unit == UnitMile {
		return d.Value * kmPerMile
	}
	return d.Value
}

func (d Distance) String() string {
	return strconv.FormatFloat(d.Kilometers(), 'f', 1, 64) + " км"
}

type Price struct {
	Amount   float64
	Currency string
}

func (p Price) String() string {
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}

// Property is one search result. Address and Images stay empty until
// Enrich runs; check Enriched before relying on them.
type Property struct {
	ID       PropertyID
	Name     string
	Price    Price // lead price per night
	Distance Distance
	Coords   Coordinates
	Address  string
	Images   []string
	Enriched bool
}

type PropertyDetails struct {
	Address string
	Images  []string
}

func (p *Property) Enrich(d PropertyDetails) {
	p.Address = d.Address
	p.Images = d.Images
	p.Enriched = true
}

// TotalPrice is the lead price multiplied by the number of nights.
func (p Property) TotalPrice(nights int) Price {
	if nights < 1 {
		nights = 1
	}
	return Price{Amount: p.Price.Amount * float64(nights), Currency: p.Price.Currency}
}

// Link is the public deep link to the property page.
func (p Property) Link() string {
	return fmt.Sprintf("https://www.hotels.com/h%s.Hotel-Information", p.ID)
}
