package hotels

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"hotel_finder/internal/adapters/rapidapi"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/query"
)

// Client is the property provider: location search, property list and
// detail, and the supported-country table.
type Client struct {
	api      *rapidapi.Client
	locale   string
	currency string
	log      zerolog.Logger
}

func New(api *rapidapi.Client, locale, currency string, log zerolog.Logger) *Client {
	if locale == "" {
		locale = "en_US"
	}
	if currency == "" {
		currency = "USD"
	}
	return &Client{api: api, locale: locale, currency: currency, log: log}
}

func (c *Client) SearchLocations(ctx context.Context, q string) ([]domain.Region, error) {
	var raw map[string]any
	params := url.Values{"q": {q}, "locale": {c.locale}}
	if err := c.api.Get(ctx, "/locations/v3/search", params, &raw); err != nil {
		if errors.Is(err, rapidapi.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items := rapidapi.Objects(raw, "sr")
	out := make([]domain.Region, 0, len(items))
	for _, m := range items {
		if r, ok := mapRegion(m); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Client) SearchProperties(ctx context.Context, q query.PropertySearch) ([]domain.Property, error) {
	var raw map[string]any
	if err := c.api.Post(ctx, "/properties/v2/list", q, &raw); err != nil {
		return nil, err
	}
	items := rapidapi.Objects(raw, "data.propertySearch.properties")
	out := make([]domain.Property, 0, len(items))
	for i, m := range items {
		p, err := mapProperty(m)
		if err != nil {
			c.log.Warn().Int("index", i).Err(err).Msg("skipping malformed property")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type detailRequest struct {
	Currency   string `json:"currency"`
	Locale     string `json:"locale"`
	PropertyID string `json:"propertyId"`
}

func (c *Client) PropertyDetails(ctx context.Context, id domain.PropertyID) (domain.PropertyDetails, error) {
	var raw map[string]any
	body := detailRequest{Currency: c.currency, Locale: c.locale, PropertyID: string(id)}
	if err := c.api.Post(ctx, "/properties/v2/detail", body, &raw); err != nil {
		return domain.PropertyDetails{}, err
	}
	return mapDetails(raw), nil
}

// Countries fetches the table of countries the provider serves.
func (c *Client) Countries(ctx context.Context) ([]domain.CountryInfo, error) {
	var raw map[string]any
	if err := c.api.Get(ctx, "/v2/get-meta-data", nil, &raw); err != nil {
		return nil, fmt.Errorf("meta data: %w", err)
	}
	out := mapCountries(raw)
	if len(out) == 0 {
		return nil, errors.New("meta data: no countries in response")
	}
	return out, nil
}
