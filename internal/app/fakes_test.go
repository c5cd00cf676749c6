package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/query"
)

// ---- fakes ----

var nopLog = zerolog.Nop()

type fakeGeocoder struct {
	cities []domain.GeoCity
	err    error
	calls  int
}

func (f *fakeGeocoder) ForwardGeocode(ctx context.Context, city string) ([]domain.GeoCity, error) {
	f.calls++
	return f.cities, f.err
}

type fakeLocations struct {
	regions []domain.Region
	err     error
	queries []string
}

func (f *fakeLocations) SearchLocations(ctx context.Context, q string) ([]domain.Region, error) {
	f.queries = append(f.queries, q)
	return f.regions, f.err
}

type fakeCatalog struct {
	mu         sync.Mutex
	props      []domain.Property
	listErr    error
	details    map[domain.PropertyID]domain.PropertyDetails
	detailErr  map[domain.PropertyID]error
	detailHits []domain.PropertyID
	lastQuery  query.PropertySearch
}

func (f *fakeCatalog) SearchProperties(ctx context.Context, q query.PropertySearch) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return append([]domain.Property(nil), f.props...), f.listErr
}

func (f *fakeCatalog) PropertyDetails(ctx context.Context, id domain.PropertyID) (domain.PropertyDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailHits = append(f.detailHits, id)
	if err := f.detailErr[id]; err != nil {
		return domain.PropertyDetails{}, err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return domain.PropertyDetails{Address: "addr " + string(id)}, nil
}

func (f *fakeCatalog) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.detailHits)
}

type recorder struct {
	msgs []domain.Message
}

func (r *recorder) Send(ctx context.Context, m domain.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorder) last() domain.Message {
	if len(r.msgs) == 0 {
		return domain.Message{}
	}
	return r.msgs[len(r.msgs)-1]
}

func (r *recorder) reset() { r.msgs = nil }

func (r *recorder) ofKind(k domain.MessageKind) []domain.Message {
	var out []domain.Message
	for _, m := range r.msgs {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

type memSessions struct {
	items map[string]*domain.Session
}

func (m *memSessions) Acquire(ctx context.Context, id string) (*domain.Session, func(), error) {
	if m.items == nil {
		m.items = map[string]*domain.Session{}
	}
	s, ok := m.items[id]
	if !ok {
		s = &domain.Session{ID: id, State: domain.StateEnded}
		m.items[id] = s
	}
	return s, func() {}, nil
}

type fakeHistoryRepo struct {
	recs      []domain.SearchRecord
	listCalls int
	err       error
}

func (f *fakeHistoryRepo) InsertSearch(ctx context.Context, rec domain.SearchRecord) error {
	if f.err != nil {
		return f.err
	}
	f.recs = append([]domain.SearchRecord{rec}, f.recs...)
	return nil
}

func (f *fakeHistoryRepo) ListSearches(ctx context.Context, sessionID string, limit int) ([]domain.SearchRecord, error) {
	f.listCalls++
	var out []domain.SearchRecord
	for _, r := range f.recs {
		if r.SessionID == sessionID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, f.err
}

// fakeCache stores JSON like the redis adapter does.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// ---- fixtures ----

func dallasGeo() domain.GeoCity {
	return domain.GeoCity{
		ID: "g-dallas", Name: "Dallas", Country: "United States",
		Coords: domain.Coordinates{Lat: 32.78, Lon: -96.8}, Importance: 0.2,
	}
}

func dallasRegion() domain.Region {
	return domain.Region{ID: "2001", Name: "Dallas", Kind: domain.KindCity, Coords: domain.Coordinates{Lat: 32.78, Lon: -96.8}}
}

func countryTable() domain.CountryTable {
	return domain.NewCountryTable([]domain.CountryInfo{
		{Code: "US", SiteID: 300000001, TPID: 3001},
		{Code: "FR", SiteID: 300000010, TPID: 3010},
	})
}

func prop(id string, price, miles float64) domain.Property {
	return domain.Property{
		ID:       domain.PropertyID(id),
		Name:     "Hotel " + id,
		Price:    domain.Price{Amount: price, Currency: "USD"},
		Distance: domain.Distance{Value: miles, Unit: domain.UnitMile},
	}
}
