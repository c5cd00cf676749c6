package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func TestResolve_PicksLowestImportance(t *testing.T) {
	far := dallasGeo()
	far.ID, far.Importance = "g-dallas-or", 0.9
	geo := &fakeGeocoder{cities: []domain.GeoCity{far, dallasGeo()}}
	locs := &fakeLocations{regions: []domain.Region{dallasRegion()}}

	r := app.NewResolver(geo, locs, countryTable(), nopLog)
	got, err := r.Resolve(context.Background(), "dallas")
	require.NoError(t, err)

	assert.Equal(t, domain.GeoPlaceID("g-dallas"), got.City.ID)
	assert.Equal(t, "US", got.Country.Code)
	assert.Equal(t, domain.RegionID("2001"), got.Region.ID)
	assert.Equal(t, []string{"Dallas"}, locs.queries)
}

func TestResolve_CityNotFound(t *testing.T) {
	geo := &fakeGeocoder{}
	locs := &fakeLocations{}

	r := app.NewResolver(geo, locs, countryTable(), nopLog)
	_, err := r.Resolve(context.Background(), "Zzqx")
	assert.ErrorIs(t, err, domain.ErrCityNotFound)
	assert.Empty(t, locs.queries, "provider search must not run")
}

func TestResolve_CountryNotSupported(t *testing.T) {
	for _, country := range []string{"Germany", "Atlantis"} {
		city := dallasGeo()
		city.Name, city.Country = "Somewhere", country
		r := app.NewResolver(&fakeGeocoder{cities: []domain.GeoCity{city}}, &fakeLocations{}, countryTable(), nopLog)

		_, err := r.Resolve(context.Background(), "Somewhere")
		assert.ErrorIs(t, err, domain.ErrCityCountryNotSupported, country)
	}
}

func TestResolve_OnlyCityKindsCount(t *testing.T) {
	hotel := domain.Region{ID: "h1", Name: "Dallas Hotel", Kind: domain.KindHotel}
	airport := domain.Region{ID: "a1", Name: "Dallas Love Field", Kind: domain.KindAirport}
	locs := &fakeLocations{regions: []domain.Region{hotel, dallasRegion(), airport}}

	r := app.NewResolver(&fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}, locs, countryTable(), nopLog)
	got, err := r.Resolve(context.Background(), "Dallas")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionID("2001"), got.Region.ID)
}

func TestResolve_ExactNameWinsAmongMany(t *testing.T) {
	other := domain.Region{ID: "9", Name: "Dallas Center", Kind: domain.KindCity}
	locs := &fakeLocations{regions: []domain.Region{other, dallasRegion()}}

	r := app.NewResolver(&fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}, locs, countryTable(), nopLog)
	got, err := r.Resolve(context.Background(), "Dallas")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionID("2001"), got.Region.ID)
}

func TestResolve_Ambiguous(t *testing.T) {
	locs := &fakeLocations{regions: []domain.Region{
		{ID: "1", Name: "Dallas, Texas", Kind: domain.KindCity},
		{ID: "2", Name: "Dallas, Georgia", Kind: domain.KindCity},
	}}

	r := app.NewResolver(&fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}, locs, countryTable(), nopLog)
	_, err := r.Resolve(context.Background(), "Dallas")
	assert.ErrorIs(t, err, domain.ErrAmbiguousCity)
}

func TestResolve_NoProviderCity(t *testing.T) {
	locs := &fakeLocations{regions: []domain.Region{{ID: "h1", Name: "Dallas", Kind: domain.KindHotel}}}

	r := app.NewResolver(&fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}, locs, countryTable(), nopLog)
	_, err := r.Resolve(context.Background(), "Dallas")
	assert.ErrorIs(t, err, domain.ErrCityNotFound)
}

func TestResolve_TransportErrorIsNotUserError(t *testing.T) {
	boom := errors.New("connection reset")
	r := app.NewResolver(&fakeGeocoder{err: boom}, &fakeLocations{}, countryTable(), nopLog)

	_, err := r.Resolve(context.Background(), "Dallas")
	require.ErrorIs(t, err, boom)
	_, isUser := domain.UserMessage(err)
	assert.False(t, isUser)
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "US", app.CountryCode("United States"))
	assert.Equal(t, "FR", app.CountryCode(" france "))
	assert.Equal(t, "", app.CountryCode(""))
	assert.Equal(t, "", app.CountryCode("Atlantis"))
}
