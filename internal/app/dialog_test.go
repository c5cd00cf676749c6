package app_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/query"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// capturingSearcher records the criteria the dialog hands over.
type capturingSearcher struct {
	got   []domain.SearchCriteria
	props []domain.Property
	err   error
}

func (c *capturingSearcher) Search(ctx context.Context, crit domain.SearchCriteria) iter.Seq2[domain.Property, error] {
	c.got = append(c.got, crit)
	return func(yield func(domain.Property, error) bool) {
		for _, p := range c.props {
			if !yield(p, nil) {
				return
			}
		}
		if c.err != nil {
			yield(domain.Property{}, c.err)
		}
	}
}

type dialogFixture struct {
	d        *app.Dialog
	sessions *memSessions
	geo      *fakeGeocoder
	search   *capturingSearcher
	out      *recorder
}

func newDialogFixture(history app.SearchHistory) *dialogFixture {
	geo := &fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}
	res := app.NewResolver(geo, &fakeLocations{regions: []domain.Region{dallasRegion()}}, countryTable(), nopLog)
	f := &dialogFixture{sessions: &memSessions{}, geo: geo, search: &capturingSearcher{}, out: &recorder{}}
	f.d = app.NewDialog(f.sessions, res, f.search, nopLog, app.DialogOptions{
		History: history,
		Now:     func() time.Time { return fixedNow },
	})
	return f
}

func (f *dialogFixture) cmd(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, f.d.Handle(context.Background(), domain.Event{SessionID: "chat", Text: text, IsCommand: true}, f.out))
}

func (f *dialogFixture) say(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, f.d.Handle(context.Background(), domain.Event{SessionID: "chat", Text: text}, f.out))
}

func (f *dialogFixture) state() domain.DialogState {
	return f.sessions.items["chat"].State
}

func TestDialog_DallasScenario(t *testing.T) {
	f := newDialogFixture(nil)

	f.cmd(t, "/lowprice")
	assert.Equal(t, domain.StateLocation, f.state())
	assert.Equal(t, domain.MessagePrompt, f.out.last().Kind)

	steps := []struct {
		in   string
		want domain.DialogState
	}{
		{"Dallas", domain.StateCheckIn},
		{"20.12.2030", domain.StateCheckOut},
		{"27.12.2030", domain.StateResultCount},
		{"5", domain.StatePriceRange},
		{"100-300", domain.StateMaxDistance},
		{"10", domain.StateLoadPhotos},
	}
	for _, s := range steps {
		f.say(t, s.in)
		require.Equal(t, s.want, f.state(), "after %q", s.in)
		require.Equal(t, domain.MessagePrompt, f.out.last().Kind, "after %q", s.in)
	}

	f.say(t, "да")
	assert.Equal(t, domain.StateEnded, f.state())
	require.Len(t, f.search.got, 1)

	c := f.search.got[0]
	assert.Equal(t, domain.RankLowPrice, c.Ranking)
	assert.Equal(t, "Dallas", c.CityText)
	require.NotNil(t, c.Destination)
	assert.Equal(t, domain.RegionID("2001"), c.Destination.Region.ID)
	assert.Equal(t, time.Date(2030, 12, 20, 0, 0, 0, 0, time.UTC), c.CheckIn)
	assert.Equal(t, time.Date(2030, 12, 27, 0, 0, 0, 0, time.UTC), c.CheckOut)
	assert.Equal(t, 5, c.ResultCount)
	assert.Equal(t, domain.PriceRange{Min: 100, Max: 300}, c.Price)
	assert.Equal(t, 10.0, c.MaxDistanceKm)
	assert.True(t, c.LoadPhotos)

	// nothing found is reported
	assert.Equal(t, domain.MessageInfo, f.out.last().Kind)
}

func TestDialog_InvertedPriceRangeStaysPut(t *testing.T) {
	f := newDialogFixture(nil)
	f.cmd(t, "/bestdeal")
	for _, in := range []string{"Dallas", "20.12.2030", "27.12.2030", "5"} {
		f.say(t, in)
	}
	require.Equal(t, domain.StatePriceRange, f.state())

	f.out.reset()
	f.say(t, "300-100")
	assert.Equal(t, domain.StatePriceRange, f.state())
	require.Len(t, f.out.msgs, 1)
	assert.Equal(t, domain.MessageError, f.out.msgs[0].Kind)
	assert.Equal(t, domain.ErrRangeInverted.Message, f.out.msgs[0].Text)
	assert.Zero(t, f.sessions.items["chat"].Criteria.Price)

	f.say(t, "100-300")
	assert.Equal(t, domain.StateMaxDistance, f.state())
}

func TestDialog_UnknownCityStaysAtLocation(t *testing.T) {
	f := newDialogFixture(nil)
	f.geo.cities = nil
	f.cmd(t, "/highprice")

	f.say(t, "Zzqx")
	assert.Equal(t, domain.StateLocation, f.state())
	assert.Equal(t, domain.ErrCityNotFound.Message, f.out.last().Text)

	f.geo.cities = []domain.GeoCity{dallasGeo()}
	f.say(t, "Dallas")
	assert.Equal(t, domain.StateCheckIn, f.state())
}

func TestDialog_ValidationErrorsPerStep(t *testing.T) {
	f := newDialogFixture(nil)
	f.cmd(t, "/lowprice")
	f.say(t, "Dallas")

	f.say(t, "2030-12-20")
	assert.Equal(t, domain.ErrWrongDateFormat.Message, f.out.last().Text)
	f.say(t, "01.01.2020")
	assert.Equal(t, domain.ErrPastDate.Message, f.out.last().Text)
	assert.Equal(t, domain.StateCheckIn, f.state())

	f.say(t, "20.12.2030")
	f.say(t, "19.12.2030")
	assert.Equal(t, domain.ErrEndBeforeStart.Message, f.out.last().Text)
	f.say(t, "27.12.2030")

	f.say(t, "five")
	assert.Equal(t, domain.ErrNotNumeric.Message, f.out.last().Text)
	f.say(t, "0")
	assert.Equal(t, domain.ErrNotPositive.Message, f.out.last().Text)
	f.say(t, "3")

	f.say(t, "100")
	assert.Equal(t, domain.ErrWrongPriceRangeFormat.Message, f.out.last().Text)
	f.say(t, "0-100")

	f.say(t, "-3")
	assert.Equal(t, domain.ErrNotPositive.Message, f.out.last().Text)
	f.say(t, "3")

	f.say(t, "maybe")
	assert.Equal(t, domain.ErrWrongBooleanFormat.Message, f.out.last().Text)
	assert.Equal(t, domain.StateLoadPhotos, f.state())
	assert.Empty(t, f.search.got)
}

func TestDialog_StopInAnyState(t *testing.T) {
	f := newDialogFixture(nil)
	f.cmd(t, "/lowprice")
	f.say(t, "Dallas")
	f.say(t, "20.12.2030")

	f.cmd(t, "/stop")
	assert.Equal(t, domain.StateEnded, f.state())
	assert.Empty(t, f.sessions.items["chat"].Criteria.CityText)
	assert.Empty(t, f.search.got)

	// plain text after stop gets the greeting, not a step
	f.say(t, "27.12.2030")
	assert.Equal(t, domain.StateEnded, f.state())
	assert.Equal(t, domain.MessageInfo, f.out.last().Kind)
}

func TestDialog_RankingCommandRestarts(t *testing.T) {
	f := newDialogFixture(nil)
	f.cmd(t, "/lowprice")
	f.say(t, "Dallas")
	f.cmd(t, "/highprice@hotel_bot")

	assert.Equal(t, domain.StateLocation, f.state())
	s := f.sessions.items["chat"]
	assert.Equal(t, domain.RankHighPrice, s.Criteria.Ranking)
	assert.Nil(t, s.Criteria.Destination)
}

func TestDialog_ResultsAndPhotos(t *testing.T) {
	f := newDialogFixture(nil)
	p := prop("77", 100, 1)
	p.Enrich(domain.PropertyDetails{Address: "Elm St", Images: []string{"1", "2", "3", "4", "5"}})
	f.search.props = []domain.Property{p}

	f.cmd(t, "/lowprice")
	for _, in := range []string{"Dallas", "20.12.2030", "27.12.2030", "5", "100-300", "10", "Да"} {
		f.say(t, in)
	}

	results := f.out.ofKind(domain.MessageResult)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Images, app.MaxImages)
	assert.Contains(t, results[0].Text, "Elm St")
	assert.Contains(t, results[0].Text, "700.00 USD")
	assert.Contains(t, results[0].Text, "https://www.hotels.com/h77.Hotel-Information")
}

func TestDialog_PipelineErrorEnds(t *testing.T) {
	f := newDialogFixture(nil)
	f.search.props = []domain.Property{prop("1", 100, 1)}
	f.search.err = errors.New("detail timeout")

	f.cmd(t, "/lowprice")
	for _, in := range []string{"Dallas", "20.12.2030", "27.12.2030", "5", "100-300", "10", "нет"} {
		f.say(t, in)
	}
	assert.Equal(t, domain.StateEnded, f.state())
	assert.Len(t, f.out.ofKind(domain.MessageResult), 1)
	assert.Equal(t, domain.MessageError, f.out.last().Kind)
}

func TestDialog_TransportErrorAtLocationEnds(t *testing.T) {
	f := newDialogFixture(nil)
	f.geo.err = errors.New("dial tcp: timeout")
	f.cmd(t, "/lowprice")

	f.say(t, "Dallas")
	assert.Equal(t, domain.StateEnded, f.state())
	assert.Equal(t, domain.MessageError, f.out.last().Kind)
}

func TestDialog_HistoryRecordedAndShown(t *testing.T) {
	repo := &fakeHistoryRepo{}
	hist := app.NewHistoryService(repo, &fakeCache{}, time.Minute)
	f := newDialogFixture(hist)
	f.search.props = []domain.Property{prop("1", 100, 1)}

	f.cmd(t, "/lowprice")
	for _, in := range []string{"Dallas", "20.12.2030", "27.12.2030", "5", "100-300", "10", "нет"} {
		f.say(t, in)
	}
	require.Len(t, repo.recs, 1)
	rec := repo.recs[0]
	assert.Equal(t, "chat", rec.SessionID)
	assert.Equal(t, domain.RankLowPrice, rec.Command)
	assert.Equal(t, "Dallas", rec.City)
	require.Len(t, rec.Hotels, 1)
	assert.Equal(t, 700.0, rec.Hotels[0].Price.Amount)

	f.cmd(t, "/history")
	assert.Contains(t, f.out.last().Text, "Dallas")
	assert.Contains(t, f.out.last().Text, "Hotel 1")
}

func TestDialog_HistoryDisabled(t *testing.T) {
	f := newDialogFixture(nil)
	f.cmd(t, "/history")
	assert.Equal(t, domain.MessageInfo, f.out.last().Kind)
	assert.NotEmpty(t, f.out.last().Text)
}

func TestDialog_EndToEndWithSearcher(t *testing.T) {
	geo := &fakeGeocoder{cities: []domain.GeoCity{dallasGeo()}}
	res := app.NewResolver(geo, &fakeLocations{regions: []domain.Region{dallasRegion()}}, countryTable(), nopLog)
	cat := &fakeCatalog{props: []domain.Property{prop("1", 250, 2), prop("2", 150, 20), prop("3", 110, 1)}}
	s := app.NewSearcher(res, cat, query.Options{}, 2, nopLog)
	out := &recorder{}
	d := app.NewDialog(&memSessions{}, res, s, nopLog, app.DialogOptions{Now: func() time.Time { return fixedNow }})

	send := func(text string, cmd bool) {
		require.NoError(t, d.Handle(context.Background(), domain.Event{SessionID: "x", Text: text, IsCommand: cmd}, out))
	}
	send("/lowprice", true)
	for _, in := range []string{"Dallas", "20.12.2030", "27.12.2030", "5", "100-300", "10", "нет"} {
		send(in, false)
	}

	results := out.ofKind(domain.MessageResult)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Text, "Hotel 3")
	assert.Contains(t, results[1].Text, "Hotel 1")
	assert.Equal(t, 1, geo.calls, "location step resolves once")
}
