package app

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hotel_finder/internal/domain"
)

type CityResolver interface {
	Resolve(ctx context.Context, cityText string) (domain.ResolvedCity, error)
}

type PropertySearcher interface {
	Search(ctx context.Context, c domain.SearchCriteria) iter.Seq2[domain.Property, error]
}

type SearchHistory interface {
	Record(ctx context.Context, rec domain.SearchRecord) error
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.SearchRecord, error)
}

// Metrics receives dialog outcomes: advance, retry or end per state.
type Metrics interface {
	Transition(state domain.DialogState, outcome string)
	Results(ranking domain.RankingFunction, n int)
}

type nopMetrics struct{}

func (nopMetrics) Transition(domain.DialogState, string) {}
func (nopMetrics) Results(domain.RankingFunction, int)   {}

const historyShown = 5

// next is the fixed step order; the step after LoadPhotos runs the search.
var next = map[domain.DialogState]domain.DialogState{
	domain.StateLocation:    domain.StateCheckIn,
	domain.StateCheckIn:     domain.StateCheckOut,
	domain.StateCheckOut:    domain.StateResultCount,
	domain.StateResultCount: domain.StatePriceRange,
	domain.StatePriceRange:  domain.StateMaxDistance,
	domain.StateMaxDistance: domain.StateLoadPhotos,
}

type DialogOptions struct {
	SearchTimeout time.Duration
	History       SearchHistory // nil disables /history
	Metrics       Metrics
	Now           func() time.Time
}

type Dialog struct {
	sessions domain.SessionStore
	resolver CityResolver
	searcher PropertySearcher
	history  SearchHistory
	metrics  Metrics
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewDialog(sessions domain.SessionStore, res CityResolver, s PropertySearcher, log zerolog.Logger, opts DialogOptions) *Dialog {
	d := &Dialog{
		sessions: sessions,
		resolver: res,
		searcher: s,
		history:  opts.History,
		metrics:  opts.Metrics,
		timeout:  opts.SearchTimeout,
		now:      opts.Now,
		log:      log,
	}
	if d.metrics == nil {
		d.metrics = nopMetrics{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.timeout <= 0 {
		d.timeout = 2 * time.Minute
	}
	return d
}

// Handle processes one inbound event. Steps of one conversation never
// overlap; the returned error reports delivery failures only.
func (d *Dialog) Handle(ctx context.Context, ev domain.Event, out domain.Replier) error {
	sess, release, err := d.sessions.Acquire(ctx, ev.SessionID)
	if err != nil {
		return err
	}
	defer release()

	if ev.IsCommand {
		return d.command(ctx, sess, ev.Text, out)
	}
	return d.step(ctx, sess, strings.TrimSpace(ev.Text), out)
}

func (d *Dialog) command(ctx context.Context, sess *domain.Session, text string, out domain.Replier) error {
	name, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	// "/cmd@botname" form
	name, _, _ = strings.Cut(name, "@")

	if r, ok := domain.RankingFromCommand(name); ok {
		sess.Reset()
		sess.Criteria.Ranking = r
		sess.State = domain.StateLocation
		d.metrics.Transition(domain.StateEnded, "advance")
		return out.Send(ctx, prompt(domain.StateLocation))
	}

	switch name {
	case "stop":
		if sess.State != domain.StateEnded {
			d.metrics.Transition(sess.State, "end")
		}
		sess.Reset()
		return out.Send(ctx, info(stopText))
	case "start":
		return out.Send(ctx, info(startText))
	case "help":
		return out.Send(ctx, info(helpText))
	case "history":
		return d.showHistory(ctx, sess.ID, out)
	default:
		return out.Send(ctx, info(unknownCommand))
	}
}

func (d *Dialog) step(ctx context.Context, sess *domain.Session, text string, out domain.Replier) error {
	c := &sess.Criteria
	var err error

	switch sess.State {
	case domain.StateEnded:
		return out.Send(ctx, info(startText))

	case domain.StateLocation:
		var dest domain.ResolvedCity
		if dest, err = d.resolver.Resolve(ctx, text); err == nil {
			c.CityText = dest.City.Name
			c.Destination = &dest
		}

	case domain.StateCheckIn:
		var in time.Time
		if in, err = ParseDate(text); err == nil {
			if err = ValidateFuture(in, d.now()); err == nil {
				c.CheckIn = in
			}
		}

	case domain.StateCheckOut:
		var o time.Time
		if o, err = ParseDate(text); err == nil {
			if err = ValidateCheckOut(c.CheckIn, o); err == nil {
				c.CheckOut = o
			}
		}

	case domain.StateResultCount:
		var n int
		if n, err = ParseResultCount(text); err == nil {
			c.ResultCount = n
		}

	case domain.StatePriceRange:
		var pr domain.PriceRange
		if pr, err = ParsePriceRange(text); err == nil {
			c.Price = pr
		}

	case domain.StateMaxDistance:
		var km float64
		if km, err = ParsePositive(text); err == nil {
			c.MaxDistanceKm = km
		}

	case domain.StateLoadPhotos:
		var photos bool
		if photos, err = ParseBool(text); err == nil {
			c.LoadPhotos = photos
			d.metrics.Transition(sess.State, "advance")
			return d.runSearch(ctx, sess, out)
		}
	}

	if err != nil {
		return d.fail(ctx, sess, err, out)
	}
	d.metrics.Transition(sess.State, "advance")
	sess.State = next[sess.State]
	return out.Send(ctx, prompt(sess.State))
}

// fail keeps the dialog on the current step for user errors and ends it
// for anything else.
func (d *Dialog) fail(ctx context.Context, sess *domain.Session, err error, out domain.Replier) error {
	if msg, ok := domain.UserMessage(err); ok {
		d.log.Debug().Str("session", sess.ID).Str("state", string(sess.State)).Err(err).Msg("input rejected")
		d.metrics.Transition(sess.State, "retry")
		return out.Send(ctx, failure(msg))
	}
	d.log.Error().Str("session", sess.ID).Str("state", string(sess.State)).Err(err).Msg("dialog step failed")
	d.metrics.Transition(sess.State, "end")
	sess.Reset()
	return out.Send(ctx, failure(searchFailed))
}

func (d *Dialog) runSearch(ctx context.Context, sess *domain.Session, out domain.Replier) error {
	c := sess.Criteria
	sess.Reset()

	if err := out.Send(ctx, loadingMessage()); err != nil {
		return err
	}

	sctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	nights := c.Nights()
	var (
		hotels []domain.HotelSummary
		failed bool
	)
	for p, err := range d.searcher.Search(sctx, c) {
		if err != nil {
			failed = true
			if msg, ok := domain.UserMessage(err); ok {
				if serr := out.Send(ctx, failure(msg)); serr != nil {
					return serr
				}
				break
			}
			d.log.Error().Str("session", sess.ID).Str("city", c.CityText).Err(err).Msg("search failed")
			if serr := out.Send(ctx, failure(searchFailed)); serr != nil {
				return serr
			}
			break
		}
		if err := out.Send(ctx, FormatProperty(p, nights, c.LoadPhotos)); err != nil {
			return err
		}
		hotels = append(hotels, domain.HotelSummary{ID: p.ID, Name: p.Name, Price: p.TotalPrice(nights)})
	}

	d.metrics.Results(c.Ranking, len(hotels))
	if failed {
		d.metrics.Transition(domain.StateLoadPhotos, "end")
		return nil
	}
	if len(hotels) == 0 {
		if err := out.Send(ctx, info(nothingFound)); err != nil {
			return err
		}
	}
	d.record(ctx, sess.ID, c, hotels)
	return nil
}

// record is best-effort; a history outage never fails the search.
func (d *Dialog) record(ctx context.Context, sessionID string, c domain.SearchCriteria, hotels []domain.HotelSummary) {
	if d.history == nil {
		return
	}
	rec := domain.SearchRecord{
		SessionID: sessionID,
		Command:   c.Ranking,
		City:      c.CityText,
		CheckIn:   c.CheckIn,
		CheckOut:  c.CheckOut,
		Hotels:    hotels,
	}
	if err := d.history.Record(ctx, rec); err != nil {
		d.log.Warn().Str("session", sessionID).Err(err).Msg("history record failed")
	}
}

func (d *Dialog) showHistory(ctx context.Context, sessionID string, out domain.Replier) error {
	if d.history == nil {
		return out.Send(ctx, info(historyOff))
	}
	recs, err := d.history.Recent(ctx, sessionID, historyShown)
	if err != nil {
		d.log.Error().Str("session", sessionID).Err(err).Msg("history lookup failed")
		return out.Send(ctx, failure(searchFailed))
	}
	return out.Send(ctx, formatHistory(recs))
}
