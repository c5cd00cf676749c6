package app

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/query"
)

// PropertyCatalog is the property provider as seen by the search pipeline.
type PropertyCatalog interface {
	SearchProperties(ctx context.Context, q query.PropertySearch) ([]domain.Property, error)
	PropertyDetails(ctx context.Context, id domain.PropertyID) (domain.PropertyDetails, error)
}

type Searcher struct {
	resolver CityResolver
	catalog  PropertyCatalog
	opts     query.Options
	workers  int
	log      zerolog.Logger
}

// NewSearcher wires the pipeline. workers > 1 enriches that many
// properties ahead of the consumer; results still arrive in ranked order.
func NewSearcher(res CityResolver, catalog PropertyCatalog, opts query.Options, workers int, log zerolog.Logger) *Searcher {
	if workers < 1 {
		workers = 1
	}
	return &Searcher{resolver: res, catalog: catalog, opts: opts, workers: workers, log: log}
}

// Search runs the remote calls anew on every iteration of the returned
// sequence. The first error ends the sequence.
func (s *Searcher) Search(ctx context.Context, c domain.SearchCriteria) iter.Seq2[domain.Property, error] {
	return func(yield func(domain.Property, error) bool) {
		props, err := s.candidates(ctx, c)
		if err != nil {
			yield(domain.Property{}, err)
			return
		}
		if s.workers == 1 {
			s.enrichInOrder(ctx, props, yield)
			return
		}
		s.enrichAhead(ctx, props, yield)
	}
}

// candidates returns the ranked, distance-filtered, not yet enriched list.
func (s *Searcher) candidates(ctx context.Context, c domain.SearchCriteria) ([]domain.Property, error) {
	var dest domain.ResolvedCity
	if c.Destination != nil {
		dest = *c.Destination
	} else {
		var err error
		if dest, err = s.resolver.Resolve(ctx, c.CityText); err != nil {
			return nil, err
		}
	}

	q := query.Build(dest, c, s.opts)
	found, err := s.catalog.SearchProperties(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search properties in %s: %w", dest.Region.ID, err)
	}
	ranked := Rank(found, c.Ranking)
	kept := WithinDistance(ranked, c.MaxDistanceKm)
	s.log.Debug().
		Str("region", string(dest.Region.ID)).
		Str("ranking", string(c.Ranking)).
		Int("found", len(found)).
		Int("kept", len(kept)).
		Msg("properties fetched")
	return kept, nil
}

func (s *Searcher) enrichInOrder(ctx context.Context, props []domain.Property, yield func(domain.Property, error) bool) {
	for _, p := range props {
		d, err := s.catalog.PropertyDetails(ctx, p.ID)
		if err != nil {
			yield(domain.Property{}, fmt.Errorf("enrich property %s: %w", p.ID, err))
			return
		}
		p.Enrich(d)
		if !yield(p, nil) {
			return
		}
	}
}

type enriched struct {
	details domain.PropertyDetails
	err     error
}

// enrichAhead keeps at most s.workers detail lookups in flight or buffered
// and hands results to yield strictly in ranked order.
func (s *Searcher) enrichAhead(ctx context.Context, props []domain.Property, yield func(domain.Property, error) bool) {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	defer func() {
		cancel()
		_ = g.Wait()
	}()

	window := make(chan struct{}, s.workers)
	slots := make([]chan enriched, len(props))
	for i := range slots {
		slots[i] = make(chan enriched, 1)
	}

	g.Go(func() error {
		for i := range props {
			select {
			case window <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			g.Go(func() error {
				d, err := s.catalog.PropertyDetails(gctx, props[i].ID)
				slots[i] <- enriched{details: d, err: err}
				return nil
			})
		}
		return nil
	})

	for i, p := range props {
		var r enriched
		select {
		case r = <-slots[i]:
		case <-ctx.Done():
			yield(domain.Property{}, ctx.Err())
			return
		}
		<-window
		if r.err != nil {
			yield(domain.Property{}, fmt.Errorf("enrich property %s: %w", p.ID, r.err))
			return
		}
		p.Enrich(r.details)
		if !yield(p, nil) {
			return
		}
	}
}

// Rank returns a sorted copy of props. Best deal orders by price, then by
// distance from the centre.
func Rank(props []domain.Property, r domain.RankingFunction) []domain.Property {
	out := slices.Clone(props)
	switch r {
	case domain.RankHighPrice:
		slices.SortStableFunc(out, func(a, b domain.Property) int {
			return cmp.Compare(b.Price.Amount, a.Price.Amount)
		})
	case domain.RankBestDeal:
		slices.SortStableFunc(out, func(a, b domain.Property) int {
			if c := cmp.Compare(a.Price.Amount, b.Price.Amount); c != 0 {
				return c
			}
			return cmp.Compare(a.Distance.Kilometers(), b.Distance.Kilometers())
		})
	default:
		slices.SortStableFunc(out, func(a, b domain.Property) int {
			return cmp.Compare(a.Price.Amount, b.Price.Amount)
		})
	}
	return out
}

// WithinDistance keeps properties no farther than maxKm. A non-positive
// maxKm disables the filter.
func WithinDistance(props []domain.Property, maxKm float64) []domain.Property {
	if maxKm <= 0 {
		return props
	}
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		if p.Distance.Kilometers() <= maxKm {
			out = append(out, p)
		}
	}
	return out
}
