// Package search drives lead discovery: paged place search, detail
// enrichment, and qualification.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/pkg/places"
)

// Sentinel errors surfaced to callers without retry.
var (
	ErrInvalidQuery       = eris.New("search: query is empty")
	ErrServiceUnavailable = eris.New("search: places client not configured")
)

// StatusError reports a non-success page status from the places service.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("search: service returned %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("search: service returned %s", e.Status)
}

// detailFields is the field mask for detail lookups, restricted to what the
// lead model consumes.
var detailFields = []string{
	"place_id",
	"name",
	"rating",
	"user_ratings_total",
	"formatted_phone_number",
	"international_phone_number",
	"website",
	"business_status",
	"types",
	"formatted_address",
	"photos",
	"geometry",
}

// Config holds the fixed search parameters: the geographic bias applied to
// every query and the continuation pacing the service's rate policy demands.
type Config struct {
	BiasLat      float64
	BiasLng      float64
	RadiusMeters int
	PageDelay    time.Duration
}

// Result is the outcome of one search invocation.
type Result struct {
	Leads []leads.QualifiedLead
	// BusinessesFound counts validated raw records before qualification.
	BusinessesFound int
	// Note is a non-fatal annotation, set when businesses were found but
	// none qualified.
	Note string
}

// Orchestrator runs searches against a places client. It holds no state
// across invocations; a new search may start once a previous one returns.
type Orchestrator struct {
	places places.Client
	cfg    Config
}

// New creates an Orchestrator.
func New(client places.Client, cfg Config) *Orchestrator {
	return &Orchestrator{places: client, cfg: cfg}
}

// Search accumulates all result pages for query, enriches each place with a
// concurrent detail lookup, and returns the qualified leads ranked by
// review count. It fails with ErrInvalidQuery for a blank query,
// ErrServiceUnavailable when no client is configured, and *StatusError when
// the service reports a failing page status. Detail lookups fail
// independently; a failed lookup drops that record only.
func (o *Orchestrator) Search(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	if o.places == nil {
		return nil, ErrServiceUnavailable
	}

	log := zap.L().With(zap.String("query", query))

	raw, err := o.accumulatePages(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Info("search pages accumulated", zap.Int("results", len(raw)))

	detailed := o.fetchDetails(ctx, raw)
	qualified := leads.Qualify(detailed)

	result := &Result{
		Leads:           qualified,
		BusinessesFound: len(detailed),
	}
	if len(detailed) > 0 && len(qualified) == 0 {
		result.Note = fmt.Sprintf("%d businesses found, but none matched the acceptance criteria", len(detailed))
		log.Info("no leads qualified", zap.Int("businesses_found", len(detailed)))
	}

	log.Info("search complete",
		zap.Int("businesses_found", len(detailed)),
		zap.Int("leads", len(qualified)),
	)
	return result, nil
}

// accumulatePages follows continuation tokens until the service stops
// returning them, pacing each follow-up request. Duplicate place IDs across
// pages are dropped. A ZERO_RESULTS page ends pagination successfully.
func (o *Orchestrator) accumulatePages(ctx context.Context, query string) ([]places.Place, error) {
	// Burst 1: the first page goes out immediately, every continuation
	// waits out the pacing interval.
	pacer := rate.NewLimiter(rate.Every(o.cfg.PageDelay), 1)

	var (
		accumulated []places.Place
		seen        = make(map[string]struct{})
		pageToken   string
	)

	for {
		if err := pacer.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "search: page wait")
		}

		req := places.TextSearchRequest{PageToken: pageToken}
		if pageToken == "" {
			req.Query = query
			req.Location = &places.LatLng{Lat: o.cfg.BiasLat, Lng: o.cfg.BiasLng}
			req.RadiusMeters = o.cfg.RadiusMeters
		}

		resp, err := o.places.TextSearch(ctx, req)
		if err != nil {
			return nil, eris.Wrap(err, "search: text search page")
		}
		if resp.Status == places.StatusZeroResults {
			return accumulated, nil
		}
		if resp.Status != places.StatusOK {
			return nil, &StatusError{Status: resp.Status, Message: resp.ErrorMessage}
		}

		for _, p := range resp.Results {
			if _, dup := seen[p.PlaceID]; dup {
				continue
			}
			seen[p.PlaceID] = struct{}{}
			accumulated = append(accumulated, p)
		}

		if resp.NextPageToken == "" {
			return accumulated, nil
		}
		pageToken = resp.NextPageToken
	}
}

// fetchDetails looks up every place concurrently and returns the records
// that resolved, in their original order. Lookup failures are logged and
// the affected record dropped.
func (o *Orchestrator) fetchDetails(ctx context.Context, raw []places.Place) []places.Place {
	resolved := make([]*places.Place, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range raw {
		g.Go(func() error {
			resp, err := o.places.Details(gctx, p.PlaceID, detailFields)
			if err != nil {
				zap.L().Warn("detail lookup failed", zap.String("place_id", p.PlaceID), zap.Error(err))
				return nil
			}
			if resp.Status != places.StatusOK || resp.Result == nil {
				zap.L().Warn("detail lookup unresolved",
					zap.String("place_id", p.PlaceID),
					zap.String("status", resp.Status),
				)
				return nil
			}
			resolved[i] = resp.Result
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	out := make([]places.Place, 0, len(raw))
	for _, p := range resolved {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
