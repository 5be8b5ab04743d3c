// Package activity counts live showroom activity (vehicle views, comparisons
// and quotes) and shares it between API instances over NATS.
package activity

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an Event.
type Kind string

const (
	KindView    Kind = "view"
	KindCompare Kind = "compare"
	KindQuote   Kind = "quote"
)

// Event is one recorded interaction.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	VehicleIDs []int     `json:"vehicle_ids"`
	Origin     string    `json:"origin"`
	At         time.Time `json:"at"`
}

// Publisher forwards events to other instances.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Views       map[int]int `json:"views"`
	TotalViews  int         `json:"total_views"`
	Comparisons int         `json:"comparisons"`
	Quotes      int         `json:"quotes"`
	Trending    []int       `json:"trending"`
	Since       time.Time   `json:"since"`
}

// TrendingSize is how many vehicles a Snapshot lists as trending.
const TrendingSize = 6

// Tracker aggregates events. It is safe for concurrent use.
type Tracker struct {
	origin string
	pub    Publisher
	log    *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	views       map[int]int
	comparisons int
	quotes      int
	since       time.Time
}

// NewTracker returns a Tracker that forwards local events to pub. A nil pub
// keeps events local.
func NewTracker(pub Publisher, log *slog.Logger) *Tracker {
	if pub == nil {
		pub = NopPublisher{}
	}
	t := &Tracker{
		origin: uuid.NewString(),
		pub:    pub,
		log:    log,
		now:    time.Now,
		views:  make(map[int]int),
	}
	t.since = t.now().UTC()
	return t
}

// Origin identifies this tracker in published events.
func (t *Tracker) Origin() string { return t.origin }

// RecordView counts a detail page view.
func (t *Tracker) RecordView(ctx context.Context, id int) {
	t.record(ctx, KindView, []int{id})
}

// RecordComparison counts a comparison of ids.
func (t *Tracker) RecordComparison(ctx context.Context, ids []int) {
	t.record(ctx, KindCompare, slices.Clone(ids))
}

// RecordQuote counts a priced configuration or shipping quote.
func (t *Tracker) RecordQuote(ctx context.Context, id int) {
	t.record(ctx, KindQuote, []int{id})
}

func (t *Tracker) record(ctx context.Context, kind Kind, ids []int) {
	e := Event{ID: uuid.NewString(), Kind: kind, VehicleIDs: ids, Origin: t.origin, At: t.now().UTC()}
	t.Apply(e)
	// Publishing failures only cost other instances an event.
	if err := t.pub.Publish(ctx, e); err != nil {
		t.log.Debug("activity publish failed", "kind", kind, "err", err)
	}
}

// Apply folds e into the counters and reports whether its kind was known.
func (t *Tracker) Apply(e Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Kind {
	case KindView:
		for _, id := range e.VehicleIDs {
			t.views[id]++
		}
	case KindCompare:
		t.comparisons++
	case KindQuote:
		t.quotes++
	default:
		return false
	}
	return true
}

// Views returns the view count of one vehicle.
func (t *Tracker) Views(id int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.views[id]
}

// Snapshot copies the counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		Views:       maps.Clone(t.views),
		Comparisons: t.comparisons,
		Quotes:      t.quotes,
		Since:       t.since,
	}
	for _, n := range t.views {
		s.TotalViews += n
	}
	s.Trending = trending(t.views, TrendingSize)
	return s
}

// trending returns up to n vehicle IDs by descending views, ties by ID.
func trending(views map[int]int, n int) []int {
	ids := slices.Collect(maps.Keys(views))
	slices.SortFunc(ids, func(a, b int) int {
		if c := cmp.Compare(views[b], views[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
