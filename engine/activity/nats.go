package activity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/WessleyAI/showroom/pkg/metrics"
	"github.com/WessleyAI/showroom/pkg/natsutil"
	"github.com/WessleyAI/showroom/pkg/resilience"
	"github.com/nats-io/nats.go"
)

// NATS subjects.
const (
	SubjectPrefix   = "showroom.activity"
	EventsSubject   = SubjectPrefix + ".events"
	SnapshotSubject = SubjectPrefix + ".snapshot"
)

// NATSPublisher publishes events on EventsSubject behind a circuit breaker,
// so an unreachable broker fails fast instead of slowing requests.
type NATSPublisher struct {
	nc      *nats.Conn
	breaker *resilience.Breaker
	metrics *metrics.Metrics
}

// NewNATSPublisher wraps nc. m may be nil.
func NewNATSPublisher(nc *nats.Conn, opts resilience.BreakerOpts, m *metrics.Metrics, log *slog.Logger) *NATSPublisher {
	prev := opts.OnStateChange
	opts.OnStateChange = func(from, to resilience.State) {
		log.Warn("activity publisher breaker", "from", from, "to", to)
		if m != nil {
			m.BreakerState.Set(float64(to))
		}
		if prev != nil {
			prev(from, to)
		}
	}
	return &NATSPublisher{nc: nc, breaker: resilience.NewBreaker(opts), metrics: m}
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	err := p.breaker.Call(ctx, func(ctx context.Context) error {
		return natsutil.Publish(ctx, p.nc, EventsSubject, e)
	})
	if p.metrics != nil {
		result := "ok"
		switch {
		case err == nil:
		case errors.Is(err, resilience.ErrCircuitOpen):
			result = "dropped"
		default:
			result = "error"
		}
		p.metrics.Activity.WithLabelValues(string(e.Kind), result).Inc()
	}
	return err
}

// State reports the breaker state.
func (p *NATSPublisher) State() resilience.State { return p.breaker.State() }

// Listen applies events published by other instances to t.
func (t *Tracker) Listen(nc *nats.Conn) (*nats.Subscription, error) {
	return natsutil.Subscribe(nc, EventsSubject, func(_ context.Context, e Event) {
		if e.Origin == t.origin {
			return
		}
		t.Apply(e)
	})
}

// Serve answers snapshot requests on SnapshotSubject.
func (t *Tracker) Serve(nc *nats.Conn) (*nats.Subscription, error) {
	return natsutil.Respond(nc, SnapshotSubject, func(context.Context, struct{}) Snapshot {
		return t.Snapshot()
	})
}

// FetchSnapshot asks a serving instance for its counters.
func FetchSnapshot(ctx context.Context, nc *nats.Conn) (Snapshot, error) {
	return natsutil.Request[struct{}, Snapshot](ctx, nc, SnapshotSubject, struct{}{})
}
