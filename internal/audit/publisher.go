package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink receives audit events beyond the local store, e.g. a kafka topic.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. The local store append is the
// durability guarantee; the sink is best-effort fan-out and its failures are
// logged, never surfaced to the caller.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSink attaches a fan-out sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

// NewPublisher constructs a publisher writing to the given store.
func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records one audit event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed", "action", event.Action, "error", err)
		}
	}
	return nil
}

// List returns the locally stored trail.
func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}
