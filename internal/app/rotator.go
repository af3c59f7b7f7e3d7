package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

// DefaultRotationInterval is the delay between two rotations.
const DefaultRotationInterval = 10 * time.Second

// RotatorMetrics receives one event per rotation.
// *telemetry.RotatorMetrics satisfies it.
type RotatorMetrics interface {
	IncRotation(display string)
	IncDisplayError(display string)
	SetQuotesLoaded(display string, n int)
}

// RotatorTracer wraps the quote fetch and every rotation in a span. The
// returned func ends the span. *telemetry.RotatorTracer satisfies it.
type RotatorTracer interface {
	TraceFetch(ctx context.Context, display string) (context.Context, func(quotes int, err error))
	TraceRotation(ctx context.Context, display string, q domain.Quote) (context.Context, func(err error))
}

// QuoteRotatorConfig contains the collaborators of a QuoteRotator.
type QuoteRotatorConfig struct {
	// Source is read once per Start. Required.
	Source ports.QuoteSource

	// Display shows each picked quote. Required.
	Display ports.QuoteDisplay

	// DisplayName labels metrics and logs. Defaults to "default".
	DisplayName string

	// Interval is the delay between rotations. Defaults to DefaultRotationInterval.
	Interval time.Duration

	// Clock defaults to the real clock.
	Clock clockwork.Clock

	// Pick returns an index in [0,n). Defaults to rand.IntN.
	Pick func(n int) int

	// Metrics is optional.
	Metrics RotatorMetrics

	// Tracer is optional.
	Tracer RotatorTracer

	Logger *slog.Logger
}

// QuoteRotator periodically shows a randomly chosen quote on a display.
// It is stateless between runs; every Start returns an independent Rotation.
type QuoteRotator struct {
	source      ports.QuoteSource
	display     ports.QuoteDisplay
	displayName string
	interval    time.Duration
	clock       clockwork.Clock
	pick        func(n int) int
	metrics     RotatorMetrics
	tracer      RotatorTracer
	logger      *slog.Logger
}

// NewQuoteRotator creates a rotator. It panics if Source or Display is nil.
func NewQuoteRotator(cfg QuoteRotatorConfig) *QuoteRotator {
	if cfg.Source == nil {
		panic("app: quote rotator requires a Source")
	}

	if cfg.Display == nil {
		panic("app: quote rotator requires a Display")
	}

	r := &QuoteRotator{
		source:      cfg.Source,
		display:     cfg.Display,
		displayName: cfg.DisplayName,
		interval:    cfg.Interval,
		clock:       cfg.Clock,
		pick:        cfg.Pick,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
		logger:      cfg.Logger,
	}

	if r.displayName == "" {
		r.displayName = "default"
	}

	if r.interval <= 0 {
		r.interval = DefaultRotationInterval
	}

	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}

	if r.pick == nil {
		r.pick = rand.IntN
	}

	if r.metrics == nil {
		r.metrics = nopRotatorMetrics{}
	}

	if r.tracer == nil {
		r.tracer = nopRotatorTracer{}
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.logger = r.logger.With(slog.String("display", r.displayName))

	return r
}

// Start fetches the quote list once and begins rotating.
//
// A fetch error is returned as is and nothing is scheduled. An empty list,
// or a ctx that is already done, yields an inactive Rotation without
// touching the display. Otherwise one quote is shown before Start returns
// and another after every interval, until the Rotation is stopped or ctx is
// cancelled.
func (r *QuoteRotator) Start(ctx context.Context) (*Rotation, error) {
	fetchCtx, endFetch := r.tracer.TraceFetch(ctx, r.displayName)
	quotes, err := r.source.FetchQuotes(fetchCtx)
	endFetch(len(quotes), err)

	if err != nil {
		r.logger.ErrorContext(ctx, "failed to fetch quotes, rotation not started",
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	rot := &Rotation{
		rotator: r,
		ctx:     ctx,
		quotes:  slices.Clone(quotes),
		done:    make(chan struct{}),
	}

	if len(rot.quotes) == 0 {
		r.logger.InfoContext(ctx, "no quotes to rotate")
		close(rot.done)

		return rot, nil
	}

	if ctx.Err() != nil {
		r.logger.InfoContext(context.WithoutCancel(ctx), "context done, rotation not started",
			slog.Any("cause", context.Cause(ctx)),
		)
		close(rot.done)

		return rot, nil
	}

	r.metrics.SetQuotesLoaded(r.displayName, len(rot.quotes))
	r.logger.InfoContext(ctx, "quote rotation started",
		slog.Int("quotes", len(rot.quotes)),
		slog.Duration("interval", r.interval),
	)

	// detach is registered under the lock: a cancellation that lands now
	// runs Stop, which waits for the first rotation and the timer.
	rot.mu.Lock()
	rot.active = true
	rot.detach = context.AfterFunc(ctx, rot.Stop)
	rot.rotateLocked()
	rot.timer = r.clock.AfterFunc(r.interval, rot.tick)
	rot.mu.Unlock()

	return rot, nil
}

// Rotation is a running (or inert) quote rotation started by QuoteRotator.Start.
type Rotation struct {
	rotator *QuoteRotator
	ctx     context.Context
	quotes  []domain.Quote
	done    chan struct{}

	mu     sync.Mutex
	active bool
	timer  clockwork.Timer
	detach func() bool
	count  int
}

// Stop cancels the pending rotation. Once Stop returns the display is not
// touched again. Stop is idempotent and safe to call concurrently, but must
// not be called from inside QuoteDisplay.Show.
func (rot *Rotation) Stop() {
	rot.mu.Lock()
	defer rot.mu.Unlock()

	if !rot.active {
		return
	}

	rot.active = false
	rot.timer.Stop()

	if rot.detach != nil {
		rot.detach()
	}

	close(rot.done)

	rot.rotator.logger.InfoContext(context.WithoutCancel(rot.ctx), "quote rotation stopped",
		slog.Int("rotations", rot.count),
	)
}

// Done is closed when the rotation stops. It is closed from the start for
// a rotation that never became active.
func (rot *Rotation) Done() <-chan struct{} {
	return rot.done
}

// Active reports whether a next rotation is scheduled.
func (rot *Rotation) Active() bool {
	rot.mu.Lock()
	defer rot.mu.Unlock()

	return rot.active
}

// Quotes returns a copy of the list the rotation picks from.
func (rot *Rotation) Quotes() []domain.Quote {
	return slices.Clone(rot.quotes)
}

// Count returns the number of rotations performed so far.
func (rot *Rotation) Count() int {
	rot.mu.Lock()
	defer rot.mu.Unlock()

	return rot.count
}

func (rot *Rotation) tick() {
	rot.mu.Lock()
	defer rot.mu.Unlock()

	if !rot.active {
		return
	}

	rot.rotateLocked()
	rot.timer = rot.rotator.clock.AfterFunc(rot.rotator.interval, rot.tick)
}

// rotateLocked shows one random quote. Callers hold rot.mu.
func (rot *Rotation) rotateLocked() {
	r := rot.rotator
	q := rot.quotes[r.pick(len(rot.quotes))]

	rot.count++
	r.metrics.IncRotation(r.displayName)

	logging.Trace(rot.ctx, r.logger, "rotating quote",
		slog.Int64("quote_id", q.ID),
		slog.String("author", q.Author),
	)

	ctx, endRotation := r.tracer.TraceRotation(rot.ctx, r.displayName, q)
	err := r.display.Show(ctx, q)
	endRotation(err)

	if err != nil {
		r.metrics.IncDisplayError(r.displayName)
		r.logger.WarnContext(rot.ctx, "display rejected quote",
			slog.Int64("quote_id", q.ID),
			slog.Any("error", err),
		)
	}
}

type nopRotatorMetrics struct{}

func (nopRotatorMetrics) IncRotation(string)          {}
func (nopRotatorMetrics) IncDisplayError(string)      {}
func (nopRotatorMetrics) SetQuotesLoaded(string, int) {}

type nopRotatorTracer struct{}

func (nopRotatorTracer) TraceFetch(ctx context.Context, _ string) (context.Context, func(int, error)) {
	return ctx, func(int, error) {}
}

func (nopRotatorTracer) TraceRotation(ctx context.Context, _ string, _ domain.Quote) (context.Context, func(error)) {
	return ctx, func(error) {}
}
