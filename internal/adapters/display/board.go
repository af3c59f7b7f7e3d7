package display

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// Board holds the quote the server-side rotator shows last. The page and
// /api/v1/quotes/current read it. Safe for concurrent use.
type Board struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	quote   domain.Quote
	shownAt time.Time
	shown   bool
}

// NewBoard creates an empty board. A nil clock means the real clock.
func NewBoard(clock clockwork.Clock) *Board {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Board{clock: clock}
}

// Show implements ports.QuoteDisplay. It never fails.
func (b *Board) Show(_ context.Context, q domain.Quote) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.quote = q
	b.shownAt = b.clock.Now()
	b.shown = true

	return nil
}

// Current returns the quote on the board and when it was put there.
// ok is false until the first Show.
func (b *Board) Current() (q domain.Quote, shownAt time.Time, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.quote, b.shownAt, b.shown
}
