//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/display"
	apphttp "github.com/jsamuelsen/quote-rotator/internal/adapters/http"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

const rotationInterval = 10 * time.Second

// seedQuotes is the store content of every in-process service.
var seedQuotes = []domain.Quote{
	{Text: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra", Published: true, Order: 0},
	{Text: "Clear is better than clever.", Author: "Rob Pike", Published: true, Order: 1},
	{Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds", Published: true, Order: 2},
	{Text: "Never published.", Author: "Nobody", Published: false, Order: 3},
}

func init() {
	gin.SetMode(gin.TestMode)
}

// service is the quote service wired as cmd/service wires it, on an
// in-memory store, a fake clock and an httptest listener.
type service struct {
	server   *httptest.Server
	clock    *clockwork.FakeClock
	board    *display.Board
	store    *sqlite.QuoteStore
	rotation *app.Rotation
	cancel   context.CancelFunc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cyclingPick shows the quotes in list order so scenarios are deterministic.
func cyclingPick() func(int) int {
	var (
		mu   sync.Mutex
		next int
	)

	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()

		i := next % n
		next++

		return i
	}
}

func startService(quotes []domain.Quote, rotate bool) (*service, error) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := discardLogger()

	store, err := sqlite.Open(ctx, ":memory:")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	svc := app.NewQuoteService(app.QuoteServiceConfig{Repository: store, Logger: logger})
	if _, err := svc.Seed(ctx, quotes); err != nil {
		cancel()
		_ = store.Close()

		return nil, fmt.Errorf("seeding store: %w", err)
	}

	s := &service{
		clock:  clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		store:  store,
		cancel: cancel,
	}
	s.board = display.NewBoard(s.clock)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		s.close()
		return nil, err
	}

	toggler := app.NewMenuToggler(app.MenuTogglerConfig{})
	menu := handlers.NewMenuHandler(handlers.MenuHandlerConfig{Toggler: toggler, InitiallyFolded: true})

	engine := gin.New()

	err = apphttp.SetupRouter(engine, apphttp.RouterConfig{
		ServiceName: "quote-rotator-it",
		Quote:       handlers.NewQuoteHandler(svc, s.board),
		Menu:        menu,
		Page: handlers.NewPageHandler(handlers.PageHandlerConfig{
			Service:  svc,
			Current:  s.board,
			Menu:     menu,
			Interval: rotationInterval,
		}),
		Health: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("it", "none", "now"), prometheus.NewRegistry()),
	})
	if err != nil {
		s.close()
		return nil, err
	}

	if rotate {
		rotator := app.NewQuoteRotator(app.QuoteRotatorConfig{
			Source:      svc,
			Display:     s.board,
			DisplayName: "board",
			Interval:    rotationInterval,
			Clock:       s.clock,
			Pick:        cyclingPick(),
			Metrics:     telemetry.NewRotatorMetrics(nil),
			Logger:      logger,
		})

		s.rotation, err = rotator.Start(ctx)
		if err != nil {
			s.close()
			return nil, err
		}
	}

	s.server = httptest.NewServer(engine)

	return s, nil
}

// advance moves the fake clock by whole intervals and waits for each rotation.
func (s *service) advance(intervals int) error {
	if s.rotation == nil {
		return fmt.Errorf("rotation is not running")
	}

	for range intervals {
		want := s.rotation.Count() + 1

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.clock.BlockUntilContext(ctx, 1)
		cancel()

		if err != nil {
			return fmt.Errorf("rotation timer was not scheduled: %w", err)
		}

		s.clock.Advance(rotationInterval)

		deadline := time.Now().Add(2 * time.Second)
		for s.rotation.Count() < want {
			if time.Now().After(deadline) {
				return fmt.Errorf("rotation %d did not happen", want)
			}

			time.Sleep(5 * time.Millisecond)
		}
	}

	return nil
}

func (s *service) close() {
	if s.server != nil {
		s.server.Close()
	}

	if s.rotation != nil {
		s.rotation.Stop()
	}

	s.cancel()
	_ = s.store.Close()
}
