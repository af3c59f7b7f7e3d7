//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/display"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

func newService(t *testing.T, quotes []domain.Quote, rotate bool) *service {
	t.Helper()

	svc, err := startService(quotes, rotate)
	require.NoError(t, err)
	t.Cleanup(svc.close)

	return svc
}

func newQuoteClient(t *testing.T, baseURL string) *acl.QuoteClient {
	t.Helper()

	client, err := clients.New(&clients.Config{
		BaseURL:     baseURL,
		ServiceName: "quote-api",
		Timeout:     5 * time.Second,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	return acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: discardLogger()})
}

// TestQuoteClient_AgainstService runs the CLI's fetch path against the real router.
func TestQuoteClient_AgainstService(t *testing.T) {
	svc := newService(t, seedQuotes, false)
	qc := newQuoteClient(t, svc.server.URL)

	quotes, err := qc.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	for i, q := range quotes {
		assert.Equal(t, seedQuotes[i].Text, q.Text)
		assert.Equal(t, seedQuotes[i].Author, q.Author)
		assert.Equal(t, i, q.Order)
		assert.Positive(t, q.ID)
	}

	require.NoError(t, qc.Check(context.Background()))
}

func TestQuoteClient_EmptyService(t *testing.T) {
	svc := newService(t, nil, false)
	qc := newQuoteClient(t, svc.server.URL)

	quotes, err := qc.FetchQuotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

// TestTerminalRotation_AgainstService wires the CLI components end to end:
// remote quote list, rotator and terminal display.
func TestTerminalRotation_AgainstService(t *testing.T) {
	svc := newService(t, seedQuotes, false)

	var out safeBuffer

	rotator := app.NewQuoteRotator(app.QuoteRotatorConfig{
		Source:   newQuoteClient(t, svc.server.URL),
		Display:  display.NewTerminal(display.TerminalConfig{Out: &out, NoColor: true}),
		Interval: rotationInterval,
		Clock:    svc.clock,
		Pick:     cyclingPick(),
		Logger:   discardLogger(),
	})

	rot, err := rotator.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(rot.Stop)

	svc.rotation = rot
	require.NoError(t, svc.advance(1))
	svc.rotation = nil

	got := out.String()
	assert.Contains(t, got, "“Simplicity is prerequisite for reliability.”\n    — Edsger W. Dijkstra\n")
	assert.Contains(t, got, "“Clear is better than clever.”\n    — Rob Pike\n")
}

// TestPagination_WalksAllQuotes follows nextCursor until hasMore is false.
func TestPagination_WalksAllQuotes(t *testing.T) {
	svc := newService(t, seedQuotes, false)

	var seen []string

	cursor := ""

	for range 10 {
		q := url.Values{"limit": {"1"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		resp, err := http.Get(svc.server.URL + "/api/v1/quotes?" + q.Encode())
		require.NoError(t, err)

		var page dto.QuoteListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		for _, quote := range page.Quotes {
			seen = append(seen, quote.Author)
		}

		if !page.HasMore {
			break
		}

		cursor = page.NextCursor
	}

	assert.Equal(t, []string{"Edsger W. Dijkstra", "Rob Pike", "Linus Torvalds"}, seen)
}

// TestConcurrent_ReadsDuringRotation reads the current quote while the board rotates.
func TestConcurrent_ReadsDuringRotation(t *testing.T) {
	svc := newService(t, seedQuotes, true)

	const readers = 8

	var wg sync.WaitGroup

	errs := make(chan error, readers*10)

	for range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 10 {
				resp, err := http.Get(svc.server.URL + "/api/v1/quotes/current")
				if err != nil {
					errs <- err
					continue
				}

				if resp.StatusCode != http.StatusOK {
					errs <- assert.AnError
				}

				resp.Body.Close()
			}
		}()
	}

	require.NoError(t, svc.advance(3))
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 4, svc.rotation.Count())
}

type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)

	return len(p), nil
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.buf)
}
