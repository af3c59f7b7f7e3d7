package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cancelOnWrite cancels a context once the first quote is written.
type cancelOnWrite struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if bytes.Contains(w.buf.Bytes(), []byte("—")) {
		w.cancel()
	}

	return n, err
}

func (w *cancelOnWrite) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.String()
}

func quoteServer(t *testing.T, path, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestCLI_ParsesFlags(t *testing.T) {
	var cli CLI

	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"--base-url", "http://quotes.local:8080",
		"--endpoint", "/api/v1/quotes",
		"--no-color",
		"-v",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://quotes.local:8080", cli.BaseURL)
	assert.Equal(t, "/api/v1/quotes", cli.Endpoint)
	assert.True(t, cli.NoColor)
	assert.True(t, cli.Verbose)
}

func TestCLI_Run_ShowsQuoteUntilCancelled(t *testing.T) {
	srv := quoteServer(t, "/api/qt-data", `[{"id":1,"text":"Stay hungry","author":"Steve Jobs"}]`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &cancelOnWrite{cancel: cancel}
	cli := CLI{BaseURL: srv.URL, NoColor: true}

	var logs bytes.Buffer
	require.NoError(t, cli.Run(ctx, out, &logs))

	assert.Equal(t, "“Stay hungry”\n    — Steve Jobs\n", out.String())
}

func TestCLI_Run_CustomEndpoint(t *testing.T) {
	srv := quoteServer(t, "/quotes.json", `[{"id":3,"text":"Less is more","author":"Mies"}]`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &cancelOnWrite{cancel: cancel}
	cli := CLI{BaseURL: srv.URL, Endpoint: "/quotes.json", NoColor: true}

	var logs bytes.Buffer
	require.NoError(t, cli.Run(ctx, out, &logs))
	assert.Contains(t, out.String(), "Less is more")
}

func TestCLI_Run_EmptyListReturns(t *testing.T) {
	srv := quoteServer(t, "/api/qt-data", `[]`)

	var out, logs bytes.Buffer

	cli := CLI{BaseURL: srv.URL, NoColor: true}
	require.NoError(t, cli.Run(context.Background(), &out, &logs))
	assert.Empty(t, out.String())
}

func TestCLI_Run_FetchFailure(t *testing.T) {
	srv := quoteServer(t, "/somewhere-else", `[]`)

	var out, logs bytes.Buffer

	cli := CLI{BaseURL: srv.URL, NoColor: true}
	err := cli.Run(context.Background(), &out, &logs)
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetching quotes")
	assert.Empty(t, out.String())
}

func TestCLI_Run_InvalidBaseURL(t *testing.T) {
	var out, logs bytes.Buffer

	cli := CLI{BaseURL: "not a url"}
	err := cli.Run(context.Background(), &out, &logs)
	assert.ErrorContains(t, err, "invalid config")
}
