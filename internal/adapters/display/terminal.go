// Package display provides the QuoteDisplay adapters: a terminal writer for
// the rotator CLI and an in-memory board read by the HTTP handlers.
package display

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

const separatorWidth = 48

var (
	_ ports.QuoteDisplay = (*Terminal)(nil)
	_ ports.QuoteDisplay = (*Board)(nil)
)

// TerminalConfig configures a Terminal.
type TerminalConfig struct {
	// Out defaults to os.Stdout.
	Out io.Writer

	// NoColor disables color even on a terminal.
	NoColor bool
}

// Terminal prints each quote as a quotation line and an attribution line.
// Quotes after the first are preceded by a separator line.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	text   *color.Color
	author *color.Color
	shown  int
}

// NewTerminal creates a terminal display. Color is used only when Out is a
// terminal and NoColor is false.
func NewTerminal(cfg TerminalConfig) *Terminal {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	t := &Terminal{
		out:    out,
		text:   color.New(color.FgGreen, color.Bold),
		author: color.New(color.FgCyan, color.Italic),
	}

	if !cfg.NoColor && isTerminal(out) {
		t.text.EnableColor()
		t.author.EnableColor()
	} else {
		t.text.DisableColor()
		t.author.DisableColor()
	}

	return t
}

// Show implements ports.QuoteDisplay.
func (t *Terminal) Show(_ context.Context, q domain.Quote) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shown > 0 {
		if _, err := fmt.Fprintln(t.out, strings.Repeat("─", separatorWidth)); err != nil {
			return fmt.Errorf("writing separator: %w", err)
		}
	}

	if _, err := t.text.Fprintf(t.out, "“%s”\n", q.Text); err != nil {
		return fmt.Errorf("writing quotation: %w", err)
	}

	if _, err := t.author.Fprintf(t.out, "    — %s\n", q.Author); err != nil {
		return fmt.Errorf("writing attribution: %w", err)
	}

	t.shown++

	return nil
}

// Shown returns how many quotes were written.
func (t *Terminal) Shown() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.shown
}

type fder interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
