// Package seed reads the YAML file the quote store is seeded from.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// File is the document layout:
//
//	quotes:
//	  - text: "..."
//	    author: "..."
//	    published: true
//	    order: 0
type File struct {
	Quotes []Entry `yaml:"quotes"`
}

// Entry is one quote of the seed file. Published defaults to true.
type Entry struct {
	Text      string `yaml:"text"`
	Author    string `yaml:"author"`
	Published *bool  `yaml:"published"`
	Order     *int   `yaml:"order"`
}

// Load reads and validates the seed file at path.
func Load(path string) ([]domain.Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	quotes, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}

	return quotes, nil
}

// Parse decodes and validates a seed document. Entries without an order
// take their position in the file. Unknown keys are rejected.
func Parse(r io.Reader) ([]domain.Quote, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(f.Quotes))

	for i, e := range f.Quotes {
		q := domain.Quote{
			Text:      e.Text,
			Author:    e.Author,
			Published: true,
			Order:     i,
		}

		if e.Published != nil {
			q.Published = *e.Published
		}

		if e.Order != nil {
			q.Order = *e.Order
		}

		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}

		quotes = append(quotes, q)
	}

	return quotes, nil
}
