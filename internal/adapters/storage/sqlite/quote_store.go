// Package sqlite stores quotes in SQLite through the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT    NOT NULL,
	author     TEXT    NOT NULL,
	published  INTEGER NOT NULL DEFAULT 1,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_quotes_sort_order ON quotes(sort_order);
`

const selectColumns = "SELECT id, text, author, published, sort_order FROM quotes"

var (
	_ ports.QuoteRepository = (*QuoteStore)(nil)
	_ ports.HealthChecker   = (*QuoteStore)(nil)
)

// QuoteStore implements ports.QuoteRepository.
type QuoteStore struct {
	db *sql.DB
}

// Open opens the database at path (":memory:" for a private in-memory
// database) and creates the schema.
func Open(ctx context.Context, path string) (*QuoteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection: an in-memory database exists per connection, and
	// writes are serialised by SQLite anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &QuoteStore{db: db}, nil
}

// Close closes the database.
func (s *QuoteStore) Close() error {
	return s.db.Close()
}

// ListPublished implements ports.QuoteRepository.
func (s *QuoteStore) ListPublished(ctx context.Context) ([]domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE published = 1 ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	quotes := []domain.Quote{}

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return quotes, nil
}

// GetByID implements ports.QuoteRepository.
func (s *QuoteStore) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ? AND published = 1", id)

	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	return q, err
}

// GetByOrder implements ports.QuoteRepository. When several published
// quotes share the order the lowest ID wins.
func (s *QuoteStore) GetByOrder(ctx context.Context, order int) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE sort_order = ? AND published = 1 ORDER BY id LIMIT 1", order)

	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", "order "+strconv.Itoa(order))
	}

	return q, err
}

const insertQuote = "INSERT INTO quotes (text, author, published, sort_order) VALUES (?, ?, ?, ?)"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert implements ports.QuoteRepository.
func (s *QuoteStore) Insert(ctx context.Context, q *domain.Quote) error {
	return insert(ctx, s.db, q)
}

// InsertAll implements ports.QuoteRepository.
func (s *QuoteStore) InsertAll(ctx context.Context, quotes []domain.Quote) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreDone(tx.Rollback()))
		}
	}()

	ids := make([]int64, len(quotes))

	for i := range quotes {
		q := quotes[i]
		if err := insert(ctx, tx, &q); err != nil {
			return fmt.Errorf("quote %d: %w", i, err)
		}

		ids[i] = q.ID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	for i := range quotes {
		quotes[i].ID = ids[i]
	}

	return nil
}

func insert(ctx context.Context, db execer, q *domain.Quote) error {
	if err := q.Validate(); err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, insertQuote, q.Text, q.Author, q.Published, q.Order)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read quote id: %w", err)
	}

	q.ID = id

	return nil
}

// ignoreDone drops the error of rolling back an already finished transaction.
func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return err
}

// Count implements ports.QuoteRepository.
func (s *QuoteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}

	return n, nil
}

// Name implements ports.HealthChecker.
func (s *QuoteStore) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker.
func (s *QuoteStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(row scanner) (*domain.Quote, error) {
	var q domain.Quote

	err := row.Scan(&q.ID, &q.Text, &q.Author, &q.Published, &q.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("scan quote: %w", err)
	}

	return &q, nil
}
