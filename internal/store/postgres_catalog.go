/**
 * @description
 * This file provides the PostgreSQL implementation of the catalog source. When
 * a DATABASE_URL is configured the charity catalog and quiz questions are
 * hydrated from the database at startup; otherwise the service falls back to
 * the built-in seed catalog. The catalog is read-only at this layer; the
 * optimistic raisedAmount cache lives in the KV store, never here.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/givechain/donation-service/internal/domain"
)

var (
	// ErrCatalogEmpty signals that the database is reachable but holds no
	// charities; callers fall back to the seed catalog.
	ErrCatalogEmpty = errors.New("charity catalog is empty")
)

// PostgresCatalog reads the charity catalog and quiz questions from Postgres.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresCatalog creates a new instance of PostgresCatalog.
func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// LoadCharities returns every charity ordered by its stable catalog position.
// The `updates` narrative entries are stored as a jsonb column.
func (c *PostgresCatalog) LoadCharities(ctx context.Context) ([]domain.Charity, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, name, category, description, impact, geography, transparency,
		       size, verified, image_url, target_amount, raised_amount, address,
		       about, financials, COALESCE(updates, '[]'::jsonb)
		FROM charities
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query charities: %w", err)
	}
	defer rows.Close()

	var charities []domain.Charity
	for rows.Next() {
		var ch domain.Charity
		if err := rows.Scan(
			&ch.ID, &ch.Name, &ch.Category, &ch.Description, &ch.Impact,
			&ch.Geography, &ch.Transparency, &ch.Size, &ch.Verified, &ch.ImageURL,
			&ch.TargetAmount, &ch.RaisedAmount, &ch.Address, &ch.About,
			&ch.Financials, &ch.Updates,
		); err != nil {
			return nil, fmt.Errorf("scan charity: %w", err)
		}
		charities = append(charities, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charities: %w", err)
	}
	if len(charities) == 0 {
		return nil, ErrCatalogEmpty
	}
	return charities, nil
}

// LoadQuizQuestions returns the quiz questions in their authored order. The
// per-session shuffle happens in the quiz manager, not here.
func (c *PostgresCatalog) LoadQuizQuestions(ctx context.Context) ([]domain.QuizQuestion, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, prompt, type, COALESCE(options, '[]'::jsonb),
		       COALESCE(range_min, 0), COALESCE(range_max, 0), COALESCE(range_step, 0)
		FROM quiz_questions
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.QuizQuestion
	for rows.Next() {
		var q domain.QuizQuestion
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Type, &q.Options, &q.Min, &q.Max, &q.Step); err != nil {
			return nil, fmt.Errorf("scan quiz question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz questions: %w", err)
	}
	return questions, nil
}
