package faqrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mduarte/zapatende/internal/domain/crm"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements crm.FaqRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListActive returns the entries eligible for context ranking.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]crm.Faq, error) {
	return r.list(ctx, `
		SELECT id, question, answer, is_active, created_at, updated_at
		FROM faqs
		WHERE is_active = TRUE
		ORDER BY updated_at DESC
	`)
}

// List returns every entry, newest update first.
func (r *PostgresRepository) List(ctx context.Context) ([]crm.Faq, error) {
	return r.list(ctx, `
		SELECT id, question, answer, is_active, created_at, updated_at
		FROM faqs
		ORDER BY updated_at DESC
	`)
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]crm.Faq, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []crm.Faq
	for rows.Next() {
		faq, err := scanFaq(rows)
		if err != nil {
			return nil, err
		}
		faqs = append(faqs, faq)
	}
	return faqs, rows.Err()
}

// Create inserts a new FAQ, active by default.
func (r *PostgresRepository) Create(ctx context.Context, question, answer string) (crm.Faq, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO faqs (question, answer, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, question, answer, is_active, created_at, updated_at
	`, question, answer)
	faq, err := scanFaq(row)
	if err != nil {
		return crm.Faq{}, mapFaqError(err)
	}
	return faq, nil
}

// Update rewrites an existing FAQ.
func (r *PostgresRepository) Update(ctx context.Context, id int64, question, answer string, isActive bool) (crm.Faq, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE faqs
		SET question = $2, answer = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, question, answer, is_active, created_at, updated_at
	`, id, question, answer, isActive)
	faq, err := scanFaq(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return crm.Faq{}, crm.ErrNotFound
		}
		return crm.Faq{}, mapFaqError(err)
	}
	return faq, nil
}

// Delete removes a FAQ.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountActive returns the number of active FAQs.
func (r *PostgresRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faqs WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func mapFaqError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return crm.ErrDuplicateQuestion
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFaq(row rowScanner) (crm.Faq, error) {
	var faq crm.Faq
	if err := row.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.IsActive, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
		return crm.Faq{}, err
	}
	return faq, nil
}

var _ crm.FaqRepository = (*PostgresRepository)(nil)
