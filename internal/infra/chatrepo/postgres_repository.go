package chatrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mduarte/zapatende/internal/domain/crm"
)

const pgUniqueViolation = "23505"

// PostgresContactRepository implements crm.ContactRepository using pgx.
type PostgresContactRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContactRepository constructs the repository.
func NewPostgresContactRepository(pool *pgxpool.Pool) *PostgresContactRepository {
	return &PostgresContactRepository{pool: pool}
}

// Upsert finds or creates the contact for a WhatsApp ID. An existing row is
// left untouched, matching the first-contact-wins profile name policy.
func (r *PostgresContactRepository) Upsert(ctx context.Context, waID, name string) (crm.Contact, error) {
	var nameValue any
	if name != "" {
		nameValue = name
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (wa_id, name)
		VALUES ($1, $2)
		ON CONFLICT (wa_id) DO UPDATE SET wa_id = EXCLUDED.wa_id
		RETURNING id, wa_id, COALESCE(name, ''), created_at
	`, waID, nameValue)
	return scanContact(row)
}

// Get fetches a contact by ID.
func (r *PostgresContactRepository) Get(ctx context.Context, id int64) (crm.Contact, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, wa_id, COALESCE(name, ''), created_at
		FROM contacts
		WHERE id = $1
	`, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return crm.Contact{}, false, nil
		}
		return crm.Contact{}, false, err
	}
	return contact, true, nil
}

// Recent lists the newest contacts.
func (r *PostgresContactRepository) Recent(ctx context.Context, limit int) ([]crm.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, wa_id, COALESCE(name, ''), created_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []crm.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// Delete removes a contact; messages cascade via the schema.
func (r *PostgresContactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of contacts.
func (r *PostgresContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

// PostgresMessageRepository implements crm.MessageRepository using pgx.
type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository constructs the repository.
func NewPostgresMessageRepository(pool *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

// Insert stores a message, mapping the wa_message_id unique constraint to
// crm.ErrDuplicateMessage.
func (r *PostgresMessageRepository) Insert(ctx context.Context, msg crm.Message) (crm.Message, error) {
	var waMessageID any
	if msg.WaMessageID != "" {
		waMessageID = msg.WaMessageID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (contact_id, direction, body, wa_message_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, contact_id, direction, body, COALESCE(wa_message_id, ''), created_at
	`, msg.ContactID, msg.Direction, msg.Body, waMessageID)
	stored, err := scanMessage(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return crm.Message{}, crm.ErrDuplicateMessage
		}
		return crm.Message{}, err
	}
	return stored, nil
}

// RecentByContact returns up to limit newest messages, oldest first.
func (r *PostgresMessageRepository) RecentByContact(ctx context.Context, contactID int64, limit int) ([]crm.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, direction, body, COALESCE(wa_message_id, ''), created_at
		FROM (
			SELECT * FROM messages
			WHERE contact_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`, contactID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []crm.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Latest returns the newest message across all contacts.
func (r *PostgresMessageRepository) Latest(ctx context.Context) (crm.Message, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, contact_id, direction, body, COALESCE(wa_message_id, ''), created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return crm.Message{}, false, nil
		}
		return crm.Message{}, false, err
	}
	return msg, true, nil
}

// Delete removes one message.
func (r *PostgresMessageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByContact purges a conversation, reporting crm.ErrNotFound when the
// contact itself does not exist.
func (r *PostgresMessageRepository) DeleteByContact(ctx context.Context, contactID int64) (int64, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1)`, contactID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, crm.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE contact_id = $1`, contactID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Counts returns total, inbound and outbound message counts.
func (r *PostgresMessageRepository) Counts(ctx context.Context) (total, inbound, outbound int64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE direction = 'in'),
			COUNT(*) FILTER (WHERE direction = 'out')
		FROM messages
	`).Scan(&total, &inbound, &outbound)
	return total, inbound, outbound, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (crm.Contact, error) {
	var contact crm.Contact
	if err := row.Scan(&contact.ID, &contact.WaID, &contact.Name, &contact.CreatedAt); err != nil {
		return crm.Contact{}, err
	}
	return contact, nil
}

func scanMessage(row rowScanner) (crm.Message, error) {
	var msg crm.Message
	if err := row.Scan(&msg.ID, &msg.ContactID, &msg.Direction, &msg.Body, &msg.WaMessageID, &msg.CreatedAt); err != nil {
		return crm.Message{}, err
	}
	return msg, nil
}

var (
	_ crm.ContactRepository = (*PostgresContactRepository)(nil)
	_ crm.MessageRepository = (*PostgresMessageRepository)(nil)
)
