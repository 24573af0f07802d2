package crm

import (
	"context"
	"errors"
)

// Sentinel errors mapped by the repositories.
var (
	// ErrDuplicateQuestion indicates a FAQ question already exists.
	ErrDuplicateQuestion = errors.New("faq question already exists")
	// ErrDuplicateMessage indicates the WhatsApp message ID was already stored.
	ErrDuplicateMessage = errors.New("message already stored")
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
)

// ContactRepository persists conversation partners.
type ContactRepository interface {
	// Upsert finds or creates the contact for a WhatsApp ID. The profile
	// name is only written on first contact.
	Upsert(ctx context.Context, waID, name string) (Contact, error)
	Get(ctx context.Context, id int64) (Contact, bool, error)
	// Recent lists the newest contacts.
	Recent(ctx context.Context, limit int) ([]Contact, error)
	// Delete removes a contact and cascades to its messages.
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// MessageRepository persists conversation messages.
type MessageRepository interface {
	// Insert stores a message. A duplicate WhatsApp message ID returns
	// ErrDuplicateMessage.
	Insert(ctx context.Context, msg Message) (Message, error)
	// RecentByContact returns up to limit newest messages, oldest first.
	RecentByContact(ctx context.Context, contactID int64, limit int) ([]Message, error)
	// Latest returns the newest message across all contacts.
	Latest(ctx context.Context) (Message, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByContact(ctx context.Context, contactID int64) (int64, error)
	// Counts returns total, inbound and outbound message counts.
	Counts(ctx context.Context) (total, inbound, outbound int64, err error)
}

// FaqRepository persists the FAQ knowledge base.
type FaqRepository interface {
	// ListActive returns the entries eligible for context ranking.
	ListActive(ctx context.Context) ([]Faq, error)
	// List returns every entry, newest update first.
	List(ctx context.Context) ([]Faq, error)
	Create(ctx context.Context, question, answer string) (Faq, error)
	Update(ctx context.Context, id int64, question, answer string, isActive bool) (Faq, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountActive(ctx context.Context) (int64, error)
}
