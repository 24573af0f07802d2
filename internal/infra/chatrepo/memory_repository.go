package chatrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/pkg/util"
)

// MemoryContactRepository is an in-memory crm.ContactRepository for
// tests/dev runs without Postgres.
type MemoryContactRepository struct {
	mu     sync.RWMutex
	nextID int64

	contacts map[int64]crm.Contact
	byWaID   map[string]int64

	messages *MemoryMessageRepository
}

// MemoryMessageRepository is the in-memory crm.MessageRepository companion.
type MemoryMessageRepository struct {
	mu     sync.RWMutex
	nextID int64

	messages map[int64]crm.Message
	byWaMsg  map[string]int64

	contacts *MemoryContactRepository
}

// NewMemoryRepositories builds the linked contact/message pair. They are
// linked so contact deletion cascades and purge can check existence.
func NewMemoryRepositories() (*MemoryContactRepository, *MemoryMessageRepository) {
	contacts := &MemoryContactRepository{
		nextID:   1,
		contacts: make(map[int64]crm.Contact),
		byWaID:   make(map[string]int64),
	}
	messages := &MemoryMessageRepository{
		nextID:   1,
		messages: make(map[int64]crm.Message),
		byWaMsg:  make(map[string]int64),
	}
	contacts.messages = messages
	messages.contacts = contacts
	return contacts, messages
}

// Upsert implements crm.ContactRepository.
func (r *MemoryContactRepository) Upsert(_ context.Context, waID, name string) (crm.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byWaID[waID]; ok {
		return r.contacts[id], nil
	}
	contact := crm.Contact{
		ID:        r.nextID,
		WaID:      waID,
		Name:      name,
		CreatedAt: util.NowUTC(),
	}
	r.nextID++
	r.contacts[contact.ID] = contact
	r.byWaID[waID] = contact.ID
	return contact, nil
}

// Get implements crm.ContactRepository.
func (r *MemoryContactRepository) Get(_ context.Context, id int64) (crm.Contact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contact, ok := r.contacts[id]
	return contact, ok, nil
}

// Recent implements crm.ContactRepository.
func (r *MemoryContactRepository) Recent(_ context.Context, limit int) ([]crm.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contacts := make([]crm.Contact, 0, len(r.contacts))
	for _, contact := range r.contacts {
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].CreatedAt.Equal(contacts[j].CreatedAt) {
			return contacts[i].ID > contacts[j].ID
		}
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	if limit > 0 && len(contacts) > limit {
		contacts = contacts[:limit]
	}
	return contacts, nil
}

// Delete implements crm.ContactRepository, cascading to messages.
func (r *MemoryContactRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	contact, ok := r.contacts[id]
	if ok {
		delete(r.contacts, id)
		delete(r.byWaID, contact.WaID)
	}
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	_, _ = r.messages.DeleteByContactUnchecked(id)
	return true, nil
}

// Count implements crm.ContactRepository.
func (r *MemoryContactRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.contacts)), nil
}

// Insert implements crm.MessageRepository.
func (r *MemoryMessageRepository) Insert(_ context.Context, msg crm.Message) (crm.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.WaMessageID != "" {
		if _, ok := r.byWaMsg[msg.WaMessageID]; ok {
			return crm.Message{}, crm.ErrDuplicateMessage
		}
	}
	msg.ID = r.nextID
	r.nextID++
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = util.NowUTC()
	}
	r.messages[msg.ID] = msg
	if msg.WaMessageID != "" {
		r.byWaMsg[msg.WaMessageID] = msg.ID
	}
	return msg, nil
}

// RecentByContact implements crm.MessageRepository.
func (r *MemoryMessageRepository) RecentByContact(_ context.Context, contactID int64, limit int) ([]crm.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []crm.Message
	for _, msg := range r.messages {
		if msg.ContactID == contactID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// Latest implements crm.MessageRepository.
func (r *MemoryMessageRepository) Latest(_ context.Context) (crm.Message, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		latest crm.Message
		found  bool
	)
	for _, msg := range r.messages {
		if !found || msg.CreatedAt.After(latest.CreatedAt) ||
			(msg.CreatedAt.Equal(latest.CreatedAt) && msg.ID > latest.ID) {
			latest = msg
			found = true
		}
	}
	return latest, found, nil
}

// Delete implements crm.MessageRepository.
func (r *MemoryMessageRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return false, nil
	}
	delete(r.messages, id)
	if msg.WaMessageID != "" {
		delete(r.byWaMsg, msg.WaMessageID)
	}
	return true, nil
}

// DeleteByContact implements crm.MessageRepository.
func (r *MemoryMessageRepository) DeleteByContact(ctx context.Context, contactID int64) (int64, error) {
	if r.contacts != nil {
		if _, exists, _ := r.contacts.Get(ctx, contactID); !exists {
			return 0, crm.ErrNotFound
		}
	}
	return r.DeleteByContactUnchecked(contactID)
}

// DeleteByContactUnchecked purges without the contact existence check; used
// by the cascading contact delete.
func (r *MemoryMessageRepository) DeleteByContactUnchecked(contactID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, msg := range r.messages {
		if msg.ContactID != contactID {
			continue
		}
		delete(r.messages, id)
		if msg.WaMessageID != "" {
			delete(r.byWaMsg, msg.WaMessageID)
		}
		count++
	}
	return count, nil
}

// Counts implements crm.MessageRepository.
func (r *MemoryMessageRepository) Counts(_ context.Context) (total, inbound, outbound int64, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, msg := range r.messages {
		total++
		switch msg.Direction {
		case crm.DirectionIn:
			inbound++
		case crm.DirectionOut:
			outbound++
		}
	}
	return total, inbound, outbound, nil
}

var (
	_ crm.ContactRepository = (*MemoryContactRepository)(nil)
	_ crm.MessageRepository = (*MemoryMessageRepository)(nil)
)
