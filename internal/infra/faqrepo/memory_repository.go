package faqrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/pkg/util"
)

// MemoryRepository is an in-memory crm.FaqRepository for tests/dev runs
// without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	faqs       map[int64]crm.Faq
	byQuestion map[string]int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:     1,
		faqs:       make(map[int64]crm.Faq),
		byQuestion: make(map[string]int64),
	}
}

// ListActive implements crm.FaqRepository.
func (r *MemoryRepository) ListActive(_ context.Context) ([]crm.Faq, error) {
	return r.snapshot(true), nil
}

// List implements crm.FaqRepository.
func (r *MemoryRepository) List(_ context.Context) ([]crm.Faq, error) {
	return r.snapshot(false), nil
}

func (r *MemoryRepository) snapshot(activeOnly bool) []crm.Faq {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var faqs []crm.Faq
	for _, faq := range r.faqs {
		if activeOnly && !faq.IsActive {
			continue
		}
		faqs = append(faqs, faq)
	}
	sort.Slice(faqs, func(i, j int) bool {
		if faqs[i].UpdatedAt.Equal(faqs[j].UpdatedAt) {
			return faqs[i].ID > faqs[j].ID
		}
		return faqs[i].UpdatedAt.After(faqs[j].UpdatedAt)
	})
	return faqs
}

// Create implements crm.FaqRepository.
func (r *MemoryRepository) Create(_ context.Context, question, answer string) (crm.Faq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := questionKey(question)
	if _, ok := r.byQuestion[key]; ok {
		return crm.Faq{}, crm.ErrDuplicateQuestion
	}
	now := util.NowUTC()
	faq := crm.Faq{
		ID:        r.nextID,
		Question:  question,
		Answer:    answer,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.faqs[faq.ID] = faq
	r.byQuestion[key] = faq.ID
	return faq, nil
}

// Update implements crm.FaqRepository.
func (r *MemoryRepository) Update(_ context.Context, id int64, question, answer string, isActive bool) (crm.Faq, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	faq, ok := r.faqs[id]
	if !ok {
		return crm.Faq{}, crm.ErrNotFound
	}
	key := questionKey(question)
	if other, ok := r.byQuestion[key]; ok && other != id {
		return crm.Faq{}, crm.ErrDuplicateQuestion
	}
	delete(r.byQuestion, questionKey(faq.Question))
	faq.Question = question
	faq.Answer = answer
	faq.IsActive = isActive
	faq.UpdatedAt = util.NowUTC()
	r.faqs[id] = faq
	r.byQuestion[key] = id
	return faq, nil
}

// Delete implements crm.FaqRepository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	faq, ok := r.faqs[id]
	if !ok {
		return false, nil
	}
	delete(r.faqs, id)
	delete(r.byQuestion, questionKey(faq.Question))
	return true, nil
}

// CountActive implements crm.FaqRepository.
func (r *MemoryRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, faq := range r.faqs {
		if faq.IsActive {
			count++
		}
	}
	return count, nil
}

func questionKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

var _ crm.FaqRepository = (*MemoryRepository)(nil)
