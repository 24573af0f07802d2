package crm

import "time"

// Message direction values as persisted.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Contact is a WhatsApp conversation partner.
type Contact struct {
	ID        int64     `json:"id"`
	WaID      string    `json:"waId"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one inbound or outbound text in a conversation.
type Message struct {
	ID          int64     `json:"id"`
	ContactID   int64     `json:"-"`
	Direction   string    `json:"direction"`
	Body        string    `json:"body"`
	WaMessageID string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Faq is a stored question/answer pair. The question field may bundle
// several phrasing variants (see faqmatch.SplitVariants).
type Faq struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary aggregates the dashboard landing metrics.
type Summary struct {
	Metrics SummaryMetrics `json:"metrics"`
	Latest  *LatestMessage `json:"latest"`
}

// SummaryMetrics carries the headline counters.
type SummaryMetrics struct {
	Contacts   int64 `json:"contacts"`
	Messages   int64 `json:"messages"`
	Inbound    int64 `json:"inbound"`
	Outbound   int64 `json:"outbound"`
	ActiveFaqs int64 `json:"activeFaqs"`
}

// LatestMessage is the newest message across all conversations.
type LatestMessage struct {
	Body      string    `json:"body"`
	Direction string    `json:"direction"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is one contact with its recent messages, oldest first.
type Conversation struct {
	ID        int64     `json:"id"`
	WaID      string    `json:"waId"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// FaqInput carries the editable FAQ fields.
type FaqInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	IsActive *bool  `json:"isActive"`
}
