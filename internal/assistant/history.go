package assistant

// Role is the author of a chat turn, in the gateway's vocabulary.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one chat turn.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// History keeps the turns of one conversation, oldest first, capped at limit
// (0 means unlimited). It is not safe for concurrent use.
type History struct {
	messages []Message
	limit    int
}

func NewHistory(limit int) *History { return &History{limit: limit} }

// Append adds a turn and drops the oldest ones past the limit. Trimming keeps
// whole exchanges so the history never starts with a model turn.
func (h *History) Append(role Role, text string) {
	h.messages = append(h.messages, Message{Role: role, Text: text})
	if h.limit <= 0 || len(h.messages) <= h.limit {
		return
	}
	drop := len(h.messages) - h.limit
	for drop < len(h.messages) && h.messages[drop].Role != RoleUser {
		drop++
	}
	h.messages = append([]Message(nil), h.messages[drop:]...)
}

// Messages returns a copy of the turns.
func (h *History) Messages() []Message { return append([]Message(nil), h.messages...) }

func (h *History) Len() int { return len(h.messages) }

// Reset forgets the conversation.
func (h *History) Reset() { h.messages = nil }
