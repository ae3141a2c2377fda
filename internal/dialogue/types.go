package dialogue

import "strings"

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged message in the conversation context.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// summaryPrefix identifies the single memory-summary system turn.
const summaryPrefix = "Based on our conversation"

// Context is the ordered, append-only conversation history passed to the
// LLM. The one exception to append-only is the memory-summary system turn,
// which is replaced in place so at most one exists at any time.
type Context []Turn

// AppendUser returns the context with a user turn appended.
func (c Context) AppendUser(content string) Context {
	return append(c.clone(), Turn{Role: RoleUser, Content: content})
}

// AppendAssistant returns the context with an assistant turn appended.
func (c Context) AppendAssistant(content string) Context {
	return append(c.clone(), Turn{Role: RoleAssistant, Content: content})
}

// UpsertSummary replaces the existing memory-summary turn or appends a new
// one. An empty summary leaves the context untouched.
func (c Context) UpsertSummary(summary string) Context {
	if summary == "" {
		return c
	}
	out := c.clone()
	for i, t := range out {
		if t.Role == RoleSystem && strings.HasPrefix(t.Content, summaryPrefix) {
			out[i].Content = summary
			return out
		}
	}
	return append(out, Turn{Role: RoleSystem, Content: summary})
}

// Dialogue returns only the user and assistant turns, in original order.
// System turns (memory summaries) are excluded; the assembler re-injects
// the summary separately.
func (c Context) Dialogue() []Turn {
	out := make([]Turn, 0, len(c))
	for _, t := range c {
		if t.Role == RoleUser || t.Role == RoleAssistant {
			out = append(out, t)
		}
	}
	return out
}

func (c Context) clone() Context {
	out := make(Context, len(c))
	copy(out, c)
	return out
}

// Price range constants for Preferences.PriceRange.
const (
	PriceLow      = 1
	PriceModerate = 2
	PriceHigh     = 3
)

// Preferences is the per-dialogue mutable preference snapshot. Fields are
// overwritten, not merged, on each turn's new signal except where a
// resolution branch explicitly preserves them.
type Preferences struct {
	Cuisine    *string  `json:"cuisine"`
	PriceRange *int     `json:"priceRange"`
	Distance   *float64 `json:"distance"`
	Refine     bool     `json:"refine"`
}

// Sender tags a display message in the chat transcript.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// DisplayMessage is one entry in the user-visible chat transcript. It is
// distinct from the conversation context sent to the LLM.
type DisplayMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}
