package domain

import "time"

// StateSchemaVersion is bumped whenever the serialized shape of
// ConversationState changes. Stores refuse to decode records written
// with a different version, so a deploy never replays a stale layout.
const StateSchemaVersion = 1

// Attachment carries optional inline binary content for a turn,
// e.g. an audio clip recorded in the chat widget.
type Attachment struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Turn is one message in a conversation, attributed to system, user
// or assistant. It belongs to exactly one ConversationState at a
// fixed position.
type Turn struct {
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ConversationState is the ordered turn history for one client
// session. Turns are append-only, insertion order = chronological
// order. The first turn, if present, carries the system persona
// instruction; it is sent to the model but never shown to the user.
type ConversationState struct {
	SchemaVersion int       `json:"schema_version"`
	Model         string    `json:"model"`
	Turns         []Turn    `json:"turns"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewConversationState seeds a fresh state with the system persona
// turn for the given model configuration.
func NewConversationState(model, systemPrompt string, now time.Time) *ConversationState {
	return &ConversationState{
		SchemaVersion: StateSchemaVersion,
		Model:         model,
		Turns: []Turn{{
			Role:      RoleSystem,
			Text:      systemPrompt,
			CreatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn at the end of the history.
func (c *ConversationState) Append(t Turn) {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = t.CreatedAt
}

// CompatibleWith reports whether this state can be replayed against
// the given model configuration. A state created for another model is
// discarded rather than replayed out of context.
func (c *ConversationState) CompatibleWith(model string) bool {
	return c.SchemaVersion == StateSchemaVersion && c.Model == model
}
