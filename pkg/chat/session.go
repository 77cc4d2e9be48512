// Package chat holds the client-side chat-session synchronization core:
// the active session, the persisted title cache, the paginated history
// list and the Syncer that keeps all three consistent with the remote
// API across send/select/new/delete/rename.
package chat

import "gyaanseek_cli/pkg/api"

// Session is the currently active, possibly-unsaved conversation.
// An empty ChatID means the conversation has not been persisted yet;
// the first successful prompt adopts the server-issued id.
type Session struct {
	ChatID   string
	Messages []api.ChatMessage
}

// Saved reports whether the session belongs to a persisted chat.
func (s Session) Saved() bool { return s.ChatID != "" }

// Reset returns the session to the unsaved, empty state.
func (s *Session) Reset() { *s = Session{} }

// clone returns a copy whose message slice the caller may keep.
func (s Session) clone() Session {
	messages := make([]api.ChatMessage, len(s.Messages))
	copy(messages, s.Messages)
	return Session{ChatID: s.ChatID, Messages: messages}
}

func (s *Session) append(role api.Role, content string) {
	s.Messages = append(s.Messages, api.ChatMessage{Role: role, Content: content})
}
