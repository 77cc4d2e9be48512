package api

import (
	"encoding/json"
	"strings"
	"time"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NormalizeRole maps server-side role spellings onto the two client roles.
// Anything that is not recognisably the assistant is treated as the user.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "assistant", "model", "ai", "bot":
		return RoleAssistant
	default:
		return RoleUser
	}
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatSummary is one entry of the chat-history list. Title is nullable;
// a display title is derived client-side when it is absent.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRecord is the user object returned by login.
type UserRecord struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginResult carries everything the login endpoint returns.
type LoginResult struct {
	Message string     `json:"message"`
	User    UserRecord `json:"user"`
	Token   string     `json:"token"`
}

// PromptResult is the reply to a submitted prompt. ChatID is the
// server-issued chat identifier, possibly newly created.
type PromptResult struct {
	Reply  string `json:"reply"`
	ChatID string `json:"chatId"`
}

type listChatsResponse struct {
	Success bool          `json:"success"`
	Chats   []ChatSummary `json:"chats"`
}

type getChatResponse struct {
	Success bool `json:"success"`
	Chat    struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	} `json:"chat"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorBody is the error payload shape the backend uses. The errors
// field is either a string or a list of strings.
type errorBody struct {
	Errors  json.RawMessage `json:"errors"`
	Message string          `json:"message"`
}

func (e errorBody) text() string {
	if len(e.Errors) > 0 {
		var single string
		if err := json.Unmarshal(e.Errors, &single); err == nil {
			return single
		}
		var many []string
		if err := json.Unmarshal(e.Errors, &many); err == nil && len(many) > 0 {
			return strings.Join(many, "; ")
		}
	}
	return e.Message
}
