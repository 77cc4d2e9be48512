package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/store"
)

// SendFailureReply is appended in the assistant slot when a prompt
// fails for any reason other than a missing/expired credential.
const SendFailureReply = "Something went wrong with AI response"

// RefreshDebounce is the minimum delay before a post-send history
// refresh, so the reply renders without waiting on the sidebar.
const RefreshDebounce = 250 * time.Millisecond

var (
	// ErrEmptyMessage rejects a send whose content trims to nothing.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrEmptyChatID rejects select/operations without a chat id.
	ErrEmptyChatID = errors.New("chat id is empty")

	// ErrStale marks a response that arrived after the user moved on;
	// the result was discarded and no state changed.
	ErrStale = errors.New("stale response discarded")
)

// ChatAPI is the remote surface the Syncer drives.
type ChatAPI interface {
	HistoryAPI
	GetChat(ctx context.Context, chatID string) ([]api.ChatMessage, error)
	DeleteChat(ctx context.Context, chatID string) error
	RenameChat(ctx context.Context, chatID, title string) error
	Prompt(ctx context.Context, content, chatID string) (*api.PromptResult, error)
}

// Syncer reconciles the active session, the title cache and the remote
// chat history on every user action. Network calls run outside the
// lock; commits re-check a generation counter so a response for a chat
// the user has navigated away from is discarded instead of clobbering
// the current session.
type Syncer struct {
	remote   ChatAPI
	local    store.Store
	titles   *TitleCache
	pageSize int

	mu         sync.Mutex
	session    Session
	history    []HistoryEntry
	generation uint64
	refreshSeq uint64
}

// NewSyncer creates a Syncer over the remote API and local store.
func NewSyncer(remote ChatAPI, local store.Store, pageSize int) *Syncer {
	return &Syncer{
		remote:   remote,
		local:    local,
		titles:   NewTitleCache(local),
		pageSize: pageSize,
	}
}

// Titles exposes the title cache (rename affordances, tests).
func (s *Syncer) Titles() *TitleCache { return s.titles }

// Session returns a copy of the active session.
func (s *Syncer) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone()
}

// History returns a copy of the in-memory history list.
func (s *Syncer) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]HistoryEntry, len(s.history))
	copy(entries, s.history)
	return entries
}

// Authenticated reports whether a bearer credential is present.
func (s *Syncer) Authenticated() bool {
	return store.Token(s.local) != ""
}

// NewChat resets the session to an unsaved, empty conversation without
// contacting the server. In-flight selects and sends become stale.
func (s *Syncer) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	s.generation++
}

// SendResult describes the outcome of a Send.
type SendResult struct {
	Session Session
	ChatID  string
	// NewChat is true when this send persisted a previously unsaved
	// conversation; the derived title was written to the cache.
	NewChat bool
	// Failed is true when the failure reply was recorded inline.
	Failed bool
}

// Send submits the prompt for the active session. The user message is
// not committed optimistically: it lands together with the assistant
// reply (or the inline failure reply), so an aborted send never leaves
// an unpaired user turn.
func (s *Syncer) Send(ctx context.Context, content string) (*SendResult, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	if !s.Authenticated() {
		return nil, api.ErrAuthRequired
	}

	s.mu.Lock()
	chatID := s.session.ChatID
	generation := s.generation
	s.mu.Unlock()

	result, err := s.remote.Prompt(ctx, trimmed, chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		slog.Debug("send_discarded_stale", "chat_id", chatID)
		return nil, ErrStale
	}

	if err != nil {
		if api.IsAuthRequired(err) {
			s.invalidateCredential()
			return nil, err
		}
		slog.Warn("send_failed", "chat_id", chatID, "error", err)
		s.session.append(api.RoleUser, trimmed)
		s.session.append(api.RoleAssistant, SendFailureReply)
		return &SendResult{Session: s.session.clone(), ChatID: s.session.ChatID, Failed: true}, nil
	}

	s.session.append(api.RoleUser, trimmed)
	s.session.append(api.RoleAssistant, result.Reply)
	if result.ChatID != s.session.ChatID {
		s.session.ChatID = result.ChatID
	}

	newChat := chatID == ""
	if newChat {
		if err := s.titles.Set(result.ChatID, DeriveSendTitle(trimmed)); err != nil {
			slog.Warn("title_cache_write_failed", "chat_id", result.ChatID, "error", err)
		}
	}

	return &SendResult{Session: s.session.clone(), ChatID: s.session.ChatID, NewChat: newChat}, nil
}

// Select loads a chat's transcript into the session. An untitled
// history entry picks up a title derived from the transcript's first
// user message. A 404 resets the session and returns api.ErrNotFound
// (recoverable; the caller shows a notice). A response that lands
// after the user switched chats is discarded with ErrStale.
func (s *Syncer) Select(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrEmptyChatID
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	messages, err := s.remote.GetChat(ctx, chatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		slog.Debug("select_discarded_stale", "chat_id", chatID)
		return ErrStale
	}

	if err != nil {
		if api.IsNotFound(err) {
			s.session.Reset()
			s.generation++
			return api.ErrNotFound
		}
		if api.IsAuthRequired(err) {
			s.invalidateCredential()
			return err
		}
		return fmt.Errorf("failed to load chat: %w", err)
	}

	s.session = Session{ChatID: chatID, Messages: messages}
	for i := range s.history {
		if s.history[i].ID != chatID {
			continue
		}
		if s.history[i].Title == DefaultTitle {
			s.history[i].Title = DeriveTranscriptTitle(messages)
		}
		break
	}
	return nil
}

// Delete removes a chat. The remote delete happens first; the cached
// title is dropped only once the server confirmed, so a failed delete
// cannot strip the local title. A 404 still confirms the chat is gone
// and drops the cache entry. Deleting the active chat resets the
// session. No-op for an empty id.
func (s *Syncer) Delete(ctx context.Context, chatID string) error {
	if chatID == "" {
		return nil
	}

	switch err := s.remote.DeleteChat(ctx, chatID); {
	case err == nil:
	case api.IsNotFound(err):
		// Already gone server-side; converge as if the delete succeeded.
		slog.Debug("delete_already_gone", "chat_id", chatID)
	case api.IsAuthRequired(err):
		s.mu.Lock()
		s.invalidateCredential()
		s.mu.Unlock()
		return fmt.Errorf("failed to delete chat: %w", err)
	default:
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	if err := s.titles.Delete(chatID); err != nil {
		slog.Warn("title_cache_delete_failed", "chat_id", chatID, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.ChatID == chatID {
		s.session.Reset()
		s.generation++
	}
	remaining := s.history[:0]
	for _, entry := range s.history {
		if entry.ID != chatID {
			remaining = append(remaining, entry)
		}
	}
	s.history = remaining
	return nil
}

// Rename sets a chat's title remotely, then writes the cache entry and
// patches the in-memory list in place; no refetch needed. No-op when
// the id is empty or the title trims to nothing.
func (s *Syncer) Rename(ctx context.Context, chatID, title string) error {
	trimmed := strings.TrimSpace(title)
	if chatID == "" || trimmed == "" {
		return nil
	}

	if err := s.remote.RenameChat(ctx, chatID, trimmed); err != nil {
		if api.IsAuthRequired(err) {
			s.mu.Lock()
			s.invalidateCredential()
			s.mu.Unlock()
		}
		return fmt.Errorf("failed to rename chat: %w", err)
	}

	if err := s.titles.Set(chatID, trimmed); err != nil {
		slog.Warn("title_cache_write_failed", "chat_id", chatID, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == chatID {
			s.history[i].Title = trimmed
			break
		}
	}
	return nil
}

// RefreshHistory refetches the full list and replaces the in-memory
// copy. Overlapping refreshes are last-write-wins.
func (s *Syncer) RefreshHistory(ctx context.Context) []HistoryEntry {
	entries := FetchAllChats(ctx, s.remote, s.titles, s.pageSize)
	s.mu.Lock()
	s.history = entries
	s.mu.Unlock()
	return s.History()
}

// ScheduleRefresh registers intent to refresh and returns a sequence
// number. RefreshDue reports whether that number is still the latest,
// giving a trailing-edge debounce when polled after RefreshDebounce.
func (s *Syncer) ScheduleRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshSeq++
	return s.refreshSeq
}

// RefreshDue reports whether the given sequence is still current.
func (s *Syncer) RefreshDue(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.refreshSeq
}

// invalidateCredential clears the stored token so the UI routes back to
// login. Caller holds the lock or guarantees exclusivity.
func (s *Syncer) invalidateCredential() {
	if err := store.ClearCredentials(s.local); err != nil {
		slog.Warn("credential_clear_failed", "error", err)
	}
}
