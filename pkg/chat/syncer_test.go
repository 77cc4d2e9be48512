package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements ChatAPI with overridable behavior per call.
type fakeAPI struct {
	listChats  func(page, limit int) ([]api.ChatSummary, error)
	getChat    func(chatID string) ([]api.ChatMessage, error)
	deleteChat func(chatID string) error
	renameChat func(chatID, title string) error
	prompt     func(content, chatID string) (*api.PromptResult, error)

	deleteCalls []string
	renameCalls []string
}

func (f *fakeAPI) ListChats(_ context.Context, page, limit int) ([]api.ChatSummary, error) {
	if f.listChats == nil {
		return nil, nil
	}
	return f.listChats(page, limit)
}

func (f *fakeAPI) GetChat(_ context.Context, chatID string) ([]api.ChatMessage, error) {
	if f.getChat == nil {
		return nil, nil
	}
	return f.getChat(chatID)
}

func (f *fakeAPI) DeleteChat(_ context.Context, chatID string) error {
	f.deleteCalls = append(f.deleteCalls, chatID)
	if f.deleteChat == nil {
		return nil
	}
	return f.deleteChat(chatID)
}

func (f *fakeAPI) RenameChat(_ context.Context, chatID, title string) error {
	f.renameCalls = append(f.renameCalls, chatID+"="+title)
	if f.renameChat == nil {
		return nil
	}
	return f.renameChat(chatID, title)
}

func (f *fakeAPI) Prompt(_ context.Context, content, chatID string) (*api.PromptResult, error) {
	if f.prompt == nil {
		return &api.PromptResult{Reply: "ok", ChatID: chatID}, nil
	}
	return f.prompt(content, chatID)
}

func newTestSyncer(t *testing.T, remote ChatAPI) (*Syncer, store.Store) {
	t.Helper()
	local := store.NewMemStore()
	require.NoError(t, store.SetCredentials(local, "token-1", store.User{ID: "u1", FirstName: "Asha"}))
	return NewSyncer(remote, local, 50), local
}

func TestSendNewChatAdoptsIDAndCachesTitle(t *testing.T) {
	remote := &fakeAPI{
		prompt: func(content, chatID string) (*api.PromptResult, error) {
			assert.Equal(t, "", chatID)
			return &api.PromptResult{Reply: "Hello!", ChatID: "abc123"}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)

	result, err := s.Send(context.Background(), "  Explain goroutines  ")
	require.NoError(t, err)

	assert.True(t, result.NewChat)
	assert.Equal(t, "abc123", result.ChatID)
	require.Len(t, result.Session.Messages, 2)
	assert.Equal(t, api.RoleUser, result.Session.Messages[0].Role)
	assert.Equal(t, "Explain goroutines", result.Session.Messages[0].Content)
	assert.Equal(t, api.RoleAssistant, result.Session.Messages[1].Role)
	assert.Equal(t, "Hello!", result.Session.Messages[1].Content)

	cached, ok := s.Titles().Get("abc123")
	assert.True(t, ok)
	assert.Equal(t, "Explain goroutines", cached)

	assert.Equal(t, "abc123", s.Session().ChatID)
}

func TestSendExistingChatDoesNotTouchTitleCache(t *testing.T) {
	remote := &fakeAPI{
		prompt: func(content, chatID string) (*api.PromptResult, error) {
			return &api.PromptResult{Reply: "more", ChatID: chatID}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)

	_, err := s.Send(context.Background(), "first")
	require.NoError(t, err)
	result, err := s.Send(context.Background(), "second")
	require.NoError(t, err)

	assert.False(t, result.NewChat)
	assert.Len(t, result.Session.Messages, 4)
}

func TestSendEmptyMessageRejected(t *testing.T) {
	s, _ := newTestSyncer(t, &fakeAPI{})

	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, s.Session().Messages)
}

func TestSendFailureRecordsInlineReply(t *testing.T) {
	remote := &fakeAPI{
		prompt: func(content, chatID string) (*api.PromptResult, error) {
			return nil, fmt.Errorf("upstream: %w", errors.New("boom"))
		},
	}
	s, _ := newTestSyncer(t, remote)

	result, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)

	assert.True(t, result.Failed)
	require.Len(t, result.Session.Messages, 2)
	assert.Equal(t, "hello", result.Session.Messages[0].Content)
	assert.Equal(t, SendFailureReply, result.Session.Messages[1].Content)
	assert.Equal(t, "", result.ChatID)
}

func TestSendAuthFailureClearsCredential(t *testing.T) {
	remote := &fakeAPI{
		prompt: func(content, chatID string) (*api.PromptResult, error) {
			return nil, api.ErrAuthRequired
		},
	}
	s, local := newTestSyncer(t, remote)

	_, err := s.Send(context.Background(), "hello")
	assert.True(t, api.IsAuthRequired(err))
	assert.Empty(t, store.Token(local))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Session().Messages)
}

func TestSendStaleResponseDiscarded(t *testing.T) {
	remote := &fakeAPI{}
	s, _ := newTestSyncer(t, remote)
	remote.prompt = func(content, chatID string) (*api.PromptResult, error) {
		// User starts a new chat while the request is in flight.
		s.NewChat()
		return &api.PromptResult{Reply: "late", ChatID: "old1"}, nil
	}

	_, err := s.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrStale)
	assert.Empty(t, s.Session().Messages)
	_, ok := s.Titles().Get("old1")
	assert.False(t, ok)
}

func TestSelectLoadsTranscript(t *testing.T) {
	remote := &fakeAPI{
		getChat: func(chatID string) ([]api.ChatMessage, error) {
			return []api.ChatMessage{
				{Role: api.RoleUser, Content: "hi"},
				{Role: api.RoleAssistant, Content: "hello"},
			}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)

	require.NoError(t, s.Select(context.Background(), "c1"))
	session := s.Session()
	assert.Equal(t, "c1", session.ChatID)
	assert.Len(t, session.Messages, 2)
}

func TestSelectNotFoundResetsSession(t *testing.T) {
	remote := &fakeAPI{
		getChat: func(chatID string) ([]api.ChatMessage, error) {
			if chatID == "gone" {
				return nil, api.ErrNotFound
			}
			return []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)

	require.NoError(t, s.Select(context.Background(), "c1"))
	err := s.Select(context.Background(), "gone")
	assert.ErrorIs(t, err, api.ErrNotFound)

	session := s.Session()
	assert.Equal(t, "", session.ChatID)
	assert.Empty(t, session.Messages)
}

func TestSelectEmptyIDRejected(t *testing.T) {
	s, _ := newTestSyncer(t, &fakeAPI{})
	assert.ErrorIs(t, s.Select(context.Background(), ""), ErrEmptyChatID)
}

func TestSelectStaleResponseDiscarded(t *testing.T) {
	remote := &fakeAPI{}
	s, _ := newTestSyncer(t, remote)
	remote.getChat = func(chatID string) ([]api.ChatMessage, error) {
		s.NewChat()
		return []api.ChatMessage{{Role: api.RoleUser, Content: "late"}}, nil
	}

	assert.ErrorIs(t, s.Select(context.Background(), "c1"), ErrStale)
	assert.Empty(t, s.Session().Messages)
}

func TestSelectDerivesTitleForUntitledChat(t *testing.T) {
	named := "Named"
	remote := &fakeAPI{
		listChats: func(page, limit int) ([]api.ChatSummary, error) {
			if page > 1 {
				return nil, nil
			}
			return []api.ChatSummary{{ID: "c1"}, {ID: "c2", Title: &named}}, nil
		},
		getChat: func(chatID string) ([]api.ChatMessage, error) {
			return []api.ChatMessage{
				{Role: api.RoleUser, Content: "Explain quantum tunneling please now"},
				{Role: api.RoleAssistant, Content: "Sure."},
			}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	s.RefreshHistory(context.Background())

	require.NoError(t, s.Select(context.Background(), "c1"))
	assert.Equal(t, "Explain quantum tunneling please...", s.History()[0].Title)

	// A chat that already carries a title keeps it.
	require.NoError(t, s.Select(context.Background(), "c2"))
	assert.Equal(t, "Named", s.History()[1].Title)
}

func TestDeleteActiveChatResetsSession(t *testing.T) {
	remote := &fakeAPI{
		getChat: func(chatID string) ([]api.ChatMessage, error) {
			return []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Titles().Set("c1", "My Chat"))
	require.NoError(t, s.Select(context.Background(), "c1"))

	require.NoError(t, s.Delete(context.Background(), "c1"))

	assert.Equal(t, []string{"c1"}, remote.deleteCalls)
	assert.Equal(t, "", s.Session().ChatID)
	_, ok := s.Titles().Get("c1")
	assert.False(t, ok)
}

func TestDeleteFailureKeepsCachedTitle(t *testing.T) {
	remote := &fakeAPI{
		deleteChat: func(chatID string) error { return errors.New("boom") },
	}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Titles().Set("c1", "Keep Me"))

	err := s.Delete(context.Background(), "c1")
	require.Error(t, err)

	cached, ok := s.Titles().Get("c1")
	assert.True(t, ok)
	assert.Equal(t, "Keep Me", cached)
}

func TestDeleteNotFoundStillDropsCachedTitle(t *testing.T) {
	remote := &fakeAPI{
		listChats: func(page, limit int) ([]api.ChatSummary, error) {
			if page > 1 {
				return nil, nil
			}
			return []api.ChatSummary{{ID: "c1"}, {ID: "c2"}}, nil
		},
		deleteChat: func(chatID string) error { return api.ErrNotFound },
	}
	s, _ := newTestSyncer(t, remote)
	s.RefreshHistory(context.Background())
	require.NoError(t, s.Titles().Set("c1", "Stale Title"))

	// Already deleted server-side; that still confirms the chat is gone.
	require.NoError(t, s.Delete(context.Background(), "c1"))

	_, ok := s.Titles().Get("c1")
	assert.False(t, ok)
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "c2", history[0].ID)
}

func TestDeleteRemovesHistoryEntryInMemory(t *testing.T) {
	remote := &fakeAPI{
		listChats: func(page, limit int) ([]api.ChatSummary, error) {
			if page > 1 {
				return nil, nil
			}
			return []api.ChatSummary{{ID: "c1"}, {ID: "c2"}}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	s.RefreshHistory(context.Background())

	require.NoError(t, s.Delete(context.Background(), "c1"))

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "c2", history[0].ID)
}

func TestDeleteEmptyIDIsNoop(t *testing.T) {
	remote := &fakeAPI{}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Delete(context.Background(), ""))
	assert.Empty(t, remote.deleteCalls)
}

func TestRenameUpdatesCacheAndHistory(t *testing.T) {
	remote := &fakeAPI{
		listChats: func(page, limit int) ([]api.ChatSummary, error) {
			if page > 1 {
				return nil, nil
			}
			return []api.ChatSummary{{ID: "c1"}}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	s.RefreshHistory(context.Background())

	require.NoError(t, s.Rename(context.Background(), "c1", "  Renamed  "))

	assert.Equal(t, []string{"c1=Renamed"}, remote.renameCalls)
	cached, ok := s.Titles().Get("c1")
	assert.True(t, ok)
	assert.Equal(t, "Renamed", cached)
	assert.Equal(t, "Renamed", s.History()[0].Title)

	// Renaming to the same title again is harmless.
	require.NoError(t, s.Rename(context.Background(), "c1", "Renamed"))
	cached, _ = s.Titles().Get("c1")
	assert.Equal(t, "Renamed", cached)
	assert.Equal(t, "Renamed", s.History()[0].Title)
}

func TestRenameBlankTitleIsNoop(t *testing.T) {
	remote := &fakeAPI{}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Rename(context.Background(), "c1", "   "))
	assert.Empty(t, remote.renameCalls)
}

func TestRenameFailureLeavesCacheUntouched(t *testing.T) {
	remote := &fakeAPI{
		renameChat: func(chatID, title string) error { return errors.New("boom") },
	}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Titles().Set("c1", "Original"))

	require.Error(t, s.Rename(context.Background(), "c1", "Changed"))

	cached, _ := s.Titles().Get("c1")
	assert.Equal(t, "Original", cached)
}

func TestRefreshHistoryAppliesTitlePrecedence(t *testing.T) {
	server := "Server Title"
	remote := &fakeAPI{
		listChats: func(page, limit int) ([]api.ChatSummary, error) {
			if page > 1 {
				return nil, nil
			}
			return []api.ChatSummary{
				{ID: "c1", Title: &server},
				{ID: "c2", Title: &server},
				{ID: "c3"},
			}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Titles().Set("c1", "Cached Title"))

	history := s.RefreshHistory(context.Background())
	require.Len(t, history, 3)
	assert.Equal(t, "Cached Title", history[0].Title)
	assert.Equal(t, "Server Title", history[1].Title)
	assert.Equal(t, DefaultTitle, history[2].Title)
}

func TestScheduleRefreshDebounce(t *testing.T) {
	s, _ := newTestSyncer(t, &fakeAPI{})

	first := s.ScheduleRefresh()
	second := s.ScheduleRefresh()

	assert.False(t, s.RefreshDue(first))
	assert.True(t, s.RefreshDue(second))
}

func TestNewChatResetsSession(t *testing.T) {
	remote := &fakeAPI{
		getChat: func(chatID string) ([]api.ChatMessage, error) {
			return []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}, nil
		},
	}
	s, _ := newTestSyncer(t, remote)
	require.NoError(t, s.Select(context.Background(), "c1"))

	s.NewChat()

	session := s.Session()
	assert.Equal(t, "", session.ChatID)
	assert.Empty(t, session.Messages)
}
