package chat

import (
	"context"
	"log/slog"
	"time"

	"gyaanseek_cli/pkg/api"
)

// HistoryAPI is the slice of the remote API the history list consumes.
type HistoryAPI interface {
	ListChats(ctx context.Context, page, limit int) ([]api.ChatSummary, error)
}

// HistoryEntry is one sidebar row: a chat summary with its display
// title already resolved against the title cache.
type HistoryEntry struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// FetchAllChats materializes the full chat history by paging through
// the list endpoint, newest first, until the first short or empty page.
// Any request failure aborts the whole fetch and yields an empty list;
// callers see "no history" rather than an error.
func FetchAllChats(ctx context.Context, remote HistoryAPI, titles *TitleCache, pageSize int) []HistoryEntry {
	if pageSize <= 0 {
		pageSize = api.DefaultPageSize
	}

	var all []api.ChatSummary
	for page := 1; ; page++ {
		chats, err := remote.ListChats(ctx, page, pageSize)
		if err != nil {
			slog.Warn("history_fetch_failed", "page", page, "error", err)
			return nil
		}
		all = append(all, chats...)
		if len(chats) < pageSize {
			break
		}
	}

	cached := map[string]string{}
	if titles != nil {
		m, err := titles.All()
		if err != nil {
			slog.Warn("title_cache_unreadable", "error", err)
		} else {
			cached = m
		}
	}

	entries := make([]HistoryEntry, 0, len(all))
	for _, summary := range all {
		entries = append(entries, HistoryEntry{
			ID:        summary.ID,
			Title:     ResolveTitle(summary, cached[summary.ID]),
			CreatedAt: summary.CreatedAt,
		})
	}
	return entries
}
