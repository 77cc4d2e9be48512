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

type pagedAPI struct {
	pages [][]api.ChatSummary
	calls []int
	err   error
}

func (p *pagedAPI) ListChats(_ context.Context, page, limit int) ([]api.ChatSummary, error) {
	p.calls = append(p.calls, page)
	if p.err != nil {
		return nil, p.err
	}
	if page < 1 || page > len(p.pages) {
		return nil, nil
	}
	return p.pages[page-1], nil
}

func summaries(prefix string, n int) []api.ChatSummary {
	out := make([]api.ChatSummary, n)
	for i := range out {
		out[i] = api.ChatSummary{ID: fmt.Sprintf("%s%d", prefix, i)}
	}
	return out
}

func TestFetchAllChatsConcatenatesPages(t *testing.T) {
	remote := &pagedAPI{pages: [][]api.ChatSummary{
		summaries("a", 3),
		summaries("b", 3),
		summaries("c", 1),
	}}
	titles := NewTitleCache(store.NewMemStore())

	entries := FetchAllChats(context.Background(), remote, titles, 3)

	require.Len(t, entries, 7)
	assert.Equal(t, []int{1, 2, 3}, remote.calls)
	assert.Equal(t, "a0", entries[0].ID)
	assert.Equal(t, "c0", entries[6].ID)
}

func TestFetchAllChatsStopsOnShortPage(t *testing.T) {
	remote := &pagedAPI{pages: [][]api.ChatSummary{
		summaries("a", 2),
	}}
	titles := NewTitleCache(store.NewMemStore())

	entries := FetchAllChats(context.Background(), remote, titles, 3)

	assert.Len(t, entries, 2)
	assert.Equal(t, []int{1}, remote.calls)
}

func TestFetchAllChatsExactMultipleFetchesEmptyTail(t *testing.T) {
	remote := &pagedAPI{pages: [][]api.ChatSummary{
		summaries("a", 3),
	}}
	titles := NewTitleCache(store.NewMemStore())

	entries := FetchAllChats(context.Background(), remote, titles, 3)

	assert.Len(t, entries, 3)
	assert.Equal(t, []int{1, 2}, remote.calls)
}

func TestFetchAllChatsErrorYieldsEmptyList(t *testing.T) {
	remote := &pagedAPI{err: errors.New("boom")}
	titles := NewTitleCache(store.NewMemStore())

	entries := FetchAllChats(context.Background(), remote, titles, 3)

	assert.Empty(t, entries)
}
