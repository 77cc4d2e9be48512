package chat

import (
	"log/slog"

	"gyaanseek_cli/pkg/store"
)

// TitleCache is the persisted chatId→title override mapping. Entries
// are written on the first prompt of a new chat and on rename, and
// removed only when the chat is deleted. The whole mapping lives under
// one store key and is read-modified-written per mutation.
type TitleCache struct {
	store store.Store
}

// NewTitleCache creates a cache over the given store.
func NewTitleCache(s store.Store) *TitleCache {
	return &TitleCache{store: s}
}

// All returns the full mapping. A corrupt stored mapping is reported,
// not silently replaced by an empty one.
func (c *TitleCache) All() (map[string]string, error) {
	titles := map[string]string{}
	ok, err := c.store.Get(store.KeyChatTitles, &titles)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]string{}, nil
	}
	return titles, nil
}

// Get returns the cached title for a chat, if any.
func (c *TitleCache) Get(chatID string) (string, bool) {
	titles, err := c.All()
	if err != nil {
		slog.Warn("title_cache_unreadable", "error", err)
		return "", false
	}
	title, ok := titles[chatID]
	return title, ok
}

// Set writes one entry.
func (c *TitleCache) Set(chatID, title string) error {
	titles, err := c.All()
	if err != nil {
		return err
	}
	titles[chatID] = title
	return c.store.Set(store.KeyChatTitles, titles)
}

// Delete removes one entry.
func (c *TitleCache) Delete(chatID string) error {
	titles, err := c.All()
	if err != nil {
		return err
	}
	if _, ok := titles[chatID]; !ok {
		return nil
	}
	delete(titles, chatID)
	return c.store.Set(store.KeyChatTitles, titles)
}
