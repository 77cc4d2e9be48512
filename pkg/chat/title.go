package chat

import (
	"strings"

	"gyaanseek_cli/pkg/api"
)

// DefaultTitle is shown when no title exists and none can be derived.
const DefaultTitle = "New Chat"

const (
	ellipsis = "..."

	// First prompt of a new chat seeds the cached title.
	derivedTitleMaxChars = 40

	// Transcript derivation and sidebar display word limits.
	transcriptTitleWords = 4
	sidebarTitleWords    = 3
)

// DeriveSendTitle derives a cache title from the first prompt of a new
// chat: the first 40 characters, with an ellipsis when truncated.
func DeriveSendTitle(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= derivedTitleMaxChars {
		return string(runes)
	}
	return string(runes[:derivedTitleMaxChars]) + ellipsis
}

// DeriveTranscriptTitle derives a display title from a transcript: the
// first four words of the first user message. Returns DefaultTitle when
// no user message exists.
func DeriveTranscriptTitle(messages []api.ChatMessage) string {
	for _, m := range messages {
		if m.Role != api.RoleUser {
			continue
		}
		words := strings.Fields(m.Content)
		if len(words) == 0 {
			break
		}
		if len(words) <= transcriptTitleWords {
			return strings.Join(words, " ")
		}
		return strings.Join(words[:transcriptTitleWords], " ") + ellipsis
	}
	return DefaultTitle
}

// TruncateTitle shortens any title to its first three words for compact
// sidebar rendering. The untruncated title is kept for tooltips and
// rename affordances.
func TruncateTitle(title string) string {
	words := strings.Fields(title)
	if len(words) <= sidebarTitleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:sidebarTitleWords], " ") + ellipsis
}

// ResolveTitle applies title precedence for a chat summary: the cached
// title wins, then the server title, then DefaultTitle.
func ResolveTitle(summary api.ChatSummary, cached string) string {
	if cached != "" {
		return cached
	}
	if summary.Title != nil && strings.TrimSpace(*summary.Title) != "" {
		return *summary.Title
	}
	return DefaultTitle
}
