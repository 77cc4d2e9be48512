// Package sidebar renders the chat history list: navigation, inline
// rename and delete, mirroring the web client's history pane.
package sidebar

import (
	"strings"

	"gyaanseek_cli/pkg/chat"
	"gyaanseek_cli/pkg/ui/components/utils"
	"gyaanseek_cli/pkg/ui/styles"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

const (
	headerLabel   = "GyaanSeek"
	newChatLabel  = "+ New Chat"
	emptyLabel    = "No chat history yet"
	footerLabel   = "Enter Open | n New | r Rename | d Delete"
	renameLabel   = "Rename:"
	sidebarBorder = 1
	sidebarPadH   = 1
)

// SelectChatMsg asks the app to open a chat.
type SelectChatMsg struct {
	ChatID string
}

// NewChatMsg asks the app to start a fresh conversation.
type NewChatMsg struct{}

// DeleteChatMsg asks the app to delete a chat.
type DeleteChatMsg struct {
	ChatID string
}

// RenameChatMsg asks the app to rename a chat.
type RenameChatMsg struct {
	ChatID string
	Title  string
}

// Sidebar displays the chat history list.
type Sidebar struct {
	entries  []chat.HistoryEntry
	selected int
	scroll   int
	focused  bool
	width    int
	height   int
	userName string

	renaming    bool
	renameInput textinput.Model
}

// NewSidebar creates an empty sidebar.
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.ensureVisible()
}

// SetUserName sets the profile name shown in the footer.
func (s *Sidebar) SetUserName(name string) {
	s.userName = name
}

// SetEntries replaces the history list, clamping the selection.
func (s *Sidebar) SetEntries(entries []chat.HistoryEntry) {
	s.entries = entries
	if s.selected >= len(entries) {
		s.selected = len(entries) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	s.ensureVisible()
}

// Entries returns the current list.
func (s *Sidebar) Entries() []chat.HistoryEntry {
	return s.entries
}

// Focus gives the sidebar keyboard focus.
func (s *Sidebar) Focus() { s.focused = true }

// Blur removes keyboard focus and cancels a pending rename.
func (s *Sidebar) Blur() {
	s.focused = false
	s.cancelRename()
}

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool { return s.focused }

// IsRenaming reports whether the inline rename editor is open.
func (s *Sidebar) IsRenaming() bool { return s.renaming }

// SelectedEntry returns the highlighted entry, if any.
func (s *Sidebar) SelectedEntry() (chat.HistoryEntry, bool) {
	if s.selected < 0 || s.selected >= len(s.entries) {
		return chat.HistoryEntry{}, false
	}
	return s.entries[s.selected], true
}

// Update handles keyboard input while the sidebar is focused.
func (s *Sidebar) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !s.focused {
		return nil
	}

	if s.renaming {
		return s.updateRename(msg)
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
		s.ensureVisible()
		return nil

	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
		s.ensureVisible()
		return nil

	case "home":
		s.selected = 0
		s.ensureVisible()
		return nil

	case "end":
		if len(s.entries) > 0 {
			s.selected = len(s.entries) - 1
		}
		s.ensureVisible()
		return nil

	case "enter":
		entry, ok := s.SelectedEntry()
		if !ok {
			return nil
		}
		return func() tea.Msg { return SelectChatMsg{ChatID: entry.ID} }

	case "n":
		return func() tea.Msg { return NewChatMsg{} }

	case "d", "delete":
		entry, ok := s.SelectedEntry()
		if !ok {
			return nil
		}
		return func() tea.Msg { return DeleteChatMsg{ChatID: entry.ID} }

	case "r":
		s.startRename()
		return nil
	}

	return nil
}

func (s *Sidebar) startRename() {
	entry, ok := s.SelectedEntry()
	if !ok {
		return
	}
	s.renaming = true
	s.renameInput = textinput.New()
	s.renameInput.Placeholder = "Chat title"
	// Rename affordances edit the untruncated title.
	s.renameInput.SetValue(entry.Title)
	s.renameInput.Focus()
}

func (s *Sidebar) cancelRename() {
	if s.renaming {
		s.renaming = false
		s.renameInput.Blur()
	}
}

func (s *Sidebar) updateRename(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.cancelRename()
		return nil
	case "enter":
		entry, ok := s.SelectedEntry()
		title := strings.TrimSpace(s.renameInput.Value())
		s.cancelRename()
		if !ok || title == "" {
			return nil
		}
		return func() tea.Msg { return RenameChatMsg{ChatID: entry.ID, Title: title} }
	default:
		var cmd tea.Cmd
		s.renameInput, cmd = s.renameInput.Update(msg)
		return cmd
	}
}

func (s *Sidebar) listHeight() int {
	// header + new-chat row + separator above footer + footer
	reserved := 4
	if s.renaming {
		reserved += 2
	}
	h := s.height - 2*sidebarBorder - reserved
	if h < 1 {
		h = 1
	}
	return h
}

func (s *Sidebar) ensureVisible() {
	listHeight := s.listHeight()
	if s.selected < s.scroll {
		s.scroll = s.selected
	}
	if s.selected >= s.scroll+listHeight {
		s.scroll = s.selected - listHeight + 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}

	contentWidth := s.width - 2*sidebarBorder - 2*sidebarPadH
	if contentWidth < 1 {
		contentWidth = 1
	}

	lines := make([]string, 0, s.height)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(utils.TruncateToWidth(headerLabel, contentWidth)), contentWidth))

	newChat := styles.TextBoldStyle.Render(utils.TruncateToWidth(newChatLabel, contentWidth))
	lines = append(lines, utils.PadStyled(newChat, contentWidth))

	listHeight := s.listHeight()
	if len(s.entries) == 0 {
		lines = append(lines, utils.PadStyled(styles.TextMutedStyle.Render(utils.TruncateToWidth(emptyLabel, contentWidth)), contentWidth))
		for i := 1; i < listHeight; i++ {
			lines = append(lines, strings.Repeat(" ", contentWidth))
		}
	} else {
		end := s.scroll + listHeight
		if end > len(s.entries) {
			end = len(s.entries)
		}
		for i := s.scroll; i < end; i++ {
			title := utils.TruncateToWidth(chat.TruncateTitle(s.entries[i].Title), contentWidth)
			if i == s.selected && s.focused {
				lines = append(lines, utils.PadStyled(styles.SelectedStyle.Render(title), contentWidth))
			} else {
				lines = append(lines, utils.PadStyled(styles.TextStyle.Render(title), contentWidth))
			}
		}
		for len(lines) < 2+listHeight {
			lines = append(lines, strings.Repeat(" ", contentWidth))
		}
	}

	if s.renaming {
		s.renameInput.SetWidth(contentWidth)
		lines = append(lines, utils.PadStyled(styles.EditStyle.Render(utils.TruncateToWidth(renameLabel, contentWidth)), contentWidth))
		inputLine := strings.Split(s.renameInput.View(), "\n")[0]
		lines = append(lines, utils.PadStyled(inputLine, contentWidth))
	}

	lines = append(lines, strings.Repeat("─", contentWidth))

	footer := s.userName
	if footer == "" {
		footer = "My Profile"
	}
	if s.focused {
		footer = footer + "  " + footerLabel
	}
	lines = append(lines, utils.PadStyled(styles.FooterStyle.Render(utils.TruncateToWidth(footer, contentWidth)), contentWidth))

	content := strings.Join(lines, "\n")

	border := styles.BoxStyleCompact.BorderForeground(styles.ColorBorderMuted)
	if s.focused {
		border = styles.BoxStyleCompact.BorderForeground(styles.ColorBorder)
	}
	return border.
		Width(s.width).
		Height(s.height).
		Padding(0, sidebarPadH).
		Render(content)
}

// FullTitleOf returns the untruncated title for a chat id, for tooltip
// style display elsewhere in the UI.
func (s *Sidebar) FullTitleOf(chatID string) (string, bool) {
	for _, entry := range s.entries {
		if entry.ID == chatID {
			return entry.Title, true
		}
	}
	return "", false
}
