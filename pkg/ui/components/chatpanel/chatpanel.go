// Package chatpanel renders the active conversation: the transcript
// with assistant replies rendered as terminal markdown, the greeting
// shown before the first turn, and the prompt input.
package chatpanel

import (
	"fmt"
	"os"
	"strings"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/ui/components/utils"
	"gyaanseek_cli/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/glamour"
)

const (
	greetingTitle    = "Hi, I'm GyaanSeek"
	greetingSubtitle = "How can I help you?"
	inputPlaceholder = "Message GyaanSeek"
	pendingLabel     = "Loading..."

	inputHeight = 3
	chromeLines = 1 // separator between transcript and input
)

// SubmitMsg carries the content the user submitted.
type SubmitMsg struct {
	Content string
}

// Panel is the prompt/response pane.
type Panel struct {
	viewport viewport.Model
	textarea textarea.Model
	renderer *glamour.TermRenderer

	messages []api.ChatMessage
	pending  string // user message awaiting its reply, "" when idle
	info     string // command output shown in place of the transcript
	focused  bool
	width    int
	height   int
}

// NewPanel creates the panel with a focused input.
func NewPanel() *Panel {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.SetHeight(inputHeight)
	ta.Focus()

	return &Panel{
		viewport: viewport.New(),
		textarea: ta,
		focused:  true,
	}
}

// SetSize sets the panel dimensions and rebuilds the markdown renderer
// for the new wrap width.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height

	transcriptHeight := height - inputHeight - chromeLines
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	p.viewport.SetWidth(width)
	p.viewport.SetHeight(transcriptHeight)
	p.textarea.SetWidth(width)

	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Fall back to plain text when the renderer cannot be built.
		renderer = nil
	}
	p.renderer = renderer

	p.refreshTranscript()
}

// Focus gives the input keyboard focus.
func (p *Panel) Focus() {
	p.focused = true
	p.textarea.Focus()
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
	p.textarea.Blur()
}

// Focused reports whether the panel has keyboard focus.
func (p *Panel) Focused() bool { return p.focused }

// SetMessages replaces the transcript.
func (p *Panel) SetMessages(messages []api.ChatMessage) {
	p.messages = messages
	p.refreshTranscript()
}

// Messages returns the transcript being displayed.
func (p *Panel) Messages() []api.ChatMessage { return p.messages }

// SetPending shows the typed message with a loading placeholder until
// the reply commits.
func (p *Panel) SetPending(content string) {
	p.pending = content
	p.refreshTranscript()
}

// ClearPending removes the loading placeholder.
func (p *Panel) ClearPending() {
	p.pending = ""
	p.refreshTranscript()
}

// Sending reports whether a prompt is awaiting its reply.
func (p *Panel) Sending() bool { return p.pending != "" }

// SetInfo shows command output in place of the transcript until the
// next submit clears it.
func (p *Panel) SetInfo(info string) { p.info = info }

// ClearInfo removes the command output overlay.
func (p *Panel) ClearInfo() { p.info = "" }

// Update handles keyboard input while the panel is focused.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !p.focused {
		return nil
	}

	switch msg.String() {
	case "enter":
		if p.Sending() {
			return nil
		}
		content := strings.TrimSpace(p.textarea.Value())
		if content == "" {
			return nil
		}
		p.info = ""
		p.textarea.Reset()
		return func() tea.Msg { return SubmitMsg{Content: content} }

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd

	case "ctrl+y":
		return p.copyLastReply()

	default:
		var cmd tea.Cmd
		p.textarea, cmd = p.textarea.Update(msg)
		return cmd
	}
}

// copyLastReply copies the newest assistant message via OSC52.
func (p *Panel) copyLastReply() tea.Cmd {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Role == api.RoleAssistant {
			text := p.messages[i].Content
			return func() tea.Msg {
				_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
				return nil
			}
		}
	}
	return nil
}

func (p *Panel) refreshTranscript() {
	if p.width <= 0 {
		return
	}
	p.viewport.SetContent(p.renderTranscript())
	p.viewport.GotoBottom()
}

func (p *Panel) renderTranscript() string {
	var blocks []string

	bubbleWidth := p.width * 7 / 10
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for _, msg := range p.messages {
		if msg.Role == api.RoleUser {
			blocks = append(blocks, rightAlignBlock(userBubble(msg.Content, bubbleWidth), p.width))
		} else {
			blocks = append(blocks, p.renderMarkdown(msg.Content))
		}
	}

	if p.pending != "" {
		blocks = append(blocks, rightAlignBlock(userBubble(p.pending, bubbleWidth), p.width))
		blocks = append(blocks, styles.PendingStyle.Render(pendingLabel))
	}

	return strings.Join(blocks, "\n\n")
}

// renderMarkdown renders assistant markdown, falling back to the raw
// content if rendering fails.
func (p *Panel) renderMarkdown(content string) string {
	if p.renderer == nil {
		return styles.TextStyle.Render(content)
	}
	rendered, err := p.renderer.Render(content)
	if err != nil {
		return styles.TextStyle.Render(content)
	}
	return strings.TrimRight(rendered, "\n")
}

// userBubble renders a user message, wrapping it once it exceeds the
// bubble width.
func userBubble(content string, bubbleWidth int) string {
	style := styles.UserMessageStyle
	if lipgloss.Width(content) > bubbleWidth {
		style = style.Width(bubbleWidth)
	}
	return style.Render(content)
}

func rightAlignBlock(block string, width int) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = utils.RightAlign(line, width)
	}
	return strings.Join(lines, "\n")
}

// View renders the panel.
func (p *Panel) View() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}

	var top string
	if p.info != "" {
		top = p.renderInfo()
	} else if len(p.messages) == 0 && p.pending == "" {
		top = p.renderGreeting()
	} else {
		top = p.viewport.View()
	}

	separator := strings.Repeat("─", p.width)
	return top + "\n" + separator + "\n" + p.textarea.View()
}

// renderInfo fills the transcript area with the command output.
func (p *Panel) renderInfo() string {
	transcriptHeight := p.height - inputHeight - chromeLines
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	lines := strings.Split(strings.TrimRight(p.info, "\n"), "\n")
	for i, line := range lines {
		lines[i] = styles.TextStyle.Render(utils.TruncateToWidth(line, p.width))
	}
	for len(lines) < transcriptHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines[:transcriptHeight], "\n")
}

func (p *Panel) renderGreeting() string {
	transcriptHeight := p.height - inputHeight - chromeLines
	if transcriptHeight < 2 {
		transcriptHeight = 2
	}

	lines := make([]string, transcriptHeight)
	for i := range lines {
		lines[i] = strings.Repeat(" ", p.width)
	}
	mid := transcriptHeight / 2
	lines[mid-1] = utils.CenterLine(styles.TextBoldStyle.Render(greetingTitle), p.width)
	lines[mid] = utils.CenterLine(styles.TextMutedStyle.Render(greetingSubtitle), p.width)
	return strings.Join(lines, "\n")
}
