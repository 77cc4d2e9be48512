// Package statusbar renders the single-line bar at the bottom of the
// chat view: notices on the left, the signed-in user and endpoint on
// the right.
package statusbar

import (
	"strings"

	"gyaanseek_cli/pkg/ui/components/utils"
	"gyaanseek_cli/pkg/ui/styles"

	"charm.land/lipgloss/v2"
)

// Bar is the bottom status line.
type Bar struct {
	userName string
	baseURL  string
	notice   string
	isError  bool
	width    int
}

// NewBar creates an empty status bar.
func NewBar(userName, baseURL string) *Bar {
	return &Bar{userName: userName, baseURL: baseURL}
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) { b.width = width }

// SetUserName sets the signed-in user shown on the right.
func (b *Bar) SetUserName(name string) { b.userName = name }

// SetNotice shows a transient message on the left.
func (b *Bar) SetNotice(notice string) {
	b.notice = notice
	b.isError = false
}

// SetError shows a transient error message on the left.
func (b *Bar) SetError(notice string) {
	b.notice = notice
	b.isError = true
}

// Clear removes the transient message.
func (b *Bar) Clear() {
	b.notice = ""
	b.isError = false
}

// Notice returns the current transient message.
func (b *Bar) Notice() string { return b.notice }

// View renders the bar.
func (b *Bar) View() string {
	if b.width <= 0 {
		return ""
	}

	left := b.notice
	if b.isError {
		left = styles.ErrorStyle.Render(left)
	}

	right := b.baseURL
	if b.userName != "" {
		right = b.userName + " · " + b.baseURL
	}

	gap := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the endpoint first when space runs out.
		right = b.userName
		gap = b.width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			return styles.StatusBarStyle.Render(utils.TruncateToWidth(left, b.width))
		}
	}

	line := left + strings.Repeat(" ", gap) + right
	return styles.StatusBarStyle.Render(line)
}
