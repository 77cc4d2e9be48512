// Package styles provides a centralized theme and style system for the
// GyaanSeek UI. This enables consistent styling across all components.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette. The accents mirror the GyaanSeek web client's scheme:
// maroon accent on a dark background with cream text.
var (
	// Primary accent color (maroon)
	ColorAccent = lipgloss.Color("#810000")

	// Text colors
	ColorText       = lipgloss.Color("#EEEBDD") // Primary text (cream)
	ColorTextMuted  = lipgloss.Color("245")     // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")      // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("#FF4C4C") // Error messages
	ColorWarning = lipgloss.Color("214")     // Warning/edit mode
	ColorSuccess = lipgloss.Color("42")      // Success messages

	// Message bubbles
	ColorUserBubble      = lipgloss.Color("#1D4ED8") // User turns (blue)
	ColorAssistantBubble = lipgloss.Color("#232323") // Assistant turns

	// Border colors
	ColorBorder      = lipgloss.Color("#630000") // Default border (dark maroon)
	ColorBorderMuted = lipgloss.Color("238")     // Muted border

	// Placeholder text
	ColorPlaceholder = lipgloss.Color("240")
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// BoxStyleCompact has less padding
	BoxStyleCompact = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)
)

// Text styles
var (
	// TitleStyle for panel/section titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// TextBoldStyle for emphasized text
	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)
)

// Selection and highlighting
var (
	// SelectedStyle for highlighted/selected items
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)
)

// Message styles
var (
	// UserMessageStyle for user turns, right-aligned bubbles
	UserMessageStyle = lipgloss.NewStyle().
				Foreground(ColorTextBright).
				Background(ColorUserBubble).
				Padding(0, 1)

	// AssistantMessageStyle for assistant turns
	AssistantMessageStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorAssistantBubble).
				Padding(0, 1)

	// PendingStyle for the in-flight "Loading..." placeholder
	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Input and form styles
var (
	// LabelStyle for form labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(12)

	// EditStyle for edit mode indicators (inline rename)
	EditStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	// PlaceholderStyle for placeholder text
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Feedback styles
var (
	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// SuccessStyle for confirmation messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Status bar style
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)
)
