package commands

import (
	"fmt"
	"strings"

	"gyaanseek_cli/pkg/version"
)

// NewChatHandler starts a fresh unsaved conversation.
type NewChatHandler struct{}

func (h *NewChatHandler) Name() string        { return "/new" }
func (h *NewChatHandler) Description() string { return "Start a new chat" }

func (h *NewChatHandler) Execute(ctx *Context, args string) *Result {
	return &Result{Title: "New Chat", Action: ActionNewChat}
}

// RenameHandler renames the active chat.
type RenameHandler struct{}

func (h *RenameHandler) Name() string        { return "/rename" }
func (h *RenameHandler) Description() string { return "Rename the current chat: /rename <title>" }

func (h *RenameHandler) Execute(ctx *Context, args string) *Result {
	if ctx.ChatID == "" {
		return &Result{Title: "Rename", Content: "No saved chat to rename yet."}
	}
	if strings.TrimSpace(args) == "" {
		return &Result{Title: "Rename", Content: "Usage: /rename <title>"}
	}
	return &Result{Title: "Rename", Action: ActionRenameChat, Arg: strings.TrimSpace(args)}
}

// DeleteHandler deletes the active chat.
type DeleteHandler struct{}

func (h *DeleteHandler) Name() string        { return "/delete" }
func (h *DeleteHandler) Description() string { return "Delete the current chat" }

func (h *DeleteHandler) Execute(ctx *Context, args string) *Result {
	if ctx.ChatID == "" {
		return &Result{Title: "Delete", Content: "No saved chat to delete."}
	}
	return &Result{Title: "Delete", Action: ActionDeleteChat}
}

// LogoutHandler ends the authenticated session.
type LogoutHandler struct{}

func (h *LogoutHandler) Name() string        { return "/logout" }
func (h *LogoutHandler) Description() string { return "Log out and return to the login screen" }

func (h *LogoutHandler) Execute(ctx *Context, args string) *Result {
	if !ctx.Authenticated {
		return &Result{Title: "Logout", Content: "Not logged in."}
	}
	return &Result{Title: "Logout", Action: ActionLogout}
}

// HelpHandler lists the available commands.
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show available commands" }

func (h *HelpHandler) Execute(ctx *Context, args string) *Result {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, name := range h.dispatcher.order {
		handler := h.dispatcher.handlers[name]
		fmt.Fprintf(&sb, "  %-10s %s\n", handler.Name(), handler.Description())
	}
	return &Result{Title: "Help", Content: sb.String()}
}

// VersionHandler shows build information.
type VersionHandler struct{}

func (h *VersionHandler) Name() string        { return "/version" }
func (h *VersionHandler) Description() string { return "Show version information" }

func (h *VersionHandler) Execute(ctx *Context, args string) *Result {
	return &Result{
		Title:   "Version",
		Content: fmt.Sprintf("gyaanseek %s (%s)", version.Summary(), version.Platform()),
	}
}

// QuitHandler exits the application.
type QuitHandler struct{}

func (h *QuitHandler) Name() string        { return "/quit" }
func (h *QuitHandler) Description() string { return "Exit" }

func (h *QuitHandler) Execute(ctx *Context, args string) *Result {
	return &Result{Title: "Quit", Action: ActionQuit}
}
