// Package commands routes slash commands typed into the prompt input.
package commands

import "strings"

// Action tells the UI what a command decided.
type Action int

const (
	ActionNone Action = iota
	ActionNewChat
	ActionDeleteChat
	ActionRenameChat
	ActionLogout
	ActionQuit
)

// Context carries the state commands need to decide.
type Context struct {
	ChatID        string // active chat id, "" when the session is unsaved
	Authenticated bool
}

// Result represents the result of a command execution.
type Result struct {
	Title   string
	Content string
	Action  Action
	Arg     string // e.g. the new title for a rename
}

// Handler is the interface for command handlers.
type Handler interface {
	Execute(ctx *Context, args string) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	handlers map[string]Handler
	order    []string
}

// NewDispatcher creates a dispatcher with the default handlers.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]Handler)}

	d.Register(&NewChatHandler{})
	d.Register(&RenameHandler{})
	d.Register(&DeleteHandler{})
	d.Register(&LogoutHandler{})
	d.Register(&HelpHandler{dispatcher: d})
	d.Register(&VersionHandler{})
	d.Register(&QuitHandler{})

	return d
}

// Register adds a handler to the dispatcher.
func (d *Dispatcher) Register(h Handler) {
	if _, ok := d.handlers[h.Name()]; !ok {
		d.order = append(d.order, h.Name())
	}
	d.handlers[h.Name()] = h
}

// IsCommand reports whether the input should be dispatched rather than
// sent as a prompt.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Dispatch parses "/name args" and executes the matching handler.
func (d *Dispatcher) Dispatch(input string, ctx *Context) *Result {
	trimmed := strings.TrimSpace(input)
	name, args, _ := strings.Cut(trimmed, " ")
	handler, ok := d.handlers[name]
	if !ok {
		return &Result{
			Title:   "Error",
			Content: "Unknown command: " + name,
		}
	}
	return handler.Execute(ctx, strings.TrimSpace(args))
}

// GetHandler returns a handler by name.
func (d *Dispatcher) GetHandler(name string) (Handler, bool) {
	h, ok := d.handlers[name]
	return h, ok
}
