// Package ui wires the Bubble Tea application: the login/signup forms,
// the chat view (sidebar + transcript + status bar) and the async
// commands that drive the session syncer.
package ui

import (
	"context"
	"errors"
	"time"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/auth"
	"gyaanseek_cli/pkg/chat"
	"gyaanseek_cli/pkg/commands"
	"gyaanseek_cli/pkg/store"
	"gyaanseek_cli/pkg/ui/components/authform"
	"gyaanseek_cli/pkg/ui/components/chatpanel"
	"gyaanseek_cli/pkg/ui/components/sidebar"
	"gyaanseek_cli/pkg/ui/components/statusbar"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type view int

const (
	viewLogin view = iota
	viewSignup
	viewChat
)

const (
	sidebarMinWidth = 24
	sidebarMaxWidth = 36
	sessionExpired  = "Session expired. Please log in again."
	chatGoneNotice  = "That chat no longer exists."
)

// Messages produced by async commands.
type (
	loginDoneMsg struct {
		message string
		err     error
	}
	signupDoneMsg struct {
		message string
		err     error
	}
	logoutDoneMsg struct {
		message string
		err     error
	}
	historyMsg struct {
		entries []chat.HistoryEntry
	}
	sendDoneMsg struct {
		result *chat.SendResult
		err    error
	}
	selectDoneMsg struct {
		chatID string
		err    error
	}
	deleteDoneMsg struct {
		chatID string
		err    error
	}
	renameDoneMsg struct {
		chatID string
		err    error
	}
	refreshTickMsg struct {
		seq uint64
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	syncer     *chat.Syncer
	authSvc    *auth.Service
	local      store.Store
	dispatcher *commands.Dispatcher

	view    view
	form    *authform.Form
	sidebar *sidebar.Sidebar
	panel   *chatpanel.Panel
	status  *statusbar.Bar

	width  int
	height int
	ready  bool
}

// NewModel creates the root model. The chat view is shown directly
// when a stored credential exists, otherwise the login form.
func NewModel(syncer *chat.Syncer, authSvc *auth.Service, local store.Store, baseURL string) Model {
	m := Model{
		syncer:     syncer,
		authSvc:    authSvc,
		local:      local,
		dispatcher: commands.NewDispatcher(),
		form:       authform.NewForm(authform.ModeLogin),
		sidebar:    sidebar.NewSidebar(),
		panel:      chatpanel.NewPanel(),
		status:     statusbar.NewBar("", baseURL),
		view:       viewLogin,
	}

	if syncer.Authenticated() {
		m.view = viewChat
		if user, ok := store.CurrentUser(local); ok {
			m.sidebar.SetUserName(user.FirstName)
			m.status.SetUserName(user.FirstName)
		}
	}
	return m
}

// Init starts the initial history fetch when already signed in.
func (m Model) Init() tea.Cmd {
	if m.view == viewChat {
		return m.fetchHistoryCmd()
	}
	return nil
}

// Update handles messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case authform.SubmitLoginMsg:
		m.form.SetLoading(true)
		return m, m.loginCmd(msg.Email, msg.Password)

	case authform.SubmitSignupMsg:
		m.form.SetLoading(true)
		return m, m.signupCmd(msg)

	case authform.SwitchModeMsg:
		m.form = authform.NewForm(msg.Mode)
		if msg.Mode == authform.ModeSignup {
			m.view = viewSignup
		} else {
			m.view = viewLogin
		}
		m.layout()
		return m, nil

	case loginDoneMsg:
		return m.handleAuthDone(msg.message, msg.err)

	case signupDoneMsg:
		m.form.SetLoading(false)
		if msg.err != nil {
			m.form.SetNotice(remoteErrorText(msg.err))
			return m, nil
		}
		// Account created; sign in with the new credentials.
		m.view = viewLogin
		m.form = authform.NewForm(authform.ModeLogin)
		m.form.SetNotice(msg.message)
		m.layout()
		return m, nil

	case logoutDoneMsg:
		m.toLogin(msg.message)
		return m, nil

	case historyMsg:
		m.sidebar.SetEntries(msg.entries)
		return m, nil

	case sidebar.SelectChatMsg:
		return m, m.selectCmd(msg.ChatID)

	case sidebar.NewChatMsg:
		m.startNewChat()
		return m, nil

	case sidebar.DeleteChatMsg:
		return m, m.deleteCmd(msg.ChatID)

	case sidebar.RenameChatMsg:
		return m, m.renameCmd(msg.ChatID, msg.Title)

	case chatpanel.SubmitMsg:
		return m.handleSubmit(msg.Content)

	case sendDoneMsg:
		return m.handleSendDone(msg)

	case selectDoneMsg:
		return m.handleSelectDone(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case renameDoneMsg:
		if msg.err != nil {
			return m.handleRemoteError(msg.err)
		}
		m.sidebar.SetEntries(m.syncer.History())
		return m, nil

	case refreshTickMsg:
		if m.syncer.RefreshDue(msg.seq) {
			return m, m.fetchHistoryCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view != viewChat {
		return m, m.form.Update(msg)
	}

	switch msg.String() {
	case "tab":
		if m.sidebar.IsRenaming() {
			break
		}
		if m.sidebar.Focused() {
			m.sidebar.Blur()
			m.panel.Focus()
		} else {
			m.panel.Blur()
			m.sidebar.Focus()
		}
		return m, nil
	case "ctrl+n":
		m.startNewChat()
		return m, nil
	case "esc":
		if !m.sidebar.IsRenaming() && m.sidebar.Focused() {
			m.sidebar.Blur()
			m.panel.Focus()
			return m, nil
		}
	}

	m.status.Clear()
	if m.sidebar.Focused() {
		return m, m.sidebar.Update(msg)
	}
	return m, m.panel.Update(msg)
}

// handleSubmit routes prompt input: slash commands to the dispatcher,
// everything else to the syncer.
func (m Model) handleSubmit(content string) (tea.Model, tea.Cmd) {
	if commands.IsCommand(content) {
		return m.runCommand(content)
	}

	m.panel.SetPending(content)
	return m, m.sendCmd(content)
}

func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	result := m.dispatcher.Dispatch(input, &commands.Context{
		ChatID:        m.syncer.Session().ChatID,
		Authenticated: m.syncer.Authenticated(),
	})

	switch result.Action {
	case commands.ActionNewChat:
		m.startNewChat()
		return m, nil
	case commands.ActionDeleteChat:
		return m, m.deleteCmd(m.syncer.Session().ChatID)
	case commands.ActionRenameChat:
		return m, m.renameCmd(m.syncer.Session().ChatID, result.Arg)
	case commands.ActionLogout:
		return m, m.logoutCmd()
	case commands.ActionQuit:
		return m, tea.Quit
	}

	if result.Content != "" {
		m.panel.SetInfo(result.Content)
	}
	return m, nil
}

func (m *Model) startNewChat() {
	m.syncer.NewChat()
	m.panel.ClearPending()
	m.panel.ClearInfo()
	m.panel.SetMessages(nil)
	m.sidebar.Blur()
	m.panel.Focus()
	m.status.Clear()
}

func (m Model) handleAuthDone(message string, err error) (tea.Model, tea.Cmd) {
	m.form.SetLoading(false)
	if err != nil {
		m.form.SetNotice(remoteErrorText(err))
		return m, nil
	}

	m.view = viewChat
	if user, ok := store.CurrentUser(m.local); ok {
		m.sidebar.SetUserName(user.FirstName)
		m.status.SetUserName(user.FirstName)
	}
	m.status.SetNotice(message)
	m.panel.SetMessages(nil)
	m.panel.Focus()
	m.sidebar.Blur()
	m.layout()
	return m, m.fetchHistoryCmd()
}

func (m Model) handleSendDone(msg sendDoneMsg) (tea.Model, tea.Cmd) {
	m.panel.ClearPending()

	if msg.err != nil {
		switch {
		case errors.Is(msg.err, chat.ErrStale):
			return m, nil
		case api.IsAuthRequired(msg.err):
			m.toLogin(sessionExpired)
			return m, nil
		case errors.Is(msg.err, chat.ErrEmptyMessage):
			return m, nil
		default:
			m.status.SetError(remoteErrorText(msg.err))
			return m, nil
		}
	}

	m.panel.SetMessages(msg.result.Session.Messages)
	if msg.result.Failed {
		return m, nil
	}

	seq := m.syncer.ScheduleRefresh()
	return m, tea.Tick(chat.RefreshDebounce, func(time.Time) tea.Msg {
		return refreshTickMsg{seq: seq}
	})
}

func (m Model) handleSelectDone(msg selectDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsNotFound(msg.err) {
			m.status.SetError(chatGoneNotice)
			m.panel.SetMessages(nil)
			return m, m.fetchHistoryCmd()
		}
		return m.handleRemoteError(msg.err)
	}

	m.panel.ClearInfo()
	m.panel.SetMessages(m.syncer.Session().Messages)
	// The transcript may have supplied a title for an untitled chat.
	m.sidebar.SetEntries(m.syncer.History())
	if title, ok := m.sidebar.FullTitleOf(msg.chatID); ok {
		m.status.SetNotice(title)
	}
	m.sidebar.Blur()
	m.panel.Focus()
	return m, nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// A 404 never reaches here; the syncer treats it as a
		// confirmed delete.
		return m.handleRemoteError(msg.err)
	}

	// The in-memory list is already filtered; refetch to converge with
	// the server ordering.
	m.sidebar.SetEntries(m.syncer.History())
	if !m.syncer.Session().Saved() {
		m.panel.SetMessages(nil)
	}
	return m, m.fetchHistoryCmd()
}

func (m Model) handleRemoteError(err error) (tea.Model, tea.Cmd) {
	if api.IsAuthRequired(err) {
		m.toLogin(sessionExpired)
		return m, nil
	}
	m.status.SetError(remoteErrorText(err))
	return m, nil
}

func (m *Model) toLogin(notice string) {
	m.view = viewLogin
	m.form = authform.NewForm(authform.ModeLogin)
	m.form.SetNotice(notice)
	m.sidebar.SetEntries(nil)
	m.sidebar.SetUserName("")
	m.status.SetUserName("")
	m.panel.ClearPending()
	m.panel.SetMessages(nil)
	m.layout()
}

func remoteErrorText(err error) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return err.Error()
}

// Async commands.

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		message, err := m.authSvc.Login(context.Background(), email, password)
		return loginDoneMsg{message: message, err: err}
	}
}

func (m Model) signupCmd(msg authform.SubmitSignupMsg) tea.Cmd {
	return func() tea.Msg {
		message, err := m.authSvc.Signup(context.Background(),
			msg.FirstName, msg.LastName, msg.Email, msg.Password)
		return signupDoneMsg{message: message, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		message, err := m.authSvc.Logout(context.Background())
		return logoutDoneMsg{message: message, err: err}
	}
}

func (m Model) fetchHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		return historyMsg{entries: m.syncer.RefreshHistory(context.Background())}
	}
}

func (m Model) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.syncer.Send(context.Background(), content)
		return sendDoneMsg{result: result, err: err}
	}
}

func (m Model) selectCmd(chatID string) tea.Cmd {
	return func() tea.Msg {
		return selectDoneMsg{chatID: chatID, err: m.syncer.Select(context.Background(), chatID)}
	}
}

func (m Model) deleteCmd(chatID string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{chatID: chatID, err: m.syncer.Delete(context.Background(), chatID)}
	}
}

func (m Model) renameCmd(chatID, title string) tea.Cmd {
	return func() tea.Msg {
		return renameDoneMsg{chatID: chatID, err: m.syncer.Rename(context.Background(), chatID, title)}
	}
}

// Layout.

func (m *Model) sidebarWidth() int {
	w := m.width / 5
	if w < sidebarMinWidth {
		w = sidebarMinWidth
	}
	if w > sidebarMaxWidth {
		w = sidebarMaxWidth
	}
	return w
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	m.form.SetSize(m.width, m.height)

	sw := m.sidebarWidth()
	contentHeight := m.height - 1 // status bar
	m.sidebar.SetSize(sw, contentHeight)
	m.panel.SetSize(m.width-sw, contentHeight)
	m.status.SetWidth(m.width)
}

// View renders the application.
func (m Model) View() tea.View {
	if !m.ready {
		return tea.NewView("")
	}

	var content string
	if m.view == viewChat {
		row := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.panel.View())
		content = row + "\n" + m.status.View()
	} else {
		content = m.form.View()
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}
