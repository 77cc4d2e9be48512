// Package authform implements the login and signup forms.
package authform

import (
	"strings"

	"gyaanseek_cli/pkg/auth"
	"gyaanseek_cli/pkg/ui/components/utils"
	"gyaanseek_cli/pkg/ui/styles"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// SubmitLoginMsg is emitted when the login form is submitted.
type SubmitLoginMsg struct {
	Email    string
	Password string
}

// SubmitSignupMsg is emitted when the signup form is submitted.
type SubmitSignupMsg struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// SwitchModeMsg asks the root model to show the other form.
type SwitchModeMsg struct {
	Mode Mode
}

const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldPassword
)

var fieldLabels = [...]string{"First name", "Last name", "Email", "Password"}

// Form is a login or signup form backed by text inputs.
type Form struct {
	mode         Mode
	inputs       [4]textinput.Model
	focus        int
	loading      bool
	showPassword bool
	errs         map[string]string // field name -> message
	notice       string            // server-side error shown above the fields
	width        int
	height       int
}

// NewForm creates a form in the given mode with the first visible
// field focused.
func NewForm(mode Mode) *Form {
	f := &Form{mode: mode, errs: map[string]string{}}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = fieldLabels[i]
		f.inputs[i] = in
	}
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	f.inputs[fieldPassword].EchoCharacter = '•'
	f.focus = f.firstField()
	f.inputs[f.focus].Focus()
	return f
}

// SetSize sets the form dimensions.
func (f *Form) SetSize(width, height int) {
	f.width = width
	f.height = height
	fieldWidth := width / 2
	if fieldWidth < 24 {
		fieldWidth = 24
	}
	for i := range f.inputs {
		f.inputs[i].SetWidth(fieldWidth)
	}
}

// Mode returns the form mode.
func (f *Form) Mode() Mode { return f.mode }

// SetLoading toggles the submitting state; input is ignored while set.
func (f *Form) SetLoading(loading bool) { f.loading = loading }

// Loading reports whether a submit is in flight.
func (f *Form) Loading() bool { return f.loading }

// SetFieldError replaces the per-field validation messages with a
// single error, or clears them when err is nil.
func (f *Form) SetFieldError(err *auth.FieldError) {
	f.errs = map[string]string{}
	if err != nil {
		f.errs[err.Field] = err.Message
	}
}

// SetNotice sets the server-side error line.
func (f *Form) SetNotice(notice string) { f.notice = notice }

// Reset clears the inputs, errors and loading state.
func (f *Form) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.errs = map[string]string{}
	f.notice = ""
	f.loading = false
	f.focus = f.firstField()
	f.inputs[f.focus].Focus()
}

func (f *Form) firstField() int {
	if f.mode == ModeSignup {
		return fieldFirstName
	}
	return fieldEmail
}

func (f *Form) fields() []int {
	if f.mode == ModeSignup {
		return []int{fieldFirstName, fieldLastName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

// Update handles keyboard input.
func (f *Form) Update(msg tea.KeyPressMsg) tea.Cmd {
	if f.loading {
		return nil
	}

	switch msg.String() {
	case "tab", "down":
		f.moveFocus(1)
		return nil
	case "shift+tab", "up":
		f.moveFocus(-1)
		return nil
	case "enter":
		return f.submit()
	case "ctrl+s":
		return f.switchMode()
	case "ctrl+t":
		f.togglePasswordEcho()
		return nil
	default:
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
}

func (f *Form) moveFocus(delta int) {
	fields := f.fields()
	pos := 0
	for i, field := range fields {
		if field == f.focus {
			pos = i
			break
		}
	}
	f.inputs[f.focus].Blur()
	pos = (pos + delta + len(fields)) % len(fields)
	f.focus = fields[pos]
	f.inputs[f.focus].Focus()
}

func (f *Form) togglePasswordEcho() {
	f.showPassword = !f.showPassword
	if f.showPassword {
		f.inputs[fieldPassword].EchoMode = textinput.EchoNormal
	} else {
		f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	}
}

func (f *Form) switchMode() tea.Cmd {
	other := ModeSignup
	if f.mode == ModeSignup {
		other = ModeLogin
	}
	return func() tea.Msg { return SwitchModeMsg{Mode: other} }
}

func (f *Form) submit() tea.Cmd {
	email := strings.TrimSpace(f.inputs[fieldEmail].Value())
	password := f.inputs[fieldPassword].Value()

	if f.mode == ModeLogin {
		if err := auth.ValidateLogin(email, password); err != nil {
			f.SetFieldError(err)
			return nil
		}
		f.SetFieldError(nil)
		return func() tea.Msg { return SubmitLoginMsg{Email: email, Password: password} }
	}

	first := strings.TrimSpace(f.inputs[fieldFirstName].Value())
	last := strings.TrimSpace(f.inputs[fieldLastName].Value())
	if err := auth.ValidateSignup(first, last, email, password); err != nil {
		f.SetFieldError(err)
		return nil
	}
	f.SetFieldError(nil)
	return func() tea.Msg {
		return SubmitSignupMsg{FirstName: first, LastName: last, Email: email, Password: password}
	}
}

var fieldErrorKeys = [...]string{"firstName", "lastName", "email", "password"}

// View renders the form centered in the available area.
func (f *Form) View() string {
	title := "Log in to GyaanSeek"
	hint := "enter submit · tab next field · ctrl+t show password · ctrl+s sign up · ctrl+c quit"
	if f.mode == ModeSignup {
		title = "Create a GyaanSeek account"
		hint = "enter submit · tab next field · ctrl+t show password · ctrl+s log in · ctrl+c quit"
	}

	var lines []string
	lines = append(lines, styles.TitleStyle.Render(title), "")

	if f.notice != "" {
		lines = append(lines, styles.ErrorStyle.Render(f.notice), "")
	}

	for _, field := range f.fields() {
		label := fieldLabels[field]
		if field == f.focus {
			lines = append(lines, styles.LabelStyle.Render(label))
		} else {
			lines = append(lines, styles.TextMutedStyle.Render(label))
		}
		lines = append(lines, f.inputs[field].View())
		if msg, ok := f.errs[fieldErrorKeys[field]]; ok {
			lines = append(lines, styles.ErrorStyle.Render(msg))
		}
		lines = append(lines, "")
	}

	if f.loading {
		lines = append(lines, styles.PendingStyle.Render("Submitting..."))
	} else {
		lines = append(lines, styles.TextMutedStyle.Render(hint))
	}

	for i, line := range lines {
		lines[i] = utils.CenterLine(line, f.width)
	}

	body := strings.Join(lines, "\n")
	topPad := (f.height - len(lines)) / 2
	if topPad > 0 {
		body = strings.Repeat("\n", topPad) + body
	}
	return body
}
