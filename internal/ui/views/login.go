// internal/ui/views/login.go

package views

import (
	"strings"

	"docpub/internal/login"
	"docpub/internal/ui"
	"docpub/internal/ui/components"
	"docpub/internal/ui/messages"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	siteInput = iota
	userInput
	secretInput
)

const loginAdvice = `Site: your WordPress address, e.g. example.com.
HTTPS is tried first, then HTTP.

Password: an Application Password, created under
Users > Profile > Application Passwords.
Your normal admin password will not work.

XML-RPC must be enabled on the site.`

type loginView struct {
	model   *ui.Model
	inputs  []textinput.Model
	focused int
	flow    login.Flow
	spinner spinner.Model
	help    help.Model
	popup   *components.Popup
}

// NewLoginView builds the login form, prefilled from the saved config.
func NewLoginView(model *ui.Model) *loginView {
	v := &loginView{
		model:   model,
		inputs:  make([]textinput.Model, 3),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
	}
	v.spinner.Style = ui.StatusWorkingStyle

	width := model.Layout().InputWidth()
	for i := range v.inputs {
		t := textinput.New()
		t.Width = width
		t.CharLimit = 256
		switch i {
		case siteInput:
			t.Placeholder = "example.com"
		case userInput:
			t.Placeholder = "admin"
		case secretInput:
			t.Placeholder = "xxxx xxxx xxxx xxxx xxxx xxxx"
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}
		v.inputs[i] = t
	}

	cfg := model.Config().Config()
	v.inputs[siteInput].SetValue(cfg.Site)
	v.inputs[userInput].SetValue(cfg.Username)

	// Kursor na pierwszym pustym polu
	switch {
	case cfg.Site == "":
		v.focused = siteInput
	case cfg.Username == "":
		v.focused = userInput
	default:
		v.focused = secretInput
	}
	v.inputs[v.focused].Focus()
	return v
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) State() login.State {
	return v.flow.State()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keys := v.model.Keys()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.model.SetTerminalSize(msg.Width, msg.Height)
		width := v.model.Layout().InputWidth()
		for i := range v.inputs {
			v.inputs[i].Width = width
		}
		return v, nil

	case messages.LoginResultMsg:
		return v, v.finish(msg.Outcome)

	case spinner.TickMsg:
		if v.flow.State() != login.Validating {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			v.model.SetQuitting(true)
			return v, tea.Quit
		}
		if v.popup != nil {
			if key.Matches(msg, keys.Back, keys.Submit, keys.Help) {
				v.popup = nil
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, keys.Help):
			w, h := v.model.GetTerminalSize()
			v.popup = components.NewPopup(components.PopupMessage, "Login help", loginAdvice, 56, w, h)
			return v, nil
		case key.Matches(msg, keys.Theme):
			ui.SwitchTheme()
			v.spinner.Style = ui.StatusWorkingStyle
			return v, nil
		}

		// Formularz zablokowany w trakcie walidacji
		if v.flow.State() == login.Validating {
			return v, nil
		}

		switch {
		case key.Matches(msg, keys.Next):
			return v, v.focus(v.focused + 1)
		case key.Matches(msg, keys.Prev):
			return v, v.focus(v.focused - 1)
		case key.Matches(msg, keys.Submit):
			if v.focused < secretInput && v.inputs[secretInput].Value() == "" {
				return v, v.focus(v.focused + 1)
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focused], cmd = v.inputs[v.focused].Update(msg)
	return v, cmd
}

func (v *loginView) focus(i int) tea.Cmd {
	n := len(v.inputs)
	v.inputs[v.focused].Blur()
	v.focused = (i%n + n) % n
	return v.inputs[v.focused].Focus()
}

func (v *loginView) submit() tea.Cmd {
	if err := v.flow.Begin(); err != nil {
		v.model.Logger().Debug("login submit ignored", "reason", err)
		return nil
	}
	v.model.SetWorking("Connecting...")

	auth := v.model.Authenticator()
	ctx := v.model.Context()
	site := v.inputs[siteInput].Value()
	user := v.inputs[userInput].Value()
	secret := v.inputs[secretInput].Value()

	return tea.Batch(
		v.spinner.Tick,
		func() tea.Msg {
			return messages.LoginResultMsg{Outcome: auth.Login(ctx, site, user, secret)}
		},
	)
}

func (v *loginView) finish(o login.Outcome) tea.Cmd {
	if v.flow.Finish(o) != login.Authenticated {
		msg := "Login failed."
		if o.Err != nil {
			msg = o.Err.Message
		}
		v.model.SetStatus(msg, true)
		v.flow.Reset()
		return v.focus(secretInput)
	}

	v.inputs[secretInput].SetValue("")
	v.model.SetSession(o.Session)
	cfg := v.model.Config()
	if saved, err := cfg.RememberLogin(v.inputs[siteInput].Value(), o.Session.Username()); err != nil {
		v.model.Logger().Warn("could not save login details", "error", err)
	} else if saved {
		v.model.Logger().Debug("login details saved", "config", cfg.Path())
	}
	v.model.SetStatus("Connected to "+o.Endpoint, false)
	v.model.SetActiveView(ui.ViewPublish)
	return nil
}

func (v *loginView) View() string {
	if v.popup != nil {
		return v.popup.Render()
	}

	layout := v.model.Layout()
	labels := []string{"Site", "Username", "App Password"}

	var b strings.Builder
	b.WriteString(layout.Header("WordPress Login", "") + "\n")
	b.WriteString(ui.DescriptionStyle.Render("Connect with an Application Password over XML-RPC") + "\n\n")

	for i, input := range v.inputs {
		label := ui.LabelStyle.Render(labels[i])
		field := ui.InputStyle.Render(input.View())
		if i == v.focused {
			label = ui.FocusedLabelStyle.Render(labels[i])
			field = ui.FocusedInputStyle.Render(input.View())
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, label, field) + "\n")
	}

	b.WriteString("\n")
	if v.flow.State() == login.Validating {
		b.WriteString(ui.ButtonDisabledStyle.Render("[ Login ]") + "\n\n")
	} else {
		b.WriteString(ui.ButtonStyle.Render("[ Login ]") + "\n\n")
	}

	if status := v.model.GetStatus(); status.Message != "" {
		line := ui.StatusStyle(status).Render(status.Message)
		if status.Working {
			line = v.spinner.View() + " " + line
		}
		b.WriteString(line + "\n\n")
	}

	b.WriteString(v.help.View(v.model.Keys()))
	return layout.Window(b.String())
}
