// internal/ui/views/publish.go

package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docpub/internal/models"
	"docpub/internal/publish"
	"docpub/internal/ui"
	"docpub/internal/ui/components"
	"docpub/internal/ui/messages"
	"docpub/internal/utils"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	pathField = iota
	titleField
	kindField
	fieldCount
)

const publishAdvice = `File: path to a .docx document. Press ctrl+o to browse.
Title: the title of the new post or page.
Type: ←/→ switches between Post and Page.

Paragraph styles are kept as CSS classes, so
"Intro Text" becomes <p class="style-intro-text">.
Embedded images are not uploaded.`

var kinds = []models.ContentKind{models.KindPost, models.KindPage}

type publishView struct {
	model   *ui.Model
	path    textinput.Model
	title   textinput.Model
	kind    int
	focused int

	picker  filepicker.Model
	picking bool

	// busy guards against a second submit while one is running
	busy    bool
	spinner spinner.Model
	help    help.Model
	popup   *components.Popup
}

// NewPublishView builds the publish form for the current session.
func NewPublishView(model *ui.Model) *publishView {
	width := model.Layout().InputWidth()

	path := textinput.New()
	path.Placeholder = "~/Documents/article.docx"
	path.Width = width
	path.Focus()

	title := textinput.New()
	title.Placeholder = "Post title"
	title.Width = width
	title.CharLimit = 200

	v := &publishView{
		model:   model,
		path:    path,
		title:   title,
		picker:  newPicker(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
	}
	v.spinner.Style = ui.StatusWorkingStyle
	if k, ok := models.ParseKind(model.Config().Config().Kind); ok && k == models.KindPage {
		v.kind = 1
	}
	return v
}

func newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".docx", ".DOCX"}
	fp.AutoHeight = false
	fp.Height = 12
	fp.ShowPermissions = false
	// esc zamyka przeglądarkę, więc nie może cofać katalogu
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("h", "back"))
	fp.Styles.Cursor = ui.SelectedItemStyle
	fp.Styles.Selected = ui.SelectedItemStyle
	return fp
}

func (v *publishView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *publishView) Busy() bool {
	return v.busy
}

func (v *publishView) Kind() models.ContentKind {
	return kinds[v.kind]
}

func (v *publishView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keys := v.model.Keys()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.model.SetTerminalSize(msg.Width, msg.Height)
		width := v.model.Layout().InputWidth()
		v.path.Width = width
		v.title.Width = width
		if h := msg.Height - 14; h > 4 {
			v.picker.Height = h
		}
		return v, nil

	case messages.PublishResultMsg:
		v.busy = false
		res := msg.Result
		v.model.SetStatus(res.Status, !res.OK())
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
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
		if v.picking {
			if key.Matches(msg, keys.Back, keys.Browse) {
				v.picking = false
				return v, nil
			}
			break
		}

		switch {
		case key.Matches(msg, keys.Help):
			w, h := v.model.GetTerminalSize()
			v.popup = components.NewPopup(components.PopupMessage, "Publishing help", publishAdvice, 60, w, h)
			return v, nil
		case key.Matches(msg, keys.Theme):
			ui.SwitchTheme()
			v.spinner.Style = ui.StatusWorkingStyle
			return v, nil
		case key.Matches(msg, keys.Browse):
			return v, v.openPicker()
		case key.Matches(msg, keys.Next):
			return v, v.focus(v.focused + 1)
		case key.Matches(msg, keys.Prev):
			return v, v.focus(v.focused - 1)
		case key.Matches(msg, keys.Submit):
			return v, v.submit()
		case v.focused == kindField && key.Matches(msg, keys.Left, keys.Right):
			v.kind = (v.kind + 1) % len(kinds)
			return v, nil
		}
	}

	if v.picking {
		return v, v.updatePicker(msg)
	}

	var cmd tea.Cmd
	switch v.focused {
	case pathField:
		v.path, cmd = v.path.Update(msg)
	case titleField:
		v.title, cmd = v.title.Update(msg)
	}
	return v, cmd
}

func (v *publishView) focus(i int) tea.Cmd {
	v.path.Blur()
	v.title.Blur()
	v.focused = (i%fieldCount + fieldCount) % fieldCount
	switch v.focused {
	case pathField:
		return v.path.Focus()
	case titleField:
		return v.title.Focus()
	}
	return nil
}

// openPicker starts browsing in the directory of the current path, or the
// home directory.
func (v *publishView) openPicker() tea.Cmd {
	dir := ""
	if p := utils.NormalizePath(v.path.Value()); p != "" {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dir = p
		} else if info, err := os.Stat(filepath.Dir(p)); err == nil && info.IsDir() {
			dir = filepath.Dir(p)
		}
	}
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		} else {
			dir = "."
		}
	}
	v.picker = newPicker()
	v.picker.CurrentDirectory = dir
	v.picking = true
	if !v.busy {
		v.model.ClearStatus()
	}
	return v.picker.Init()
}

func (v *publishView) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.path.SetValue(path)
		v.path.CursorEnd()
		v.picking = false
		if v.title.Value() == "" {
			v.title.SetValue(titleFromPath(path))
		}
		return v.focus(titleField)
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.model.SetStatus(fmt.Sprintf("Not a .docx file: %s", filepath.Base(path)), true)
	}
	return cmd
}

// titleFromPath suggests a title from the file name.
func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}

func (v *publishView) submit() tea.Cmd {
	if v.busy {
		v.model.Logger().Debug("publish submit ignored", "reason", "already running")
		return nil
	}
	v.busy = true
	v.model.SetWorking(publish.StatusProcessing)

	pub := v.model.Publisher()
	ctx := v.model.Context()
	sess := v.model.Session()
	req := publish.Request{
		Path:  utils.NormalizePath(v.path.Value()),
		Title: v.title.Value(),
		Kind:  string(v.Kind()),
	}

	return tea.Batch(
		v.spinner.Tick,
		func() tea.Msg {
			return messages.PublishResultMsg{Result: pub.Publish(ctx, sess, req)}
		},
	)
}

func (v *publishView) kindSelector() string {
	var parts []string
	for i, k := range kinds {
		label := "( ) " + k.Label()
		style := ui.ItemStyle
		if i == v.kind {
			label = "(•) " + k.Label()
			style = ui.SelectedItemStyle
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, "   ")
}

func (v *publishView) View() string {
	if v.popup != nil {
		return v.popup.Render()
	}

	layout := v.model.Layout()
	sess := v.model.Session()

	var b strings.Builder
	b.WriteString(layout.Header("Publish Document", sess.Username()+" @ "+sess.Endpoint()) + "\n\n")

	if v.picking {
		b.WriteString(ui.DescriptionStyle.Render("Select a .docx file (esc to cancel)") + "\n")
		b.WriteString(ui.StatusBarStyle.Render(v.picker.CurrentDirectory) + "\n\n")
		b.WriteString(v.picker.View() + "\n")
		b.WriteString(ui.ShortcutTable(
			[]string{"↑/↓", "enter", "h", "esc"},
			[]string{"move", "open", "parent", "cancel"},
		))
		return layout.Window(b.String())
	}

	row := func(field int, label, content string, boxed bool) {
		l := ui.LabelStyle.Render(label)
		if field == v.focused {
			l = ui.FocusedLabelStyle.Render(label)
		}
		if boxed {
			if field == v.focused {
				content = ui.FocusedInputStyle.Render(content)
			} else {
				content = ui.InputStyle.Render(content)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, l, content) + "\n")
	}
	row(pathField, "File", v.path.View(), true)
	if p := strings.TrimSpace(v.path.Value()); p != "" && !utils.IsDocx(utils.NormalizePath(p)) {
		b.WriteString(ui.DescriptionStyle.Render("File does not look like a .docx document") + "\n")
	}
	row(titleField, "Title", v.title.View(), true)
	row(kindField, "Type", " "+v.kindSelector(), false)

	b.WriteString("\n")
	if v.busy {
		b.WriteString(ui.ButtonDisabledStyle.Render("[ Publish ]") + "\n\n")
	} else {
		b.WriteString(ui.ButtonStyle.Render("[ Publish ]") + "\n\n")
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
