// internal/ui/models.go

package ui

import (
	"context"
	"log/slog"

	"docpub/internal/config"
	"docpub/internal/login"
	"docpub/internal/models"
	"docpub/internal/publish"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap definiuje skróty klawiszowe
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Left   key.Binding
	Right  key.Binding
	Browse key.Binding
	Help   key.Binding
	Theme  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap zwraca domyślne ustawienia klawiszy
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "post"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "page"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.Left, k.Right, k.Browse},
		{k.Help, k.Theme, k.Back, k.Quit},
	}
}

// Status reprezentuje stan aplikacji
type Status struct {
	Message string
	IsError bool
	Working bool
}

type View int

const (
	ViewLogin View = iota
	ViewPublish
)

// Deps are the services the views call into.
type Deps struct {
	Config        *config.Manager
	Authenticator *login.Authenticator
	Publisher     *publish.Publisher
	Logger        *slog.Logger
}

// Model reprezentuje główny model aplikacji, współdzielony przez widoki
type Model struct {
	keys       KeyMap
	status     Status
	activeView View
	session    models.Session
	config     *config.Manager
	auth       *login.Authenticator
	publisher  *publish.Publisher
	logger     *slog.Logger
	width      int
	height     int
	quitting   bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewModel(d Deps) *Model {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.NewManager("")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		keys:       DefaultKeyMap(),
		activeView: ViewLogin,
		config:     cfg,
		auth:       d.Authenticator,
		publisher:  d.Publisher,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (m *Model) Keys() KeyMap {
	return m.keys
}

// SetStatus ustawia status aplikacji
func (m *Model) SetStatus(msg string, isError bool) {
	m.status = Status{Message: msg, IsError: isError}
}

// SetWorking shows a progress status.
func (m *Model) SetWorking(msg string) {
	m.status = Status{Message: msg, Working: true}
}

func (m *Model) ClearStatus() {
	m.status = Status{}
}

func (m *Model) GetStatus() Status {
	return m.status
}

func (m *Model) GetActiveView() View {
	return m.activeView
}

func (m *Model) SetActiveView(view View) {
	m.activeView = view
}

// Session is the authenticated session, zero until login succeeds.
func (m *Model) Session() models.Session {
	return m.session
}

func (m *Model) SetSession(s models.Session) {
	m.session = s
}

func (m *Model) Config() *config.Manager {
	return m.config
}

func (m *Model) Authenticator() *login.Authenticator {
	return m.auth
}

func (m *Model) Publisher() *publish.Publisher {
	return m.publisher
}

func (m *Model) Logger() *slog.Logger {
	return m.logger
}

// Context is cancelled when the program quits, aborting in-flight requests.
func (m *Model) Context() context.Context {
	return m.ctx
}

// SetTerminalSize ustawia wymiary terminala
func (m *Model) SetTerminalSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) GetTerminalSize() (int, int) {
	return m.width, m.height
}

func (m *Model) Layout() BaseLayout {
	return NewBaseLayout(m.width, m.height)
}

func (m *Model) SetQuitting(quitting bool) {
	m.quitting = quitting
	if quitting {
		m.cancel()
	}
}

func (m *Model) IsQuitting() bool {
	return m.quitting
}
