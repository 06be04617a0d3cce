package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"docpub/internal/config"
	"docpub/internal/crypto"
	"docpub/internal/docx"
	"docpub/internal/logging"
	"docpub/internal/login"
	"docpub/internal/preflight"
	"docpub/internal/publish"
	"docpub/internal/ui"
	"docpub/internal/ui/views"
	"docpub/internal/wordpress"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	configPath string
	site       string
	username   string
	kind       string
	timeout    int
	theme      string
	logFile    string
	logLevel   string
	noSanitize bool
	check      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("docpub", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docpub [flags]\n\nConvert a .docx document to HTML and publish it to WordPress.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVarP(&opts.configPath, "config", "c", "", "config file (default: user config dir)")
	fs.StringVar(&opts.site, "site", "", "pre-fill the site field")
	fs.StringVarP(&opts.username, "user", "u", "", "pre-fill the username field")
	fs.StringVarP(&opts.kind, "kind", "k", "", "default content type: post or page")
	fs.IntVar(&opts.timeout, "timeout", 0, "XML-RPC timeout in seconds")
	fs.StringVar(&opts.theme, "theme", "", "colour theme: "+strings.Join(ui.ThemeNames(), ", "))
	fs.StringVar(&opts.logFile, "log-file", "", "log file (default: user cache dir)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.noSanitize, "no-sanitize", false, "skip HTML sanitising of converted output")
	fs.BoolVar(&opts.check, "check", false, "run start-up checks and exit")
	fs.BoolVarP(&opts.version, "version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, fs, nil
}

// applyFlags copies the flags the user set over the loaded config.
func applyFlags(opts *options, fs *flag.FlagSet, cfg *config.Config) {
	if fs.Changed("site") {
		cfg.Site = opts.site
	}
	if fs.Changed("user") {
		cfg.Username = opts.username
	}
	if fs.Changed("kind") {
		cfg.Kind = opts.kind
	}
	if fs.Changed("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if fs.Changed("theme") {
		cfg.Theme = opts.theme
	}
	if fs.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noSanitize {
		cfg.SanitizeHTML = false
	}
}

type programModel struct {
	uiModel     *ui.Model
	currentView tea.Model
}

func newProgramModel(uiModel *ui.Model) *programModel {
	// Ustaw domyślny rozmiar terminala
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		uiModel.SetTerminalSize(w, h)
	}
	m := &programModel{uiModel: uiModel}
	m.updateCurrentView()
	return m
}

func (m *programModel) Init() tea.Cmd {
	return m.currentView.Init()
}

func (m *programModel) updateCurrentView() {
	switch m.uiModel.GetActiveView() {
	case ui.ViewPublish:
		m.currentView = views.NewPublishView(m.uiModel)
	default:
		m.currentView = views.NewLoginView(m.uiModel)
		m.uiModel.SetActiveView(ui.ViewLogin)
	}
}

func (m *programModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.uiModel.IsQuitting() {
		return m, tea.Quit
	}

	// Zapisz aktualny widok
	currentActiveView := m.uiModel.GetActiveView()

	var cmd tea.Cmd
	m.currentView, cmd = m.currentView.Update(msg)

	// Sprawdź czy zmienił się aktywny widok
	if currentActiveView != m.uiModel.GetActiveView() {
		m.updateCurrentView()
		return m, tea.Batch(cmd, m.currentView.Init())
	}
	return m, cmd
}

func (m *programModel) View() string {
	if m.uiModel.IsQuitting() {
		return "Goodbye!\n"
	}
	return m.currentView.View()
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintf(stdout, "docpub %s\n", version)
		return exitOK
	}

	cfgManager := config.NewManager(opts.configPath)
	configErr := cfgManager.Load()
	cfgManager.Override(func(c *config.Config) { applyFlags(opts, fs, c) })
	cfg := cfgManager.Config()
	if configErr == nil {
		configErr = cfg.Validate()
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = config.GetDefaultLogPath(); err != nil {
			logPath = config.DefaultLogFileName
		}
	}

	report := (&preflight.Checker{LogPath: logPath, ConfigErr: configErr}).Run()
	if opts.check {
		report.Print(stdout)
		if report.OK() {
			return exitOK
		}
		return exitError
	}
	if !report.OK() {
		report.Print(stderr)
		return exitError
	}

	logger, logFile, err := logging.Open(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	logger.Info("starting", "version", version, "config", cfgManager.Path())

	if cfg.Theme != "" && !ui.SetTheme(cfg.Theme) {
		logger.Warn("unknown theme", "theme", cfg.Theme, "available", ui.ThemeNames())
	}
	logger.Debug("theme selected", "theme", ui.CurrentTheme().Name)

	box, err := crypto.NewBox(rand.Reader)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	wpOpts := []wordpress.Option{
		wordpress.WithTimeout(cfg.Timeout()),
		wordpress.WithLogger(logger),
	}
	converter := docx.New(docx.Config{Sanitize: cfg.SanitizeHTML, Logger: logger})

	uiModel := ui.NewModel(ui.Deps{
		Config:        cfgManager,
		Authenticator: login.NewAuthenticator(login.WordPressProfilers(wpOpts...), box, logger),
		Publisher:     publish.New(converter, publish.WordPressClients(wpOpts...), logger),
		Logger:        logger,
	})
	defer uiModel.SetQuitting(true)

	p := tea.NewProgram(newProgramModel(uiModel), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("program failed", "error", err)
		fmt.Fprintf(stderr, "Error running program: %v\n", err)
		return exitError
	}
	logger.Info("exiting")
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
