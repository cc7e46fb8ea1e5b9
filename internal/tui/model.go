package tui

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/popover/internal/display"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/hover"
	"github.com/jmylchreest/popover/internal/journal"
	"github.com/jmylchreest/popover/internal/layout"
	"github.com/jmylchreest/popover/internal/pointer"
	"github.com/jmylchreest/popover/internal/popover"
)

// canvasTop is the first terminal row of the scene; row 0 is the header.
const canvasTop = 1

// scrollRows is how many rows one scroll key press moves the document.
const scrollRows = 3

// Options configures the TUI host.
type Options struct {
	Scene       *layout.Scene
	Placement   display.Placement
	Display     display.Options
	PanelWidth  float64
	PanelHeight float64
	CellWidth   int // Pixels per terminal column
	CellHeight  int // Pixels per terminal row

	// Hover options passed to each popover's tracker (classifier, timings).
	// The pointer stream is always the host's own.
	Hover []hover.Option

	Logger    *slog.Logger
	WatchPath string // Scene file to watch for changes (empty = no watching)

	// Journal records each finished hover session. May be nil.
	Journal *journal.Journal
	// Now stamps journal entries. Defaults to time.Now.
	Now func() time.Time
}

// Close reasons recorded for closes the popover did not request.
const (
	closedToggled = "toggled"
	closedQuit    = "quit"
	closedReload  = "reload"
)

// CloseRequestMsg is posted when the popover asks to be closed. Session is
// the tracker session that was active when the request was made.
type CloseRequestMsg struct {
	Session string
	Reason  popover.Reason
	At      geom.Point
}

// SceneReloadedMsg replaces the scene, rebuilding the popover on it.
type SceneReloadedMsg struct {
	Scene *layout.Scene
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// poster forwards messages from callbacks to the running program.
type poster struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (p *poster) set(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

func (p *poster) post(msg tea.Msg) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Model is the main TUI model.
type Model struct {
	opts   Options
	logger *slog.Logger
	out    *poster

	scene   *layout.Scene
	bus     *pointer.Bus
	ctrl    *popover.Controller
	session string

	keys KeyMap
	help help.Model

	width  int
	height int
	ready  bool

	pointer    geom.Point
	hasPointer bool

	statusMsg string
	statusErr bool
}

// New creates a TUI model with a closed popover on the scene's anchor.
func New(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		opts:   opts,
		logger: opts.Logger,
		out:    &poster{},
		bus:    pointer.NewBus(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	ctrl, err := m.newController(opts.Scene)
	if err != nil {
		return Model{}, err
	}
	m.scene = opts.Scene
	m.ctrl = ctrl
	return m, nil
}

func (m Model) newController(scene *layout.Scene) (*popover.Controller, error) {
	if scene == nil {
		return nil, fmt.Errorf("no scene")
	}
	var ctrl *popover.Controller
	hoverOpts := append(append([]hover.Option{}, m.opts.Hover...), hover.WithStream(m.bus))
	ctrl, err := popover.New(popover.Config{
		Anchor:      scene.Anchor(),
		Parent:      scene.Parent(),
		Viewport:    scene.Document,
		Placement:   m.opts.Placement,
		Display:     m.opts.Display,
		PanelWidth:  m.opts.PanelWidth,
		PanelHeight: m.opts.PanelHeight,
	}, func(reason popover.Reason, at geom.Point) {
		var id string
		if s := ctrl.Tracker().Session(); s != nil {
			id = s.ID
		}
		m.out.post(CloseRequestMsg{Session: id, Reason: reason, At: at})
	}, m.logger, hoverOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create popover for scene %s: %w", scene.Name, err)
	}
	return ctrl, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case CloseRequestMsg:
		if msg.Session != m.session || !m.ctrl.IsOpen() {
			m.logger.Debug("ignoring stale close request", "session", msg.Session, "current", m.session)
			return m, nil
		}
		m.closePopover(msg.Reason.String())
		return m, status(fmt.Sprintf("closed: %s at %s", msg.Reason, msg.At), false)

	case SceneReloadedMsg:
		return m.replaceScene(msg.Scene)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closePopover(closedQuit)
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		if m.ctrl.IsOpen() {
			m.closePopover(closedToggled)
		} else {
			m.openPopover()
		}
	case key.Matches(msg, m.keys.ScrollUp):
		m.scroll(-scrollRows)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scroll(scrollRows)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := msg.Y - canvasTop
	if row < 0 {
		return m, nil
	}
	p := m.canvas(0, 0).center(msg.X, row)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.pointer, m.hasPointer = p, true
		m.bus.Publish(p)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer, m.hasPointer = p, true
			m.ctrl.OutsideClick(p)
		}
	}
	return m, nil
}

func (m *Model) openPopover() {
	m.ctrl.Open()
	m.session = ""
	if s := m.ctrl.Tracker().Session(); s != nil {
		m.session = s.ID
	}
}

// closePopover closes the popover and journals the session it ends.
func (m *Model) closePopover(reason string) {
	open := m.ctrl.IsOpen()
	session := m.ctrl.Tracker().Session()
	m.ctrl.Close()
	m.session = ""

	if !open || session == nil || m.opts.Journal == nil {
		return
	}
	entry := journal.Entry{
		Session:    session.ID,
		Scene:      m.scene.Name,
		Anchor:     m.ctrl.Anchor().ID,
		Placement:  string(m.ctrl.Geometry().Placement),
		OpenedAt:   session.StartedAt,
		ClosedAt:   m.opts.Now(),
		Reason:     reason,
		Samples:    session.Samples,
		Checks:     session.Checks,
		Dismissals: session.Dismissals,
	}
	if err := m.opts.Journal.Append(entry); err != nil {
		m.logger.Warn("failed to journal session", "session", session.ID, "error", err)
	}
}

func (m *Model) scroll(rows int) {
	doc := m.scene.Document
	top := doc.ScrollTop() + float64(rows*m.opts.CellHeight)
	if top < 0 {
		top = 0
	}
	doc.ScrollTo(doc.ScrollLeft(), top)
	m.ctrl.Invalidate()
}

func (m Model) replaceScene(scene *layout.Scene) (tea.Model, tea.Cmd) {
	ctrl, err := m.newController(scene)
	if err != nil {
		return m, status("Reload failed: "+err.Error(), true)
	}
	wasOpen := m.ctrl.IsOpen()
	m.closePopover(closedReload)

	m.scene = scene
	m.ctrl = ctrl
	if wasOpen {
		m.openPopover()
	}
	m.logger.Debug("scene reloaded", "scene", scene.Name)
	return m, status("Scene reloaded", false)
}

// Close stops tracking and unmounts the popover.
func (m Model) Close() {
	m.closePopover(closedQuit)
}

// Controller returns the popover controller for the current scene.
func (m Model) Controller() *popover.Controller {
	return m.ctrl
}

func (m Model) canvas(cols, rows int) *canvas {
	return newCanvas(cols, rows, float64(m.opts.CellWidth), float64(m.opts.CellHeight))
}

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	footer := m.renderFooter()
	rows := m.height - canvasTop - lipgloss.Height(footer)
	if rows < 0 {
		rows = 0
	}
	c := m.canvas(m.width, rows)
	m.draw(c)

	return m.renderHeader() + "\n" + c.render() + "\n" + footer
}

func (m Model) draw(c *canvas) {
	if region, ok := m.ctrl.HitRegion(); ok {
		c.fill(region, '░', kindRegion)
	}
	anchor := m.scene.Anchor()
	for _, n := range m.scene.Boxes() {
		r := m.scene.Document.Resolve(n)
		if n == anchor {
			c.outline(r, kindAnchor, n.ID)
			continue
		}
		c.outline(r, kindBox, n.ID)
	}
	if m.ctrl.IsOpen() {
		panel := m.ctrl.Panel()
		c.fill(panel, ' ', kindPanel)
		x0, y0, x1, _, ok := c.cellRange(panel)
		if ok {
			c.label(x0+1, y0, x1-x0-1, "popover", kindPanel)
		}
	}
	if m.hasPointer {
		x0, y0, _, _, ok := c.cellRange(geom.Rect{X: m.pointer.X, Y: m.pointer.Y, Width: 1, Height: 1})
		if ok {
			c.set(x0, y0, '+', kindPointer)
		}
	}
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	state := "closed"
	if m.ctrl.IsOpen() {
		state = "open"
	}
	s := titleStyle.Render("popover") + " " + labelStyle.Render("scene") + " " + m.scene.Name +
		"  " + labelStyle.Render("state") + " " + state
	if region, ok := m.ctrl.HitRegion(); ok {
		s += "  " + labelStyle.Render("hit-region") + " " + region.String()
	}
	return s
}

func (m Model) renderFooter() string {
	var s string
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s = statusStyle.Render(m.statusMsg)
	}
	return s + "\n" + m.help.View(m.keys)
}

// Run starts the TUI with the given options.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	// Callbacks may fire on the event loop itself (outside clicks), so
	// sends never block the caller.
	m.out.set(func(msg tea.Msg) { go p.Send(msg) })

	var watcher *layout.FileWatcher
	if opts.WatchPath != "" {
		watcher, err = layout.NewFileWatcher(opts.WatchPath, func(s *layout.Scene) {
			p.Send(SceneReloadedMsg{Scene: s})
		}, m.logger)
		if err != nil {
			m.logger.Warn("failed to create scene watcher", "path", opts.WatchPath, "error", err)
		} else if err := watcher.Start(); err != nil {
			m.logger.Warn("failed to start scene watcher", "path", opts.WatchPath, "error", err)
		}
	}

	final, err := p.Run()

	if watcher != nil {
		watcher.Stop()
	}
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	return err
}
