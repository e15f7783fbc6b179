// Package tui provides the terminal user interface for parley.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/guilhermegouw/parley/internal/bridge"
	"github.com/guilhermegouw/parley/internal/config"
	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/pubsub"
	"github.com/guilhermegouw/parley/internal/recent"
	"github.com/guilhermegouw/parley/internal/tui/components/search"
	"github.com/guilhermegouw/parley/internal/tui/components/sidebar"
	"github.com/guilhermegouw/parley/internal/tui/page/chat"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

const (
	sidebarMaxWidth = 32
	// Below this width the sidebar is hidden.
	sidebarMinTotal = 70
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// RecentList provides the recent sessions shown in the sidebar.
type RecentList interface {
	List(ctx context.Context) ([]gateway.RecentSession, error)
	Cached() ([]gateway.RecentSession, bool)
}

// resultMsg carries the outcome of a controller task.
type resultMsg struct {
	result conversation.Result
}

// recentLoadedMsg carries a sidebar fetch.
type recentLoadedMsg struct {
	sessions []gateway.RecentSession
	err      error
}

// Model is the main TUI model.
type Model struct {
	ctx      context.Context
	ctrl     *conversation.Controller
	recent   RecentList
	initial  conversation.Navigation
	chatPage *chat.Model
	sidebar  *sidebar.Model
	search   *search.Dialog
	width    int
	height   int
	ready    bool
}

// New creates the TUI model. initial is the session shown first.
func New(ctx context.Context, ctrl *conversation.Controller, recentList RecentList, initial conversation.Navigation) *Model {
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		recent:   recentList,
		initial:  initial,
		chatPage: chat.New(),
		sidebar:  sidebar.New(),
		search:   search.New(),
	}
}

// Init navigates to the initial session and loads the sidebar.
func (m *Model) Init() tea.Cmd {
	task := m.ctrl.Navigate(m.initial)
	m.sync()
	return tea.Batch(m.chatPage.Init(), m.run(task), m.loadRecent())
}

// run executes a controller task off the update loop.
func (m *Model) run(task conversation.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{result: task(ctx)}
	}
}

func (m *Model) loadRecent() tea.Cmd {
	if m.recent == nil {
		return nil
	}
	ctx, list := m.ctx, m.recent
	return func() tea.Msg {
		sessions, err := list.List(ctx)
		return recentLoadedMsg{sessions: sessions, err: err}
	}
}

// sync pushes the controller state into the components.
func (m *Model) sync() {
	v := m.ctrl.Snapshot()
	m.chatPage.SetView(v)
	m.sidebar.SetCurrent(v.SessionID)
	m.search.SetView(v.Search)
}

// Update handles messages.
//
//nolint:gocyclo // TUI update handler requires handling many message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Eventf("tui", "WindowSize", "width=%d height=%d", msg.Width, msg.Height)
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateComponentSizes()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseWheelMsg:
		_, cmd := m.chatPage.Update(msg)
		return m, cmd

	case resultMsg:
		debug.Eventf("tui", "Result", "%T", msg.result)
		next := m.ctrl.Apply(msg.result)
		m.sync()
		return m, m.run(next)

	case recentLoadedMsg:
		if msg.err != nil {
			debug.Error("tui", msg.err, "loading recent sessions")
			m.sidebar.SetError(msg.err)
			return m, nil
		}
		m.sidebar.SetSessions(msg.sessions)
		return m, nil

	case bridge.RecentEventMsg:
		return m, m.handleRecentEvent(msg)

	case chat.SubmitMsg:
		task, err := m.ctrl.SubmitPrompt(msg.Content)
		if err != nil {
			return m, util.ReportWarn(err.Error())
		}
		m.chatPage.ClearInput()
		m.sync()
		return m, m.run(task)

	case sidebar.SelectedMsg:
		m.sidebar.Blur()
		return m, tea.Batch(m.chatPage.Focus(), m.navigate(conversation.Navigation{
			Route:     conversation.RouteSession,
			SessionID: msg.SessionID,
		}))

	case search.TriggerMsg:
		task := m.ctrl.TriggerSearch(msg.Query)
		m.sync()
		return m, m.run(task)

	case search.PickMsg:
		nav, ok := m.ctrl.SelectResult(msg.Index)
		if !ok {
			return m, nil
		}
		m.search.Close()
		return m, tea.Batch(m.chatPage.Focus(), m.navigate(nav))

	case search.DismissMsg:
		m.ctrl.DismissSearch()
		m.search.Close()
		m.sync()
		return m, m.chatPage.Focus()

	case util.InfoMsg:
		m.chatPage.SetInfo(msg)
		ttl := msg.TTL
		if ttl <= 0 {
			ttl = util.DefaultInfoTTL
		}
		return m, util.ClearAfter(ttl)

	case util.ClearInfoMsg:
		m.chatPage.ClearInfo()
		return m, nil
	}

	if m.ctrl.Snapshot().Search.Open {
		_, cmd := m.search.Update(msg)
		return m, cmd
	}
	_, cmd := m.chatPage.Update(msg)
	return m, cmd
}

func (m *Model) navigate(nav conversation.Navigation) tea.Cmd {
	debug.Eventf("tui", "Navigate", "route=%s session=%s", nav.Route, nav.SessionID)
	task := m.ctrl.Navigate(nav)
	m.sync()
	return m.run(task)
}

func (m *Model) handleRecentEvent(msg bridge.RecentEventMsg) tea.Cmd {
	switch {
	case msg.Refreshed() && m.recent != nil:
		if sessions, ok := m.recent.Cached(); ok {
			m.sidebar.SetSessions(sessions)
		}
	case msg.Err() != nil:
		m.sidebar.SetError(msg.Err())
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	debug.Eventf("tui", "KeyMsg", "key=%q", key)

	if key == keyQuit {
		return tea.Quit
	}

	if m.ctrl.Snapshot().Search.Open {
		_, cmd := m.search.Update(msg)
		return cmd
	}

	switch key {
	case keyNew:
		m.sidebar.Blur()
		return tea.Batch(m.chatPage.Focus(), m.navigate(conversation.Navigation{Route: conversation.RouteNew}))
	case keyEnd:
		return m.endSession()
	case keySearch:
		m.ctrl.OpenSearch()
		m.chatPage.Blur()
		m.sidebar.Blur()
		m.sync()
		return m.search.Open()
	case keyCopy:
		return m.copyLast()
	case keyRefresh:
		return tea.Batch(m.navigateRefresh(), m.loadRecent())
	case keyFocus:
		return m.toggleFocus()
	case keyDismiss:
		if m.ctrl.Snapshot().Failure != nil {
			m.ctrl.DismissFailure()
			m.sync()
		}
		return nil
	case keyPageUp, keyPageDown:
		_, cmd := m.chatPage.Update(msg)
		return cmd
	}

	if m.sidebar.Focused() {
		_, cmd := m.sidebar.Update(msg)
		return cmd
	}
	_, cmd := m.chatPage.Update(msg)
	return cmd
}

func (m *Model) navigateRefresh() tea.Cmd {
	task := m.ctrl.Refresh()
	m.sync()
	return m.run(task)
}

func (m *Model) endSession() tea.Cmd {
	if !m.ctrl.CanEnd() {
		return util.ReportWarn("Nothing to end yet.")
	}
	task, err := m.ctrl.EndSession()
	if err != nil {
		return util.ReportWarn(err.Error())
	}
	m.sync()
	return m.run(task)
}

func (m *Model) toggleFocus() tea.Cmd {
	if !m.sidebarVisible() {
		return nil
	}
	if m.sidebar.Focused() {
		m.sidebar.Blur()
		return m.chatPage.Focus()
	}
	m.chatPage.Blur()
	m.sidebar.Focus()
	return nil
}

// copyLast copies the summary of an ended session, or the newest reply.
func (m *Model) copyLast() tea.Cmd {
	v := m.ctrl.Snapshot()

	text, what := "", ""
	if v.Ended() && v.HasSummary {
		text, what = v.Summary, "summary"
	} else if reply, ok := v.LastReply(); ok {
		text, what = reply, "reply"
	}
	if text == "" {
		return util.ReportWarn("Nothing to copy.")
	}

	if err := copyToClipboard(text); err != nil {
		debug.Error("tui", err, "copying to clipboard")
		return util.ReportWarn("Clipboard unavailable: " + err.Error())
	}
	return util.ReportInfo("Copied " + what + " to clipboard.")
}

func (m *Model) sidebarVisible() bool {
	return m.width >= sidebarMinTotal
}

func (m *Model) sidebarWidth() int {
	if !m.sidebarVisible() {
		return 0
	}
	return min(sidebarMaxWidth, m.width/4)
}

func (m *Model) updateComponentSizes() {
	sw := m.sidebarWidth()
	if sw == 0 && m.sidebar.Focused() {
		m.sidebar.Blur()
		m.chatPage.Focus()
	}
	m.sidebar.SetSize(sw, m.height)
	m.chatPage.SetSize(m.width-sw, m.height)
	m.search.SetWidth(m.width)
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	if m.ctrl.Snapshot().Search.Open {
		dialog := m.search.View()
		view.Content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
		if c := m.search.Cursor(); c != nil {
			c.X += max((m.width-lipgloss.Width(dialog))/2, 0)
			c.Y += max((m.height-lipgloss.Height(dialog))/2, 0)
			view.Cursor = c
		}
		return view
	}

	content := m.chatPage.View()
	sw := m.sidebarWidth()
	if sw > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), content)
	}
	view.Content = content

	if c := m.chatPage.Cursor(); c != nil && !m.sidebar.Focused() {
		c.X += sw
		view.Cursor = c
	}
	return view
}

// Run starts the TUI against the gateway. sessionID selects the session
// shown first; an empty id starts a new one.
func Run(cfg *config.Config, gw gateway.Gateway, sessionID string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("parley requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	cache := recent.New(gw, hub.Recent, cfg.Recent.TTL())
	cache.Start(ctx)

	ctrl := conversation.New(gw,
		conversation.WithInvalidator(cache),
		conversation.WithSearchLimit(cfg.Search.Limit),
	)

	initial := conversation.Navigation{Route: conversation.RouteRoot}
	if sessionID != "" {
		initial = conversation.Navigation{Route: conversation.RouteSession, SessionID: sessionID}
	}

	model := New(ctx, ctrl, cache, initial)
	// In Bubble Tea v2, AltScreen and MouseMode are set in View()
	p := tea.NewProgram(model)

	tuiBridge := bridge.NewTUIBridge(hub, p)
	tuiBridge.Start(ctx)
	defer tuiBridge.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
