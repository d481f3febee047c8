// Package tui is the terminal control surface for a poker room: a table view
// fed by session events and keyboard controls for the viewer's action window.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pokerroom/internal/action"
	"github.com/lox/pokerroom/internal/protocol"
	"github.com/lox/pokerroom/internal/session"
)

const (
	paneControls = iota
	paneLog
)

// maxLogEntries bounds the event log kept in the viewport
const maxLogEntries = 500

// Table is the session state the model draws and acts on
type Table interface {
	Snapshot() session.Table
	Controller() *action.Controller
}

// SessionMsg delivers a session event to the program
type SessionMsg session.Event

// QuitMsg asks the program to exit, optionally showing a reason
type QuitMsg struct {
	Reason string
}

// Options configures the model
type Options struct {
	Theme    string
	TestMode bool
}

// Model is the Bubble Tea model for one room
type Model struct {
	table  Table
	logger *log.Logger
	styles Styles

	logViewport viewport.Model
	raiseInput  textinput.Model

	snapshot    session.Table
	eventLog    []string
	status      string
	statusIsErr bool
	raising     bool
	focusedPane int
	quitting    bool
	quitReason  string

	width       int
	height      int
	initialized bool

	testMode    bool
	capturedLog []string
}

// New creates a model drawing the given table
func New(table Table, logger *log.Logger, opts Options) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "raise amount"
	ti.CharLimit = 12
	ti.Width = 14
	ti.Prompt = "Raise: "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		styles:      StylesFor(opts.Theme),
		logViewport: vp,
		raiseInput:  ti,
		snapshot:    table.Snapshot(),
		focusedPane: paneControls,
		testMode:    opts.TestMode,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		m.quitReason = msg.Reason
		return m, tea.Quit

	case SessionMsg:
		m.handleSession(session.Event(msg))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		}

		if m.focusedPane == paneControls {
			if m.raising {
				return m, m.handleRaiseKey(msg)
			}
			return m, m.handleControlKey(msg)
		}

	default:
		if m.raising {
			var cmd tea.Cmd
			m.raiseInput, cmd = m.raiseInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Scrolling keys reach the viewport only while the log pane is focused
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) toggleFocus() {
	if m.focusedPane == paneControls {
		m.focusedPane = paneLog
		m.raiseInput.Blur()
		return
	}
	m.focusedPane = paneControls
	if m.raising {
		m.raiseInput.Focus()
	}
}

func (m *Model) handleControlKey(msg tea.KeyMsg) tea.Cmd {
	controller := m.table.Controller()

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return tea.Quit
	case "f":
		m.act("Fold", controller.Fold())
	case "k":
		m.act("Check", controller.Check())
	case "c":
		e, ok := controller.Eligibility()
		label := "Call"
		if ok {
			label = e.Call.Label()
		}
		m.act(label, controller.Call())
	case "r":
		e, ok := controller.Eligibility()
		switch {
		case !ok:
			m.setError("Not your turn")
		case !e.CanRaise:
			m.setError("Raise is not available")
		default:
			m.raising = true
			m.raiseInput.SetValue(strconv.Itoa(e.Raise.Min))
			m.raiseInput.CursorEnd()
			m.setStatus(fmt.Sprintf("Raise between %d and %d, enter to confirm", e.Raise.Min, e.Raise.Max))
			return m.raiseInput.Focus()
		}
	}
	return nil
}

func (m *Model) handleRaiseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopRaising()
		m.setStatus("")
		return nil
	case "enter":
		m.submitRaise()
		return nil
	}

	var cmd tea.Cmd
	m.raiseInput, cmd = m.raiseInput.Update(msg)
	return cmd
}

func (m *Model) submitRaise() {
	value := strings.TrimSpace(m.raiseInput.Value())
	amount, err := strconv.Atoi(value)
	if err != nil {
		m.setError("Raise amount must be a number")
		return
	}

	err = m.table.Controller().Raise(amount)
	var rangeErr *action.RaiseRangeError
	if errors.As(err, &rangeErr) {
		// The window stays open so the viewer can correct the amount
		m.setError(fmt.Sprintf("Invalid raise amount. Amount must be between %d and %d.", rangeErr.Range.Min, rangeErr.Range.Max))
		return
	}

	m.stopRaising()
	m.act(fmt.Sprintf("Raise %d", amount), err)
}

func (m *Model) stopRaising() {
	m.raising = false
	m.raiseInput.Blur()
	m.raiseInput.SetValue("")
}

// act reports the outcome of a control
func (m *Model) act(label string, err error) {
	switch {
	case err == nil:
		m.setStatus(label + " sent")
		m.AddLogEntry("You: " + label)
	case errors.Is(err, action.ErrNotArmed):
		m.setError("Not your turn")
	case errors.Is(err, action.ErrIneligible):
		m.setError(label + " is not available")
	default:
		m.logger.Error("Failed to send action", "action", label, "error", err)
		m.setError("Could not send action: " + err.Error())
	}
	m.snapshot = m.table.Snapshot()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsErr = true
}

func (m *Model) handleSession(e session.Event) {
	m.snapshot = m.table.Snapshot()
	if m.raising && !m.table.Controller().Armed() {
		m.stopRaising()
		m.setStatus("")
	}

	switch e.Kind {
	case session.EventTurn:
		m.stopRaising()
		m.setStatus("")
		if el, ok := m.table.Controller().Eligibility(); ok {
			m.AddLogEntry("Your turn: " + el.Call.Label())
		}
	case session.EventNotice:
		m.AddLogEntry(e.Notice)
	case session.EventDisconnected:
		if e.Notice != "" {
			m.setError(e.Notice)
			m.AddLogEntry(e.Notice)
		}
	default:
		if entry := m.describe(e.Type); entry != "" {
			m.AddLogEntry(entry)
		}
	}
}

// describe turns a table update into a log line; most updates only redraw
func (m *Model) describe(t protocol.MessageType) string {
	s := m.snapshot
	switch t {
	case protocol.TypeInitParticipant, protocol.TypeInitObserver:
		return fmt.Sprintf("Joined room %s as %s (%d players)", s.Room, s.Role, s.PlayerCount)
	case protocol.TypeDealtCards:
		if own, ok := s.Seat(0); ok && own.Viewer && len(own.Cards) > 0 {
			return "Dealt " + plainCards(own.Cards)
		}
		return "Cards dealt"
	case protocol.TypeBoardCards:
		return "Board: " + plainCards(s.Board)
	case protocol.TypePlayerTurn:
		if s.Acting != "" {
			return "Waiting for " + s.Acting
		}
	case protocol.TypeShowdown:
		return "Showdown"
	case protocol.TypeReset:
		return "New hand"
	}
	return ""
}

// AddLogEntry adds an entry to the event log
func (m *Model) AddLogEntry(entry string) {
	m.eventLog = append(m.eventLog, entry)
	if len(m.eventLog) > maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-maxLogEntries:]
	}

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.eventLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// Status returns the inline status line and whether it reports an error
func (m *Model) Status() (string, bool) {
	return m.status, m.statusIsErr
}

// Raising reports whether the raise input is open
func (m *Model) Raising() bool {
	return m.raising
}

// QuitReason returns the reason passed with QuitMsg
func (m *Model) QuitReason() string {
	return m.quitReason
}

// Forward returns a session listener that delivers events to a running program
func Forward(p *tea.Program) func(session.Event) {
	return func(e session.Event) {
		p.Send(SessionMsg(e))
	}
}
