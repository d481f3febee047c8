package tui

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerroom/internal/protocol"
	"github.com/lox/pokerroom/internal/session"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type recordingSender struct {
	mu   sync.Mutex
	sent []protocol.Message
	err  error
}

func (r *recordingSender) Send(msg protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.sent...)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestModel wires a session straight into a test mode model
func newTestModel(t *testing.T, role session.Role) (*Model, *session.Session, *recordingSender) {
	t.Helper()

	sender := &recordingSender{}
	sess, err := session.New(session.Options{
		Room:       "7",
		Role:       role,
		MaxPlayers: 6,
		Sender:     sender,
		Logger:     quietLogger(),
	})
	require.NoError(t, err)

	m := New(sess, quietLogger(), Options{TestMode: true})
	sess.Subscribe(func(e session.Event) { m.Update(SessionMsg(e)) })
	return m, sess, sender
}

func seat(t *testing.T, sess *session.Session) {
	t.Helper()
	require.NoError(t, sess.Apply(&protocol.InitParticipant{
		YourPosition: 1,
		Players: map[int]protocol.PlayerInfo{
			0: {Username: "alice", ChipCount: 1000},
			1: {Username: "bob", ChipCount: 500},
		},
	}))
}

func press(m *Model, key string) {
	switch key {
	case "enter":
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	default:
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func TestTestModeCapturesLog(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m, sess, _ := newTestModel(t, session.RoleParticipant)
		assert.Empty(t, m.GetCapturedLog())

		seat(t, sess)
		require.NoError(t, sess.Apply(&protocol.PlayerTurn{Username: "alice"}))
		require.NoError(t, sess.Apply(&protocol.RoundWinner{WinnerPositions: []int{0}, AmountWon: 40}))

		assert.Equal(t, []string{
			"Joined room 7 as participant (2 players)",
			"Waiting for alice",
			"alice won 40",
		}, m.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		sess, err := session.New(session.Options{Role: session.RoleObserver, MaxPlayers: 6, Sender: &recordingSender{}})
		require.NoError(t, err)
		m := New(sess, quietLogger(), Options{})

		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestCallAllIn(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)

	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 600, PlayerBet: 0, ChipCount: 500, Pot: 600}))
	assert.Contains(t, m.GetCapturedLog(), "Your turn: All in (500)")

	press(m, "k")
	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Check is not available", status)
	assert.Empty(t, sender.messages())

	press(m, "c")
	require.Equal(t, []protocol.Message{protocol.Call(500)}, sender.messages())
	status, isErr = m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "All in (500) sent", status)

	press(m, "f")
	status, _ = m.Status()
	assert.Equal(t, "Not your turn", status)
	assert.Len(t, sender.messages(), 1, "one action per turn")
}

func TestRaiseInput(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 100, PlayerBet: 100, ChipCount: 500}))

	press(m, "r")
	require.True(t, m.Raising())
	assert.Equal(t, "101", m.raiseInput.Value(), "prefilled with the minimum raise")

	m.raiseInput.SetValue("100")
	press(m, "enter")
	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Invalid raise amount. Amount must be between 101 and 500.", status)
	assert.True(t, m.Raising(), "input stays open for a correction")
	assert.Empty(t, sender.messages())

	m.raiseInput.SetValue("lots")
	press(m, "enter")
	status, _ = m.Status()
	assert.Equal(t, "Raise amount must be a number", status)
	assert.Empty(t, sender.messages())

	m.raiseInput.SetValue("250")
	press(m, "enter")
	assert.False(t, m.Raising())
	assert.Equal(t, []protocol.Message{protocol.Raise(250)}, sender.messages())
	assert.Contains(t, m.GetCapturedLog(), "You: Raise 250")
}

func TestRaiseUnavailable(t *testing.T) {
	m, sess, _ := newTestModel(t, session.RoleParticipant)
	seat(t, sess)

	press(m, "r")
	status, _ := m.Status()
	assert.Equal(t, "Not your turn", status)

	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 600, ChipCount: 500}))
	press(m, "r")
	status, _ = m.Status()
	assert.Equal(t, "Raise is not available", status)
	assert.False(t, m.Raising())
}

func TestEscCancelsRaise(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 0, ChipCount: 500}))

	press(m, "r")
	press(m, "esc")
	assert.False(t, m.Raising())
	assert.True(t, sess.Controller().Armed())

	press(m, "k")
	assert.Equal(t, []protocol.Message{protocol.Call(0)}, sender.messages())
}

func TestClosedWindowCancelsRaise(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 0, ChipCount: 500}))

	press(m, "r")
	require.True(t, m.Raising())

	require.NoError(t, sess.Apply(&protocol.Reset{}))
	assert.False(t, m.Raising(), "raise input closes with the action window")
	status, _ := m.Status()
	assert.Empty(t, status)

	press(m, "enter")
	assert.Empty(t, sender.messages())
}

func TestSendFailureIsReported(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 0, ChipCount: 500}))

	sender.err = errors.New("send buffer full")
	press(m, "f")
	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "send buffer full")
	assert.True(t, sess.Controller().Armed())
}

func TestTabMovesFocusToLog(t *testing.T) {
	m, sess, sender := newTestModel(t, session.RoleParticipant)
	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 0, ChipCount: 500}))

	press(m, "tab")
	press(m, "f")
	assert.Empty(t, sender.messages(), "controls ignore keys while the log is focused")

	press(m, "tab")
	press(m, "f")
	assert.Len(t, sender.messages(), 1)
}

func TestDisconnectShowsNotice(t *testing.T) {
	m, sess, _ := newTestModel(t, session.RoleParticipant)
	seat(t, sess)

	sess.Disconnected("Websocket connection failed")
	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Equal(t, "Websocket connection failed", status)
	assert.Contains(t, m.GetCapturedLog(), "Websocket connection failed")
}

func TestView(t *testing.T) {
	m, sess, _ := newTestModel(t, session.RoleParticipant)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 110, Height: 30})
	assert.Contains(t, m.View(), "Waiting for a seat...")

	seat(t, sess)
	require.NoError(t, sess.Apply(&protocol.DealtCards{
		Cards:           []string{"Ace of Hearts", "King of Spades"},
		ActivePositions: []int{0, 1},
	}))
	require.NoError(t, sess.Apply(&protocol.BoardCards{Cards: []string{"2 of Clubs", "7 of Diamonds", "Jack of Spades"}}))
	require.NoError(t, sess.Apply(&protocol.YourTurn{CurrentBet: 600, ChipCount: 500, Pot: 620}))

	view := m.View()
	assert.Contains(t, view, "Room 7")
	assert.Contains(t, view, "0  bob (you)  500  [A♥ K♠]")
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "[?? ??]")
	assert.Contains(t, view, "Board: [2♣ 7♦ J♠]")
	assert.Contains(t, view, "Pot: 620")
	assert.Contains(t, view, "[c] All in (500)")
	assert.Contains(t, view, "[r] Raise")
	assert.Contains(t, view, "Dealt [A♥ K♠]")
}

func TestObserverView(t *testing.T) {
	m, sess, _ := newTestModel(t, session.RoleObserver)
	m.Update(tea.WindowSizeMsg{Width: 110, Height: 30})

	require.NoError(t, sess.Apply(&protocol.InitObserver{Players: map[int]protocol.PlayerInfo{
		3: {Username: "carol", ChipCount: 750},
	}}))

	view := m.View()
	assert.Contains(t, view, "(watching)")
	assert.Contains(t, view, "3  carol  750")
	assert.NotContains(t, view, "Actions:")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, session.RoleObserver)

	_, cmd := m.Update(QuitMsg{Reason: "Websocket connection failed"})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Websocket connection failed\n", m.View())
}

func TestStylesForUnknownTheme(t *testing.T) {
	assert.Equal(t, StylesFor("default"), StylesFor("neon"))
	for _, theme := range Themes {
		assert.NotPanics(t, func() { StylesFor(theme) })
	}
}
