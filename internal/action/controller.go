package action

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"

	"github.com/lox/pokerroom/internal/protocol"
)

// Controller states
const (
	StateIdle     = "idle"
	StateAwaiting = "awaiting_action"
	StateSent     = "action_sent"
)

const (
	eventArm   = "arm"
	eventSend  = "send"
	eventReset = "reset"
)

// Sender delivers outbound messages to the room server
type Sender interface {
	Send(msg protocol.Message) error
}

// SenderFunc adapts a function to a Sender
type SenderFunc func(protocol.Message) error

func (f SenderFunc) Send(msg protocol.Message) error { return f(msg) }

// Controller holds the viewer's action window for the current turn. Each
// your_turn arms it, and exactly one action may be sent before the next one.
type Controller struct {
	mu     sync.Mutex
	sm     *fsm.FSM
	sender Sender
	logger *log.Logger

	turn        TurnContext
	eligibility Eligibility
	turns       int
}

// NewController creates an idle controller that sends through sender
func NewController(sender Sender, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		sender: sender,
		logger: logger.WithPrefix("action"),
	}

	c.sm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventArm, Src: []string{StateIdle, StateSent}, Dst: StateAwaiting},
			{Name: eventSend, Src: []string{StateAwaiting}, Dst: StateSent},
			{Name: eventReset, Src: []string{StateAwaiting, StateSent}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				c.logger.Debug("Action window", "from", e.Src, "to", e.Dst, "turn", c.turns)
			},
		},
	)

	return c
}

// Arm opens a window for a new turn, replacing whatever the previous turn left behind
func (c *Controller) Arm(tc TurnContext) Eligibility {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()

	c.turns++
	c.turn = tc
	c.eligibility = Evaluate(tc)
	c.event(eventArm)

	return c.eligibility
}

// Reset closes any open window without sending
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	if !c.sm.Is(StateIdle) {
		c.event(eventReset)
	}
	c.turn = TurnContext{}
	c.eligibility = Eligibility{}
}

// State returns the current window state
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sm.Current()
}

// Armed reports whether an action may be sent now
func (c *Controller) Armed() bool {
	return c.State() == StateAwaiting
}

// Eligibility returns the actions of the open window. ok is false when no window is open.
func (c *Controller) Eligibility() (e Eligibility, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sm.Is(StateAwaiting) {
		return Eligibility{}, false
	}
	return c.eligibility, true
}

// Turn returns the context of the current or last armed turn
func (c *Controller) Turn() TurnContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

// Fold sends a fold
func (c *Controller) Fold() error {
	return c.submit("fold", func(e Eligibility) (protocol.Message, error) {
		return protocol.Fold(), nil
	})
}

// Check sends a zero-amount call. It is only allowed when nothing is owed.
func (c *Controller) Check() error {
	return c.submit("check", func(e Eligibility) (protocol.Message, error) {
		if !e.Check {
			return nil, fmt.Errorf("check: %w", ErrIneligible)
		}
		return protocol.Call(0), nil
	})
}

// Call sends a call for the amount owed, or the whole stack when short
func (c *Controller) Call() error {
	return c.submit("call", func(e Eligibility) (protocol.Message, error) {
		return protocol.Call(e.Call.Amount), nil
	})
}

// Raise sends a raise. Amounts outside the turn's range are rejected without
// sending and the window stays open.
func (c *Controller) Raise(amount int) error {
	return c.submit("raise", func(e Eligibility) (protocol.Message, error) {
		if err := e.ValidateRaise(amount); err != nil {
			return nil, err
		}
		return protocol.Raise(amount), nil
	})
}

func (c *Controller) submit(name string, build func(Eligibility) (protocol.Message, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sm.Is(StateAwaiting) {
		c.logger.Debug("Ignoring action outside window", "action", name, "state", c.sm.Current())
		return ErrNotArmed
	}

	msg, err := build(c.eligibility)
	if err != nil {
		c.logger.Info("Rejected action", "action", name, "error", err)
		return err
	}

	if err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}

	c.event(eventSend)
	c.logger.Info("Sent action", "action", name, "turn", c.turns)
	return nil
}

func (c *Controller) event(name string) {
	if err := c.sm.Event(name); err != nil {
		c.logger.Warn("Error from state machine", "event", name, "error", err)
	}
}
