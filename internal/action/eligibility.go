// Package action decides which betting actions the viewer may take on a turn
// and guards the one-action-per-turn rule.
package action

import (
	"errors"
	"fmt"
)

var (
	// ErrNotArmed is returned when an action is attempted with no open turn window.
	ErrNotArmed = errors.New("no action window open")

	// ErrIneligible is returned for an action the current turn does not allow.
	ErrIneligible = errors.New("action not available this turn")
)

// TurnContext is the snapshot delivered with your_turn
type TurnContext struct {
	CurrentBet int
	PlayerBet  int
	ChipCount  int
	Pot        int
}

// Owed returns the chips needed to match the current bet
func (tc TurnContext) Owed() int {
	if owed := tc.CurrentBet - tc.PlayerBet; owed > 0 {
		return owed
	}
	return 0
}

// CallOption describes the call button for a turn
type CallOption struct {
	Amount int
	AllIn  bool
}

// Label returns the text shown on the call control
func (c CallOption) Label() string {
	if c.AllIn {
		return fmt.Sprintf("All in (%d)", c.Amount)
	}
	if c.Amount == 0 {
		return "Call"
	}
	return fmt.Sprintf("Call %d", c.Amount)
}

// RaiseRange is the inclusive range of legal raise amounts
type RaiseRange struct {
	Min int
	Max int
}

// Contains reports whether amount is a legal raise
func (r RaiseRange) Contains(amount int) bool {
	return amount >= r.Min && amount <= r.Max
}

// Eligibility lists the actions available for one turn
type Eligibility struct {
	Fold     bool
	Check    bool
	Call     CallOption
	CanRaise bool
	Raise    RaiseRange
}

// Evaluate computes the actions available for a turn context.
//
// Check needs nothing owed. Call is always offered, falling back to an all-in
// for the remaining stack when it cannot cover the amount owed. Raise needs
// strictly more chips than a call. A raise has to beat both the amount owed
// and the bet on the table, capped at the stack: [max(owed, bet)+1, stack].
func Evaluate(tc TurnContext) Eligibility {
	owed := tc.Owed()
	chips := tc.ChipCount
	if chips < 0 {
		chips = 0
	}

	e := Eligibility{
		Fold:  true,
		Check: tc.CurrentBet == tc.PlayerBet,
	}

	if chips >= owed {
		e.Call = CallOption{Amount: owed}
	} else {
		e.Call = CallOption{Amount: chips, AllIn: true}
	}

	if chips > owed {
		// An opening raise on a matched bet has to top the table bet
		floor := owed + 1
		if owed == 0 {
			floor = tc.CurrentBet + 1
		}
		e.CanRaise = true
		e.Raise = RaiseRange{Min: min(floor, chips), Max: chips}
	}

	return e
}

// RaiseRangeError is returned for a raise amount outside the legal range
type RaiseRangeError struct {
	Amount int
	Range  RaiseRange
}

func (e *RaiseRangeError) Error() string {
	return fmt.Sprintf("invalid raise amount %d: must be between %d and %d", e.Amount, e.Range.Min, e.Range.Max)
}

// ValidateRaise checks a requested raise against the turn's bounds
func (e Eligibility) ValidateRaise(amount int) error {
	if !e.CanRaise {
		return fmt.Errorf("raise: %w", ErrIneligible)
	}
	if !e.Raise.Contains(amount) {
		return &RaiseRangeError{Amount: amount, Range: e.Raise}
	}
	return nil
}
