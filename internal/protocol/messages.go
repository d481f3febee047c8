package protocol

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeInitNewPlayer MessageType = "init_new_player"
	TypeStartGame     MessageType = "start_game"
	TypePlayerAction  MessageType = "player_action"

	// Server -> Client
	TypeInitParticipant MessageType = "init_participant"
	TypeInitObserver    MessageType = "init_observer"
	TypeNewPlayer       MessageType = "new_player"
	TypePlayerLeft      MessageType = "player_left"
	TypePlayerBet       MessageType = "player_bet"
	TypeDealtCards      MessageType = "dealt_cards"
	TypePlayerTurn      MessageType = "player_turn"
	TypeYourTurn        MessageType = "your_turn"
	TypeBoardCards      MessageType = "board_cards"
	TypeClearBetting    MessageType = "clear_betting"
	TypePlayerChecked   MessageType = "player_checked"
	TypePlayerFolded    MessageType = "player_folded"
	TypeShowdown        MessageType = "showdown"
	TypeRoundWinner     MessageType = "round_winner"
	TypeReset           MessageType = "reset"
	TypeHandValue       MessageType = "hand_value"
	TypeActionError     MessageType = "action_error"
)

// legacyTypes maps older tags to their canonical type.
var legacyTypes = map[MessageType]MessageType{
	"player_fold": TypePlayerFolded,
}

// Canonical resolves legacy tags to the tag used by current servers.
func Canonical(t MessageType) MessageType {
	if c, ok := legacyTypes[t]; ok {
		return c
	}
	return t
}

// Action names accepted by the server in player_action
const (
	ActionFold  = "fold"
	ActionCall  = "call"
	ActionRaise = "raise"
)

// Message is implemented by every typed message
type Message interface {
	MessageType() MessageType
}

// Client -> Server Messages

// InitNewPlayer is sent once the connection is open
type InitNewPlayer struct{}

// StartGame asks the server to start dealing
type StartGame struct{}

// PlayerAction is the viewer's decision for the current turn. Amount is
// omitted for fold; a check is a call of 0.
type PlayerAction struct {
	Action string `json:"action"`
	Amount *int   `json:"amount,omitempty"`
}

// Server -> Client Messages

// PlayerInfo describes an occupied seat in the init messages
type PlayerInfo struct {
	Username  string   `json:"username"`
	ChipCount int      `json:"chip_count"`
	Cards     []string `json:"cards,omitempty"`
}

// InitParticipant is the first message a seated player receives
type InitParticipant struct {
	YourPosition int                `json:"your_position"`
	Players      map[int]PlayerInfo `json:"players"`
}

// InitObserver is the first message an observer receives
type InitObserver struct {
	Players map[int]PlayerInfo `json:"players"`
}

type NewPlayer struct {
	Position  int    `json:"position"`
	Username  string `json:"username"`
	ChipCount int    `json:"chip_count"`
}

type PlayerLeft struct {
	Position int `json:"position"`
}

// PlayerBet is broadcast after chips go in. Amount is the seat's total bet this round.
type PlayerBet struct {
	Position  int `json:"position"`
	Amount    int `json:"amount"`
	ChipCount int `json:"chip_count"`
	Pot       int `json:"pot"`
}

// DealtCards carries the viewer's hole cards and the seats dealt into the hand
type DealtCards struct {
	Cards           []string `json:"cards"`
	ActivePositions []int    `json:"active_positions"`
}

type PlayerTurn struct {
	Username string `json:"username"`
}

// YourTurn opens the viewer's action window
type YourTurn struct {
	CurrentBet int `json:"current_bet"`
	PlayerBet  int `json:"player_bet"`
	ChipCount  int `json:"chip_count"`
	Pot        int `json:"pot"`
}

type BoardCards struct {
	Cards []string `json:"cards"`
}

type ClearBetting struct{}

type PlayerChecked struct {
	Position int `json:"position"`
}

type PlayerFolded struct {
	Position int `json:"position"`
}

// ShowdownHand is one seat's revealed hand
type ShowdownHand struct {
	Cards     []string `json:"cards"`
	HandValue string   `json:"hand_value,omitempty"`
}

type Showdown struct {
	Hands map[int]ShowdownHand `json:"hands"`
}

type RoundWinner struct {
	WinnerPositions []int `json:"winner_positions"`
	AmountWon       int   `json:"amount_won"`
}

// Reset starts a new hand with updated stacks
type Reset struct {
	ChipCounts map[int]int `json:"chip_counts"`
}

// HandValue reports the viewer's best made hand
type HandValue struct {
	HandValue string   `json:"hand_value"`
	HandCards []string `json:"hand_cards"`
}

// ActionError reports a rejected player_action
type ActionError struct {
	Message string `json:"message"`
}

func (InitNewPlayer) MessageType() MessageType   { return TypeInitNewPlayer }
func (StartGame) MessageType() MessageType       { return TypeStartGame }
func (PlayerAction) MessageType() MessageType    { return TypePlayerAction }
func (InitParticipant) MessageType() MessageType { return TypeInitParticipant }
func (InitObserver) MessageType() MessageType    { return TypeInitObserver }
func (NewPlayer) MessageType() MessageType       { return TypeNewPlayer }
func (PlayerLeft) MessageType() MessageType      { return TypePlayerLeft }
func (PlayerBet) MessageType() MessageType       { return TypePlayerBet }
func (DealtCards) MessageType() MessageType      { return TypeDealtCards }
func (PlayerTurn) MessageType() MessageType      { return TypePlayerTurn }
func (YourTurn) MessageType() MessageType        { return TypeYourTurn }
func (BoardCards) MessageType() MessageType      { return TypeBoardCards }
func (ClearBetting) MessageType() MessageType    { return TypeClearBetting }
func (PlayerChecked) MessageType() MessageType   { return TypePlayerChecked }
func (PlayerFolded) MessageType() MessageType    { return TypePlayerFolded }
func (Showdown) MessageType() MessageType        { return TypeShowdown }
func (RoundWinner) MessageType() MessageType     { return TypeRoundWinner }
func (Reset) MessageType() MessageType           { return TypeReset }
func (HandValue) MessageType() MessageType       { return TypeHandValue }
func (ActionError) MessageType() MessageType     { return TypeActionError }

// Fold builds a fold action
func Fold() *PlayerAction {
	return &PlayerAction{Action: ActionFold}
}

// Call builds a call action; a check is Call(0)
func Call(amount int) *PlayerAction {
	return &PlayerAction{Action: ActionCall, Amount: &amount}
}

// Raise builds a raise action
func Raise(amount int) *PlayerAction {
	return &PlayerAction{Action: ActionRaise, Amount: &amount}
}
