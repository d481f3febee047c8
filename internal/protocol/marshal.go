package protocol

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMissingType        = errors.New("message has no type")
)

// registry creates an empty inbound or outbound message for each canonical type
var registry = map[MessageType]func() Message{
	TypeInitNewPlayer:   func() Message { return &InitNewPlayer{} },
	TypeStartGame:       func() Message { return &StartGame{} },
	TypePlayerAction:    func() Message { return &PlayerAction{} },
	TypeInitParticipant: func() Message { return &InitParticipant{} },
	TypeInitObserver:    func() Message { return &InitObserver{} },
	TypeNewPlayer:       func() Message { return &NewPlayer{} },
	TypePlayerLeft:      func() Message { return &PlayerLeft{} },
	TypePlayerBet:       func() Message { return &PlayerBet{} },
	TypeDealtCards:      func() Message { return &DealtCards{} },
	TypePlayerTurn:      func() Message { return &PlayerTurn{} },
	TypeYourTurn:        func() Message { return &YourTurn{} },
	TypeBoardCards:      func() Message { return &BoardCards{} },
	TypeClearBetting:    func() Message { return &ClearBetting{} },
	TypePlayerChecked:   func() Message { return &PlayerChecked{} },
	TypePlayerFolded:    func() Message { return &PlayerFolded{} },
	TypeShowdown:        func() Message { return &Showdown{} },
	TypeRoundWinner:     func() Message { return &RoundWinner{} },
	TypeReset:           func() Message { return &Reset{} },
	TypeHandValue:       func() Message { return &HandValue{} },
	TypeActionError:     func() Message { return &ActionError{} },
}

type envelope struct {
	Type MessageType `json:"type"`
}

// PeekType returns the raw type tag of a frame without decoding its payload
func PeekType(data []byte) (MessageType, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("invalid frame: %w", err)
	}
	if env.Type == "" {
		return "", ErrMissingType
	}
	return env.Type, nil
}

// Decode parses a frame into a pointer to its typed message. Legacy tags are
// decoded as their canonical type.
func Decode(data []byte) (Message, error) {
	raw, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	newMsg, ok := registry[Canonical(raw)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, raw)
	}

	msg := newMsg()
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", raw, err)
	}
	return msg, nil
}

// Encode serializes a message as a flat JSON object with its type tag inline
func Encode(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.MessageType(), err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: payload is not an object: %w", msg.MessageType(), err)
	}

	tag, err := json.Marshal(msg.MessageType())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}
