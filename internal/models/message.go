package models

import "encoding/json"

// SignalType represents the type of signaling message
type SignalType string

// Client -> relay message kinds.
const (
	SignalTypeJoin         SignalType = "join"
	SignalTypeCallOffer    SignalType = "call-offer"
	SignalTypeCallAnswer   SignalType = "call-answer"
	SignalTypeRenegoOffer  SignalType = "renego-offer"
	SignalTypeRenegoAnswer SignalType = "renego-answer"
)

// Relay -> client message kinds.
const (
	SignalTypeJoinAck      SignalType = "join-ack"
	SignalTypeJoined       SignalType = "joined"
	SignalTypeIncomingCall SignalType = "incoming-call"
	SignalTypeCallAccepted SignalType = "call-accepted"
	SignalTypeRenegoNeeded SignalType = "renego-needed"
	SignalTypeRenegoFinal  SignalType = "renego-final"
	SignalTypePeerLeft     SignalType = "peer-left"
	SignalTypeError        SignalType = "error"
)

// SignalMessage is the envelope for every frame on the signaling socket.
// Payload stays raw JSON so offer/answer bodies pass through the relay
// byte-for-byte; the relay never interprets them.
type SignalMessage struct {
	Type     SignalType      `json:"type"`
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
	Identity string          `json:"identity,omitempty"`
	Room     string          `json:"room,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
}
