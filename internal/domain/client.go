package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrEmptyMessage     = errors.New("empty message")
)

type messageType byte

const (
	Welcome = messageType(iota)
	CommandMessage
	SnapshotMessage
)

type Message struct {
	Type    messageType
	Payload any
}

type WelcomePayload struct {
	Session string
	Rows    int
	Cols    int
}

type CommandPayload struct {
	Command Command
}

type Client interface {
	WriteMessage(msg Message) error
	ReadMessage() (Message, error)
}
