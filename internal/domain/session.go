package domain

import "context"

// Credentials identify the bot account on the chat service.
type Credentials struct {
	Username   string
	OAuthToken string
}

type EventKind int

const (
	EventOther EventKind = iota
	EventChatMessage
	EventQuit
	EventEndOfStream
)

func (k EventKind) String() string {
	switch k {
	case EventChatMessage:
		return "chat_message"
	case EventQuit:
		return "quit"
	case EventEndOfStream:
		return "end_of_stream"
	default:
		return "other"
	}
}

type Event struct {
	Kind EventKind
	// Message is only set for EventChatMessage.
	Message Message
}

// Session is one live connection to the chat service. It is owned by a
// single run loop and is not safe for concurrent NextEvent calls.
type Session interface {
	Identity() string
	Join(ctx context.Context, channel string) error
	NextEvent(ctx context.Context) (Event, error)
	Writer() OutgoingMessagePort
	Close() error
}

type Connector interface {
	Connect(ctx context.Context, creds Credentials) (Session, error)
}
