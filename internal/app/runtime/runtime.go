// Package runtime owns the chat connection and the receive loop.
package runtime

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"dungeonBot/internal/domain"
	"dungeonBot/internal/interface/outs"
)

type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateJoining
	StateReceiving
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoining:
		return "joining"
	case StateReceiving:
		return "receiving"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// MessageHandler runs one chat message through the command pipeline and
// reports whether the bot should stop.
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message, out domain.OutgoingMessagePort) bool
}

type Config struct {
	Credentials domain.Credentials
	Channels    []string
	// SendLimiter throttles replies. Nil leaves throttling to the transport.
	SendLimiter *rate.Limiter
}

type Bot struct {
	cfg       Config
	connector domain.Connector
	handler   MessageHandler
	log       *zap.Logger

	state atomic.Int32
}

func New(cfg Config, connector domain.Connector, handler MessageHandler, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		cfg:       cfg,
		connector: connector,
		handler:   handler,
		log:       log,
	}
}

func (b *Bot) State() State {
	return State(b.state.Load())
}

func (b *Bot) setState(s State) {
	b.state.Store(int32(s))
	b.log.Debug("runtime: state changed", zap.Stringer("state", s))
}

// Run connects, joins the configured channels and processes chat messages
// one at a time until the session ends, a command asks to quit or ctx is
// cancelled. Only connection and stream errors are returned.
func (b *Bot) Run(ctx context.Context) error {
	b.setState(StateConnecting)
	session, err := b.connector.Connect(ctx, b.cfg.Credentials)
	if err != nil {
		b.setState(StateTerminated)
		return fmt.Errorf("runtime: connect: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			b.log.Warn("runtime: closing session", zap.Error(err))
		}
		b.setState(StateTerminated)
	}()

	b.log.Info("connected", zap.String("identity", session.Identity()))

	b.setState(StateJoining)
	for _, channel := range b.cfg.Channels {
		b.log.Info("joining", zap.String("channel", channel))
		if err := session.Join(ctx, channel); err != nil {
			b.log.Error("error while joining", zap.String("channel", channel), zap.Error(err))
		}
	}

	b.setState(StateReceiving)
	b.log.Debug("starting main loop")
	err = b.mainLoop(ctx, session)
	b.log.Debug("end of main loop")
	return err
}

func (b *Bot) mainLoop(ctx context.Context, session domain.Session) error {
	out := session.Writer()
	if b.cfg.SendLimiter != nil {
		out = outs.NewRateLimitedSender(out, b.cfg.SendLimiter)
	}

	for {
		event, err := session.NextEvent(ctx)
		if err != nil {
			return fmt.Errorf("runtime: next event: %w", err)
		}

		switch event.Kind {
		case domain.EventChatMessage:
			if b.handler.Handle(ctx, event.Message, out) {
				b.log.Info("quit requested by command")
				return nil
			}
		case domain.EventQuit, domain.EventEndOfStream:
			b.log.Info("session ended", zap.Stringer("event", event.Kind))
			return nil
		default:
			b.log.Debug("ignoring event", zap.Stringer("event", event.Kind))
		}
	}
}
