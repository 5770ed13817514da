// Package twitchadapter adapter for twitch
package twitchadapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/adeithe/go-twitch/irc"
	"go.uber.org/zap"

	"dungeonBot/internal/domain"
)

const defaultEventBuffer = 64

// Connector opens IRC sessions against Twitch chat.
type Connector struct {
	log         *zap.Logger
	eventBuffer int
}

func NewConnector(log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Connector{log: log, eventBuffer: defaultEventBuffer}
}

func (c *Connector) Connect(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if creds.Username == "" || creds.OAuthToken == "" {
		return nil, errors.New("twitch: username or oauth token empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := &irc.Conn{}
	if err := conn.SetLogin(creds.Username, creds.OAuthToken); err != nil {
		return nil, fmt.Errorf("twitch: SetLogin: %w", err)
	}

	s := newSession(creds.Username, ircClient{
		join:         conn.Join,
		say:          conn.Say,
		connected:    conn.IsConnected,
		close:        func() { conn.Close() },
		onDisconnect: conn.OnDisconnect,
	}, c.eventBuffer, c.log)

	conn.OnMessage(func(cm irc.ChatMessage) {
		s.deliver(mapChatMessageToDomain(cm))
	})

	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("twitch: Connect: %w", err)
	}

	return s, nil
}

// ircClient is the part of irc.Conn a session needs.
type ircClient struct {
	join      func(channels ...string) error
	say       func(channel, text string) error
	connected func() bool
	close     func()

	// onDisconnect registers a callback for when the server side goes away.
	onDisconnect func(func())
}

// session turns the callback based irc.Conn into a pull based event stream.
type session struct {
	identity string
	client   ircClient
	log      *zap.Logger

	events    chan domain.Event
	done      chan struct{}
	endOnce   sync.Once
	closeOnce sync.Once
}

func newSession(identity string, client ircClient, buffer int, log *zap.Logger) *session {
	s := &session{
		identity: identity,
		client:   client,
		log:      log,
		events:   make(chan domain.Event, buffer),
		done:     make(chan struct{}),
	}
	if client.onDisconnect != nil {
		client.onDisconnect(s.disconnected)
	}
	return s
}

// disconnected ends the stream when the connection drops, which is also how
// Twitch answers a rejected login.
func (s *session) disconnected() {
	s.log.Warn("twitch: disconnected", zap.String("identity", s.identity))
	s.end()
}

func (s *session) end() {
	s.endOnce.Do(func() { close(s.done) })
}

func (s *session) Identity() string {
	return s.identity
}

// deliver blocks while the buffer is full so that no chat line is dropped;
// it gives up once the session is closed. Lines are queued in the order
// deliver is called, but go-twitch runs every OnMessage callback on its own
// goroutine, so lines arriving within the same instant may be swapped.
func (s *session) deliver(msg domain.Message) {
	select {
	case s.events <- domain.Event{Kind: domain.EventChatMessage, Message: msg}:
	case <-s.done:
	}
}

func (s *session) Join(ctx context.Context, channel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	channel = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(channel)), "#")
	if channel == "" {
		return errors.New("twitch: empty channel")
	}
	if err := s.client.join(channel); err != nil {
		return fmt.Errorf("twitch: Join %s: %w", channel, err)
	}
	return nil
}

// NextEvent waits for the next chat line. A cancelled ctx reads as a quit,
// a closed session as the end of the stream once the queued lines are read.
func (s *session) NextEvent(ctx context.Context) (domain.Event, error) {
	if ctx.Err() != nil {
		return domain.Event{Kind: domain.EventQuit}, nil
	}
	select {
	case event := <-s.events:
		return event, nil
	default:
	}

	select {
	case <-ctx.Done():
		return domain.Event{Kind: domain.EventQuit}, nil
	case <-s.done:
		return domain.Event{Kind: domain.EventEndOfStream}, nil
	case event := <-s.events:
		return event, nil
	}
}

func (s *session) Writer() domain.OutgoingMessagePort {
	return s
}

func (s *session) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if platform != domain.PlatformTwitch {
		return fmt.Errorf("twitch adapter does not support platform %s", platform)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.done:
		return errors.New("twitch: session closed")
	default:
	}
	if !s.client.connected() {
		return errors.New("twitch: connection not initialised or closed")
	}

	s.log.Debug("twitch: say", zap.String("channel", channelID), zap.String("text", text))
	return s.client.say(channelID, text)
}

func (s *session) Close() error {
	s.end()
	s.closeOnce.Do(s.client.close)
	return nil
}

func mapChatMessageToDomain(cm irc.ChatMessage) domain.Message {
	sender := cm.Sender

	userID := ""
	if sender.ID != 0 {
		userID = strconv.FormatInt(sender.ID, 10)
	}

	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: cm.Channel,
		UserID:    userID,
		Username:  sender.DisplayName,
		Text:      cm.Text,
	}
}

var _ domain.Connector = (*Connector)(nil)
var _ domain.Session = (*session)(nil)
