package notifications

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dungeonBot/internal/app/events"
)

// EventLogger writes every finished dispatch to the log so the command
// history can be reconstructed from the log stream alone.
type EventLogger struct {
	bus *events.Bus
	log *zap.Logger
}

func NewEventLogger(bus *events.Bus, log *zap.Logger) *EventLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventLogger{bus: bus, log: log.Named("dispatch-events")}
}

// Start follows both dispatch topics until ctx is done or the bus closes.
// The returned func blocks until the followers have stopped.
func (l *EventLogger) Start(ctx context.Context) func() {
	if l.bus == nil {
		return func() {}
	}

	var wg sync.WaitGroup
	var unsubs []func()
	for _, topic := range []string{events.TopicCommandDispatched, events.TopicCommandFailed} {
		topic := topic
		ch, unsubscribe := l.bus.Subscribe(topic)
		unsubs = append(unsubs, unsubscribe)
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.follow(ctx, topic, ch)
		}()
	}

	return func() {
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
		wg.Wait()
	}
}

func (l *EventLogger) follow(ctx context.Context, topic string, ch <-chan any) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if event, ok := payload.(events.DispatchEvent); ok {
				l.Log(topic, event)
			}
		}
	}
}

func (l *EventLogger) Log(topic string, event events.DispatchEvent) {
	fields := []zap.Field{
		zap.String("topic", topic),
		zap.String("dispatch_id", event.ID),
		zap.String("channel", event.Channel),
		zap.String("user", event.User),
		zap.String("command", event.Command),
		zap.Strings("arguments", event.Arguments),
		zap.String("duration", event.Duration),
		zap.Time("at", event.At),
	}
	if event.Error != "" {
		l.log.Warn("command failed", append(fields, zap.String("error", event.Error))...)
		return
	}
	l.log.Info("command dispatched", fields...)
}
