// Package handle_message runs one dispatch cycle for an incoming chat message.
package handle_message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dungeonBot/internal/app/events"
	"dungeonBot/internal/domain"
	"dungeonBot/internal/usecase/commands"
)

type Interactor struct {
	router *commands.Router
	bus    *events.Bus
	log    *zap.Logger
	now    func() time.Time
}

func NewInteractor(router *commands.Router, bus *events.Bus, log *zap.Logger) *Interactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{
		router: router,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// Handle parses msg, resolves it to a command and runs it. Lines that are not
// commands are ignored. Command failures are logged and never returned, so a
// broken command cannot stop the caller's loop. The result reports whether
// the command asked the bot to quit.
func (uc *Interactor) Handle(ctx context.Context, msg domain.Message, out domain.OutgoingMessagePort) bool {
	inv, err := commands.Parse(msg.Text)
	if err != nil {
		return false
	}

	cmd := uc.router.Resolve(inv)
	if cmd == nil {
		return false
	}

	id := uuid.NewString()
	logger := uc.log.With(
		zap.String("dispatch_id", id),
		zap.String("command", inv.Command),
		zap.String("channel", msg.ChannelID),
		zap.String("user", msg.Username),
	)
	logger.Debug("dispatching", zap.Strings("arguments", inv.Arguments))

	quit := false
	cmdCtx := commands.NewContext(msg, inv, out, func() { quit = true })

	started := uc.now()
	err = execute(ctx, cmd, cmdCtx)
	elapsed := uc.now().Sub(started)

	if err != nil {
		logger.Error("could not execute command", zap.Error(err), zap.Duration("elapsed", elapsed))
	}
	uc.publish(id, msg, inv, err, elapsed)

	return quit
}

func execute(ctx context.Context, cmd commands.Command, cmdCtx *commands.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errCommandPanic, r)
		}
	}()
	return cmd.Handle(ctx, cmdCtx)
}

var errCommandPanic = errors.New("handle_message: command panicked")

func (uc *Interactor) publish(id string, msg domain.Message, inv commands.Invocation, err error, elapsed time.Duration) {
	if uc.bus == nil {
		return
	}
	event := events.DispatchEvent{
		ID:        id,
		Channel:   msg.ChannelID,
		User:      msg.Username,
		Command:   inv.Command,
		Arguments: append([]string(nil), inv.Arguments...),
		Duration:  elapsed.String(),
		At:        uc.now().UTC(),
	}
	topic := events.TopicCommandDispatched
	if err != nil {
		event.Error = err.Error()
		topic = events.TopicCommandFailed
	}
	uc.bus.Publish(topic, event)
}
