package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dungeonBot/internal/domain"
)

var ErrMissingIdentity = errors.New("commands: missing user id")

type Command interface {
	Name() string
	Aliases() []string
	Handle(ctx context.Context, c *Context) error
}

// Context is handed to a Command for a single dispatch. Commands must not
// keep it after Handle returns.
type Context struct {
	Message    domain.Message
	Invocation Invocation
	Out        domain.OutgoingMessagePort

	quit func()
}

func NewContext(msg domain.Message, inv Invocation, out domain.OutgoingMessagePort, quit func()) *Context {
	return &Context{
		Message:    msg,
		Invocation: inv,
		Out:        out,
		quit:       quit,
	}
}

func (c *Context) Args() []string {
	return c.Invocation.Arguments
}

// Arg returns the i-th argument or "" when there are fewer arguments.
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Invocation.Arguments) {
		return ""
	}
	return c.Invocation.Arguments[i]
}

// UserID returns the sender's numeric id.
func (c *Context) UserID() (int64, error) {
	raw := strings.TrimSpace(c.Message.UserID)
	if raw == "" {
		return 0, ErrMissingIdentity
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("commands: user id %q: %w", raw, err)
	}
	return id, nil
}

// Reply answers in the channel the invocation came from.
func (c *Context) Reply(ctx context.Context, text string) error {
	if c.Out == nil {
		return errors.New("commands: no reply port")
	}
	return c.Out.SendMessage(ctx, c.Message.Platform, c.Message.ChannelID, text)
}

// Quit asks the run loop to stop once the current command returns.
func (c *Context) Quit() {
	if c.quit != nil {
		c.quit()
	}
}
