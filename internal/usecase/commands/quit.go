package commands

import (
	"context"
	"errors"
)

// QuitCommand stops the bot. Only the configured admin ids may use it,
// everybody else is ignored.
type QuitCommand struct {
	admins map[int64]struct{}
}

func NewQuitCommand(adminIDs []int64) *QuitCommand {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &QuitCommand{admins: admins}
}

func (c *QuitCommand) Name() string {
	return "quit"
}

func (c *QuitCommand) Aliases() []string {
	return []string{"shutdown"}
}

func (c *QuitCommand) Description() string {
	return "Disconnects the bot (admins only)."
}

func (c *QuitCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	uid, err := cmdCtx.UserID()
	if errors.Is(err, ErrMissingIdentity) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := c.admins[uid]; !ok {
		return nil
	}

	cmdCtx.Quit()
	return cmdCtx.Reply(ctx, "Bye 👋")
}
