package commands

import (
	"context"
	"fmt"

	"dungeonBot/internal/domain"
)

const confirmArgument = "confirm"

type UnregisterCommand struct {
	players domain.PlayerRepository
	prefix  rune
}

func NewUnregisterCommand(players domain.PlayerRepository, prefix rune) *UnregisterCommand {
	return &UnregisterCommand{players: players, prefix: prefix}
}

func (c *UnregisterCommand) Name() string {
	return "unregister"
}

func (c *UnregisterCommand) Aliases() []string {
	return []string{}
}

func (c *UnregisterCommand) Description() string {
	return "Deletes your character. Needs `confirm`."
}

func (c *UnregisterCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	uid, err := cmdCtx.UserID()
	if err != nil {
		return err
	}

	exists, err := c.players.Exists(ctx, uid)
	if err != nil {
		return fmt.Errorf("unregister: %w", err)
	}
	if !exists {
		return cmdCtx.Reply(ctx, "I cannot delete what doesn't exist: You are not in my records")
	}

	hint := fmt.Sprintf("Type `%c unregister %s` if you want to unregister", c.prefix, confirmArgument)

	switch {
	case len(cmdCtx.Args()) == 0:
		return cmdCtx.Reply(ctx, "❗ This will delete your character and all of your progress ❗ Are you sure about that? "+hint)
	case cmdCtx.Arg(0) == confirmArgument:
		if err := c.players.Delete(ctx, uid); err != nil {
			return fmt.Errorf("unregister: %w", err)
		}
		return cmdCtx.Reply(ctx, "I removed you from my records 🔥🗒🔥")
	default:
		return cmdCtx.Reply(ctx, hint)
	}
}
