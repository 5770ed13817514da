package commands

import (
	"context"
	"fmt"

	"dungeonBot/internal/domain"
)

type RegisterCommand struct {
	players domain.PlayerRepository
}

func NewRegisterCommand(players domain.PlayerRepository) *RegisterCommand {
	return &RegisterCommand{players: players}
}

func (c *RegisterCommand) Name() string {
	return "register"
}

func (c *RegisterCommand) Aliases() []string {
	return []string{"r"}
}

func (c *RegisterCommand) Description() string {
	return "Creates your character."
}

func (c *RegisterCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	uid, err := cmdCtx.UserID()
	if err != nil {
		return err
	}

	exists, err := c.players.Exists(ctx, uid)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if exists {
		return cmdCtx.Reply(ctx, "You are already on my list 📝")
	}

	if err := c.players.Insert(ctx, domain.NewPlayer(uid)); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return cmdCtx.Reply(ctx, "I added you to my records. Your character has been created")
}
