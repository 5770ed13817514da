package commands

import (
	"context"
	"fmt"
	"time"

	"dungeonBot/internal/domain"
)

type EnterCommand struct {
	players domain.PlayerRepository
	prefix  rune
}

func NewEnterCommand(players domain.PlayerRepository, prefix rune) *EnterCommand {
	return &EnterCommand{players: players, prefix: prefix}
}

func (c *EnterCommand) Name() string {
	return "enter"
}

func (c *EnterCommand) Aliases() []string {
	return []string{}
}

func (c *EnterCommand) Description() string {
	return "Sends your character into the dungeon."
}

func (c *EnterCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	uid, err := cmdCtx.UserID()
	if err != nil {
		return err
	}

	exists, err := c.players.Exists(ctx, uid)
	if err != nil {
		return fmt.Errorf("enter: %w", err)
	}
	if !exists {
		return cmdCtx.Reply(ctx, fmt.Sprintf("You're not registered. Register with `%c register`", c.prefix))
	}

	cooldown, err := c.players.EnterCooldown(ctx, uid)
	if err != nil {
		return fmt.Errorf("enter: %w", err)
	}
	if cooldown > 0 {
		return cmdCtx.Reply(ctx, fmt.Sprintf("You cannot enter the dungeon. Please wait for %s", cooldown.Round(time.Second)))
	}

	stats, err := c.players.Stats(ctx, uid)
	if err != nil {
		return fmt.Errorf("enter: %w", err)
	}

	return cmdCtx.Reply(ctx, fmt.Sprintf(
		"You enter the dungeon. STR %d DEX %d CON %d INT %d WIS %d CHA %d LCK %d",
		stats.Strength, stats.Dexterity, stats.Constitution,
		stats.Intelligence, stats.Wisdom, stats.Charisma, stats.Luck,
	))
}
