package commands

import (
	"context"
	"strings"
)

// BotInfoCommand is the self-info command reached with ">bot" or "!bot".
type BotInfoCommand struct {
	router *Router
}

func NewBotInfoCommand(router *Router) *BotInfoCommand {
	return &BotInfoCommand{router: router}
}

func (c *BotInfoCommand) Name() string {
	return botCommandName
}

func (c *BotInfoCommand) Aliases() []string {
	return []string{}
}

func (c *BotInfoCommand) Description() string {
	return "Tells you that I am a bot and which commands I know."
}

func (c *BotInfoCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	reply := "I am a bot :)"
	if c.router != nil {
		names := make([]string, 0)
		for _, cmd := range c.router.Commands() {
			names = append(names, string(c.router.Prefix())+normalizeCommandName(cmd.Name()))
		}
		if len(names) > 0 {
			reply += " Commands: " + strings.Join(names, ", ")
		}
	}
	return cmdCtx.Reply(ctx, reply)
}
