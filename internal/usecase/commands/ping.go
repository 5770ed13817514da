package commands

import "context"

type PingCommand struct{}

func NewPingCommand() *PingCommand {
	return &PingCommand{}
}

func (c *PingCommand) Name() string {
	return "ping"
}

func (c *PingCommand) Aliases() []string {
	return []string{}
}

func (c *PingCommand) Description() string {
	return "Replies with pong to check that the bot is alive."
}

func (c *PingCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	return cmdCtx.Reply(ctx, "pong")
}
