package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// GlobalPrefix reaches the self-info command whatever prefix the bot was
// configured with.
const GlobalPrefix = '!'

const botCommandName = "bot"

var ErrDuplicateAlias = errors.New("commands: alias already registered")

type Router struct {
	prefix     rune
	botCommand Command
	commands   map[string]Command
	aliases    map[string]string
}

func NewRouter(prefix rune) *Router {
	return &Router{
		prefix:   prefix,
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

func (r *Router) Prefix() rune {
	return r.prefix
}

// Register adds cmd under its name and aliases. A name or alias that already
// belongs to another command is rejected and nothing is registered.
// Registering a name again replaces the command and its whole alias set.
func (r *Router) Register(cmd Command) error {
	name := normalizeCommandName(cmd.Name())
	if name == "" {
		return fmt.Errorf("commands: empty command name")
	}

	keys := append([]string{name}, normalizeAliasList(cmd.Aliases())...)
	for _, key := range keys {
		if owner, ok := r.aliases[key]; ok && owner != name {
			return fmt.Errorf("%w: %q is taken by %q", ErrDuplicateAlias, key, owner)
		}
	}

	for key, owner := range r.aliases {
		if owner == name {
			delete(r.aliases, key)
		}
	}

	r.commands[name] = cmd
	for _, key := range keys {
		r.aliases[key] = name
	}
	return nil
}

// MustRegister is Register for wiring code, it panics on conflicts.
func (r *Router) MustRegister(cmds ...Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

// SetBotCommand installs the self-info command. It lives outside the alias
// table and answers to "bot" under both the local and the global prefix.
func (r *Router) SetBotCommand(cmd Command) {
	r.botCommand = cmd
}

// Resolve returns the command an invocation dispatches to, or nil.
func (r *Router) Resolve(inv Invocation) Command {
	name := strings.ToLower(inv.Command)

	if (inv.Prefix == r.prefix || inv.Prefix == GlobalPrefix) && name == botCommandName {
		return r.botCommand
	}

	if inv.Prefix != r.prefix {
		return nil
	}

	canonical, ok := r.aliases[name]
	if !ok {
		return nil
	}
	return r.commands[canonical]
}

// Commands lists the registered commands sorted by name.
func (r *Router) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	slices.SortFunc(out, func(a, b Command) int {
		return strings.Compare(normalizeCommandName(a.Name()), normalizeCommandName(b.Name()))
	})
	return out
}

func normalizeCommandName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeAliasList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		key := normalizeCommandName(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
