package commands

// Describer is implemented by commands that want to show up with a
// description in the command catalog.
type Describer interface {
	Description() string
}

// CommandDescriptor exposes a registered command's metadata.
type CommandDescriptor struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description,omitempty"`
	Usage       string   `json:"usage"`
}

// Catalog describes the commands reachable through the router, the
// self-info command first.
func (r *Router) Catalog() []CommandDescriptor {
	out := make([]CommandDescriptor, 0, len(r.commands)+1)
	if r.botCommand != nil {
		out = append(out, r.describe(r.botCommand, botCommandName))
	}
	for _, cmd := range r.Commands() {
		out = append(out, r.describe(cmd, normalizeCommandName(cmd.Name())))
	}
	return out
}

func (r *Router) describe(cmd Command, name string) CommandDescriptor {
	desc := CommandDescriptor{
		Name:    name,
		Aliases: normalizeAliasList(cmd.Aliases()),
		Usage:   string(r.prefix) + name,
	}
	if d, ok := cmd.(Describer); ok {
		desc.Description = d.Description()
	}
	return desc
}
