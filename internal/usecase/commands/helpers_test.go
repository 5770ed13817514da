package commands

import (
	"context"
	"sync"
	"time"

	"dungeonBot/internal/domain"
)

type sentMessage struct {
	Platform  domain.Platform
	ChannelID string
	Text      string
}

type recordingOut struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (r *recordingOut) SendMessage(_ context.Context, platform domain.Platform, channelID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMessage{Platform: platform, ChannelID: channelID, Text: text})
	return nil
}

func (r *recordingOut) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.Text)
	}
	return out
}

type namedCommand struct {
	name    string
	aliases []string
	calls   int
}

func (c *namedCommand) Name() string      { return c.name }
func (c *namedCommand) Aliases() []string { return c.aliases }
func (c *namedCommand) Handle(context.Context, *Context) error {
	c.calls++
	return nil
}

type fakePlayers struct {
	players  map[int64]*domain.Player
	cooldown map[int64]time.Duration
	err      error
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{
		players:  make(map[int64]*domain.Player),
		cooldown: make(map[int64]time.Duration),
	}
}

func (f *fakePlayers) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.players[id]
	return ok, nil
}

func (f *fakePlayers) Insert(_ context.Context, p *domain.Player) error {
	if f.err != nil {
		return f.err
	}
	f.players[p.ID] = p
	return nil
}

func (f *fakePlayers) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.players, id)
	return nil
}

func (f *fakePlayers) EnterCooldown(_ context.Context, id int64) (time.Duration, error) {
	return f.cooldown[id], f.err
}

func (f *fakePlayers) Stats(_ context.Context, id int64) (domain.CharacterStats, error) {
	if f.err != nil {
		return domain.CharacterStats{}, f.err
	}
	return f.players[id].Stats, nil
}

func testMessage(userID, text string) domain.Message {
	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: "dungeon",
		UserID:    userID,
		Username:  "Adventurer",
		Text:      text,
	}
}

func newTestContext(t interface{ Helper() }, msg domain.Message, out domain.OutgoingMessagePort) (*Context, *bool) {
	t.Helper()
	inv, err := Parse(msg.Text)
	if err != nil {
		panic(err)
	}
	quit := false
	return NewContext(msg, inv, out, func() { quit = true }), &quit
}
