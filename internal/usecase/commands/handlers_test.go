package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeonBot/internal/domain"
)

func TestContextUserID(t *testing.T) {
	out := &recordingOut{}

	cmdCtx, _ := newTestContext(t, testMessage("42", ">register"), out)
	id, err := cmdCtx.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	cmdCtx, _ = newTestContext(t, testMessage("", ">register"), out)
	_, err = cmdCtx.UserID()
	assert.ErrorIs(t, err, ErrMissingIdentity)

	cmdCtx, _ = newTestContext(t, testMessage("abc", ">register"), out)
	_, err = cmdCtx.UserID()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingIdentity)
}

func TestContextReplyAndArgs(t *testing.T) {
	out := &recordingOut{}
	cmdCtx, quit := newTestContext(t, testMessage("1", ">unregister confirm now"), out)

	assert.Equal(t, []string{"confirm", "now"}, cmdCtx.Args())
	assert.Equal(t, "confirm", cmdCtx.Arg(0))
	assert.Equal(t, "", cmdCtx.Arg(5))
	assert.Equal(t, "", cmdCtx.Arg(-1))

	require.NoError(t, cmdCtx.Reply(context.Background(), "hello"))
	require.Len(t, out.sent, 1)
	assert.Equal(t, sentMessage{Platform: domain.PlatformTwitch, ChannelID: "dungeon", Text: "hello"}, out.sent[0])

	assert.False(t, *quit)
	cmdCtx.Quit()
	assert.True(t, *quit)
}

func TestRegisterCommand(t *testing.T) {
	ctx := context.Background()
	players := newFakePlayers()
	cmd := NewRegisterCommand(players)

	t.Run("creates the character", func(t *testing.T) {
		out := &recordingOut{}
		cmdCtx, _ := newTestContext(t, testMessage("7", ">register"), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))

		require.Contains(t, players.players, int64(7))
		p := players.players[7]
		assert.Equal(t, domain.RaceHuman, p.Race)
		assert.Equal(t, domain.ClassFighter, p.Class)
		assert.True(t, p.HasCharacter)
		assert.Equal(t, int16(1), p.Stats.Luck)
		assert.Equal(t, []string{"I added you to my records. Your character has been created"}, out.texts())
	})

	t.Run("already registered", func(t *testing.T) {
		out := &recordingOut{}
		cmdCtx, _ := newTestContext(t, testMessage("7", ">r"), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		assert.Equal(t, []string{"You are already on my list 📝"}, out.texts())
	})

	t.Run("missing identity", func(t *testing.T) {
		out := &recordingOut{}
		cmdCtx, _ := newTestContext(t, testMessage("", ">register"), out)
		assert.ErrorIs(t, cmd.Handle(ctx, cmdCtx), ErrMissingIdentity)
		assert.Empty(t, out.texts())
	})

	t.Run("store failure", func(t *testing.T) {
		boom := errors.New("db down")
		failing := newFakePlayers()
		failing.err = boom
		cmdCtx, _ := newTestContext(t, testMessage("8", ">register"), &recordingOut{})
		assert.ErrorIs(t, NewRegisterCommand(failing).Handle(ctx, cmdCtx), boom)
	})
}

func TestUnregisterCommand(t *testing.T) {
	ctx := context.Background()
	players := newFakePlayers()
	cmd := NewUnregisterCommand(players, '>')

	run := func(t *testing.T, text string) []string {
		t.Helper()
		out := &recordingOut{}
		cmdCtx, _ := newTestContext(t, testMessage("9", text), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		return out.texts()
	}

	t.Run("not registered", func(t *testing.T) {
		assert.Equal(t, []string{"I cannot delete what doesn't exist: You are not in my records"}, run(t, ">unregister"))
	})

	require.NoError(t, players.Insert(ctx, domain.NewPlayer(9)))

	t.Run("asks for confirmation", func(t *testing.T) {
		texts := run(t, ">unregister")
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "Are you sure about that?")
		assert.Contains(t, texts[0], "Type `> unregister confirm`")
		assert.Contains(t, players.players, int64(9))
	})

	t.Run("wrong argument", func(t *testing.T) {
		assert.Equal(t, []string{"Type `> unregister confirm` if you want to unregister"}, run(t, ">unregister please"))
		assert.Contains(t, players.players, int64(9))
	})

	t.Run("confirm deletes", func(t *testing.T) {
		assert.Equal(t, []string{"I removed you from my records 🔥🗒🔥"}, run(t, ">unregister confirm"))
		assert.NotContains(t, players.players, int64(9))
	})
}

func TestEnterCommand(t *testing.T) {
	ctx := context.Background()
	players := newFakePlayers()
	cmd := NewEnterCommand(players, '>')

	run := func(t *testing.T) []string {
		t.Helper()
		out := &recordingOut{}
		cmdCtx, _ := newTestContext(t, testMessage("3", ">enter"), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		return out.texts()
	}

	t.Run("not registered", func(t *testing.T) {
		assert.Equal(t, []string{"You're not registered. Register with `> register`"}, run(t))
	})

	require.NoError(t, players.Insert(ctx, domain.NewPlayer(3)))

	t.Run("cooldown", func(t *testing.T) {
		players.cooldown[3] = 90*time.Second + 400*time.Millisecond
		defer delete(players.cooldown, 3)
		assert.Equal(t, []string{"You cannot enter the dungeon. Please wait for 1m30s"}, run(t))
	})

	t.Run("enters with stats", func(t *testing.T) {
		assert.Equal(t, []string{"You enter the dungeon. STR 1 DEX 1 CON 1 INT 1 WIS 1 CHA 1 LCK 1"}, run(t))
	})
}

func TestBotInfoCommand(t *testing.T) {
	router := NewRouter('>')
	router.MustRegister(NewPingCommand(), NewRegisterCommand(newFakePlayers()))
	cmd := NewBotInfoCommand(router)

	out := &recordingOut{}
	cmdCtx, _ := newTestContext(t, testMessage("", "!bot"), out)
	require.NoError(t, cmd.Handle(context.Background(), cmdCtx))
	assert.Equal(t, []string{"I am a bot :) Commands: >ping, >register"}, out.texts())

	out = &recordingOut{}
	cmdCtx, _ = newTestContext(t, testMessage("", "!bot"), out)
	require.NoError(t, NewBotInfoCommand(nil).Handle(context.Background(), cmdCtx))
	assert.Equal(t, []string{"I am a bot :)"}, out.texts())
}

func TestPingCommand(t *testing.T) {
	out := &recordingOut{}
	cmdCtx, _ := newTestContext(t, testMessage("", ">ping"), out)
	require.NoError(t, NewPingCommand().Handle(context.Background(), cmdCtx))
	assert.Equal(t, []string{"pong"}, out.texts())
}

func TestQuitCommand(t *testing.T) {
	cmd := NewQuitCommand([]int64{100})
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		out := &recordingOut{}
		cmdCtx, quit := newTestContext(t, testMessage("100", ">quit"), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		assert.True(t, *quit)
		assert.Len(t, out.texts(), 1)
	})

	t.Run("not an admin", func(t *testing.T) {
		out := &recordingOut{}
		cmdCtx, quit := newTestContext(t, testMessage("101", ">quit"), out)
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		assert.False(t, *quit)
		assert.Empty(t, out.texts())
	})

	t.Run("anonymous", func(t *testing.T) {
		cmdCtx, quit := newTestContext(t, testMessage("", ">quit"), &recordingOut{})
		require.NoError(t, cmd.Handle(ctx, cmdCtx))
		assert.False(t, *quit)
	})
}
