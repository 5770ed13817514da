package domain

import (
	"context"
	"time"
)

type OutgoingMessagePort interface {
	SendMessage(ctx context.Context, platform Platform, channelID, text string) error
}

// PlayerRepository is the record store the game commands call into. Records
// are addressed by the sender's numeric id.
type PlayerRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, player *Player) error
	Delete(ctx context.Context, id int64) error
	// EnterCooldown returns the time left before the player may enter the
	// dungeon again, zero when there is none.
	EnterCooldown(ctx context.Context, id int64) (time.Duration, error)
	Stats(ctx context.Context, id int64) (CharacterStats, error)
}
