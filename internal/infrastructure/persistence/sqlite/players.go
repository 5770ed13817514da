package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dungeonBot/internal/domain"
)

var ErrPlayerNotFound = errors.New("sqlite: player not found")

type PlayerStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPlayerStore(dbPath string) (*PlayerStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &PlayerStore{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS player (
	id INTEGER PRIMARY KEY,
	strength INTEGER NOT NULL DEFAULT 1,
	dexterity INTEGER NOT NULL DEFAULT 1,
	constitution INTEGER NOT NULL DEFAULT 1,
	intelligence INTEGER NOT NULL DEFAULT 1,
	wisdom INTEGER NOT NULL DEFAULT 1,
	charisma INTEGER NOT NULL DEFAULT 1,
	luck INTEGER NOT NULL DEFAULT 1,
	has_character BOOLEAN NOT NULL DEFAULT 0,
	race TEXT NOT NULL DEFAULT 'human',
	class TEXT NOT NULL DEFAULT 'fighter',
	dungeon_cooldown TIMESTAMP,
	created_at TIMESTAMP NOT NULL
);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: migrate player: %w", err)
	}
	return nil
}

func (s *PlayerStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PlayerStore) Insert(ctx context.Context, player *domain.Player) error {
	if player == nil {
		return fmt.Errorf("sqlite: player nil")
	}

	const stmt = `
INSERT INTO player (
	id, strength, dexterity, constitution, intelligence, wisdom, charisma, luck,
	has_character, race, class, dungeon_cooldown, created_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

	stats := player.Stats
	_, err := s.db.ExecContext(
		ctx,
		stmt,
		player.ID,
		stats.Strength,
		stats.Dexterity,
		stats.Constitution,
		stats.Intelligence,
		stats.Wisdom,
		stats.Charisma,
		stats.Luck,
		player.HasCharacter,
		string(player.Race),
		string(player.Class),
		nullTime(player.DungeonCooldown),
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert player: %w", err)
	}

	return nil
}

func (s *PlayerStore) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM player WHERE id = ?);`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("sqlite: player exists: %w", err)
	}
	return exists, nil
}

func (s *PlayerStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM player WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("sqlite: delete player: %w", err)
	}
	return nil
}

// EnterCooldown is zero for players without a character or whose cooldown
// already ran out.
func (s *PlayerStore) EnterCooldown(ctx context.Context, id int64) (time.Duration, error) {
	const query = `
SELECT dungeon_cooldown, has_character
FROM player
WHERE id = ?
LIMIT 1;
`

	var cooldown sql.NullTime
	var hasCharacter bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&cooldown, &hasCharacter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, fmt.Errorf("sqlite: player cooldown: %w", err)
	}

	if !hasCharacter || !cooldown.Valid {
		return 0, nil
	}

	left := cooldown.Time.Sub(s.now())
	if left <= 0 {
		return 0, nil
	}
	return left, nil
}

func (s *PlayerStore) Stats(ctx context.Context, id int64) (domain.CharacterStats, error) {
	const query = `
SELECT strength, dexterity, constitution, intelligence, wisdom, charisma, luck
FROM player
WHERE id = ?
LIMIT 1;
`

	var stats domain.CharacterStats
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&stats.Strength,
		&stats.Dexterity,
		&stats.Constitution,
		&stats.Intelligence,
		&stats.Wisdom,
		&stats.Charisma,
		&stats.Luck,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CharacterStats{}, ErrPlayerNotFound
		}
		return domain.CharacterStats{}, fmt.Errorf("sqlite: player stats: %w", err)
	}
	return stats, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

var _ domain.PlayerRepository = (*PlayerStore)(nil)
