package domain

import "time"

type Race string

const (
	RaceHuman Race = "human"
)

type Class string

const (
	ClassFighter Class = "fighter"
)

type CharacterStats struct {
	Strength     int16
	Dexterity    int16
	Constitution int16
	Intelligence int16
	Wisdom       int16
	Charisma     int16
	Luck         int16
}

type Player struct {
	ID              int64
	Stats           CharacterStats
	Race            Race
	Class           Class
	HasCharacter    bool
	DungeonCooldown time.Time
}

// NewPlayer returns the character every new registration starts with.
func NewPlayer(id int64) *Player {
	return &Player{
		ID: id,
		Stats: CharacterStats{
			Strength:     1,
			Dexterity:    1,
			Constitution: 1,
			Intelligence: 1,
			Wisdom:       1,
			Charisma:     1,
			Luck:         1,
		},
		Race:         RaceHuman,
		Class:        ClassFighter,
		HasCharacter: true,
	}
}
