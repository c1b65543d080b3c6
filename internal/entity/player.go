package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
)

// Color is the token a player's chips carry on the grid.
type Color string

// NoColor marks an empty cell. No player may use it.
const NoColor Color = ""

var Colors = []Color{"red", "green", "blue", "yellow", "cyan", "magenta"}

var (
	ErrEmptyName    = errors.New("player name is empty")
	ErrUnknownColor = errors.New("unknown color")
	ErrSameColor    = errors.New("players must use different colors")
)

// IsKnownColor reports whether c belongs to the playable color set.
func IsKnownColor(c Color) bool {
	return slices.Contains(Colors, c)
}

type Player struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
	Wins  int    `json:"wins"`
}

func NewPlayer(name string, color Color) (*Player, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if !IsKnownColor(color) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	return &Player{Name: name, Color: color}, nil
}

func (that *Player) IncrementWins() {
	that.Wins++
}

func (that *Player) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
		Wins  *int    `json:"wins"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return apperror.Deserialization("player", err)
	}

	if raw.Name == nil || *raw.Name == "" {
		return apperror.Deserialization("player", ErrEmptyName)
	}

	if raw.Color == nil || Color(*raw.Color) == NoColor {
		return apperror.Deserialization("player "+*raw.Name, ErrUnknownColor)
	}

	wins := 0
	if raw.Wins != nil {
		wins = *raw.Wins
	}

	if wins < 0 {
		return apperror.Deserialization("player "+*raw.Name, fmt.Errorf("negative wins %d", wins))
	}

	*that = Player{Name: *raw.Name, Color: Color(*raw.Color), Wins: wins}

	return nil
}
