package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
)

type sessionJSON struct {
	Player1       *Player         `json:"player1"`
	Player2       *Player         `json:"player2"`
	Board         *Board          `json:"board"`
	CurrentPlayer json.RawMessage `json:"current_player"`
	First         json.RawMessage `json:"first,omitempty"`
	Ties          int             `json:"ties"`
	GamesPlayed   int             `json:"games_played"`
	State         string          `json:"state,omitempty"`
}

func (that *Session) MarshalJSON() ([]byte, error) {
	current, err := json.Marshal(that.players[that.current])
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current player: %w", err)
	}

	first, err := json.Marshal(that.players[that.first])
	if err != nil {
		return nil, fmt.Errorf("failed to marshal first player: %w", err)
	}

	return json.Marshal(sessionJSON{
		Player1:       that.players[Player1],
		Player2:       that.players[Player2],
		Board:         that.board,
		CurrentPlayer: current,
		First:         first,
		Ties:          that.ties,
		GamesPlayed:   that.gamesPlayed,
		State:         that.state.String(),
	})
}

// UnmarshalSession restores a session written by MarshalJSON. Every failure
// is an apperror of kind Deserialization.
func UnmarshalSession(data []byte, opts ...Option) (*Session, error) {
	session := newSession(opts)
	if err := session.decode(data); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *Session) UnmarshalJSON(data []byte) error {
	if that.policy == "" {
		*that = *newSession(nil)
	}

	return that.decode(data)
}

func (that *Session) decode(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return apperror.Deserialization("session", err)
	}

	if in.Player1 == nil || in.Player2 == nil {
		return apperror.Deserialization("session", errors.New("missing player"))
	}

	if in.Board == nil {
		return apperror.Deserialization("session", errors.New("missing board"))
	}

	if in.Ties < 0 || in.GamesPlayed < 0 {
		return apperror.Deserialization("session", fmt.Errorf("negative counters ties=%d games_played=%d", in.Ties, in.GamesPlayed))
	}

	if err := that.validate(in.Player1, in.Player2); err != nil {
		return apperror.Deserialization("session", err)
	}

	that.players = [2]*Player{in.Player1, in.Player2}
	that.board = in.Board
	that.rows, that.columns = in.Board.Rows(), in.Board.Columns()
	that.ties = in.Ties
	that.gamesPlayed = in.GamesPlayed

	if err := that.checkTokens(); err != nil {
		return err
	}

	current, err := that.identify(in.CurrentPlayer)
	if err != nil {
		return apperror.Deserialization("current_player", err)
	}
	that.current = current

	// older saves carry no opener; rounds used to start by games played parity
	that.first = Player1
	if in.GamesPlayed%2 == 1 {
		that.first = Player2
	}

	if len(in.First) > 0 && !bytes.Equal(in.First, []byte("null")) {
		if that.first, err = that.identify(in.First); err != nil {
			return apperror.Deserialization("first", err)
		}
	}

	return that.restoreState(in.State)
}

func (that *Session) checkTokens() error {
	for i, row := range that.board.grid {
		for j, cell := range row {
			if cell == NoColor {
				continue
			}

			if _, ok := that.slotOf(cell); !ok {
				return apperror.Deserialization("board", fmt.Errorf("token %q at row %d column %d belongs to no player", cell, i, j))
			}
		}
	}

	return nil
}

func (that *Session) restoreState(state string) error {
	result := that.resolve(that.board.DetectWinner())

	switch state {
	case "", StateAwaitingMove.String():
		that.state = StateAwaitingMove
		if result.Status != StatusOngoing {
			that.state = StateRoundOver
		}
	case StateRoundOver.String():
		that.state = StateRoundOver
	case StateAwaitingReplay.String(), StateFinished.String():
		that.state = StateAwaitingReplay
	default:
		return apperror.Deserialization("state", fmt.Errorf("unknown state %q", state))
	}

	if that.state != StateAwaitingMove && result.Status == StatusOngoing {
		return apperror.Deserialization("state", fmt.Errorf("state %q with an undecided board", state))
	}

	if that.state != StateAwaitingMove {
		that.outcome = result
	}

	return nil
}

// identify resolves a player reference, either a full player object or a
// string holding a color or a name.
func (that *Session) identify(raw json.RawMessage) (Slot, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Player1, errors.New("missing player reference")
	}

	var ref string
	if err := json.Unmarshal(raw, &ref); err == nil {
		for i, player := range that.players {
			if string(player.Color) == ref {
				return Slot(i), nil
			}
		}

		for i, player := range that.players {
			if player.Name == ref {
				return Slot(i), nil
			}
		}

		return Player1, fmt.Errorf("no player matches %q", ref)
	}

	var player Player
	if err := json.Unmarshal(raw, &player); err != nil {
		return Player1, err
	}

	slot, ok := that.slotOf(player.Color)
	if !ok || that.players[slot].Name != player.Name {
		return Player1, fmt.Errorf("no player matches %s/%s", player.Name, player.Color)
	}

	return slot, nil
}
