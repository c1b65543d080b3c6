package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, session *Session) *Session {
	t.Helper()

	data, err := json.Marshal(session)
	require.NoError(t, err)

	restored, err := UnmarshalSession(data)
	require.NoError(t, err)

	return restored
}

func assertSameSession(t *testing.T, want, got *Session) {
	t.Helper()

	assert.Equal(t, want.Board().Grid(), got.Board().Grid())
	assert.Equal(t, *want.Player(Player1), *got.Player(Player1))
	assert.Equal(t, *want.Player(Player2), *got.Player(Player2))
	assert.Equal(t, want.CurrentSlot(), got.CurrentSlot())
	assert.Equal(t, want.FirstSlot(), got.FirstSlot())
	assert.Equal(t, want.Ties(), got.Ties())
	assert.Equal(t, want.GamesPlayed(), got.GamesPlayed())
	assert.Equal(t, want.State(), got.State())
	assert.Equal(t, want.Outcome(), got.Outcome())
}

func TestSession_JSONRoundTrip(t *testing.T) {
	t.Run("Fresh session", func(t *testing.T) {
		session := newTestSession(t)

		assertSameSession(t, session, roundTrip(t, session))
	})

	t.Run("Mid round after several rounds", func(t *testing.T) {
		// Given: a session with history and a round in progress
		session := newTestSession(t)
		play(t, session, 0, 0, 1, 1, 2, 2, 3)
		_, err := session.CloseRound()
		require.NoError(t, err)
		require.NoError(t, session.PlayAgain())
		play(t, session, 3, 3, 4)

		// When: it goes through JSON
		restored := roundTrip(t, session)

		// Then: everything survives and play resumes with the same player
		assertSameSession(t, session, restored)
		assert.Equal(t, StateAwaitingMove, restored.State())

		move, err := restored.Play(5)
		require.NoError(t, err)
		assert.Equal(t, session.CurrentSlot(), move.Player)
	})

	t.Run("Round over before scoring", func(t *testing.T) {
		session := newTestSession(t)
		play(t, session, 0, 0, 1, 1, 2, 2, 3)

		restored := roundTrip(t, session)
		assertSameSession(t, session, restored)

		_, err := restored.CloseRound()
		require.NoError(t, err)
		assert.Equal(t, 1, restored.Player(Player1).Wins)
	})

	t.Run("Awaiting replay after a tie", func(t *testing.T) {
		session := newTestSession(t)
		grid := tieGrid()
		grid[0] = append([]Color{NoColor}, grid[0][1:]...)
		board, err := BoardFromGrid(grid)
		require.NoError(t, err)
		session.board = board
		play(t, session, 0)
		_, err = session.CloseRound()
		require.NoError(t, err)

		restored := roundTrip(t, session)
		assertSameSession(t, session, restored)

		require.NoError(t, restored.PlayAgain())
		assert.Equal(t, Player2, restored.FirstSlot())
	})

	t.Run("Non default board size survives and is reused", func(t *testing.T) {
		session := newTestSession(t, WithBoardSize(5, 8))
		play(t, session, 7)

		restored := roundTrip(t, session)
		assert.Equal(t, 5, restored.Board().Rows())
		assert.Equal(t, 8, restored.Board().Columns())
	})
}

func TestSession_MarshalJSON(t *testing.T) {
	session := newTestSession(t, WithBoardSize(4, 4))
	play(t, session, 2)

	data, err := json.Marshal(session)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"player1": {"name":"Jampa","color":"red","wins":0},
		"player2": {"name":"Matos","color":"yellow","wins":0},
		"board": {"grid":[
			[null,null,null,null],
			[null,null,null,null],
			[null,null,null,null],
			[null,null,"red",null]]},
		"current_player": {"name":"Matos","color":"yellow","wins":0},
		"first": {"name":"Jampa","color":"red","wins":0},
		"ties": 0,
		"games_played": 0,
		"state": "awaiting_move"
	}`, string(data))
}

const legacyBoard = `{"grid":[
	[null,null,null,null],
	[null,null,null,null],
	[null,null,null,null],
	["red","yellow",null,null]]}`

func TestUnmarshalSession(t *testing.T) {
	t.Run("Accepts a string reference for the current player", func(t *testing.T) {
		blob := `{
			"player1": {"name":"Jampa","color":"red","wins":2},
			"player2": {"name":"Matos","color":"yellow"},
			"board": ` + legacyBoard + `,
			"current_player": "yellow",
			"first": "Jampa",
			"ties": 1,
			"games_played": 3
		}`

		session, err := UnmarshalSession([]byte(blob))
		require.NoError(t, err)

		assert.Equal(t, Player2, session.CurrentSlot())
		assert.Equal(t, Player1, session.FirstSlot())
		assert.Equal(t, 2, session.Player(Player1).Wins)
		assert.Equal(t, 0, session.Player(Player2).Wins)
		assert.Equal(t, 1, session.Ties())
		assert.Equal(t, 3, session.GamesPlayed())
		assert.Equal(t, StateAwaitingMove, session.State())
	})

	t.Run("Derives the opener from games played when missing", func(t *testing.T) {
		blob := `{
			"player1": {"name":"Jampa","color":"red"},
			"player2": {"name":"Matos","color":"yellow"},
			"board": ` + legacyBoard + `,
			"current_player": {"name":"Jampa","color":"red","wins":0},
			"ties": 0,
			"games_played": 1
		}`

		session, err := UnmarshalSession([]byte(blob))
		require.NoError(t, err)

		assert.Equal(t, Player2, session.FirstSlot())
		assert.Equal(t, Player1, session.CurrentSlot())
	})

	t.Run("A decided board resumes in round over", func(t *testing.T) {
		blob := `{
			"player1": {"name":"Jampa","color":"red"},
			"player2": {"name":"Matos","color":"yellow"},
			"board": {"grid":[
				[null,null,null,null],
				[null,null,null,null],
				[null,null,null,null],
				["red","red","red","red"]]},
			"current_player": "red",
			"ties": 0,
			"games_played": 0
		}`

		session, err := UnmarshalSession([]byte(blob))
		require.NoError(t, err)

		assert.Equal(t, StateRoundOver, session.State())
		assert.Equal(t, Outcome{Status: StatusWin, Winner: Player1}, session.Outcome())
	})

	t.Run("Applies options to the restored session", func(t *testing.T) {
		blob := `{
			"player1": {"name":"Jampa","color":"red"},
			"player2": {"name":"Matos","color":"yellow"},
			"board": {"grid":[
				[null,null,null,null],
				[null,null,null,null],
				[null,null,null,null],
				["red","red","red","red"]]},
			"current_player": "red",
			"first": "red",
			"ties": 0,
			"games_played": 0
		}`

		session, err := UnmarshalSession([]byte(blob), WithOpenerPolicy(OpenerWinner))
		require.NoError(t, err)

		_, err = session.CloseRound()
		require.NoError(t, err)
		require.NoError(t, session.PlayAgain())
		assert.Equal(t, Player1, session.FirstSlot())
	})

	t.Run("Rejects malformed blobs", func(t *testing.T) {
		players := `"player1": {"name":"Jampa","color":"red"}, "player2": {"name":"Matos","color":"yellow"},`

		for name, blob := range map[string]string{
			"not json":         `{`,
			"missing player":   `{"player1": {"name":"Jampa","color":"red"}, "board": ` + legacyBoard + `, "current_player": "red"}`,
			"missing board":    `{` + players + ` "current_player": "red"}`,
			"same colors":      `{"player1": {"name":"a","color":"red"}, "player2": {"name":"b","color":"red"}, "board": ` + legacyBoard + `, "current_player": "red"}`,
			"foreign token":    `{` + players + ` "board": {"grid":[[null,null,null,null],[null,null,null,null],[null,null,null,null],["blue",null,null,null]]}, "current_player": "red"}`,
			"unknown current":  `{` + players + ` "board": ` + legacyBoard + `, "current_player": "blue"}`,
			"missing current":  `{` + players + ` "board": ` + legacyBoard + `}`,
			"impostor current": `{` + players + ` "board": ` + legacyBoard + `, "current_player": {"name":"Eve","color":"red"}}`,
			"unknown first":    `{` + players + ` "board": ` + legacyBoard + `, "current_player": "red", "first": "blue"}`,
			"negative ties":    `{` + players + ` "board": ` + legacyBoard + `, "current_player": "red", "ties": -1}`,
			"unknown state":    `{` + players + ` "board": ` + legacyBoard + `, "current_player": "red", "state": "paused"}`,
			"state mismatch":   `{` + players + ` "board": ` + legacyBoard + `, "current_player": "red", "state": "round_over"}`,
		} {
			t.Run(name, func(t *testing.T) {
				session, err := UnmarshalSession([]byte(blob))

				require.ErrorIs(t, err, apperror.ErrDeserialization)
				assert.Nil(t, session)
			})
		}
	})

	t.Run("Session implements json.Unmarshaler", func(t *testing.T) {
		original := newTestSession(t)
		play(t, original, 1, 2)

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var restored Session
		require.NoError(t, json.Unmarshal(data, &restored))
		assertSameSession(t, original, &restored)
	})
}
