package entity

import (
	"errors"
	"fmt"
)

// Slot identifies one of the two seats of a session.
type Slot int

const (
	Player1 Slot = iota
	Player2
)

func (s Slot) Other() Slot {
	if s == Player1 {
		return Player2
	}
	return Player1
}

func (s Slot) String() string {
	if s == Player2 {
		return "player2"
	}
	return "player1"
}

type State int

const (
	StateAwaitingMove State = iota
	StateRoundOver
	StateAwaitingReplay
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaitingMove:
		return "awaiting_move"
	case StateRoundOver:
		return "round_over"
	case StateAwaitingReplay:
		return "awaiting_replay"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// OpenerPolicy decides who opens the round after a replay.
type OpenerPolicy string

const (
	OpenerAlternate OpenerPolicy = "alternate"
	OpenerLoser     OpenerPolicy = "loser"
	OpenerWinner    OpenerPolicy = "winner"
)

func (p OpenerPolicy) Valid() bool {
	switch p {
	case OpenerAlternate, OpenerLoser, OpenerWinner:
		return true
	default:
		return false
	}
}

// Outcome is a round result with the winner resolved to its seat.
type Outcome struct {
	Status Status
	Winner Slot
}

// Move is the result of a legal placement.
type Move struct {
	Player  Slot
	Column  int
	Row     int
	Outcome Outcome
}

var (
	ErrWrongState    = errors.New("operation not allowed in current session state")
	ErrUnknownPolicy = errors.New("unknown opener policy")
)

type Session struct {
	board   *Board
	players [2]*Player
	first   Slot
	current Slot

	ties        int
	gamesPlayed int

	state   State
	outcome Outcome

	rows, columns int
	policy        OpenerPolicy
}

type Option func(*Session)

// WithBoardSize sets the size of every board the session creates.
func WithBoardSize(rows, columns int) Option {
	return func(s *Session) {
		s.rows = rows
		s.columns = columns
	}
}

func WithOpenerPolicy(policy OpenerPolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

func NewSession(player1, player2 *Player, opts ...Option) (*Session, error) {
	session := newSession(opts)
	if err := session.validate(player1, player2); err != nil {
		return nil, err
	}

	board, err := NewBoard(session.rows, session.columns)
	if err != nil {
		return nil, err
	}

	session.board = board
	session.players = [2]*Player{player1, player2}
	session.first = Player1
	session.current = Player1
	session.state = StateAwaitingMove

	return session, nil
}

func newSession(opts []Option) *Session {
	session := &Session{
		rows:    DefaultRows,
		columns: DefaultColumns,
		policy:  OpenerAlternate,
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

func (that *Session) validate(player1, player2 *Player) error {
	if !that.policy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, that.policy)
	}

	if player1 == nil || player2 == nil {
		return errors.New("session needs two players")
	}

	if player1.Color == player2.Color {
		return fmt.Errorf("%w: both %q", ErrSameColor, player1.Color)
	}

	return nil
}

func (that *Session) Board() *Board {
	return that.board
}

func (that *Session) Player(slot Slot) *Player {
	return that.players[slot]
}

func (that *Session) CurrentSlot() Slot {
	return that.current
}

func (that *Session) CurrentPlayer() *Player {
	return that.players[that.current]
}

func (that *Session) FirstSlot() Slot {
	return that.first
}

func (that *Session) Ties() int {
	return that.ties
}

func (that *Session) GamesPlayed() int {
	return that.gamesPlayed
}

func (that *Session) State() State {
	return that.state
}

// Outcome returns the result of the last decided round.
func (that *Session) Outcome() Outcome {
	return that.outcome
}

// Play drops a chip for the current player. A rejected placement leaves the
// session untouched and returns an apperror of kind OutOfBounds or ColumnFull.
func (that *Session) Play(column int) (Move, error) {
	if that.state != StateAwaitingMove {
		return Move{}, fmt.Errorf("%w: play in %s", ErrWrongState, that.state)
	}

	slot := that.current
	row, err := that.board.Place(that.players[slot], column)
	if err != nil {
		return Move{}, fmt.Errorf("invalid placement: %w", err)
	}

	move := Move{Player: slot, Column: column, Row: row, Outcome: that.resolve(that.board.DetectWinner())}
	if move.Outcome.Status == StatusOngoing {
		that.current = slot.Other()
		return move, nil
	}

	that.outcome = move.Outcome
	that.state = StateRoundOver

	return move, nil
}

// CloseRound books the decided round into the scores.
func (that *Session) CloseRound() (Outcome, error) {
	if that.state != StateRoundOver {
		return Outcome{}, fmt.Errorf("%w: close round in %s", ErrWrongState, that.state)
	}

	that.gamesPlayed++

	switch that.outcome.Status {
	case StatusWin:
		that.players[that.outcome.Winner].IncrementWins()
	case StatusTie:
		that.ties++
	}

	that.state = StateAwaitingReplay

	return that.outcome, nil
}

// PlayAgain starts a new round on an empty board.
func (that *Session) PlayAgain() error {
	if that.state != StateAwaitingReplay {
		return fmt.Errorf("%w: replay in %s", ErrWrongState, that.state)
	}

	board, err := NewBoard(that.board.Rows(), that.board.Columns())
	if err != nil {
		return err
	}

	that.board = board
	that.first = that.nextOpener()
	that.current = that.first
	that.outcome = Outcome{}
	that.state = StateAwaitingMove

	return nil
}

func (that *Session) Quit() {
	that.state = StateFinished
}

func (that *Session) nextOpener() Slot {
	if that.outcome.Status == StatusWin {
		switch that.policy {
		case OpenerLoser:
			return that.outcome.Winner.Other()
		case OpenerWinner:
			return that.outcome.Winner
		}
	}

	return that.first.Other()
}

// resolve maps a grid result to a seat. Colors are unique within a session.
func (that *Session) resolve(result Result) Outcome {
	if result.Status != StatusWin {
		return Outcome{Status: result.Status}
	}

	slot, _ := that.slotOf(result.Color)

	return Outcome{Status: StatusWin, Winner: slot}
}

func (that *Session) slotOf(color Color) (Slot, bool) {
	for i, player := range that.players {
		if player.Color == color {
			return Slot(i), true
		}
	}

	return Player1, false
}
