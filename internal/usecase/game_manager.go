package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
	"github.com/rocketscienceinc/connect-four/internal/entity"
)

var ErrNoSaves = errors.New("no saved games found")

type CommandKind int

const (
	CommandColumn CommandKind = iota
	CommandSave
	CommandLoad
	CommandQuit
)

// Command is what a player answers at the move prompt. Column is 0-based.
type Command struct {
	Kind   CommandKind
	Column int
}

type MenuChoice int

const (
	MenuNewGame MenuChoice = iota
	MenuLoadGame
	MenuQuit
)

type PlayerSetup struct {
	Name  string
	Color entity.Color
}

type saveRepo interface {
	List(ctx context.Context) ([]string, error)
	Write(ctx context.Context, name string, blob []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
}

// gameUI is the interactive boundary. Prompts block until they have a valid
// answer and return io.EOF once input is exhausted.
type gameUI interface {
	MainMenu() (MenuChoice, error)
	SetupPlayers() (PlayerSetup, PlayerSetup, error)
	PromptCommand(player *entity.Player, columns int) (Command, error)
	PromptReplay() (bool, error)
	PromptSaveName() (string, error)
	PromptSaveChoice(names []string) (string, error)

	RenderBoard(board *entity.Board)
	AnnounceTurn(player *entity.Player)
	AnnounceResult(session *entity.Session, outcome entity.Outcome)
	AnnounceRejection(kind apperror.Kind, column int)
	Notify(message string)
	Goodbye()
}

type GameManager struct {
	logger *slog.Logger
	ui     gameUI
	saves  saveRepo
	opts   []entity.Option
}

func NewGameManager(logger *slog.Logger, ui gameUI, saves saveRepo, opts ...entity.Option) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		ui:     ui,
		saves:  saves,
		opts:   opts,
	}
}

// Run shows the main menu and plays until the players quit or input ends.
func (that *GameManager) Run(ctx context.Context) error {
	err := that.run(ctx)
	if errors.Is(err, io.EOF) {
		that.logger.Info("input closed, leaving")
		return nil
	}

	return err
}

func (that *GameManager) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := that.ui.MainMenu()
		if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		var session *entity.Session

		switch choice {
		case MenuNewGame:
			if session, err = that.newSession(); err != nil {
				if errors.Is(err, io.EOF) {
					return err
				}

				that.ui.Notify(err.Error())
				continue
			}
		case MenuLoadGame:
			if session, err = that.load(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return err
				}

				continue
			}
		case MenuQuit:
			that.ui.Goodbye()
			return nil
		}

		_, err = that.Play(ctx, session)
		return err
	}
}

// Play drives session until it finishes and returns the session that was
// active at the end, which differs from the argument after a load.
func (that *GameManager) Play(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	log := that.logger.With("method", "Play")

	for {
		if err := ctx.Err(); err != nil {
			return session, err
		}

		switch session.State() {
		case entity.StateAwaitingMove:
			next, err := that.turn(ctx, session)
			if err != nil {
				return session, err
			}

			session = next
		case entity.StateRoundOver:
			outcome, err := session.CloseRound()
			if err != nil {
				return session, fmt.Errorf("failed to close round: %w", err)
			}

			log.Info("round over",
				"status", outcome.Status.String(),
				"winner", winnerName(session, outcome),
				"games_played", session.GamesPlayed(),
				"ties", session.Ties(),
			)

			that.ui.RenderBoard(session.Board())
			that.ui.AnnounceResult(session, outcome)
		case entity.StateAwaitingReplay:
			again, err := that.ui.PromptReplay()
			if err != nil {
				return session, fmt.Errorf("failed to read replay decision: %w", err)
			}

			if !again {
				session.Quit()
				continue
			}

			if err = session.PlayAgain(); err != nil {
				return session, fmt.Errorf("failed to start new round: %w", err)
			}
		case entity.StateFinished:
			that.ui.Goodbye()
			return session, nil
		}
	}
}

// turn asks the current player for one command and applies it.
func (that *GameManager) turn(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	log := that.logger.With("method", "turn")

	that.ui.AnnounceTurn(session.CurrentPlayer())
	that.ui.RenderBoard(session.Board())

	cmd, err := that.ui.PromptCommand(session.CurrentPlayer(), session.Board().Columns())
	if err != nil {
		return session, fmt.Errorf("failed to read command: %w", err)
	}

	switch cmd.Kind {
	case CommandColumn:
		if _, err = session.Play(cmd.Column); err != nil {
			kind := apperror.KindOf(err)
			if kind != apperror.KindOutOfBounds && kind != apperror.KindColumnFull {
				return session, err
			}

			log.Debug("placement rejected", "player", session.CurrentPlayer().Name, "column", cmd.Column, "error", err)
			that.ui.AnnounceRejection(kind, cmd.Column)
		}
	case CommandSave:
		if err = that.save(ctx, session); err != nil {
			return session, err
		}
	case CommandLoad:
		loaded, err := that.load(ctx)
		if errors.Is(err, io.EOF) {
			return session, err
		}

		if err == nil {
			return loaded, nil
		}
	case CommandQuit:
		session.Quit()
	}

	return session, nil
}

func (that *GameManager) newSession() (*entity.Session, error) {
	first, second, err := that.ui.SetupPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to set up players: %w", err)
	}

	player1, err := entity.NewPlayer(first.Name, first.Color)
	if err != nil {
		return nil, fmt.Errorf("player 1: %w", err)
	}

	player2, err := entity.NewPlayer(second.Name, second.Color)
	if err != nil {
		return nil, fmt.Errorf("player 2: %w", err)
	}

	session, err := entity.NewSession(player1, player2, that.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("new session", "player1", player1.Name, "player2", player2.Name)

	return session, nil
}

// save writes the session under a name chosen by the player. Storage
// failures are reported to the player; only input errors are returned.
func (that *GameManager) save(ctx context.Context, session *entity.Session) error {
	log := that.logger.With("method", "save")

	name, err := that.ui.PromptSaveName()
	if err != nil {
		return fmt.Errorf("failed to read save name: %w", err)
	}

	blob, err := json.Marshal(session)
	if err != nil {
		log.Error("failed to marshal session", "error", err)
		that.ui.Notify(fmt.Sprintf("Could not save the game: %v", err))
		return nil
	}

	if err = that.saves.Write(ctx, name, blob); err != nil {
		log.Error("failed to write save", "name", name, "error", err)
		that.ui.Notify(fmt.Sprintf("Could not save the game: %v", err))
		return nil
	}

	log.Info("game saved", "name", name)
	that.ui.Notify(fmt.Sprintf("Game saved successfully as %s.", name))

	return nil
}

// load lets the player pick a save and restores it. Every failure is
// reported to the player before it is returned.
func (that *GameManager) load(ctx context.Context) (*entity.Session, error) {
	log := that.logger.With("method", "load")

	names, err := that.saves.List(ctx)
	if err != nil {
		log.Error("failed to list saves", "error", err)
		that.ui.Notify(fmt.Sprintf("Could not list saved games: %v", err))
		return nil, err
	}

	if len(names) == 0 {
		that.ui.Notify("No saved games found.")
		return nil, ErrNoSaves
	}

	name, err := that.ui.PromptSaveChoice(names)
	if err != nil {
		return nil, fmt.Errorf("failed to read save choice: %w", err)
	}

	blob, err := that.saves.Read(ctx, name)
	if err != nil {
		log.Error("failed to read save", "name", name, "error", err)
		that.ui.Notify(fmt.Sprintf("Could not load %s: %v", name, err))
		return nil, err
	}

	session, err := entity.UnmarshalSession(blob, that.opts...)
	if err != nil {
		log.Error("failed to restore save", "name", name, "error", err)
		that.ui.Notify(fmt.Sprintf("Could not load %s: %v", name, err))
		return nil, err
	}

	log.Info("game loaded", "name", name)
	that.ui.Notify(fmt.Sprintf("Loaded %s.", name))

	return session, nil
}

func winnerName(session *entity.Session, outcome entity.Outcome) string {
	if outcome.Status != entity.StatusWin {
		return ""
	}

	return session.Player(outcome.Winner).Name
}
