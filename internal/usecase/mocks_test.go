package usecase

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
	"github.com/rocketscienceinc/connect-four/internal/entity"
)

type mockSaveRepo struct {
	mock.Mock
}

func (m *mockSaveRepo) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockSaveRepo) Write(ctx context.Context, name string, blob []byte) error {
	return m.Called(ctx, name, blob).Error(0)
}

func (m *mockSaveRepo) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	blob, _ := args.Get(0).([]byte)
	return blob, args.Error(1)
}

// scriptedUI answers prompts from fixed queues and records what was shown.
// An exhausted queue answers io.EOF.
type scriptedUI struct {
	menu       []MenuChoice
	setups     [][2]PlayerSetup
	commands   []Command
	replays    []bool
	saveNames  []string
	saveChoice []string

	boards      int
	turns       []string
	results     []entity.Outcome
	rejections  []apperror.Kind
	notices     []string
	goodbyes    int
	offeredSave [][]string
}

func pop[T any](queue *[]T) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, io.EOF
	}

	head := (*queue)[0]
	*queue = (*queue)[1:]

	return head, nil
}

func columns(cols ...int) []Command {
	out := make([]Command, 0, len(cols))
	for _, c := range cols {
		out = append(out, Command{Kind: CommandColumn, Column: c})
	}

	return out
}

func (that *scriptedUI) MainMenu() (MenuChoice, error) {
	return pop(&that.menu)
}

func (that *scriptedUI) SetupPlayers() (PlayerSetup, PlayerSetup, error) {
	setup, err := pop(&that.setups)
	return setup[0], setup[1], err
}

func (that *scriptedUI) PromptCommand(player *entity.Player, _ int) (Command, error) {
	that.turns = append(that.turns, player.Name)
	return pop(&that.commands)
}

func (that *scriptedUI) PromptReplay() (bool, error) {
	return pop(&that.replays)
}

func (that *scriptedUI) PromptSaveName() (string, error) {
	return pop(&that.saveNames)
}

func (that *scriptedUI) PromptSaveChoice(names []string) (string, error) {
	that.offeredSave = append(that.offeredSave, names)
	return pop(&that.saveChoice)
}

func (that *scriptedUI) RenderBoard(*entity.Board) {
	that.boards++
}

func (that *scriptedUI) AnnounceTurn(*entity.Player) {}

func (that *scriptedUI) AnnounceResult(_ *entity.Session, outcome entity.Outcome) {
	that.results = append(that.results, outcome)
}

func (that *scriptedUI) AnnounceRejection(kind apperror.Kind, _ int) {
	that.rejections = append(that.rejections, kind)
}

func (that *scriptedUI) Notify(message string) {
	that.notices = append(that.notices, message)
}

func (that *scriptedUI) Goodbye() {
	that.goodbyes++
}
