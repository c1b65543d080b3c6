// Package console is the terminal front end of the game: menus, prompts and
// board rendering over a line-oriented reader and writer.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
	"github.com/rocketscienceinc/connect-four/internal/entity"
	"github.com/rocketscienceinc/connect-four/internal/repository"
	"github.com/rocketscienceinc/connect-four/internal/usecase"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"

	emptyCell = "·"
	chip      = "●"
)

var ansiColors = map[entity.Color]string{
	"red":     "\033[31m",
	"green":   "\033[32m",
	"yellow":  "\033[33m",
	"blue":    "\033[34m",
	"magenta": "\033[35m",
	"cyan":    "\033[36m",
}

type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	colors bool
}

func New(in io.Reader, out io.Writer, colors bool) *Console {
	return &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		colors: colors,
	}
}

// NewStdio binds the console to the process terminal. Colors are enabled
// only when stdout is a terminal.
func NewStdio() *Console {
	fd := os.Stdout.Fd()
	return New(os.Stdin, os.Stdout, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func (that *Console) Welcome() {
	that.println(that.bold("WELCOME TO CONNECT FOUR!"))
	that.println("")
}

func (that *Console) MainMenu() (usecase.MenuChoice, error) {
	that.println("Please choose an option:")
	that.println(that.bold("(N)") + "ew Game")
	that.println(that.bold("(L)") + "oad Game")
	that.println(that.bold("(Q)") + "uit")

	for {
		line, err := that.readLine()
		if err != nil {
			return 0, err
		}

		switch strings.ToUpper(line) {
		case "N":
			return usecase.MenuNewGame, nil
		case "L":
			return usecase.MenuLoadGame, nil
		case "Q":
			return usecase.MenuQuit, nil
		}

		that.println("Invalid option, please choose again:")
	}
}

func (that *Console) SetupPlayers() (usecase.PlayerSetup, usecase.PlayerSetup, error) {
	var players [2]usecase.PlayerSetup

	for i := range players {
		name, err := that.promptName(i + 1)
		if err != nil {
			return players[0], players[1], err
		}

		taken := entity.NoColor
		if i > 0 {
			taken = players[0].Color
		}

		color, err := that.promptColor(i+1, taken)
		if err != nil {
			return players[0], players[1], err
		}

		players[i] = usecase.PlayerSetup{Name: name, Color: color}
	}

	return players[0], players[1], nil
}

func (that *Console) promptName(number int) (string, error) {
	that.printf("Enter player %d name:\n", number)

	for {
		name, err := that.readLine()
		if err != nil {
			return "", err
		}

		if name != "" {
			return name, nil
		}

		that.printf("Name can't be empty. Enter player %d name:\n", number)
	}
}

func (that *Console) promptColor(number int, taken entity.Color) (entity.Color, error) {
	palette := colorList()
	that.printf("Enter player %d color (%s):\n", number, palette)

	for {
		line, err := that.readLine()
		if err != nil {
			return entity.NoColor, err
		}

		color := entity.Color(strings.ToLower(line))
		switch {
		case !entity.IsKnownColor(color):
			that.printf("Invalid color. Enter player %d color (%s):\n", number, palette)
		case color == taken:
			that.printf("%s is already taken. Enter player %d color (%s):\n", color, number, palette)
		default:
			return color, nil
		}
	}
}

func (that *Console) PromptCommand(player *entity.Player, columns int) (usecase.Command, error) {
	that.printf("%s, please enter a column number (1-%d), 's' to save game, 'l' to load game or 'q' to quit:\n",
		player.Name, columns)

	for {
		line, err := that.readLine()
		if err != nil {
			return usecase.Command{}, err
		}

		if cmd, ok := parseCommand(line, columns); ok {
			return cmd, nil
		}

		that.printf("Invalid input. Please enter a number between 1-%d, or 's' to save game, 'l' to load game or 'q' to quit.\n", columns)
	}
}

// parseCommand reads a 1-based column or a command letter.
func parseCommand(line string, columns int) (usecase.Command, bool) {
	switch strings.ToLower(line) {
	case "s":
		return usecase.Command{Kind: usecase.CommandSave}, true
	case "l":
		return usecase.Command{Kind: usecase.CommandLoad}, true
	case "q":
		return usecase.Command{Kind: usecase.CommandQuit}, true
	}

	column, err := strconv.Atoi(line)
	if err != nil || column < 1 || column > columns {
		return usecase.Command{}, false
	}

	return usecase.Command{Kind: usecase.CommandColumn, Column: column - 1}, true
}

func (that *Console) PromptReplay() (bool, error) {
	that.println("Do you want to play again? (y/n)")

	for {
		line, err := that.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}

		that.println("Invalid input. Please type 'y' or 'n'.")
	}
}

func (that *Console) PromptSaveName() (string, error) {
	that.printf("Please enter a save game file name (%d to %d characters long):\n",
		repository.MinSaveNameLength, repository.MaxSaveNameLength)

	for {
		name, err := that.readLine()
		if err != nil {
			return "", err
		}

		if repository.ValidateSaveName(name) == nil {
			return name, nil
		}

		that.printf("The save game file name must have between %d to %d characters. Please try again.\n",
			repository.MinSaveNameLength, repository.MaxSaveNameLength)
	}
}

func (that *Console) PromptSaveChoice(names []string) (string, error) {
	that.println("Select a save game to load:")
	for i, name := range names {
		that.printf("%d. %s\n", i+1, name)
	}

	for {
		line, err := that.readLine()
		if err != nil {
			return "", err
		}

		index, err := strconv.Atoi(line)
		if err == nil && index >= 1 && index <= len(names) {
			return names[index-1], nil
		}

		that.println("Invalid selection. Please try again.")
	}
}

func (that *Console) RenderBoard(board *entity.Board) {
	var sb strings.Builder

	for row := 0; row < board.Rows(); row++ {
		sb.WriteString("|")
		for column := 0; column < board.Columns(); column++ {
			sb.WriteString(" ")
			sb.WriteString(that.cell(board.Cell(row, column)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	numbers := make([]string, board.Columns())
	for column := range numbers {
		numbers[column] = fmt.Sprintf("%3d", column+1)
	}
	sb.WriteString(strings.Join(numbers, " "))
	sb.WriteString("\n")

	that.printf("%s", sb.String())
}

func (that *Console) cell(color entity.Color) string {
	if color == entity.NoColor {
		return emptyCell
	}

	if !that.colors {
		return strings.ToUpper(string(color[:1]))
	}

	return that.paint(color, chip)
}

func (that *Console) AnnounceTurn(player *entity.Player) {
	that.println("")
	that.println(that.paint(player.Color, that.bold(player.Name+"'s turn.")))
}

func (that *Console) AnnounceResult(session *entity.Session, outcome entity.Outcome) {
	that.println("")

	switch outcome.Status {
	case entity.StatusWin:
		winner := session.Player(outcome.Winner)
		that.println(that.paint(winner.Color, that.bold(winner.Name)) + " won!")
	case entity.StatusTie:
		that.println("The game is a " + that.bold("tie") + "!")
	}

	that.println("")
	that.println(that.bold("Scoreboard:"))
	for _, slot := range []entity.Slot{entity.Player1, entity.Player2} {
		player := session.Player(slot)
		that.printf("%s %d\n", that.paint(player.Color, that.bold(player.Name+":")), player.Wins)
	}
	that.printf("%s %d\n", that.bold("Ties:"), session.Ties())
	that.println("")
}

func (that *Console) AnnounceRejection(kind apperror.Kind, _ int) {
	switch kind {
	case apperror.KindColumnFull:
		that.println("Column is full. Please select another column.")
	case apperror.KindOutOfBounds:
		that.println("Placement outside of board boundaries. Please select a valid column.")
	default:
		that.printf("Move rejected: %s.\n", kind)
	}
}

func (that *Console) Notify(message string) {
	that.println(message)
}

func (that *Console) Goodbye() {
	that.println("")
	that.println(that.bold("Thank you for playing!"))
}

func (that *Console) readLine() (string, error) {
	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", io.EOF
	}

	return strings.TrimSpace(that.in.Text()), nil
}

func (that *Console) paint(color entity.Color, text string) string {
	code, ok := ansiColors[color]
	if !that.colors || !ok {
		return text
	}

	return code + text + ansiReset
}

func (that *Console) bold(text string) string {
	if !that.colors {
		return text
	}

	return ansiBold + text + ansiReset
}

func (that *Console) println(text string) {
	_, _ = fmt.Fprintln(that.out, text)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

func colorList() string {
	names := make([]string, len(entity.Colors))
	for i, color := range entity.Colors {
		names[i] = string(color)
	}

	return strings.Join(names, ", ")
}
