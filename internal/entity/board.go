package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
)

const (
	DefaultRows    = 6
	DefaultColumns = 7

	// MinSize is the smallest row or column count that still fits a line.
	MinSize = LineLength

	LineLength = 4
)

var ErrBoardSize = errors.New("board must have at least 4 rows and 4 columns")

// Status is the state of a round as read off the grid.
type Status int

const (
	StatusOngoing Status = iota
	StatusWin
	StatusTie
)

func (s Status) String() string {
	switch s {
	case StatusWin:
		return "win"
	case StatusTie:
		return "tie"
	default:
		return "ongoing"
	}
}

// Result is what DetectWinner reads from the grid. Color is set only for StatusWin.
type Result struct {
	Status Status
	Color  Color
}

// Board is a rows × columns grid. Row 0 is the top; chips fall toward the last row.
type Board struct {
	grid [][]Color
}

func NewBoard(rows, columns int) (*Board, error) {
	if rows < MinSize || columns < MinSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBoardSize, rows, columns)
	}

	grid := make([][]Color, rows)
	for i := range grid {
		grid[i] = make([]Color, columns)
	}

	return &Board{grid: grid}, nil
}

// BoardFromGrid builds a board holding a copy of grid.
func BoardFromGrid(grid [][]Color) (*Board, error) {
	if len(grid) < MinSize || len(grid[0]) < MinSize {
		return nil, ErrBoardSize
	}

	columns := len(grid[0])
	board := &Board{grid: make([][]Color, len(grid))}
	for i, row := range grid {
		if len(row) != columns {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), columns)
		}

		board.grid[i] = append([]Color(nil), row...)
	}

	return board, nil
}

func (that *Board) Rows() int {
	return len(that.grid)
}

func (that *Board) Columns() int {
	return len(that.grid[0])
}

func (that *Board) Cell(row, column int) Color {
	return that.grid[row][column]
}

// Grid returns a copy of the cells.
func (that *Board) Grid() [][]Color {
	out := make([][]Color, len(that.grid))
	for i, row := range that.grid {
		out[i] = append([]Color(nil), row...)
	}

	return out
}

// Place drops a chip of the player's color into column and returns the row it lands on.
func (that *Board) Place(player *Player, column int) (int, error) {
	if column < 0 || column >= that.Columns() {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrOutOfBounds, column)
	}

	if that.grid[0][column] != NoColor {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	for row := that.Rows() - 1; row >= 0; row-- {
		if that.grid[row][column] == NoColor {
			that.grid[row][column] = player.Color
			return row, nil
		}
	}

	// unreachable: row 0 was empty
	return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
}

func (that *Board) IsColumnFull(column int) bool {
	if column < 0 || column >= that.Columns() {
		return false
	}

	for _, row := range that.grid {
		if row[column] == NoColor {
			return false
		}
	}

	return true
}

func (that *Board) IsValidPlacement(column int) bool {
	return column >= 0 && column < that.Columns() && !that.IsColumnFull(column)
}

func (that *Board) IsFull() bool {
	for _, row := range that.grid {
		for _, cell := range row {
			if cell == NoColor {
				return false
			}
		}
	}

	return true
}

// DetectWinner scans horizontal, vertical, ↘ and ↗ lines in that order and
// reports the first line of four found, then a tie on a full grid.
func (that *Board) DetectWinner() Result {
	for _, check := range []func() Color{
		that.checkHorizontal,
		that.checkVertical,
		that.checkDiagonalDown,
		that.checkDiagonalUp,
	} {
		if color := check(); color != NoColor {
			return Result{Status: StatusWin, Color: color}
		}
	}

	if that.IsFull() {
		return Result{Status: StatusTie}
	}

	return Result{Status: StatusOngoing}
}

func (that *Board) checkHorizontal() Color {
	for _, row := range that.grid {
		if color := consecutive(row); color != NoColor {
			return color
		}
	}

	return NoColor
}

func (that *Board) checkVertical() Color {
	for _, column := range that.transpose() {
		if color := consecutive(column); color != NoColor {
			return color
		}
	}

	return NoColor
}

// checkDiagonalDown scans top-left to bottom-right lines.
func (that *Board) checkDiagonalDown() Color {
	for i := 0; i <= that.Rows()-LineLength; i++ {
		for j := 0; j <= that.Columns()-LineLength; j++ {
			line := []Color{that.grid[i][j], that.grid[i+1][j+1], that.grid[i+2][j+2], that.grid[i+3][j+3]}
			if color := sameColor(line); color != NoColor {
				return color
			}
		}
	}

	return NoColor
}

// checkDiagonalUp scans bottom-left to top-right lines.
func (that *Board) checkDiagonalUp() Color {
	for i := LineLength - 1; i < that.Rows(); i++ {
		for j := 0; j <= that.Columns()-LineLength; j++ {
			line := []Color{that.grid[i][j], that.grid[i-1][j+1], that.grid[i-2][j+2], that.grid[i-3][j+3]}
			if color := sameColor(line); color != NoColor {
				return color
			}
		}
	}

	return NoColor
}

func (that *Board) transpose() [][]Color {
	out := make([][]Color, that.Columns())
	for j := range out {
		out[j] = make([]Color, that.Rows())
		for i := range that.grid {
			out[j][i] = that.grid[i][j]
		}
	}

	return out
}

// consecutive returns the color of the first window of LineLength equal chips in cells.
func consecutive(cells []Color) Color {
	for start := 0; start+LineLength <= len(cells); start++ {
		if color := sameColor(cells[start : start+LineLength]); color != NoColor {
			return color
		}
	}

	return NoColor
}

// sameColor returns the shared color of window, or NoColor if any cell is empty or differs.
func sameColor(window []Color) Color {
	first := window[0]
	if first == NoColor {
		return NoColor
	}

	for _, cell := range window[1:] {
		if cell != first {
			return NoColor
		}
	}

	return first
}

type boardJSON struct {
	Grid [][]*string `json:"grid"`
}

func (that *Board) MarshalJSON() ([]byte, error) {
	out := boardJSON{Grid: make([][]*string, len(that.grid))}
	for i, row := range that.grid {
		out.Grid[i] = make([]*string, len(row))
		for j, cell := range row {
			if cell == NoColor {
				continue
			}

			token := string(cell)
			out.Grid[i][j] = &token
		}
	}

	return json.Marshal(out)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var in boardJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return apperror.Deserialization("board", err)
	}

	if len(in.Grid) == 0 {
		return apperror.Deserialization("board", errors.New("missing grid"))
	}

	grid := make([][]Color, len(in.Grid))
	for i, row := range in.Grid {
		grid[i] = make([]Color, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}

			if *cell == "" {
				return apperror.Deserialization("board", fmt.Errorf("empty token at row %d column %d", i, j))
			}

			grid[i][j] = Color(*cell)
		}
	}

	board, err := BoardFromGrid(grid)
	if err != nil {
		return apperror.Deserialization("board", err)
	}

	*that = *board

	return nil
}
