package terminal

import (
	"os"
	"strconv"

	xterm "github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// Default cell size in pixels when the terminal does not report one.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size is the terminal size in cells and, when known, pixels per cell.
type Size struct {
	Cols  int
	Rows  int
	CellW int
	CellH int
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// GetSize queries f. It tries the winsize ioctl for cell pixel size, then
// the portable size query, then COLUMNS/LINES, then 80x24.
func GetSize(f *os.File) Size {
	s := winsize(f.Fd())
	if s.Cols <= 0 || s.Rows <= 0 {
		if w, h, err := xterm.GetSize(f.Fd()); err == nil && w > 0 && h > 0 {
			s.Cols, s.Rows = w, h
		} else {
			s.Cols, s.Rows = envInt("COLUMNS", 80), envInt("LINES", 24)
		}
	}
	if s.CellW <= 0 || s.CellH <= 0 {
		s.CellW, s.CellH = DefaultCellW, DefaultCellH
	}
	return s
}

func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
