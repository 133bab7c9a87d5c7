//go:build unix

package terminal

import "golang.org/x/sys/unix"

func winsize(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}
	s := Size{Cols: int(ws.Col), Rows: int(ws.Row)}
	if ws.Xpixel > 0 && ws.Col > 0 {
		s.CellW = int(ws.Xpixel) / int(ws.Col)
	}
	if ws.Ypixel > 0 && ws.Row > 0 {
		s.CellH = int(ws.Ypixel) / int(ws.Row)
	}
	return s
}
