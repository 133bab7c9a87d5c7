package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func envOf(m map[string]string) Env {
	return func(k string) string { return m[k] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Terminal
	}{
		{"term program ghostty", map[string]string{"TERM_PROGRAM": "ghostty"}, TermGhostty},
		{"term kitty", map[string]string{"TERM": "xterm-kitty"}, TermKitty},
		{"iterm app", map[string]string{"TERM_PROGRAM": "iTerm.app"}, TermITerm2},
		{"iterm over lc_terminal", map[string]string{"LC_TERMINAL": "iTerm2"}, TermITerm2},
		{"wezterm executable", map[string]string{"WEZTERM_EXECUTABLE": "/bin/wezterm"}, TermWezTerm},
		{"term program beats tmux", map[string]string{"TERM_PROGRAM": "kitty", "TMUX": "1"}, TermKitty},
		{"tmux", map[string]string{"TMUX": "/tmp/tmux"}, TermTmux},
		{"nothing", map[string]string{}, TermGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(envOf(tt.env)); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		override string
		env      map[string]string
		want     Protocol
		wantErr  bool
	}{
		{"", map[string]string{"TERM_PROGRAM": "ghostty"}, ProtocolKitty, false},
		{"auto", map[string]string{"TERM_PROGRAM": "iTerm.app"}, ProtocolITerm2, false},
		{"", map[string]string{"TERM_PROGRAM": "kitty", "SSH_TTY": "/dev/pts/1"}, ProtocolHalfblocks, false},
		{"sixel", nil, ProtocolSixel, false},
		{"off", map[string]string{"TERM_PROGRAM": "kitty"}, ProtocolNone, false},
		{"HALFBLOCKS", nil, ProtocolHalfblocks, false},
		{"braille", nil, ProtocolNone, true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.override, envOf(tt.env))
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q) error = %v", tt.override, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.override, got, tt.want)
		}
	}
}

func TestGetSizeFallsBackForNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	t.Setenv("COLUMNS", "132")
	t.Setenv("LINES", "")

	if IsTerminal(f) {
		t.Fatal("regular file reported as a terminal")
	}
	s := GetSize(f)
	if s.Cols != 132 || s.Rows != 24 {
		t.Errorf("GetSize() = %dx%d, want 132x24", s.Cols, s.Rows)
	}
	if s.CellW != DefaultCellW || s.CellH != DefaultCellH {
		t.Errorf("cell = %dx%d", s.CellW, s.CellH)
	}
}
