package imageupload

import (
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrNotAccepted marks a picked file outside the accept filter.
var ErrNotAccepted = errors.New("imageupload: file type not accepted")

// PickedMsg carries the paths chosen in the picker. A cancelled pick has
// no paths.
type PickedMsg struct {
	Paths []string
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

var typeExts = map[string][]string{
	"image/png":  {".png"},
	"image/jpeg": {".jpg", ".jpeg"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

func acceptTokens(accept string) []string {
	var out []string
	for _, t := range strings.Split(accept, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Extensions converts an accept string into file extensions. An empty
// accept string yields nil, meaning every file is allowed.
func Extensions(accept string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(exts ...string) {
		for _, e := range exts {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	for _, t := range acceptTokens(accept) {
		switch {
		case strings.HasPrefix(t, "."):
			add(t)
		case t == "image/*":
			add(imageExts...)
		case typeExts[t] != nil:
			add(typeExts[t]...)
		default:
			exts, _ := mime.ExtensionsByType(t)
			add(exts...)
		}
	}
	return out
}

// Accepts reports whether f matches accept by extension or sniffed type.
func Accepts(accept string, f *File) bool {
	tokens := acceptTokens(accept)
	if len(tokens) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	for _, t := range tokens {
		switch {
		case strings.HasPrefix(t, "."):
			if ext == t {
				return true
			}
		case strings.HasSuffix(t, "/*"):
			if strings.HasPrefix(f.Type, strings.TrimSuffix(t, "*")) {
				return true
			}
		case f.Type == t:
			return true
		}
	}
	return false
}

// Picker wraps the bubbles file picker as the upload field's file
// selection surface. Enter picks a file; Esc finishes. With multiple
// selection the picker stays open until Esc.
type Picker struct {
	fp       filepicker.Model
	multiple bool
	open     bool
	picked   []string
	err      error
}

// NewPicker returns a closed picker filtered by accept, starting in dir
// (the working directory when empty).
func NewPicker(accept string, multiple bool, dir string) *Picker {
	fp := filepicker.New()
	fp.AllowedTypes = Extensions(accept)
	fp.ShowHidden = false
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	// Esc closes the picker instead of walking up a directory.
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "back"),
	)
	return &Picker{fp: fp, multiple: multiple}
}

// Open shows the picker and starts reading the current directory.
func (p *Picker) Open() tea.Cmd {
	p.open = true
	p.picked = nil
	p.err = nil
	return p.fp.Init()
}

// IsOpen reports whether the picker is shown.
func (p *Picker) IsOpen() bool { return p.open }

// Picked returns the paths selected so far.
func (p *Picker) Picked() []string { return append([]string(nil), p.picked...) }

// Err returns the last selection problem, such as a filtered-out file.
func (p *Picker) Err() error { return p.err }

// Update feeds msg to the picker. It returns a command producing a
// PickedMsg once the pick is finished.
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	if !p.open {
		if _, ok := msg.(tea.WindowSizeMsg); ok {
			p.fp, _ = p.fp.Update(msg)
		}
		return nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return p.finish()
	}

	var cmd tea.Cmd
	p.fp, cmd = p.fp.Update(msg)

	if ok, path := p.fp.DidSelectFile(msg); ok {
		p.err = nil
		p.picked = append(p.picked, path)
		if !p.multiple {
			return tea.Batch(cmd, p.finish())
		}
		return cmd
	}
	if ok, path := p.fp.DidSelectDisabledFile(msg); ok {
		p.err = errors.Join(ErrNotAccepted, errors.New(filepath.Base(path)))
	}
	return cmd
}

func (p *Picker) finish() tea.Cmd {
	p.open = false
	msg := PickedMsg{Paths: p.picked}
	p.picked = nil
	return func() tea.Msg { return msg }
}

// View renders the picker, or "" while closed.
func (p *Picker) View() string {
	if !p.open {
		return ""
	}
	return p.fp.View()
}
