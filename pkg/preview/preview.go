// Package preview renders picked images inside the terminal.
//
// Local files are decoded, fitted with imaging and drawn with the Kitty,
// iTerm2 or Sixel protocol through go-termimg, or with Unicode half blocks.
// Remote images are never fetched; they render as a one-line placeholder.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/blacktop/go-termimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"gitlab.com/tinyland/lab/teamkit/pkg/imageupload"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
)

// ErrEmpty is returned for a file without data.
var ErrEmpty = errors.New("preview: empty file")

// Decode decodes PNG, JPEG, GIF or WebP data.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("preview: decode: %w", err)
	}
	return img, format, nil
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCellSize sets the pixel size of one terminal cell.
func WithCellSize(w, h int) Option {
	return func(r *Renderer) { r.cellW, r.cellH = w, h }
}

// WithCache replaces the render cache.
func WithCache(c *Cache) Option {
	return func(r *Renderer) { r.cache = c }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// Renderer turns image records into terminal output.
type Renderer struct {
	protocol terminal.Protocol
	cellW    int
	cellH    int
	cache    *Cache
	log      *slog.Logger
}

// New returns a renderer drawing with p.
func New(p terminal.Protocol, opts ...Option) *Renderer {
	r := &Renderer{protocol: p, cellW: terminal.DefaultCellW, cellH: terminal.DefaultCellH}
	for _, o := range opts {
		o(r)
	}
	if r.cache == nil {
		r.cache = NewCache(0)
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.cellW <= 0 || r.cellH <= 0 {
		r.cellW, r.cellH = terminal.DefaultCellW, terminal.DefaultCellH
	}
	return r
}

// Protocol returns the drawing protocol.
func (r *Renderer) Protocol() terminal.Protocol { return r.protocol }

// Cache returns the render cache.
func (r *Renderer) Cache() *Cache { return r.cache }

// Placeholder is the one-line stand-in for an image that is not drawn.
func Placeholder(label string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate("[image] "+label, width, "…")
}

// Render draws image id into a width x height cell box. A nil file is a
// remote image and yields a placeholder.
func (r *Renderer) Render(id string, f *imageupload.File, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", nil
	}
	if f == nil {
		return Placeholder(id, width), nil
	}
	if r.protocol == terminal.ProtocolNone {
		return Placeholder(f.Name, width), nil
	}

	key := Key{ID: id, Protocol: r.protocol, Width: width, Height: height}
	if s, ok := r.cache.Get(key); ok {
		return s, nil
	}
	img, format, err := Decode(f.Data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Name, err)
	}

	var out string
	switch r.protocol {
	case terminal.ProtocolHalfblocks:
		out = halfblocks(imaging.Fit(img, width, height*2, imaging.Lanczos))
	default:
		fitted := imaging.Fit(img, width*r.cellW, height*r.cellH, imaging.Lanczos)
		out, err = r.graphics(fitted, width, height)
		if err != nil {
			return "", fmt.Errorf("preview: %s: %w", r.protocol, err)
		}
	}
	r.cache.Put(key, out)
	r.log.Debug("preview rendered", "id", id, "format", format, "protocol", r.protocol, "bytes", len(out))
	return out, nil
}

func (r *Renderer) graphics(img image.Image, width, height int) (string, error) {
	var proto termimg.Protocol
	switch r.protocol {
	case terminal.ProtocolKitty:
		proto = termimg.Kitty
	case terminal.ProtocolITerm2:
		proto = termimg.ITerm2
	case terminal.ProtocolSixel:
		proto = termimg.Sixel
	default:
		return halfblocks(img), nil
	}
	ti := termimg.New(img)
	if ti == nil {
		return "", errors.New("termimg: cannot wrap image")
	}
	return ti.Protocol(proto).Size(width, height).Scale(termimg.ScaleFit).Render()
}

// RenderedMsg delivers the result of RenderCmd.
type RenderedMsg struct {
	ID   string
	View string
	Err  error
}

// RenderCmd renders off the update loop. The result lands in the cache and
// arrives as a RenderedMsg.
func (r *Renderer) RenderCmd(id string, f *imageupload.File, width, height int) tea.Cmd {
	return func() tea.Msg {
		s, err := r.Render(id, f, width, height)
		return RenderedMsg{ID: id, View: s, Err: err}
	}
}

// halfblocks draws two pixel rows per cell line with the upper half block:
// foreground is the top pixel, background the bottom one.
func halfblocks(img image.Image) string {
	src := imaging.Clone(img)
	b := src.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteString("\x1b[0m\n")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := src.NRGBAAt(x, y)
			if y+1 >= b.Max.Y {
				if top.A == 0 {
					sb.WriteString(" ")
					continue
				}
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
				continue
			}
			bot := src.NRGBAAt(x, y+1)
			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}
