package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/teamkit/pkg/imageupload"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
)

func redPNG(t *testing.T, w, h int) *imageupload.File {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &imageupload.File{Name: "red.png", Type: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestDecode(t *testing.T) {
	if _, _, err := Decode(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Decode(nil) = %v", err)
	}
	if _, _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode(junk) succeeded")
	}
	img, format, err := Decode(redPNG(t, 3, 2).Data)
	if err != nil || format != "png" || img.Bounds().Dx() != 3 {
		t.Errorf("Decode(png) = %v, %q, %v", img.Bounds(), format, err)
	}
}

func TestRemoteImagesRenderPlaceholder(t *testing.T) {
	r := New(terminal.ProtocolKitty)
	out, err := r.Render("https://cdn.example.com/teams/42/logo.png", nil, 20, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "[image] ") || ansi.StringWidth(out) > 20 {
		t.Errorf("placeholder = %q", out)
	}
	if r.Cache().Stats().Entries != 0 {
		t.Error("placeholder was cached")
	}
}

func TestProtocolNoneShowsFileName(t *testing.T) {
	r := New(terminal.ProtocolNone)
	out, err := r.Render("blob:teamkit/x", redPNG(t, 2, 2), 40, 4)
	if err != nil || out != "[image] red.png" {
		t.Errorf("Render() = %q, %v", out, err)
	}
}

func TestHalfblocks(t *testing.T) {
	r := New(terminal.ProtocolHalfblocks)
	f := redPNG(t, 4, 4)
	out, err := r.Render("blob:teamkit/a", f, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("want 2 lines, got %q", out)
	}
	if !strings.Contains(out, "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m▀") {
		t.Errorf("missing red cell in %q", out)
	}

	if _, err := r.Render("blob:teamkit/a", f, 4, 2); err != nil {
		t.Fatal(err)
	}
	if s := r.Cache().Stats(); s.Hits != 1 || s.Entries != 1 {
		t.Errorf("stats = %+v", s)
	}

	r.Cache().Forget("blob:teamkit/a")
	if r.Cache().Stats().Entries != 0 {
		t.Error("Forget left entries")
	}
}

func TestRenderErrors(t *testing.T) {
	r := New(terminal.ProtocolHalfblocks)
	if out, err := r.Render("x", redPNG(t, 2, 2), 0, 3); out != "" || err != nil {
		t.Errorf("zero width = %q, %v", out, err)
	}
	bad := &imageupload.File{Name: "bad.png", Data: []byte("nope")}
	if _, err := r.Render("blob:teamkit/bad", bad, 4, 2); err == nil {
		t.Error("undecodable file rendered")
	}
}

func TestRenderCmd(t *testing.T) {
	r := New(terminal.ProtocolHalfblocks)
	msg, ok := r.RenderCmd("blob:teamkit/a", redPNG(t, 2, 2), 2, 1)().(RenderedMsg)
	if !ok || msg.Err != nil || msg.ID != "blob:teamkit/a" || msg.View == "" {
		t.Errorf("RenderCmd msg = %+v", msg)
	}
}

func TestCacheEvictsLeastRecent(t *testing.T) {
	c := NewCache(1)
	big := strings.Repeat("x", 600<<10)
	a := Key{ID: "a", Width: 1, Height: 1}
	b := Key{ID: "b", Width: 1, Height: 1}
	c.Put(a, big)
	c.Put(b, big)
	if _, ok := c.Get(a); ok {
		t.Error("oldest entry survived")
	}
	if _, ok := c.Get(b); !ok {
		t.Error("newest entry evicted")
	}
	if s := c.Stats(); s.Evictions != 1 || s.SizeBytes != int64(len(big)) {
		t.Errorf("stats = %+v", s)
	}
}
