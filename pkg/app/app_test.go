package app

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/teamkit/pkg/config"
	"gitlab.com/tinyland/lab/teamkit/pkg/imageupload"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/preview"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
)

// newTestModel builds the form with a hand-placed hit map and no graphics.
func newTestModel(t *testing.T) (*Model, *mouse.HitMap) {
	t.Helper()
	hits := mouse.NewHitMap()
	m, err := New(config.Default(),
		WithLocator(hits),
		WithRenderer(preview.New(terminal.ProtocolHalfblocks)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m, hits
}

func update(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		if r == ' ' {
			update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestInitialState(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Host().Active() != NameID {
		t.Errorf("initial focus = %q", m.Host().Active())
	}
	if got := m.Images().Keys(); len(got) != 1 || got[0] != config.DefaultTeamImage {
		t.Errorf("initial images = %v", got)
	}
	if !m.Upload().Controlled() {
		t.Error("image field not controlled by the form")
	}
	if m.Init() == nil {
		t.Error("Init returned no command")
	}
}

func TestTypingGoesToNameField(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "Blue Team")
	if m.TeamName() != "Blue Team" {
		t.Errorf("TeamName() = %q", m.TeamName())
	}
	update(m, keyMsg(tea.KeyTab))
	if m.Host().Active() != CategoryID+"-trigger" {
		t.Errorf("Tab from name = %q", m.Host().Active())
	}
	typeText(m, "x")
	if m.TeamName() != "Blue Team" {
		t.Error("typing outside the field changed the name")
	}
}

func TestSubmitRequiresName(t *testing.T) {
	m, _ := newTestModel(t)
	update(m, keyMsg(tea.KeyEnter))
	if msg, isErr := m.Status(); !isErr || msg != "Enter a team name" {
		t.Errorf("status = %q, %v", msg, isErr)
	}
	if m.Modal().IsOpen() {
		t.Error("confirm dialog opened without a name")
	}
}

func TestCreateTeamFlow(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "Acme")

	// Category: open by keyboard, move down once, pick.
	update(m, keyMsg(tea.KeyTab))
	update(m, keyMsg(tea.KeyEnter))
	update(m, keyMsg(tea.KeyDown))
	update(m, keyMsg(tea.KeyEnter))
	if m.Category() != "engineering" {
		t.Fatalf("Category() = %q", m.Category())
	}
	if m.Host().Active() != CategoryID+"-trigger" {
		t.Errorf("focus after choosing = %q", m.Host().Active())
	}

	m.Host().Focus(NameID)
	update(m, keyMsg(tea.KeyEnter))
	if !m.Modal().IsOpen() {
		t.Fatal("Enter in the name field did not open the confirm dialog")
	}
	if m.Host().Active() != CancelID {
		t.Errorf("dialog focus = %q", m.Host().Active())
	}
	if !strings.Contains(m.View(), "Create team?") {
		t.Error("dialog not rendered")
	}

	update(m, keyMsg(tea.KeyTab))
	cmd := update(m, keyMsg(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("Create produced no command")
	}
	res := m.Result()
	if res == nil {
		t.Fatal("no result")
	}
	if res.Name != "Acme" || res.Category != "engineering" || res.Image != config.DefaultTeamImage || res.File != nil {
		t.Errorf("result = %+v", res)
	}
	if m.View() != "" {
		t.Error("View after quitting is not empty")
	}
}

func TestCancelKeepsEditing(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "Acme")
	update(m, keyMsg(tea.KeyEnter))
	update(m, keyMsg(tea.KeyEsc))
	if m.Modal().IsOpen() || m.Result() != nil {
		t.Fatal("Esc did not cancel")
	}
	if m.Host().Active() != NameID {
		t.Errorf("focus after Esc = %q, want name field", m.Host().Active())
	}
	typeText(m, "!")
	if m.TeamName() != "Acme!" {
		t.Errorf("TeamName() = %q", m.TeamName())
	}
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{B: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPickedImageReplacesDefault(t *testing.T) {
	m, _ := newTestModel(t)
	path := writePNG(t)
	cmd := update(m, imageupload.PickedMsg{Paths: []string{path}})
	keys := m.Images().Keys()
	if len(keys) != 1 || !imageupload.IsBlob(keys[0]) {
		t.Fatalf("images = %v", keys)
	}
	if cmd == nil {
		t.Fatal("no preview render queued")
	}

	rendered := preview.RenderedMsg{ID: keys[0], View: "PREVIEW"}
	update(m, rendered)
	if !strings.Contains(m.View(), "PREVIEW") {
		t.Error("preview not shown")
	}

	m.Host().Click(ImageRemoveID)
	if m.Images().Len() != 0 {
		t.Errorf("images after remove = %v", m.Images().Keys())
	}
	if m.Upload().Owns(keys[0]) {
		t.Error("removed blob still owned")
	}
	blobs := m.Upload().Blobs().(*imageupload.MemoryBlobs)
	if blobs.Revocations(keys[0]) != 1 {
		t.Errorf("revocations = %d", blobs.Revocations(keys[0]))
	}
}

func TestLateRenderAfterRemoval(t *testing.T) {
	m, _ := newTestModel(t)
	update(m, imageupload.PickedMsg{Paths: []string{writePNG(t)}})
	id := m.Images().Keys()[0]
	f, _ := m.Images().Get(id)

	m.Host().Click(ImageRemoveID)

	// The render started before the removal completes afterwards.
	view, err := m.renderer.Render(id, f, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if m.renderer.Cache().Stats().Entries != 1 {
		t.Fatalf("entries before delivery = %d", m.renderer.Cache().Stats().Entries)
	}
	update(m, preview.RenderedMsg{ID: id, View: view})
	if n := m.renderer.Cache().Stats().Entries; n != 0 {
		t.Errorf("cache kept %d entries for a removed image", n)
	}
	if _, ok := m.previews[id]; ok {
		t.Error("preview stored for a removed image")
	}
}

func TestRejectedPick(t *testing.T) {
	m, _ := newTestModel(t)
	txt := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	update(m, imageupload.PickedMsg{Paths: []string{txt}})
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "not accepted") {
		t.Errorf("status = %q, %v", msg, isErr)
	}
	if m.Images().Keys()[0] != config.DefaultTeamImage {
		t.Error("rejected pick changed the record")
	}
}

func TestPointerInput(t *testing.T) {
	m, hits := newTestModel(t)
	hits.AddRect(TabsID+"-tab-1", 14, 0, 13, 1, nil)
	hits.AddRect(ActionsID+"-trigger", 30, 0, 8, 1, nil)

	update(m, tea.MouseMsg{X: 15, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Tab() != TabTokens {
		t.Errorf("Tab() = %q after clicking the tokens tab", m.Tab())
	}
	if !strings.Contains(m.View(), "brand.primary") {
		t.Error("tokens view not shown")
	}

	update(m, tea.MouseMsg{X: 31, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.actions.Disclosure().IsOpen() {
		t.Fatal("actions menu did not open")
	}
	update(m, tea.MouseMsg{X: 70, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.actions.Disclosure().IsOpen() {
		t.Error("outside press did not close the menu")
	}
}

func TestHiddenFormLeavesTabOrder(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "Acme")

	m.Host().Focus(TabsID + "-tab-0")
	update(m, keyMsg(tea.KeyRight))
	update(m, keyMsg(tea.KeyEnter))
	if m.Tab() != TabTokens {
		t.Fatalf("Tab() = %q", m.Tab())
	}

	for i := 0; i < 6; i++ {
		update(m, keyMsg(tea.KeyTab))
		if id := m.Host().Active(); id == "" || m.Host().Contains(FormID, id) {
			t.Fatalf("Tab %d landed on %q while the tokens tab is showing", i+1, id)
		}
	}
	if m.Host().Focus(NameID) {
		t.Error("name field focusable while hidden")
	}
	typeText(m, "zz")
	if m.TeamName() != "Acme" {
		t.Errorf("hidden name field took input: %q", m.TeamName())
	}

	m.Host().Focus(TabsID + "-tab-0")
	update(m, keyMsg(tea.KeyEnter))
	if m.Tab() != TabForm {
		t.Fatalf("Tab() = %q after returning to the form", m.Tab())
	}
	if !m.Host().Focus(NameID) {
		t.Error("name field not focusable after returning to the form")
	}
}

func TestActionsMenu(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "Acme")
	start := m.ThemeName()

	trigger := ActionsID + "-trigger"
	m.Host().Focus(trigger)
	update(m, keyMsg(tea.KeyEnter))
	update(m, keyMsg(tea.KeyDown))
	update(m, keyMsg(tea.KeyEnter)) // Switch theme
	if m.ThemeName() == start {
		t.Error("theme not switched")
	}
	if m.Host().Active() != trigger {
		t.Errorf("focus after menu = %q", m.Host().Active())
	}

	update(m, keyMsg(tea.KeyEnter))
	update(m, keyMsg(tea.KeyEnter)) // Reset form
	if m.TeamName() != "" {
		t.Errorf("name after reset = %q", m.TeamName())
	}

	update(m, keyMsg(tea.KeyEnter))
	update(m, keyMsg(tea.KeyEnd))
	if cmd := update(m, keyMsg(tea.KeyEnter)); cmd == nil {
		t.Error("Quit produced no command")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m.Host().Focus(SubmitID)
	update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.help.ShowAll {
		t.Error("? did not expand help")
	}
}
