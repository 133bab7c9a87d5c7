// Package app is the teamkit demo: a "create team" form built from the
// headless widgets. It owns one host element tree and feeds it Bubble Tea
// input; every widget keeps its own state and the model only holds the
// controlled values (tab, category, image record).
package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/config"
	"gitlab.com/tinyland/lab/teamkit/pkg/dropdown"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/imageupload"
	"gitlab.com/tinyland/lab/teamkit/pkg/modal"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/preview"
	"gitlab.com/tinyland/lab/teamkit/pkg/selectmenu"
	"gitlab.com/tinyland/lab/teamkit/pkg/tabs"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// Element ids of the form.
const (
	FormID        = "form"
	ImageEditID   = "image-edit"
	ImageRemoveID = "image-remove"
	NameID        = "name-input"
	CategoryID    = "category"
	SubmitID      = "submit"
	ActionsID     = "actions"
	TabsID        = "view-tabs"
	CreateID      = "confirm-create"
	CancelID      = "confirm-cancel"
)

// Tab values.
const (
	TabForm   = "form"
	TabTokens = "tokens"
)

// Result is what the form produced. Image is a remote URL or, for a picked
// file, its path; File is nil for remote images.
type Result struct {
	Name     string
	Category string
	Image    string
	File     *imageupload.File
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger shared by the host and widgets.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithRenderer sets the image preview renderer.
func WithRenderer(r *preview.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithLocator replaces bubblezone hit-testing, for tests.
func WithLocator(l host.Locator) Option {
	return func(m *Model) { m.locator = l }
}

// WithTheme sets the starting theme.
func WithTheme(t theme.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	log      *slog.Logger
	h        *host.Host
	locator  host.Locator
	zones    *mouse.ZoneLocator
	renderer *preview.Renderer
	theme    theme.Theme
	styles   theme.Styles

	modality *modal.Modality
	modal    *modal.Manager
	tabs     *tabs.Tabs
	category *selectmenu.Select
	actions  *dropdown.Dropdown
	upload   *imageupload.Controller
	name     textinput.Model
	help     help.Model
	keys     KeyMap

	tab           string
	categoryValue string
	image         imageupload.Record
	previews      map[string]string

	status    string
	statusErr bool
	width     int
	height    int
	pending   []tea.Cmd
	result    *Result
	done      bool
}

// New builds the form from cfg.
func New(cfg *config.Config, opts ...Option) (*Model, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &Model{
		cfg:      cfg,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		tab:      TabForm,
		previews: make(map[string]string),
		width:    80,
		height:   24,
	}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.theme.Name == "" {
		m.theme = theme.Get(cfg.Theme.Name)
	}
	m.styles = theme.NewStyles(m.theme)
	if m.renderer == nil {
		proto, err := terminal.Resolve(cfg.Preview.Protocol, nil)
		if err != nil {
			return nil, err
		}
		m.renderer = preview.New(proto, preview.WithCache(preview.NewCache(cfg.Preview.CacheMB)), preview.WithLogger(m.log))
	}
	if m.locator == nil {
		m.zones = mouse.NewZoneLocator()
		m.locator = m.zones
	}

	m.h = host.New(host.WithLocator(m.locator), host.WithLogger(m.log), host.WithAppRoot(cfg.Modal.AppRoot))
	if err := m.build(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Model) build() error {
	root := m.cfg.Modal.AppRoot
	if _, err := m.h.Mount(host.Element{ID: root}); err != nil {
		return err
	}

	var err error
	m.tabs, err = tabs.New(m.h, tabs.Options{
		ID:            TabsID,
		Parent:        root,
		Tabs:          []tabs.Tab{{Value: TabForm, Label: "Create team"}, {Value: TabTokens, Label: "Design tokens"}},
		Value:         m.tab,
		OnValueChange: m.setTab,
	})
	if err != nil {
		return err
	}

	m.actions, err = dropdown.New(m.h, dropdown.Options{
		ID:        ActionsID,
		Parent:    root,
		Label:     "More",
		Typeahead: true,
		Items: []dropdown.Item{
			{ID: "reset", Label: "Reset form", OnSelect: m.reset},
			{ID: "theme", Label: "Switch theme", OnSelect: m.cycleTheme},
			{ID: "quit", Label: "Quit", OnSelect: m.quit},
		},
	})
	if err != nil {
		return err
	}

	if _, err := m.h.Mount(host.Element{ID: FormID, Parent: root, Role: "form"}); err != nil {
		return err
	}
	if err := m.buildUpload(); err != nil {
		return err
	}

	m.name = textinput.New()
	m.name.Placeholder = "Enter a team name"
	m.name.CharLimit = 30
	m.name.Prompt = ""
	if _, err := m.h.Mount(host.Element{
		ID: NameID, Parent: FormID, Role: "textbox", Label: "Team name", Focusable: true,
		OnKey: func(e *host.KeyEvent) {
			if e.Key == host.KeyEnter {
				e.PreventDefault()
				m.h.Click(SubmitID)
			}
		},
	}); err != nil {
		return err
	}

	options := make([]selectmenu.Option, len(m.cfg.Select.Categories))
	for i, c := range m.cfg.Select.Categories {
		options[i] = selectmenu.Option{Value: strings.ToLower(c), Label: c}
	}
	m.category, err = selectmenu.New(m.h, selectmenu.Options{
		ID:          CategoryID,
		Parent:      FormID,
		Placeholder: m.cfg.Select.Placeholder,
		Options:     options,
		Typeahead:   m.cfg.Select.Typeahead,
		OnValueChange: func(v string) {
			m.categoryValue = v
			m.category.SetValue(v)
		},
	})
	if err != nil {
		return err
	}

	if _, err := m.h.Mount(button(SubmitID, FormID, "Create", func() { m.submit() })); err != nil {
		return err
	}

	m.modality = modal.NewModality()
	m.modality.Install(m.h)
	m.modal, err = modal.NewManager(m.h, m.modality)
	if err != nil {
		return err
	}
	m.h.Focus(NameID)
	m.syncFocus()
	return nil
}

// buildUpload wires the image field in controlled mode: the model owns the
// record and hands every proposal straight back.
func (m *Model) buildUpload() error {
	up := m.cfg.Upload
	mode, err := m.cfg.UploadMode()
	if err != nil {
		return err
	}
	m.image = imageupload.RecordOf(up.InitialImages...).Limit(up.MaxFiles)
	m.upload = imageupload.New(
		imageupload.WithValue(m.image),
		imageupload.WithOnChange(m.setImages),
		imageupload.WithMaxFiles(up.MaxFiles),
		imageupload.WithAccept(up.Accept),
		imageupload.WithMultiple(up.Multiple),
		imageupload.WithMode(mode),
		imageupload.WithStartDir(up.StartDir),
		imageupload.WithLogger(m.log),
	)
	for _, el := range []host.Element{
		button(ImageEditID, FormID, "Change image", func() { m.queue(m.upload.OpenFileDialog()) }),
		button(ImageRemoveID, FormID, "Remove image", m.removeImage),
	} {
		if _, err := m.h.Mount(el); err != nil {
			return err
		}
	}
	return nil
}

func button(id, parent, label string, fn func()) host.Element {
	return host.Element{
		ID: id, Parent: parent, Role: "button", Label: label, Focusable: true,
		OnClick: func(*host.PointerEvent) { fn() },
	}
}

// Host exposes the element tree.
func (m *Model) Host() *host.Host { return m.h }

// Images returns the current image record.
func (m *Model) Images() imageupload.Record { return m.image }

// Upload returns the image controller.
func (m *Model) Upload() *imageupload.Controller { return m.upload }

// Category returns the chosen category value.
func (m *Model) Category() string { return m.categoryValue }

// Tab returns the selected tab value.
func (m *Model) Tab() string { return m.tab }

// TeamName returns the typed name.
func (m *Model) TeamName() string { return m.name.Value() }

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

// Result returns the submitted form, or nil.
func (m *Model) Result() *Result { return m.result }

// Modal returns the dialog manager.
func (m *Model) Modal() *modal.Manager { return m.modal }

// ThemeName returns the active theme name.
func (m *Model) ThemeName() string { return m.theme.Name }

// Close releases blobs and the zone worker. Safe to call twice.
func (m *Model) Close() {
	if m.upload != nil {
		m.upload.Close()
	}
	if m.modality != nil {
		m.modality.Uninstall()
	}
	if m.zones != nil {
		m.zones.Close()
		m.zones = nil
	}
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) setStatus(err bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = err
}

func (m *Model) setImages(r imageupload.Record) {
	for _, id := range m.image.Keys() {
		if !r.Has(id) {
			delete(m.previews, id)
			m.renderer.Cache().Forget(id)
		}
	}
	m.image = r
	m.upload.SetValue(r)
	for _, id := range r.Keys() {
		f, _ := r.Get(id)
		if f == nil {
			continue
		}
		if _, ok := m.previews[id]; !ok {
			m.queue(m.renderer.RenderCmd(id, f, m.cfg.Preview.Width, m.cfg.Preview.Height))
		}
	}
}

// setTab applies a tab selection. The form subtree is inert while another
// tab is showing, so it drops out of the Tab order and cannot take focus.
func (m *Model) setTab(v string) {
	m.tab = v
	m.tabs.SetValue(v)
	if v == TabForm {
		m.h.RemoveAttr(FormID, "inert")
	} else {
		m.h.SetAttr(FormID, "inert", "")
	}
	m.syncFocus()
}

func (m *Model) removeImage() {
	keys := m.image.Keys()
	if len(keys) == 0 {
		m.setStatus(false, "No image to remove")
		return
	}
	m.upload.RemoveImage(keys[len(keys)-1])
}

func (m *Model) submit() {
	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		m.setStatus(true, "Enter a team name")
		m.h.Focus(NameID)
		m.syncFocus()
		return
	}
	desc := fmt.Sprintf("%q will be created", name)
	if label := m.category.Label(); m.categoryValue != "" {
		desc += " in " + label
	}
	err := m.modal.Open(&modal.Dialog{
		Title:       "Create team?",
		Description: desc + ".",
		Actions: []modal.Action{
			{ID: CancelID, Label: "Cancel", OnClick: func(d *modal.Manager) { d.Close() }},
			{ID: CreateID, Label: "Create", OnClick: func(d *modal.Manager) {
				d.Close()
				m.finish(name)
			}},
		},
		Closable: true,
	})
	if err != nil {
		m.setStatus(true, "%v", err)
	}
}

func (m *Model) finish(name string) {
	res := &Result{Name: name, Category: m.categoryValue}
	if keys := m.image.Keys(); len(keys) > 0 {
		res.Image = keys[0]
		if f, _ := m.image.Get(keys[0]); f != nil {
			res.File = f
			res.Image = f.Path
		}
	}
	m.result = res
	m.log.Info("team created", "name", res.Name, "category", res.Category, "image", res.Image)
	m.quit()
}

func (m *Model) reset() {
	m.name.SetValue("")
	m.categoryValue = ""
	m.category.SetValue("")
	m.upload.SetValue(imageupload.RecordOf(m.cfg.Upload.InitialImages...).Limit(m.cfg.Upload.MaxFiles))
	m.setImages(m.upload.Images())
	m.setStatus(false, "Form reset")
}

func (m *Model) cycleTheme() {
	names := theme.Names()
	next := names[0]
	for i, n := range names {
		if strings.EqualFold(n, m.theme.Name) {
			next = names[(i+1)%len(names)]
			break
		}
	}
	m.theme = theme.Adapt(theme.Get(next), lipgloss.ColorProfile())
	m.styles = theme.NewStyles(m.theme)
	m.setStatus(false, "Theme: %s", m.theme.Name)
}

func (m *Model) quit() {
	m.done = true
	m.queue(tea.Quit)
}

// syncFocus keeps the text input's cursor in step with host focus. Focus
// left on an unmounted or inert element (a closed menu or dialog, a hidden
// tab) falls back to the first control of the visible tab.
func (m *Model) syncFocus() {
	active := m.h.Active()
	if !m.modal.IsOpen() && (!m.h.Mounted(active) || m.h.Inert(active)) {
		home := NameID
		if m.tab != TabForm {
			home = m.tabs.TabID(m.tab)
		}
		m.h.Focus(home)
	}
	if m.h.Active() == NameID && !m.modal.IsOpen() {
		m.queue(m.name.Focus())
		return
	}
	m.name.Blur()
}

// textKey reports whether msg edits the name field rather than moving
// focus or activating something.
func textKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyEnter, tea.KeyEsc, tea.KeyUp, tea.KeyDown, tea.KeyCtrlC:
		return false
	}
	return true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.Batch(m.pending...))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.pending = nil
	picker := m.upload.Picker()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.queue(picker.Update(msg))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit()
		case picker.IsOpen():
			m.queue(picker.Update(msg))
		case m.h.Active() == NameID && !m.modal.IsOpen() && textKey(msg):
			var cmd tea.Cmd
			m.name, cmd = m.name.Update(msg)
			m.queue(cmd)
		case key.Matches(msg, m.keys.Help) && !m.modal.IsOpen():
			m.help.ShowAll = !m.help.ShowAll
		default:
			m.h.Update(msg)
		}
		m.syncFocus()

	case tea.MouseMsg:
		if !picker.IsOpen() {
			m.h.Update(msg)
			m.syncFocus()
		}

	case imageupload.PickedMsg:
		if err := m.upload.HandlePicked(msg); err != nil {
			m.setStatus(true, "%v", err)
		} else if len(msg.Paths) > 0 {
			m.setStatus(false, "%d image(s) attached", m.image.Len())
		}

	case preview.RenderedMsg:
		switch {
		case !m.image.Has(msg.ID):
			// Finished after the image was removed; drop what it cached.
			m.renderer.Cache().Forget(msg.ID)
		case msg.Err != nil:
			m.log.Warn("preview failed", "id", msg.ID, "err", msg.Err)
			m.previews[msg.ID] = preview.Placeholder(msg.Err.Error(), m.cfg.Preview.Width*2)
		default:
			m.previews[msg.ID] = msg.View
		}

	default:
		if picker.IsOpen() {
			m.queue(picker.Update(msg))
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m.queue(cmd)
	}

	if m.done {
		m.Close()
	}
	return m, tea.Batch(m.pending...)
}
