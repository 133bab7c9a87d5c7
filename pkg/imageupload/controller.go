// Package imageupload manages a set of candidate images: remote URLs that
// already exist and local files picked by the user. Local files get a
// revocable blob identity that the controller releases exactly once, on
// removal or on Close.
package imageupload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode decides how newly added files combine with the current record.
type Mode int

const (
	// Replace discards the current entries.
	Replace Mode = iota
	// Append keeps the current entries first.
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// ParseMode parses "replace" or "append". The empty string is Replace.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "append":
		return Append, nil
	}
	return Replace, fmt.Errorf("imageupload: unknown mode %q", s)
}

// DefaultAccept is the accept filter used when none is given.
const DefaultAccept = "image/*"

// Option configures a Controller.
type Option func(*Controller)

// WithValue supplies the externally owned record. Together with
// WithOnChange it puts the controller in controlled mode.
func WithValue(r Record) Option {
	return func(c *Controller) {
		c.value = r
		c.hasValue = true
	}
}

// WithOnChange sets the callback receiving every proposed record.
func WithOnChange(fn func(Record)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithMaxFiles caps the record size. The default is 1.
func WithMaxFiles(n int) Option {
	return func(c *Controller) { c.maxFiles = n }
}

// WithAccept sets the picker filter, e.g. "image/*" or "image/png,.webp".
func WithAccept(accept string) Option {
	return func(c *Controller) { c.accept = accept }
}

// WithMultiple lets the picker return more than one file.
func WithMultiple(b bool) Option {
	return func(c *Controller) { c.multiple = b }
}

// WithMode sets the merge mode. The default is Replace.
func WithMode(m Mode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithInitialImages seeds the uncontrolled record with remote URLs.
func WithInitialImages(urls ...string) Option {
	return func(c *Controller) { c.initial = urls }
}

// WithBlobs sets the blob store. The default is a fresh MemoryBlobs.
func WithBlobs(b BlobStore) Option {
	return func(c *Controller) { c.blobs = b }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithStartDir sets the directory the file picker opens in.
func WithStartDir(dir string) Option {
	return func(c *Controller) { c.startDir = dir }
}

// Controller owns the image record of one upload field.
type Controller struct {
	value    Record
	hasValue bool
	onChange func(Record)
	internal Record

	maxFiles int
	accept   string
	multiple bool
	mode     Mode
	initial  []string
	startDir string

	blobs  BlobStore
	owned  map[string]bool
	closed bool
	log    *slog.Logger
	picker *Picker
}

// New returns a controller. Without both WithValue and WithOnChange the
// controller is uncontrolled and seeds its record from WithInitialImages.
func New(opts ...Option) *Controller {
	c := &Controller{
		maxFiles: 1,
		accept:   DefaultAccept,
		owned:    make(map[string]bool),
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.blobs == nil {
		c.blobs = NewMemoryBlobs(c.log)
	}
	if c.maxFiles < 0 {
		c.maxFiles = 0
	}
	c.internal = RecordOf(c.initial...).Limit(c.maxFiles)
	return c
}

// Controlled reports whether the record is owned by the caller.
func (c *Controller) Controlled() bool {
	return c.hasValue && c.onChange != nil
}

// Images returns the visible record: the external value when controlled,
// the private record otherwise.
func (c *Controller) Images() Record {
	if c.Controlled() {
		return c.value
	}
	return c.internal
}

// Accept returns the accept filter.
func (c *Controller) Accept() string { return c.accept }

// Multiple reports whether the picker may return several files.
func (c *Controller) Multiple() bool { return c.multiple }

// MaxFiles returns the record size cap.
func (c *Controller) MaxFiles() int { return c.maxFiles }

// Mode returns the merge mode.
func (c *Controller) Mode() Mode { return c.mode }

// Blobs returns the blob store.
func (c *Controller) Blobs() BlobStore { return c.blobs }

// Owns reports whether id is a live blob minted by this controller.
func (c *Controller) Owns(id string) bool { return c.owned[id] }

// AddImages mints a blob for each file and merges them per the mode, then
// truncates to MaxFiles. Blobs cut by the truncation are released at once.
// An empty slice is a no-op.
func (c *Controller) AddImages(files []*File) {
	if c.closed || len(files) == 0 {
		return
	}
	added := Record{}
	for _, f := range files {
		if f == nil {
			continue
		}
		id := c.blobs.Create(f)
		c.owned[id] = true
		added = added.With(id, f)
	}
	if added.Len() == 0 {
		return
	}

	next := added
	if c.mode == Append {
		next = c.Images().Merge(added)
	}
	next = next.Limit(c.maxFiles)

	for _, id := range added.Keys() {
		if !next.Has(id) {
			c.revoke(id)
		}
	}
	c.log.Debug("images added", "files", len(files), "kept", next.Len(), "mode", c.mode)
	c.update(next)
}

// RemoveImage drops id from the record, releasing its blob first when the
// controller minted it. Removing an absent id is a no-op.
func (c *Controller) RemoveImage(id string) {
	if c.closed {
		return
	}
	cur := c.Images()
	if !cur.Has(id) {
		return
	}
	if IsBlob(id) {
		c.revoke(id)
	}
	c.update(cur.Without(id))
}

// SetValue replaces the external value in controlled mode. Blobs the
// controller minted that the new value no longer holds are released.
func (c *Controller) SetValue(r Record) {
	if c.closed {
		return
	}
	c.value = r
	c.hasValue = true
	if c.Controlled() {
		c.reconcile(r)
	}
}

// Close releases every blob still held. Later mutations are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	ids := make([]string, 0, len(c.owned))
	for id := range c.owned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.revoke(id)
	}
	c.closed = true
	c.log.Debug("image controller closed", "released", len(ids))
}

// OpenFileDialog opens the file picker. Its result arrives as a PickedMsg
// to pass to HandlePicked.
func (c *Controller) OpenFileDialog() tea.Cmd {
	if c.closed {
		return nil
	}
	return c.Picker().Open()
}

// Picker returns the controller's file picker, creating it on first use.
func (c *Controller) Picker() *Picker {
	if c.picker == nil {
		c.picker = NewPicker(c.accept, c.multiple, c.startDir)
	}
	return c.picker
}

// HandlePicked loads the picked files and adds the accepted ones. Files
// that fail to load or do not match the accept filter are skipped and
// reported in the returned error.
func (c *Controller) HandlePicked(msg PickedMsg) error {
	paths := msg.Paths
	if !c.multiple && len(paths) > 1 {
		paths = paths[:1]
	}
	var (
		files []*File
		errs  []error
	)
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !Accepts(c.accept, f) {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, ErrNotAccepted))
			continue
		}
		files = append(files, f)
	}
	c.AddImages(files)
	return errors.Join(errs...)
}

// update publishes next. The callback runs in both modes; only the
// uncontrolled controller stores next itself.
func (c *Controller) update(next Record) {
	if !c.Controlled() {
		c.internal = next
		c.reconcile(next)
	}
	if c.onChange != nil {
		c.onChange(next)
	}
}

// reconcile releases owned blobs that r no longer holds.
func (c *Controller) reconcile(r Record) {
	for id := range c.owned {
		if !r.Has(id) {
			c.revoke(id)
		}
	}
}

func (c *Controller) revoke(id string) {
	if !c.owned[id] {
		return
	}
	delete(c.owned, id)
	c.blobs.Revoke(id)
}
