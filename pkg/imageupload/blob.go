package imageupload

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BlobPrefix starts every locally generated image identity.
const BlobPrefix = "blob:teamkit/"

// IsBlob reports whether id was generated for a local file.
func IsBlob(id string) bool {
	return strings.HasPrefix(id, BlobPrefix)
}

// BlobStore mints revocable identities for local files.
type BlobStore interface {
	Create(f *File) string
	Revoke(id string)
	Lookup(id string) (*File, bool)
}

// MemoryBlobs keeps blob contents in memory. It counts revocations so
// callers can check that each blob is released exactly once.
type MemoryBlobs struct {
	mu      sync.Mutex
	live    map[string]*File
	revoked map[string]int
	log     *slog.Logger
}

// NewMemoryBlobs returns an empty store. A nil logger discards.
func NewMemoryBlobs(log *slog.Logger) *MemoryBlobs {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MemoryBlobs{
		live:    make(map[string]*File),
		revoked: make(map[string]int),
		log:     log,
	}
}

// Create stores f under a new blob identity.
func (b *MemoryBlobs) Create(f *File) string {
	id := BlobPrefix + uuid.NewString()
	b.mu.Lock()
	b.live[id] = f
	b.mu.Unlock()
	b.log.Debug("blob minted", "id", id, "name", f.Name, "size", f.Size)
	return id
}

// Revoke releases id. Revoking an unknown or released id only counts.
func (b *MemoryBlobs) Revoke(id string) {
	b.mu.Lock()
	delete(b.live, id)
	b.revoked[id]++
	n := b.revoked[id]
	b.mu.Unlock()
	if n > 1 {
		b.log.Warn("blob revoked again", "id", id, "count", n)
		return
	}
	b.log.Debug("blob revoked", "id", id)
}

// Lookup returns the file behind a live blob.
func (b *MemoryBlobs) Lookup(id string) (*File, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.live[id]
	return f, ok
}

// Live returns the number of unreleased blobs.
func (b *MemoryBlobs) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Revocations returns how many times id was revoked.
func (b *MemoryBlobs) Revocations(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[id]
}
