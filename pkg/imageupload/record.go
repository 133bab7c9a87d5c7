package imageupload

// File is a locally selected image held in memory until it is uploaded.
type File struct {
	Name string
	Path string
	Type string // sniffed MIME type
	Size int64
	Data []byte
}

// Record maps image identities to their local file, in insertion order.
// Remote images map to nil. Records are values: every mutation returns a
// new Record and leaves the receiver untouched.
type Record struct {
	keys  []string
	files map[string]*File
}

// RecordOf returns a record of remote images. Duplicate URLs collapse to
// the first occurrence.
func RecordOf(urls ...string) Record {
	var r Record
	for _, u := range urls {
		if !r.Has(u) {
			r = r.With(u, nil)
		}
	}
	return r
}

// Len returns the number of images.
func (r Record) Len() int { return len(r.keys) }

// Keys returns the identities in insertion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Has reports whether id is present.
func (r Record) Has(id string) bool {
	_, ok := r.files[id]
	return ok
}

// Get returns the file for id. Remote images return (nil, true).
func (r Record) Get(id string) (*File, bool) {
	f, ok := r.files[id]
	return f, ok
}

func (r Record) clone(extra int) Record {
	out := Record{
		keys:  make([]string, len(r.keys), len(r.keys)+extra),
		files: make(map[string]*File, len(r.keys)+extra),
	}
	copy(out.keys, r.keys)
	for k, v := range r.files {
		out.files[k] = v
	}
	return out
}

// With sets id to f. New ids go last; existing ids keep their position.
func (r Record) With(id string, f *File) Record {
	out := r.clone(1)
	if !out.Has(id) {
		out.keys = append(out.keys, id)
	}
	out.files[id] = f
	return out
}

// Without removes id.
func (r Record) Without(id string) Record {
	if !r.Has(id) {
		return r
	}
	out := r.clone(0)
	delete(out.files, id)
	for i, k := range out.keys {
		if k == id {
			out.keys = append(out.keys[:i], out.keys[i+1:]...)
			break
		}
	}
	return out
}

// Merge returns r followed by the entries of o that r lacks. Entries
// present in both take o's file.
func (r Record) Merge(o Record) Record {
	out := r.clone(o.Len())
	for _, k := range o.keys {
		if !out.Has(k) {
			out.keys = append(out.keys, k)
		}
		out.files[k] = o.files[k]
	}
	return out
}

// Limit keeps the first n entries. n <= 0 yields an empty record.
func (r Record) Limit(n int) Record {
	if n < 0 {
		n = 0
	}
	if len(r.keys) <= n {
		return r
	}
	out := Record{keys: make([]string, n), files: make(map[string]*File, n)}
	copy(out.keys, r.keys[:n])
	for _, k := range out.keys {
		out.files[k] = r.files[k]
	}
	return out
}
