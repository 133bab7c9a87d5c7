// Package focus provides roving keyboard focus over a list of host elements.
package focus

// Next returns the index after cur, wrapping to 0. A cur of -1 (nothing
// focused) resolves to the first item. n <= 0 returns -1.
func Next(cur, n int) int {
	if n <= 0 {
		return -1
	}
	return (cur + 1) % n
}

// Prev returns the index before cur, wrapping to n-1. A cur of -1 resolves
// to the last item.
func Prev(cur, n int) int {
	if n <= 0 {
		return -1
	}
	if cur <= 0 {
		return n - 1
	}
	return cur - 1
}

// IndexOf returns the position of id in ids, or -1.
func IndexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Sinks fans one element id out to every owner that needs a reference to
// it. Each owner appends its own sink; Attach writes to all of them.
type Sinks []func(id string)

// Attach writes id into every sink.
func (s Sinks) Attach(id string) {
	for _, sink := range s {
		if sink != nil {
			sink(id)
		}
	}
}

// Ref returns a sink that stores into dst.
func Ref(dst *string) func(string) {
	return func(id string) { *dst = id }
}
