package relay

// Source is an immutable cyclic byte sequence. Reads wrap around the end of
// the sequence as many times as needed, so any (start, count) pair with
// count >= 0 is valid. A Source is never mutated after construction and is
// safe for concurrent use by any number of readers without locking.
type Source struct {
	data []byte
}

// NewSource builds a Source from s. An empty sequence is rejected: a cyclic
// read over zero characters is undefined.
func NewSource(s string) (Source, error) {
	if len(s) == 0 {
		return Source{}, ErrEmptySequence
	}
	return Source{data: []byte(s)}, nil
}

// Len returns the length of the backing sequence.
func (s Source) Len() int { return len(s.data) }

// String returns the backing sequence.
func (s Source) String() string { return string(s.data) }

// Read returns count characters starting at position start, taking every
// position modulo Len. count may exceed Len; the sequence then repeats.
// Negative start values are normalized the same way. The returned slice is
// freshly allocated; callers own it.
func (s Source) Read(start, count int) []byte {
	if count <= 0 {
		return nil
	}
	l := len(s.data)
	start = ((start % l) + l) % l

	out := make([]byte, count)
	for i := range out {
		out[i] = s.data[(start+i)%l]
	}
	return out
}
