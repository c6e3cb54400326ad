package stores

import "encoding/binary"

// StorePathSegment is one step from a value to one of its children: a
// struct field id, a collection index, or a map key hash. Segments are
// opaque unsigned keys; equality is all that matters.
type StorePathSegment uint64

// StorePath is the ordered sequence of segments from the root of a store
// to a location in its value tree. Paths are the identity key for
// triggers: two accessors with equal paths denote the same logical
// location and share exactly one trigger pair.
type StorePath []StorePathSegment

// WithSegment returns a new path with one segment appended. The result
// never aliases the receiver's backing array, so derived accessors can
// extend the same parent path independently.
func (p StorePath) WithSegment(seg StorePathSegment) StorePath {
	out := make(StorePath, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Equal reports structural equality of two paths.
func (p StorePath) Equal(other StorePath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Key encodes the path as a string usable as a map key: 8 big-endian
// bytes per segment. The encoding is injective, so key equality is path
// equality.
func (p StorePath) Key() string {
	buf := make([]byte, 0, len(p)*8)
	for _, seg := range p {
		buf = binary.BigEndian.AppendUint64(buf, uint64(seg))
	}
	return string(buf)
}
