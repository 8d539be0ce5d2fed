package sprig

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrStorageOverflow is returned when an upload is larger than the storage.
var ErrStorageOverflow = errors.New("sprig: transform storage overflow")

// transformStorage is the device-side copy of a frame's committed
// transforms. Ebitengine exposes no storage buffers or vertex stage, so the
// renderer uploads into this mirror and resolves slots from it when it
// expands instances into quads, the way a vertex shader would read its
// lookup table. Nothing reads the SRBuffer after the upload.
type transformStorage struct {
	mats []Mat
	n    int

	uploads     int
	uploadBytes int
}

func newTransformStorage(capacity int) *transformStorage {
	return &transformStorage{mats: make([]Mat, capacity)}
}

// upload replaces the storage contents with buf, a whole number of
// matrices laid out as SRBuffer.CommitBytes produces them.
func (s *transformStorage) upload(buf []byte) error {
	if len(buf)%matSize != 0 {
		return fmt.Errorf("sprig: storage upload of %d bytes is not a multiple of %d", len(buf), matSize)
	}
	n := len(buf) / matSize
	if n > len(s.mats) {
		return fmt.Errorf("%w: %d matrices, capacity %d", ErrStorageOverflow, n, len(s.mats))
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s.mats))), n*matSize), buf)
	s.n = n
	s.uploads++
	s.uploadBytes += len(buf)
	return nil
}

// at returns the matrix uploaded for slot.
func (s *transformStorage) at(slot int) (Mat, bool) {
	if slot < 0 || slot >= s.n {
		return Mat{}, false
	}
	return s.mats[slot], true
}
