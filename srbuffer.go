package sprig

import (
	"errors"
	"fmt"
	"unsafe"
)

const (
	// DefaultSRCapacity is the default number of unique transforms per frame.
	DefaultSRCapacity = 4096

	// MaxSRCapacity is the largest capacity an SRBuffer accepts; slots are
	// stored as uint16.
	MaxSRCapacity = 1 << 16
)

// matSize is the byte size of one committed matrix.
const matSize = int(unsafe.Sizeof(Mat{}))

// ErrCapacityExceeded is returned by Add when a frame asks for more unique
// transforms than the buffer holds. The frame stays usable; every key added
// before the failure keeps its slot.
var ErrCapacityExceeded = errors.New("sprig: transform capacity exceeded")

// SRBuffer deduplicates scale/rotation transforms within a frame.
//
// Each frame starts with Reset. Add maps a key to a slot, materializing the
// matrix only the first time the key is seen in the frame. Commit exposes the
// matrices of slots [0, Len()) in allocation order, ready for upload.
//
// Reset is O(1): slots are stamped with the frame epoch and stale stamps are
// ignored, so nothing is cleared. No operation allocates after NewSRBuffer.
//
// An SRBuffer is not safe for concurrent use.
type SRBuffer struct {
	// Slot arena, struct of arrays so mats is one contiguous upload region.
	keys   []TransformKey
	stamps []frameEpoch
	mats   []Mat

	index srIndex
	epoch frameEpoch

	n     int // write cursor and live count; slots [0, n) are live
	dirty bool

	materialize func(TransformKey) Mat
}

// NewSRBuffer creates a buffer holding up to capacity unique transforms per
// frame. It panics if capacity is not in [1, MaxSRCapacity].
func NewSRBuffer(capacity int) *SRBuffer {
	if capacity <= 0 || capacity > MaxSRCapacity {
		panic(fmt.Sprintf("sprig: invalid transform capacity %d (want 1..%d)", capacity, MaxSRCapacity))
	}
	b := &SRBuffer{
		keys:        make([]TransformKey, capacity),
		stamps:      make([]frameEpoch, capacity),
		mats:        make([]Mat, capacity),
		index:       newSRIndex(capacity),
		materialize: TransformKey.Matrix,
	}
	// Start on epoch 1 so a buffer used before its first Reset is an empty frame.
	b.epoch.advance()
	return b
}

// SetMaterializer replaces the function that turns a key into its matrix.
// Passing nil restores TransformKey.Matrix.
func (b *SRBuffer) SetMaterializer(fn func(TransformKey) Mat) {
	if fn == nil {
		fn = TransformKey.Matrix
	}
	b.materialize = fn
}

// Reset begins a new frame. Every slot handed out before becomes stale and
// any view returned by Commit must no longer be read. Callers that pipeline
// uploads must finish consuming the previous commit before calling Reset.
func (b *SRBuffer) Reset() {
	if b.epoch.advance() {
		clear(b.stamps)
		b.index.clear()
	}
	b.n = 0
	b.dirty = true
}

// Add returns the slot for key in the current frame, allocating one and
// materializing its matrix if the key is new. It returns ErrCapacityExceeded
// and slot -1 when the frame is full and key is not already present.
func (b *SRBuffer) Add(key TransformKey) (int, error) {
	pos, slot, hit := b.probe(key)
	if hit {
		return slot, nil
	}
	slot, err := b.allocate(key)
	if err != nil {
		return -1, err
	}
	b.index.claim(pos, slot, b.epoch)
	return slot, nil
}

// Lookup returns the slot holding key in the current frame, if any.
func (b *SRBuffer) Lookup(key TransformKey) (int, bool) {
	_, slot, hit := b.probe(key)
	return slot, hit
}

// allocate writes key into the next slot.
func (b *SRBuffer) allocate(key TransformKey) (int, error) {
	if b.n == len(b.keys) {
		return -1, ErrCapacityExceeded
	}
	slot := b.n
	b.keys[slot] = key
	b.mats[slot] = b.materialize(key)
	b.stamps[slot] = b.epoch
	b.n++
	b.dirty = true
	return slot, nil
}

// isLive reports whether slot was written in the current frame. The stamp
// check alone would be enough; the cursor check also rejects slots whose
// stamp survived from an older frame.
func (b *SRBuffer) isLive(slot int) bool {
	return slot >= 0 && slot < b.n && b.stamps[slot] == b.epoch
}

// Commit returns the matrices of the live slots, indexed by slot. The slice
// aliases internal storage and is valid until the next Reset. changed
// reports whether the contents differ from the previous Commit; repeated
// calls without new keys return the same slice.
func (b *SRBuffer) Commit() (mats []Mat, changed bool) {
	changed = b.dirty
	b.dirty = false
	return b.mats[:b.n:b.n], changed
}

// CommitBytes is Commit viewed as raw bytes, len(buf) == Len()*16, laid out
// as consecutive float32 quadruples in native byte order.
func (b *SRBuffer) CommitBytes() (buf []byte, changed bool) {
	mats, changed := b.Commit()
	return matBytes(mats), changed
}

// Len returns the number of live slots in the current frame.
func (b *SRBuffer) Len() int { return b.n }

// Cap returns the maximum number of unique transforms per frame.
func (b *SRBuffer) Cap() int { return len(b.keys) }

// Dirty reports whether a Commit would return changed contents.
func (b *SRBuffer) Dirty() bool { return b.dirty }

// Epoch returns the current frame stamp.
func (b *SRBuffer) Epoch() uint32 { return uint32(b.epoch) }

// Key returns the key stored in a live slot.
func (b *SRBuffer) Key(slot int) (TransformKey, bool) {
	if !b.isLive(slot) {
		return 0, false
	}
	return b.keys[slot], true
}

// Mat returns the matrix stored in a live slot.
func (b *SRBuffer) Mat(slot int) (Mat, bool) {
	if !b.isLive(slot) {
		return Mat{}, false
	}
	return b.mats[slot], true
}

// matBytes reinterprets mats as bytes without copying.
func matBytes(mats []Mat) []byte {
	if len(mats) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(mats))), len(mats)*matSize)
}
