package sprig

import "math/bits"

// srBucket maps one hashed key to a slot for the frame in stamp.
type srBucket struct {
	stamp frameEpoch
	slot  uint16
}

// srIndex is an open-addressed table from TransformKey to slot. It holds at
// least twice as many buckets as the arena has slots, so a probe always
// reaches a bucket not stamped in the current frame.
//
// The index is only a hint: every hit is verified against the arena.
type srIndex struct {
	buckets []srBucket
	mask    uint32
	shift   uint32
}

func newSRIndex(capacity int) srIndex {
	size := 2
	for size < 2*capacity {
		size <<= 1
	}
	return srIndex{
		buckets: make([]srBucket, size),
		mask:    uint32(size - 1),
		shift:   uint32(32 - bits.TrailingZeros(uint(size))),
	}
}

// home returns the first bucket probed for key (Fibonacci hashing).
func (x *srIndex) home(key TransformKey) uint32 {
	return (uint32(key) * 0x9E3779B1) >> x.shift
}

// claim points bucket pos at slot for the given epoch.
func (x *srIndex) claim(pos uint32, slot int, epoch frameEpoch) {
	x.buckets[pos] = srBucket{stamp: epoch, slot: uint16(slot)}
}

func (x *srIndex) clear() {
	clear(x.buckets)
}

// probe walks the chain for key. On a hit it returns the verified slot; on a
// miss it returns the first bucket free in this frame, where the key belongs.
func (b *SRBuffer) probe(key TransformKey) (pos uint32, slot int, hit bool) {
	x := &b.index
	pos = x.home(key)
	for {
		bk := &x.buckets[pos]
		if bk.stamp != b.epoch {
			return pos, -1, false
		}
		s := int(bk.slot)
		if b.isLive(s) && b.keys[s] == key {
			return pos, s, true
		}
		pos = (pos + 1) & x.mask
	}
}
