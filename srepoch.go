package sprig

// frameEpoch stamps slots and index buckets with the frame that wrote them.
// Zero is never a live epoch, so zeroed storage always reads as stale.
type frameEpoch uint32

// advance moves to the next frame. It reports true when the counter wrapped
// and restarted at 1; the caller must then zero every stamp it owns, or
// entries written 2^32 frames ago would read as live.
func (e *frameEpoch) advance() bool {
	*e++
	if *e == 0 {
		*e = 1
		return true
	}
	return false
}
