// Package channels converts the metafits receiver channel list into the
// sorted physical channel layout and computes the gpubox-index <-> channel
// mapping, which is version-specific and not monotonic in gpubox index.
package channels

// CoarseChannel is one 1.28 MHz slice of the observation, ordered by
// CorrelatorIndex ascending in CentreHz.
type CoarseChannel struct {
	CorrelatorIndex       int // 0..M-1, position after sorting by CentreHz ascending
	ReceiverChannelNumber int // 0..255
	GpuboxNumber          int // Legacy: 1..24 slot. V2: three-digit receiver channel.
	WidthHz               int64
	StartHz               int64
	CentreHz              int64
	EndHz                 int64
}
