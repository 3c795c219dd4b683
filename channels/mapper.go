package channels

import (
	"sort"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/gpubox"
)

// effectiveCorrelatorOrder reorders the metafits CHANNELS list (receiver
// channel numbers) into the order the correlator actually assigns to its
// gpubox slots: ascending for receivers <= 128, then descending for
// receivers > 128, a property of the digital receiver's channel mapping.
func effectiveCorrelatorOrder(scheduled []int) []int {
	sorted := append([]int(nil), scheduled...)
	sort.Ints(sorted)

	split := 0
	for _, ch := range sorted {
		if ch <= 128 {
			split++
		}
	}

	low := sorted[:split]
	high := append([]int(nil), sorted[split:]...)
	for i, j := 0, len(high)-1; i < j; i, j = i+1, j-1 {
		high[i], high[j] = high[j], high[i]
	}

	order := make([]int, 0, len(sorted))
	order = append(order, low...)
	order = append(order, high...)
	return order
}

// Build synthesizes the CoarseChannel table for the channels actually
// present in the gpubox file set. scheduled is the metafits CHANNELS list
// in metafits (receiver) order; present is the set of gpubox numbers that
// survived discovery.
func Build(scheduled []int, version gpubox.CorrelatorVersion, present []int) ([]CoarseChannel, *mwalib.Error) {
	var out []CoarseChannel

	switch version {
	case gpubox.V2:
		for _, gboxNum := range present {
			out = append(out, newChannel(gboxNum, gboxNum))
		}
	default: // Legacy, OldLegacy
		order := effectiveCorrelatorOrder(scheduled)
		for _, gboxNum := range present {
			if gboxNum < 1 || gboxNum > len(order) {
				return nil, mwalib.NewInconsistentBatches(
					"gpubox number out of range of scheduled channel list")
			}
			receiver := order[gboxNum-1]
			out = append(out, newChannel(gboxNum, receiver))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CentreHz < out[j].CentreHz })
	for i := range out {
		out[i].CorrelatorIndex = i
	}

	return out, nil
}

func newChannel(gpuboxNumber, receiverChannelNumber int) CoarseChannel {
	centre := int64(receiverChannelNumber) * mwalib.ReceiverChannelHz
	return CoarseChannel{
		ReceiverChannelNumber: receiverChannelNumber,
		GpuboxNumber:          gpuboxNumber,
		WidthHz:               mwalib.CoarseChannelWidthHz,
		StartHz:               centre - mwalib.CoarseChannelWidthHz/2,
		CentreHz:              centre,
		EndHz:                 centre + mwalib.CoarseChannelWidthHz/2,
	}
}
