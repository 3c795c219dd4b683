package tilereader

import "github.com/derwentx/mwalib/gpubox"

// Layout identifies which axis order the caller wants visibilities
// delivered in.
type Layout int

const (
	// ByBaseline is [baseline][fine_chan][pol][re,im].
	ByBaseline Layout = iota
	// ByFrequency is [fine_chan][baseline][pol][re,im].
	ByFrequency
)

// pol indices within the fixed {XX, XY, YX, YY} order.
const (
	polXX = 0
	polXY = 1
	polYX = 2
	polYY = 3
)

// rawIndex returns the flat float offset of (fineChan, baseline, pol, ri)
// within a raw HDU image, given the correlator version's wire layout.
// ri is 0 for the real component, 1 for imaginary.
func rawIndex(version gpubox.CorrelatorVersion, numBaselines, numFineChans int, fineChan, baseline, pol, ri int) int {
	stride := 4 * 2
	if version == gpubox.V2 {
		// [fine_chan][baseline][pol][re,im]
		return fineChan*(numBaselines*stride) + baseline*stride + pol*2 + ri
	}
	// Legacy, OldLegacy: [baseline][fine_chan][pol][re,im]
	return baseline*(numFineChans*stride) + fineChan*stride + pol*2 + ri
}

// outIndex returns the flat float offset of (fineChan, baseline, pol, ri)
// within the canonical output buffer for the requested layout.
func outIndex(layout Layout, numBaselines, numFineChans int, fineChan, baseline, pol, ri int) int {
	stride := 4 * 2
	if layout == ByBaseline {
		return baseline*(numFineChans*stride) + fineChan*stride + pol*2 + ri
	}
	return fineChan*(numBaselines*stride) + baseline*stride + pol*2 + ri
}

// remapLegacyPol undoes the legacy correlator's upper-triangle conjugate
// convention: XX and YY are stored as-is; the cross pols are stored
// conjugated and pol-swapped, a consequence of the legacy correlator
// physically packing ant1 >= ant2 while this module's canonical baseline
// order requires ant1 <= ant2. See DESIGN.md for why this is the chosen
// resolution of spec.md §9's ambiguity on the exact conjugation point.
func remapLegacyPol(re, im [4]float32) (outRe, outIm [4]float32) {
	outRe[polXX], outIm[polXX] = re[polXX], im[polXX]
	outRe[polYY], outIm[polYY] = re[polYY], im[polYY]
	outRe[polXY], outIm[polXY] = re[polYX], -im[polYX]
	outRe[polYX], outIm[polYX] = re[polXY], -im[polXY]
	return
}

// transform reads every (fineChan, baseline) complex visibility out of raw
// (shaped per version's wire layout) and writes it into out (shaped per
// layout), applying the legacy conjugate/pol-swap remap where needed.
func transform(
	version gpubox.CorrelatorVersion,
	layout Layout,
	numBaselines, numFineChans int,
	raw []float32,
	out []float32,
) {
	isLegacy := version != gpubox.V2

	for fc := 0; fc < numFineChans; fc++ {
		for bl := 0; bl < numBaselines; bl++ {
			var re, im [4]float32
			for pol := 0; pol < 4; pol++ {
				ri := rawIndex(version, numBaselines, numFineChans, fc, bl, pol, 0)
				ii := rawIndex(version, numBaselines, numFineChans, fc, bl, pol, 1)
				re[pol] = raw[ri]
				im[pol] = raw[ii]
			}
			if isLegacy {
				re, im = remapLegacyPol(re, im)
			}
			for pol := 0; pol < 4; pol++ {
				ro := outIndex(layout, numBaselines, numFineChans, fc, bl, pol, 0)
				io := outIndex(layout, numBaselines, numFineChans, fc, bl, pol, 1)
				out[ro] = re[pol]
				out[io] = im[pol]
			}
		}
	}
}
