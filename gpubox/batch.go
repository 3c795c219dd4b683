package gpubox

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/derwentx/mwalib"
)

// validateConsistency enforces the batch-completeness and shape-uniformity
// invariants of spec.md §4.2. It is a no-op (beyond shape checks) for V2
// and OldLegacy, which only ever have one batch.
func validateConsistency(version CorrelatorVersion, batches []Batch) *mwalib.Error {
	if len(batches) == 0 {
		return nil
	}

	if err := validateSharedShape(batches); err != nil {
		return err
	}

	if version != Legacy || len(batches) <= 1 {
		return nil
	}

	allNumbers := lo.Uniq(lo.FlatMap(batches, func(b Batch, _ int) []int {
		return lo.Map(b.Files, func(f *GpuboxFile, _ int) int { return f.GpuboxNumber })
	}))
	sort.Ints(allNumbers)

	lastBatchIdx := len(batches) - 1
	baseHduCount := batches[0].Files[0].HduCount

	for bi, b := range batches {
		present := lo.SliceToMap(b.Files, func(f *GpuboxFile) (int, bool) { return f.GpuboxNumber, true })
		missing := lo.Filter(allNumbers, func(n int, _ int) bool { return !present[n] })
		if len(missing) > 0 {
			return mwalib.NewInconsistentBatches(fmt.Sprintf(
				"batch %d is missing gpubox number(s) %v (present everywhere else: %v)",
				b.BatchNumber, missing, allNumbers))
		}

		for _, f := range b.Files {
			if bi == lastBatchIdx {
				if f.HduCount > baseHduCount {
					return mwalib.NewInconsistentBatches(fmt.Sprintf(
						"final batch %d gpubox %d has hdu_count=%d, exceeding batch 0's %d",
						b.BatchNumber, f.GpuboxNumber, f.HduCount, baseHduCount))
				}
			} else if f.HduCount != baseHduCount {
				return mwalib.NewInconsistentBatches(fmt.Sprintf(
					"batch %d gpubox %d has hdu_count=%d, batch 0 has %d",
					b.BatchNumber, f.GpuboxNumber, f.HduCount, baseHduCount))
			}
		}
	}

	return nil
}

func validateSharedShape(batches []Batch) *mwalib.Error {
	var want *ImageShape
	for _, b := range batches {
		for _, f := range b.Files {
			if want == nil {
				shape := f.ImageShape
				want = &shape
				continue
			}
			if f.ImageShape != *want {
				return mwalib.NewInconsistentBatches(fmt.Sprintf(
					"%s has image shape %+v, expected %+v", f.Path, f.ImageShape, *want))
			}
		}
	}
	return nil
}

// deriveDimensions computes the integration time (from the first two HDU
// timestamps of any one file) and the version-specific decomposition of
// NAXIS1/NAXIS2 into fine-channel count and baseline count.
func deriveDimensions(version CorrelatorVersion, files []*GpuboxFile) (integrationMS int64, numFine int, numBaselines int, err *mwalib.Error) {
	if len(files) == 0 {
		return 0, 0, 0, nil
	}

	sample := files[0]
	if len(sample.HduTimestampsMS) >= 2 {
		integrationMS = sample.HduTimestampsMS[1] - sample.HduTimestampsMS[0]
	}

	naxis1 := sample.ImageShape.Naxis1
	naxis2 := sample.ImageShape.Naxis2
	complexPolStride := mwalib.NumVisibilityPols * 2

	switch version {
	case V2:
		if naxis1%complexPolStride != 0 {
			return 0, 0, 0, mwalib.NewFitsIoError(sample.Path, "NAXIS1",
				fmt.Errorf("naxis1=%d is not a multiple of %d baselines*pols*2", naxis1, complexPolStride))
		}
		numBaselines = naxis1 / complexPolStride
		numFine = naxis2
	default: // Legacy, OldLegacy
		if naxis1%complexPolStride != 0 {
			return 0, 0, 0, mwalib.NewFitsIoError(sample.Path, "NAXIS1",
				fmt.Errorf("naxis1=%d is not a multiple of %d fine_chans*pols*2", naxis1, complexPolStride))
		}
		numFine = naxis1 / complexPolStride
		numBaselines = naxis2
	}

	return integrationMS, numFine, numBaselines, nil
}

// GpuboxNumbers returns the sorted, deduplicated set of gpubox numbers
// present anywhere in the discovery.
func (d *Discovery) GpuboxNumbers() []int {
	all := lo.Uniq(lo.FlatMap(d.Batches, func(b Batch, _ int) []int {
		return lo.Map(b.Files, func(f *GpuboxFile, _ int) int { return f.GpuboxNumber })
	}))
	sort.Ints(all)
	return all
}

// FileFor returns the GpuboxFile for (batchNumber, gpuboxNumber), or nil if
// absent.
func (d *Discovery) FileFor(batchNumber, gpuboxNumber int) *GpuboxFile {
	for _, b := range d.Batches {
		if b.BatchNumber != batchNumber {
			continue
		}
		for _, f := range b.Files {
			if f.GpuboxNumber == gpuboxNumber {
				return f
			}
		}
	}
	return nil
}
