package gpubox

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/alitto/pond"
	"github.com/samber/lo"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/fitsaccess"
)

// Discover classifies every path, detects the single correlator version
// they must all share, probes each file's HDUs concurrently (construction
// only — this never runs on the read path), groups the result into
// batches and validates mutual consistency.
func Discover(paths []string) (*Discovery, *mwalib.Error) {
	if len(paths) == 0 {
		return &Discovery{}, nil
	}

	classes := make([]classified, len(paths))
	for i, p := range paths {
		c, err := classify(p)
		if err != nil {
			return nil, err
		}
		classes[i] = c
	}

	version := classes[0].version
	for i, c := range classes {
		if c.version != version {
			return nil, mwalib.NewMixedCorrelatorVersions(
				fmt.Sprintf("%s is %s, but %s is %s", paths[0], version, paths[i], c.version))
		}
	}

	files, perr := probeAll(paths)
	if perr != nil {
		return nil, perr
	}
	for i, c := range classes {
		files[i].GpuboxNumber = c.gpuboxNumber
		files[i].BatchNumber = c.batchNumber
	}

	batches := groupBatches(files)
	sort.Slice(batches, func(i, j int) bool { return batches[i].BatchNumber < batches[j].BatchNumber })

	if err := validateConsistency(version, batches); err != nil {
		return nil, err
	}

	integration, numFine, numBaselines, err := deriveDimensions(version, files)
	if err != nil {
		return nil, err
	}

	return &Discovery{
		Version:               version,
		Batches:                batches,
		IntegrationTimeMS:      integration,
		NumFineChansPerCoarse:  numFine,
		NumBaselines:           numBaselines,
	}, nil
}

// probeAll opens every gpubox file concurrently across a worker pool sized
// to the host, reading image shape and per-HDU timestamps from each. This
// is the only place in the module that runs work in parallel; the result
// feeds a synchronous, immutable ObservationContext.
func probeAll(paths []string) ([]*GpuboxFile, *mwalib.Error) {
	n := runtime.NumCPU() * 2
	if n > len(paths) {
		n = len(paths)
	}
	if n < 1 {
		n = 1
	}

	pool := pond.New(n, 0, pond.MinWorkers(n))
	defer pool.StopAndWait()

	results := make([]*GpuboxFile, len(paths))
	errs := make([]*mwalib.Error, len(paths))

	for i, p := range paths {
		i, p := i, p
		pool.Submit(func() {
			gf, err := probeFile(p)
			results[i] = gf
			errs[i] = err
		})
	}

	pool.StopAndWait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// probeFile opens one gpubox file and reads the shape and per-HDU
// timestamps of its image HDUs (every HDU at index 1..N-1; index 0 is the
// primary header-only HDU).
func probeFile(path string) (*GpuboxFile, *mwalib.Error) {
	f, err := fitsaccess.Open(path)
	if err != nil {
		return nil, mwalib.NewFitsIoError(path, "open", err)
	}
	defer f.Close()

	numHdus := f.NumHDUs()
	if numHdus < 2 {
		return nil, mwalib.NewFitsIoError(path, "hdus", fmt.Errorf("expected at least one image hdu, found %d total hdus", numHdus))
	}

	naxis1, naxis2, ferr := f.ImageShape(1)
	if ferr != nil {
		return nil, mwalib.NewFitsIoError(path, "NAXIS", ferr)
	}

	hduCount := numHdus - 1
	timestamps := make([]int64, hduCount)
	for hi := 0; hi < hduCount; hi++ {
		idx := hi + 1
		t, ok, terr := f.IntKeyword(idx, "TIME")
		if terr != nil {
			return nil, mwalib.NewFitsIoError(path, "TIME", terr)
		}
		if !ok {
			t, _, terr = f.IntKeyword(0, "TIME")
			if terr != nil {
				return nil, mwalib.NewFitsIoError(path, "TIME", terr)
			}
		}
		ms, ok, merr := f.IntKeyword(idx, "MILLITIM")
		if merr != nil {
			return nil, mwalib.NewFitsIoError(path, "MILLITIM", merr)
		}
		if !ok {
			ms, _, merr = f.IntKeyword(0, "MILLITIM")
			if merr != nil {
				return nil, mwalib.NewFitsIoError(path, "MILLITIM", merr)
			}
		}
		timestamps[hi] = t*1000 + ms
	}

	gf := &GpuboxFile{
		Path:            path,
		HduCount:        hduCount,
		ImageShape:      ImageShape{Naxis1: naxis1, Naxis2: naxis2},
		HduTimestampsMS: timestamps,
	}
	if hduCount > 0 {
		gf.FirstHduTimeMS = timestamps[0]
	}
	return gf, nil
}

// groupBatches partitions files by BatchNumber and sorts each batch's
// files by GpuboxNumber ascending.
func groupBatches(files []*GpuboxFile) []Batch {
	grouped := lo.GroupBy(files, func(f *GpuboxFile) int { return f.BatchNumber })
	batches := make([]Batch, 0, len(grouped))
	for batchNumber, batchFiles := range grouped {
		sort.Slice(batchFiles, func(i, j int) bool { return batchFiles[i].GpuboxNumber < batchFiles[j].GpuboxNumber })
		batches = append(batches, Batch{BatchNumber: batchNumber, Files: batchFiles})
	}
	return batches
}
