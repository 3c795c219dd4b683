// Package timestep computes the intersection of HDU timestamps across
// every (batch, gpubox_number) slot, yielding the monotonically increasing
// list of timesteps common to the whole observation, plus a lookup table
// from (batch, gpubox_number, timestep_index) to the HDU index that holds
// that timestep's data in that file.
package timestep

import (
	"sort"

	"github.com/samber/lo"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/gpubox"
)

// Timestep is one common timestamp shared by every gpubox file.
type Timestep struct {
	UnixTimeMS int64
}

// slot identifies one (batch, gpubox_number) file within the discovery.
type slot struct {
	batch  int
	gpubox int
}

// Grid is the product of intersecting every file's HDU timestamps.
type Grid struct {
	Timesteps       []Timestep
	StartUnixMS     int64
	EndUnixMS       int64
	DurationMS      int64
	hduIndexOf      map[slot]map[int64]int // slot -> timestamp -> hdu index
}

// missingHdu is the sentinel returned by HduIndexOf when a (batch,
// gpubox_number) slot has no HDU for a timestep that is nonetheless common
// to every other slot pairing used to build the grid. The reader treats
// this as a soft, zero-fill condition, never an error.
const missingHdu = -1

// Build computes the common timestep grid for a Discovery and the
// per-slot HDU lookup table. integrationTimeMS is used only to populate
// Grid.EndUnixMS (start of the last common timestep plus one integration).
func Build(d *gpubox.Discovery, integrationTimeMS int64) (*Grid, *mwalib.Error) {
	perSlotTimestamps := make(map[slot][]int64)
	perSlotIndex := make(map[slot]map[int64]int)

	for _, b := range d.Batches {
		for _, f := range b.Files {
			s := slot{batch: b.BatchNumber, gpubox: f.GpuboxNumber}
			perSlotTimestamps[s] = f.HduTimestampsMS

			idx := make(map[int64]int, len(f.HduTimestampsMS))
			for hi, ts := range f.HduTimestampsMS {
				idx[ts] = hi
			}
			perSlotIndex[s] = idx
		}
	}

	if len(perSlotTimestamps) == 0 {
		return nil, mwalib.NewNoCommonTimesteps()
	}

	var common []int64
	first := true
	for _, timestamps := range perSlotTimestamps {
		if first {
			common = append([]int64(nil), timestamps...)
			first = false
			continue
		}
		common = lo.Intersect(common, timestamps)
	}
	common = lo.Uniq(common)
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	if len(common) == 0 {
		return nil, mwalib.NewNoCommonTimesteps()
	}

	timesteps := make([]Timestep, len(common))
	for i, ts := range common {
		timesteps[i] = Timestep{UnixTimeMS: ts}
	}

	start := common[0]
	end := common[len(common)-1] + integrationTimeMS

	return &Grid{
		Timesteps:   timesteps,
		StartUnixMS: start,
		EndUnixMS:   end,
		DurationMS:  end - start,
		hduIndexOf:  perSlotIndex,
	}, nil
}

// HduIndexOf resolves the HDU index within the (batch, gpuboxNumber) file
// that holds timestepIndex's data. The second return is false if that
// file has no HDU at this timestep's timestamp — the caller must then
// zero-fill rather than treat it as an error.
func (g *Grid) HduIndexOf(batch, gpuboxNumber, timestepIndex int) (int, bool) {
	if timestepIndex < 0 || timestepIndex >= len(g.Timesteps) {
		return missingHdu, false
	}
	ts := g.Timesteps[timestepIndex].UnixTimeMS
	idx, ok := g.hduIndexOf[slot{batch: batch, gpubox: gpuboxNumber}]
	if !ok {
		return missingHdu, false
	}
	hi, ok := idx[ts]
	if !ok {
		return missingHdu, false
	}
	return hi, true
}
