package timestep

import (
	"testing"

	"github.com/derwentx/mwalib/gpubox"
)

func discoveryWithSlots(slots map[slot][]int64) *gpubox.Discovery {
	batchFiles := make(map[int][]*gpubox.GpuboxFile)
	for s, ts := range slots {
		batchFiles[s.batch] = append(batchFiles[s.batch], &gpubox.GpuboxFile{
			GpuboxNumber:    s.gpubox,
			HduTimestampsMS: ts,
		})
	}
	var batches []gpubox.Batch
	for b, files := range batchFiles {
		batches = append(batches, gpubox.Batch{BatchNumber: b, Files: files})
	}
	return &gpubox.Discovery{Batches: batches}
}

func TestBuildIntersectsCommonTimesteps(t *testing.T) {
	d := discoveryWithSlots(map[slot][]int64{
		{batch: 0, gpubox: 1}: {1000, 2000, 3000, 4000},
		{batch: 0, gpubox: 2}: {1000, 2000, 3000}, // missing 4000
	})
	grid, err := Build(d, 1000)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(grid.Timesteps) != 3 {
		t.Fatalf("len(Timesteps) = %d, want 3: %+v", len(grid.Timesteps), grid.Timesteps)
	}
	if grid.Timesteps[len(grid.Timesteps)-1].UnixTimeMS != 3000 {
		t.Errorf("last timestep = %d, want 3000", grid.Timesteps[len(grid.Timesteps)-1].UnixTimeMS)
	}
	if grid.StartUnixMS != 1000 || grid.EndUnixMS != 4000 {
		t.Errorf("Start/End = %d/%d, want 1000/4000", grid.StartUnixMS, grid.EndUnixMS)
	}
}

func TestBuildNoCommonTimestepsErrors(t *testing.T) {
	d := discoveryWithSlots(map[slot][]int64{
		{batch: 0, gpubox: 1}: {1000, 2000},
		{batch: 0, gpubox: 2}: {5000, 6000},
	})
	if _, err := Build(d, 1000); err == nil {
		t.Fatal("expected NoCommonTimesteps error")
	}
}

func TestHduIndexOfReportsMissingSlotAsSoftMiss(t *testing.T) {
	d := discoveryWithSlots(map[slot][]int64{
		{batch: 0, gpubox: 1}: {1000, 2000},
		{batch: 0, gpubox: 2}: {1000, 2000},
	})
	grid, err := Build(d, 1000)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := grid.HduIndexOf(0, 1, 0); !ok {
		t.Error("HduIndexOf(0, 1, 0) ok = false, want true")
	}
	if _, ok := grid.HduIndexOf(0, 99, 0); ok {
		t.Error("HduIndexOf(0, 99, 0) ok = true, want false for unknown slot")
	}
	if _, ok := grid.HduIndexOf(0, 1, 99); ok {
		t.Error("HduIndexOf(0, 1, 99) ok = true, want false for out-of-range timestep index")
	}
}
