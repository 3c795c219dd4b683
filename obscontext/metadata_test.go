package obscontext

import (
	"testing"

	"github.com/derwentx/mwalib/channels"
	"github.com/derwentx/mwalib/gpubox"
	"github.com/derwentx/mwalib/metafits"
	"github.com/derwentx/mwalib/timestep"
)

func metafitsOnlyContext() *ObservationContext {
	return &ObservationContext{
		Descriptor: &metafits.ObservationDescriptor{
			ObsID:         1234567890,
			NumAntennas:   2,
			NumInputs:     4,
			NumAntennaPols: 2,
		},
	}
}

func fullContext() *ObservationContext {
	return &ObservationContext{
		Descriptor:            metafitsOnlyContext().Descriptor,
		hasCorrelatorData:     true,
		CorrelatorVersion:     gpubox.V2,
		CoarseChannels:        []channels.CoarseChannel{{CorrelatorIndex: 0, CentreHz: 150_000_000}},
		Timesteps:             []timestep.Timestep{{UnixTimeMS: 1000}, {UnixTimeMS: 3000}},
		Discovery:             &gpubox.Discovery{Batches: []gpubox.Batch{{BatchNumber: 0, Files: []*gpubox.GpuboxFile{{}}}}},
		StartUnixMS:           1000,
		EndUnixMS:             5000,
		IntegrationTimeMS:     2000,
		NumFineChansPerCoarse: 128,
		NumBaselines:          8128,
		FloatsPerHdu:          8128 * 128 * 8,
		BytesPerHdu:           8128 * 128 * 8 * 4,
	}
}

func TestHasCorrelatorDataDistinguishesFlavours(t *testing.T) {
	if metafitsOnlyContext().HasCorrelatorData() {
		t.Error("metafits-only context reports HasCorrelatorData = true")
	}
	if !fullContext().HasCorrelatorData() {
		t.Error("full context reports HasCorrelatorData = false")
	}
}

func TestGetMetafitsMetadataAlwaysAvailable(t *testing.T) {
	meta := GetMetafitsMetadata(metafitsOnlyContext())
	if meta.ObsID != 1234567890 {
		t.Errorf("ObsID = %d, want 1234567890", meta.ObsID)
	}
	if meta.MwaLatitudeRadians == 0 {
		t.Error("MwaLatitudeRadians should be the fixed site constant, not zero")
	}
}

func TestGetCorrelatorMetadataFailsOnMetafitsOnly(t *testing.T) {
	if _, err := GetCorrelatorMetadata(metafitsOnlyContext()); err == nil {
		t.Fatal("expected IncompatibleContext error on a metafits-only context")
	}
}

func TestGetCorrelatorMetadataOnFullContext(t *testing.T) {
	corr, err := GetCorrelatorMetadata(fullContext())
	if err != nil {
		t.Fatalf("GetCorrelatorMetadata: %v", err)
	}
	if corr.NumTimesteps != 2 {
		t.Errorf("NumTimesteps = %d, want 2", corr.NumTimesteps)
	}
	if corr.DurationMS != 4000 {
		t.Errorf("DurationMS = %d, want 4000", corr.DurationMS)
	}
	if corr.NumGpuboxFiles != 1 {
		t.Errorf("NumGpuboxFiles = %d, want 1", corr.NumGpuboxFiles)
	}
}

func TestListCoarseChannelsAndTimestepsFailOnMetafitsOnly(t *testing.T) {
	ctx := metafitsOnlyContext()
	if _, err := ListCoarseChannels(ctx); err == nil {
		t.Error("expected IncompatibleContext from ListCoarseChannels")
	}
	if _, err := ListTimesteps(ctx); err == nil {
		t.Error("expected IncompatibleContext from ListTimesteps")
	}
}

func TestListVisibilityPolsFixedOrder(t *testing.T) {
	pols := ListVisibilityPols(fullContext())
	want := []string{"XX", "XY", "YX", "YY"}
	if len(pols) != len(want) {
		t.Fatalf("ListVisibilityPols() = %v, want %v", pols, want)
	}
	for i := range want {
		if pols[i] != want[i] {
			t.Errorf("pols[%d] = %s, want %s", i, pols[i], want[i])
		}
	}
}
