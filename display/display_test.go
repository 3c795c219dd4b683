package display

import (
	"strings"
	"testing"

	"github.com/derwentx/mwalib/metafits"
	"github.com/derwentx/mwalib/obscontext"
)

func metafitsOnlyContext(t *testing.T) *obscontext.ObservationContext {
	t.Helper()
	desc := &metafits.ObservationDescriptor{
		ObsID:           1234567890,
		ProjectID:       "G0000",
		ObservationName: "test",
		Antennas:        []metafits.Antenna{{AntennaID: 0, TileID: 11, TileName: "Tile011"}},
		Baselines:       []metafits.Baseline{{Ant1Index: 0, Ant2Index: 0}},
		RfInputs: []metafits.RfInput{
			{InputOrder: 0, AntennaID: 0, TileName: "Tile011", Pol: metafits.PolX},
			{InputOrder: 1, AntennaID: 0, TileName: "Tile011", Pol: metafits.PolY},
		},
	}
	return &obscontext.ObservationContext{Descriptor: desc}
}

func TestSummaryMetafitsOnlySkipsCorrelatorSections(t *testing.T) {
	ctx := metafitsOnlyContext(t)

	var buf strings.Builder
	if err := Summary(&buf, ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "obs_id: 1234567890") {
		t.Errorf("missing obs_id line: %s", out)
	}
	if !strings.Contains(out, "coarse channel and timestep sections skipped") {
		t.Errorf("missing skip note: %s", out)
	}
}
