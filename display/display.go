// Package display renders an ObservationContext as the human-readable
// summary the original C driver example produced with a sequence of printf
// calls; this package is that same walk through obs id, antennas,
// baselines, coarse channels, rf_inputs, timesteps and visibility pols,
// written as one io.Writer sink instead of scattered across a C main().
package display

import (
	"fmt"
	"io"

	"github.com/derwentx/mwalib/obscontext"
)

// Summary writes a plain-text report of c to w. It never fails on a
// metafits-only context: sections that need gpubox data are simply
// skipped, with a note saying so.
func Summary(w io.Writer, c *obscontext.ObservationContext) error {
	meta := obscontext.GetMetafitsMetadata(c)

	fmt.Fprintf(w, "obs_id: %d\n", meta.ObsID)
	fmt.Fprintf(w, "project_id: %s\n", meta.ProjectID)
	fmt.Fprintf(w, "observation_name: %s\n", meta.ObservationName)
	fmt.Fprintf(w, "mode: %s\n", meta.Mode)
	fmt.Fprintf(w, "pointing: ra_phase=%.4f dec_phase=%.4f az=%.4f alt=%.4f\n",
		meta.RAPhaseDegrees, meta.DecPhaseDegrees, meta.AzimuthDegrees, meta.AltitudeDegrees)

	antennas := obscontext.ListAntennas(c)
	fmt.Fprintf(w, "%d antennas returned\n", len(antennas))
	for i, ant := range antennas {
		fmt.Fprintf(w, "antenna %d is %s\n", i, ant.TileName)
	}

	baselines := obscontext.ListBaselines(c)
	fmt.Fprintf(w, "%d baselines returned\n", len(baselines))
	for i, bl := range baselines {
		fmt.Fprintf(w, "baseline %d is ant %d vs ant %d\n", i, bl.Ant1Index, bl.Ant2Index)
	}

	rfInputs := obscontext.ListRfInputs(c)
	fmt.Fprintf(w, "%d rf_inputs returned\n", len(rfInputs))
	for i, rf := range rfInputs {
		fmt.Fprintf(w, "rf_input %d is %s %s\n", i, rf.TileName, rf.Pol)
	}

	fmt.Fprintf(w, "%d visibility pols returned\n", len(obscontext.ListVisibilityPols(c)))
	for i, pol := range obscontext.ListVisibilityPols(c) {
		fmt.Fprintf(w, "visibility_pol %d is %s\n", i, pol)
	}

	if !c.HasCorrelatorData() {
		fmt.Fprintln(w, "context has no gpubox data; coarse channel and timestep sections skipped")
		return nil
	}

	corr, err := obscontext.GetCorrelatorMetadata(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "correlator_version: %s\n", corr.CorrelatorVersion)
	fmt.Fprintf(w, "integration_time_ms: %d\n", corr.IntegrationTimeMS)
	fmt.Fprintf(w, "num_gpubox_files: %d\n", corr.NumGpuboxFiles)

	channels, err := obscontext.ListCoarseChannels(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d coarse channels returned\n", len(channels))
	for i, ch := range channels {
		fmt.Fprintf(w, "coarse channel %d is %.2f MHz (gpubox %d)\n", i, float64(ch.CentreHz)/1e6, ch.GpuboxNumber)
	}

	timesteps, err := obscontext.ListTimesteps(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d timesteps returned\n", len(timesteps))
	for i, ts := range timesteps {
		fmt.Fprintf(w, "timestep %d is %.2f\n", i, float64(ts.UnixTimeMS)/1000.0)
	}

	return nil
}
