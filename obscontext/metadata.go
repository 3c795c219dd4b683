package obscontext

import (
	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/channels"
	"github.com/derwentx/mwalib/metafits"
	"github.com/derwentx/mwalib/timestep"
)

// MetafitsMetadata is the value struct get_metafits_metadata returns: the
// scalar, always-available fields of an observation, regardless of
// whether gpubox data was ever loaded.
type MetafitsMetadata struct {
	ObsID                int
	MwaLatitudeRadians   float64
	MwaLongitudeRadians  float64
	MwaAltitudeMetres    float64
	CoaxVFactor          float64
	RAPhaseDegrees       float64
	DecPhaseDegrees      float64
	AzimuthDegrees       float64
	AltitudeDegrees      float64
	SunAltDegrees        float64
	SunDistDegrees       float64
	MoonDistDegrees      float64
	JupiterDistDegrees   float64
	LSTDegrees           float64
	HourAngle            string
	GridName             string
	GridNumber           int
	Creator              string
	ProjectID            string
	ObservationName      string
	Mode                 string
	ScheduledStartUnixMS int64
	ScheduledEndUnixMS   int64
	ScheduledDurationMS  int64
	QuackTimeMS          int64
	GoodTimeUnixMS       int64
	NumAntennas          int
	NumRfInputs          int
	NumAntennaPols       int
}

// GetMetafitsMetadata returns the always-available scalar metadata view.
// This never fails: every field it reports was validated at construction.
func GetMetafitsMetadata(c *ObservationContext) MetafitsMetadata {
	d := c.Descriptor
	return MetafitsMetadata{
		ObsID:                d.ObsID,
		MwaLatitudeRadians:   mwalib.MwaLatitudeRadians,
		MwaLongitudeRadians:  mwalib.MwaLongitudeRadians,
		MwaAltitudeMetres:    mwalib.MwaAltitudeMetres,
		CoaxVFactor:          mwalib.CoaxVFactor,
		RAPhaseDegrees:       d.RAPhaseDegrees,
		DecPhaseDegrees:      d.DecPhaseDegrees,
		AzimuthDegrees:       d.AzimuthDegrees,
		AltitudeDegrees:      d.AltitudeDegrees,
		SunAltDegrees:        d.SunAltDegrees,
		SunDistDegrees:       d.SunDistDegrees,
		MoonDistDegrees:      d.MoonDistDegrees,
		JupiterDistDegrees:   d.JupiterDistDegrees,
		LSTDegrees:           d.LSTDegrees,
		HourAngle:            d.HourAngle,
		GridName:             d.GridName,
		GridNumber:           d.GridNumber,
		Creator:              d.Creator,
		ProjectID:            d.ProjectID,
		ObservationName:      d.ObservationName,
		Mode:                 d.Mode,
		ScheduledStartUnixMS: d.ScheduledStartUnixMS,
		ScheduledEndUnixMS:   d.ScheduledEndUnixMS,
		ScheduledDurationMS:  int64(d.ScheduledDurationS * 1000),
		QuackTimeMS:          int64(d.QuackTimeS * 1000),
		GoodTimeUnixMS:       int64(d.GoodTimeUnixS * 1000),
		NumAntennas:          d.NumAntennas,
		NumRfInputs:          d.NumInputs,
		NumAntennaPols:       d.NumAntennaPols,
	}
}

// CorrelatorMetadata is the value struct get_correlator_metadata returns:
// only available on a Full context.
type CorrelatorMetadata struct {
	CorrelatorVersion     string
	StartUnixMS           int64
	EndUnixMS             int64
	DurationMS            int64
	NumTimesteps          int
	NumBaselines          int
	NumVisibilityPols     int
	IntegrationTimeMS     int64
	NumCoarseChannels     int
	ObservationBandwidthHz int64
	CoarseChannelWidthHz  int64
	FineChannelWidthHz    int64
	NumFineChansPerCoarse int
	BytesPerHdu           int
	FloatsPerHdu          int
	NumGpuboxFiles        int
}

// GetCorrelatorMetadata returns the gpubox-derived metadata view. It fails
// with IncompatibleContext if c was built from the metafits alone.
func GetCorrelatorMetadata(c *ObservationContext) (CorrelatorMetadata, *mwalib.Error) {
	if !c.HasCorrelatorData() {
		return CorrelatorMetadata{}, mwalib.NewIncompatibleContext("context has no gpubox data; build with BuildCorrelatorContext")
	}
	numGpuboxFiles := 0
	if len(c.Discovery.Batches) > 0 {
		numGpuboxFiles = len(c.Discovery.Batches[0].Files)
	}
	return CorrelatorMetadata{
		CorrelatorVersion:      c.CorrelatorVersion.String(),
		StartUnixMS:            c.StartUnixMS,
		EndUnixMS:              c.EndUnixMS,
		DurationMS:             c.EndUnixMS - c.StartUnixMS,
		NumTimesteps:           len(c.Timesteps),
		NumBaselines:           c.NumBaselines,
		NumVisibilityPols:      mwalib.NumVisibilityPols,
		IntegrationTimeMS:      c.IntegrationTimeMS,
		NumCoarseChannels:      len(c.CoarseChannels),
		ObservationBandwidthHz: int64(len(c.CoarseChannels)) * mwalib.CoarseChannelWidthHz,
		CoarseChannelWidthHz:   mwalib.CoarseChannelWidthHz,
		FineChannelWidthHz:     mwalib.CoarseChannelWidthHz / int64(maxInt(c.NumFineChansPerCoarse, 1)),
		NumFineChansPerCoarse:  c.NumFineChansPerCoarse,
		BytesPerHdu:            c.BytesPerHdu,
		FloatsPerHdu:           c.FloatsPerHdu,
		NumGpuboxFiles:         numGpuboxFiles,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ListAntennas returns the antenna table in antenna_id order.
func ListAntennas(c *ObservationContext) []metafits.Antenna {
	return c.Descriptor.Antennas
}

// ListRfInputs returns the RF input table in Subfile_Order order.
func ListRfInputs(c *ObservationContext) []metafits.RfInput {
	return c.Descriptor.RfInputs
}

// ListBaselines returns every (ant1, ant2) pair with ant1 <= ant2.
func ListBaselines(c *ObservationContext) []metafits.Baseline {
	return c.Descriptor.Baselines
}

// ListCoarseChannels returns the coarse-channel table sorted by CentreHz
// ascending, or IncompatibleContext on a metafits-only context.
func ListCoarseChannels(c *ObservationContext) ([]channels.CoarseChannel, *mwalib.Error) {
	if !c.HasCorrelatorData() {
		return nil, mwalib.NewIncompatibleContext("context has no gpubox data; build with BuildCorrelatorContext")
	}
	return c.CoarseChannels, nil
}

// ListTimesteps returns the common timestep table, or IncompatibleContext
// on a metafits-only context.
func ListTimesteps(c *ObservationContext) ([]timestep.Timestep, *mwalib.Error) {
	if !c.HasCorrelatorData() {
		return nil, mwalib.NewIncompatibleContext("context has no gpubox data; build with BuildCorrelatorContext")
	}
	return c.Timesteps, nil
}

// ListVisibilityPols returns the fixed XX, XY, YX, YY polarisation order.
func ListVisibilityPols(c *ObservationContext) []string {
	return []string{"XX", "XY", "YX", "YY"}
}
