// Package obscontext assembles the Metafits Parser, Gpubox Discovery &
// Batcher, Coarse-Channel Mapper and Timestep Grid Builder into the single
// read-only value type the rest of the module serves reads from.
package obscontext

import (
	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/channels"
	"github.com/derwentx/mwalib/gpubox"
	"github.com/derwentx/mwalib/metafits"
	"github.com/derwentx/mwalib/timestep"
)

// Options configures the (presently singular) behavioural knob this module
// exposes: spec.md §9's open question on whether an integration-time
// mismatch between the metafits INTTIME keyword and the gpubox HDU delta
// should hard-fail. The default is to fail loudly; AllowIntegrationTimeMismatch
// opts out.
type Options struct {
	AllowIntegrationTimeMismatch bool
}

// ObservationContext is the immutable, shared-read-only product of
// construction. It models spec.md §9's two-flavour sum type as a single
// struct whose gpubox-derived fields are zero-valued when built from
// metafits alone; HasCorrelatorData reports which flavour this is.
type ObservationContext struct {
	Descriptor *metafits.ObservationDescriptor

	hasCorrelatorData bool

	CorrelatorVersion gpubox.CorrelatorVersion
	CoarseChannels    []channels.CoarseChannel
	Timesteps         []timestep.Timestep
	Discovery         *gpubox.Discovery
	Grid              *timestep.Grid

	StartUnixMS          int64
	EndUnixMS             int64
	IntegrationTimeMS     int64
	NumFineChansPerCoarse int
	NumBaselines          int
	BytesPerHdu           int
	FloatsPerHdu          int
	HdusPerBatch          int
}

// HasCorrelatorData reports whether this context was built with gpubox
// data (Full) or from the metafits alone (MetafitsOnly).
func (c *ObservationContext) HasCorrelatorData() bool {
	return c.hasCorrelatorData
}

// BuildMetafitsContext parses only the metafits sidecar, producing a
// context with empty timestep, coarse-channel and gpubox tables.
func BuildMetafitsContext(metafitsPath string) (*ObservationContext, *mwalib.Error) {
	desc, err := metafits.Parse(metafitsPath)
	if err != nil {
		return nil, err
	}
	return &ObservationContext{Descriptor: desc}, nil
}

// BuildCorrelatorContext parses the metafits sidecar, discovers and
// batches the gpubox file set, maps coarse channels and computes the
// common timestep grid. It fails if the gpubox set is inconsistent, if no
// common timestep exists, or (unless opts.AllowIntegrationTimeMismatch) if
// the metafits INTTIME keyword disagrees with the gpubox-derived
// integration time.
func BuildCorrelatorContext(metafitsPath string, gpuboxPaths []string, opts Options) (*ObservationContext, *mwalib.Error) {
	desc, err := metafits.Parse(metafitsPath)
	if err != nil {
		return nil, err
	}

	discovery, err := gpubox.Discover(gpuboxPaths)
	if err != nil {
		return nil, err
	}

	if !opts.AllowIntegrationTimeMismatch {
		wantMS := int64(desc.IntegrationTimeS * 1000)
		if wantMS != 0 && discovery.IntegrationTimeMS != 0 && wantMS != discovery.IntegrationTimeMS {
			return nil, mwalib.NewInconsistentBatches(
				"metafits INTTIME disagrees with gpubox HDU timestamp delta (set Options.AllowIntegrationTimeMismatch to override)")
		}
	}

	coarseChannels, err := channels.Build(desc.ScheduledChannels, discovery.Version, discovery.GpuboxNumbers())
	if err != nil {
		return nil, err
	}

	grid, err := timestep.Build(discovery, discovery.IntegrationTimeMS)
	if err != nil {
		return nil, err
	}

	hdusPerBatch := 0
	if len(discovery.Batches) > 0 && len(discovery.Batches[0].Files) > 0 {
		hdusPerBatch = discovery.Batches[0].Files[0].HduCount
	}

	floatsPerHdu := discovery.NumBaselines * discovery.NumFineChansPerCoarse * mwalib.NumVisibilityPols * 2

	return &ObservationContext{
		Descriptor:            desc,
		hasCorrelatorData:     true,
		CorrelatorVersion:     discovery.Version,
		CoarseChannels:        coarseChannels,
		Timesteps:             grid.Timesteps,
		Discovery:             discovery,
		Grid:                  grid,
		StartUnixMS:           grid.StartUnixMS,
		EndUnixMS:             grid.EndUnixMS,
		IntegrationTimeMS:     discovery.IntegrationTimeMS,
		NumFineChansPerCoarse: discovery.NumFineChansPerCoarse,
		NumBaselines:          discovery.NumBaselines,
		FloatsPerHdu:          floatsPerHdu,
		BytesPerHdu:           floatsPerHdu * 4,
		HdusPerBatch:          hdusPerBatch,
	}, nil
}
