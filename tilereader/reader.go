// Package tilereader serves HDU-granularity reads from an
// ObservationContext, reordering each gpubox's wire layout into the
// caller-requested canonical visibility layout.
package tilereader

import (
	"fmt"
	"sync"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/fitsaccess"
	"github.com/derwentx/mwalib/gpubox"
	"github.com/derwentx/mwalib/obscontext"
)

// Reader serves reads against one ObservationContext. It caches open FITS
// file handles for the context's lifetime; call Close when done to release
// them deterministically.
//
// Reads are synchronous. Multiple goroutines may call ReadByBaseline /
// ReadByFrequency concurrently provided each supplies its own output
// buffer; actual FITS I/O is serialized behind a single mutex, which is
// the deployment decision spec.md §5 asks implementations to document —
// reopening one *fitsaccess.File per goroutine would remove the need for
// this mutex at the cost of one open file descriptor per concurrent
// reader, which is not worth it for the access patterns this module
// targets (typically: one analysis process, one context, bursty reads).
type Reader struct {
	ctx *obscontext.ObservationContext

	mu      sync.Mutex
	handles map[string]*fitsaccess.File
}

// Open constructs a Reader over ctx. ctx must have correlator data
// (HasCorrelatorData() == true); callers that only built a metafits-only
// context have nothing to read tiles from.
func Open(ctx *obscontext.ObservationContext) (*Reader, *mwalib.Error) {
	if !ctx.HasCorrelatorData() {
		return nil, mwalib.NewIncompatibleContext("context has no gpubox data; build with BuildCorrelatorContext")
	}
	return &Reader{ctx: ctx, handles: make(map[string]*fitsaccess.File)}, nil
}

// Close releases every cached FITS file handle. The Reader must not be
// used afterwards.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, h := range r.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.handles = nil
	return firstErr
}

func (r *Reader) handleFor(path string) (*fitsaccess.File, error) {
	if h, ok := r.handles[path]; ok {
		return h, nil
	}
	h, err := fitsaccess.Open(path)
	if err != nil {
		return nil, err
	}
	r.handles[path] = h
	return h, nil
}

// batchFor resolves which batch a timestep index falls in. V2 and
// OldLegacy always have exactly one batch (0); Legacy divides the
// timestep index by the number of HDUs per batch.
func (r *Reader) batchFor(timestepIndex int) int {
	if r.ctx.CorrelatorVersion != gpubox.Legacy || r.ctx.HdusPerBatch == 0 {
		return 0
	}
	return timestepIndex / r.ctx.HdusPerBatch
}

// ReadByBaseline fills buffer with the visibilities for (timestepIndex,
// channelIndex) in canonical [baseline][fine_chan][pol][re,im] order.
func (r *Reader) ReadByBaseline(timestepIndex, channelIndex int, buffer []float32) *mwalib.Error {
	return r.read(timestepIndex, channelIndex, buffer, ByBaseline)
}

// ReadByFrequency fills buffer with the visibilities for (timestepIndex,
// channelIndex) in canonical [fine_chan][baseline][pol][re,im] order.
func (r *Reader) ReadByFrequency(timestepIndex, channelIndex int, buffer []float32) *mwalib.Error {
	return r.read(timestepIndex, channelIndex, buffer, ByFrequency)
}

func (r *Reader) read(timestepIndex, channelIndex int, buffer []float32, layout Layout) *mwalib.Error {
	ctx := r.ctx

	if timestepIndex < 0 || timestepIndex >= len(ctx.Timesteps) {
		return mwalib.NewIndexOutOfRange("timestep_index", timestepIndex, len(ctx.Timesteps))
	}
	if channelIndex < 0 || channelIndex >= len(ctx.CoarseChannels) {
		return mwalib.NewIndexOutOfRange("channel_index", channelIndex, len(ctx.CoarseChannels))
	}
	if len(buffer) < ctx.FloatsPerHdu {
		return mwalib.NewBufferTooSmall(ctx.FloatsPerHdu, len(buffer))
	}

	gpuboxNumber := ctx.CoarseChannels[channelIndex].GpuboxNumber
	batch := r.batchFor(timestepIndex)

	file := ctx.Discovery.FileFor(batch, gpuboxNumber)
	if file == nil {
		return mwalib.NewMissingGpuboxFile(batch, gpuboxNumber)
	}

	hduIndex, ok := ctx.Grid.HduIndexOf(batch, gpuboxNumber, timestepIndex)
	if !ok {
		// A missing HDU for an otherwise-valid (timestep, channel) pair is
		// not an error: zero-fill and let the caller proceed.
		for i := 0; i < ctx.FloatsPerHdu; i++ {
			buffer[i] = 0
		}
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handle, err := r.handleFor(file.Path)
	if err != nil {
		return mwalib.NewFitsIoError(file.Path, "open", err)
	}

	raw, err := handle.ReadImageFloat32(hduIndex + 1) // +1: index 0 is the primary header-only HDU
	if err != nil {
		return mwalib.NewFitsIoError(file.Path, "image", err)
	}
	if len(raw) != ctx.FloatsPerHdu {
		return mwalib.NewFitsIoError(file.Path, "image",
			&dimensionMismatch{got: len(raw), want: ctx.FloatsPerHdu})
	}

	transform(ctx.CorrelatorVersion, layout, ctx.NumBaselines, ctx.NumFineChansPerCoarse, raw, buffer)
	return nil
}

type dimensionMismatch struct {
	got, want int
}

func (d *dimensionMismatch) Error() string {
	return fmt.Sprintf("image float count %d does not match floats_per_hdu %d", d.got, d.want)
}
