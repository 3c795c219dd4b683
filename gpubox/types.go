// Package gpubox classifies gpubox correlator output files, detects the
// correlator version, groups files into batches and validates mutual
// consistency (shape, timing) across the set.
package gpubox

// CorrelatorVersion identifies which correlator generation produced a set
// of gpubox files.
type CorrelatorVersion int

const (
	// V2 is the MWAX (2020-generation) correlator.
	V2 CorrelatorVersion = iota
	// Legacy is the original GPU correlator, batched files with a batch
	// suffix in the filename.
	Legacy
	// OldLegacy is the original GPU correlator before batch numbering was
	// introduced; treated as a single batch 0.
	OldLegacy
)

func (v CorrelatorVersion) String() string {
	switch v {
	case V2:
		return "V2"
	case Legacy:
		return "Legacy"
	case OldLegacy:
		return "OldLegacy"
	default:
		return "Unknown"
	}
}

// ImageShape is the (naxis1, naxis2) shape shared by every image HDU in a
// gpubox file.
type ImageShape struct {
	Naxis1 int
	Naxis2 int
}

// GpuboxFile is one scanned, probed gpubox file.
type GpuboxFile struct {
	Path             string
	BatchNumber      int
	GpuboxNumber     int // Legacy/OldLegacy: 1..24 slot. V2: receiver channel number.
	FirstHduTimeMS   int64
	HduCount         int
	ImageShape       ImageShape
	HduTimestampsMS  []int64 // one entry per image HDU, TIME*1000+MILLITIM
}

// Batch is every GpuboxFile sharing one BatchNumber, sorted by GpuboxNumber.
type Batch struct {
	BatchNumber int
	Files       []*GpuboxFile
}

// Discovery is the product of classifying, probing and batching a gpubox
// file set.
type Discovery struct {
	Version             CorrelatorVersion
	Batches             []Batch
	IntegrationTimeMS   int64
	NumFineChansPerCoarse int
	NumBaselines        int
}
