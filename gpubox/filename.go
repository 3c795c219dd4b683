package gpubox

import (
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/derwentx/mwalib"
)

var (
	reV2        = regexp.MustCompile(`^\d{10}_\d{8}\d{6}_ch(\d{3})_(\d{3})\.fits$`)
	reLegacy    = regexp.MustCompile(`^\d{10}_\d{14}_gpubox(\d{2})_(\d{2})\.fits$`)
	reOldLegacy = regexp.MustCompile(`^\d{10}_\d{14}_gpubox(\d{2})\.fits$`)
)

// classified is the filename-derived identity of one gpubox file, before
// any HDU probing has happened.
type classified struct {
	version      CorrelatorVersion
	gpuboxNumber int
	batchNumber  int
}

// classify matches path's basename against the three known correlator
// filename patterns and reports which version it belongs to, its gpubox
// number, and its batch number (0 for V2 and OldLegacy).
func classify(path string) (classified, *mwalib.Error) {
	base := filepath.Base(path)

	if m := reV2.FindStringSubmatch(base); m != nil {
		ch, _ := strconv.Atoi(m[1])
		return classified{version: V2, gpuboxNumber: ch, batchNumber: 0}, nil
	}
	if m := reLegacy.FindStringSubmatch(base); m != nil {
		gpubox, _ := strconv.Atoi(m[1])
		batch, _ := strconv.Atoi(m[2])
		return classified{version: Legacy, gpuboxNumber: gpubox, batchNumber: batch}, nil
	}
	if m := reOldLegacy.FindStringSubmatch(base); m != nil {
		gpubox, _ := strconv.Atoi(m[1])
		return classified{version: OldLegacy, gpuboxNumber: gpubox, batchNumber: 0}, nil
	}

	return classified{}, mwalib.NewInvalidFilename(path)
}

// IsGpuboxFilename reports whether path's basename matches one of the
// three known correlator gpubox filename patterns, without probing the
// file's contents. Used by package search to pick candidate files out of a
// directory tree before Discover opens any of them.
func IsGpuboxFilename(path string) bool {
	_, err := classify(path)
	return err == nil
}
