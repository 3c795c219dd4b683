// Package search recursively discovers metafits and gpubox files under a
// local directory tree, the filesystem-facing convenience layer in front of
// metafits.Parse and gpubox.Discover. Callers that already know their file
// paths have no use for this package.
package search

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/derwentx/mwalib/gpubox"
)

// trawl walks root and returns every regular file for which match reports
// true, in a stable sorted order. It mirrors the shape of a recursive
// directory trawl rather than a single ReadDir, since observation data is
// routinely organised into one subdirectory per batch or per night.
func trawl(root string, match func(path string) bool) ([]string, error) {
	var items []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if match(path) {
			items = append(items, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(items)
	return items, nil
}

// isMetafitsFilename reports whether base looks like a metafits sidecar:
// either the modern "*_metafits.fits" or the older bare "*.metafits".
func isMetafitsFilename(base string) bool {
	return strings.HasSuffix(base, "_metafits.fits") || strings.HasSuffix(base, ".metafits")
}

// FindMetafits recursively finds every metafits file under root.
func FindMetafits(root string) ([]string, error) {
	return trawl(root, func(path string) bool {
		return isMetafitsFilename(filepath.Base(path))
	})
}

// FindGpuboxFiles recursively finds every file under root whose name
// matches one of the known correlator gpubox filename patterns.
func FindGpuboxFiles(root string) ([]string, error) {
	return trawl(root, gpubox.IsGpuboxFilename)
}

// FindObservationSet is the common case: exactly one metafits file and its
// associated gpubox files live somewhere under root. It returns an error if
// zero or more than one metafits file is found; disambiguating between
// multiple observations sharing a directory tree is left to the caller via
// FindMetafits/FindGpuboxFiles directly.
func FindObservationSet(root string) (metafitsPath string, gpuboxPaths []string, err error) {
	metafitsCandidates, err := FindMetafits(root)
	if err != nil {
		return "", nil, err
	}
	switch len(metafitsCandidates) {
	case 0:
		return "", nil, fmt.Errorf("search: no metafits file found under %s", root)
	case 1:
		// fall through
	default:
		return "", nil, fmt.Errorf("search: %d metafits files found under %s, want exactly 1: %s",
			len(metafitsCandidates), root, strings.Join(metafitsCandidates, ", "))
	}
	metafitsPath = metafitsCandidates[0]

	gpuboxPaths, err = FindGpuboxFiles(root)
	if err != nil {
		return "", nil, err
	}
	gpuboxPaths = lo.Uniq(gpuboxPaths)

	return metafitsPath, gpuboxPaths, nil
}
