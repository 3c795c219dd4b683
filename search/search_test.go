package search

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindObservationSet(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "1234567890_metafits.fits"))
	touch(t, filepath.Join(root, "batch0", "1234567890_20150101000000_gpubox01_00.fits"))
	touch(t, filepath.Join(root, "batch0", "1234567890_20150101000000_gpubox02_00.fits"))
	touch(t, filepath.Join(root, "batch0", "not_a_gpubox_file.fits"))

	metafitsPath, gpuboxPaths, err := FindObservationSet(root)
	if err != nil {
		t.Fatalf("FindObservationSet: %v", err)
	}
	if filepath.Base(metafitsPath) != "1234567890_metafits.fits" {
		t.Errorf("metafitsPath = %q", metafitsPath)
	}
	if len(gpuboxPaths) != 2 {
		t.Errorf("len(gpuboxPaths) = %d, want 2: %v", len(gpuboxPaths), gpuboxPaths)
	}
}

func TestFindObservationSetNoMetafits(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "1234567890_20150101000000_gpubox01_00.fits"))

	if _, _, err := FindObservationSet(root); err == nil {
		t.Fatal("expected error when no metafits file is present")
	}
}

func TestFindObservationSetAmbiguous(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "1111111111_metafits.fits"))
	touch(t, filepath.Join(root, "b", "2222222222_metafits.fits"))

	if _, _, err := FindObservationSet(root); err == nil {
		t.Fatal("expected error when multiple metafits files are present")
	}
}
