package fitsaccess

import "testing"

func TestOpenMissingFileReturnsError(t *testing.T) {
	if _, err := Open("/nonexistent/path/does-not-exist.fits"); err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}
