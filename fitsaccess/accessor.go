// Package fitsaccess is a thin wrapper over github.com/astrogo/fitsio that
// exposes exactly the primitives the rest of this module needs: open a
// file, locate an HDU by index, read a scalar keyword, read a 2-D float
// image, and scan a binary table. Nothing here understands metafits or
// gpubox semantics; that lives one layer up.
package fitsaccess

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
)

// File is an opened FITS file. The zero value is not usable; construct one
// with Open. Close releases the underlying OS file handle.
type File struct {
	path string
	f    *os.File
	fits *fitsio.File
}

// Open opens the FITS file at path for reading.
func Open(path string) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	fits, err := fitsio.Open(osf)
	if err != nil {
		osf.Close()
		return nil, fmt.Errorf("parsing FITS structure of %s: %w", path, err)
	}
	return &File{path: path, f: osf, fits: fits}, nil
}

// Path returns the filesystem path this accessor was opened against.
func (f *File) Path() string {
	return f.path
}

// Close releases the FITS handle and the underlying OS file descriptor.
func (f *File) Close() error {
	if f.fits != nil {
		f.fits.Close()
	}
	return f.f.Close()
}

// NumHDUs returns the number of HDUs (primary plus extensions) in the file.
func (f *File) NumHDUs() int {
	return len(f.fits.HDUs())
}

// hdu returns the HDU at index, bounds-checked.
func (f *File) hdu(index int) (fitsio.HDU, error) {
	hdus := f.fits.HDUs()
	if index < 0 || index >= len(hdus) {
		return nil, fmt.Errorf("hdu index %d out of range (0..%d) in %s", index, len(hdus)-1, f.path)
	}
	return hdus[index], nil
}

// Keyword reads a raw keyword value from the given HDU's header as an
// interface{}; callers type-assert to the expected Go type (bool, int64,
// float64, string) per the FITS value type of the card.
func (f *File) Keyword(hduIndex int, name string) (interface{}, bool, error) {
	hdu, err := f.hdu(hduIndex)
	if err != nil {
		return nil, false, err
	}
	card := hdu.Header().Get(name)
	if card == nil {
		return nil, false, nil
	}
	return card.Value, true, nil
}

// IntKeyword reads a keyword and coerces it to int64.
func (f *File) IntKeyword(hduIndex int, name string) (int64, bool, error) {
	v, ok, err := f.Keyword(hduIndex, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch t := v.(type) {
	case int64:
		return t, true, nil
	case int:
		return int64(t), true, nil
	case float64:
		return int64(t), true, nil
	default:
		return 0, true, fmt.Errorf("keyword %s in %s is not numeric (got %T)", name, f.path, v)
	}
}

// FloatKeyword reads a keyword and coerces it to float64.
func (f *File) FloatKeyword(hduIndex int, name string) (float64, bool, error) {
	v, ok, err := f.Keyword(hduIndex, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	switch t := v.(type) {
	case float64:
		return t, true, nil
	case int64:
		return float64(t), true, nil
	case int:
		return float64(t), true, nil
	default:
		return 0, true, fmt.Errorf("keyword %s in %s is not numeric (got %T)", name, f.path, v)
	}
}

// StringKeyword reads a keyword and coerces it to string.
func (f *File) StringKeyword(hduIndex int, name string) (string, bool, error) {
	v, ok, err := f.Keyword(hduIndex, name)
	if err != nil || !ok {
		return "", ok, err
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	default:
		return fmt.Sprintf("%v", t), true, nil
	}
}

// ImageShape returns the (naxis1, naxis2) shape of the image HDU at index.
func (f *File) ImageShape(hduIndex int) (naxis1, naxis2 int, err error) {
	hdu, err := f.hdu(hduIndex)
	if err != nil {
		return 0, 0, err
	}
	axes := hdu.Header().Axes()
	if len(axes) < 2 {
		return 0, 0, fmt.Errorf("hdu %d in %s is not a 2-D image (naxis=%d)", hduIndex, f.path, len(axes))
	}
	return axes[0], axes[1], nil
}

// ReadImageFloat32 reads the full 2-D image at hduIndex into a flat,
// row-major float32 slice of length naxis1*naxis2.
func (f *File) ReadImageFloat32(hduIndex int) ([]float32, error) {
	hdu, err := f.hdu(hduIndex)
	if err != nil {
		return nil, err
	}
	img, ok := hdu.(*fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("hdu %d in %s is not an image HDU", hduIndex, f.path)
	}
	naxis1, naxis2, err := f.ImageShape(hduIndex)
	if err != nil {
		return nil, err
	}
	data := make([]float32, naxis1*naxis2)
	if err := img.Read(&data); err != nil {
		return nil, fmt.Errorf("reading image data of hdu %d in %s: %w", hduIndex, f.path, err)
	}
	return data, nil
}

// TableRow is one decoded row of a binary table, keyed by column name.
type TableRow map[string]interface{}

// ReadTable scans every row of the binary table HDU named extname (matched
// against the EXTNAME keyword) and returns it as a slice of TableRow.
func (f *File) ReadTable(extname string) ([]TableRow, error) {
	hdus := f.fits.HDUs()
	var table *fitsio.Table
	for _, h := range hdus {
		if h.Name() == extname {
			if t, ok := h.(*fitsio.Table); ok {
				table = t
				break
			}
		}
	}
	if table == nil {
		return nil, fmt.Errorf("no binary table HDU named %s in %s", extname, f.path)
	}

	rows, err := table.Read(0, table.NumRows())
	if err != nil {
		return nil, fmt.Errorf("opening table %s in %s: %w", extname, f.path, err)
	}
	defer rows.Close()

	out := make([]TableRow, 0, table.NumRows())
	for rows.Next() {
		vals := make([]interface{}, len(table.Cols()))
		ptrs := make([]interface{}, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row of table %s in %s: %w", extname, f.path, err)
		}
		row := make(TableRow, len(vals))
		for i, col := range table.Cols() {
			row[col.Name] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
