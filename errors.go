// Package mwalib ingests raw MWA correlator output (legacy and MWAX/v2) and
// presents it as a validated observation that downstream readers can access
// in uniform [timestep x coarse-channel] tiles.
package mwalib

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a Error, mirroring the tagged error set
// described for the read and construction paths.
type Kind int

const (
	// KindFitsIo covers any failure surfaced by the underlying FITS library.
	KindFitsIo Kind = iota
	KindMetafitsMissingKey
	KindMetafitsBadValue
	KindInvalidFilename
	KindMixedCorrelatorVersions
	KindInconsistentBatches
	KindMissingGpuboxFile
	KindNoCommonTimesteps
	KindIndexOutOfRange
	KindBufferTooSmall
	KindIncompatibleContext
)

var kindNames = map[Kind]string{
	KindFitsIo:                  "FitsIoError",
	KindMetafitsMissingKey:      "MetafitsMissingKey",
	KindMetafitsBadValue:        "MetafitsBadValue",
	KindInvalidFilename:         "InvalidFilename",
	KindMixedCorrelatorVersions: "MixedCorrelatorVersions",
	KindInconsistentBatches:     "InconsistentBatches",
	KindMissingGpuboxFile:       "MissingGpuboxFile",
	KindNoCommonTimesteps:       "NoCommonTimesteps",
	KindIndexOutOfRange:         "IndexOutOfRange",
	KindBufferTooSmall:          "BufferTooSmall",
	KindIncompatibleContext:     "IncompatibleContext",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownError"
}

// Error is the single flat error type returned by every operation in this
// module. It never nests: Unwrap returns the underlying library error (if
// any) purely for errors.Is/As, but Error() always renders a single line.
type Error struct {
	Kind    Kind
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Detail, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WriteTo renders the error as a NUL-terminated message into buf, truncating
// at len(buf)-1 plus the NUL if necessary. It returns the number of bytes
// written, including the terminating NUL. This is the foreign-friendly
// adapter spec.md describes for callers that want the C-ABI-shaped
// "buffer of at most L bytes" contract without linking against cgo
// themselves.
func (e *Error) WriteTo(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	msg := e.Error()
	max := len(buf) - 1
	if len(msg) > max {
		msg = msg[:max]
	}
	n := copy(buf, msg)
	buf[n] = 0
	return n + 1
}

func newError(kind Kind, detail string, wrapped error) *Error {
	return &Error{Kind: kind, Detail: detail, Wrapped: wrapped}
}

// NewFitsIoError wraps a failure from the FITS accessor with the path and
// keyword/HDU identifier that was being read when it occurred.
func NewFitsIoError(path, keywordOrHdu string, underlying error) *Error {
	return newError(KindFitsIo, fmt.Sprintf("%s (%s)", path, keywordOrHdu), underlying)
}

// NewMetafitsMissingKey reports a required metafits keyword that was absent.
func NewMetafitsMissingKey(key string) *Error {
	return newError(KindMetafitsMissingKey, key, nil)
}

// NewMetafitsBadValue reports a metafits keyword whose raw value could not
// be interpreted as the expected type.
func NewMetafitsBadValue(key, raw string) *Error {
	return newError(KindMetafitsBadValue, fmt.Sprintf("%s=%q", key, raw), nil)
}

// NewInvalidFilename reports a gpubox path that matched none of the known
// correlator filename patterns.
func NewInvalidFilename(path string) *Error {
	return newError(KindInvalidFilename, path, nil)
}

// NewMixedCorrelatorVersions reports a gpubox set whose filenames do not all
// match the same correlator-version pattern.
func NewMixedCorrelatorVersions(detail string) *Error {
	return newError(KindMixedCorrelatorVersions, detail, nil)
}

// NewInconsistentBatches reports a batch-completeness or shape-consistency
// violation, with a human-readable detail describing what was wrong.
func NewInconsistentBatches(detail string) *Error {
	return newError(KindInconsistentBatches, detail, nil)
}

// NewMissingGpuboxFile reports a (batch, gpubox_number) slot with no backing
// file.
func NewMissingGpuboxFile(batch, gpuboxNumber int) *Error {
	return newError(KindMissingGpuboxFile, fmt.Sprintf("batch=%d gpubox_number=%d", batch, gpuboxNumber), nil)
}

// NewNoCommonTimesteps reports that the intersection of HDU timestamps
// across every (batch, channel) slot was empty.
func NewNoCommonTimesteps() *Error {
	return newError(KindNoCommonTimesteps, "no timestep is present in every gpubox file", nil)
}

// NewIndexOutOfRange reports an out-of-bounds index argument.
func NewIndexOutOfRange(which string, value, bound int) *Error {
	return newError(KindIndexOutOfRange, fmt.Sprintf("%s=%d bound=%d", which, value, bound), nil)
}

// NewBufferTooSmall reports a caller-supplied buffer smaller than required.
func NewBufferTooSmall(needed, given int) *Error {
	return newError(KindBufferTooSmall, fmt.Sprintf("needed=%d given=%d", needed, given), nil)
}

// NewIncompatibleContext reports an operation that requires gpubox-derived
// tables being called against a metafits-only context.
func NewIncompatibleContext(reason string) *Error {
	return newError(KindIncompatibleContext, reason, nil)
}

// As is a small convenience so callers can narrow a generic error back to
// *Error without importing the errors package themselves.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
