package mwalib

// Process-wide constants describing the MWA's fixed location and cabling.
// These never change at runtime and carry no lifecycle of their own.
const (
	// MwaLatitudeRadians is -26d42m11.94986s.
	MwaLatitudeRadians = -0.4660608448386394
	// MwaLongitudeRadians is 116d40m14.93485s.
	MwaLongitudeRadians = 2.0362898668561042
	// MwaAltitudeMetres is the MWA's altitude above the WGS84 ellipsoid.
	MwaAltitudeMetres = 377.827
	// CoaxVFactor is the velocity factor of electric fields in RG-6-like coax.
	CoaxVFactor = 1.204

	// CoarseChannelWidthHz is the width of one 1.28 MHz coarse channel.
	CoarseChannelWidthHz = 1_280_000
	// ReceiverChannelHz is the frequency step per receiver channel number.
	ReceiverChannelHz = 1_280_000

	// NumVisibilityPols is the XX, XY, YX, YY combination count.
	NumVisibilityPols = 4
)
