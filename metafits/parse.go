package metafits

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/fitsaccess"
)

// tileDataExtname is the conventional name of the RF input binary table.
// Some older metafits files spell it differently; both are tried.
var tileDataExtnames = []string{"TILEDATA", "TILE_DATA"}

// Parse reads the metafits FITS file at path and returns its descriptor,
// which carries the RF input table (sorted by SubfileOrder) and the
// derived antenna and baseline tables.
func Parse(path string) (*ObservationDescriptor, *mwalib.Error) {
	f, ferr := fitsaccess.Open(path)
	if ferr != nil {
		return nil, mwalib.NewFitsIoError(path, "open", ferr)
	}
	defer f.Close()

	desc, err := parseKeywords(f, path)
	if err != nil {
		return nil, err
	}

	rows, tableErr := readTileData(f, path)
	if tableErr != nil {
		return nil, tableErr
	}

	inputs, err := buildRfInputs(rows, path)
	if err != nil {
		return nil, err
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].SubfileOrder < inputs[j].SubfileOrder })
	for i := range inputs {
		inputs[i].InputOrder = i
	}

	desc.NumInputs = len(inputs)
	desc.NumAntennas = len(inputs) / 2
	desc.NumAntennaPols = 2
	desc.NumVisibilityPols = mwalib.NumVisibilityPols
	desc.RfInputs = inputs
	desc.Antennas = buildAntennas(inputs)
	desc.Baselines = buildBaselines(desc.NumAntennas)

	return desc, nil
}

func readTileData(f *fitsaccess.File, path string) ([]fitsaccess.TableRow, *mwalib.Error) {
	var lastErr error
	for _, name := range tileDataExtnames {
		rows, err := f.ReadTable(name)
		if err == nil {
			return rows, nil
		}
		lastErr = err
	}
	return nil, mwalib.NewFitsIoError(path, "TILEDATA", lastErr)
}

func parseKeywords(f *fitsaccess.File, path string) (*ObservationDescriptor, *mwalib.Error) {
	desc := &ObservationDescriptor{}

	obsID, ok, ferr := f.IntKeyword(0, "GPSTIME")
	if ferr != nil {
		return nil, mwalib.NewFitsIoError(path, "GPSTIME", ferr)
	}
	if !ok {
		return nil, mwalib.NewMetafitsMissingKey("GPSTIME")
	}
	desc.ObsID = int(obsID)

	var err *mwalib.Error
	if desc.ScheduledDurationS, err = reqFloat(f, path, "EXPOSURE"); err != nil {
		return nil, err
	}
	if ns, ok2, e2 := f.IntKeyword(0, "NSCANS"); e2 == nil && ok2 {
		desc.NumScans = int(ns)
	}
	if ni, ok2, e2 := f.IntKeyword(0, "NINPUTS"); e2 == nil && ok2 {
		desc.NumInputs = int(ni)
	} else {
		return nil, mwalib.NewMetafitsMissingKey("NINPUTS")
	}
	if nc, ok2, _ := f.IntKeyword(0, "NCHANS"); ok2 {
		desc.NumCoarseChansHint = int(nc)
	}
	if desc.BandwidthMHz, err = reqFloat(f, path, "BANDWDTH"); err != nil {
		return nil, err
	}
	if desc.FineChanKHz, err = reqFloat(f, path, "FINECHAN"); err != nil {
		return nil, err
	}
	if desc.IntegrationTimeS, err = reqFloat(f, path, "INTTIME"); err != nil {
		return nil, err
	}
	if desc.QuackTimeS, err = reqFloat(f, path, "QUACKTIM"); err != nil {
		return nil, err
	}
	if desc.GoodTimeUnixS, err = reqFloat(f, path, "GOODTIME"); err != nil {
		return nil, err
	}
	if desc.DateObs, err = reqString(f, path, "DATE-OBS"); err != nil {
		return nil, err
	}

	// Optional pointing/scheduling keywords: absence does not abort
	// construction, they simply stay zero-valued.
	desc.RADegrees, _, _ = f.FloatKeyword(0, "RA")
	desc.DecDegrees, _, _ = f.FloatKeyword(0, "DEC")
	desc.RAPhaseDegrees, _, _ = f.FloatKeyword(0, "RAPHASE")
	desc.DecPhaseDegrees, _, _ = f.FloatKeyword(0, "DECPHASE")
	desc.AzimuthDegrees, _, _ = f.FloatKeyword(0, "AZIMUTH")
	desc.AltitudeDegrees, _, _ = f.FloatKeyword(0, "ALTITUDE")
	desc.SunAltDegrees, _, _ = f.FloatKeyword(0, "SUN-ALT")
	desc.SunDistDegrees, _, _ = f.FloatKeyword(0, "SUN-DIST")
	desc.MoonDistDegrees, _, _ = f.FloatKeyword(0, "MOONDIST")
	desc.JupiterDistDegrees, _, _ = f.FloatKeyword(0, "JUP-DIST")
	desc.LSTDegrees, _, _ = f.FloatKeyword(0, "LST")
	desc.HourAngle, _, _ = f.StringKeyword(0, "HA")
	desc.GridName, _, _ = f.StringKeyword(0, "GRIDNAME")
	if gn, ok2, _ := f.IntKeyword(0, "GRIDNUM"); ok2 {
		desc.GridNumber = int(gn)
	}
	desc.Creator, _, _ = f.StringKeyword(0, "CREATOR")
	desc.ProjectID, _, _ = f.StringKeyword(0, "PROJECT")
	desc.ObservationName, _, _ = f.StringKeyword(0, "FILENAME")
	desc.Mode, _, _ = f.StringKeyword(0, "MODE")
	desc.AttenDB, _, _ = f.FloatKeyword(0, "ATTEN_DB")

	channelsRaw, ok2, cerr := f.StringKeyword(0, "CHANNELS")
	if cerr != nil {
		return nil, mwalib.NewFitsIoError(path, "CHANNELS", cerr)
	}
	if !ok2 {
		return nil, mwalib.NewMetafitsMissingKey("CHANNELS")
	}
	channels, perr := parseIntList(channelsRaw)
	if perr != nil {
		return nil, mwalib.NewMetafitsBadValue("CHANNELS", channelsRaw)
	}
	desc.ScheduledChannels = channels

	startMS, endMS, terr := scheduledWindow(desc.DateObs, desc.ScheduledDurationS)
	if terr != nil {
		return nil, mwalib.NewMetafitsBadValue("DATE-OBS", desc.DateObs)
	}
	desc.ScheduledStartUnixMS = startMS
	desc.ScheduledEndUnixMS = endMS

	return desc, nil
}

func reqFloat(f *fitsaccess.File, path, key string) (float64, *mwalib.Error) {
	v, ok, err := f.FloatKeyword(0, key)
	if err != nil {
		return 0, mwalib.NewFitsIoError(path, key, err)
	}
	if !ok {
		return 0, mwalib.NewMetafitsMissingKey(key)
	}
	return v, nil
}

func reqString(f *fitsaccess.File, path, key string) (string, *mwalib.Error) {
	v, ok, err := f.StringKeyword(0, key)
	if err != nil {
		return "", mwalib.NewFitsIoError(path, key, err)
	}
	if !ok {
		return "", mwalib.NewMetafitsMissingKey(key)
	}
	return v, nil
}

// parseIntList parses a comma-separated list of integers, tolerating
// surrounding whitespace around each element.
func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q in list %q: %w", p, raw, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// scheduledWindow converts DATE-OBS plus a duration in seconds into a
// [start, end) millisecond window.
func scheduledWindow(dateObs string, durationS float64) (startMS, endMS int64, err error) {
	layouts := []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
	var t time.Time
	var perr error
	for _, layout := range layouts {
		t, perr = time.Parse(layout, dateObs)
		if perr == nil {
			break
		}
	}
	if perr != nil {
		return 0, 0, perr
	}
	startMS = t.UnixMilli()
	endMS = startMS + int64(durationS*1000)
	return startMS, endMS, nil
}

// lengthMetres parses the metafits "EL_<meters>" electrical-length column
// value, stripping the prefix.
func lengthMetres(raw string) (float64, error) {
	trimmed := strings.TrimPrefix(raw, "EL_")
	return strconv.ParseFloat(trimmed, 64)
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		n, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n
	}
	return 0
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "1" || s == "true" || s == "t"
	}
	return false
}

func buildRfInputs(rows []fitsaccess.TableRow, path string) ([]RfInput, *mwalib.Error) {
	inputs := make([]RfInput, 0, len(rows))
	for _, row := range rows {
		lengthRaw := asString(row["Length"])
		length, lerr := lengthMetres(lengthRaw)
		if lerr != nil {
			return nil, mwalib.NewMetafitsBadValue("Length", lengthRaw)
		}

		pol := PolX
		if strings.EqualFold(asString(row["Pol"]), "Y") {
			pol = PolY
		}

		inputs = append(inputs, RfInput{
			AntennaID:          asInt(row["Antenna"]),
			TileID:             asInt(row["Tile"]),
			TileName:           asString(row["TileName"]),
			Pol:                pol,
			ElectricalLengthM:  length,
			NorthM:             asFloat(row["North"]),
			EastM:              asFloat(row["East"]),
			HeightM:            asFloat(row["Height"]),
			VCSOrder:           asInt(row["VCSOrder"]),
			SubfileOrder:       asInt(row["Subfile_Order"]),
			Flagged:            asBool(row["Flag"]),
			ReceiverNumber:     asInt(row["Rx"]),
			ReceiverSlotNumber: asInt(row["Slot"]),
		})
	}
	_ = path
	return inputs, nil
}

// buildAntennas derives the per-tile antenna table from the X-pol RfInput
// rows, ordered by antenna_id.
func buildAntennas(inputs []RfInput) []Antenna {
	xPols := lo.Filter(inputs, func(rf RfInput, _ int) bool { return rf.Pol == PolX })
	sort.Slice(xPols, func(i, j int) bool { return xPols[i].AntennaID < xPols[j].AntennaID })
	return lo.Map(xPols, func(rf RfInput, _ int) Antenna {
		return Antenna{AntennaID: rf.AntennaID, TileID: rf.TileID, TileName: rf.TileName}
	})
}

// buildBaselines deterministically enumerates every (i,j) pair with i<=j.
func buildBaselines(numAntennas int) []Baseline {
	baselines := make([]Baseline, 0, numAntennas*(numAntennas+1)/2)
	for i := 0; i < numAntennas; i++ {
		for j := i; j < numAntennas; j++ {
			baselines = append(baselines, Baseline{Ant1Index: i, Ant2Index: j})
		}
	}
	return baselines
}
