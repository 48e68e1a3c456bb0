package taxiguide

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	csvAirportsFile   = "airports.csv"
	csvTaxiPathsFile  = "taxi_paths.csv"
	csvRunwayEndsFile = "runway_ends.csv"
	csvParkingFile    = "parking.csv"
)

// CSVProvider reads airport records from directory of semicolon separated files (with header row):
//
//	airports.csv:    id;icao;name
//	taxi_paths.csv:  airport_id;start_lat;start_lon;start_type;end_lat;end_lon;end_type;name;width_ft;surface;type
//	runway_ends.csv: airport_id;name;lat;lon;heading
//	parking.csv:     airport_id;name;lat;lon;jetway
//
// Whole directory is loaded at once, provider holds no open files afterwards.
type CSVProvider struct {
	dir      string
	airports map[string]int
	paths    map[int][]TaxiPathRecord
	runways  map[int][]RunwayEndRecord
	parking  map[int][]ParkingSpotRecord
}

// NewCSVProvider loads every file of given directory. Missing runway and parking files are allowed
func NewCSVProvider(dir string) (*CSVProvider, error) {
	provider := &CSVProvider{
		dir:      dir,
		airports: make(map[string]int),
		paths:    make(map[int][]TaxiPathRecord),
		runways:  make(map[int][]RunwayEndRecord),
		parking:  make(map[int][]ParkingSpotRecord),
	}
	err := readCSVFile(filepath.Join(dir, csvAirportsFile), false, provider.parseAirport)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read airports")
	}
	err = readCSVFile(filepath.Join(dir, csvTaxiPathsFile), false, provider.parseTaxiPath)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read taxi paths")
	}
	err = readCSVFile(filepath.Join(dir, csvRunwayEndsFile), true, provider.parseRunwayEnd)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read runway ends")
	}
	err = readCSVFile(filepath.Join(dir, csvParkingFile), true, provider.parseParkingSpot)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read parking spots")
	}
	log.WithField("dir", dir).WithField("airports", len(provider.airports)).Debug("CSV database loaded")
	return provider, nil
}

// readCSVFile calls parse for every line except header. Lines parse fails on are skipped
func readCSVFile(fname string, optional bool, parse func(tokens []string) error) error {
	file, err := os.Open(fname)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header := true
	line := 0
	for {
		tokens, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return errors.Wrapf(err, "Can't read line %d of '%s'", line, fname)
		}
		if header {
			header = false
			continue
		}
		if err := parse(tokens); err != nil {
			log.WithField("file", fname).WithField("line", line).WithError(err).Debug("skipping malformed line")
		}
	}
	return nil
}

func parseFloatToken(tokens []string, idx int, name string) (float64, error) {
	if idx >= len(tokens) {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(tokens[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", name, tokens[idx])
	}
	return v, nil
}

func parseIntToken(tokens []string, idx int, name string) (int, error) {
	if idx >= len(tokens) {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(tokens[idx]))
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", name, tokens[idx])
	}
	return v, nil
}

func stringToken(tokens []string, idx int) string {
	if idx >= len(tokens) {
		return ""
	}
	return strings.TrimSpace(tokens[idx])
}

func parsePointTokens(tokens []string, latIdx, lonIdx int) (orb.Point, error) {
	lat, err := parseFloatToken(tokens, latIdx, "latitude")
	if err != nil {
		return orb.Point{}, err
	}
	lon, err := parseFloatToken(tokens, lonIdx, "longitude")
	if err != nil {
		return orb.Point{}, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return orb.Point{}, fmt.Errorf("coordinates out of range %f, %f", lat, lon)
	}
	return orb.Point{lon, lat}, nil
}

func (provider *CSVProvider) parseAirport(tokens []string) error {
	id, err := parseIntToken(tokens, 0, "airport id")
	if err != nil {
		return err
	}
	icao := NormalizeTaxiwayName(stringToken(tokens, 1))
	if icao == "" {
		return fmt.Errorf("missing ICAO")
	}
	provider.airports[icao] = id
	return nil
}

func (provider *CSVProvider) parseTaxiPath(tokens []string) error {
	id, err := parseIntToken(tokens, 0, "airport id")
	if err != nil {
		return err
	}
	start, err := parsePointTokens(tokens, 1, 2)
	if err != nil {
		return err
	}
	end, err := parsePointTokens(tokens, 4, 5)
	if err != nil {
		return err
	}
	width := 0.0
	if w := stringToken(tokens, 8); w != "" {
		width, err = parseFloatToken(tokens, 8, "width")
		if err != nil {
			return err
		}
	}
	provider.paths[id] = append(provider.paths[id], TaxiPathRecord{
		Start:     start,
		End:       end,
		StartType: strings.ToUpper(stringToken(tokens, 3)),
		EndType:   strings.ToUpper(stringToken(tokens, 6)),
		Name:      stringToken(tokens, 7),
		WidthFeet: width,
		Surface:   stringToken(tokens, 9),
		PathType:  stringToken(tokens, 10),
	})
	return nil
}

func (provider *CSVProvider) parseRunwayEnd(tokens []string) error {
	id, err := parseIntToken(tokens, 0, "airport id")
	if err != nil {
		return err
	}
	name := stringToken(tokens, 1)
	if name == "" {
		return fmt.Errorf("missing runway name")
	}
	pt, err := parsePointTokens(tokens, 2, 3)
	if err != nil {
		return err
	}
	heading, err := parseFloatToken(tokens, 4, "heading")
	if err != nil {
		return err
	}
	provider.runways[id] = append(provider.runways[id], RunwayEndRecord{
		Name:    name,
		Point:   pt,
		Heading: NormalizeHeading(heading),
	})
	return nil
}

func (provider *CSVProvider) parseParkingSpot(tokens []string) error {
	id, err := parseIntToken(tokens, 0, "airport id")
	if err != nil {
		return err
	}
	name := stringToken(tokens, 1)
	if name == "" {
		return fmt.Errorf("missing parking name")
	}
	pt, err := parsePointTokens(tokens, 2, 3)
	if err != nil {
		return err
	}
	jetway := strings.ToLower(stringToken(tokens, 4))
	provider.parking[id] = append(provider.parking[id], ParkingSpotRecord{
		Name:      name,
		Point:     pt,
		HasJetway: jetway == "1" || jetway == "true" || jetway == "yes",
	})
	return nil
}

// GetAirportID returns ErrAirportNotFound for unknown ICAO
func (provider *CSVProvider) GetAirportID(icao string) (int, error) {
	id, ok := provider.airports[NormalizeTaxiwayName(icao)]
	if !ok {
		return 0, ErrAirportNotFound
	}
	return id, nil
}

func (provider *CSVProvider) GetTaxiPaths(airportID int) ([]TaxiPathRecord, error) {
	return provider.paths[airportID], nil
}

func (provider *CSVProvider) GetRunwayEnds(airportID int) ([]RunwayEndRecord, error) {
	return provider.runways[airportID], nil
}

func (provider *CSVProvider) GetParkingSpots(airportID int) ([]ParkingSpotRecord, error) {
	return provider.parking[airportID], nil
}
