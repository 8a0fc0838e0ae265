package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airdash/internal/model"
)

// Options configures how a delimited file is read.
type Options struct {
	Delimiter  rune
	LazyQuotes bool
}

// DefaultOptions reads comma separated files with lazy quotes.
func DefaultOptions() Options {
	return Options{Delimiter: ',', LazyQuotes: true}
}

// Load opens path and reads it as a listings dataset.
func Load(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read parses a delimited listings table from r. Structural problems and
// malformed cells are reported as *SchemaError.
func Read(r io.Reader, source string, opts Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = opts.LazyQuotes

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Source: source, Missing: append([]string(nil), RequiredColumns...)}
	}
	if err != nil {
		return nil, wrapReadError(source, err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = NormalizeColumn(h)
	}
	if err := checkHeader(source, names); err != nil {
		return nil, err
	}

	records := [][]string{header}
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapReadError(source, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return New(source, nil), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.Names(names...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build dataframe: %w", df.Err)
	}

	listings, err := fromFrame(df, source, lines)
	if err != nil {
		return nil, err
	}
	return New(source, listings), nil
}

func wrapReadError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &SchemaError{Source: source, Line: pe.Line, Reason: pe.Err.Error()}
	}
	return fmt.Errorf("failed to read dataset: %w", err)
}

// frameColumns holds the raw string values of each known column.
type frameColumns map[string][]string

func (c frameColumns) get(col string, i int) string {
	vals, ok := c[col]
	if !ok || i >= len(vals) {
		return ""
	}
	if vals[i] == gotaNaN {
		return ""
	}
	return vals[i]
}

func fromFrame(df dataframe.DataFrame, source string, lines []int) ([]model.Listing, error) {
	present := make(map[string]bool)
	for _, n := range df.Names() {
		present[n] = true
	}

	cols := make(frameColumns)
	for _, name := range append(append([]string(nil), RequiredColumns...), OptionalColumns...) {
		if !present[name] {
			continue
		}
		s := df.Col(name)
		if s.Err != nil {
			return nil, fmt.Errorf("failed to read column %q: %w", name, s.Err)
		}
		cols[name] = s.Records()
	}

	listings := make([]model.Listing, df.Nrow())
	for i := range listings {
		l, err := parseListing(cols, i)
		if err != nil {
			var se *SchemaError
			if errors.As(err, &se) {
				se.Source = source
				se.Line = lines[i]
			}
			return nil, err
		}
		listings[i] = l
	}
	return listings, nil
}

func parseListing(cols frameColumns, i int) (model.Listing, error) {
	l := model.Listing{
		Row:                i,
		ID:                 parseText(cols.get(ColID, i)),
		Name:               parseText(cols.get(ColName, i)),
		HostName:           parseText(cols.get(ColHostName, i)),
		Neighbourhood:      parseText(cols.get(ColNeighbourhood, i)),
		NeighbourhoodGroup: parseText(cols.get(ColNeighbourhoodGroup, i)),
		RoomType:           parseText(cols.get(ColRoomType, i)),
		CancellationPolicy: parseText(cols.get(ColCancellation, i)),
		HouseRules:         parseText(cols.get(ColHouseRules, i)),
	}

	var err error
	cell := func(col string, parse func(string) error) {
		if err != nil {
			return
		}
		raw := cols.get(col, i)
		if perr := parse(raw); perr != nil {
			err = &SchemaError{Column: col, Value: raw, Reason: perr.Error()}
		}
	}

	cell(ColPrice, func(s string) (e error) { l.Price, e = parsePrice(s); return })
	cell(ColLatitude, func(s string) (e error) { l.Latitude, e = parseFloat(s); return })
	cell(ColLongitude, func(s string) (e error) { l.Longitude, e = parseFloat(s); return })
	cell(ColReviews, func(s string) (e error) { l.NumberOfReviews, e = parseCount(s); return })
	cell(ColReviewRate, func(s string) (e error) { l.ReviewRate, e = parseFloat(s); return })
	cell(ColAvailability, func(s string) (e error) { l.Availability365, e = parseAvailability(s); return })
	cell(ColNoSmoking, func(s string) (e error) { l.NoSmoking, e = parseBoolLike(s); return })
	cell(ColNoParty, func(s string) (e error) { l.NoParty, e = parseBoolLike(s); return })
	cell(ColNoPet, func(s string) (e error) { l.NoPet, e = parseBoolLike(s); return })

	return l, err
}
