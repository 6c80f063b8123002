package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cinematch/cinematch/internal/domain"
)

// Columns that must be present in every snapshot. All other columns are
// optional and degrade to empty values.
const (
	columnIndex = "index"
	columnTitle = "title"
)

// Load reads a CSV snapshot from path and returns an immutable catalog.
// A missing file, a missing required column, an index/position mismatch or
// an empty snapshot all abort the load: the engine must never start on an
// inconsistent snapshot.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	cat, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return cat, nil
}

// Read parses a CSV snapshot. Split out from Load for testability.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows degrade to empty cells

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrMalformedSnapshot, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{columnIndex, columnTitle} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", domain.ErrMalformedSnapshot, required)
		}
	}

	var movies []domain.Movie
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row %d: %w", domain.ErrMalformedSnapshot, len(movies)+1, err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		idx, err := strconv.Atoi(cell(columnIndex))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad index %q", domain.ErrMalformedSnapshot, len(movies)+1, cell(columnIndex))
		}
		if idx != len(movies) {
			return nil, fmt.Errorf("%w: row %d: index %d does not match position", domain.ErrMalformedSnapshot, len(movies)+1, idx)
		}

		attrs := make(map[string]string, len(header))
		for _, name := range header {
			attrs[name] = cell(name)
		}

		movies = append(movies, domain.Movie{
			Index:       idx,
			Title:       cell(columnTitle),
			TMDBID:      parseIntPtr(cell("id")),
			ReleaseDate: cell("release_date"),
			Genres:      cell("genres"),
			VoteAverage: parseFloatPtr(cell("vote_average")),
			VoteCount:   parseIntPtr(cell("vote_count")),
			Attributes:  attrs,
		})
	}

	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: snapshot has no rows", domain.ErrEmptyCatalog)
	}

	return New(movies), nil
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	// Snapshots exported from float-typed columns carry values like "19995.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
