package collector

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"EconDashboard/internal/model"
)

// longRecord is one (date, entity, value) observation of a long-format table.
type longRecord struct {
	Date   time.Time
	Entity string
	Value  float64
}

// csvTable is a parsed CSV payload with a header lookup.
type csvTable struct {
	source string
	cols   map[string]int
	rows   [][]string
}

func readCSV(source string, body []byte) (*csvTable, error) {
	body = bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(body) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyResponse)
	}

	r := csv.NewReader(bytes.NewReader(body))
	header, err := r.Read()
	if err != nil {
		return nil, &SchemaError{Source: source, Detail: fmt.Sprintf("read header: %v", err)}
	}
	t := &csvTable{source: source, cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.TrimSpace(h)] = i
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Source: source, Detail: err.Error()}
		}
		t.rows = append(t.rows, rec)
	}
	if len(t.rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyResponse)
	}
	return t, nil
}

// require fails when any of the named columns is absent.
func (t *csvTable) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.cols[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: t.source, Missing: missing}
	}
	return nil
}

// records extracts long records from the date, entity and value columns.
// An empty entityCol assigns every row to fixedEntity.
func (t *csvTable) records(dateCol, entityCol, valueCol, fixedEntity string) ([]longRecord, error) {
	di, vi := t.cols[dateCol], t.cols[valueCol]
	ei := -1
	if entityCol != "" {
		ei = t.cols[entityCol]
	}

	out := make([]longRecord, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2 // 1-based, after header
		d, err := parseDate(row[di])
		if err != nil {
			return nil, &SchemaError{Source: t.source, Detail: fmt.Sprintf("line %d: %v", line, err)}
		}
		v, err := parseValue(row[vi])
		if err != nil {
			return nil, &SchemaError{Source: t.source, Detail: fmt.Sprintf("line %d: %v", line, err)}
		}
		entity := fixedEntity
		if ei >= 0 {
			entity = strings.TrimSpace(row[ei])
		}
		out = append(out, longRecord{Date: d, Entity: entity, Value: v})
	}
	return out, nil
}

// parseDate accepts the period formats used by OECD and ECB exports.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	// Quarterly: 2020-Q1
	if len(s) == 7 && (s[5] == 'Q' || s[5] == 'q') && s[4] == '-' {
		year, err := strconv.Atoi(s[:4])
		q := int(s[6] - '0')
		if err == nil && q >= 1 && q <= 4 {
			return time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseValue parses a numeric cell; blanks and NaN markers become NaN.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NAN", "NA", "N/A":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", s)
	}
	return v, nil
}

// pivot turns long records into a wide table: one column per entity (sorted),
// one row per date (ascending). Duplicate (date, entity) pairs are averaged,
// NaN observations are skipped, and absent cells are NaN.
func pivot(records []longRecord) *model.Table {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[time.Time]map[string]*cell)
	entities := make(map[string]struct{})

	for _, r := range records {
		if math.IsNaN(r.Value) {
			continue
		}
		row, ok := cells[r.Date]
		if !ok {
			row = make(map[string]*cell)
			cells[r.Date] = row
		}
		c, ok := row[r.Entity]
		if !ok {
			c = &cell{}
			row[r.Entity] = c
		}
		c.sum += r.Value
		c.count++
		entities[r.Entity] = struct{}{}
	}

	t := &model.Table{
		Index:   make([]time.Time, 0, len(cells)),
		Columns: make([]string, 0, len(entities)),
	}
	for d := range cells {
		t.Index = append(t.Index, d)
	}
	sort.Slice(t.Index, func(i, j int) bool { return t.Index[i].Before(t.Index[j]) })
	for e := range entities {
		t.Columns = append(t.Columns, e)
	}
	sort.Strings(t.Columns)

	t.Values = make([][]float64, len(t.Columns))
	for ci, e := range t.Columns {
		col := make([]float64, len(t.Index))
		for ri, d := range t.Index {
			if c, ok := cells[d][e]; ok {
				col[ri] = c.sum / float64(c.count)
			} else {
				col[ri] = math.NaN()
			}
		}
		t.Values[ci] = col
	}
	return t
}
