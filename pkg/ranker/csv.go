package ranker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gammascope/pkg/store"
)

// Header is the ranking file's column row
var Header = []string{"TemplateID", "GreenRatio", "BlueRatio", "GreenRank", "BlueRank"}

// WriteCSV replaces path with rows in the given order
func WriteCSV(path string, rows []Row) error {
	return store.WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Header); err != nil {
			return err
		}
		for _, r := range rows {
			record := []string{
				r.TemplateID,
				strconv.FormatFloat(r.GreenRatio, 'f', 4, 64),
				strconv.FormatFloat(r.BlueRatio, 'f', 4, 64),
				strconv.Itoa(r.GreenRank),
				strconv.Itoa(r.BlueRank),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// ReadCSV loads a ranking file keyed by template id. A missing file gives an
// empty table; rows that do not parse are skipped.
func ReadCSV(path string) (map[string]Row, error) {
	rows := map[string]Row{}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rows, nil
		}
		return rows, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		return rows, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return rows, fmt.Errorf("%s: missing column %s", path, name)
		}
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		row, ok := parseRow(record, cols)
		if !ok {
			continue
		}
		rows[row.TemplateID] = row
	}
	return rows, nil
}

func parseRow(record []string, cols map[string]int) (Row, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	var row Row
	var ok bool
	var err error
	if row.TemplateID, ok = field("TemplateID"); !ok || row.TemplateID == "" {
		return row, false
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"GreenRatio", &row.GreenRatio}, {"BlueRatio", &row.BlueRatio}} {
		s, ok := field(f.name)
		if !ok {
			return row, false
		}
		if *f.dst, err = strconv.ParseFloat(s, 64); err != nil {
			return row, false
		}
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{{"GreenRank", &row.GreenRank}, {"BlueRank", &row.BlueRank}} {
		s, ok := field(f.name)
		if !ok {
			return row, false
		}
		if *f.dst, err = strconv.Atoi(s); err != nil {
			return row, false
		}
	}
	return row, true
}
