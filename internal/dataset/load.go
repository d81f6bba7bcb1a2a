package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFile reads and parses a passenger CSV without caching. The returned
// Dataset's Version is derived from the file's modification time.
func ReadFile(path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "stat file", Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Path: path, Reason: "path is a directory"}
	}
	return readVersion(path, abs, versionOf(abs, info))
}

// readVersion parses the file at abs and labels it with a version computed
// by the caller from an earlier stat.
func readVersion(path, abs, version string) (*Dataset, error) {
	f, err := os.Open(abs)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "open file", Err: err}
	}
	defer f.Close()
	return Read(f, abs, version)
}

// Read parses passenger rows from r. source is only used in error messages
// and as Dataset.Source.
func Read(r io.Reader, source, version string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadError{Path: source, Reason: "empty file"}
		}
		return nil, &DataLoadError{Path: source, Reason: "read header", Err: err}
	}
	idx := map[string]int{}
	for i, h := range header {
		// tolerate a UTF-8 BOM on the first header cell
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if canon, ok := CanonicalColumn(h); ok {
			if _, dup := idx[canon]; !dup {
				idx[canon] = i
			}
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &DataLoadError{Path: source, Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	var rows []Passenger
	seen := map[int]int{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataLoadError{Path: source, Row: line, Reason: "malformed record", Err: err}
		}
		if blankRecord(rec) {
			continue
		}
		p, err := parseRow(rec, idx)
		if err != nil {
			return nil, &DataLoadError{Path: source, Row: line, Reason: err.Error()}
		}
		if prev, dup := seen[p.PassengerID]; dup {
			return nil, &DataLoadError{Path: source, Row: line, Reason: fmt.Sprintf("duplicate PassengerId %d (first seen on row %d)", p.PassengerID, prev)}
		}
		seen[p.PassengerID] = line
		rows = append(rows, p)
	}
	return &Dataset{Source: source, Version: version, rows: rows}, nil
}

func parseRow(rec []string, idx map[string]int) (Passenger, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var p Passenger
	var err error
	if p.PassengerID, err = requiredInt(get(ColPassengerID), ColPassengerID); err != nil {
		return p, err
	}
	if p.Survived, err = requiredInt(get(ColSurvived), ColSurvived); err != nil {
		return p, err
	}
	if p.Survived != 0 && p.Survived != 1 {
		return p, fmt.Errorf("Survived must be 0 or 1, got %d", p.Survived)
	}
	if p.Pclass, err = requiredInt(get(ColPclass), ColPclass); err != nil {
		return p, err
	}
	if p.Pclass < 1 || p.Pclass > 3 {
		return p, fmt.Errorf("Pclass must be 1, 2 or 3, got %d", p.Pclass)
	}
	p.Sex = strings.ToLower(get(ColSex))
	if p.Sex != "" && p.Sex != "male" && p.Sex != "female" {
		return p, fmt.Errorf("Sex must be male or female, got %q", get(ColSex))
	}
	if p.Age, err = optionalFloat(get(ColAge), ColAge); err != nil {
		return p, err
	}
	if p.SibSp, err = requiredInt(get(ColSibSp), ColSibSp); err != nil {
		return p, err
	}
	if p.Parch, err = requiredInt(get(ColParch), ColParch); err != nil {
		return p, err
	}
	if p.Fare, err = optionalFloat(get(ColFare), ColFare); err != nil {
		return p, err
	}
	if p.SibSp < 0 || p.Parch < 0 {
		return p, errors.New("SibSp and Parch must be >= 0")
	}
	p.Embarked = strings.ToUpper(get(ColEmbarked))
	p.Name = get(ColName)
	p.Ticket = get(ColTicket)
	p.Cabin = get(ColCabin)
	return p, nil
}

func requiredInt(s, col string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", col)
	}
	// some exports write integer columns as "1.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("%s: invalid integer %q", col, s)
}

func optionalFloat(s, col string) (*float64, error) {
	if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid number %q", col, s)
	}
	if f < 0 {
		return nil, fmt.Errorf("%s must be >= 0, got %v", col, f)
	}
	return &f, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func versionOf(abs string, info os.FileInfo) string {
	return fmt.Sprintf("%s@%d", abs, info.ModTime().UnixNano())
}
