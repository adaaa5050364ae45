// Package criteria loads user-supplied scoring templates from spreadsheets.
package criteria

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMalformedTemplate indicates the spreadsheet is missing required
	// columns or contains rows that cannot form a valid criterion.
	ErrMalformedTemplate = errors.New("malformed criteria template")
	// ErrEmptyTemplate indicates no valid criterion rows were found.
	ErrEmptyTemplate = errors.New("criteria template contains no criteria")
)

// Criterion is a single named, weighted scoring dimension.
type Criterion struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

// CriteriaSet is an ordered, immutable set of criteria loaded from a template.
type CriteriaSet struct {
	Criteria []Criterion `json:"criteria"`
}

// Len returns the number of criteria in the set.
func (cs *CriteriaSet) Len() int { return len(cs.Criteria) }

// Load parses a spreadsheet buffer into a CriteriaSet. The first sheet must
// carry a header row with name, description and weight columns (any order,
// case-insensitive). Blank rows are skipped; rows with a missing name or a
// non-positive weight reject the whole template so a stored template is never
// partially valid.
func Load(data []byte) (*CriteriaSet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedTemplate)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrEmptyTemplate, sheets[0])
	}

	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var criteria []Criterion
	for i, row := range rows[1:] {
		rowNum := i + 2 // spreadsheet row numbers, after the header
		if isBlankRow(row) {
			continue
		}

		name := cellAt(row, cols.name)
		if name == "" {
			return nil, fmt.Errorf("%w: row %d has no criterion name", ErrMalformedTemplate, rowNum)
		}

		rawWeight := cellAt(row, cols.weight)
		weight, err := strconv.ParseFloat(rawWeight, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d weight %q is not numeric", ErrMalformedTemplate, rowNum, rawWeight)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("%w: row %d weight must be positive, got %v", ErrMalformedTemplate, rowNum, weight)
		}

		criteria = append(criteria, Criterion{
			Name:        name,
			Description: cellAt(row, cols.description),
			Weight:      weight,
		})
	}

	if len(criteria) == 0 {
		return nil, fmt.Errorf("%w: no criterion rows after the header", ErrEmptyTemplate)
	}

	return &CriteriaSet{Criteria: criteria}, nil
}

// LoadFile reads and parses a template from disk.
func LoadFile(path string) (*CriteriaSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return Load(data)
}

type columnIndexes struct {
	name        int
	description int
	weight      int
}

func findColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{name: -1, description: -1, weight: -1}
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "name", "criterion":
			cols.name = i
		case "description":
			cols.description = i
		case "weight":
			cols.weight = i
		}
	}

	var missing []string
	if cols.name == -1 {
		missing = append(missing, "name")
	}
	if cols.description == -1 {
		missing = append(missing, "description")
	}
	if cols.weight == -1 {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing required columns: %s",
			ErrMalformedTemplate, strings.Join(missing, ", "))
	}
	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
