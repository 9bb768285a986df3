// Package grid translates locker cell labels such as "A1" or "aa12" into
// machine coordinates. Columns are letters in bijective base 26 (A=1, Z=26,
// AA=27) and count left to right; rows are digits counting top to bottom.
package grid

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidReferenceFormat is returned when a label is not letters followed by digits.
var ErrInvalidReferenceFormat = errors.New("invalid reference format")

var refPattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// Cell is a 1-based grid position.
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// ParseRef parses a label into its column and row.
func ParseRef(ref string) (column, row int, err error) {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return 0, 0, ErrInvalidReferenceFormat
	}

	for _, r := range strings.ToUpper(m[1]) {
		column = column*26 + int(r-'A'+1)
		if column > maxAxis {
			return 0, 0, ErrInvalidReferenceFormat
		}
	}

	row, err = strconv.Atoi(m[2])
	if err != nil || row < 1 || row > maxAxis {
		return 0, 0, ErrInvalidReferenceFormat
	}
	return column, row, nil
}

// ParseCell is ParseRef returning a Cell.
func ParseCell(ref string) (Cell, error) {
	column, row, err := ParseRef(ref)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Column: column, Row: row}, nil
}

const maxAxis = 1 << 16

// IsWithinBounds reports whether the cell fits a machine with the given
// number of columns (lines) and rows.
func IsWithinBounds(column, row, maxLineCapacity, maxRowCapacity int) bool {
	return column >= 1 && row >= 1 && column <= maxLineCapacity && row <= maxRowCapacity
}

// Normalize returns the canonical lowercase form of a label.
func Normalize(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// FormatRef renders a position back into its canonical label.
func FormatRef(column, row int) string {
	if column < 1 || row < 1 {
		return ""
	}
	var letters []byte
	for c := column; c > 0; c = (c - 1) / 26 {
		letters = append([]byte{byte('a' + (c-1)%26)}, letters...)
	}
	return string(letters) + strconv.Itoa(row)
}
