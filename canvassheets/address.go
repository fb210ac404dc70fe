package canvassheets

import (
	"strconv"
	"strings"
)

// The machine address grammar is zero-based: body[A0] is the first body
// cell, and ranges are written region[start:end]. The 1-based spreadsheet
// label survives only in CellLabel, which exists for display.

// ColumnIndex converts a column label to its zero-based index: "A" is 0,
// "Z" is 25, "AA" is 26. Labels are trimmed and case-insensitive.
func ColumnIndex(label string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return 0, newError(CodeInvalidColumnLabel, "empty column label")
	}
	value := 0
	for _, ch := range s {
		if ch < 'A' || ch > 'Z' {
			return 0, newError(CodeInvalidColumnLabel, "invalid column label %q", label)
		}
		value = value*26 + int(ch-'A') + 1
	}
	return value - 1, nil
}

// ColumnLabel converts a zero-based column index to its letter form, the
// inverse of ColumnIndex.
func ColumnLabel(index int) (string, error) {
	if index < 0 {
		return "", newError(CodeInvalidColumnLabel, "negative column index %d", index)
	}
	n := index + 1
	var buf []byte
	for n > 0 {
		rem := (n - 1) % 26
		buf = append(buf, byte('A'+rem))
		n = (n - 1) / 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// ParseCell splits a cell token into its zero-based row and column:
// "A0" is row 0 column 0, "b3" is row 3 column 1.
func ParseCell(cell string) (row, col int, err error) {
	s := strings.TrimSpace(cell)
	i := 0
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	letters, digits := s[:i], s[i:]
	if letters == "" || digits == "" {
		return 0, 0, newError(CodeInvalidCellReference, "invalid cell reference %q", cell)
	}
	row, convErr := strconv.Atoi(digits)
	if convErr != nil || row < 0 {
		return 0, 0, newError(CodeInvalidCellReference, "invalid cell reference %q", cell)
	}
	col, err = ColumnIndex(letters)
	if err != nil {
		return 0, 0, newError(CodeInvalidCellReference, "invalid cell reference %q", cell)
	}
	return row, col, nil
}

// CellKey builds the zero-based machine token for a cell: CellKey(0, 0) is
// "A0". Negative coordinates produce a token no parser accepts.
func CellKey(row, col int) string {
	label, _ := ColumnLabel(col)
	return label + strconv.Itoa(row)
}

// CellLabel builds the 1-based display label for a cell: CellLabel(0, 0) is
// "A1". It never appears in machine keys.
func CellLabel(row, col int) string {
	label, _ := ColumnLabel(col)
	return label + strconv.Itoa(row+1)
}

// Address builds the canonical single-cell key region[cell].
func Address(region string, row, col int) string {
	return region + "[" + CellKey(row, col) + "]"
}

// RangeAddress builds the canonical two-cell key region[start:end].
func RangeAddress(region string, startRow, startCol, endRow, endCol int) string {
	return region + "[" + CellKey(startRow, startCol) + ":" + CellKey(endRow, endCol) + "]"
}

// RangeRef is a parsed region-qualified cell range. A single-cell address
// parses with identical start and end coordinates.
type RangeRef struct {
	Region   string
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// ParseRange parses region[cell] or region[start:end] into a RangeRef. The
// region must be non-empty and the brackets must close.
func ParseRange(text string) (*RangeRef, error) {
	s := strings.TrimSpace(text)
	open := strings.IndexByte(s, '[')
	if open <= 0 || !strings.HasSuffix(s, "]") {
		return nil, newError(CodeInvalidRangeFormat, "invalid range %q", text)
	}
	region := s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return nil, newError(CodeInvalidRangeFormat, "empty range in %q", text)
	}
	parts := strings.Split(inner, ":")
	switch len(parts) {
	case 1:
		row, col, err := ParseCell(parts[0])
		if err != nil {
			return nil, err
		}
		return &RangeRef{Region: region, StartRow: row, StartCol: col, EndRow: row, EndCol: col}, nil
	case 2:
		startRow, startCol, err := ParseCell(parts[0])
		if err != nil {
			return nil, err
		}
		endRow, endCol, err := ParseCell(parts[1])
		if err != nil {
			return nil, err
		}
		return &RangeRef{
			Region:   region,
			StartRow: startRow,
			StartCol: startCol,
			EndRow:   endRow,
			EndCol:   endCol,
		}, nil
	default:
		return nil, newError(CodeInvalidRangeFormat, "invalid range %q", text)
	}
}

// String renders the canonical text form of the range.
func (r *RangeRef) String() string {
	if r.StartRow == r.EndRow && r.StartCol == r.EndCol {
		return Address(r.Region, r.StartRow, r.StartCol)
	}
	return RangeAddress(r.Region, r.StartRow, r.StartCol, r.EndRow, r.EndCol)
}

// Bounds returns the range's coordinates normalized so start <= end on both
// axes.
func (r *RangeRef) Bounds() (startRow, startCol, endRow, endCol int) {
	startRow, endRow = r.StartRow, r.EndRow
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	startCol, endCol = r.StartCol, r.EndCol
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	return startRow, startCol, endRow, endCol
}

// Contains reports whether the normalized range covers the cell.
func (r *RangeRef) Contains(row, col int) bool {
	startRow, startCol, endRow, endCol := r.Bounds()
	return row >= startRow && row <= endRow && col >= startCol && col <= endCol
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
