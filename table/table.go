// Package table reads the spreadsheets and delimited exports that feed the
// figure programs into a uniform header + rows form.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/dbsfigures"
	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"
)

// MissingMarkers are the cell values that are read as "no value".
var MissingMarkers = []string{"", "NA", "NaN", "nan", "null", "#N/A"}

type Table struct {
	Path   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// Open reads the first sheet of a workbook, or a delimited text file, which
// may be compressed.
func Open(path string) (*Table, error) {
	return OpenSheet(path, "")
}

// OpenSheet is Open with a named sheet. An empty sheet name means the first
// sheet. The sheet name is ignored for delimited text.
func OpenSheet(path, sheet string) (*Table, error) {
	path = dbsfigures.ExpandHome(path)

	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path, sheet)
	case ".xls":
		records, err = readXLS(path, sheet)
	default:
		records, err = readDelimited(path)
	}
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return FromRecords(path, records)
}

// FromRecords builds a Table from raw records whose first row is the header.
// Rows are padded or truncated to the header width and missing markers are
// normalized to the empty string.
func FromRecords(path string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	t := &Table{
		Path:   path,
		Header: make([]string, len(records[0])),
		index:  make(map[string]int),
	}

	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.Header[i] = name
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}

	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		row := make([]string, len(t.Header))
		for j := range row {
			if j < len(record) {
				row[j] = Normalize(record[j])
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Normalize trims a cell and maps every missing marker to "".
func Normalize(cell string) string {
	cell = strings.TrimSpace(cell)
	for _, marker := range MissingMarkers {
		if cell == marker {
			return ""
		}
	}
	return cell
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	if i, exists := t.index[name]; exists {
		return i
	}
	return -1
}

func (t *Table) Has(names ...string) error {
	var missing []string
	for _, name := range names {
		if t.Column(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing column(s) %s", t.Path, strings.Join(missing, ", "))
	}
	return nil
}

// String returns the cell at the row and named column, "" when absent.
func (t *Table) String(row int, name string) string {
	col := t.Column(name)
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// Float parses the cell at the row and named column. Missing or unparseable
// cells are invalid.
func (t *Table) Float(row int, name string) null.Float {
	s := t.String(row, name)
	if s == "" {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// Unmarshal decodes the rows into out, a pointer to a slice of structs tagged
// with `csv:"column name"`.
func (t *Table) Unmarshal(out interface{}) error {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	records = append(records, t.Rows...)

	if err := gocsv.UnmarshalCSV(&recordReader{records: records}, out); err != nil {
		return pfx.Err(fmt.Errorf("%s: %w", t.Path, err))
	}
	return nil
}

// Load opens path and decodes its first sheet into out.
func Load(path string, out interface{}) error {
	t, err := Open(path)
	if err != nil {
		return err
	}
	return t.Unmarshal(out)
}

// recordReader satisfies gocsv.CSVReader over records already in memory.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	r.pos++
	return r.records[r.pos-1], nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	out := r.records[r.pos:]
	r.pos = len(r.records)
	return out, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func readDelimited(path string) ([][]string, error) {
	rc, err := dbsfigures.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	rdr := csv.NewReader(bytes.NewReader(content))
	rdr.Comma = dbsfigures.DetermineDelimiterBytes(content)
	rdr.LazyQuotes = true
	rdr.FieldsPerRecord = -1

	return rdr.ReadAll()
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readXLS(path, sheet string) (records [][]string, err error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		candidate := wb.GetSheet(i)
		if candidate == nil {
			continue
		}
		if sheet == "" || candidate.Name == sheet {
			ws = candidate
			break
		}
	}
	if ws == nil {
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	for rowID := 0; rowID <= int(ws.MaxRow); rowID++ {
		row := xlsRow(ws, rowID)
		if row == nil {
			records = append(records, nil)
			continue
		}

		record := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			record = append(record, row.Col(colID))
		}
		records = append(records, record)
	}

	return records, nil
}

// xlsRow returns nil for rows the sheet never defined; the library
// dereferences the missing row rather than reporting it.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}
