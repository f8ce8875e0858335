package samples

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"benchse/domain/stats"
	"benchse/internal/errors"
	"benchse/ports"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DataReader reads series from CSV and Excel files. Every selected column
// becomes one series named after its header; empty cells are skipped.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	opts     ReadOptions
	logger   *zap.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ReadOptions, logger *zap.Logger) *DataReader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = "xlsx"
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{filePath: filePath, fileType: fileType, opts: opts, logger: logger}
}

// Open returns the source for path: csv and xlsx by extension, "-" for
// stdin, anything else as newline-separated text
func Open(path string, opts ReadOptions, logger *zap.Logger) (ports.SampleSource, io.Closer, error) {
	if path == "-" || path == "" {
		return NewTextReader(os.Stdin, "stdin"), noopCloser{}, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return NewDataReader(path, opts, logger), noopCloser{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NotFound(path)
		}
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	return NewTextReader(f, filepath.Base(path)), f, nil
}

// ReadSeries reads the file and extracts the selected columns
func (r *DataReader) ReadSeries(ctx context.Context) ([]stats.Series, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(r.filePath)
	}

	var (
		tbl *table
		err error
	)
	start := time.Now()
	switch r.fileType {
	case "xlsx":
		tbl, err = r.readExcel()
	default:
		tbl, err = r.readCSV()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Sample file read",
		zap.String("path", r.filePath),
		zap.String("type", r.fileType),
		zap.Int("columns", len(tbl.Headers)),
		zap.Int("rows", len(tbl.Rows)),
		zap.Duration("elapsed", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, err := extractSeries(tbl, r.opts.Columns)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", r.filePath)
	}
	return series, nil
}

func (r *DataReader) readExcel() (*table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeNotFound, err), "failed to read sheet %s", sheet)
	}
	return toTable(rows)
}

func (r *DataReader) readCSV() (*table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "failed to parse CSV file %s", r.filePath)
	}
	return toTable(rows)
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

func toTable(rows [][]string) (*table, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput("file must have a header row")
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &table{Headers: headers, Rows: rows[1:]}, nil
}

// extractSeries converts the selected columns to series, preserving row
// order. With no columns named, every column whose non-empty cells all parse
// as numbers is used.
func extractSeries(tbl *table, columns []string) ([]stats.Series, error) {
	var indices []int
	if len(columns) == 0 {
		for i := range tbl.Headers {
			if isNumericColumn(tbl, i) {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return nil, errors.InvalidInput("no numeric columns found")
		}
	} else {
		for _, name := range columns {
			idx := indexOf(tbl.Headers, name)
			if idx < 0 {
				return nil, errors.NotFound("column " + name)
			}
			indices = append(indices, idx)
		}
	}

	series := make([]stats.Series, 0, len(indices))
	for _, idx := range indices {
		values := make([]float64, 0, len(tbl.Rows))
		for rowNum, row := range tbl.Rows {
			cell := cellAt(row, idx)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				// +2: one for the header row, one for 1-based numbering
				return nil, errors.Newf(errors.CodeInvalidInput,
					"column %s row %d: %q is not a number", tbl.Headers[idx], rowNum+2, cell)
			}
			values = append(values, v)
		}
		series = append(series, stats.NewSeries(tbl.Headers[idx], values))
	}
	return series, nil
}

func isNumericColumn(tbl *table, idx int) bool {
	seen := false
	for _, row := range tbl.Rows {
		cell := cellAt(row, idx)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
