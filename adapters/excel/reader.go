package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/errors"
)

// DataReader reads Excel and CSV uploads into the analysis input shape
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader that handles both .xlsx and .csv files
func NewDataReader() *DataReader {
	return &DataReader{logger: internal.DefaultLogger}
}

// Parse reads the file at path into a Dataset. The format is chosen by
// extension; anything that is not .csv is treated as a workbook.
func (r *DataReader) Parse(path string) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("upload %s", filepath.Base(path)))
	}

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = r.readCSV(path)
	} else {
		rows, err = r.readWorkbook(path)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 1 {
		return nil, errors.ParseError("file has no header row", nil)
	}
	return r.assemble(rows), nil
}

// readWorkbook reads the first sheet of an Excel workbook
func (r *DataReader) readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ParseError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	r.logger.Debug("workbook %s: read %d rows from sheet %s", filepath.Base(path), len(rows), sheets[0])
	return rows, nil
}

// readCSV reads a comma-separated file
func (r *DataReader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows become empty cells downstream
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("failed to read CSV file", err)
	}
	r.logger.Debug("csv %s: read %d rows", filepath.Base(path), len(rows))
	return rows, nil
}

// assemble converts raw string rows into the Dataset shape: trimmed headers,
// every row keyed by header, short rows padded with empty cells.
func (r *DataReader) assemble(raw [][]string) *dataset.Dataset {
	headers := make([]string, len(raw[0]))
	for i, header := range raw[0] {
		headers[i] = strings.TrimSpace(header)
	}

	rows := make([]dataset.Row, 0, len(raw)-1)
	for _, record := range raw[1:] {
		row := make(dataset.Row, len(headers))
		for j, header := range headers {
			if j < len(record) {
				row[header] = strings.TrimSpace(record[j])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return dataset.NewDataset(headers, rows)
}
