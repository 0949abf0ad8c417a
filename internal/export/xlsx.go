package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"brokerdesk/internal/domain"
)

// SheetName is the worksheet clients are written to and read from.
const SheetName = "Clients"

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a requested export format. Empty defaults to xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", domain.ErrUnsupportedExportFmt
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// WriteXLSX writes clients as a single-sheet workbook.
func WriteXLSX(w io.Writer, clients []domain.Client) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	header := make([]interface{}, 0, len(columns))
	for _, h := range Headers() {
		header = append(header, excelize.Cell{StyleID: style, Value: h})
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("export.WriteXLSX header: %w", err)
	}

	for i := range clients {
		cells := Row(&clients[i])
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export.WriteXLSX row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export.WriteXLSX flush: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

// RowError reports a spreadsheet row that could not be converted.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadXLSX reads clients from the first sheet of a workbook. The first row
// must hold column headers. Blank rows are skipped; rows that fail to parse
// are returned as RowErrors alongside the clients that did.
func ReadXLSX(r io.Reader) ([]domain.Client, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("export.ReadXLSX open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("export.ReadXLSX: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("export.ReadXLSX rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	header := rows[0]
	var (
		clients []domain.Client
		errs    []RowError
	)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		c, err := ParseRow(header, row)
		if err != nil {
			errs = append(errs, RowError{Row: i + 2, Err: err})
			continue
		}
		clients = append(clients, *c)
	}
	return clients, errs, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Write renders clients in the given format. CSV output starts with a BOM so
// spreadsheet tools detect UTF-8.
func Write(w io.Writer, format Format, clients []domain.Client) error {
	if format == FormatXLSX {
		return WriteXLSX(w, clients)
	}
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("export.Write: %w", err)
	}
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("export.Write: %w", err)
	}
	if err := cw.WriteClients(clients); err != nil {
		return fmt.Errorf("export.Write: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
