// Package export serializes report rows for spreadsheet tools.
//
// Every cell is stringified, embedded quotes are doubled and the cell is
// wrapped in quotes, then cells are joined with the separator:
//
//	"Metodo","Importo"
//	"Contanti","€60.00"
package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/officina/workshop-system/internal/core/domain"
)

// DefaultSeparator is the field separator used by WriteReport.
const DefaultSeparator = ","

// Row renders one record.
func Row(cells []string, sep string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, sep)
}

// Write emits the header line followed by every record, one per line.
func Write(w io.Writer, headers []string, records [][]string, sep string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Row(headers, sep)); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := bw.WriteString("\n" + Row(rec, sep)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReport writes r with DefaultSeparator.
func WriteReport(w io.Writer, r domain.Report) error {
	return Write(w, r.Headers, r.Records(), DefaultSeparator)
}

// Filename is the download name of a report export.
func Filename(t domain.ReportType) string {
	return string(t) + "_report.csv"
}
