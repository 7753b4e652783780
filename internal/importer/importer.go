// Package importer loads a Salesforce case export CSV, maps its columns to
// canonical case submissions, validates every record up front, and feeds the
// whole set through the batch syncer.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"case_sheet_sync/internal/cases"

	"github.com/rs/zerolog/log"
)

// Export column headers as written by Salesforce.
const (
	colCaseNumber      = "Case Number"
	colContactName     = "Contact Name in Excel"
	colInvoiceSentDate = "Invoice Sent Date"
	colAppointmentDate = "Appointment Date"
	colClinicName      = "Clinic Name"
	colCaseReason      = "Case Reason"
	colTotalPledge     = "Total Pledge"
	colInvoiceStatus   = "Invoice Status"
	colCaseOwner       = "Case Owner in Excel"
)

// Batcher is the slice of the syncer the importer needs.
type Batcher interface {
	UpdateMany(ctx context.Context, recs []cases.Record) error
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadExports parses the CSV at path into one map per data row, keyed by the
// header row. A leading UTF-8 byte-order mark is tolerated.
func ReadExports(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export file %s is empty", path)
	}

	header := records[0]
	exports := make([]map[string]string, 0, len(records)-1)
	for _, row := range records[1:] {
		export := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				export[name] = row[i]
			}
		}
		exports = append(exports, export)
	}
	return exports, nil
}

// MapExport converts one export row into a raw case submission. The clinic
// field falls back to the case reason when the clinic name is blank.
func MapExport(export map[string]string) map[string]any {
	clinic := export[colClinicName]
	if clinic == "" {
		clinic = export[colCaseReason]
	}
	return map[string]any{
		"id":              export[colCaseNumber],
		"client":          export[colContactName],
		"pledgeDate":      export[colInvoiceSentDate],
		"appointmentDate": export[colAppointmentDate],
		"clinic":          clinic,
		"pledgeAmount":    export[colTotalPledge],
		"invoiceStatus":   export[colInvoiceStatus],
		"contact":         export[colCaseOwner],
	}
}

// PrepareAll validates every submission before anything touches the store.
// The first invalid record aborts the import.
func PrepareAll(exports []map[string]string) ([]cases.Record, error) {
	recs := make([]cases.Record, 0, len(exports))
	for i, export := range exports {
		rec, reason := cases.Prepare(MapExport(export))
		if reason != "" {
			return nil, fmt.Errorf("illegal input in record %d - %s", i+1, reason)
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

// Run imports the export file at path through the batch syncer.
func Run(ctx context.Context, batcher Batcher, path string) error {
	exports, err := ReadExports(path)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(exports)).Str("path", path).Msg("Read case exports")

	recs, err := PrepareAll(exports)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(recs)).Msg("Validated all exports")

	if err := batcher.UpdateMany(ctx, recs); err != nil {
		return err
	}
	log.Info().Int("count", len(recs)).Msg("Updated all cases")
	return nil
}
