// Package csvio reads canonical record sets and writes reconciliation
// results as CSV. It only understands the canonical shape; source
// specific schemas (raw Soliduz, Shell or Petronas exports) are
// normalized before they get here.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// TimestampLayout is the canonical timestamp format, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// Canonical column names. record_id and the reference column are
// optional on input; a missing record_id gets a generated UUID so the
// classifier always has a stable id to key on.
const (
	colRecordID   = "record_id"
	colTimestamp  = "timestamp"
	colAmount     = "amount"
	colVehicleID  = "vehicle_id"
	colSiteName   = "site_name"
	colReference  = "reference"
	colPartnerRef = "partner_reference"
)

// Side selects which reference column a record set carries.
type Side int

const (
	PrimarySide Side = iota
	PartnerSide
)

// ReadRecords parses a canonical CSV record set from r.
func ReadRecords(r io.Reader, side Side) ([]model.TransactionRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := indexColumns(rows[0])
	for _, required := range []string{colTimestamp, colAmount, colVehicleID, colSiteName} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	records := make([]model.TransactionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols, side)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func parseRow(row []string, cols map[string]int, side Side) (model.TransactionRecord, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts, err := time.Parse(TimestampLayout, field(colTimestamp))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	amount, err := strconv.ParseFloat(field(colAmount), 64)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing amount: %w", err)
	}

	rec := model.TransactionRecord{
		RecordID:  field(colRecordID),
		Timestamp: ts,
		Amount:    amount,
		VehicleID: field(colVehicleID),
		SiteName:  field(colSiteName),
	}
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}

	switch side {
	case PrimarySide:
		rec.Reference = field(colReference)
	case PartnerSide:
		rec.PartnerReference = field(colPartnerRef)
	}
	return rec, nil
}
