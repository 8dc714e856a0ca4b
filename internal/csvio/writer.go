package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// Result exports: header row, one data row per result, UTF-8, no index
// column. Match rows keep both sides under primary_/partner_ prefixes
// so same-named fields never collide.

var matchHeader = []string{
	"primary_record_id", "primary_timestamp", "primary_amount",
	"primary_vehicle_id", "primary_site_name", "primary_reference",
	"partner_record_id", "partner_timestamp", "partner_amount",
	"partner_vehicle_id", "partner_site_name", "partner_reference",
}

var mismatchHeader = []string{
	"record_id", "timestamp", "amount", "vehicle_id", "site_name",
	"reference", "mismatch_reason",
}

var annotatedHeader = []string{
	"record_id", "timestamp", "amount", "vehicle_id", "site_name",
	"reference", "matched",
}

// WriteMatches writes one row per match pair.
func WriteMatches(w io.Writer, pairs []model.MatchPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, pair := range pairs {
		row := append(primaryFields(pair.Primary),
			pair.Partner.RecordID,
			pair.Partner.Timestamp.Format(TimestampLayout),
			formatAmount(pair.Partner.Amount),
			pair.Partner.VehicleID,
			pair.Partner.SiteName,
			pair.Partner.PartnerReference,
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing match row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMismatches writes one row per mismatch record.
func WriteMismatches(w io.Writer, mismatches []model.MismatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mismatchHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, mm := range mismatches {
		row := append(primaryFields(mm.Record), string(mm.Reason))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing mismatch row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAnnotated writes the primary set with its matched flag.
func WriteAnnotated(w io.Writer, annotated []model.AnnotatedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(annotatedHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range annotated {
		row := append(primaryFields(a.Record), strconv.FormatBool(a.Matched))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing annotated row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func primaryFields(rec model.TransactionRecord) []string {
	return []string{
		rec.RecordID,
		rec.Timestamp.Format(TimestampLayout),
		formatAmount(rec.Amount),
		rec.VehicleID,
		rec.SiteName,
		rec.Reference,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
