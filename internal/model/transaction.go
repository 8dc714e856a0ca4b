// Package model defines the canonical transaction shapes shared by the
// matcher, classifier, service and I/O layers.
//
// Records arrive here already normalized: timestamps parsed to second
// precision, amounts numeric, vehicle ids stripped of whitespace. The
// core never parses source files and never mutates a record.
package model

import (
	"fmt"
	"time"
)

// PartnerKind identifies which settlement partner a record set came from.
// The matching rules are identical across partners; the kind only labels
// results and selects the upstream normalization that already happened.
type PartnerKind string

const (
	PartnerShell    PartnerKind = "Shell"
	PartnerPetronas PartnerKind = "Petronas"
)

// ParsePartnerKind converts a string to a PartnerKind.
func ParsePartnerKind(s string) (PartnerKind, error) {
	switch PartnerKind(s) {
	case PartnerShell, PartnerPetronas:
		return PartnerKind(s), nil
	}
	return "", fmt.Errorf("unknown partner kind %q (want Shell or Petronas)", s)
}

// TransactionRecord is the canonical shape for both primary (Soliduz)
// and partner (Shell/Petronas) transactions.
type TransactionRecord struct {
	// RecordID is a synthetic stable id assigned at ingest. Matching
	// never reads it, but the classifier uses it to decide whether a
	// primary record already matched.
	RecordID string

	Timestamp time.Time
	Amount    float64
	VehicleID string
	SiteName  string

	// Reference is the primary-side receipt reference; display only.
	Reference string
	// PartnerReference is the partner-side receipt number; display only.
	PartnerReference string
}

// MatchPair is one primary/partner combination satisfying the
// correspondence predicate. Both sides keep their own slot so that
// same-named fields (amount, timestamp) never overwrite each other.
type MatchPair struct {
	Primary TransactionRecord
	Partner TransactionRecord
}

// MismatchReason is the single root-cause attributed to an unmatched
// primary record, the first failing rung of the classifier ladder.
type MismatchReason string

const (
	ReasonVehicleMismatch MismatchReason = "Vehicle Mismatch"
	ReasonTimeMismatch    MismatchReason = "Time Mismatch"
	ReasonSiteMismatch    MismatchReason = "Site Name Mismatch"
	ReasonAmountMismatch  MismatchReason = "Amount Mismatch"

	// ReasonUnclassified marks a record that passed every ladder filter
	// yet has no match pair. With the matcher and classifier sharing one
	// predicate this should not happen; it is surfaced rather than dropped.
	ReasonUnclassified MismatchReason = "Unclassified Discrepancy"
)

// MismatchRecord is a primary record annotated with exactly one reason.
type MismatchRecord struct {
	Record TransactionRecord
	Reason MismatchReason
}

// AnnotatedRecord is a primary record flagged with match membership,
// used for the processed-primary export.
type AnnotatedRecord struct {
	Record  TransactionRecord
	Matched bool
}

// Summary holds aggregate counts for one reconciliation run.
type Summary struct {
	Partner        PartnerKind
	PrimaryCount   int
	PartnerCount   int
	MatchedPairs   int
	MatchedRecords int
	MismatchCount  int
	ReasonCounts   map[MismatchReason]int
}
