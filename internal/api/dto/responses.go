package dto

import (
	"time"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/application/service"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/csvio"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ReconcileResponse is the body returned by POST /api/reconcile.
type ReconcileResponse struct {
	Summary    SummaryResponse   `json:"summary"`
	Matches    []MatchPair       `json:"matches"`
	Mismatches []Mismatch        `json:"mismatches"`
	Annotated  []AnnotatedRecord `json:"annotated"`
}

// SummaryResponse carries aggregate counts for one run.
type SummaryResponse struct {
	Partner        string         `json:"partner"`
	PrimaryCount   int            `json:"primary_count"`
	PartnerCount   int            `json:"partner_count"`
	MatchedPairs   int            `json:"matched_pairs"`
	MatchedRecords int            `json:"matched_records"`
	MismatchCount  int            `json:"mismatch_count"`
	ReasonCounts   map[string]int `json:"reason_counts"`
}

// MatchPair keeps both sides under their own key so same-named fields
// never collide.
type MatchPair struct {
	Primary Record `json:"primary"`
	Partner Record `json:"partner"`
}

// Mismatch is a primary record with its attributed reason.
type Mismatch struct {
	Record Record `json:"record"`
	Reason string `json:"reason"`
}

// AnnotatedRecord is a primary record with its match membership flag.
type AnnotatedRecord struct {
	Record  Record `json:"record"`
	Matched bool   `json:"matched"`
}

// FromResult converts a service result to the wire shape.
func FromResult(result *service.ReconResult) ReconcileResponse {
	resp := ReconcileResponse{
		Summary:    fromSummary(result.Summary),
		Matches:    make([]MatchPair, 0, len(result.Matches)),
		Mismatches: make([]Mismatch, 0, len(result.Mismatches)),
		Annotated:  make([]AnnotatedRecord, 0, len(result.Annotated)),
	}
	for _, pair := range result.Matches {
		resp.Matches = append(resp.Matches, MatchPair{
			Primary: fromModel(pair.Primary),
			Partner: fromModel(pair.Partner),
		})
	}
	for _, mm := range result.Mismatches {
		resp.Mismatches = append(resp.Mismatches, Mismatch{
			Record: fromModel(mm.Record),
			Reason: string(mm.Reason),
		})
	}
	for _, a := range result.Annotated {
		resp.Annotated = append(resp.Annotated, AnnotatedRecord{
			Record:  fromModel(a.Record),
			Matched: a.Matched,
		})
	}
	return resp
}

func fromModel(rec model.TransactionRecord) Record {
	return Record{
		RecordID:         rec.RecordID,
		Timestamp:        rec.Timestamp.Format(csvio.TimestampLayout),
		Amount:           rec.Amount,
		VehicleID:        rec.VehicleID,
		SiteName:         rec.SiteName,
		Reference:        rec.Reference,
		PartnerReference: rec.PartnerReference,
	}
}

func fromSummary(s model.Summary) SummaryResponse {
	reasons := make(map[string]int, len(s.ReasonCounts))
	for reason, n := range s.ReasonCounts {
		reasons[string(reason)] = n
	}
	return SummaryResponse{
		Partner:        string(s.Partner),
		PrimaryCount:   s.PrimaryCount,
		PartnerCount:   s.PartnerCount,
		MatchedPairs:   s.MatchedPairs,
		MatchedRecords: s.MatchedRecords,
		MismatchCount:  s.MismatchCount,
		ReasonCounts:   reasons,
	}
}
