// Package service orchestrates one reconciliation run: validate the
// configuration, match, classify the leftovers, annotate the primary
// set and summarize. The service holds no state between runs; every
// invocation recomputes everything from its inputs.
package service

import (
	"log/slog"
	"time"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/domain/classifier"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/domain/matcher"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// ReconRequest holds parameters for one reconciliation run.
// TimeBuffer is a pointer because 0s is a valid window (exact-timestamp
// matching only); nil means "not specified, use the 1-hour default".
type ReconRequest struct {
	Partner         model.PartnerKind
	TimeBuffer      *time.Duration
	AmountTolerance float64 // Zero means the default (0.01)
}

// ReconResult is everything a run produces.
type ReconResult struct {
	Matches    []model.MatchPair
	Mismatches []model.MismatchRecord
	Annotated  []model.AnnotatedRecord
	Summary    model.Summary
}

// ReconService runs reconciliations.
type ReconService struct {
	logger *slog.Logger
}

// NewReconService creates a new reconciliation service.
func NewReconService(logger *slog.Logger) *ReconService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconService{logger: logger}
}

// Reconcile matches primary against partner records and classifies
// every unmatched primary record. Empty inputs are not an error: they
// produce empty or fully-mismatched results and a warning in the log.
func (s *ReconService) Reconcile(req ReconRequest, primary, partner []model.TransactionRecord) (*ReconResult, error) {
	cfg := matcher.Config{
		TimeBuffer:      matcher.DefaultTimeBuffer,
		AmountTolerance: req.AmountTolerance,
	}
	if req.TimeBuffer != nil {
		cfg.TimeBuffer = *req.TimeBuffer
	}
	if cfg.AmountTolerance == 0 {
		cfg.AmountTolerance = matcher.DefaultAmountTolerance
	}

	m, err := matcher.NewMatcher(cfg)
	if err != nil {
		return nil, err
	}
	cls, err := classifier.NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	if len(primary) == 0 {
		s.logger.Warn("no primary records to reconcile", "partner", req.Partner)
	}
	if len(partner) == 0 {
		s.logger.Warn("no partner records; every primary record will mismatch", "partner", req.Partner)
	}

	pairs := m.Match(primary, partner)
	mismatches := cls.Classify(primary, partner, pairs)
	annotated := Annotate(primary, pairs)

	result := &ReconResult{
		Matches:    pairs,
		Mismatches: mismatches,
		Annotated:  annotated,
		Summary:    summarize(req.Partner, primary, partner, pairs, mismatches),
	}

	s.logger.Info("reconciliation complete",
		"partner", req.Partner,
		"primary", len(primary),
		"partner_records", len(partner),
		"matched_pairs", len(pairs),
		"mismatches", len(mismatches),
	)

	return result, nil
}

// Annotate flags each primary record with its match membership, in
// input order. Matched and mismatched sets partition the primary set.
func Annotate(primary []model.TransactionRecord, pairs []model.MatchPair) []model.AnnotatedRecord {
	matched := matcher.MatchedIDs(pairs)
	annotated := make([]model.AnnotatedRecord, 0, len(primary))
	for _, p := range primary {
		annotated = append(annotated, model.AnnotatedRecord{
			Record:  p,
			Matched: matched[p.RecordID],
		})
	}
	return annotated
}

func summarize(kind model.PartnerKind, primary, partner []model.TransactionRecord, pairs []model.MatchPair, mismatches []model.MismatchRecord) model.Summary {
	reasons := make(map[model.MismatchReason]int)
	for _, mm := range mismatches {
		reasons[mm.Reason]++
	}
	return model.Summary{
		Partner:        kind,
		PrimaryCount:   len(primary),
		PartnerCount:   len(partner),
		MatchedPairs:   len(pairs),
		MatchedRecords: len(matcher.MatchedIDs(pairs)),
		MismatchCount:  len(mismatches),
		ReasonCounts:   reasons,
	}
}
