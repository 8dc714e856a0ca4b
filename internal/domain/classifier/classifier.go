// Package classifier attributes a root-cause reason to every primary
// record the matcher left unmatched.
//
// Reasons come from a fixed ladder checked in order: vehicle, time,
// site, amount. The first criterion that eliminates every partner
// candidate is authoritative, so a record failing on vehicle is
// reported as a vehicle mismatch even if its amount is also wrong.
// Exactly one reason is assigned per record.
package classifier

import (
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/domain/matcher"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// Classifier walks the mismatch ladder using the same tolerance rules
// as the matcher that produced the match set.
type Classifier struct {
	config matcher.Config
}

// NewClassifier creates a classifier sharing the matcher's config.
func NewClassifier(config matcher.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{config: config}, nil
}

// Classify returns one MismatchRecord per unmatched primary record, in
// primary input order. Matched membership is decided by record id, not
// by value equality, so a primary record that coincidentally shares all
// four matching fields with a matched one is still classified on its
// own merits.
//
// A record that survives every ladder filter yet has no match pair
// indicates the matcher and classifier disagreed; it is surfaced as an
// unclassified discrepancy rather than silently dropped.
func (c *Classifier) Classify(primary, partner []model.TransactionRecord, pairs []model.MatchPair) []model.MismatchRecord {
	matched := matcher.MatchedIDs(pairs)

	var mismatches []model.MismatchRecord
	for _, p := range primary {
		if matched[p.RecordID] {
			continue
		}
		mismatches = append(mismatches, model.MismatchRecord{
			Record: p,
			Reason: c.reason(p, partner),
		})
	}
	return mismatches
}

// reason runs the ladder for one unmatched primary record.
func (c *Classifier) reason(p model.TransactionRecord, partner []model.TransactionRecord) model.MismatchReason {
	candidates := filter(partner, func(q model.TransactionRecord) bool {
		return c.config.SameVehicle(p, q)
	})
	if len(candidates) == 0 {
		return model.ReasonVehicleMismatch
	}

	candidates = filter(candidates, func(q model.TransactionRecord) bool {
		return c.config.WithinTimeWindow(p, q)
	})
	if len(candidates) == 0 {
		return model.ReasonTimeMismatch
	}

	candidates = filter(candidates, func(q model.TransactionRecord) bool {
		return c.config.SameSite(p, q)
	})
	if len(candidates) == 0 {
		return model.ReasonSiteMismatch
	}

	candidates = filter(candidates, func(q model.TransactionRecord) bool {
		return c.config.AmountWithinTolerance(p, q)
	})
	if len(candidates) == 0 {
		return model.ReasonAmountMismatch
	}

	// Candidates satisfying all four rules exist but the matcher did not
	// pair this record. Reachable only if the two stages ran with
	// different configs; surfaced, never dropped.
	return model.ReasonUnclassified
}

func filter(records []model.TransactionRecord, keep func(model.TransactionRecord) bool) []model.TransactionRecord {
	var out []model.TransactionRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
