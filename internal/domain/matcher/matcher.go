// Package matcher provides transaction matching logic for reconciling
// primary-ledger fuel-card transactions against settlement-partner
// transactions.
//
// The matcher uses strict matching criteria:
//   - Vehicle id must match exactly
//   - Timestamps must be within the time buffer (default 1 hour)
//   - Site name must match exactly
//   - Amount must differ by strictly less than the tolerance (default 1 sen)
//
// Example usage:
//
//	m, err := matcher.NewMatcher(matcher.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	pairs := m.Match(primary, partner)
package matcher

import (
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// Matcher matches primary records against partner records.
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config.
// The config is validated up front; matching never re-checks it.
func NewMatcher(config Config) (*Matcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{config: config}, nil
}

// Match scans every partner record for every primary record and emits
// one pair per combination satisfying the correspondence predicate.
//
// A primary record may appear in zero, one or many pairs; multiplicity
// is meaningful and never collapsed. Pairs come out grouped by primary
// record in primary input order, so repeated runs over the same input
// produce identical output. Either side empty yields an empty result.
//
// The scan is O(P×N). Batches here are daily or weekly files, so no
// index is needed; bucketing partners by vehicle id would preserve the
// semantics if volumes ever grow.
func (m *Matcher) Match(primary, partner []model.TransactionRecord) []model.MatchPair {
	var pairs []model.MatchPair
	for _, p := range primary {
		for _, q := range partner {
			if m.config.Corresponds(p, q) {
				pairs = append(pairs, model.MatchPair{Primary: p, Partner: q})
			}
		}
	}
	return pairs
}

// MatchedIDs collects the primary-record ids present in the given pairs.
// The classifier and the status annotator both key off this set.
func MatchedIDs(pairs []model.MatchPair) map[string]bool {
	ids := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		ids[pair.Primary.RecordID] = true
	}
	return ids
}
