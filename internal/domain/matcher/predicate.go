package matcher

import (
	"math"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// The correspondence predicate: a primary and a partner record represent
// the same real-world transaction only when every rule below holds.
// Vehicle ids were stripped of whitespace upstream, so equality here is
// a plain case-sensitive comparison. The same rules are reused rung by
// rung in the mismatch classifier, so the two stages can never disagree
// about what counts as a match.

// SameVehicle reports whether both records carry the same vehicle id.
func (c Config) SameVehicle(primary, partner model.TransactionRecord) bool {
	return primary.VehicleID == partner.VehicleID
}

// WithinTimeWindow reports whether the partner timestamp falls inside
// the buffer around the primary timestamp. Both bounds are inclusive.
func (c Config) WithinTimeWindow(primary, partner model.TransactionRecord) bool {
	diff := partner.Timestamp.Sub(primary.Timestamp)
	if diff < 0 {
		diff = -diff
	}
	return diff <= c.TimeBuffer
}

// SameSite reports whether both records name the same site. Exact,
// case-sensitive; no normalization happens in the core.
func (c Config) SameSite(primary, partner model.TransactionRecord) bool {
	return primary.SiteName == partner.SiteName
}

// AmountWithinTolerance reports whether the two amounts differ by
// strictly less than the tolerance. A difference of exactly the
// tolerance is a mismatch.
func (c Config) AmountWithinTolerance(primary, partner model.TransactionRecord) bool {
	return math.Abs(partner.Amount-primary.Amount) < c.AmountTolerance
}

// Corresponds applies the full four-part predicate.
func (c Config) Corresponds(primary, partner model.TransactionRecord) bool {
	return c.SameVehicle(primary, partner) &&
		c.WithinTimeWindow(primary, partner) &&
		c.SameSite(primary, partner) &&
		c.AmountWithinTolerance(primary, partner)
}
