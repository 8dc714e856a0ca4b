package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// PrintHeader prints the application header
func PrintHeader(partner model.PartnerKind, buffer time.Duration) {
	fmt.Printf("recon: Soliduz vs %s (time buffer %s)\n\n", partner, buffer)
}

// PrintSummary prints the reconciliation result summary
func PrintSummary(summary model.Summary) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Soliduz records: %d | %s records: %d\n",
		summary.PrimaryCount, summary.Partner, summary.PartnerCount)
	fmt.Printf("Matched pairs: %d (covering %d Soliduz records)\n",
		summary.MatchedPairs, summary.MatchedRecords)
	fmt.Printf("Mismatched records: %d\n", summary.MismatchCount)

	if len(summary.ReasonCounts) > 0 {
		fmt.Println("\nMismatch reasons:")
		for _, reason := range []model.MismatchReason{
			model.ReasonVehicleMismatch,
			model.ReasonTimeMismatch,
			model.ReasonSiteMismatch,
			model.ReasonAmountMismatch,
			model.ReasonUnclassified,
		} {
			if n := summary.ReasonCounts[reason]; n > 0 {
				fmt.Printf("  %-25s %d\n", reason, n)
			}
		}
	}
}

// PrintOutputs prints where the result files were written
func PrintOutputs(paths []string) {
	fmt.Println("\nResults written:")
	for _, p := range paths {
		fmt.Printf("  - %s\n", p)
	}
}
