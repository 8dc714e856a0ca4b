package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/domain/matcher"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

var baseTime = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func makeRecord(id, vehicle, site string, ts time.Time, amount float64) model.TransactionRecord {
	return model.TransactionRecord{
		RecordID:  id,
		Timestamp: ts,
		Amount:    amount,
		VehicleID: vehicle,
		SiteName:  site,
	}
}

func quietService() *ReconService {
	return NewReconService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func buffer(d time.Duration) *time.Duration {
	return &d
}

func defaultRequest() ReconRequest {
	return ReconRequest{Partner: model.PartnerShell, TimeBuffer: buffer(time.Hour)}
}

func TestReconService_MixedRun(t *testing.T) {
	// Arrange: one clean match, one vehicle miss, one amount miss
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
		makeRecord("p2", "CD34", "X", baseTime, 75.00),
		makeRecord("p3", "EF56", "X", baseTime, 20.00),
	}
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime.Add(30*time.Minute), 50.005),
		makeRecord("q3", "EF56", "X", baseTime, 21.00),
	}

	// Act
	result, err := svc.Reconcile(defaultRequest(), primary, partner)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "p1", result.Matches[0].Primary.RecordID)

	require.Len(t, result.Mismatches, 2)
	assert.Equal(t, model.ReasonVehicleMismatch, result.Mismatches[0].Reason)
	assert.Equal(t, model.ReasonAmountMismatch, result.Mismatches[1].Reason)

	assert.Equal(t, 3, result.Summary.PrimaryCount)
	assert.Equal(t, 2, result.Summary.PartnerCount)
	assert.Equal(t, 1, result.Summary.MatchedPairs)
	assert.Equal(t, 2, result.Summary.MismatchCount)
	assert.Equal(t, 1, result.Summary.ReasonCounts[model.ReasonVehicleMismatch])
	assert.Equal(t, 1, result.Summary.ReasonCounts[model.ReasonAmountMismatch])
}

func TestReconService_DisjointnessAndCoverage(t *testing.T) {
	// Every primary record lands in exactly one of the two sets.
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
		makeRecord("p2", "AB12", "X", baseTime.Add(5*time.Minute), 50.00),
		makeRecord("p3", "CD34", "Y", baseTime, 12.34),
		makeRecord("p4", "EF56", "Z", baseTime, 99.99),
	}
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime.Add(20*time.Minute), 50.00),
		makeRecord("q2", "CD34", "Y", baseTime.Add(-10*time.Minute), 12.34),
		makeRecord("q3", "EF56", "Z", baseTime, 50.00),
	}

	result, err := svc.Reconcile(defaultRequest(), primary, partner)
	require.NoError(t, err)

	matched := make(map[string]bool)
	for _, pair := range result.Matches {
		matched[pair.Primary.RecordID] = true
	}
	mismatched := make(map[string]bool)
	for _, mm := range result.Mismatches {
		assert.False(t, mismatched[mm.Record.RecordID], "record %s mismatched twice", mm.Record.RecordID)
		mismatched[mm.Record.RecordID] = true
	}

	for _, p := range primary {
		inMatch := matched[p.RecordID]
		inMismatch := mismatched[p.RecordID]
		assert.True(t, inMatch != inMismatch, "record %s: match=%v mismatch=%v", p.RecordID, inMatch, inMismatch)
	}
}

func TestReconService_AnnotationMirrorsMatchMembership(t *testing.T) {
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
		makeRecord("p2", "CD34", "Y", baseTime, 75.00),
	}
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime, 50.00),
	}

	result, err := svc.Reconcile(defaultRequest(), primary, partner)
	require.NoError(t, err)

	require.Len(t, result.Annotated, 2)
	assert.Equal(t, "p1", result.Annotated[0].Record.RecordID)
	assert.True(t, result.Annotated[0].Matched)
	assert.Equal(t, "p2", result.Annotated[1].Record.RecordID)
	assert.False(t, result.Annotated[1].Matched)
}

func TestReconService_EmptyInputsAreNotErrors(t *testing.T) {
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
	}

	t.Run("no partner records", func(t *testing.T) {
		result, err := svc.Reconcile(defaultRequest(), primary, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Matches)
		require.Len(t, result.Mismatches, 1)
		assert.Equal(t, model.ReasonVehicleMismatch, result.Mismatches[0].Reason)
	})

	t.Run("no primary records", func(t *testing.T) {
		result, err := svc.Reconcile(defaultRequest(), nil, primary)
		require.NoError(t, err)
		assert.Empty(t, result.Matches)
		assert.Empty(t, result.Mismatches)
		assert.Empty(t, result.Annotated)
	})
}

func TestReconService_RejectsBadTimeBuffer(t *testing.T) {
	svc := quietService()
	req := ReconRequest{Partner: model.PartnerPetronas, TimeBuffer: buffer(25 * time.Hour)}

	_, err := svc.Reconcile(req, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, matcher.ErrInvalidTimeBuffer)
}

func TestReconService_UnsetBufferDefaultsToOneHour(t *testing.T) {
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
	}
	// 45 minutes away: inside the default 1h window only.
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime.Add(45*time.Minute), 50.00),
	}

	result, err := svc.Reconcile(ReconRequest{Partner: model.PartnerShell}, primary, partner)

	require.NoError(t, err)
	assert.Len(t, result.Matches, 1)
}

func TestReconService_ZeroBufferIsHonored(t *testing.T) {
	// 0s is a valid window: only identical timestamps may match. It must
	// not be mistaken for "unset" and widened to the 1-hour default.
	svc := quietService()
	req := ReconRequest{Partner: model.PartnerShell, TimeBuffer: buffer(0)}

	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
	}
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime.Add(45*time.Minute), 50.00),
	}

	result, err := svc.Reconcile(req, primary, partner)

	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, model.ReasonTimeMismatch, result.Mismatches[0].Reason)

	t.Run("identical timestamps still match", func(t *testing.T) {
		exact := []model.TransactionRecord{
			makeRecord("q2", "AB12", "X", baseTime, 50.00),
		}
		result, err := svc.Reconcile(req, primary, exact)
		require.NoError(t, err)
		assert.Len(t, result.Matches, 1)
	})
}

func TestReconService_Idempotent(t *testing.T) {
	svc := quietService()
	primary := []model.TransactionRecord{
		makeRecord("p1", "AB12", "X", baseTime, 50.00),
		makeRecord("p2", "CD34", "Y", baseTime, 75.00),
	}
	partner := []model.TransactionRecord{
		makeRecord("q1", "AB12", "X", baseTime, 50.00),
		makeRecord("q2", "CD34", "Y", baseTime, 76.00),
	}

	first, err := svc.Reconcile(defaultRequest(), primary, partner)
	require.NoError(t, err)
	second, err := svc.Reconcile(defaultRequest(), primary, partner)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
