package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/csvio"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

// ReconcileRequest is the body of POST /api/reconcile. Records must
// already be in the canonical shape; timestamps use
// "2006-01-02 15:04:05".
type ReconcileRequest struct {
	Partner        string   `json:"partner"`               // "Shell" or "Petronas"
	TimeBuffer     string   `json:"time_buffer,omitempty"` // Go duration string, default "1h"
	PrimaryRecords []Record `json:"primary_records"`
	PartnerRecords []Record `json:"partner_records"`
}

// Record is the canonical transaction shape on the wire.
type Record struct {
	RecordID         string  `json:"record_id,omitempty"`
	Timestamp        string  `json:"timestamp"`
	Amount           float64 `json:"amount"`
	VehicleID        string  `json:"vehicle_id"`
	SiteName         string  `json:"site_name"`
	Reference        string  `json:"reference,omitempty"`
	PartnerReference string  `json:"partner_reference,omitempty"`
}

// PartnerKind validates and returns the requested partner.
func (r ReconcileRequest) PartnerKind() (model.PartnerKind, error) {
	return model.ParsePartnerKind(r.Partner)
}

// BufferDuration parses the requested time buffer. An absent buffer
// defaults to 1h; an explicit "0s" is valid and means exact-timestamp
// matching only.
func (r ReconcileRequest) BufferDuration() (time.Duration, error) {
	if r.TimeBuffer == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(r.TimeBuffer)
	if err != nil {
		return 0, fmt.Errorf("parsing time_buffer %q: %w", r.TimeBuffer, err)
	}
	return d, nil
}

// ToModel converts a wire record, generating a record id when absent.
func (r Record) ToModel() (model.TransactionRecord, error) {
	ts, err := time.Parse(csvio.TimestampLayout, r.Timestamp)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing timestamp %q: %w", r.Timestamp, err)
	}
	id := r.RecordID
	if id == "" {
		id = uuid.NewString()
	}
	return model.TransactionRecord{
		RecordID:         id,
		Timestamp:        ts,
		Amount:           r.Amount,
		VehicleID:        r.VehicleID,
		SiteName:         r.SiteName,
		Reference:        r.Reference,
		PartnerReference: r.PartnerReference,
	}, nil
}

// ToModels converts a slice of wire records.
func ToModels(records []Record) ([]model.TransactionRecord, error) {
	out := make([]model.TransactionRecord, 0, len(records))
	for i, r := range records {
		rec, err := r.ToModel()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
