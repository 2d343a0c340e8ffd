// Package loader drains model.Records into Postgres in batched
// transactions, applying the three tables' distinct conflict policies via
// internal/db.
//
// Grounded on hospital_loader/load_pg.go's loadParquetToPg: a running
// transaction accumulates a fixed number of upserts before committing and
// starting the next one, rather than one transaction per record or one
// giant transaction for the whole file.
package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/hospitalmrf/internal/db"
	"github.com/gyeh/hospitalmrf/internal/model"
)

// DefaultBatchSize is how many records accumulate per transaction before
// it commits and the next one begins.
const DefaultBatchSize = 5000

// Options configures a Load run.
type Options struct {
	BatchSize int
	// ReplaceHospitalCharges, when true, deletes the hospital's existing
	// standard_charges and payer_charges before loading its new records
	// (full-replace-per-file semantics). Services are never deleted this
	// way since they are shared across hospitals.
	ReplaceHospitalCharges bool
}

// Summary tallies what Load wrote.
type Summary struct {
	Services       int
	StandardCharge int
	PayerCharges   int
}

// Load upserts hospital and every record produced for it, batching the
// charge-table writes into transactions of batchSize records each.
func Load(ctx context.Context, pool *pgxpool.Pool, hospital model.Hospital, records []model.Record, opts Options) (Summary, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	topQ := db.New(pool)
	if err := topQ.UpsertHospital(ctx, UpsertHospitalParams(hospital)); err != nil {
		return Summary{}, fmt.Errorf("loader: upsert hospital %s: %w", hospital.HospitalKey, err)
	}

	if opts.ReplaceHospitalCharges {
		if err := topQ.DeleteHospitalCharges(ctx, hospital.HospitalKey); err != nil {
			return Summary{}, fmt.Errorf("loader: clear prior charges for %s: %w", hospital.HospitalKey, err)
		}
	}

	// The CSV/JSON transforms don't know a hospital's key at record-build
	// time (it's only resolved from the file's own metadata afterward), so
	// every record arrives with a blank HospitalKey on its charge rows.
	// Stamp it here, once, before any of these records reach the database.
	for i := range records {
		records[i].StandardCharge.HospitalKey = hospital.HospitalKey
		for j := range records[i].PayerCharges {
			records[i].PayerCharges[j].HospitalKey = hospital.HospitalKey
		}
	}

	var summary Summary
	seenServices := make(map[string]bool)

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if err := loadBatch(ctx, pool, batch, seenServices, &summary); err != nil {
			return summary, fmt.Errorf("loader: batch [%d:%d) for %s: %w", start, end, hospital.HospitalKey, err)
		}
	}

	return summary, nil
}

func loadBatch(ctx context.Context, pool *pgxpool.Pool, batch []model.Record, seenServices map[string]bool, summary *Summary) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	q := db.New(tx)

	for _, rec := range batch {
		if !seenServices[rec.Service.ServiceID] {
			if err := q.InsertService(ctx, db.InsertServiceParams{
				ServiceID:   rec.Service.ServiceID,
				Setting:     string(rec.Service.Setting),
				Code:        rec.Service.Code,
				CodeType:    rec.Service.CodeType,
				Description: rec.Service.Description,
				Modifiers:   rec.Service.Modifiers,
			}); err != nil {
				return fmt.Errorf("insert service %s: %w", rec.Service.ServiceID, err)
			}
			seenServices[rec.Service.ServiceID] = true
			summary.Services++
		}

		if err := q.UpsertStandardCharge(ctx, db.UpsertStandardChargeParams{
			ServiceID:      rec.StandardCharge.ServiceID,
			HospitalKey:    rec.StandardCharge.HospitalKey,
			GrossCharge:    rec.StandardCharge.Gross,
			DiscountedCash: rec.StandardCharge.DiscountedCash,
			Minimum:        rec.StandardCharge.Min,
			Maximum:        rec.StandardCharge.Max,
		}); err != nil {
			return fmt.Errorf("upsert standard_charge %s/%s: %w", rec.StandardCharge.ServiceID, rec.StandardCharge.HospitalKey, err)
		}
		summary.StandardCharge++

		for _, pc := range rec.PayerCharges {
			if err := q.UpsertPayerCharge(ctx, db.UpsertPayerChargeParams{
				ServiceID:           pc.ServiceID,
				HospitalKey:         pc.HospitalKey,
				PayerName:           pc.PayerName,
				PlanName:            pc.PlanName,
				Modifiers:           pc.Modifiers,
				NegotiatedDollar:    pc.NegotiatedDollar,
				NegotiatedAlgorithm: pc.NegotiatedAlgorithm,
				NegotiatedPercent:   pc.NegotiatedPercent,
				EstimatedAmount:     pc.EstimatedAmount,
				Methodology:         pc.Methodology,
				AdditionalNotes:     pc.AdditionalNotes,
				Median:              pc.Median,
				Percentile10th:      pc.Percentile10th,
				Percentile90th:      pc.Percentile90th,
				Count:               pc.Count,
			}); err != nil {
				return fmt.Errorf("upsert payer_charge %s/%s/%s/%s: %w", pc.ServiceID, pc.HospitalKey, pc.PayerName, pc.PlanName, err)
			}
			summary.PayerCharges++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// UpsertHospitalParams adapts model.Hospital's field layout to
// db.UpsertHospitalParams by copying each field by name.
func UpsertHospitalParams(h model.Hospital) db.UpsertHospitalParams {
	return db.UpsertHospitalParams{
		HospitalKey:        h.HospitalKey,
		Name:               h.Name,
		Address:            h.Address,
		Location:           h.Location,
		NPIs:               h.NPIs,
		AsOfDate:           h.AsOfDate,
		LastUpdate:         h.LastUpdate,
		Version:            h.Version,
		FinancialAidPolicy: h.FinancialAidPolicy,
	}
}
