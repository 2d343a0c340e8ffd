// Package db is the generated-style data access layer for the Loader:
// a hand-authored Queries API in the shape sqlc would produce, wrapping
// pgx/v5 (pool or transaction) behind one DBTX interface.
//
// Grounded on parser/main.go and hospital_loader/load_pg.go's db.Queries /
// db.New(tx) usage (both import a sibling "db" package that was never
// itself retrieved into the pack) and on parser/db_test.go's
// embedded-postgres test harness shape.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/schema.sql
var Schema string

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, letting Queries run
// against either a pooled connection or an open transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Queries wraps a DBTX and exposes the Loader's prepared operations.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// InitializeSchema applies the embedded schema. Idempotent: every
// statement is CREATE ... IF NOT EXISTS.
func InitializeSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}

// UpsertHospitalParams mirrors the Hospital natural-key upsert: a hospital
// re-filing its MRF replaces its own header fields wholesale (there's only
// ever one current header per hospital).
type UpsertHospitalParams struct {
	HospitalKey        string
	Name               string
	Address            string
	Location           string
	NPIs               []string
	AsOfDate           time.Time
	LastUpdate         *time.Time
	Version            *string
	FinancialAidPolicy *string
}

func (q *Queries) UpsertHospital(ctx context.Context, arg UpsertHospitalParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO hospitals (hospital_key, name, address, location, npis, as_of_date, last_update, version, financial_aid_policy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (hospital_key) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			location = EXCLUDED.location,
			npis = EXCLUDED.npis,
			as_of_date = EXCLUDED.as_of_date,
			last_update = EXCLUDED.last_update,
			version = EXCLUDED.version,
			financial_aid_policy = EXCLUDED.financial_aid_policy,
			updated_at = now()
	`, arg.HospitalKey, arg.Name, toText(arg.Address), toText(arg.Location), arg.NPIs,
		arg.AsOfDate, toDate(arg.LastUpdate), toTextPtr(arg.Version), toTextPtr(arg.FinancialAidPolicy))
	if err != nil {
		return fmt.Errorf("db: upsert hospital %s: %w", arg.HospitalKey, err)
	}
	return nil
}

// InsertServiceParams is the write side of the two-tier whitelist's
// hospital-independent identity. ON CONFLICT DO NOTHING: the first
// hospital to file a service "wins" its description; later hospitals
// filing the identical service_id contribute no new row here.
type InsertServiceParams struct {
	ServiceID   string
	Setting     string
	Code        string
	CodeType    string
	Description string
	Modifiers   *string
}

func (q *Queries) InsertService(ctx context.Context, arg InsertServiceParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO services (service_id, setting, code, code_type, description, modifiers)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (service_id) DO NOTHING
	`, arg.ServiceID, arg.Setting, arg.Code, arg.CodeType, arg.Description, toTextPtr(arg.Modifiers))
	if err != nil {
		return fmt.Errorf("db: insert service %s: %w", arg.ServiceID, err)
	}
	return nil
}

// UpsertStandardChargeParams is one hospital's own charge figures for one
// service. Re-ingestion coalesces: a field present in the new row
// overwrites, a field absent (nil) leaves the stored value untouched.
type UpsertStandardChargeParams struct {
	ServiceID      string
	HospitalKey    string
	GrossCharge    *float64
	DiscountedCash *float64
	Minimum        *float64
	Maximum        *float64
}

func (q *Queries) UpsertStandardCharge(ctx context.Context, arg UpsertStandardChargeParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO standard_charges (service_id, hospital_key, gross_charge, discounted_cash, minimum, maximum)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (service_id, hospital_key) DO UPDATE SET
			gross_charge    = COALESCE(EXCLUDED.gross_charge, standard_charges.gross_charge),
			discounted_cash = COALESCE(EXCLUDED.discounted_cash, standard_charges.discounted_cash),
			minimum         = COALESCE(EXCLUDED.minimum, standard_charges.minimum),
			maximum         = COALESCE(EXCLUDED.maximum, standard_charges.maximum),
			updated_at      = now()
	`, arg.ServiceID, arg.HospitalKey, toNumeric(arg.GrossCharge), toNumeric(arg.DiscountedCash),
		toNumeric(arg.Minimum), toNumeric(arg.Maximum))
	if err != nil {
		return fmt.Errorf("db: upsert standard_charge %s/%s: %w", arg.ServiceID, arg.HospitalKey, err)
	}
	return nil
}

// UpsertPayerChargeParams is one payer/plan's negotiated rate for one
// service at one hospital. Unlike standard_charges, this is a full
// overwrite of every non-key column: a changed payer contract should not
// leave stale numbers alongside the new ones.
type UpsertPayerChargeParams struct {
	ServiceID           string
	HospitalKey         string
	PayerName           string
	PlanName            string
	Modifiers           *string
	NegotiatedDollar    *float64
	NegotiatedAlgorithm *string
	NegotiatedPercent   *float64
	EstimatedAmount     *float64
	Methodology         *string
	AdditionalNotes     *string
	Median              *float64
	Percentile10th      *float64
	Percentile90th      *float64
	Count               *string
}

func (q *Queries) UpsertPayerCharge(ctx context.Context, arg UpsertPayerChargeParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO payer_charges (
			service_id, hospital_key, payer_name, plan_name, modifiers,
			negotiated_dollar, negotiated_algorithm, negotiated_percent, estimated_amount,
			methodology, additional_notes, median_amount, percentile_10th, percentile_90th, charge_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (service_id, hospital_key, payer_name, plan_name) DO UPDATE SET
			modifiers            = EXCLUDED.modifiers,
			negotiated_dollar    = EXCLUDED.negotiated_dollar,
			negotiated_algorithm = EXCLUDED.negotiated_algorithm,
			negotiated_percent   = EXCLUDED.negotiated_percent,
			estimated_amount     = EXCLUDED.estimated_amount,
			methodology          = EXCLUDED.methodology,
			additional_notes     = EXCLUDED.additional_notes,
			median_amount        = EXCLUDED.median_amount,
			percentile_10th      = EXCLUDED.percentile_10th,
			percentile_90th      = EXCLUDED.percentile_90th,
			charge_count         = EXCLUDED.charge_count,
			updated_at           = now()
	`, arg.ServiceID, arg.HospitalKey, arg.PayerName, arg.PlanName, toTextPtr(arg.Modifiers),
		toNumeric(arg.NegotiatedDollar), toTextPtr(arg.NegotiatedAlgorithm), toNumeric(arg.NegotiatedPercent),
		toNumeric(arg.EstimatedAmount), toTextPtr(arg.Methodology), toTextPtr(arg.AdditionalNotes),
		toNumeric(arg.Median), toNumeric(arg.Percentile10th), toNumeric(arg.Percentile90th), toTextPtr(arg.Count))
	if err != nil {
		return fmt.Errorf("db: upsert payer_charge %s/%s/%s/%s: %w", arg.ServiceID, arg.HospitalKey, arg.PayerName, arg.PlanName, err)
	}
	return nil
}

// DeleteHospitalCharges removes every standard_charges and payer_charges
// row for a hospital, per spec.md's full-replace-per-hospital-file
// semantics: each ingest run for a hospital starts from a clean slate for
// that hospital's own charges (services, being hospital-independent, are
// never deleted this way).
func (q *Queries) DeleteHospitalCharges(ctx context.Context, hospitalKey string) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM payer_charges WHERE hospital_key = $1`, hospitalKey); err != nil {
		return fmt.Errorf("db: delete payer_charges for %s: %w", hospitalKey, err)
	}
	if _, err := q.db.Exec(ctx, `DELETE FROM standard_charges WHERE hospital_key = $1`, hospitalKey); err != nil {
		return fmt.Errorf("db: delete standard_charges for %s: %w", hospitalKey, err)
	}
	return nil
}

// Hospital mirrors the hospitals row, as returned by GetHospitalByKey.
type Hospital struct {
	ID                 int32
	HospitalKey        string
	Name               string
	Address            string
	Location           string
	NPIs               []string
	AsOfDate           time.Time
	LastUpdate         *time.Time
	Version            *string
	FinancialAidPolicy *string
}

func (q *Queries) GetHospitalByKey(ctx context.Context, hospitalKey string) (Hospital, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, hospital_key, name, address, location, npis, as_of_date, last_update, version, financial_aid_policy
		FROM hospitals WHERE hospital_key = $1
	`, hospitalKey)

	var h Hospital
	var address, location pgtype.Text
	var version, financialAidPolicy pgtype.Text
	var lastUpdate pgtype.Date

	if err := row.Scan(&h.ID, &h.HospitalKey, &h.Name, &address, &location, &h.NPIs, &h.AsOfDate, &lastUpdate, &version, &financialAidPolicy); err != nil {
		return Hospital{}, fmt.Errorf("db: get hospital %s: %w", hospitalKey, err)
	}
	h.Address = address.String
	h.Location = location.String
	if version.Valid {
		v := version.String
		h.Version = &v
	}
	if financialAidPolicy.Valid {
		v := financialAidPolicy.String
		h.FinancialAidPolicy = &v
	}
	if lastUpdate.Valid {
		h.LastUpdate = &lastUpdate.Time
	}
	return h, nil
}

// --- pgtype conversion helpers ---

func toText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// toNumeric converts a float64 to pgtype.Numeric via big.Float text
// formatting, avoiding float64's binary-rounding artifacts in the decimal
// column. Grounded on parser/main.go and hospital_loader/load_pg.go's
// identical toNumeric/floatToNumeric helpers.
func toNumeric(f *float64) pgtype.Numeric {
	if f == nil {
		return pgtype.Numeric{Valid: false}
	}
	bf := big.NewFloat(*f)
	text := bf.Text('f', -1)
	var num pgtype.Numeric
	if err := num.Scan(text); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return num
}
