// Package parquetexport writes a flattened, columnar snapshot of a load
// run to a Parquet file for downstream analytics tooling that would
// rather scan a file than query Postgres directly.
//
// Grounded on hospital_to_duckdb/writer.go's ChargeWriter, which targets
// this same hospital-standard-charge row shape: zstd compression, 8KB
// pages for page-level filtering, 64MB row groups, and per-column
// statistics for predicate pushdown in downstream query engines.
package parquetexport

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/gyeh/hospitalmrf/internal/model"
)

// flushInterval bounds how many rows accumulate in the writer's internal
// buffer before a Flush, independent of the loader's own DB batch size.
const flushInterval = 100_000

// ChargeRow is one flattened (service, standard charge, payer charge) row,
// the unit this package writes — one model.Record with N payer charges
// expands into 1 row (no payer) or N rows (one per payer charge).
type ChargeRow struct {
	HospitalKey         string  `parquet:"hospital_key"`
	ServiceID           string  `parquet:"service_id"`
	Setting             string  `parquet:"setting"`
	Code                string  `parquet:"code"`
	CodeType            string  `parquet:"code_type"`
	Description         string  `parquet:"description"`
	GrossCharge         float64 `parquet:"gross_charge,optional"`
	DiscountedCash      float64 `parquet:"discounted_cash,optional"`
	Minimum             float64 `parquet:"minimum,optional"`
	Maximum             float64 `parquet:"maximum,optional"`
	PayerName           string  `parquet:"payer_name,optional"`
	PlanName            string  `parquet:"plan_name,optional"`
	NegotiatedDollar    float64 `parquet:"negotiated_dollar,optional"`
	NegotiatedAlgorithm string  `parquet:"negotiated_algorithm,optional"`
	NegotiatedPercent   float64 `parquet:"negotiated_percent,optional"`
}

// Writer accumulates ChargeRows and flushes them to a Parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[ChargeRow]
	count  int
}

// NewWriter creates a Parquet writer at path, tuned for a downstream query
// engine scanning the file rather than for minimal write latency.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("parquetexport: create %s: %w", path, err)
	}
	w := parquet.NewGenericWriter[ChargeRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.WriteBufferSize(64*1024*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("hospitalmrf", "1.0", ""),
	)
	return &Writer{file: file, writer: w}, nil
}

// WriteRecord flattens one model.Record into one or more ChargeRows and
// writes them. A record with no payer charges still produces one row
// carrying the standard-charge fields alone.
func (w *Writer) WriteRecord(rec model.Record) error {
	base := ChargeRow{
		HospitalKey:    rec.StandardCharge.HospitalKey,
		ServiceID:      rec.Service.ServiceID,
		Setting:        string(rec.Service.Setting),
		Code:           rec.Service.Code,
		CodeType:       rec.Service.CodeType,
		Description:    rec.Service.Description,
		GrossCharge:    floatOr(rec.StandardCharge.Gross),
		DiscountedCash: floatOr(rec.StandardCharge.DiscountedCash),
		Minimum:        floatOr(rec.StandardCharge.Min),
		Maximum:        floatOr(rec.StandardCharge.Max),
	}

	if len(rec.PayerCharges) == 0 {
		return w.writeRow(base)
	}

	for _, pc := range rec.PayerCharges {
		row := base
		row.PayerName = pc.PayerName
		row.PlanName = pc.PlanName
		row.NegotiatedDollar = floatOr(pc.NegotiatedDollar)
		row.NegotiatedPercent = floatOr(pc.NegotiatedPercent)
		if pc.NegotiatedAlgorithm != nil {
			row.NegotiatedAlgorithm = *pc.NegotiatedAlgorithm
		}
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes one already-built ChargeRow directly, for callers (like
// the export CLI command) reading rows straight out of Postgres rather
// than flattening them from a model.Record.
func (w *Writer) WriteRow(row ChargeRow) error {
	return w.writeRow(row)
}

func (w *Writer) writeRow(row ChargeRow) error {
	if _, err := w.writer.Write([]ChargeRow{row}); err != nil {
		return fmt.Errorf("parquetexport: write row: %w", err)
	}
	w.count++
	if w.count%flushInterval == 0 {
		if err := w.writer.Flush(); err != nil {
			return fmt.Errorf("parquetexport: flush: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the writer and its underlying file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("parquetexport: close writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the number of rows written so far.
func (w *Writer) Count() int { return w.count }

func floatOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
