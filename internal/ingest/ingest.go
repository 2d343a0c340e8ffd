// Package ingest wires fetch/extract/pipeline output to the CSV/JSON
// transforms and the loader: for one payload file it picks the right
// Reader by extension, derives the model.Hospital from the Reader's
// header metadata, and streams chunks into loader.Load.
//
// Grounded on parser/main.go's streamProcessCSV/streamProcessJSON, which
// play the same role for the teacher's five-table schema.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/hospitalmrf/internal/csvtransform"
	"github.com/gyeh/hospitalmrf/internal/jsontransform"
	"github.com/gyeh/hospitalmrf/internal/loader"
	"github.com/gyeh/hospitalmrf/internal/model"
	"github.com/gyeh/hospitalmrf/internal/progress"
)

// jsonChunkSize mirrors csvtransform.ChunkSize for the JSON reader, which
// takes its chunk size as a NextChunk argument rather than a package
// constant.
const jsonChunkSize = 100_000

// File loads one payload file (CSV or JSON) at path into pool, reporting
// progress through tracker. Returns the aggregate loader.Summary across
// every chunk read from the file.
func File(ctx context.Context, pool *pgxpool.Pool, path string, opts loader.Options, tracker progress.Tracker) (loader.Summary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(ctx, pool, path, opts, tracker)
	case ".json":
		return loadJSON(ctx, pool, path, opts, tracker)
	default:
		return loader.Summary{}, fmt.Errorf("ingest: unsupported file extension for %s", path)
	}
}

func loadCSV(ctx context.Context, pool *pgxpool.Pool, path string, opts loader.Options, tracker progress.Tracker) (loader.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return loader.Summary{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}

	r, err := csvtransform.NewReader(f)
	if err != nil {
		f.Close()
		return loader.Summary{}, fmt.Errorf("ingest: read CSV header %s: %w", path, err)
	}
	defer r.Close()

	hospital := hospitalFromCSVMetadata(r.Metadata())
	tracker.SetStage("loading csv: " + hospital.Name)

	var total loader.Summary
	for {
		chunk, readErr := r.NextChunk()
		if len(chunk) > 0 {
			summary, loadErr := loader.Load(ctx, pool, hospital, chunk, opts)
			addSummary(&total, summary)
			if loadErr != nil {
				return total, fmt.Errorf("ingest: loading chunk from %s: %w", path, loadErr)
			}
			tracker.SetCounter("rows", r.RowNum())
			opts.ReplaceHospitalCharges = false // only the first chunk should clear prior data
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return total, fmt.Errorf("ingest: reading %s: %w", path, readErr)
		}
	}
	return total, nil
}

func loadJSON(ctx context.Context, pool *pgxpool.Pool, path string, opts loader.Options, tracker progress.Tracker) (loader.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return loader.Summary{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}

	r, err := jsontransform.NewReader(f)
	if err != nil {
		f.Close()
		return loader.Summary{}, fmt.Errorf("ingest: read JSON header %s: %w", path, err)
	}
	defer r.Close()

	hospital := hospitalFromJSONMetadata(r.Metadata())
	tracker.SetStage("loading json: " + hospital.Name)

	var total loader.Summary
	var rowsSeen int64
	for {
		chunk, readErr := r.NextChunk(jsonChunkSize)
		if len(chunk) > 0 {
			rowsSeen += int64(len(chunk))
			summary, loadErr := loader.Load(ctx, pool, hospital, chunk, opts)
			addSummary(&total, summary)
			if loadErr != nil {
				return total, fmt.Errorf("ingest: loading chunk from %s: %w", path, loadErr)
			}
			tracker.SetCounter("rows", rowsSeen)
			opts.ReplaceHospitalCharges = false
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return total, fmt.Errorf("ingest: reading %s: %w", path, readErr)
		}
	}
	return total, nil
}

func addSummary(total *loader.Summary, delta loader.Summary) {
	total.Services += delta.Services
	total.StandardCharge += delta.StandardCharge
	total.PayerCharges += delta.PayerCharges
}

func hospitalFromCSVMetadata(m csvtransform.Metadata) model.Hospital {
	var lastUpdate *time.Time
	if t, err := time.Parse("2006-01-02", m.LastUpdatedOn); err == nil {
		lastUpdate = &t
	}
	asOf := time.Now()
	if lastUpdate != nil {
		asOf = *lastUpdate
	}

	var version, financialAidPolicy *string
	if m.Version != "" {
		v := m.Version
		version = &v
	}
	if m.FinancialAidPolicy != "" {
		p := m.FinancialAidPolicy
		financialAidPolicy = &p
	}

	return model.Hospital{
		HospitalKey:        model.HospitalKey(m.LicenseNumber, m.LicenseState, m.HospitalName),
		Name:               m.HospitalName,
		Address:            m.HospitalAddress,
		Location:           m.HospitalLocation,
		AsOfDate:           asOf,
		LastUpdate:         lastUpdate,
		Version:            version,
		FinancialAidPolicy: financialAidPolicy,
	}
}

func hospitalFromJSONMetadata(m jsontransform.Metadata) model.Hospital {
	var lastUpdate *time.Time
	if t, err := time.Parse("2006-01-02", m.LastUpdatedOn); err == nil {
		lastUpdate = &t
	}
	asOf := time.Now()
	if lastUpdate != nil {
		asOf = *lastUpdate
	}

	var version *string
	if m.Version != "" {
		v := m.Version
		version = &v
	}

	address := ""
	if len(m.HospitalAddress) > 0 {
		address = strings.Join(m.HospitalAddress, "; ")
	}
	location := ""
	if len(m.LocationName) > 0 {
		location = strings.Join(m.LocationName, "; ")
	}

	return model.Hospital{
		HospitalKey: model.HospitalKey(m.LicenseNumber, m.LicenseState, m.HospitalName),
		Name:        m.HospitalName,
		Address:     address,
		Location:    location,
		NPIs:        m.Type2NPI,
		AsOfDate:    asOf,
		LastUpdate:  lastUpdate,
		Version:     version,
	}
}
