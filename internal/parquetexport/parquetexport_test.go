package parquetexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hospitalmrf/internal/model"
)

func sampleRecordWithPayers() model.Record {
	gross := 1000.0
	dollar := 850.0
	return model.Record{
		Service: model.Service{
			ServiceID: "svc-1", Setting: model.SettingInpatient, Code: "470", CodeType: "MS-DRG", Description: "Hip replacement",
		},
		StandardCharge: model.StandardCharge{ServiceID: "svc-1", HospitalKey: "hosp-1", Gross: &gross},
		PayerCharges: []model.PayerCharge{
			{ServiceID: "svc-1", HospitalKey: "hosp-1", PayerName: "Acme", PlanName: "PPO", NegotiatedDollar: &dollar},
		},
	}
}

func TestWriteRecordProducesOneRowPerPayerCharge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteRecord(sampleRecordWithPayers()); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	reader := parquet.NewGenericReader[ChargeRow](f, parquet.SchemaOf(ChargeRow{}))
	defer reader.Close()
	if reader.NumRows() != 1 {
		t.Errorf("NumRows() = %d, want 1", reader.NumRows())
	}

	rows := make([]ChargeRow, 1)
	n, err := reader.Read(rows)
	if err != nil && n == 0 {
		t.Fatalf("Read: %v", err)
	}
	if rows[0].PayerName != "Acme" {
		t.Errorf("PayerName = %q, want Acme", rows[0].PayerName)
	}
	if rows[0].GrossCharge != 1000.0 {
		t.Errorf("GrossCharge = %v, want 1000.0", rows[0].GrossCharge)
	}
	if fi.Size() == 0 {
		t.Error("expected non-empty parquet file")
	}
}

func TestWriteRecordWithNoPayerChargesWritesOneBaseRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	rec := sampleRecordWithPayers()
	rec.PayerCharges = nil
	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
