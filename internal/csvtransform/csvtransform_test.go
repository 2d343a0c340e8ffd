package csvtransform

import (
	"io"
	"strings"
	"testing"

	"github.com/gyeh/hospitalmrf/internal/model"
)

type stringReadCloser struct {
	io.Reader
}

func (stringReadCloser) Close() error { return nil }

func newTestReader(t *testing.T, csv string) *Reader {
	t.Helper()
	r, err := NewReader(stringReadCloser{strings.NewReader(csv)})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

func tallCSV(chargeRows string) string {
	var b strings.Builder
	b.WriteString("hospital_name,last_updated_on,version,hospital_location,hospital_address,license_number OH,financial_aid_policy\n")
	b.WriteString("Example Hospital,2024-01-01,1.0.0,Main Campus,123 Main St,LIC-998877,https://example.org/aid\n")
	b.WriteString("code|1,code|1|type,setting,description,payer_name,plan_name,gross_charge,negotiated_dollar\n")
	b.WriteString(chargeRows)
	return b.String()
}

func TestReaderMetadataParsedFromHeaderRows(t *testing.T) {
	r := newTestReader(t, tallCSV(""))
	meta := r.Metadata()

	if meta.HospitalName != "Example Hospital" {
		t.Errorf("HospitalName = %q", meta.HospitalName)
	}
	if meta.LicenseNumber != "998877" {
		t.Errorf("LicenseNumber = %q, want digits-only 998877", meta.LicenseNumber)
	}
	// The state is read from the trailing two characters of the *header*
	// ("license_number OH" -> "OH"), not the value column. Preserved bug,
	// see SPEC_FULL.md Sec 9.
	if meta.LicenseState != "OH" {
		t.Errorf("LicenseState = %q, want OH", meta.LicenseState)
	}
}

func TestNextChunkSingleCodeInpatientMatch(t *testing.T) {
	r := newTestReader(t, tallCSV("99213,CPT,Inpatient,Office visit,Acme Payer,Gold Plan,100.00,85.50\n"))

	recs, err := r.NextChunk()
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	rec := recs[0]
	wantID := model.ServiceID(model.SettingInpatient, "99213", "CPT", nil)
	if rec.Service.ServiceID != wantID {
		t.Errorf("ServiceID mismatch: got %s want %s", rec.Service.ServiceID, wantID)
	}
	if rec.Service.Setting != model.SettingInpatient {
		t.Errorf("Setting = %s", rec.Service.Setting)
	}
	if len(rec.PayerCharges) != 1 || rec.PayerCharges[0].PayerName != "Acme Payer" {
		t.Errorf("unexpected payer charges: %+v", rec.PayerCharges)
	}
}

func TestNextChunkBothSettingExpandsToTwoRecords(t *testing.T) {
	r := newTestReader(t, tallCSV("99213,CPT,Both,Office visit,Acme Payer,Gold Plan,100.00,85.50\n"))

	recs, err := r.NextChunk()
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records (Inpatient+Outpatient), got %d", len(recs))
	}
	if recs[0].Service.Setting != model.SettingInpatient || recs[1].Service.Setting != model.SettingOutpatient {
		t.Errorf("expected [Inpatient Outpatient], got [%s %s]", recs[0].Service.Setting, recs[1].Service.Setting)
	}
	if recs[0].Service.ServiceID == recs[1].Service.ServiceID {
		t.Error("expected distinct service_id per expanded setting")
	}
}

func TestNextChunkNonWhitelistedCPTDropped(t *testing.T) {
	r := newTestReader(t, tallCSV("99999,CPT,Inpatient,Unlisted,Acme Payer,Gold Plan,100.00,85.50\n"))

	recs, err := r.NextChunk()
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected non-whitelisted CPT code to be dropped, got %d records", len(recs))
	}
}

func TestNextChunkMSDRGAcceptsArbitraryCode(t *testing.T) {
	r := newTestReader(t, tallCSV("470,MS-DRG,Inpatient,Joint replacement,Acme Payer,Gold Plan,50000.00,42000.00\n"))

	recs, err := r.NextChunk()
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected MS-DRG row with arbitrary code to be accepted, got %d records", len(recs))
	}
	if recs[0].Service.Code != "470" || recs[0].Service.CodeType != "MS-DRG" {
		t.Errorf("unexpected service: %+v", recs[0].Service)
	}
}

func TestNextChunkBlankRowSkipped(t *testing.T) {
	r := newTestReader(t, tallCSV("\n99213,CPT,Inpatient,Office visit,Acme Payer,Gold Plan,100.00,85.50\n"))

	recs, err := r.NextChunk()
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected blank row to be skipped and 1 real record returned, got %d", len(recs))
	}
}

func TestNewReaderMalformedHeaderMissingRequiredSlots(t *testing.T) {
	var b strings.Builder
	b.WriteString("hospital_name,last_updated_on,version,hospital_location,hospital_address,license_number OH,financial_aid_policy\n")
	b.WriteString("Example Hospital,2024-01-01,1.0.0,Main Campus,123 Main St,LIC-998877,https://example.org/aid\n")
	b.WriteString("code|1,code|1|type,gross_charge\n")

	_, err := NewReader(stringReadCloser{strings.NewReader(b.String())})
	if err == nil {
		t.Fatal("expected error for header row missing setting/description columns")
	}
}
