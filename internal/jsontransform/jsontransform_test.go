package jsontransform

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

func newTestReader(t *testing.T, body string) *Reader {
	t.Helper()
	r, err := NewReader(stringReadCloser{strings.NewReader(body)})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

const headerFields = `
	"hospital_name": "Example Hospital",
	"hospital_address": ["123 Main St"],
	"last_updated_on": "2024-01-01",
	"version": "3.0.0",
	"location_name": ["Main Campus"],
	"license_information": {"license_number": "998877", "state": "OH"},
	"attestation": {"attestation": "true", "attester_name": "Jane Doe"},
`

func TestReaderMetadataParsedFromHeader(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": []}`
	r := newTestReader(t, body)
	meta := r.Metadata()

	if meta.HospitalName != "Example Hospital" {
		t.Errorf("HospitalName = %q", meta.HospitalName)
	}
	if meta.LicenseNumber != "998877" || meta.LicenseState != "OH" {
		t.Errorf("license = %q/%q", meta.LicenseNumber, meta.LicenseState)
	}
	if meta.AttesterName != "Jane Doe" {
		t.Errorf("AttesterName = %q", meta.AttesterName)
	}
}

func TestNextChunkSingleCodeInpatientMatch(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Office visit",
			"code_information": [{"code": "99213", "type": "CPT"}],
			"standard_charges": [
				{
					"setting": "Inpatient",
					"gross_charge": 100.0,
					"payers_information": [
						{"payer_name": "Acme Payer", "plan_name": "Gold Plan", "standard_charge_dollar": 85.5, "methodology": "fee schedule"}
					]
				}
			]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	rec := recs[0]
	emptyMods := ""
	wantID := model.ServiceID(model.SettingInpatient, "99213", "CPT", &emptyMods)
	if rec.Service.ServiceID != wantID {
		t.Errorf("ServiceID mismatch: got %s want %s", rec.Service.ServiceID, wantID)
	}
	if len(rec.PayerCharges) != 1 || rec.PayerCharges[0].PayerName != "Acme Payer" {
		t.Errorf("unexpected payer charges: %+v", rec.PayerCharges)
	}
}

func TestNextChunkModifiersIncludedInServiceID(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Office visit",
			"code_information": [{"code": "99213", "type": "CPT"}],
			"standard_charges": [
				{"setting": "Inpatient", "gross_charge": 100.0, "modifier_code": ["25"]}
			]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	plain := model.ServiceID(model.SettingInpatient, "99213", "CPT", strPtr(""))
	withMod := model.ServiceID(model.SettingInpatient, "99213", "CPT", strPtr("25"))
	if recs[0].Service.ServiceID != withMod {
		t.Errorf("expected modifier-qualified service_id %s, got %s", withMod, recs[0].Service.ServiceID)
	}
	if recs[0].Service.ServiceID == plain {
		t.Error("expected modifier-qualified service_id to differ from the unmodified one")
	}
}

func TestNextChunkBothSettingExpandsToTwoRecords(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Office visit",
			"code_information": [{"code": "99213", "type": "CPT"}],
			"standard_charges": [
				{"setting": "Both", "gross_charge": 100.0}
			]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Service.Setting != model.SettingInpatient || recs[1].Service.Setting != model.SettingOutpatient {
		t.Errorf("expected [Inpatient Outpatient], got [%s %s]", recs[0].Service.Setting, recs[1].Service.Setting)
	}
}

func TestNextChunkNonWhitelistedCPTDropped(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Unlisted",
			"code_information": [{"code": "99999", "type": "CPT"}],
			"standard_charges": [{"setting": "Inpatient", "gross_charge": 100.0}]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected non-whitelisted CPT code to be dropped, got %d", len(recs))
	}
}

func TestNextChunkGrossChargesV2StringFallback(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Joint replacement",
			"code_information": [{"code": "470", "type": "MS-DRG"}],
			"standard_charges": [{"setting": "Inpatient", "gross_charges": "24,945.00"}]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].StandardCharge.Gross == nil || *recs[0].StandardCharge.Gross != 24945.00 {
		t.Errorf("expected gross 24945.00 parsed from V2 string field, got %v", recs[0].StandardCharge.Gross)
	}
}

func TestNextChunkAdditionalGenericNotesAppliedToEveryPayerCharge(t *testing.T) {
	body := "{" + headerFields + `"standard_charge_information": [
		{
			"description": "Office visit",
			"code_information": [{"code": "99213", "type": "CPT"}],
			"standard_charges": [
				{
					"setting": "Inpatient",
					"gross_charge": 100.0,
					"additional_generic_notes": "bundled with facility fee",
					"payers_information": [
						{"payer_name": "Acme Payer", "plan_name": "Gold Plan", "standard_charge_dollar": 85.5},
						{"payer_name": "Other Payer", "plan_name": "Silver Plan", "standard_charge_dollar": 90.0, "additional_payer_notes": "ignored"}
					]
				}
			]
		}
	]}`
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != nil && err != io.EOF {
		t.Fatalf("NextChunk: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if len(recs[0].PayerCharges) != 2 {
		t.Fatalf("expected 2 payer charges, got %d", len(recs[0].PayerCharges))
	}
	for _, pc := range recs[0].PayerCharges {
		if pc.AdditionalNotes == nil || *pc.AdditionalNotes != "bundled with facility fee" {
			t.Errorf("payer %s: AdditionalNotes = %v, want the charge-level note", pc.PayerName, pc.AdditionalNotes)
		}
	}
}

func TestNextChunkNoChargesArrayYieldsEmptyAndEOF(t *testing.T) {
	body := "{" + strings.TrimRight(strings.TrimSpace(headerFields), ",") + "}"
	r := newTestReader(t, body)

	recs, err := r.NextChunk(10)
	if err != io.EOF {
		t.Fatalf("expected io.EOF for header-only document, got %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func strPtr(s string) *string { return &s }
