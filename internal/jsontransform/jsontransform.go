// Package jsontransform implements the JSON Transform: a token-streamed
// pass over a machine-readable MRF JSON file that extracts the hospital
// header, then filters and setting-expands each standard_charge_information
// entry into canonical model.Record values.
//
// Grounded on parser/main.go's streamProcessJSON/streamStandardCharges: the
// file is never loaded whole into memory. encoding/json.Decoder reads the
// opening brace, walks top-level fields by name, and for the
// standard_charge_information array decodes one array element at a time
// with Decoder.Decode, the same token-by-token idiom the teacher uses for
// its own (differently shaped) MRF JSON.
package jsontransform

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gyeh/hospitalmrf/internal/filter"
	"github.com/gyeh/hospitalmrf/internal/model"
)

// flexibleFloat accepts either a JSON number or a comma-formatted string
// ("24,945.00"), matching the V2/V3 MRF schema's inconsistent encoding of
// dollar amounts. Grounded on parser's FlexibleFloat.
type flexibleFloat struct {
	Value *float64
}

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = &num
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		cleaned := strings.ReplaceAll(strings.ReplaceAll(str, ",", ""), "$", "")
		if cleaned == "" {
			f.Value = nil
			return nil
		}
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return err
		}
		f.Value = &v
		return nil
	}
	f.Value = nil
	return nil
}

type codeInformation struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

type payerInformation struct {
	PayerName                string         `json:"payer_name"`
	PlanName                 string         `json:"plan_name"`
	StandardChargeDollar     *flexibleFloat `json:"standard_charge_dollar,omitempty"`
	StandardChargeAlgorithm  *string        `json:"standard_charge_algorithm,omitempty"`
	StandardChargePercentage *flexibleFloat `json:"standard_charge_percent,omitempty"`
	EstimatedAmount          *flexibleFloat `json:"estimated_amount,omitempty"`
	MedianAmount             *flexibleFloat `json:"median_amount,omitempty"`
	Percentile10th           *flexibleFloat `json:"10th_percentile,omitempty"`
	Percentile90th           *flexibleFloat `json:"90th_percentile,omitempty"`
	Count                    *string        `json:"count,omitempty"`
	Methodology              *string        `json:"methodology,omitempty"`
}

type standardCharge struct {
	Minimum                *flexibleFloat     `json:"minimum,omitempty"`
	Maximum                *flexibleFloat     `json:"maximum,omitempty"`
	GrossCharge             *flexibleFloat     `json:"gross_charge,omitempty"`
	GrossCharges            *flexibleFloat     `json:"gross_charges,omitempty"` // V2 string format
	DiscountedCash          *flexibleFloat     `json:"discounted_cash,omitempty"`
	Setting                 string             `json:"setting"`
	ModifierCode            []string           `json:"modifier_code,omitempty"`
	PayersInformation       []payerInformation `json:"payers_information,omitempty"`
	AdditionalGenericNotes  *string            `json:"additional_generic_notes,omitempty"`
}

type standardChargeInformation struct {
	Description     string            `json:"description"`
	CodeInformation []codeInformation `json:"code_information"`
	StandardCharges []standardCharge  `json:"standard_charges"`
}

type attestation struct {
	Attestation  string `json:"attestation"`
	Affirmation  string `json:"affirmation"` // V2
	AttesterName string `json:"attester_name"`
}

type licenseInformation struct {
	LicenseNumber *string `json:"license_number,omitempty"`
	State         string  `json:"state"`
}

// Metadata holds the hospital-level header fields read before the
// standard_charge_information array.
type Metadata struct {
	HospitalName     string
	HospitalAddress  []string
	LastUpdatedOn    string
	Version          string
	LocationName     []string
	Type2NPI         []string
	LicenseNumber    string
	LicenseState     string
	AttesterName     string
}

// Reader streams one MRF JSON document and emits filtered, setting-expanded
// model.Record values a chunk at a time.
type Reader struct {
	dec     *json.Decoder
	closer  io.Closer
	meta    Metadata
	metaSet bool
	inArray bool // positioned just inside standard_charge_information
	done    bool
}

// NewReader opens the document, reads the opening brace, and advances to
// (and through) the header fields, stopping either once
// standard_charge_information is found or once the object is exhausted.
func NewReader(file io.ReadCloser) (*Reader, error) {
	dec := json.NewDecoder(file)
	r := &Reader{dec: dec, closer: file}

	tok, err := dec.Token()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read opening token: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		file.Close()
		return nil, fmt.Errorf("expected opening brace, got %v", tok)
	}

	if err := r.advanceToCharges(); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// advanceToCharges reads header fields until it reaches
// standard_charge_information (leaving the decoder positioned just after
// that field's opening '[') or the object closes (in which case Reader is
// marked done; the file carried only a header, no charges).
func (r *Reader) advanceToCharges() error {
	for r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return fmt.Errorf("read field name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected field name, got %v", tok)
		}

		switch name {
		case "hospital_name":
			if err := r.dec.Decode(&r.meta.HospitalName); err != nil {
				return fmt.Errorf("decode hospital_name: %w", err)
			}
		case "hospital_address":
			if err := r.dec.Decode(&r.meta.HospitalAddress); err != nil {
				return fmt.Errorf("decode hospital_address: %w", err)
			}
		case "last_updated_on":
			if err := r.dec.Decode(&r.meta.LastUpdatedOn); err != nil {
				return fmt.Errorf("decode last_updated_on: %w", err)
			}
		case "version":
			if err := r.dec.Decode(&r.meta.Version); err != nil {
				return fmt.Errorf("decode version: %w", err)
			}
		case "location_name":
			if err := r.dec.Decode(&r.meta.LocationName); err != nil {
				return fmt.Errorf("decode location_name: %w", err)
			}
		case "hospital_location": // V2 field name
			if err := r.dec.Decode(&r.meta.LocationName); err != nil {
				return fmt.Errorf("decode hospital_location: %w", err)
			}
		case "type_2_npi":
			if err := r.dec.Decode(&r.meta.Type2NPI); err != nil {
				return fmt.Errorf("decode type_2_npi: %w", err)
			}
		case "license_information":
			var li licenseInformation
			if err := r.dec.Decode(&li); err != nil {
				return fmt.Errorf("decode license_information: %w", err)
			}
			if li.LicenseNumber != nil {
				r.meta.LicenseNumber = *li.LicenseNumber
			}
			r.meta.LicenseState = li.State
		case "attestation":
			var a attestation
			if err := r.dec.Decode(&a); err != nil {
				return fmt.Errorf("decode attestation: %w", err)
			}
			r.meta.AttesterName = a.AttesterName
		case "affirmation": // V2 field name
			var a attestation
			if err := r.dec.Decode(&a); err != nil {
				return fmt.Errorf("decode affirmation: %w", err)
			}
			if r.meta.AttesterName == "" {
				r.meta.AttesterName = a.AttesterName
			}
		case "standard_charge_information":
			arrTok, err := r.dec.Token()
			if err != nil {
				return fmt.Errorf("read standard_charge_information array start: %w", err)
			}
			if d, ok := arrTok.(json.Delim); !ok || d != '[' {
				return fmt.Errorf("expected array start, got %v", arrTok)
			}
			r.inArray = true
			r.metaSet = true
			return nil
		default:
			var skip json.RawMessage
			if err := r.dec.Decode(&skip); err != nil {
				return fmt.Errorf("skip field %s: %w", name, err)
			}
		}
	}

	// Object closed with no standard_charge_information field found.
	r.metaSet = true
	r.done = true
	return nil
}

// Metadata returns the hospital header. Only valid after NewReader returns
// successfully.
func (r *Reader) Metadata() Metadata { return r.meta }

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// NextChunk decodes up to n items from standard_charge_information,
// applying the filter and setting-expansion rules, and returns the
// surviving canonical records. Returns io.EOF once the array (and
// document) is exhausted.
func (r *Reader) NextChunk(n int) ([]model.Record, error) {
	if r.done {
		return nil, io.EOF
	}

	var out []model.Record
	for i := 0; i < n && r.dec.More(); i++ {
		var sci standardChargeInformation
		if err := r.dec.Decode(&sci); err != nil {
			return out, fmt.Errorf("decode standard_charge_information item: %w", err)
		}
		out = append(out, transformItem(sci)...)
	}

	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil && err != io.EOF {
			return out, fmt.Errorf("read array end: %w", err)
		}
		r.done = true
		return out, io.EOF
	}
	return out, nil
}

func transformItem(sci standardChargeInformation) []model.Record {
	candidates := make([]filter.CodeCandidate, 0, len(sci.CodeInformation))
	for _, ci := range sci.CodeInformation {
		candidates = append(candidates, filter.CodeCandidate{Code: ci.Code, Type: ci.Type})
	}
	code, codeType, ok := filter.Match(candidates)
	if !ok {
		return nil
	}

	var records []model.Record
	for _, sc := range sci.StandardCharges {
		setting := model.NormalizeSetting(sc.Setting)

		gross := flexVal(sc.GrossCharge)
		if gross == nil {
			gross = flexVal(sc.GrossCharges) // V2 string-encoded fallback
		}
		discountedCash := flexVal(sc.DiscountedCash)
		min := flexVal(sc.Minimum)
		max := flexVal(sc.Maximum)

		modifiers := modifierString(sc.ModifierCode)

		// additional_generic_notes is charge-level in the source schema but
		// PayerCharge carries one note per payer row, so the same note is
		// stamped onto every payer charge this standard charge produces.
		additionalNotes := sc.AdditionalGenericNotes

		for _, s := range model.ExpandSetting(setting) {
			serviceID := model.ServiceID(s, code, codeType, &modifiers) // JSON includes modifiers, per spec
			svc := model.Service{
				ServiceID:   serviceID,
				Setting:     s,
				Code:        code,
				Description: sci.Description,
				CodeType:    codeType,
				Modifiers:   &modifiers,
			}
			chg := model.StandardCharge{
				ServiceID: serviceID, Gross: gross, DiscountedCash: discountedCash, Min: min, Max: max,
			}

			payerCharges := make([]model.PayerCharge, 0, len(sc.PayersInformation))
			for _, pi := range sc.PayersInformation {
				payerCharges = append(payerCharges, model.PayerCharge{
					ServiceID:           serviceID,
					PayerName:           pi.PayerName,
					PlanName:            pi.PlanName,
					Modifiers:           &modifiers,
					NegotiatedDollar:    flexVal(pi.StandardChargeDollar),
					NegotiatedPercent:   flexVal(pi.StandardChargePercentage),
					NegotiatedAlgorithm: pi.StandardChargeAlgorithm,
					EstimatedAmount:     flexVal(pi.EstimatedAmount),
					Methodology:         pi.Methodology,
					AdditionalNotes:     additionalNotes,
					Median:              flexVal(pi.MedianAmount),
					Percentile10th:      flexVal(pi.Percentile10th),
					Percentile90th:      flexVal(pi.Percentile90th),
					Count:               pi.Count,
				})
			}

			records = append(records, model.Record{Service: svc, StandardCharge: chg, PayerCharges: payerCharges})
		}
	}
	return records
}

func flexVal(f *flexibleFloat) *float64 {
	if f == nil {
		return nil
	}
	return f.Value
}

// modifierString joins modifier codes in source order, matching the
// natural key semantics that feed ServiceID: a row with modifier_code
// ["25", "59"] and a row with ["59", "25"] are treated as distinct
// services, same as two different code lists would be.
func modifierString(codes []string) string {
	return strings.Join(codes, ",")
}
