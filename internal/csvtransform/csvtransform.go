// Package csvtransform implements the CSV Transform: hospital-metadata
// extraction from rows 1-2, a streamed filter+setting-expand pass over the
// charge rows, and emission of canonical model.Record values.
//
// Grounded on hospital_loader's CSVReader and parser's CSVStreamReader
// streaming idiom: encoding/csv.Reader with LazyQuotes and a variable
// field count, BOM-stripped, read a chunk at a time rather than loaded
// whole into memory.
package csvtransform

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gyeh/hospitalmrf/internal/columns"
	"github.com/gyeh/hospitalmrf/internal/filter"
	"github.com/gyeh/hospitalmrf/internal/model"
)

// ChunkSize is the approximate number of data rows read per streamed
// batch, per spec.md's "chunks (~100,000 rows)".
const ChunkSize = 100_000

// Metadata holds the hospital header values parsed from CSV rows 1-2.
type Metadata struct {
	HospitalName       string
	LastUpdatedOn      string
	Version            string
	HospitalLocation   string
	HospitalAddress    string
	LicenseNumber      string
	LicenseState       string
	FinancialAidPolicy string
}

// Reader streams a wide-format MRF CSV (Tall or Wide payer layout) and
// emits filtered, setting-expanded model.Record values one at a time.
type Reader struct {
	csv     *csv.Reader
	closer  io.Closer
	rowNum  int64
	headers []string
	mapping columns.Mapping
	meta    Metadata
}

// NewReader decodes file from latin-1 (the MRF CSV default encoding per
// spec.md §6), strips a BOM if present, and reads the 3-row header block.
func NewReader(file io.ReadCloser) (*Reader, error) {
	raw := bufio.NewReader(file)
	if bom, err := raw.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		raw.Discard(3)
	}
	decoded := transform.NewReader(raw, charmap.ISO8859_1.NewDecoder())
	bufReader := bufio.NewReaderSize(decoded, 256*1024)

	cr := csv.NewReader(bufReader)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	r := &Reader{csv: cr, closer: file}
	if err := r.readHeaderBlock(); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeaderBlock() error {
	headerRow, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read metadata header row: %w", err)
	}
	r.rowNum++
	if len(headerRow) > 0 {
		headerRow[0] = strings.TrimPrefix(headerRow[0], "\ufeff")
	}

	valueRow, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read metadata value row: %w", err)
	}
	r.rowNum++

	r.meta = parseMetadata(headerRow, valueRow)

	chargeHeaders, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read charge header row: %w", err)
	}
	r.rowNum++

	for i, h := range chargeHeaders {
		chargeHeaders[i] = strings.TrimSpace(h)
	}
	r.headers = chargeHeaders
	r.mapping = columns.Discover(chargeHeaders)
	if !r.mapping.HasRequiredSlots() {
		return fmt.Errorf("malformed CSV: missing required setting/description columns")
	}

	return nil
}

// parseMetadata pairs row 1 headers with row 2 values, per spec.md §4.F
// Phase 1. Headers are compared case-insensitively against the exact names
// hospital_name, last_updated_on, version, hospital_location,
// hospital_address and financial_aid_policy; other spellings of those
// headers are not recognized. Only the license header is found by
// substring: license_number is derived by
// stripping non-digits from the value whose normalized header contains
// both "license" and "number", then the state is taken from the trailing
// two characters of the *header itself* — preserving the source's
// apparent bug (see SPEC_FULL.md §9).
func parseMetadata(headerRow, valueRow []string) Metadata {
	var m Metadata
	for i, col := range headerRow {
		if i >= len(valueRow) {
			break
		}
		col = strings.TrimSpace(col)
		val := strings.TrimSpace(valueRow[i])
		norm := strings.ToLower(col)

		switch {
		case strings.EqualFold(col, "hospital_name"):
			m.HospitalName = val
		case strings.EqualFold(col, "last_updated_on"):
			m.LastUpdatedOn = val
		case strings.EqualFold(col, "version"):
			m.Version = val
		case strings.EqualFold(col, "hospital_location"):
			m.HospitalLocation = val
		case strings.EqualFold(col, "hospital_address"):
			m.HospitalAddress = val
		case strings.Contains(norm, "license") && strings.Contains(norm, "number"):
			digits := onlyDigits(val)
			m.LicenseNumber = digits
			if len(col) >= 2 {
				m.LicenseState = strings.ToUpper(col[len(col)-2:])
			}
		case strings.EqualFold(col, "financial_aid_policy"):
			m.FinancialAidPolicy = val
		}
	}
	return m
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Metadata returns the parsed hospital header.
func (r *Reader) Metadata() Metadata { return r.meta }

// RowNum returns the current 1-based source row number.
func (r *Reader) RowNum() int64 { return r.rowNum }

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// NextChunk reads up to ChunkSize charge rows, applies the filter and
// setting-expansion rules, and returns the surviving canonical records.
// Returns io.EOF (with any records read before EOF) when the file is
// exhausted.
func (r *Reader) NextChunk() ([]model.Record, error) {
	var out []model.Record
	for i := 0; i < ChunkSize; i++ {
		row, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				return out, io.EOF
			}
			return out, fmt.Errorf("read row %d: %w", r.rowNum+1, err)
		}
		r.rowNum++

		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			i--
			continue
		}

		recs := r.transformRow(row)
		out = append(out, recs...)
	}
	return out, nil
}

func (r *Reader) transformRow(row []string) []model.Record {
	candidates := make([]filter.CodeCandidate, 0, len(r.mapping.CodeCols))
	for _, cc := range r.mapping.CodeCols {
		code := colAt(row, cc.CodeIdx)
		codeType := colAt(row, cc.TypeIdx)
		candidates = append(candidates, filter.CodeCandidate{Code: code, Type: codeType})
	}

	code, codeType, ok := filter.Match(candidates)
	if !ok {
		return nil
	}

	rawSetting := colAt(row, r.mapping.Setting)
	setting := model.NormalizeSetting(rawSetting)
	description := colAt(row, r.mapping.Description)

	gross := floatAt(row, r.mapping.Gross)
	discountedCash := floatAt(row, r.mapping.DiscountedCash)
	min := floatAt(row, r.mapping.Min)
	max := floatAt(row, r.mapping.Max)

	var payerName, planName *string
	if n := colAt(row, r.mapping.PayerName); n != "" {
		payerName = &n
	}
	if n := colAt(row, r.mapping.PlanName); n != "" {
		planName = &n
	}
	negotiatedDollar := floatAt(row, r.mapping.NegotiatedDollar)
	negotiatedPercent := floatAt(row, r.mapping.NegotiatedPercentage)
	var negotiatedAlgorithm *string
	if n := colAt(row, r.mapping.NegotiatedAlgorithm); n != "" {
		negotiatedAlgorithm = &n
	}
	estimatedAmount := floatAt(row, r.mapping.EstimatedAmount)
	var methodology *string
	if n := colAt(row, r.mapping.Methodology); n != "" {
		methodology = &n
	}
	var additionalNotes *string
	if n := colAt(row, r.mapping.AdditionalNotes); n != "" {
		additionalNotes = &n
	}

	var records []model.Record
	for _, s := range model.ExpandSetting(setting) {
		serviceID := model.ServiceID(s, code, codeType, nil) // CSV excludes modifiers, per spec
		svc := model.Service{
			ServiceID:   serviceID,
			Setting:     s,
			Code:        code,
			Description: description,
			CodeType:    codeType,
		}
		sc := model.StandardCharge{
			ServiceID: serviceID,
			Gross:     gross, DiscountedCash: discountedCash, Min: min, Max: max,
		}

		var payerCharges []model.PayerCharge
		if payerName != nil && planName != nil {
			payerCharges = append(payerCharges, model.PayerCharge{
				ServiceID: serviceID, PayerName: *payerName, PlanName: *planName,
				NegotiatedDollar: negotiatedDollar, NegotiatedPercent: negotiatedPercent,
				NegotiatedAlgorithm: negotiatedAlgorithm, EstimatedAmount: estimatedAmount,
				Methodology: methodology, AdditionalNotes: additionalNotes,
			})
		}

		records = append(records, model.Record{Service: svc, StandardCharge: sc, PayerCharges: payerCharges})
	}

	return records
}

func colAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func floatAt(row []string, idx int) *float64 {
	s := colAt(row, idx)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
