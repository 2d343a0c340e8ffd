// Package model holds the canonical record types produced by the CSV and
// JSON transforms and consumed by the loader. Every field here survives
// the filter pass — nothing upstream of this package carries loose maps.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Setting is the care context a charge applies to. "Both" is a source-side
// expansion marker and must never reach a stored record.
type Setting string

const (
	SettingInpatient  Setting = "Inpatient"
	SettingOutpatient Setting = "Outpatient"
	SettingBoth       Setting = "Both"
)

// NormalizeSetting maps a raw source value to a canonical Setting per the
// contains-based rule: "inpatient" -> Inpatient, "outpatient" -> Outpatient,
// "both" -> Both, anything else is capitalized as-is.
func NormalizeSetting(raw string) Setting {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "inpatient"):
		return SettingInpatient
	case strings.Contains(s, "outpatient"):
		return SettingOutpatient
	case strings.Contains(s, "both"):
		return SettingBoth
	default:
		if s == "" {
			return ""
		}
		return Setting(strings.ToUpper(s[:1]) + s[1:])
	}
}

// ExpandSetting returns the one or two concrete settings a source row with
// setting `s` produces. "Both" duplicates into Inpatient and Outpatient;
// anything else passes through unchanged.
func ExpandSetting(s Setting) []Setting {
	if s == SettingBoth {
		return []Setting{SettingInpatient, SettingOutpatient}
	}
	return []Setting{s}
}

// Hospital is keyed by HospitalKey: "<digits>|<2-letter-state>" derived
// from the license number when present, else the hospital's published name.
type Hospital struct {
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

// HospitalKey derives the canonical natural key: "digits|STATE" when a
// license number is present, else the hospital name. Both the CSV and the
// JSON source translate to this one key at ingest time (spec Open Question:
// the two sources disagree on their native key; this is the implementer's
// documented pick).
func HospitalKey(licenseNumber, licenseState, hospitalName string) string {
	digits := onlyDigits(licenseNumber)
	if digits != "" && licenseState != "" {
		return digits + "|" + strings.ToUpper(licenseState)
	}
	return hospitalName
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

// Service is the shared, hospital-independent billable-item identity.
type Service struct {
	ServiceID   string
	Setting     Setting
	Code        string
	Description string
	CodeType    string
	Modifiers   *string // JSON source only; nil for CSV-derived services
}

// ServiceID computes the deterministic natural key for a service.
//
// The CSV source and the JSON source hash different inputs: CSV excludes
// modifiers, JSON includes them. This asymmetry is intentional (spec Open
// Question, preserved rather than "fixed") and is expressed here by the
// caller's choice of the modifiers argument — CSV transforms always pass
// nil, JSON transforms always pass a non-nil pointer (possibly to an empty
// string when modifier_code is absent).
func ServiceID(setting Setting, code, codeType string, modifiers *string) string {
	h := sha256.New()
	h.Write([]byte(string(setting)))
	h.Write([]byte("|"))
	h.Write([]byte(code))
	h.Write([]byte("|"))
	h.Write([]byte(codeType))
	if modifiers != nil {
		h.Write([]byte("|"))
		h.Write([]byte(*modifiers))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StandardCharge is keyed by (ServiceID, HospitalKey).
type StandardCharge struct {
	ServiceID      string
	HospitalKey    string
	Gross          *float64
	DiscountedCash *float64
	Min            *float64
	Max            *float64
}

// PayerCharge is keyed by (ServiceID, HospitalKey, PayerName, PlanName).
type PayerCharge struct {
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
	Median              *float64 // JSON-source only
	Percentile10th      *float64 // JSON-source only
	Percentile90th      *float64 // JSON-source only
	Count               *string  // JSON-source only
}

// Record bundles one filtered, setting-expanded service with its charges,
// the unit the CSV and JSON transforms both emit to the loader.
type Record struct {
	Service        Service
	StandardCharge StandardCharge
	PayerCharges   []PayerCharge
}
