package filter

import "testing"

func TestMatchUnconditionalAnyCode(t *testing.T) {
	code, codeType, ok := Match([]CodeCandidate{{Code: "470", Type: "MS-DRG"}})
	if !ok {
		t.Fatal("expected MS-DRG to match regardless of code value")
	}
	if code != "470" || codeType != "MS-DRG" {
		t.Errorf("got (%s, %s)", code, codeType)
	}
}

func TestMatchConditionalAllowedCode(t *testing.T) {
	code, codeType, ok := Match([]CodeCandidate{{Code: "10060", Type: "CPT"}})
	if !ok {
		t.Fatal("expected whitelisted CPT code to match")
	}
	if code != "10060" || codeType != "CPT" {
		t.Errorf("got (%s, %s)", code, codeType)
	}
}

func TestMatchConditionalDisallowedCode(t *testing.T) {
	_, _, ok := Match([]CodeCandidate{{Code: "99999", Type: "CPT"}})
	if ok {
		t.Fatal("expected non-whitelisted CPT code to be dropped")
	}
}

func TestMatchUnknownCodeType(t *testing.T) {
	_, _, ok := Match([]CodeCandidate{{Code: "A1", Type: "NDC"}})
	if ok {
		t.Fatal("expected unrecognized code type to be dropped")
	}
}

func TestMatchFirstMatchWins(t *testing.T) {
	candidates := []CodeCandidate{
		{Code: "99999", Type: "CPT"},  // not whitelisted, skipped
		{Code: "470", Type: "MS-DRG"}, // first match
		{Code: "10060", Type: "CPT"},  // would also match, but comes second
	}
	code, codeType, ok := Match(candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if code != "470" || codeType != "MS-DRG" {
		t.Errorf("expected first matching candidate (470, MS-DRG), got (%s, %s)", code, codeType)
	}
}

func TestMatchCaseInsensitiveType(t *testing.T) {
	code, codeType, ok := Match([]CodeCandidate{{Code: "10060", Type: "cpt"}})
	if !ok {
		t.Fatal("expected lowercase code type to match case-insensitively")
	}
	if codeType != "CPT" {
		t.Errorf("expected normalized type CPT, got %s", codeType)
	}
	_ = code
}

func TestMatchNoCandidates(t *testing.T) {
	_, _, ok := Match(nil)
	if ok {
		t.Fatal("expected no match for empty candidate list")
	}
}
