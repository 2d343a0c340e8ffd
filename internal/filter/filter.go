// Package filter implements the two-tier code whitelist: MS-DRG and
// APR-DRG pass unconditionally; CPT and HCPCS must additionally appear in
// the fixed procedure-code allowlist.
package filter

import "strings"

// AllowedTypesUnconditional accepts any code value for these code types.
var AllowedTypesUnconditional = map[string]struct{}{
	"MS-DRG":  {},
	"APR-DRG": {},
}

// AllowedTypesConditional requires the code to also appear in
// AllowedCPTHCPCSCodes.
var AllowedTypesConditional = map[string]struct{}{
	"CPT":   {},
	"HCPCS": {},
}

// CodeCandidate is one (code, type) pair considered by Match, in the order
// it appeared in the source row/element. Order is the determinism contract:
// Match returns the first candidate that passes the whitelist.
type CodeCandidate struct {
	Code string
	Type string
}

// Match walks candidates in order and returns the first one that passes the
// two-tier whitelist. ok is false if none match (caller must drop the row).
func Match(candidates []CodeCandidate) (code, codeType string, ok bool) {
	for _, c := range candidates {
		t := strings.ToUpper(strings.TrimSpace(c.Type))
		code := strings.TrimSpace(c.Code)
		if code == "" {
			continue
		}
		if _, uncond := AllowedTypesUnconditional[t]; uncond {
			return code, t, true
		}
		if _, cond := AllowedTypesConditional[t]; cond {
			if _, allowed := AllowedCPTHCPCSCodes[code]; allowed {
				return code, t, true
			}
		}
	}
	return "", "", false
}
