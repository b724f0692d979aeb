package utils

import "strings"

const minEmailLength = 6

// NormalizeEmail trims and lowercases an address. Persisted identities
// always go through this first so that re-submissions hit the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail applies the same shape check the onboarding chat uses:
// something before an "@", a dot somewhere after it, no spaces, and a
// minimum total length. It is deliberately loose; deliverability is not
// checked here.
func IsValidEmail(email string) bool {
	e := NormalizeEmail(email)
	if len(e) < minEmailLength {
		return false
	}
	if strings.ContainsAny(e, " \t") {
		return false
	}
	at := strings.Index(e, "@")
	if at <= 0 || at == len(e)-1 {
		return false
	}
	if strings.Contains(e[at+1:], "@") {
		return false
	}
	dot := strings.Index(e[at+1:], ".")
	return dot > 0 && at+1+dot < len(e)-1
}
