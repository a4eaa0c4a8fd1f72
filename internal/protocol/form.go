package protocol

import "strings"

// Form maps url-encoded field names to their values. Values are kept exactly
// as received; callers unescape the fields they know to be percent-encoded.
type Form map[string]string

// ParseForm decodes text of the form k1=v1&k2=v2. Pairs without '=' are
// dropped, and the last occurrence of a repeated key wins. Empty input yields
// an empty, non-nil Form.
func ParseForm(raw string) Form {
	form := make(Form)
	if raw == "" {
		return form
	}
	for _, pair := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		form[key] = value
	}
	return form
}

// Lookup returns the raw value stored under key.
func (f Form) Lookup(key string) (string, bool) {
	value, ok := f[key]
	return value, ok
}
