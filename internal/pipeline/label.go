package pipeline

import "regexp"

// Composite device labels encode identity as a single string:
// "<id>-<category>-<state>" with an optional parenthesised qualifier,
// e.g. "NH021-雨量计-在线(备用)". Both ASCII and full-width parentheses
// occur in the raw feed.
var labelPattern = regexp.MustCompile(`^([A-Za-z0-9_]+)-([^-()（）]+)-([^-()（）]+)(?:[(（]([^)）]+)[)）])?$`)

// DeviceLabel is the structured form of a composite device label.
type DeviceLabel struct {
	ID        string
	Category  string
	State     string
	Qualifier string
}

// ParseDeviceLabel decomposes a raw label into its structured parts.
// It never fails loudly: a label that does not match the pattern
// returns ok=false and the caller branches on that. Non-matching rows
// are excluded from identity-based grouping but may still be grouped
// by quantity.
func ParseDeviceLabel(raw string) (DeviceLabel, bool) {
	m := labelPattern.FindStringSubmatch(raw)
	if m == nil {
		return DeviceLabel{}, false
	}
	return DeviceLabel{
		ID:        m[1],
		Category:  m[2],
		State:     m[3],
		Qualifier: m[4],
	}, true
}
