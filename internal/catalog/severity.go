package catalog

// Severity is the risk level attached to a disease record. It selects which
// recommendation list a diagnosis carries.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityMedium  Severity = "medium"
	SeverityNone    Severity = "none"
	SeverityUnknown Severity = "unknown"
)

// ParseSeverity maps a string onto a known severity. Anything unrecognized is
// SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityHigh, SeverityMedium, SeverityNone:
		return Severity(s)
	default:
		return SeverityUnknown
	}
}
